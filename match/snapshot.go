// match/snapshot.go
package match

import "time"

// PlayerView 快照中的玩家视图. Choice is omitted while redacted;
// HasChosen still tells the opponent a move is locked in.
type PlayerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Choice    string `json:"choice,omitempty"`
	HasChosen bool   `json:"hasChosen"`
	Score     int    `json:"score"`
}

// Snapshot is an immutable view of a match, safe to marshal and ship
// to clients.
type Snapshot struct {
	ID          string      `json:"id"`
	Player1     PlayerView  `json:"player1"`
	Player2     *PlayerView `json:"player2"`
	Status      string      `json:"status"`
	Round       int         `json:"round"`
	MaxRounds   int         `json:"maxRounds"`
	Winner      string      `json:"winner,omitempty"`
	RoundWinner string      `json:"roundWinner,omitempty"`
}

// RoundRecord is one completed round in the match log.
type RoundRecord struct {
	Round         int       `json:"round"`
	Player1Choice string    `json:"player1Choice"`
	Player2Choice string    `json:"player2Choice"`
	Timestamp     time.Time `json:"timestamp"`
}

// SummaryPlayer 结算摘要中的玩家信息
type SummaryPlayer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Score  int    `json:"score"`
}

// Summary is the completed-match record forwarded to profile
// aggregation.
type Summary struct {
	MatchID         string        `json:"id"`
	Player1         SummaryPlayer `json:"player1"`
	Player2         SummaryPlayer `json:"player2"`
	Winner          Outcome       `json:"winner"`
	Rounds          []RoundRecord `json:"rounds"`
	CreatedAt       time.Time     `json:"createdAt"`
	FinishedAt      time.Time     `json:"finishedAt"`
	DurationSeconds int           `json:"duration"`
}

// ListEntry is one row in the lobby games list.
type ListEntry struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	PlayersCount int       `json:"playersCount"`
	Round        int       `json:"round"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Recorder receives finished-match summaries. Implemented by the
// profile store; the registry forwards summaries during reclamation.
type Recorder interface {
	RecordMatch(summary Summary)
}
