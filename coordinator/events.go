// coordinator/events.go
package coordinator

import (
	"github.com/wfunc/rpsserver/match"
	"github.com/wfunc/rpsserver/profile"
)

// Outbound event payloads. Shapes follow the client protocol; every
// game state travels as a match snapshot.

type JoinedLobbyEvent struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Avatar     string `json:"avatar"`
}

type GameCreatedEvent struct {
	GameID    string         `json:"gameId"`
	GameState match.Snapshot `json:"gameState"`
}

type GameStateEvent struct {
	GameState match.Snapshot `json:"gameState"`
}

type RoundResultEvent struct {
	GameState   match.Snapshot `json:"gameState"`
	RoundWinner string         `json:"roundWinner"`
}

type GameFinishedEvent struct {
	GameState match.Snapshot `json:"gameState"`
	Winner    string         `json:"winner"`
}

type PlayerDisconnectedEvent struct {
	Message string `json:"message"`
}

type AvatarUpdatedEvent struct {
	Avatar  string          `json:"avatar"`
	Profile profile.Profile `json:"profile"`
}

type HistoryEvent struct {
	History []match.Summary `json:"history"`
}
