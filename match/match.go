// match/match.go
package match

import (
	"sync"
	"time"
)

// Status 表示对局的生命周期状态
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusPlaying   Status = "playing"
	StatusFinished  Status = "finished"
	StatusAbandoned Status = "abandoned"
)

// Participant is one player's slot inside a match. Owned exclusively
// by its Match; never shared across matches.
type Participant struct {
	ID     string
	Name   string
	Avatar string

	move    Move
	hasMove bool
	score   int
}

// RoundResult is what ResolveRound reports back to the caller, which
// is responsible for scheduling the follow-up transition.
type RoundResult struct {
	RoundWinner Outcome
	Finished    bool
	Winner      Outcome
}

// Match 是一局对战的核心结构, 状态机: waiting -> playing -> finished,
// 任何未完成状态都可以转入 abandoned.
//
// All mutations go through the mutex: both participants' move
// submissions, deferred round transitions and the registry's cleanup
// tick can race on the same match.
type Match struct {
	id         string
	player1    *Participant
	player2    *Participant // nil while waiting for an opponent
	status     Status
	round      int
	roundLimit int

	roundWinner Outcome
	winner      Outcome
	resolved    bool // current round resolved, awaiting advance
	recorded    bool // summary already handed to the recorder

	// version is bumped by every transition that invalidates scheduled
	// work (advance, reset, abandon). Deferred callbacks capture it at
	// scheduling time and verify it before applying.
	version uint64

	createdAt  time.Time
	finishedAt time.Time
	rounds     []RoundRecord

	mu sync.Mutex
}

// NewMatch creates a waiting match owned by its first participant.
func NewMatch(id, ownerID, ownerName, ownerAvatar string, roundLimit int) *Match {
	return &Match{
		id: id,
		player1: &Participant{
			ID:     ownerID,
			Name:   ownerName,
			Avatar: ownerAvatar,
		},
		status:     StatusWaiting,
		round:      1,
		roundLimit: roundLimit,
		createdAt:  time.Now(),
	}
}

// ID returns the match identifier.
func (m *Match) ID() string {
	return m.id
}

// Status returns the current lifecycle status.
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Version returns the current transition counter. Capture it before
// scheduling a deferred transition and pass it to AdvanceRoundIf or
// compare it again at delivery time.
func (m *Match) Version() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version
}

// Round returns the current round number.
func (m *Match) Round() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.round
}

// CreatedAt returns the creation timestamp.
func (m *Match) CreatedAt() time.Time {
	return m.createdAt
}

// PlayersCount returns 1 or 2.
func (m *Match) PlayersCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.player2 == nil {
		return 1
	}
	return 2
}

// PlayerIDs returns both participant IDs; the second is empty while
// the match is waiting.
func (m *Match) PlayerIDs() (string, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.player2 == nil {
		return m.player1.ID, ""
	}
	return m.player1.ID, m.player2.ID
}

// OpponentOf returns the other participant's ID, or "" if the given
// participant is alone or unknown.
func (m *Match) OpponentOf(participantID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.player2 == nil {
		return ""
	}
	switch participantID {
	case m.player1.ID:
		return m.player2.ID
	case m.player2.ID:
		return m.player1.ID
	}
	return ""
}

// AddOpponent fills the second slot and starts the match.
func (m *Match) AddOpponent(id, name, avatar string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusWaiting || m.player2 != nil {
		return ErrMatchFull
	}
	if id == m.player1.ID {
		return ErrNotJoinable
	}

	m.player2 = &Participant{ID: id, Name: name, Avatar: avatar}
	m.status = StatusPlaying
	m.version++
	return nil
}

// SubmitMove records a participant's move for the current round and
// reports whether both moves are now present. A second submission for
// the same round is rejected, never overwritten.
func (m *Match) SubmitMove(participantID string, mv Move) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusPlaying {
		return false, ErrNotPlaying
	}
	if !mv.Valid() {
		return false, ErrInvalidMove
	}

	p := m.participantLocked(participantID)
	if p == nil {
		return false, ErrUnknownParticipant
	}
	if p.hasMove {
		return false, ErrMoveAlreadySubmitted
	}

	p.move = mv
	p.hasMove = true
	return m.player1.hasMove && m.player2.hasMove, nil
}

// ResolveRound computes the round outcome once both moves are in,
// updates scores and the round log, and finishes the match when the
// end condition holds. The caller schedules the follow-up advance;
// the match never self-schedules.
func (m *Match) ResolveRound() (RoundResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusPlaying {
		return RoundResult{}, ErrNotPlaying
	}
	// A resolved round is no longer round-ready.
	if m.resolved || !m.player1.hasMove || !m.player2.hasMove {
		return RoundResult{}, ErrRoundNotReady
	}

	outcome, err := ResolveMoves(m.player1.move, m.player2.move)
	if err != nil {
		return RoundResult{}, err
	}

	m.rounds = append(m.rounds, RoundRecord{
		Round:         m.round,
		Player1Choice: string(m.player1.move),
		Player2Choice: string(m.player2.move),
		Timestamp:     time.Now(),
	})

	switch outcome {
	case OutcomePlayer1:
		m.player1.score++
	case OutcomePlayer2:
		m.player2.score++
	}
	m.roundWinner = outcome
	m.resolved = true

	result := RoundResult{RoundWinner: outcome}
	if m.round >= m.roundLimit || 2*m.player1.score > m.roundLimit || 2*m.player2.score > m.roundLimit {
		m.finishLocked()
		result.Finished = true
		result.Winner = m.winner
	}
	return result, nil
}

// finishLocked ends the match; a higher score wins, equal scores tie.
func (m *Match) finishLocked() {
	switch {
	case m.player1.score > m.player2.score:
		m.winner = OutcomePlayer1
	case m.player2.score > m.player1.score:
		m.winner = OutcomePlayer2
	default:
		m.winner = OutcomeTie
	}
	m.status = StatusFinished
	m.finishedAt = time.Now()
}

// AdvanceRound moves a playing match to the next round after the
// current one has resolved. Calling it before resolution fails, which
// keeps a stale deferred callback from corrupting a reset match.
func (m *Match) AdvanceRound() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advanceLocked()
}

// AdvanceRoundIf advances only when the match version still equals
// the one captured at scheduling time.
func (m *Match) AdvanceRoundIf(version uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version != version {
		return ErrStaleVersion
	}
	return m.advanceLocked()
}

func (m *Match) advanceLocked() error {
	if m.status != StatusPlaying {
		return ErrNotPlaying
	}
	if !m.resolved {
		return ErrRoundNotResolved
	}
	m.round++
	m.player1.move, m.player1.hasMove = "", false
	m.player2.move, m.player2.hasMove = "", false
	m.roundWinner = OutcomeNone
	m.resolved = false
	m.version++
	return nil
}

// Reset returns a playing or finished match to round 1 with scores
// cleared. The round log is kept. Requires both participants.
func (m *Match) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.player2 == nil {
		return ErrInvalidState
	}
	if m.status != StatusPlaying && m.status != StatusFinished {
		return ErrInvalidState
	}

	m.player1.move, m.player1.hasMove, m.player1.score = "", false, 0
	m.player2.move, m.player2.hasMove, m.player2.score = "", false, 0
	m.round = 1
	m.roundWinner = OutcomeNone
	m.winner = OutcomeNone
	m.resolved = false
	m.recorded = false
	m.status = StatusPlaying
	m.finishedAt = time.Time{}
	m.version++
	return nil
}

// Abandon marks a non-finished match as terminally abandoned.
// Finished matches keep their result.
func (m *Match) Abandon() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status == StatusFinished || m.status == StatusAbandoned {
		return
	}
	m.status = StatusAbandoned
	m.version++
}

// Snapshot returns an immutable view of the match. When a viewing
// participant is given and the current round is not yet resolved, the
// opponent's move value is redacted; only the hasChosen flag leaks.
func (m *Match) Snapshot(viewerID string) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	hideFor := func(p *Participant) bool {
		if viewerID == "" || m.status != StatusPlaying {
			return false
		}
		if m.player2 != nil && m.player1.hasMove && m.player2.hasMove {
			return false
		}
		return p.ID != viewerID
	}

	snap := Snapshot{
		ID:          m.id,
		Player1:     m.playerViewLocked(m.player1, hideFor(m.player1)),
		Status:      string(m.status),
		Round:       m.round,
		MaxRounds:   m.roundLimit,
		Winner:      string(m.winner),
		RoundWinner: string(m.roundWinner),
	}
	if m.player2 != nil {
		view := m.playerViewLocked(m.player2, hideFor(m.player2))
		snap.Player2 = &view
	}
	return snap
}

func (m *Match) playerViewLocked(p *Participant, hideMove bool) PlayerView {
	view := PlayerView{
		ID:        p.ID,
		Name:      p.Name,
		Avatar:    p.Avatar,
		HasChosen: p.hasMove,
		Score:     p.score,
	}
	if p.hasMove && !hideMove {
		view.Choice = string(p.move)
	}
	return view
}

// ListEntry returns the lobby listing row for this match.
func (m *Match) ListEntry() ListEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 1
	if m.player2 != nil {
		count = 2
	}
	return ListEntry{
		ID:           m.id,
		Status:       string(m.status),
		PlayersCount: count,
		Round:        m.round,
		CreatedAt:    m.createdAt,
	}
}

// TakeSummary hands out the finished-match summary exactly once, so
// the immediate recording on finish and the reclamation sweep cannot
// double-count a match.
func (m *Match) TakeSummary() (Summary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusFinished || m.recorded || m.player2 == nil {
		return Summary{}, false
	}
	m.recorded = true

	rounds := make([]RoundRecord, len(m.rounds))
	copy(rounds, m.rounds)

	return Summary{
		MatchID: m.id,
		Player1: SummaryPlayer{
			ID:     m.player1.ID,
			Name:   m.player1.Name,
			Avatar: m.player1.Avatar,
			Score:  m.player1.score,
		},
		Player2: SummaryPlayer{
			ID:     m.player2.ID,
			Name:   m.player2.Name,
			Avatar: m.player2.Avatar,
			Score:  m.player2.score,
		},
		Winner:          m.winner,
		Rounds:          rounds,
		CreatedAt:       m.createdAt,
		FinishedAt:      m.finishedAt,
		DurationSeconds: int(m.finishedAt.Sub(m.createdAt).Seconds()),
	}, true
}

func (m *Match) participantLocked(id string) *Participant {
	if m.player1 != nil && m.player1.ID == id {
		return m.player1
	}
	if m.player2 != nil && m.player2.ID == id {
		return m.player2
	}
	return nil
}
