package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlayingMatch(t *testing.T) *Match {
	t.Helper()
	m := NewMatch("m1", "p1", "Alice", "🦊", 3)
	require.NoError(t, m.AddOpponent("p2", "Bob", "🐱"))
	return m
}

// playRound submits both moves and resolves.
func playRound(t *testing.T, m *Match, p1Move, p2Move Move) RoundResult {
	t.Helper()
	ready, err := m.SubmitMove("p1", p1Move)
	require.NoError(t, err)
	require.False(t, ready)
	ready, err = m.SubmitMove("p2", p2Move)
	require.NoError(t, err)
	require.True(t, ready)

	result, err := m.ResolveRound()
	require.NoError(t, err)
	return result
}

func TestMatch_AddOpponent(t *testing.T) {
	m := NewMatch("m1", "p1", "Alice", "🦊", 3)
	assert.Equal(t, StatusWaiting, m.Status())
	assert.Equal(t, 1, m.PlayersCount())

	// The owner cannot fill their own second slot.
	assert.ErrorIs(t, m.AddOpponent("p1", "Alice", "🦊"), ErrNotJoinable)

	require.NoError(t, m.AddOpponent("p2", "Bob", "🐱"))
	assert.Equal(t, StatusPlaying, m.Status())
	assert.Equal(t, 2, m.PlayersCount())

	assert.ErrorIs(t, m.AddOpponent("p3", "Carol", "🐼"), ErrMatchFull)
}

func TestMatch_SubmitMoveValidation(t *testing.T) {
	m := NewMatch("m1", "p1", "Alice", "🦊", 3)

	_, err := m.SubmitMove("p1", MoveRock)
	assert.ErrorIs(t, err, ErrNotPlaying, "waiting match accepts no moves")

	require.NoError(t, m.AddOpponent("p2", "Bob", "🐱"))

	_, err = m.SubmitMove("p1", "lizard")
	assert.ErrorIs(t, err, ErrInvalidMove)

	_, err = m.SubmitMove("stranger", MoveRock)
	assert.ErrorIs(t, err, ErrUnknownParticipant)
}

func TestMatch_DuplicateMoveRejected(t *testing.T) {
	m := newPlayingMatch(t)

	_, err := m.SubmitMove("p1", MoveRock)
	require.NoError(t, err)

	_, err = m.SubmitMove("p1", MovePaper)
	assert.ErrorIs(t, err, ErrMoveAlreadySubmitted)

	// The first move stays recorded.
	snap := m.Snapshot("p1")
	assert.Equal(t, "rock", snap.Player1.Choice)
}

func TestMatch_FullScenario(t *testing.T) {
	m := newPlayingMatch(t)

	result := playRound(t, m, MoveRock, MoveScissors)
	assert.Equal(t, OutcomePlayer1, result.RoundWinner)
	assert.False(t, result.Finished)

	snap := m.Snapshot("")
	assert.Equal(t, 1, snap.Player1.Score)
	assert.Equal(t, 0, snap.Player2.Score)
	assert.Equal(t, "player1", snap.RoundWinner)

	require.NoError(t, m.AdvanceRound())
	assert.Equal(t, 2, m.Round())
	snap = m.Snapshot("")
	assert.False(t, snap.Player1.HasChosen)
	assert.False(t, snap.Player2.HasChosen)
	assert.Empty(t, snap.RoundWinner)

	// Second straight win ends the match: 2 > 3/2.
	result = playRound(t, m, MovePaper, MoveRock)
	assert.True(t, result.Finished)
	assert.Equal(t, OutcomePlayer1, result.Winner)
	assert.Equal(t, StatusFinished, m.Status())

	_, err := m.SubmitMove("p2", MoveRock)
	assert.ErrorIs(t, err, ErrNotPlaying, "finishing is monotonic")
}

func TestMatch_TiedMatchGoesToRoundLimit(t *testing.T) {
	m := newPlayingMatch(t)

	result := playRound(t, m, MoveRock, MoveScissors)
	require.False(t, result.Finished)
	require.NoError(t, m.AdvanceRound())

	result = playRound(t, m, MoveRock, MovePaper)
	require.False(t, result.Finished)
	require.NoError(t, m.AdvanceRound())

	result = playRound(t, m, MoveRock, MoveRock)
	assert.Equal(t, OutcomeTie, result.RoundWinner)
	assert.True(t, result.Finished, "round limit reached")
	assert.Equal(t, OutcomeTie, result.Winner)
}

func TestMatch_Redaction(t *testing.T) {
	m := newPlayingMatch(t)

	_, err := m.SubmitMove("p1", MoveRock)
	require.NoError(t, err)

	// The opponent sees only that a move is locked in.
	opponentView := m.Snapshot("p2")
	assert.Empty(t, opponentView.Player1.Choice)
	assert.True(t, opponentView.Player1.HasChosen)

	// The submitter sees their own move.
	ownView := m.Snapshot("p1")
	assert.Equal(t, "rock", ownView.Player1.Choice)

	// Once both moves are in, the snapshot discloses both.
	_, err = m.SubmitMove("p2", MoveScissors)
	require.NoError(t, err)
	opponentView = m.Snapshot("p2")
	assert.Equal(t, "rock", opponentView.Player1.Choice)
}

func TestMatch_AdvanceGuards(t *testing.T) {
	m := newPlayingMatch(t)

	assert.ErrorIs(t, m.AdvanceRound(), ErrRoundNotResolved)

	playRound(t, m, MoveRock, MoveScissors)

	stale := m.Version()
	require.NoError(t, m.Reset())
	assert.ErrorIs(t, m.AdvanceRoundIf(stale), ErrStaleVersion)
	assert.Equal(t, 1, m.Round())
}

func TestMatch_ResolveGuards(t *testing.T) {
	m := newPlayingMatch(t)

	_, err := m.ResolveRound()
	assert.ErrorIs(t, err, ErrRoundNotReady)

	playRound(t, m, MoveRock, MoveScissors)

	// A round resolves exactly once.
	_, err = m.ResolveRound()
	assert.ErrorIs(t, err, ErrRoundNotReady)
}

func TestMatch_Reset(t *testing.T) {
	waiting := NewMatch("m2", "p1", "Alice", "🦊", 3)
	assert.ErrorIs(t, waiting.Reset(), ErrInvalidState)

	m := newPlayingMatch(t)
	playRound(t, m, MoveRock, MoveScissors)
	require.NoError(t, m.AdvanceRound())
	playRound(t, m, MovePaper, MoveRock)
	require.Equal(t, StatusFinished, m.Status())

	require.NoError(t, m.Reset())
	assert.Equal(t, StatusPlaying, m.Status())
	assert.Equal(t, 1, m.Round())
	snap := m.Snapshot("")
	assert.Zero(t, snap.Player1.Score)
	assert.Zero(t, snap.Player2.Score)
	assert.Empty(t, snap.Winner)
}

func TestMatch_Abandon(t *testing.T) {
	m := newPlayingMatch(t)
	m.Abandon()
	assert.Equal(t, StatusAbandoned, m.Status())

	_, err := m.SubmitMove("p1", MoveRock)
	assert.ErrorIs(t, err, ErrNotPlaying)
	assert.ErrorIs(t, m.Reset(), ErrInvalidState, "abandoned is terminal")

	// A finished match keeps its result.
	finished := newPlayingMatch(t)
	playRound(t, finished, MoveRock, MoveScissors)
	require.NoError(t, finished.AdvanceRound())
	playRound(t, finished, MovePaper, MoveRock)
	finished.Abandon()
	assert.Equal(t, StatusFinished, finished.Status())
}

func TestMatch_TakeSummary(t *testing.T) {
	m := newPlayingMatch(t)

	_, ok := m.TakeSummary()
	assert.False(t, ok, "no summary before finish")

	playRound(t, m, MoveRock, MoveScissors)
	require.NoError(t, m.AdvanceRound())
	playRound(t, m, MovePaper, MoveRock)

	summary, ok := m.TakeSummary()
	require.True(t, ok)
	assert.Equal(t, "m1", summary.MatchID)
	assert.Equal(t, OutcomePlayer1, summary.Winner)
	assert.Equal(t, 2, summary.Player1.Score)
	assert.Equal(t, 0, summary.Player2.Score)
	assert.Len(t, summary.Rounds, 2)

	_, ok = m.TakeSummary()
	assert.False(t, ok, "summary is handed out exactly once")
}
