package profile

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/rpsserver/match"
)

func makeSummary(id string, winner match.Outcome, p1Score, p2Score int) match.Summary {
	now := time.Now()
	return match.Summary{
		MatchID:    id,
		Player1:    match.SummaryPlayer{ID: "p1", Name: "Alice", Avatar: "🦊", Score: p1Score},
		Player2:    match.SummaryPlayer{ID: "p2", Name: "Bob", Avatar: "🐱", Score: p2Score},
		Winner:     winner,
		CreatedAt:  now.Add(-time.Minute),
		FinishedAt: now,
	}
}

func TestStore_GetOrCreate(t *testing.T) {
	s := NewStore(20)

	created := s.GetOrCreate("p1", "Alice", "🦊")
	assert.Equal(t, "Alice", created.Name)
	assert.Zero(t, created.Stats.GamesPlayed)

	// Lookups are idempotent; the stored identity wins.
	again := s.GetOrCreate("p1", "Imposter", "🐍")
	assert.Equal(t, "Alice", again.Name)
	assert.Equal(t, "🦊", again.Avatar)
}

func TestStore_RecordMatchCounters(t *testing.T) {
	s := NewStore(20)
	s.RecordMatch(makeSummary("g1", match.OutcomePlayer1, 2, 0))

	winner, ok := s.Profile("p1")
	require.True(t, ok)
	assert.Equal(t, 1, winner.Stats.GamesPlayed)
	assert.Equal(t, 1, winner.Stats.Wins)
	assert.Equal(t, 0, winner.Stats.Losses)
	assert.Equal(t, 2, winner.Stats.RoundsWon)
	assert.Equal(t, 0, winner.Stats.RoundsLost)
	assert.Equal(t, 100, winner.Stats.WinRate)

	loser, ok := s.Profile("p2")
	require.True(t, ok)
	assert.Equal(t, 1, loser.Stats.Losses)
	assert.Equal(t, 2, loser.Stats.RoundsLost)
	assert.Equal(t, 0, loser.Stats.WinRate)
}

func TestStore_RecordMatchTie(t *testing.T) {
	s := NewStore(20)
	s.RecordMatch(makeSummary("g1", match.OutcomeTie, 1, 1))

	p, ok := s.Profile("p1")
	require.True(t, ok)
	assert.Equal(t, 1, p.Stats.Ties)
	assert.Zero(t, p.Stats.Wins)
	assert.Zero(t, p.Stats.WinRate, "ties are not decisive")
}

func TestStore_WinRateRounds(t *testing.T) {
	s := NewStore(20)
	s.RecordMatch(makeSummary("g1", match.OutcomePlayer1, 2, 1))
	s.RecordMatch(makeSummary("g2", match.OutcomePlayer1, 2, 0))
	s.RecordMatch(makeSummary("g3", match.OutcomePlayer2, 0, 2))

	p, _ := s.Profile("p1")
	assert.Equal(t, 67, p.Stats.WinRate, "2/3 decisive wins")
}

func TestStore_HistoryCapAndOrder(t *testing.T) {
	s := NewStore(2)
	for i := 1; i <= 3; i++ {
		s.RecordMatch(makeSummary(fmt.Sprintf("g%d", i), match.OutcomePlayer1, 2, 0))
	}

	history := s.History("p1", 10)
	require.Len(t, history, 2, "bounded by the cap")
	assert.Equal(t, "g3", history[0].MatchID, "most recent first")
	assert.Equal(t, "g2", history[1].MatchID)
}

func TestStore_HistoryLimit(t *testing.T) {
	s := NewStore(20)
	for i := 1; i <= 3; i++ {
		s.RecordMatch(makeSummary(fmt.Sprintf("g%d", i), match.OutcomePlayer1, 2, 0))
	}

	assert.Len(t, s.History("p1", 1), 1)
	assert.Len(t, s.History("p1", 0), 3, "non-positive limit defaults to 10")
	assert.Nil(t, s.History("ghost", 5))
}

func TestStore_UpdateAvatar(t *testing.T) {
	s := NewStore(20)

	_, err := s.UpdateAvatar("ghost", "🤖")
	assert.ErrorIs(t, err, ErrNotFound)

	s.GetOrCreate("p1", "Alice", "🦊")
	p, err := s.UpdateAvatar("p1", "🤖")
	require.NoError(t, err)
	assert.Equal(t, "🤖", p.Avatar)
}
