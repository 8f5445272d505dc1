package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorderStub captures summaries forwarded during reclamation.
type recorderStub struct {
	summaries []Summary
}

func (r *recorderStub) RecordMatch(summary Summary) {
	r.summaries = append(r.summaries, summary)
}

func finishMatch(t *testing.T, m *Match) {
	t.Helper()
	p1, p2 := m.PlayerIDs()
	for _, moves := range [][2]Move{{MoveRock, MoveScissors}, {MovePaper, MoveRock}} {
		_, err := m.SubmitMove(p1, moves[0])
		require.NoError(t, err)
		_, err = m.SubmitMove(p2, moves[1])
		require.NoError(t, err)
		result, err := m.ResolveRound()
		require.NoError(t, err)
		if result.Finished {
			return
		}
		require.NoError(t, m.AdvanceRound())
	}
	t.Fatal("match did not finish")
}

func TestRegistry_CreateIndexesOwner(t *testing.T) {
	r := NewRegistry(3, nil)

	m := r.Create("p1", "Alice", "🦊")
	assert.Equal(t, StatusWaiting, m.Status())

	found, exists := r.Get(m.ID())
	require.True(t, exists)
	assert.Same(t, m, found)

	found, exists = r.MatchFor("p1")
	require.True(t, exists)
	assert.Same(t, m, found)
}

func TestRegistry_Join(t *testing.T) {
	r := NewRegistry(3, nil)

	_, err := r.Join("nope", "p2", "Bob", "🐱")
	assert.ErrorIs(t, err, ErrNotFound)

	m := r.Create("p1", "Alice", "🦊")
	joined, err := r.Join(m.ID(), "p2", "Bob", "🐱")
	require.NoError(t, err)
	assert.Equal(t, StatusPlaying, joined.Status())

	found, exists := r.MatchFor("p2")
	require.True(t, exists)
	assert.Same(t, m, found)

	_, err = r.Join(m.ID(), "p3", "Carol", "🐼")
	assert.ErrorIs(t, err, ErrNotJoinable)
}

func TestRegistry_FindJoinable(t *testing.T) {
	r := NewRegistry(3, nil)
	assert.Nil(t, r.FindJoinable())

	m := r.Create("p1", "Alice", "🦊")
	assert.Same(t, m, r.FindJoinable())

	_, err := r.Join(m.ID(), "p2", "Bob", "🐱")
	require.NoError(t, err)
	assert.Nil(t, r.FindJoinable(), "playing matches are not joinable")
}

func TestRegistry_DetachWaitingDeletes(t *testing.T) {
	r := NewRegistry(3, nil)
	m := r.Create("p1", "Alice", "🦊")

	r.Detach("p1")

	_, exists := r.Get(m.ID())
	assert.False(t, exists, "no orphaned empty matches")
	_, exists = r.MatchFor("p1")
	assert.False(t, exists)
}

func TestRegistry_DetachPlayingAbandons(t *testing.T) {
	r := NewRegistry(3, nil)
	m := r.Create("p1", "Alice", "🦊")
	_, err := r.Join(m.ID(), "p2", "Bob", "🐱")
	require.NoError(t, err)

	r.Detach("p1")

	assert.Equal(t, StatusAbandoned, m.Status())
	assert.Nil(t, r.FindJoinable())

	// The remaining participant can still observe the match.
	found, exists := r.MatchFor("p2")
	require.True(t, exists)
	assert.Same(t, m, found)

	_, exists = r.MatchFor("p1")
	assert.False(t, exists)
}

func TestRegistry_CreateReplacesPreviousWaiting(t *testing.T) {
	r := NewRegistry(3, nil)
	old := r.Create("p1", "Alice", "🦊")
	fresh := r.Create("p1", "Alice", "🦊")

	_, exists := r.Get(old.ID())
	assert.False(t, exists, "previous waiting match is deleted atomically")

	found, exists := r.MatchFor("p1")
	require.True(t, exists)
	assert.Same(t, fresh, found)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_ReclaimForwardsSummaries(t *testing.T) {
	recorder := &recorderStub{}
	r := NewRegistry(3, recorder)

	m := r.Create("p1", "Alice", "🦊")
	_, err := r.Join(m.ID(), "p2", "Bob", "🐱")
	require.NoError(t, err)
	finishMatch(t, m)

	time.Sleep(5 * time.Millisecond)
	removed := r.Reclaim(time.Millisecond)
	assert.Equal(t, 1, removed)

	require.Len(t, recorder.summaries, 1)
	assert.Equal(t, m.ID(), recorder.summaries[0].MatchID)

	_, exists := r.Get(m.ID())
	assert.False(t, exists)
	_, exists = r.MatchFor("p1")
	assert.False(t, exists)
	_, exists = r.MatchFor("p2")
	assert.False(t, exists)
}

func TestRegistry_ReclaimSkipsLiveMatches(t *testing.T) {
	r := NewRegistry(3, nil)
	waiting := r.Create("p1", "Alice", "🦊")
	playing := r.Create("p2", "Bob", "🐱")
	_, err := r.Join(playing.ID(), "p3", "Carol", "🐼")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	assert.Zero(t, r.Reclaim(time.Millisecond))
	assert.Equal(t, 2, r.Count())

	_, exists := r.Get(waiting.ID())
	assert.True(t, exists)
}

func TestMatchmaker_QuickJoin(t *testing.T) {
	r := NewRegistry(3, nil)
	mm := NewMatchmaker(r)

	first := mm.QuickJoin("p1", "Alice", "🦊")
	assert.False(t, first.Joined, "no waiting match to join")
	assert.Equal(t, StatusWaiting, first.Match.Status())

	second := mm.QuickJoin("p2", "Bob", "🐱")
	assert.True(t, second.Joined)
	assert.Equal(t, first.Match.ID(), second.Match.ID())
	assert.Equal(t, StatusPlaying, second.Match.Status())

	third := mm.QuickJoin("p3", "Carol", "🐼")
	assert.False(t, third.Joined)
	assert.NotEqual(t, first.Match.ID(), third.Match.ID())
}

func TestMatchmaker_QuickJoinNeverPairsWithSelf(t *testing.T) {
	r := NewRegistry(3, nil)
	mm := NewMatchmaker(r)

	first := mm.QuickJoin("p1", "Alice", "🦊")
	again := mm.QuickJoin("p1", "Alice", "🦊")

	assert.False(t, again.Joined)
	assert.NotEqual(t, first.Match.ID(), again.Match.ID())
	assert.Equal(t, 1, r.Count(), "stale waiting match was replaced")
}
