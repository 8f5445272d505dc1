// match/registry.go
package match

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry owns every live match plus the participant -> match index.
// 双向索引不变式: 每个索引项指向的对局必须真的包含该玩家,
// 且一个玩家同一时刻最多出现在一个对局里.
type Registry struct {
	matches       map[string]*Match
	byParticipant map[string]string // participantID -> matchID
	roundLimit    int
	recorder      Recorder // may be nil
	mu            sync.RWMutex
}

// NewRegistry creates an empty registry. Finished-match summaries are
// forwarded to the recorder during reclamation; pass nil to discard.
func NewRegistry(roundLimit int, recorder Recorder) *Registry {
	return &Registry{
		matches:       make(map[string]*Match),
		byParticipant: make(map[string]string),
		roundLimit:    roundLimit,
		recorder:      recorder,
	}
}

// Create opens a new waiting match owned by the given participant.
// Any previous match the participant was indexed against is detached
// first, inside the same critical section.
func (r *Registry) Create(ownerID, name, avatar string) *Match {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.detachLocked(ownerID)

	m := NewMatch(uuid.New().String(), ownerID, name, avatar, r.roundLimit)
	r.matches[m.ID()] = m
	r.byParticipant[ownerID] = m.ID()
	return m
}

// Join adds a participant to a waiting match and starts it.
func (r *Registry) Join(matchID, participantID, name, avatar string) (*Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.matches[matchID]
	if !exists {
		return nil, ErrNotFound
	}
	if m.Status() != StatusWaiting {
		return nil, ErrNotJoinable
	}
	if err := m.AddOpponent(participantID, name, avatar); err != nil {
		return nil, err
	}

	// Only after the join is committed: leaving the previous match and
	// indexing the new one happen atomically with it.
	r.detachLocked(participantID)
	r.byParticipant[participantID] = matchID
	return m, nil
}

// FindJoinable returns an arbitrary waiting match, or nil. No
// ordering fairness is promised.
func (r *Registry) FindJoinable() *Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.matches {
		if m.Status() == StatusWaiting {
			return m
		}
	}
	return nil
}

// Get looks a match up by ID.
func (r *Registry) Get(matchID string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, exists := r.matches[matchID]
	return m, exists
}

// MatchFor returns the match a participant is currently indexed
// against.
func (r *Registry) MatchFor(participantID string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matchID, exists := r.byParticipant[participantID]
	if !exists {
		return nil, false
	}
	m, exists := r.matches[matchID]
	return m, exists
}

// Detach removes a participant's index entry. A waiting match loses
// its only player and is deleted outright; any other match is marked
// abandoned and survives until reclamation, so late events against it
// resolve instead of erroring.
func (r *Registry) Detach(participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.detachLocked(participantID)
}

func (r *Registry) detachLocked(participantID string) {
	matchID, exists := r.byParticipant[participantID]
	if !exists {
		return
	}
	delete(r.byParticipant, participantID)

	m, exists := r.matches[matchID]
	if !exists {
		return
	}
	if m.Status() == StatusWaiting {
		delete(r.matches, matchID)
		return
	}
	m.Abandon()
}

// List returns the lobby listing for every live match.
func (r *Registry) List() []ListEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]ListEntry, 0, len(r.matches))
	for _, m := range r.matches {
		entries = append(entries, m.ListEntry())
	}
	return entries
}

// Count returns the number of live matches.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}

// Reclaim deletes finished and abandoned matches older than maxAge,
// forwarding unrecorded finished summaries to the recorder first.
// Returns the number of matches removed.
func (r *Registry) Reclaim(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, m := range r.matches {
		status := m.Status()
		if status != StatusFinished && status != StatusAbandoned {
			continue
		}
		if now.Sub(m.CreatedAt()) <= maxAge {
			continue
		}

		if summary, ok := m.TakeSummary(); ok && r.recorder != nil {
			r.recorder.RecordMatch(summary)
		}

		delete(r.matches, id)
		p1, p2 := m.PlayerIDs()
		// A participant may have moved on to a newer match; only drop
		// index entries that still point here.
		if r.byParticipant[p1] == id {
			delete(r.byParticipant, p1)
		}
		if p2 != "" && r.byParticipant[p2] == id {
			delete(r.byParticipant, p2)
		}
		removed++
	}
	return removed
}
