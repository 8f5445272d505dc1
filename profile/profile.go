// profile/profile.go
package profile

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/wfunc/rpsserver/match"
)

// ErrNotFound is returned when no profile exists for the participant.
var ErrNotFound = errors.New("profile not found")

// Stats 玩家聚合统计
type Stats struct {
	GamesPlayed int `json:"gamesPlayed"`
	Wins        int `json:"wins"`
	Losses      int `json:"losses"`
	Ties        int `json:"ties"`
	RoundsWon   int `json:"totalRoundsWon"`
	RoundsLost  int `json:"totalRoundsLost"`
	WinRate     int `json:"winRate"` // percent over decisive games
}

// Profile is the public view of one participant's record.
type Profile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Avatar     string    `json:"avatar"`
	Stats      Stats     `json:"stats"`
	CreatedAt  time.Time `json:"createdAt"`
	LastActive time.Time `json:"lastActive"`
}

type entry struct {
	profile Profile
	history []match.Summary
}

// Store keeps participant statistics and a bounded, most-recent-first
// match history. In-memory only; nothing survives a restart.
type Store struct {
	entries    map[string]*entry
	historyCap int
	mu         sync.RWMutex
}

// NewStore creates a store keeping at most historyCap summaries per
// participant.
func NewStore(historyCap int) *Store {
	if historyCap <= 0 {
		historyCap = 20
	}
	return &Store{
		entries:    make(map[string]*entry),
		historyCap: historyCap,
	}
}

// GetOrCreate returns the existing profile or creates one lazily on
// first lobby entry.
func (s *Store) GetOrCreate(id, name, avatar string) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateLocked(id, name, avatar).profile
}

func (s *Store) getOrCreateLocked(id, name, avatar string) *entry {
	if e, exists := s.entries[id]; exists {
		return e
	}
	now := time.Now()
	e := &entry{
		profile: Profile{
			ID:         id,
			Name:       name,
			Avatar:     avatar,
			CreatedAt:  now,
			LastActive: now,
		},
	}
	s.entries[id] = e
	return e
}

// UpdateAvatar changes a participant's avatar token.
func (s *Store) UpdateAvatar(id, avatar string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[id]
	if !exists {
		return Profile{}, ErrNotFound
	}
	e.profile.Avatar = avatar
	e.profile.LastActive = time.Now()
	return e.profile, nil
}

// Profile returns a participant's profile by ID.
func (s *Store) Profile(id string) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[id]
	if !exists {
		return Profile{}, false
	}
	return e.profile, true
}

// History returns up to limit summaries, most recent first. A
// non-positive limit defaults to 10.
func (s *Store) History(id string, limit int) []match.Summary {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[id]
	if !exists {
		return nil
	}
	if limit > len(e.history) {
		limit = len(e.history)
	}
	out := make([]match.Summary, limit)
	copy(out, e.history[:limit])
	return out
}

// RecordMatch folds one finished match into both participants'
// counters and histories. Implements match.Recorder.
func (s *Store) RecordMatch(summary match.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p1 := s.getOrCreateLocked(summary.Player1.ID, summary.Player1.Name, summary.Player1.Avatar)
	p2 := s.getOrCreateLocked(summary.Player2.ID, summary.Player2.Name, summary.Player2.Avatar)
	s.applyLocked(p1, summary, match.OutcomePlayer1, summary.Player1.Score, summary.Player2.Score)
	s.applyLocked(p2, summary, match.OutcomePlayer2, summary.Player2.Score, summary.Player1.Score)
}

func (s *Store) applyLocked(e *entry, summary match.Summary, side match.Outcome, myScore, theirScore int) {
	e.history = append([]match.Summary{summary}, e.history...)
	if len(e.history) > s.historyCap {
		e.history = e.history[:s.historyCap]
	}

	stats := &e.profile.Stats
	stats.GamesPlayed++
	switch summary.Winner {
	case side:
		stats.Wins++
	case match.OutcomeTie:
		stats.Ties++
	default:
		stats.Losses++
	}
	stats.RoundsWon += myScore
	stats.RoundsLost += theirScore

	if decisive := stats.Wins + stats.Losses; decisive > 0 {
		stats.WinRate = int(math.Round(float64(stats.Wins) / float64(decisive) * 100))
	}
	e.profile.LastActive = time.Now()
}

// Count returns the number of known profiles.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
