// session/session.go
package session

import (
	"sync"
	"time"

	"github.com/wfunc/rpsserver/network"
)

// Session is one connected participant: the connection plus the
// lobby identity and, at most, one active match.
type Session struct {
	ID         string
	Conn       network.Connection
	CreatedAt  time.Time
	LastActive time.Time

	name    string
	avatar  string
	matchID string
	mutex   sync.RWMutex
}

func NewSession(id string, conn network.Connection) *Session {
	now := time.Now()
	return &Session{
		ID:         id,
		Conn:       conn,
		CreatedAt:  now,
		LastActive: now,
	}
}

func (s *Session) GetID() string {
	return s.ID
}

// SetIdentity stores the lobby name and avatar announced by the
// participant.
func (s *Session) SetIdentity(name, avatar string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.name = name
	s.avatar = avatar
}

// Identity returns the announced name and avatar, which may both be
// empty before join-lobby.
func (s *Session) Identity() (string, string) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.name, s.avatar
}

// SetMatchID binds ("" unbinds) the session to a match.
func (s *Session) SetMatchID(matchID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.matchID = matchID
}

func (s *Session) MatchID() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.matchID
}

// Send forwards an event to this participant's connection.
func (s *Session) Send(event string, payload interface{}) error {
	s.mutex.Lock()
	s.LastActive = time.Now()
	s.mutex.Unlock()
	return s.Conn.Send(event, payload)
}

func (s *Session) Close() error {
	return s.Conn.Close()
}

// Manager 管理所有在线连接会话
type Manager struct {
	sessions map[string]*Session
	mutex    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
	}
}

func (m *Manager) Add(s *Session) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[s.ID] = s
}

func (m *Manager) Remove(sessionID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, sessionID)
}

func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	s, exists := m.sessions[sessionID]
	return s, exists
}

// InMatch returns every connected session bound to the given match.
func (m *Manager) InMatch(matchID string) []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var result []*Session
	for _, s := range m.sessions {
		if s.MatchID() == matchID {
			result = append(result, s)
		}
	}
	return result
}

// All returns a snapshot of every connected session.
func (m *Manager) All() []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	result := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	return result
}

func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.sessions)
}
