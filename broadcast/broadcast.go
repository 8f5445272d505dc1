// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/rpsserver/session"
)

var ErrParticipantNotFound = errors.New("participant not connected")

// RoomBroadcaster fans events out over the connected sessions:
// to one participant, to everyone in a match (room semantics), or to
// the whole lobby. Send failures to individual connections are
// skipped; the read loop notices the dead connection on its own.
type RoomBroadcaster struct {
	sessions *session.Manager
}

func NewRoomBroadcaster(sessions *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{sessions: sessions}
}

// ToParticipant emits an event to a single connected participant.
func (b *RoomBroadcaster) ToParticipant(participantID, event string, payload interface{}) error {
	s, exists := b.sessions.Get(participantID)
	if !exists {
		return ErrParticipantNotFound
	}
	return s.Send(event, payload)
}

// ToMatch emits an event to every participant bound to the match.
func (b *RoomBroadcaster) ToMatch(matchID, event string, payload interface{}) error {
	for _, s := range b.sessions.InMatch(matchID) {
		if err := s.Send(event, payload); err != nil {
			continue
		}
	}
	return nil
}

// ToAll emits a lobby-wide event to every connected participant.
func (b *RoomBroadcaster) ToAll(event string, payload interface{}) error {
	for _, s := range b.sessions.All() {
		if err := s.Send(event, payload); err != nil {
			continue
		}
	}
	return nil
}
