package broadcast

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/rpsserver/network"
	"github.com/wfunc/rpsserver/session"
)

type captureConn struct {
	events []string
}

func (c *captureConn) Send(event string, payload interface{}) error {
	c.events = append(c.events, event)
	return nil
}
func (c *captureConn) Read() (*network.Envelope, error) { return nil, nil }
func (c *captureConn) Close() error { return nil }
func (c *captureConn) RemoteAddr() net.Addr { return &net.TCPAddr{} }
func (c *captureConn) SetReadTimeout(time.Duration) {}

func setup() (*RoomBroadcaster, map[string]*captureConn) {
	sessions := session.NewManager()
	conns := make(map[string]*captureConn)

	for id, matchID := range map[string]string{"s1": "m1", "s2": "m1", "s3": ""} {
		conn := &captureConn{}
		conns[id] = conn
		sess := session.NewSession(id, conn)
		sess.SetMatchID(matchID)
		sessions.Add(sess)
	}
	return NewRoomBroadcaster(sessions), conns
}

func TestRoomBroadcaster_ToParticipant(t *testing.T) {
	b, conns := setup()

	require.NoError(t, b.ToParticipant("s1", "game-created", nil))
	assert.Equal(t, []string{"game-created"}, conns["s1"].events)
	assert.Empty(t, conns["s2"].events)

	assert.ErrorIs(t, b.ToParticipant("ghost", "game-created", nil), ErrParticipantNotFound)
}

func TestRoomBroadcaster_ToMatch(t *testing.T) {
	b, conns := setup()

	require.NoError(t, b.ToMatch("m1", "round-result", nil))
	assert.Equal(t, []string{"round-result"}, conns["s1"].events)
	assert.Equal(t, []string{"round-result"}, conns["s2"].events)
	assert.Empty(t, conns["s3"].events, "lobby sessions stay quiet")
}

func TestRoomBroadcaster_ToAll(t *testing.T) {
	b, conns := setup()

	require.NoError(t, b.ToAll("games-list", nil))
	for id, conn := range conns {
		assert.Equal(t, []string{"games-list"}, conn.events, "session %s", id)
	}
}
