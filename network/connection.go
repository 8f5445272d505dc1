// network/connection.go
package network

import (
	"encoding/json"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrEmptyEvent is returned for envelopes missing an event name.
var ErrEmptyEvent = errors.New("envelope has no event name")

// Connection abstracts the duplex channel to one participant.
type Connection interface {
	Send(event string, payload interface{}) error
	Read() (*Envelope, error)
	Close() error
	RemoteAddr() net.Addr
	SetReadTimeout(timeout time.Duration)
}

// WSConnection carries JSON envelopes over a websocket.
type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

// Send marshals the payload into an envelope and writes it as one
// text message. Serialized by a mutex: both the read-loop goroutine
// and deferred timer callbacks write to the same connection.
func (c *WSConnection) Send(event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.conn.WriteJSON(&Envelope{Event: event, Data: data})
}

// Read blocks for the next inbound envelope.
func (c *WSConnection) Read() (*Envelope, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if env.Event == "" {
		return nil, ErrEmptyEvent
	}
	return &env, nil
}

func (c *WSConnection) SetReadTimeout(timeout time.Duration) {
	c.conn.SetReadDeadline(time.Now().Add(timeout))
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
