package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/wfunc/rpsserver/coordinator"
	"github.com/wfunc/rpsserver/logger"
	"github.com/wfunc/rpsserver/monitor"
	"github.com/wfunc/rpsserver/network"
	"github.com/wfunc/rpsserver/session"
)

// GameServer accepts websocket connections and feeds decoded intents
// into the coordinator. One read loop per connection.
type GameServer struct {
	addr         string
	upgrader     websocket.Upgrader
	sessions     *session.Manager
	coord        *coordinator.Coordinator
	mon          *monitor.Monitor // optional
	shutdownChan chan struct{}
}

func NewGameServer(addr string, coord *coordinator.Coordinator, sessions *session.Manager, mon *monitor.Monitor) *GameServer {
	return &GameServer{
		addr:         addr,
		sessions:     sessions,
		coord:        coord,
		mon:          mon,
		shutdownChan: make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}
}

func (s *GameServer) Start() error {
	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessions.Add(sess)
	if s.mon != nil {
		s.mon.IncOnlinePlayers()
	}

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.ID)

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.ID)
		s.coord.HandleDisconnect(sess)
		s.sessions.Remove(sess.ID)
		if s.mon != nil {
			s.mon.DecOnlinePlayers()
		}
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			env, err := wsConn.Read()
			if err != nil {
				return
			}
			s.dispatch(sess, env)
		}
	}
}

func (s *GameServer) dispatch(sess *session.Session, env *network.Envelope) {
	started := time.Now()
	if s.mon != nil {
		s.mon.IncIntentsReceived()
	}

	var err error
	switch env.Event {
	case network.EventJoinLobby:
		var req network.JoinLobbyRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.coord.HandleJoinLobby(sess, req)
		}
	case network.EventCreateGame:
		var req network.CreateGameRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.coord.HandleCreateGame(sess, req)
		}
	case network.EventJoinGame:
		var req network.JoinGameRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.coord.HandleJoinGame(sess, req)
		}
	case network.EventQuickJoin:
		var req network.QuickJoinRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.coord.HandleQuickJoin(sess, req)
		}
	case network.EventMakeMove:
		var req network.MakeMoveRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.coord.HandleMakeMove(sess, req)
		}
	case network.EventResetGame:
		err = s.coord.HandleResetGame(sess)
	case network.EventLeaveGame:
		err = s.coord.HandleLeaveGame(sess)
	case network.EventUpdateAvatar:
		var req network.UpdateAvatarRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.coord.HandleUpdateAvatar(sess, req)
		}
	case network.EventGetProfile:
		err = s.coord.HandleGetProfile(sess)
	case network.EventGetHistory:
		var req network.GetHistoryRequest
		if err = decode(env.Data, &req); err == nil {
			err = s.coord.HandleGetHistory(sess, req)
		}
	default:
		logger.Log.Infof("Unknown event %q from session %s", env.Event, sess.ID)
	}

	if err != nil {
		logger.Log.Warnf("Intent %s from session %s rejected: %v", env.Event, sess.ID, err)
		sess.Send(network.EventError, network.ErrorEvent{Message: err.Error()})
	}
	if s.mon != nil {
		s.mon.ObserveIntentLatency(time.Since(started))
	}
}

// decode tolerates a missing payload; the request keeps its zero
// values and the default-fill step takes over.
func decode(data json.RawMessage, v interface{}) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
