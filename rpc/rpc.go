package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/rpsserver/logger"
	"github.com/wfunc/rpsserver/match"
	"github.com/wfunc/rpsserver/profile"
)

// Server manages the RPC listener used by ops tooling to query
// player profiles out-of-band.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// ProfileService exposes profile lookups over net/rpc. Methods follow
// the net/rpc signature: exported method, exported argument types,
// pointer reply, error return.
type ProfileService struct {
	profiles *profile.Store
}

func NewProfileService(profiles *profile.Store) *ProfileService {
	return &ProfileService{profiles: profiles}
}

type GetProfileArgs struct {
	PlayerID string
}

type GetProfileReply struct {
	Profile profile.Profile
}

func (ps *ProfileService) GetProfile(args *GetProfileArgs, reply *GetProfileReply) error {
	p, exists := ps.profiles.Profile(args.PlayerID)
	if !exists {
		return profile.ErrNotFound
	}
	reply.Profile = p
	return nil
}

type GetHistoryArgs struct {
	PlayerID string
	Limit    int
}

type GetHistoryReply struct {
	History []match.Summary
}

func (ps *ProfileService) GetHistory(args *GetHistoryArgs, reply *GetHistoryReply) error {
	if _, exists := ps.profiles.Profile(args.PlayerID); !exists {
		return profile.ErrNotFound
	}
	reply.History = ps.profiles.History(args.PlayerID, args.Limit)
	return nil
}
