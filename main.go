package main

import (
	stdrpc "net/rpc"

	"github.com/wfunc/rpsserver/broadcast"
	"github.com/wfunc/rpsserver/config"
	"github.com/wfunc/rpsserver/coordinator"
	"github.com/wfunc/rpsserver/logger"
	"github.com/wfunc/rpsserver/match"
	"github.com/wfunc/rpsserver/monitor"
	"github.com/wfunc/rpsserver/profile"
	"github.com/wfunc/rpsserver/rpc"
	"github.com/wfunc/rpsserver/server"
	"github.com/wfunc/rpsserver/session"
	"github.com/wfunc/rpsserver/timer"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Process-scoped state: profiles, match registry, connection
	// sessions. Constructed here, passed by reference everywhere.
	profiles := profile.NewStore(cfg.Profile.HistoryCap)
	registry := match.NewRegistry(cfg.Game.RoundLimit, profiles)
	matchmaker := match.NewMatchmaker(registry)
	sessions := session.NewManager()
	gateway := broadcast.NewRoomBroadcaster(sessions)
	timers := timer.NewManager()

	// Metrics endpoint
	mon := monitor.NewMonitor("rpsserver")
	mon.StartServer(cfg.Server.MetricsAddress)

	coord := coordinator.New(registry, matchmaker, profiles, gateway, timers, coordinator.Options{
		ResultDelay:    cfg.Game.ResultDelay,
		NextRoundDelay: cfg.Game.NextRoundDelay,
		FinishDelay:    cfg.Game.FinishDelay,
		Monitor:        mon,
	})
	coord.StartCleanup(cfg.Game.CleanupInterval, cfg.Game.RetentionAge)

	// RPC endpoint for profile lookups
	rpcServer, err := rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	stdrpc.Register(rpc.NewProfileService(profiles))
	go rpcServer.Start()
	defer rpcServer.Stop()

	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, coord, sessions, mon)

	logger.Log.Infof("Starting rps server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
