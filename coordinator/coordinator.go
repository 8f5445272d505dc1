// coordinator/coordinator.go
package coordinator

import (
	"errors"
	"time"

	"github.com/wfunc/rpsserver/logger"
	"github.com/wfunc/rpsserver/match"
	"github.com/wfunc/rpsserver/monitor"
	"github.com/wfunc/rpsserver/network"
	"github.com/wfunc/rpsserver/profile"
	"github.com/wfunc/rpsserver/session"
)

// Validation errors for malformed intents.
var (
	ErrMissingGameID = errors.New("gameId is required")
	ErrMissingAvatar = errors.New("avatar is required")
)

const (
	defaultPlayerName = "Player"
	defaultAvatar     = "🎮"
)

// availableAvatars is the catalog offered on lobby entry.
var availableAvatars = []string{"🎮", "🚀", "🐱", "🐶", "🦊", "🐼", "🦁", "🐸", "👾", "🤖"}

// Gateway is the outbound half of the duplex channel: one
// participant, one match room, or the whole lobby.
type Gateway interface {
	ToParticipant(participantID, event string, payload interface{}) error
	ToMatch(matchID, event string, payload interface{}) error
	ToAll(event string, payload interface{}) error
}

// Scheduler defers callbacks; satisfied by timer.Manager.
type Scheduler interface {
	Schedule(delay time.Duration, fn func()) int64
	Recurring(interval time.Duration, fn func()) int64
}

// Options carries the timing knobs. Zero values fall back to the
// client-facing defaults: 1s to show the result, 3s before the next
// round, 2 more seconds before the final screen.
type Options struct {
	ResultDelay    time.Duration
	NextRoundDelay time.Duration
	FinishDelay    time.Duration
	Monitor        *monitor.Monitor // optional
}

// Coordinator 接收网关意图, 驱动匹配/对局状态机, 再经网关广播结果.
// The timing discipline lives here: every deferred transition carries
// the match version captured at scheduling time and silently no-ops
// when the match has moved on (reset, abandon, earlier advance).
type Coordinator struct {
	registry   *match.Registry
	matchmaker *match.Matchmaker
	profiles   *profile.Store
	gateway    Gateway
	sched      Scheduler
	monitor    *monitor.Monitor

	resultDelay    time.Duration
	nextRoundDelay time.Duration
	finishDelay    time.Duration
}

func New(registry *match.Registry, matchmaker *match.Matchmaker, profiles *profile.Store, gateway Gateway, sched Scheduler, opts Options) *Coordinator {
	if opts.ResultDelay <= 0 {
		opts.ResultDelay = time.Second
	}
	if opts.NextRoundDelay <= 0 {
		opts.NextRoundDelay = 3 * time.Second
	}
	if opts.FinishDelay <= 0 {
		opts.FinishDelay = 2 * time.Second
	}
	return &Coordinator{
		registry:       registry,
		matchmaker:     matchmaker,
		profiles:       profiles,
		gateway:        gateway,
		sched:          sched,
		monitor:        opts.Monitor,
		resultDelay:    opts.ResultDelay,
		nextRoundDelay: opts.NextRoundDelay,
		finishDelay:    opts.FinishDelay,
	}
}

// StartCleanup arranges the recurring reclamation sweep for expired
// finished/abandoned matches.
func (c *Coordinator) StartCleanup(interval, maxAge time.Duration) {
	c.sched.Recurring(interval, func() {
		if removed := c.registry.Reclaim(maxAge); removed > 0 {
			logger.Log.Infof("Reclaimed %d expired matches", removed)
			c.broadcastGamesList()
		}
	})
}

// HandleJoinLobby registers the participant's identity and sends the
// lobby bootstrap events.
func (c *Coordinator) HandleJoinLobby(sess *session.Session, req network.JoinLobbyRequest) error {
	name, avatar := fillIdentity(req.PlayerName, req.Avatar)
	sess.SetIdentity(name, avatar)
	c.profiles.GetOrCreate(sess.ID, name, avatar)

	c.gateway.ToParticipant(sess.ID, network.EventJoinedLobby, JoinedLobbyEvent{
		PlayerID:   sess.ID,
		PlayerName: name,
		Avatar:     avatar,
	})
	c.gateway.ToParticipant(sess.ID, network.EventAvailableAvatars, availableAvatars)
	c.gateway.ToParticipant(sess.ID, network.EventGamesList, c.registry.List())
	return nil
}

// HandleCreateGame opens a waiting match owned by the participant.
func (c *Coordinator) HandleCreateGame(sess *session.Session, req network.CreateGameRequest) error {
	name, avatar := c.identityFor(sess, req.PlayerName, req.Avatar)

	m := c.registry.Create(sess.ID, name, avatar)
	sess.SetMatchID(m.ID())
	logger.Log.Infof("Session %s created match %s", sess.ID, m.ID())

	c.gateway.ToParticipant(sess.ID, network.EventGameCreated, GameCreatedEvent{
		GameID:    m.ID(),
		GameState: m.Snapshot(sess.ID),
	})
	c.broadcastGamesList()
	return nil
}

// HandleJoinGame attaches the participant to a waiting match and
// starts it.
func (c *Coordinator) HandleJoinGame(sess *session.Session, req network.JoinGameRequest) error {
	if req.GameID == "" {
		return ErrMissingGameID
	}
	name, avatar := c.identityFor(sess, req.PlayerName, req.Avatar)

	m, err := c.registry.Join(req.GameID, sess.ID, name, avatar)
	if err != nil {
		return err
	}
	sess.SetMatchID(m.ID())
	logger.Log.Infof("Session %s joined match %s", sess.ID, m.ID())

	c.gateway.ToMatch(m.ID(), network.EventGameStarted, GameStateEvent{GameState: m.Snapshot("")})
	c.broadcastGamesList()
	return nil
}

// HandleQuickJoin pairs the participant into any waiting match, or
// opens a new one.
func (c *Coordinator) HandleQuickJoin(sess *session.Session, req network.QuickJoinRequest) error {
	name, avatar := c.identityFor(sess, req.PlayerName, req.Avatar)

	result := c.matchmaker.QuickJoin(sess.ID, name, avatar)
	sess.SetMatchID(result.Match.ID())

	if result.Joined {
		logger.Log.Infof("Session %s quick-joined match %s", sess.ID, result.Match.ID())
		c.gateway.ToMatch(result.Match.ID(), network.EventGameStarted, GameStateEvent{GameState: result.Match.Snapshot("")})
	} else {
		logger.Log.Infof("Session %s quick-join opened match %s", sess.ID, result.Match.ID())
		c.gateway.ToParticipant(sess.ID, network.EventGameCreated, GameCreatedEvent{
			GameID:    result.Match.ID(),
			GameState: result.Match.Snapshot(sess.ID),
		})
	}
	c.broadcastGamesList()
	return nil
}

// HandleMakeMove records a move and, when it completes the pair,
// resolves the round and schedules the deferred broadcasts.
func (c *Coordinator) HandleMakeMove(sess *session.Session, req network.MakeMoveRequest) error {
	m, exists := c.registry.MatchFor(sess.ID)
	if !exists {
		return match.ErrNoActiveMatch
	}

	ready, err := m.SubmitMove(sess.ID, match.Move(req.Choice))
	if err != nil {
		return err
	}

	// Each participant sees their own move immediately; the opponent
	// only learns that a move is locked in, never its value.
	p1, p2 := m.PlayerIDs()
	c.gateway.ToParticipant(p1, network.EventGameUpdate, GameStateEvent{GameState: m.Snapshot(p1)})
	if p2 != "" {
		c.gateway.ToParticipant(p2, network.EventGameUpdate, GameStateEvent{GameState: m.Snapshot(p2)})
	}

	if !ready {
		return nil
	}

	result, err := m.ResolveRound()
	if err != nil {
		// The other submission got here first; nothing left to do.
		return nil
	}
	if c.monitor != nil {
		c.monitor.IncRoundsResolved()
	}

	version := m.Version()
	c.sched.Schedule(c.resultDelay, func() {
		c.deliverRoundResult(m, version, result)
	})
	return nil
}

// deliverRoundResult runs after the result delay: it broadcasts the
// resolved round, then chains either the next-round advance or the
// finish broadcast. Stale deliveries are dropped without error.
func (c *Coordinator) deliverRoundResult(m *match.Match, version uint64, result match.RoundResult) {
	if m.Version() != version {
		return
	}

	c.gateway.ToMatch(m.ID(), network.EventRoundResult, RoundResultEvent{
		GameState:   m.Snapshot(""),
		RoundWinner: string(result.RoundWinner),
	})

	if result.Finished {
		if summary, ok := m.TakeSummary(); ok {
			c.profiles.RecordMatch(summary)
		}
		if c.monitor != nil {
			c.monitor.IncMatchesFinished()
		}
		c.sched.Schedule(c.finishDelay, func() {
			if m.Version() != version || m.Status() != match.StatusFinished {
				return
			}
			c.gateway.ToMatch(m.ID(), network.EventGameFinished, GameFinishedEvent{
				GameState: m.Snapshot(""),
				Winner:    string(result.Winner),
			})
		})
		return
	}

	c.sched.Schedule(c.nextRoundDelay, func() {
		if err := m.AdvanceRoundIf(version); err != nil {
			return
		}
		c.gateway.ToMatch(m.ID(), network.EventGameUpdate, GameStateEvent{GameState: m.Snapshot("")})
	})
}

// HandleResetGame restarts a match at round 1 for the same pair.
func (c *Coordinator) HandleResetGame(sess *session.Session) error {
	m, exists := c.registry.MatchFor(sess.ID)
	if !exists {
		return match.ErrNoActiveMatch
	}
	if err := m.Reset(); err != nil {
		return err
	}
	c.gateway.ToMatch(m.ID(), network.EventGameReset, GameStateEvent{GameState: m.Snapshot("")})
	return nil
}

// HandleLeaveGame detaches the participant from their match, warning
// the opponent first. Also the disconnect path.
func (c *Coordinator) HandleLeaveGame(sess *session.Session) error {
	m, exists := c.registry.MatchFor(sess.ID)
	if !exists {
		return nil
	}

	if opponent := m.OpponentOf(sess.ID); opponent != "" {
		c.gateway.ToParticipant(opponent, network.EventPlayerDisconnected, PlayerDisconnectedEvent{
			Message: "Your opponent has left the game",
		})
	}

	c.registry.Detach(sess.ID)
	sess.SetMatchID("")
	c.broadcastGamesList()
	return nil
}

// HandleDisconnect is invoked by the gateway when the connection
// drops. Reconnection to an in-progress match is not supported.
func (c *Coordinator) HandleDisconnect(sess *session.Session) {
	c.HandleLeaveGame(sess)
}

// HandleUpdateAvatar changes the avatar on both the session and the
// stored profile.
func (c *Coordinator) HandleUpdateAvatar(sess *session.Session, req network.UpdateAvatarRequest) error {
	if req.Avatar == "" {
		return ErrMissingAvatar
	}
	name, _ := sess.Identity()
	sess.SetIdentity(name, req.Avatar)

	p, err := c.profiles.UpdateAvatar(sess.ID, req.Avatar)
	if err != nil {
		return err
	}
	c.gateway.ToParticipant(sess.ID, network.EventAvatarUpdated, AvatarUpdatedEvent{
		Avatar:  req.Avatar,
		Profile: p,
	})
	return nil
}

// HandleGetProfile sends the participant their own profile.
func (c *Coordinator) HandleGetProfile(sess *session.Session) error {
	p, exists := c.profiles.Profile(sess.ID)
	if !exists {
		return profile.ErrNotFound
	}
	c.gateway.ToParticipant(sess.ID, network.EventProfileData, p)
	return nil
}

// HandleGetHistory sends the participant their recent match
// summaries.
func (c *Coordinator) HandleGetHistory(sess *session.Session, req network.GetHistoryRequest) error {
	history := c.profiles.History(sess.ID, req.Limit)
	c.gateway.ToParticipant(sess.ID, network.EventHistoryData, HistoryEvent{History: history})
	return nil
}

func (c *Coordinator) broadcastGamesList() {
	c.gateway.ToAll(network.EventGamesList, c.registry.List())
	if c.monitor != nil {
		c.monitor.SetActiveMatches(c.registry.Count())
	}
}

// identityFor prefers the explicit request fields, falls back to the
// identity announced at join-lobby, then to the defaults.
func (c *Coordinator) identityFor(sess *session.Session, name, avatar string) (string, string) {
	sessName, sessAvatar := sess.Identity()
	if name == "" {
		name = sessName
	}
	if avatar == "" {
		avatar = sessAvatar
	}
	return fillIdentity(name, avatar)
}

func fillIdentity(name, avatar string) (string, string) {
	if name == "" {
		name = defaultPlayerName
	}
	if avatar == "" {
		avatar = defaultAvatar
	}
	return name, avatar
}
