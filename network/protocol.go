package network

import "encoding/json"

// Inbound intents.
const (
	EventJoinLobby    = "join-lobby"
	EventCreateGame   = "create-game"
	EventJoinGame     = "join-game"
	EventQuickJoin    = "quick-join"
	EventMakeMove     = "make-move"
	EventResetGame    = "reset-game"
	EventLeaveGame    = "leave-game"
	EventUpdateAvatar = "update-avatar"
	EventGetProfile   = "get-profile"
	EventGetHistory   = "get-history"
)

// Outbound events.
const (
	EventJoinedLobby        = "joined-lobby"
	EventAvailableAvatars   = "available-avatars"
	EventGamesList          = "games-list"
	EventGameCreated        = "game-created"
	EventGameStarted        = "game-started"
	EventGameUpdate         = "game-update"
	EventRoundResult        = "round-result"
	EventGameFinished       = "game-finished"
	EventGameReset          = "game-reset"
	EventPlayerDisconnected = "player-disconnected"
	EventAvatarUpdated      = "avatar-updated"
	EventProfileData        = "profile-data"
	EventHistoryData        = "history-data"
	EventError              = "error"
)

// Envelope 是网关上行下行共用的消息封装: 事件名 + JSON 负载
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound request payloads. Optional fields are filled with defaults
// by the coordinator before they reach the core.

type JoinLobbyRequest struct {
	PlayerName string `json:"playerName"`
	Avatar     string `json:"avatar"`
}

type CreateGameRequest struct {
	PlayerName string `json:"playerName"`
	Avatar     string `json:"avatar"`
}

type JoinGameRequest struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
	Avatar     string `json:"avatar"`
}

type QuickJoinRequest struct {
	PlayerName string `json:"playerName"`
	Avatar     string `json:"avatar"`
}

type MakeMoveRequest struct {
	Choice string `json:"choice"`
}

type UpdateAvatarRequest struct {
	Avatar string `json:"avatar"`
}

type GetHistoryRequest struct {
	Limit int `json:"limit"`
}

// ErrorEvent is the only outbound payload shared by every handler.
type ErrorEvent struct {
	Message string `json:"message"`
}
