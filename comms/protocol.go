package comms

import (
	"github.com/pigstygame/pigsty/game"
)

// Payload types for every protocol event, shared by server and client.

// Client -> server requests.

type CreateGameReq struct {
	GameMode   game.Mode `json:"gameMode"`
	MaxPlayers int       `json:"maxPlayers"`
}

type JoinRoomReq struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

type ToggleReadyReq struct {
	RoomID string `json:"roomId"`
	Ready  bool   `json:"ready"`
}

type StartGameReq struct {
	RoomID string `json:"roomId"`
}

type DrawCardReq struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type DiscardCardReq struct {
	RoomID   string `json:"roomId"`
	CardID   string `json:"cardId"`
	PlayerID string `json:"playerId"`
}

type PlayCardReq struct {
	RoomID         string `json:"roomId"`
	CardID         string `json:"cardId"`
	TargetPigID    string `json:"targetPigId,omitempty"`
	TargetPlayerID string `json:"targetPlayerId,omitempty"`
	PlayerID       string `json:"playerId"`
}

type EndTurnReq struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
}

type LeaveRoomReq struct {
	RoomID string `json:"roomId"`
}

type SayReq struct {
	RoomID string `json:"roomId"`
	Text   string `json:"text"`
}

// Server -> client events.

// Connected tells a client the identity the transport assigned to it.
type Connected struct {
	PlayerID string     `json:"playerId"`
	Err      *WireError `json:"error,omitempty"`
}

// PlayerInfo is the public slice of a player: no hand, no pigs.
type PlayerInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// GameSummary is one row of the lobby's games list.
type GameSummary struct {
	ID          string    `json:"id"`
	PlayerCount int       `json:"playerCount"`
	MaxPlayers  int       `json:"maxPlayers"`
	GameMode    game.Mode `json:"gameMode"`
	Owner       string    `json:"owner"`
	Status      string    `json:"status"`
}

type RoomState struct {
	ID         string       `json:"id"`
	Players    []PlayerInfo `json:"players"`
	Owner      string       `json:"owner"`
	GameMode   game.Mode    `json:"gameMode"`
	MaxPlayers int          `json:"maxPlayers"`
	Status     string       `json:"status"`
}

type GameCreated struct {
	RoomID string    `json:"roomId"`
	Room   RoomState `json:"room"`
}

type JoinError struct {
	Message string `json:"message"`
}

// GameStarted carries the initial per-recipient view plus room framing.
// Mode and turn position ride along inside the embedded view.
type GameStarted struct {
	game.StateView
	RoomID string `json:"roomId"`
	Status string `json:"status"`
}

type CardDrawn struct {
	PlayerID  string `json:"playerId"`
	HandCount int    `json:"handCount"`
}

type CardDiscarded struct {
	PlayerID         string    `json:"playerId"`
	Card             game.Card `json:"card"`
	HandCount        int       `json:"handCount"`
	ActionsRemaining int       `json:"actionsRemaining"`
}

type CardPlayed struct {
	PlayerID       string      `json:"playerId"`
	Card           game.Card   `json:"card"`
	TargetPigID    string      `json:"targetPigId,omitempty"`
	TargetPlayerID string      `json:"targetPlayerId,omitempty"`
	Effect         game.Effect `json:"effect"`
}

type GameEnded struct {
	Winner PlayerInfo `json:"winner"`
}

type TurnEnded struct {
	PlayerID string `json:"playerId"`
}

type TurnStarted struct {
	PlayerID  string `json:"playerId"`
	TurnCount int    `json:"turnCount"`
}

type RoomUpdated struct {
	Players  []PlayerInfo `json:"players"`
	Owner    string       `json:"owner"`
	GameMode game.Mode    `json:"gameMode"`
}

// News is a line of room chatter or narration.
type News struct {
	Who  string `json:"who,omitempty"`
	What string `json:"what"`
}
