package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pigstygame/pigsty/comms"
	"github.com/pigstygame/pigsty/game"
)

// downBufferSize is how many undelivered messages a client can have
// queued before the core loop starts dropping for it.
const downBufferSize = 100

// Server owns all room and game state. A single goroutine drains coreCh
// and runs every state change to completion, so handlers mutate freely
// with no locks; gateways only ever talk to it through messages.
type Server struct {
	registry       *Registry
	clients        map[string]clientBundle
	coreCh         chan interface{}
	broadcastEvery time.Duration
	reapEvery      time.Duration
	roomMaxAge     time.Duration
	log            zerolog.Logger
}

func NewServer(reg *Registry, broadcastEvery, reapEvery, roomMaxAge time.Duration, log zerolog.Logger) *Server {
	return &Server{
		registry:       reg,
		clients:        map[string]clientBundle{},
		coreCh:         make(chan interface{}, 1000),
		broadcastEvery: broadcastEvery,
		reapEvery:      reapEvery,
		roomMaxAge:     roomMaxAge,
		log:            log.With().Str("cmp", "core").Logger(),
	}
}

// Run is the core loop. It returns when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	reap := time.NewTicker(s.reapEvery)
	defer reap.Stop()
	refresh := time.NewTicker(s.broadcastEvery)
	defer refresh.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("core loop stopping")
			return ctx.Err()
		case <-reap.C:
			s.coreCh <- reapMsg{}
		case <-refresh.C:
			s.coreCh <- refreshMsg{}
		case in := <-s.coreCh:
			s.dispatch(in)
		}
	}
}

func (s *Server) dispatch(in interface{}) {
	switch msg := in.(type) {
	case connectMsg:
		msg.Rep <- s.doConnect(msg.PlayerID, msg.Client)
	case disconnectMsg:
		s.doDisconnect(msg.PlayerID)
	case messageFromClient:
		s.processMessage(msg.PlayerID, msg.Msg)
	case listGamesMsg:
		msg.Rep <- s.gameSummaries()
	case queryGameMsg:
		msg.Rep <- s.queryGame(msg.RoomID)
	case deleteGameMsg:
		msg.Rep <- s.deleteGame(msg.RoomID)
	case reapMsg:
		s.doReap()
	case refreshMsg:
		s.broadcastGamesList()
	default:
		s.log.Warn().Msgf("unexpected core message: %T", in)
	}
}

// Connect registers a client under its connection id. The gateway must
// drain downCh until it closes its side with Disconnect.
func (s *Server) Connect(playerID string, downCh chan comms.Message) error {
	rep := make(chan error, 1)
	s.coreCh <- connectMsg{PlayerID: playerID, Client: clientBundle{downCh: downCh}, Rep: rep}
	return <-rep
}

func (s *Server) Disconnect(playerID string) {
	s.coreCh <- disconnectMsg{PlayerID: playerID}
}

// Deliver hands one inbound client message to the core loop.
func (s *Server) Deliver(playerID string, msg comms.Message) {
	s.coreCh <- messageFromClient{PlayerID: playerID, Msg: msg}
}

// ListGames serves the REST read surface.
func (s *Server) ListGames() []comms.GameSummary {
	rep := make(chan []comms.GameSummary, 1)
	s.coreCh <- listGamesMsg{Rep: rep}
	return <-rep
}

func (s *Server) QueryGame(roomID string) *comms.RoomState {
	rep := make(chan *comms.RoomState, 1)
	s.coreCh <- queryGameMsg{RoomID: roomID, Rep: rep}
	return <-rep
}

func (s *Server) DeleteGame(roomID string) bool {
	rep := make(chan bool, 1)
	s.coreCh <- deleteGameMsg{RoomID: roomID, Rep: rep}
	return <-rep
}

// core-side handlers, only ever called from the loop goroutine

func (s *Server) doConnect(playerID string, client clientBundle) error {
	if _, exists := s.clients[playerID]; exists {
		return game.ErrAlreadyConnected
	}
	s.clients[playerID] = client
	s.log.Info().Str("player", playerID).Msg("client connected")
	s.sendTo(playerID, "connected", comms.Connected{PlayerID: playerID})
	return nil
}

func (s *Server) doDisconnect(playerID string) {
	if _, exists := s.clients[playerID]; !exists {
		return
	}
	delete(s.clients, playerID)
	s.log.Info().Str("player", playerID).Msg("client disconnected")

	changed := s.registry.LeaveAll(playerID)
	for _, room := range changed {
		s.announceRoomChange(room)
	}
	if len(changed) > 0 {
		s.broadcastGamesList()
	}
}

func (s *Server) doReap() {
	dead := s.registry.Reap(s.roomMaxAge)
	if len(dead) == 0 {
		return
	}
	s.log.Info().Strs("rooms", dead).Msg("reaped stale rooms")
	s.broadcastGamesList()
}

func (s *Server) processMessage(playerID string, msg comms.Message) {
	s.log.Debug().Str("player", playerID).Str("type", msg.Type).Msg("client message")

	switch msg.Type {
	case "ping":
		s.sendTo(playerID, "pong", nil)
	case "getGames":
		s.sendTo(playerID, "gamesList", s.gameSummaries())
	case "createGame":
		s.handleCreateGame(playerID, msg)
	case "joinRoom":
		s.handleJoinRoom(playerID, msg)
	case "toggleReady":
		s.handleToggleReady(playerID, msg)
	case "startGame":
		s.handleStartGame(playerID, msg)
	case "drawCard":
		s.handleDrawCard(playerID, msg)
	case "discardCard":
		s.handleDiscardCard(playerID, msg)
	case "playCard":
		s.handlePlayCard(playerID, msg)
	case "endTurn":
		s.handleEndTurn(playerID, msg)
	case "leaveRoom":
		s.handleLeaveRoom(playerID, msg)
	case "say":
		s.handleSay(playerID, msg)
	default:
		s.sendError(playerID, &comms.WireError{Code: "UNKNOWNREQUEST", Message: "unknown request: " + msg.Type})
	}
}

func (s *Server) handleCreateGame(playerID string, msg comms.Message) {
	var req comms.CreateGameReq
	if err := comms.Decode(msg, &req); err != nil {
		s.sendError(playerID, err)
		return
	}

	room := s.registry.Create(playerID, "Player 1", req.GameMode, req.MaxPlayers)
	s.log.Info().Str("room", room.ID).Str("owner", playerID).Str("mode", string(room.Mode)).Msg("room created")

	s.sendTo(playerID, "gameCreated", comms.GameCreated{RoomID: room.ID, Room: roomStateOf(room)})
	s.broadcastGamesList()
}

func (s *Server) handleJoinRoom(playerID string, msg comms.Message) {
	var req comms.JoinRoomReq
	if err := comms.Decode(msg, &req); err != nil {
		s.sendError(playerID, err)
		return
	}

	room, err := s.registry.Join(req.RoomID, playerID, req.PlayerName)
	if err != nil {
		s.sendTo(playerID, "joinError", comms.JoinError{Message: err.Error()})
		return
	}

	s.broadcastRoom(room, "roomState", roomStateOf(room))
	s.broadcastGamesList()
}

func (s *Server) handleToggleReady(playerID string, msg comms.Message) {
	var req comms.ToggleReadyReq
	if err := comms.Decode(msg, &req); err != nil {
		s.sendError(playerID, err)
		return
	}

	room, err := s.registry.SetReady(req.RoomID, playerID, req.Ready)
	if err != nil {
		s.sendError(playerID, err)
		return
	}
	s.broadcastRoom(room, "roomState", roomStateOf(room))
}

func (s *Server) handleStartGame(playerID string, msg comms.Message) {
	var req comms.StartGameReq
	if err := comms.Decode(msg, &req); err != nil {
		s.sendError(playerID, err)
		return
	}

	room, err := s.registry.Start(req.RoomID, playerID)
	if err != nil {
		s.sendError(playerID, err)
		return
	}
	s.log.Info().Str("room", room.ID).Int("players", len(room.Players)).Msg("game started")

	for _, p := range room.Players {
		s.sendTo(p.ID, "gameStarted", comms.GameStarted{
			StateView: game.Project(room.Game, p.ID),
			RoomID:    room.ID,
			Status:    room.Status,
		})
	}
	s.broadcastGamesList()
}

// withGame resolves a room that must be playing, or reports to the
// requester why it is not.
func (s *Server) withGame(playerID, roomID string) *Room {
	room := s.registry.Get(roomID)
	if room == nil {
		s.sendError(playerID, game.ErrRoomNotFound)
		return nil
	}
	if room.Game == nil {
		s.sendError(playerID, game.ErrRoomNotInGame)
		return nil
	}
	return room
}

func (s *Server) handleDrawCard(playerID string, msg comms.Message) {
	var req comms.DrawCardReq
	if err := comms.Decode(msg, &req); err != nil {
		s.sendError(playerID, err)
		return
	}
	room := s.withGame(playerID, req.RoomID)
	if room == nil {
		return
	}

	_, err := room.Game.DrawCard(playerID)
	if err != nil {
		s.sendError(playerID, err)
		return
	}

	p := room.Game.PlayerByID(playerID)
	s.broadcastRoom(room, "cardDrawn", comms.CardDrawn{PlayerID: playerID, HandCount: len(p.Hand)})
	s.sendGameState(room)
}

func (s *Server) handleDiscardCard(playerID string, msg comms.Message) {
	var req comms.DiscardCardReq
	if err := comms.Decode(msg, &req); err != nil {
		s.sendError(playerID, err)
		return
	}
	room := s.withGame(playerID, req.RoomID)
	if room == nil {
		return
	}

	c, err := room.Game.DiscardCard(playerID, req.CardID)
	if err != nil {
		s.sendError(playerID, err)
		return
	}

	p := room.Game.PlayerByID(playerID)
	s.broadcastRoom(room, "cardDiscarded", comms.CardDiscarded{
		PlayerID:         playerID,
		Card:             c,
		HandCount:        len(p.Hand),
		ActionsRemaining: room.Game.ActionsRemaining,
	})
	s.sendGameState(room)
}

func (s *Server) handlePlayCard(playerID string, msg comms.Message) {
	var req comms.PlayCardReq
	if err := comms.Decode(msg, &req); err != nil {
		s.sendError(playerID, err)
		return
	}
	room := s.withGame(playerID, req.RoomID)
	if room == nil {
		return
	}

	effect, err := room.Game.PlayCard(playerID, req.CardID, req.TargetPigID, req.TargetPlayerID)
	if err != nil {
		s.sendError(playerID, err)
		return
	}

	played := room.Game.DiscardPile[len(room.Game.DiscardPile)-1]
	s.broadcastRoom(room, "cardPlayed", comms.CardPlayed{
		PlayerID:       playerID,
		Card:           played,
		TargetPigID:    req.TargetPigID,
		TargetPlayerID: req.TargetPlayerID,
		Effect:         effect,
	})

	if winner := game.CheckWin(room.Game); winner != nil {
		room.Game.Finish(winner)
		room.Status = StatusFinished
		s.log.Info().Str("room", room.ID).Str("winner", winner.ID).Msg("game over")
		s.broadcastRoom(room, "gameEnded", comms.GameEnded{
			Winner: comms.PlayerInfo{ID: winner.ID, Name: winner.Name, Ready: winner.Ready},
		})
	}

	s.sendGameState(room)
}

func (s *Server) handleEndTurn(playerID string, msg comms.Message) {
	var req comms.EndTurnReq
	if err := comms.Decode(msg, &req); err != nil {
		s.sendError(playerID, err)
		return
	}
	room := s.withGame(playerID, req.RoomID)
	if room == nil {
		return
	}

	if err := room.Game.EndTurn(playerID); err != nil {
		s.sendError(playerID, err)
		return
	}

	s.broadcastRoom(room, "turnEnded", comms.TurnEnded{PlayerID: playerID})
	next := room.Game.CurrentPlayer()
	s.broadcastRoom(room, "turnStarted", comms.TurnStarted{PlayerID: next.ID, TurnCount: room.Game.TurnCount})
	s.sendGameState(room)
}

func (s *Server) handleLeaveRoom(playerID string, msg comms.Message) {
	var req comms.LeaveRoomReq
	if err := comms.Decode(msg, &req); err != nil {
		s.sendError(playerID, err)
		return
	}

	room, left := s.registry.Leave(req.RoomID, playerID)
	if !left {
		s.sendError(playerID, game.ErrNotInRoom)
		return
	}
	s.announceRoomChange(room)
	s.broadcastGamesList()
}

func (s *Server) handleSay(playerID string, msg comms.Message) {
	var req comms.SayReq
	if err := comms.Decode(msg, &req); err != nil {
		s.sendError(playerID, err)
		return
	}

	room := s.registry.Get(req.RoomID)
	if room == nil {
		s.sendError(playerID, game.ErrRoomNotFound)
		return
	}
	p := room.Player(playerID)
	if p == nil {
		s.sendError(playerID, game.ErrNotInRoom)
		return
	}

	s.broadcastRoom(room, "news", comms.News{Who: p.Name, What: req.Text})
}

// announceRoomChange tells the remaining members their room shrank. A
// nil room was deleted, so there is no one left to tell.
func (s *Server) announceRoomChange(room *Room) {
	if room == nil {
		return
	}
	s.broadcastRoom(room, "roomUpdated", comms.RoomUpdated{
		Players:  playerInfos(room.Players),
		Owner:    room.Owner,
		GameMode: room.Mode,
	})
	if room.Game != nil {
		s.sendGameState(room)
	}
}

// views and delivery

func (s *Server) gameSummaries() []comms.GameSummary {
	rooms := s.registry.Waiting()
	out := make([]comms.GameSummary, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, comms.GameSummary{
			ID:          room.ID,
			PlayerCount: len(room.Players),
			MaxPlayers:  room.MaxPlayers,
			GameMode:    room.Mode,
			Owner:       room.Owner,
			Status:      room.Status,
		})
	}
	return out
}

func (s *Server) queryGame(roomID string) *comms.RoomState {
	room := s.registry.Get(roomID)
	if room == nil {
		return nil
	}
	rs := roomStateOf(room)
	return &rs
}

func (s *Server) deleteGame(roomID string) bool {
	if !s.registry.Delete(roomID) {
		return false
	}
	s.broadcastGamesList()
	return true
}

func roomStateOf(room *Room) comms.RoomState {
	return comms.RoomState{
		ID:         room.ID,
		Players:    playerInfos(room.Players),
		Owner:      room.Owner,
		GameMode:   room.Mode,
		MaxPlayers: room.MaxPlayers,
		Status:     room.Status,
	}
}

func playerInfos(players []*game.Player) []comms.PlayerInfo {
	out := make([]comms.PlayerInfo, len(players))
	for i, p := range players {
		out[i] = comms.PlayerInfo{ID: p.ID, Name: p.Name, Ready: p.Ready}
	}
	return out
}

// sendGameState pushes a freshly projected state to each room member.
// Hands are redacted per recipient, so this is never a shared encode.
func (s *Server) sendGameState(room *Room) {
	for _, p := range room.Players {
		s.sendTo(p.ID, "gameStateUpdated", game.Project(room.Game, p.ID))
	}
}

func (s *Server) sendTo(playerID, mtype string, data interface{}) {
	client, ok := s.clients[playerID]
	if !ok {
		return
	}
	msg, err := comms.Encode(mtype, data)
	if err != nil {
		s.log.Error().Err(err).Str("type", mtype).Msg("encode failed")
		return
	}
	if !client.send(msg) {
		s.log.Warn().Str("player", playerID).Str("type", mtype).Msg("client lagging, dropped message")
	}
}

func (s *Server) broadcastRoom(room *Room, mtype string, data interface{}) {
	msg, err := comms.Encode(mtype, data)
	if err != nil {
		s.log.Error().Err(err).Str("type", mtype).Msg("encode failed")
		return
	}
	for _, p := range room.Players {
		if client, ok := s.clients[p.ID]; ok {
			if !client.send(msg) {
				s.log.Warn().Str("player", p.ID).Str("type", mtype).Msg("client lagging, dropped message")
			}
		}
	}
}

func (s *Server) broadcastGamesList() {
	msg, err := comms.Encode("gamesList", s.gameSummaries())
	if err != nil {
		s.log.Error().Err(err).Msg("encode failed")
		return
	}
	for id, client := range s.clients {
		if !client.send(msg) {
			s.log.Warn().Str("player", id).Msg("client lagging, dropped message")
		}
	}
}

func (s *Server) sendError(playerID string, err error) {
	s.sendTo(playerID, "error", comms.WrapError(err))
}
