package server

import (
	"math/rand"
	"sort"
	"time"

	"github.com/pigstygame/pigsty/game"
)

// Room statuses.
const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

const (
	defaultMaxPlayers = 4
	minPlayers        = 2
	roomIDLength      = 10
)

// Room groups players for one game instance. Seat order in Players is
// turn order. Game is nil until the room starts.
type Room struct {
	ID         string
	Players    []*game.Player
	MaxPlayers int
	Mode       game.Mode
	Status     string
	Owner      string
	Game       *game.State
	CreatedAt  time.Time
}

func (r *Room) Player(id string) *game.Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Registry is the single authoritative store of rooms. It is owned by the
// core loop and passed in explicitly, never reached as a global, so tests
// can run isolated instances.
type Registry struct {
	rooms map[string]*Room
	rnd   *rand.Rand
	now   func() time.Time
}

// NewRegistry builds an empty store. rnd seeds room ids and deck
// shuffles; now is the clock used for reaping (both injectable).
func NewRegistry(rnd *rand.Rand, now func() time.Time) *Registry {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Registry{
		rooms: map[string]*Room{},
		rnd:   rnd,
		now:   now,
	}
}

// Create opens a room with the requester as first player and owner.
func (reg *Registry) Create(ownerID, ownerName string, mode game.Mode, maxPlayers int) *Room {
	if mode != game.ModeExpansion {
		mode = game.ModeBasic
	}
	if maxPlayers < minPlayers || maxPlayers > defaultMaxPlayers {
		maxPlayers = defaultMaxPlayers
	}
	if ownerName == "" {
		ownerName = "Player 1"
	}

	id := randomID(reg.rnd, roomIDLength)
	for reg.rooms[id] != nil {
		id = randomID(reg.rnd, roomIDLength)
	}

	room := &Room{
		ID:         id,
		Players:    []*game.Player{{ID: ownerID, Name: ownerName}},
		MaxPlayers: maxPlayers,
		Mode:       mode,
		Status:     StatusWaiting,
		Owner:      ownerID,
		CreatedAt:  reg.now(),
	}
	reg.rooms[id] = room

	return room
}

func (reg *Registry) Get(id string) *Room {
	return reg.rooms[id]
}

// Join adds a player to a waiting room. Joining a room you are already in
// succeeds without a second seat.
func (reg *Registry) Join(roomID, playerID, name string) (*Room, error) {
	room := reg.rooms[roomID]
	if room == nil {
		return nil, game.ErrRoomNotFound
	}
	if room.Player(playerID) != nil {
		return room, nil
	}
	if len(room.Players) >= room.MaxPlayers {
		return nil, game.ErrRoomFull
	}
	if room.Status != StatusWaiting {
		return nil, game.ErrRoomStarted
	}

	room.Players = append(room.Players, &game.Player{ID: playerID, Name: name})
	return room, nil
}

func (reg *Registry) SetReady(roomID, playerID string, ready bool) (*Room, error) {
	room := reg.rooms[roomID]
	if room == nil {
		return nil, game.ErrRoomNotFound
	}
	p := room.Player(playerID)
	if p == nil {
		return nil, game.ErrNotInRoom
	}
	p.Ready = ready
	return room, nil
}

// Start deals a game if the requester owns the room and everyone is
// ready. The room flips to playing and carries the new state.
func (reg *Registry) Start(roomID, requesterID string) (*Room, error) {
	room := reg.rooms[roomID]
	if room == nil {
		return nil, game.ErrRoomNotFound
	}
	if room.Owner != requesterID {
		return nil, game.ErrNotOwner
	}
	if room.Status != StatusWaiting {
		return nil, game.ErrRoomStarted
	}
	if len(room.Players) < minPlayers {
		return nil, game.ErrTooFewPlayers
	}
	for _, p := range room.Players {
		if !p.Ready {
			return nil, game.ErrNotAllReady
		}
	}

	state, err := game.NewState(room.Players, room.Mode, reg.rnd)
	if err != nil {
		return nil, err
	}
	room.Game = state
	room.Status = StatusPlaying

	return room, nil
}

// Leave removes a player. Ownership falls to the first remaining player;
// an emptied room is deleted. Returns the room (nil if deleted) and
// whether the player was actually a member.
func (reg *Registry) Leave(roomID, playerID string) (*Room, bool) {
	room := reg.rooms[roomID]
	if room == nil {
		return nil, false
	}
	if room.Player(playerID) == nil {
		return room, false
	}

	if room.Game != nil {
		room.Game.RemovePlayer(playerID)
		room.Players = room.Game.Players
	} else {
		for i, p := range room.Players {
			if p.ID == playerID {
				room.Players = append(room.Players[:i], room.Players[i+1:]...)
				break
			}
		}
	}

	if len(room.Players) == 0 {
		delete(reg.rooms, roomID)
		return nil, true
	}
	if room.Owner == playerID {
		room.Owner = room.Players[0].ID
	}
	return room, true
}

// LeaveAll is the implicit leave on disconnect: the player is removed
// from every room they are in. Returns the rooms that changed (nil entry
// means that room was deleted).
func (reg *Registry) LeaveAll(playerID string) []*Room {
	var ids []string
	for id, room := range reg.rooms {
		if room.Player(playerID) != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var out []*Room
	for _, id := range ids {
		room, left := reg.Leave(id, playerID)
		if left {
			out = append(out, room)
		}
	}
	return out
}

// Delete removes a room outright (admin surface).
func (reg *Registry) Delete(roomID string) bool {
	if reg.rooms[roomID] == nil {
		return false
	}
	delete(reg.rooms, roomID)
	return true
}

// Reap deletes rooms that never started within maxAge. Returns the ids
// removed.
func (reg *Registry) Reap(maxAge time.Duration) []string {
	now := reg.now()
	var dead []string
	for id, room := range reg.rooms {
		if room.Status == StatusWaiting && now.Sub(room.CreatedAt) > maxAge {
			dead = append(dead, id)
		}
	}
	sort.Strings(dead)
	for _, id := range dead {
		delete(reg.rooms, id)
	}
	return dead
}

// Waiting lists joinable rooms, oldest first.
func (reg *Registry) Waiting() []*Room {
	var out []*Room
	for _, room := range reg.rooms {
		if room.Status == StatusWaiting {
			out = append(out, room)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
