package server

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pigstygame/pigsty/comms"
	"github.com/pigstygame/pigsty/game"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	reg := NewRegistry(rand.New(rand.NewSource(1)), nil)
	srv := NewServer(reg, time.Hour, time.Hour, 24*time.Hour, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.Run(ctx)

	return srv
}

type testClient struct {
	id   string
	down chan comms.Message
}

func connect(t *testing.T, srv *Server, id string) *testClient {
	t.Helper()
	c := &testClient{id: id, down: make(chan comms.Message, downBufferSize)}
	require.NoError(t, srv.Connect(id, c.down))
	c.expect(t, "connected")
	return c
}

// expect drains the client's queue until a message of the wanted type
// arrives, skipping everything else.
func (c *testClient) expect(t *testing.T, mtype string) comms.Message {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case msg := <-c.down:
			if msg.Type == mtype {
				return msg
			}
		case <-deadline:
			t.Fatalf("%s: no %q message arrived", c.id, mtype)
			return comms.Message{}
		}
	}
}

// startedGame drives two clients through create/join/ready/start and
// returns the room id.
func startedGame(t *testing.T, srv *Server, alice, bob *testClient) string {
	t.Helper()

	srv.Deliver(alice.id, mustMsg(t, "createGame", comms.CreateGameReq{GameMode: game.ModeBasic, MaxPlayers: 4}))
	var created comms.GameCreated
	require.NoError(t, comms.Decode(alice.expect(t, "gameCreated"), &created))

	srv.Deliver(bob.id, mustMsg(t, "joinRoom", comms.JoinRoomReq{RoomID: created.RoomID, PlayerName: "Bob"}))
	bob.expect(t, "roomState")

	srv.Deliver(alice.id, mustMsg(t, "toggleReady", comms.ToggleReadyReq{RoomID: created.RoomID, Ready: true}))
	srv.Deliver(bob.id, mustMsg(t, "toggleReady", comms.ToggleReadyReq{RoomID: created.RoomID, Ready: true}))
	srv.Deliver(alice.id, mustMsg(t, "startGame", comms.StartGameReq{RoomID: created.RoomID}))

	return created.RoomID
}

func mustMsg(t *testing.T, mtype string, data interface{}) comms.Message {
	t.Helper()
	msg, err := comms.Encode(mtype, data)
	require.NoError(t, err)
	return msg
}

func TestDuplicateConnectionRejected(t *testing.T) {
	srv := startServer(t)
	connect(t, srv, "c1")

	err := srv.Connect("c1", make(chan comms.Message, 1))
	assert.Equal(t, game.ErrAlreadyConnected, err)
}

func TestLobbyFlow(t *testing.T) {
	srv := startServer(t)
	alice := connect(t, srv, "alice")

	srv.Deliver(alice.id, mustMsg(t, "getGames", nil))
	var empty []comms.GameSummary
	require.NoError(t, comms.Decode(alice.expect(t, "gamesList"), &empty))
	assert.Empty(t, empty)

	srv.Deliver(alice.id, mustMsg(t, "createGame", comms.CreateGameReq{GameMode: game.ModeExpansion, MaxPlayers: 3}))
	var created comms.GameCreated
	require.NoError(t, comms.Decode(alice.expect(t, "gameCreated"), &created))
	assert.Equal(t, game.ModeExpansion, created.Room.GameMode)
	assert.Equal(t, 3, created.Room.MaxPlayers)

	// the REST surface sees the same room
	list := srv.ListGames()
	require.Len(t, list, 1)
	assert.Equal(t, created.RoomID, list[0].ID)
	assert.Equal(t, 1, list[0].PlayerCount)

	room := srv.QueryGame(created.RoomID)
	require.NotNil(t, room)
	assert.Equal(t, StatusWaiting, room.Status)
}

func TestJoinErrorsGoToRequesterOnly(t *testing.T) {
	srv := startServer(t)
	bob := connect(t, srv, "bob")

	srv.Deliver(bob.id, mustMsg(t, "joinRoom", comms.JoinRoomReq{RoomID: "nope", PlayerName: "Bob"}))

	var je comms.JoinError
	require.NoError(t, comms.Decode(bob.expect(t, "joinError"), &je))
	assert.NotEmpty(t, je.Message)
}

func TestGameStartRedactsPerRecipient(t *testing.T) {
	srv := startServer(t)
	alice := connect(t, srv, "alice")
	bob := connect(t, srv, "bob")

	startedGame(t, srv, alice, bob)

	var forAlice, forBob comms.GameStarted
	require.NoError(t, comms.Decode(alice.expect(t, "gameStarted"), &forAlice))
	require.NoError(t, comms.Decode(bob.expect(t, "gameStarted"), &forBob))

	require.Len(t, forAlice.Players, 2)
	for _, p := range forAlice.Players {
		require.Len(t, p.Hand, game.CardsPerHand)
		for _, c := range p.Hand {
			if p.ID == "alice" {
				assert.False(t, c.Hidden)
				assert.NotEmpty(t, c.ID)
			} else {
				assert.True(t, c.Hidden)
				assert.Empty(t, c.ID)
			}
		}
	}
	for _, p := range forBob.Players {
		for _, c := range p.Hand {
			assert.Equal(t, p.ID == "bob", !c.Hidden)
		}
	}
}

func TestOutOfTurnActionReportsToActorOnly(t *testing.T) {
	srv := startServer(t)
	alice := connect(t, srv, "alice")
	bob := connect(t, srv, "bob")
	roomID := startedGame(t, srv, alice, bob)

	// bob is second seat; alice moves first
	srv.Deliver(bob.id, mustMsg(t, "drawCard", comms.DrawCardReq{RoomID: roomID, PlayerID: bob.id}))

	var we comms.WireError
	require.NoError(t, comms.Decode(bob.expect(t, "error"), &we))
	assert.Equal(t, "NOTYOURTURN", we.Code)
}

func TestTurnCycleEvents(t *testing.T) {
	srv := startServer(t)
	alice := connect(t, srv, "alice")
	bob := connect(t, srv, "bob")
	roomID := startedGame(t, srv, alice, bob)

	srv.Deliver(alice.id, mustMsg(t, "endTurn", comms.EndTurnReq{RoomID: roomID, PlayerID: alice.id}))

	var ts comms.TurnStarted
	require.NoError(t, comms.Decode(bob.expect(t, "turnStarted"), &ts))
	assert.Equal(t, "bob", ts.PlayerID)
	assert.Equal(t, 1, ts.TurnCount)

	var view game.StateView
	require.NoError(t, comms.Decode(bob.expect(t, "gameStateUpdated"), &view))
	assert.Equal(t, 1, view.ActionsRemaining)
}

func TestSayReachesTheRoom(t *testing.T) {
	srv := startServer(t)
	alice := connect(t, srv, "alice")
	bob := connect(t, srv, "bob")
	roomID := startedGame(t, srv, alice, bob)

	srv.Deliver(alice.id, mustMsg(t, "say", comms.SayReq{RoomID: roomID, Text: "oink"}))

	var news comms.News
	require.NoError(t, comms.Decode(bob.expect(t, "news"), &news))
	assert.Equal(t, "oink", news.What)
	assert.Equal(t, "Player 1", news.Who)
}

func TestDisconnectLeavesRooms(t *testing.T) {
	srv := startServer(t)
	alice := connect(t, srv, "alice")
	bob := connect(t, srv, "bob")
	startedGame(t, srv, alice, bob)

	srv.Disconnect(bob.id)

	var ru comms.RoomUpdated
	require.NoError(t, comms.Decode(alice.expect(t, "roomUpdated"), &ru))
	require.Len(t, ru.Players, 1)
	assert.Equal(t, "alice", ru.Players[0].ID)
	assert.Equal(t, "alice", ru.Owner)
}

func TestUnknownRequestType(t *testing.T) {
	srv := startServer(t)
	alice := connect(t, srv, "alice")

	srv.Deliver(alice.id, comms.Message{Type: "flyPig"})

	var we comms.WireError
	require.NoError(t, comms.Decode(alice.expect(t, "error"), &we))
	assert.Equal(t, "UNKNOWNREQUEST", we.Code)
}
