package server

import (
	"github.com/pigstygame/pigsty/comms"
)

// clientBundle is the core loop's handle on one connected client. The
// gateway goroutine drains downCh and owns the actual socket.
type clientBundle struct {
	downCh chan comms.Message
}

// send queues a message for the client. A client that cannot keep up
// loses messages rather than stalling the core loop.
func (c clientBundle) send(msg comms.Message) bool {
	select {
	case c.downCh <- msg:
		return true
	default:
		return false
	}
}

// Everything below is a message into the core loop. Gateways construct
// these and post them on coreCh; replies come back on the Rep channel,
// which must be buffered for one element.

type connectMsg struct {
	PlayerID string
	Client   clientBundle
	Rep      chan error
}

type disconnectMsg struct {
	PlayerID string
}

type messageFromClient struct {
	PlayerID string
	Msg      comms.Message
}

type listGamesMsg struct {
	Rep chan []comms.GameSummary
}

type queryGameMsg struct {
	RoomID string
	Rep    chan *comms.RoomState
}

type deleteGameMsg struct {
	RoomID string
	Rep    chan bool
}

type reapMsg struct{}

// refreshMsg pushes the current games list to every client, so lobbies
// stay fresh even when nothing notable happened.
type refreshMsg struct{}
