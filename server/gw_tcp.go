package server

import (
	"context"
	"errors"
	"io"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pigstygame/pigsty/comms"
)

// TCPGateway speaks the same protocol as the websocket, framed as one
// JSON message per line. It exists for bots and terminal clients.
type TCPGateway struct {
	server *Server
	addr   string
	log    zerolog.Logger
}

func NewTCPGateway(srv *Server, addr string, log zerolog.Logger) *TCPGateway {
	return &TCPGateway{
		server: srv,
		addr:   addr,
		log:    log.With().Str("cmp", "tcp").Logger(),
	}
}

func (g *TCPGateway) Run(ctx context.Context) error {
	l, err := net.Listen("tcp", g.addr)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		l.Close()
	}()

	g.log.Info().Str("addr", g.addr).Msg("tcp gateway listening")
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go g.serve(ctx, conn)
	}
}

func (g *TCPGateway) serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	playerID := uuid.NewString()
	log := g.log.With().Str("player", playerID).Logger()

	downCh := make(chan comms.Message, downBufferSize)
	if err := g.server.Connect(playerID, downCh); err != nil {
		return
	}
	defer g.server.Disconnect(playerID)

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		enc := comms.NewEncoder(conn)
		for {
			select {
			case <-wctx.Done():
				return
			case msg := <-downCh:
				if err := enc.Send(msg); err != nil {
					log.Debug().Err(err).Msg("tcp write failed")
					conn.Close()
					return
				}
			}
		}
	}()

	dec := comms.NewDecoder(conn)
	for {
		msg, err := dec.Decode()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Msg("tcp read failed")
			}
			return
		}
		g.server.Deliver(playerID, msg)
	}
}
