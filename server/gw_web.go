package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/pigstygame/pigsty/comms"
)

// WebGateway serves the websocket endpoint plus a small REST read
// surface over the same listener. All game traffic goes over /ws; REST
// exists for lobbies and tooling that only want a peek.
type WebGateway struct {
	server *Server
	addr   string
	log    zerolog.Logger
}

func NewWebGateway(srv *Server, addr string, log zerolog.Logger) *WebGateway {
	return &WebGateway{
		server: srv,
		addr:   addr,
		log:    log.With().Str("cmp", "web").Logger(),
	}
}

func (g *WebGateway) Run(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/api/games", g.listGames)
	r.GET("/api/games/:id", g.getGame)
	r.DELETE("/api/games/:id", g.deleteGame)
	r.GET("/ws", g.serveWS)

	hs := &http.Server{Addr: g.addr, Handler: r}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(sctx)
	}()

	g.log.Info().Str("addr", g.addr).Msg("web gateway listening")
	err := hs.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (g *WebGateway) listGames(c *gin.Context) {
	c.JSON(http.StatusOK, g.server.ListGames())
}

func (g *WebGateway) getGame(c *gin.Context) {
	room := g.server.QueryGame(c.Param("id"))
	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room does not exist"})
		return
	}
	c.JSON(http.StatusOK, room)
}

func (g *WebGateway) deleteGame(c *gin.Context) {
	if !g.server.DeleteGame(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room does not exist"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (g *WebGateway) serveWS(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		g.log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "going away")

	ctx := c.Request.Context()
	playerID := uuid.NewString()
	log := g.log.With().Str("player", playerID).Logger()

	downCh := make(chan comms.Message, downBufferSize)
	if err := g.server.Connect(playerID, downCh); err != nil {
		log.Warn().Err(err).Msg("registration refused")
		return
	}
	defer g.server.Disconnect(playerID)

	// writer; the read loop below owns the connection's lifetime
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		for {
			select {
			case <-wctx.Done():
				return
			case msg := <-downCh:
				if err := wsjson.Write(wctx, conn, msg); err != nil {
					log.Debug().Err(err).Msg("websocket write failed")
					return
				}
			}
		}
	}()

	for {
		var msg comms.Message
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			log.Debug().Err(err).Msg("websocket closed")
			return
		}
		g.server.Deliver(playerID, msg)
	}
}
