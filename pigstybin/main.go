package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/pigstygame/pigsty/config"
	"github.com/pigstygame/pigsty/server"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := server.NewRegistry(nil, nil)
	srv := server.NewServer(reg, cfg.BroadcastInterval, cfg.ReapInterval, cfg.RoomMaxAge, log.Logger)
	web := server.NewWebGateway(srv, cfg.WebAddr, log.Logger)
	tcp := server.NewTCPGateway(srv, cfg.TCPAddr, log.Logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error { return web.Run(gctx) })
	g.Go(func() error { return tcp.Run(gctx) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("bye")
}
