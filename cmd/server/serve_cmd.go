package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tpetri/mcgserver/internal/config"
	"github.com/tpetri/mcgserver/internal/lobby"
	"github.com/tpetri/mcgserver/internal/transport/httpapi"
	"github.com/tpetri/mcgserver/internal/transport/p2p"
	"github.com/tpetri/mcgserver/internal/transport/ws"
)

// ServeCmd starts the lobby, its bot driver, and every transport adapter,
// and runs until a shutdown signal arrives.
type ServeCmd struct {
	Config    string        `kong:"default='mcg_server.toml',help='Path to the TOML config file'"`
	Addr      string        `kong:"default=':8080',help='HTTP/WebSocket listen address'"`
	P2PAddr   string        `kong:"default=':8081',help='P2P stream listen address'"`
	PkgDir    string        `kong:"help='Directory to serve at /pkg'"`
	MediaDir  string        `kong:"help='Directory to serve at /media'"`
	SPAIndex  string        `kong:"help='SPA index.html to serve as a fallback'"`
	Debug     bool          `kong:"help='Enable debug logging'"`
	MinDelay  time.Duration `kong:"default='500ms',help='Bot driver minimum inter-action delay'"`
	MaxDelay  time.Duration `kong:"default='1500ms',help='Bot driver maximum inter-action delay'"`
	Seed      *uint64       `kong:"help='Deterministic RNG seed (optional)'"`
}

func (c *ServeCmd) Run() error {
	logger := setupLogger(c.Debug)

	cfg, err := config.Load(c.Config)
	if err != nil {
		logger.Fatal().Err(err).Msg("loading config")
	}

	var seed1, seed2 uint64
	if c.Seed != nil {
		seed1, seed2 = *c.Seed, *c.Seed^0x9e3779b97f4a7c15
	} else {
		seed1, seed2 = uint64(time.Now().UnixNano()), uint64(time.Now().UnixNano())+1
	}
	rng := rand.New(rand.NewPCG(seed1, seed2))

	l := lobby.New(lobby.Config{SmallBlind: cfg.SmallBlind, BigBlind: cfg.BigBlind}, rng, logger)
	driver := lobby.NewBotDriver(l, rand.New(rand.NewPCG(seed1^1, seed2^1)), c.MinDelay, c.MaxDelay)

	mux := httpapi.Mux(l, logger, httpapi.Config{PkgDir: c.PkgDir, MediaDir: c.MediaDir, SPAIndex: c.SPAIndex})
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		ws.Handle(l, logger, w, r)
	})

	httpServer := &http.Server{Addr: c.Addr, Handler: mux}

	ctx := setupSignalContext(logger)
	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return driver.Run(gctx)
	})

	p2pListener, err := p2p.Listen(gctx, c.P2PAddr, l, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("starting p2p listener")
	}
	group.Go(func() error {
		<-gctx.Done()
		return p2pListener.Close()
	})

	group.Go(func() error {
		logger.Info().Str("addr", c.Addr).Str("p2p_addr", c.P2PAddr).Msg("serving")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
