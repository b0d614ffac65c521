// Command server runs the magick-duel arena's authoritative UDP game
// server and its companion admin HTTP surface. Ported from the teacher's
// cmd/server/main.go startup sequence (env loading, config, signal
// handling), rewired from Kick streaming onto the UDP transport, game
// loop, and admin channel built for this spec.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fight-club/internal/admin"
	"fight-club/internal/config"
	"fight-club/internal/gameloop"
	"fight-club/internal/geom"
	"fight-club/internal/session"
	"fight-club/internal/world"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "main")

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment variables only")
	}

	cfg := config.Load()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if cfg.Network.SessionTimeout < gameloop.HeartbeatPeriod {
		log.WithFields(logrus.Fields{
			"session_timeout":  cfg.Network.SessionTimeout,
			"heartbeat_period": gameloop.HeartbeatPeriod,
		}).Warn("game session timeout is shorter than the heartbeat period")
	}

	bounds := geom.NewRect(geom.NewVec2(-50, -50), geom.NewVec2(50, 50))
	settings := world.DefaultSettings()
	settings.UpdatePeriod = cfg.Sim.UpdatePeriod().Seconds()
	w := world.New(bounds, settings)

	seed := cfg.Sim.RandomSeed
	tableSeed := seed
	if tableSeed == 0 {
		tableSeed = int64(os.Getpid())
	}

	transport, err := session.NewServer(
		cfg.Network.Address,
		cfg.Network.Port,
		cfg.Network.MaxSessions,
		cfg.Network.SessionTimeout,
		cfg.Sim.UpdatePeriod(),
		rand.New(rand.NewSource(tableSeed)),
	)
	if err != nil {
		log.WithError(err).Fatal("failed to bind UDP session server")
	}

	adminCh := admin.NewChannel()
	loop := gameloop.NewLoop(w, transport, adminCh, gameloop.Config{
		MaxPlayers:      cfg.Network.MaxPlayers,
		UpdateFrequency: cfg.Sim.UpdateFrequency,
		UpdatePeriod:    cfg.Sim.UpdatePeriod(),
		RandomSeed:      seed,
	})

	ctx, cancel := context.WithCancel(context.Background())

	go transport.Run(ctx)
	go func() {
		loop.Run(ctx)
		cancel()
	}()

	router := admin.NewRouter(admin.RouterConfig{Channel: adminCh})
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Admin.Address, cfg.Admin.Port),
		Handler: router,
	}
	go func() {
		log.WithField("addr", httpServer.Addr).Info("admin HTTP surface listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("admin HTTP server stopped")
		}
	}()

	log.WithFields(logrus.Fields{
		"addr":             cfg.Network.Address,
		"port":             cfg.Network.Port,
		"max_sessions":     cfg.Network.MaxSessions,
		"max_players":      cfg.Network.MaxPlayers,
		"update_frequency": cfg.Sim.UpdateFrequency,
	}).Info("game server running")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sig:
		log.Info("shutdown signal received")
	case <-ctx.Done():
		log.Info("game loop stopped")
	}

	cancel()
	_ = httpServer.Close()
	_ = transport.Close()
}
