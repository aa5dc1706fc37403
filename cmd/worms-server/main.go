// Command worms-server runs the screen-worms game server: a single UDP
// listener serving up to 25 concurrent player/spectator slots.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/snowq173/SIK-Screen-Worms/internal/metrics"
	"github.com/snowq173/SIK-Screen-Worms/internal/server"
)

func main() {
	cfg, err := server.ParseConfig(os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	reg := metrics.NewRegistry()
	if cfg.MetricsPort > 0 {
		go func() {
			if err := reg.Serve(cfg.MetricsPort); err != nil {
				logger.WithError(err).Warn("metrics server stopped")
			}
		}()
	}

	srv := server.New(cfg, reg, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Start(ctx); err != nil {
		logger.WithError(err).Fatal("failed to start server")
	}
	logger.WithFields(logrus.Fields{
		"port":           cfg.Port,
		"board":          []int{cfg.BoardWidth, cfg.BoardHeight},
		"rounds_per_sec": cfg.RoundsPerSec,
	}).Info("server listening")

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Stop()
}
