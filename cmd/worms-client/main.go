// Command worms-client connects to a screen-worms game server and relays
// its events to a local text-line frontend over TCP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snowq173/SIK-Screen-Worms/internal/client"
)

func main() {
	cfg, err := client.ParseConfig(os.Args[1:])
	if err != nil {
		logrus.WithError(err).Fatal("invalid arguments")
	}

	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// sessionID must change across restarts (spec.md §4.3); microseconds
	// since epoch at startup, matching the original client's gettimeofday-
	// based seed.
	sessionID := uint64(time.Now().UnixMicro())

	c := client.New(cfg, sessionID, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := c.Start(ctx); err != nil {
		logger.WithError(err).Fatal("failed to start client")
	}
	logger.WithFields(logrus.Fields{
		"server": cfg.ServerHost,
		"name":   cfg.PlayerName,
	}).Info("client connected")

	<-ctx.Done()
	c.Stop()

	if fatal := c.Err(); fatal != nil {
		logger.WithError(fatal).Error("terminating")
		os.Exit(1)
	}
}
