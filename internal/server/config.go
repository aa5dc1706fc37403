package server

import (
	"flag"
	"fmt"
	"time"
)

// Config is the server's immutable configuration, built once at startup
// from CLI flags (spec.md §6, §9 "Global mutable configuration becomes an
// immutable configuration value constructed at startup").
type Config struct {
	Port          int
	Seed          uint32
	TurningSpeed  uint32
	RoundsPerSec  uint32
	BoardWidth    int
	BoardHeight   int
	MetricsPort   int
	LogLevel      string
}

const (
	DefaultPort         = 2021
	DefaultTurningSpeed = 6
	DefaultRoundsPerSec = 50
	DefaultBoardWidth   = 640
	DefaultBoardHeight  = 480
	DefaultMetricsPort  = 9090

	MaxTurningSpeed = 90
	MaxRoundsPerSec = 100
	MaxBoardWidth   = 1920
	MaxBoardHeight  = 1440

	MaxPlayers    = 25
	SlotTimeout   = 2 * time.Second
	KeepaliveTick = 30 * time.Millisecond
)

// ParseConfig parses and validates server CLI flags per spec.md §6. On any
// bad integer string or out-of-range value it returns an error; callers
// (cmd/worms-server) log it and exit non-zero. The flag package itself
// prints usage for a malformed flag.
func ParseConfig(args []string) (Config, error) {
	fs := flag.NewFlagSet("worms-server", flag.ContinueOnError)
	port := fs.Int("p", DefaultPort, "UDP port to listen on")
	seed := fs.Uint("s", uint(time.Now().Unix()), "PRNG seed (must fit in u32)")
	turningSpeed := fs.Uint("t", DefaultTurningSpeed, "turning speed in degrees/round, 1..90")
	roundsPerSec := fs.Uint("v", DefaultRoundsPerSec, "rounds per second, 1..100")
	width := fs.Int("w", DefaultBoardWidth, "board width, 1..1920")
	height := fs.Int("h", DefaultBoardHeight, "board height, 1..1440")
	metricsPort := fs.Int("metrics-port", DefaultMetricsPort, "Prometheus /metrics port, 0 disables")
	logLevel := fs.String("log-level", "info", "log level: debug|info|warn|error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	// Range-check the unsigned flags before narrowing them to uint32, so an
	// oversized value is rejected instead of wrapping into range.
	if uint64(*seed) > uint64(^uint32(0)) {
		return Config{}, fmt.Errorf("seed %d does not fit in u32", *seed)
	}
	if *turningSpeed > MaxTurningSpeed {
		return Config{}, fmt.Errorf("turning speed %d out of range [1,%d]", *turningSpeed, MaxTurningSpeed)
	}
	if *roundsPerSec > MaxRoundsPerSec {
		return Config{}, fmt.Errorf("rounds per second %d out of range [1,%d]", *roundsPerSec, MaxRoundsPerSec)
	}

	cfg := Config{
		Port:         *port,
		Seed:         uint32(*seed),
		TurningSpeed: uint32(*turningSpeed),
		RoundsPerSec: uint32(*roundsPerSec),
		BoardWidth:   *width,
		BoardHeight:  *height,
		MetricsPort:  *metricsPort,
		LogLevel:     *logLevel,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every bound named in spec.md §6.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range [1,65535]", c.Port)
	}
	if uint64(c.Seed) > uint64(^uint32(0)) {
		return fmt.Errorf("seed does not fit in u32")
	}
	if c.TurningSpeed < 1 || c.TurningSpeed > MaxTurningSpeed {
		return fmt.Errorf("turning speed %d out of range [1,%d]", c.TurningSpeed, MaxTurningSpeed)
	}
	if c.RoundsPerSec < 1 || c.RoundsPerSec > MaxRoundsPerSec {
		return fmt.Errorf("rounds per second %d out of range [1,%d]", c.RoundsPerSec, MaxRoundsPerSec)
	}
	if c.BoardWidth < 1 || c.BoardWidth > MaxBoardWidth {
		return fmt.Errorf("board width %d out of range [1,%d]", c.BoardWidth, MaxBoardWidth)
	}
	if c.BoardHeight < 1 || c.BoardHeight > MaxBoardHeight {
		return fmt.Errorf("board height %d out of range [1,%d]", c.BoardHeight, MaxBoardHeight)
	}
	return nil
}
