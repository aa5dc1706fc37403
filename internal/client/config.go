package client

import (
	"flag"
	"fmt"
	"time"
)

// Config is the client's immutable configuration, built from its CLI
// arguments (spec.md §6).
type Config struct {
	ServerHost string
	PlayerName string
	ServerPort int
	GuiHost    string
	GuiPort    int
	LogLevel   string
}

const (
	DefaultServerPort = 2021
	DefaultGuiHost    = "localhost"
	DefaultGuiPort    = 20210

	KeepaliveInterval = 30 * time.Millisecond
)

// ParseConfig parses the client's positional server-host argument plus its
// flags. Returns an error on a missing host (the host itself is resolved
// later, by Client.Start), an out-of-range name or port, or a bad integer
// flag.
func ParseConfig(args []string) (Config, error) {
	fs := flag.NewFlagSet("worms-client", flag.ContinueOnError)
	name := fs.String("n", "", "player name, ASCII 33..126, length 0..20 (empty means spectator)")
	port := fs.Int("p", DefaultServerPort, "game server UDP port")
	guiHost := fs.String("i", DefaultGuiHost, "frontend host")
	guiPort := fs.Int("r", DefaultGuiPort, "frontend TCP port")
	logLevel := fs.String("log-level", "info", "log level: debug|info|warn|error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return Config{}, fmt.Errorf("expected exactly one positional argument: game server host")
	}

	cfg := Config{
		ServerHost: rest[0],
		PlayerName: *name,
		ServerPort: *port,
		GuiHost:    *guiHost,
		GuiPort:    *guiPort,
		LogLevel:   *logLevel,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the player-name bounds from spec.md §6/§4.3.
func (c Config) Validate() error {
	if len(c.PlayerName) > 20 {
		return fmt.Errorf("player name longer than 20 bytes")
	}
	for _, b := range []byte(c.PlayerName) {
		if b < 33 || b > 126 {
			return fmt.Errorf("player name byte %d out of range [33,126]", b)
		}
	}
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("server port %d out of range", c.ServerPort)
	}
	if c.GuiPort < 1 || c.GuiPort > 65535 {
		return fmt.Errorf("gui port %d out of range", c.GuiPort)
	}
	return nil
}
