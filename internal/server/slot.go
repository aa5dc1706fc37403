package server

import (
	"net"

	"github.com/snowq173/SIK-Screen-Worms/internal/board"
)

// GameStatus is the server's two-state game lifecycle (spec.md §3).
type GameStatus int

const (
	WaitingForPlayers GameStatus = iota
	GameStarted
)

func (s GameStatus) String() string {
	if s == GameStarted {
		return "GAME_STARTED"
	}
	return "WAITING_FOR_PLAYERS"
}

// Slot is one entry of the server's fixed 25-slot client table (spec.md
// §3 "Client slot"). A slot with Active==false is free.
type Slot struct {
	Active    bool
	Addr      *net.UDPAddr
	SessionID uint64
	Name      string

	Ready       bool
	IsPlaying   bool
	IsSpectator bool

	TurnDirection   uint8
	MessageReceived bool // set by any qualifying datagram since the last timeout check

	// Valid only while the current game includes this slot as a player.
	Worm         board.Worm
	Alive        bool
	PlayerNumber int
}

func (s *Slot) reset() {
	*s = Slot{}
}
