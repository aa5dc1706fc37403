package server

import (
	"io"
	"net"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/snowq173/SIK-Screen-Worms/internal/metrics"
	"github.com/snowq173/SIK-Screen-Worms/internal/wire"
)

func testConfig() Config {
	return Config{
		Port:         DefaultPort,
		Seed:         77,
		TurningSpeed: DefaultTurningSpeed,
		RoundsPerSec: DefaultRoundsPerSec,
		BoardWidth:   DefaultBoardWidth,
		BoardHeight:  DefaultBoardHeight,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	reg := metrics.NewRegistryFor(prometheus.NewRegistry())
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewEngine(testConfig(), reg, logger)
}

func udpAddr(t *testing.T, s string) *net.UDPAddr {
	t.Helper()
	addr, err := net.ResolveUDPAddr("udp", s)
	require.NoError(t, err)
	return addr
}

func readyDatagram(sessionID uint64, turn uint8, name string) wire.ClientDatagram {
	return wire.ClientDatagram{SessionID: sessionID, TurnDirection: turn, NextExpectedEvent: 0, PlayerName: name}
}

// Golden scenario 5: three slots connect with names "C","A","B" (not yet
// ready, so the game cannot start with only two of them), then all three
// become ready; initiate_game assigns player numbers A->0, B->1, C->2 and
// names in event 0 come out in that order.
func TestStartConditionSortsByName(t *testing.T) {
	e := newTestEngine(t)
	e.HandleClientDatagram(udpAddr(t, "127.0.0.1:1"), wire.EncodeClientDatagram(readyDatagram(1, 0, "C")))
	e.HandleClientDatagram(udpAddr(t, "127.0.0.1:2"), wire.EncodeClientDatagram(readyDatagram(2, 0, "A")))
	e.HandleClientDatagram(udpAddr(t, "127.0.0.1:3"), wire.EncodeClientDatagram(readyDatagram(3, 0, "B")))
	require.Equal(t, WaitingForPlayers, e.Status())

	raw := wire.EncodeClientDatagram(readyDatagram(1, 1, "C"))
	e.HandleClientDatagram(udpAddr(t, "127.0.0.1:1"), raw)
	raw = wire.EncodeClientDatagram(readyDatagram(2, 1, "A"))
	e.HandleClientDatagram(udpAddr(t, "127.0.0.1:2"), raw)
	raw = wire.EncodeClientDatagram(readyDatagram(3, 1, "B"))
	out := e.HandleClientDatagram(udpAddr(t, "127.0.0.1:3"), raw)

	require.Equal(t, GameStarted, e.Status())
	require.NotEmpty(t, out)

	idxC := e.findSlotByAddr(udpAddr(t, "127.0.0.1:1"))
	idxA := e.findSlotByAddr(udpAddr(t, "127.0.0.1:2"))
	idxB := e.findSlotByAddr(udpAddr(t, "127.0.0.1:3"))
	require.Equal(t, 0, e.slots[idxA].PlayerNumber)
	require.Equal(t, 1, e.slots[idxB].PlayerNumber)
	require.Equal(t, 2, e.slots[idxC].PlayerNumber)
	require.Equal(t, []string{"A", "B", "C"}, e.primaryNames)
}

// Golden scenario 4: reconnection arbitration.
func TestReconnectionSessionArbitration(t *testing.T) {
	e := newTestEngine(t)
	addr := udpAddr(t, "127.0.0.1:10")
	raw := wire.EncodeClientDatagram(readyDatagram(100, 0, "Alice"))
	e.HandleClientDatagram(addr, raw)
	idx := e.findSlotByAddr(addr)
	require.Equal(t, uint64(100), e.slots[idx].SessionID)

	// Lower session id: ignored, state unchanged.
	lower := wire.EncodeClientDatagram(readyDatagram(50, 1, "Mallory"))
	e.HandleClientDatagram(addr, lower)
	require.Equal(t, uint64(100), e.slots[idx].SessionID)
	require.Equal(t, "Alice", e.slots[idx].Name)

	// Higher session id: replaces, resets ready flags.
	higher := wire.EncodeClientDatagram(readyDatagram(200, 0, "Bob"))
	e.HandleClientDatagram(addr, higher)
	require.Equal(t, uint64(200), e.slots[idx].SessionID)
	require.Equal(t, "Bob", e.slots[idx].Name)
	require.False(t, e.slots[idx].Ready)
}

func TestSpectatorOnEmptyNameWhileWaiting(t *testing.T) {
	e := newTestEngine(t)
	addr := udpAddr(t, "127.0.0.1:20")
	raw := wire.EncodeClientDatagram(readyDatagram(1, 0, ""))
	e.HandleClientDatagram(addr, raw)
	idx := e.findSlotByAddr(addr)
	require.True(t, e.slots[idx].IsSpectator)
	require.False(t, e.slots[idx].IsPlaying)
}

func TestNewEntrantDuringGameStartedIsAlwaysSpectator(t *testing.T) {
	e := newTestEngine(t)
	e.HandleClientDatagram(udpAddr(t, "127.0.0.1:1"), wire.EncodeClientDatagram(readyDatagram(1, 1, "A")))
	e.HandleClientDatagram(udpAddr(t, "127.0.0.1:2"), wire.EncodeClientDatagram(readyDatagram(2, 1, "B")))
	require.Equal(t, GameStarted, e.Status())

	addr := udpAddr(t, "127.0.0.1:3")
	e.HandleClientDatagram(addr, wire.EncodeClientDatagram(readyDatagram(3, 1, "LateJoiner")))
	idx := e.findSlotByAddr(addr)
	require.True(t, e.slots[idx].IsSpectator)
	require.False(t, e.slots[idx].IsPlaying)
}

func TestRoundTickMovesWormsAndEndsGameAtOnePlayerLeft(t *testing.T) {
	e := newTestEngine(t)
	e.HandleClientDatagram(udpAddr(t, "127.0.0.1:1"), wire.EncodeClientDatagram(readyDatagram(1, 1, "A")))
	e.HandleClientDatagram(udpAddr(t, "127.0.0.1:2"), wire.EncodeClientDatagram(readyDatagram(2, 1, "B")))
	require.Equal(t, GameStarted, e.Status())
	require.Equal(t, 2, e.aliveCount)

	for i := 0; i < 100000 && e.Status() == GameStarted; i++ {
		e.RoundTick()
	}
	require.Equal(t, WaitingForPlayers, e.Status())
	require.Equal(t, 1, e.aliveCount)
}

func TestDuplicateNameRejectsNewSlot(t *testing.T) {
	e := newTestEngine(t)
	e.HandleClientDatagram(udpAddr(t, "127.0.0.1:1"), wire.EncodeClientDatagram(readyDatagram(1, 0, "Alice")))
	out := e.HandleClientDatagram(udpAddr(t, "127.0.0.1:2"), wire.EncodeClientDatagram(readyDatagram(2, 0, "Alice")))
	require.Empty(t, out)
	require.Equal(t, -1, e.findSlotByAddr(udpAddr(t, "127.0.0.1:2")))
}

func TestSlotTimeoutWithoutMessageDisconnects(t *testing.T) {
	e := newTestEngine(t)
	addr := udpAddr(t, "127.0.0.1:1")
	e.HandleClientDatagram(addr, wire.EncodeClientDatagram(readyDatagram(1, 0, "Alice")))
	idx := e.findSlotByAddr(addr)
	e.slots[idx].MessageReceived = false // simulate no keepalive since last fire
	e.HandleSlotTimeout(idx)
	require.False(t, e.slots[idx].Active)
}

func TestSlotTimeoutWithMessageRearms(t *testing.T) {
	e := newTestEngine(t)
	addr := udpAddr(t, "127.0.0.1:1")
	e.HandleClientDatagram(addr, wire.EncodeClientDatagram(readyDatagram(1, 0, "Alice")))
	idx := e.findSlotByAddr(addr)
	require.True(t, e.slots[idx].MessageReceived)
	e.HandleSlotTimeout(idx)
	require.True(t, e.slots[idx].Active)
	require.False(t, e.slots[idx].MessageReceived)
}
