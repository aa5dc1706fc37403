// Package server implements the authoritative game server: the per-slot
// client table, session-id arbitration, the waiting/started state machine,
// the round tick driver, and event broadcast (spec.md §4.4). Engine holds
// this logic as pure, synchronously-callable methods so it can be driven
// either by unit tests or by the goroutine/channel event loop in loop.go;
// every method is called from the same single "engine goroutine" at
// runtime, which is what realizes spec.md §5's single-threaded invariants
// in Go (see SPEC_FULL.md §5).
package server

import (
	"net"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/snowq173/SIK-Screen-Worms/internal/board"
	"github.com/snowq173/SIK-Screen-Worms/internal/eventlog"
	"github.com/snowq173/SIK-Screen-Worms/internal/metrics"
	"github.com/snowq173/SIK-Screen-Worms/internal/prng"
	"github.com/snowq173/SIK-Screen-Worms/internal/wire"
)

// Datagram is one outbound UDP payload the engine wants sent.
type Datagram struct {
	Addr    *net.UDPAddr
	Payload []byte
}

// Engine is the server's game/session core.
type Engine struct {
	cfg     Config
	rng     *prng.State
	slots   [MaxPlayers]Slot
	board   *board.Board
	gamelog eventlog.Log
	status  GameStatus
	gameID  uint32

	playersCount int
	readyPlayers int
	aliveCount   int
	primaryNames []string

	metrics *metrics.Registry
	logger  *logrus.Logger
}

// NewEngine constructs an Engine. reg and logger must not be nil; callers
// in tests should pass metrics.NewRegistryFor(prometheus.NewRegistry()) and
// logrus.New() to avoid colliding with global state.
func NewEngine(cfg Config, reg *metrics.Registry, logger *logrus.Logger) *Engine {
	return &Engine{
		cfg:     cfg,
		rng:     prng.New(cfg.Seed),
		board:   board.New(cfg.BoardWidth, cfg.BoardHeight),
		status:  WaitingForPlayers,
		metrics: reg,
		logger:  logger,
	}
}

// Status reports the current game status, for the loop wrapper to decide
// whether the round timer should be armed.
func (e *Engine) Status() GameStatus { return e.status }

func addrKey(addr *net.UDPAddr) string {
	if addr == nil {
		return ""
	}
	return addr.String()
}

func (e *Engine) findSlotByAddr(addr *net.UDPAddr) int {
	key := addrKey(addr)
	for i := range e.slots {
		if e.slots[i].Active && addrKey(e.slots[i].Addr) == key {
			return i
		}
	}
	return -1
}

func (e *Engine) nameActiveElsewhere(name string, except int) bool {
	if name == "" {
		return false
	}
	for i := range e.slots {
		if i == except {
			continue
		}
		if e.slots[i].Active && e.slots[i].Name == name {
			return true
		}
	}
	return false
}

func (e *Engine) activeCount() int {
	n := 0
	for i := range e.slots {
		if e.slots[i].Active {
			n++
		}
	}
	return n
}

func (e *Engine) firstFreeSlot() int {
	for i := range e.slots {
		if !e.slots[i].Active {
			return i
		}
	}
	return -1
}

// HandleClientDatagram processes one inbound client→server datagram
// (spec.md §4.4's admission/arbitration/keepalive rules, grounded on
// screen-worms-server.c's handle_client_datagram/handle_new_client/
// handle_existing_client). Malformed datagrams are discarded silently.
func (e *Engine) HandleClientDatagram(addr *net.UDPAddr, raw []byte) []Datagram {
	e.incMetric(e.metrics.DatagramsReceived)
	d, err := wire.DecodeClientDatagram(raw)
	if err != nil {
		e.incReason("bad_client_datagram")
		e.logger.WithError(err).Debug("discarding malformed client datagram")
		return nil
	}

	if idx := e.findSlotByAddr(addr); idx >= 0 {
		return e.handleExistingClient(idx, d)
	}
	if e.nameActiveElsewhere(d.PlayerName, -1) {
		e.incReason("duplicate_name")
		return nil
	}
	return e.handleNewClient(addr, d)
}

func (e *Engine) handleNewClient(addr *net.UDPAddr, d wire.ClientDatagram) []Datagram {
	if e.activeCount() >= MaxPlayers {
		e.incReason("table_full")
		return nil
	}
	idx := e.firstFreeSlot()
	if idx < 0 {
		e.incReason("table_full")
		return nil
	}
	slot := &e.slots[idx]
	slot.reset()
	slot.Active = true
	slot.Addr = addr
	slot.SessionID = d.SessionID
	slot.Name = d.PlayerName
	slot.TurnDirection = d.TurnDirection
	slot.MessageReceived = true
	e.armTimer(idx)

	if e.status == GameStarted {
		slot.IsSpectator = true
	} else {
		if d.PlayerName != "" {
			slot.IsPlaying = true
			e.playersCount++
			if d.TurnDirection != 0 {
				slot.Ready = true
				e.readyPlayers++
			}
		} else {
			slot.IsSpectator = true
		}
	}
	e.setActiveSlotsGauge()

	out := e.sendHistory(idx, d.NextExpectedEvent)
	out = append(out, e.maybeStartGame()...)
	return out
}

func (e *Engine) handleExistingClient(idx int, d wire.ClientDatagram) []Datagram {
	slot := &e.slots[idx]
	switch {
	case d.SessionID < slot.SessionID:
		return nil
	case d.SessionID > slot.SessionID:
		return e.reassignSlot(idx, d)
	default: // equal session id
		if d.PlayerName != slot.Name {
			return nil
		}
		slot.MessageReceived = true
		if e.status == WaitingForPlayers {
			if d.TurnDirection != 0 && !slot.Ready {
				slot.Ready = true
				e.readyPlayers++
			}
			slot.TurnDirection = d.TurnDirection
		} else {
			if !slot.IsSpectator && slot.Alive {
				slot.TurnDirection = d.TurnDirection
			}
		}
		out := e.sendHistory(idx, d.NextExpectedEvent)
		out = append(out, e.maybeStartGame()...)
		return out
	}
}

func (e *Engine) reassignSlot(idx int, d wire.ClientDatagram) []Datagram {
	slot := &e.slots[idx]
	if e.status == WaitingForPlayers {
		if slot.IsPlaying {
			e.playersCount--
			if slot.Ready {
				e.readyPlayers--
			}
		}
	}

	slot.SessionID = d.SessionID
	slot.Name = d.PlayerName
	slot.TurnDirection = d.TurnDirection
	slot.MessageReceived = true
	slot.Ready = false
	e.armTimer(idx)

	if e.status == GameStarted {
		slot.IsSpectator = true
		slot.IsPlaying = false
	} else {
		if d.PlayerName != "" {
			slot.IsPlaying = true
			slot.IsSpectator = false
			e.playersCount++
			if d.TurnDirection != 0 {
				slot.Ready = true
				e.readyPlayers++
			}
		} else {
			slot.IsSpectator = true
			slot.IsPlaying = false
		}
	}

	out := e.sendHistory(idx, d.NextExpectedEvent)
	out = append(out, e.maybeStartGame()...)
	return out
}

// maybeStartGame checks the waiting→started transition condition and, if
// met, runs initiate_game.
func (e *Engine) maybeStartGame() []Datagram {
	if e.status != WaitingForPlayers {
		return nil
	}
	if e.playersCount > 1 && e.readyPlayers == e.playersCount {
		return e.initiateGame()
	}
	return nil
}

// initiateGame implements spec.md §4.4's initiate_game sequence exactly,
// grounded on game_server_protocol.c's initiate_game/generate_random call
// order.
func (e *Engine) initiateGame() []Datagram {
	type ready struct {
		idx  int
		name string
	}
	var readySlots []ready
	for i := range e.slots {
		if e.slots[i].Active && e.slots[i].IsPlaying && e.slots[i].Ready {
			readySlots = append(readySlots, ready{i, e.slots[i].Name})
		}
	}
	sort.Slice(readySlots, func(i, j int) bool { return readySlots[i].name < readySlots[j].name })

	e.gameID = e.rng.Next()
	e.board.Clear()
	e.gamelog.Reset()

	e.playersCount = len(readySlots)
	e.aliveCount = e.playersCount
	e.primaryNames = make([]string, e.playersCount)
	for n, r := range readySlots {
		e.slots[r.idx].PlayerNumber = n
		e.primaryNames[n] = r.name
	}

	e.gamelog.Append(wire.Record{
		Type:        wire.EventNewGame,
		BoardX:      uint32(e.cfg.BoardWidth),
		BoardY:      uint32(e.cfg.BoardHeight),
		PlayerNames: e.primaryNames,
	})

	for n, r := range readySlots {
		slot := &e.slots[r.idx]
		x := int(e.rng.Next() % uint32(e.cfg.BoardWidth))
		y := int(e.rng.Next() % uint32(e.cfg.BoardHeight))
		dir := e.rng.Next() % 360
		slot.Worm.Place(x, y, dir)
		slot.Alive = true
		if e.board.Occupied(x, y) {
			slot.Alive = false
			e.aliveCount--
			e.gamelog.Append(wire.Record{Type: wire.EventPlayerEliminated, PlayerNo: uint8(n)})
		} else {
			e.board.Occupy(x, y)
			e.gamelog.Append(wire.Record{Type: wire.EventPixel, PlayerNo: uint8(n), X: uint32(x), Y: uint32(y)})
		}
	}

	e.status = GameStarted
	e.incMetric(e.metrics.GamesStarted)
	return e.broadcast(0)
}

// RoundTick implements spec.md §4.4's round tick. It is a no-op unless the
// game is currently started; the loop wrapper should only call it while
// the round timer is armed.
func (e *Engine) RoundTick() []Datagram {
	if e.status != GameStarted {
		return nil
	}
	e.incMetric(e.metrics.RoundTicks)
	tail := e.gamelog.Len()

	for i := range e.slots {
		slot := &e.slots[i]
		if !slot.IsPlaying || !slot.Alive {
			continue
		}
		slot.Worm.Turn(slot.TurnDirection, float64(e.cfg.TurningSpeed))
		oldX, oldY := slot.Worm.CellX(), slot.Worm.CellY()
		newX, newY := slot.Worm.Advance()
		newCellX, newCellY := board.CellOf(newX, newY)
		slot.Worm.Commit(newX, newY)

		if newCellX == oldX && newCellY == oldY {
			continue
		}
		if !e.board.InBounds(newCellX, newCellY) || e.board.Occupied(newCellX, newCellY) {
			slot.Alive = false
			e.aliveCount--
			e.gamelog.Append(wire.Record{Type: wire.EventPlayerEliminated, PlayerNo: uint8(slot.PlayerNumber)})
		} else {
			e.board.Occupy(newCellX, newCellY)
			e.gamelog.Append(wire.Record{Type: wire.EventPixel, PlayerNo: uint8(slot.PlayerNumber), X: uint32(newCellX), Y: uint32(newCellY)})
		}

		if e.aliveCount == 1 {
			e.endGame()
			break
		}
	}

	return e.broadcast(tail)
}

// endGame transitions back to WAITING_FOR_PLAYERS, per
// update_players_after_game in game_server_protocol.c.
func (e *Engine) endGame() {
	e.status = WaitingForPlayers
	e.gamelog.Append(wire.Record{Type: wire.EventGameOver})
	e.readyPlayers = 0
	e.playersCount = 0
	for i := range e.slots {
		slot := &e.slots[i]
		if !slot.Active {
			continue
		}
		if slot.Name != "" {
			slot.IsPlaying = true
			slot.IsSpectator = false
			slot.Ready = false
			e.playersCount++
		} else {
			slot.IsSpectator = true
			slot.IsPlaying = false
		}
	}
}

// HandleSlotTimeout implements the 2-second per-slot timeout policy
// (spec.md §4.4).
func (e *Engine) HandleSlotTimeout(idx int) []Datagram {
	slot := &e.slots[idx]
	if !slot.Active {
		return nil
	}
	if slot.MessageReceived {
		slot.MessageReceived = false
		e.armTimer(idx)
		return nil
	}

	if e.status == WaitingForPlayers && slot.IsPlaying {
		e.playersCount--
		if slot.Ready {
			e.readyPlayers--
		}
	}
	e.cancelTimer(idx)
	slot.reset()
	e.setActiveSlotsGauge()

	return e.maybeStartGame()
}

// broadcast packs the log from index `from` and sends to every active slot.
func (e *Engine) broadcast(from int) []Datagram {
	packed := e.gamelog.PackFrom(e.gameID, from)
	var out []Datagram
	for i := range e.slots {
		if !e.slots[i].Active {
			continue
		}
		for _, p := range packed {
			out = append(out, Datagram{Addr: e.slots[i].Addr, Payload: p})
			e.incMetric(e.metrics.DatagramsSent)
			e.metrics.BytesSent.Add(float64(len(p)))
		}
	}
	return out
}

// sendHistory packs the log from the requested index and sends only to the
// requesting slot (spec.md §4.4 "Send-history").
func (e *Engine) sendHistory(idx int, from uint32) []Datagram {
	packed := e.gamelog.PackFrom(e.gameID, int(from))
	var out []Datagram
	for _, p := range packed {
		out = append(out, Datagram{Addr: e.slots[idx].Addr, Payload: p})
		e.incMetric(e.metrics.DatagramsSent)
		e.metrics.BytesSent.Add(float64(len(p)))
	}
	return out
}

// armTimer and cancelTimer are no-ops on Engine: the actual per-slot OS
// timer is owned by the event loop (loop.go), keyed by slot index, per
// spec.md §9's "represent timers as integer handles owned by the loop; no
// back-pointers". Engine only tracks the MessageReceived flag the loop's
// timeout handler consults before deciding whether to rearm or disconnect.
func (e *Engine) armTimer(idx int) { _ = idx }

func (e *Engine) cancelTimer(idx int) { _ = idx }

func (e *Engine) setActiveSlotsGauge() {
	e.metrics.ActiveSlots.Set(float64(e.activeCount()))
}

func (e *Engine) incMetric(c interface{ Inc() }) {
	if c != nil {
		c.Inc()
	}
}

func (e *Engine) incReason(reason string) {
	e.metrics.ProtocolErrors.WithLabelValues(reason).Inc()
}
