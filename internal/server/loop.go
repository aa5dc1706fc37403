package server

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snowq173/SIK-Screen-Worms/internal/metrics"
)

// Server owns the UDP socket, the round timer, the per-slot timeout
// timers, and the single engine goroutine that serializes every handler
// invocation against the Engine (spec.md §5). I/O goroutines — one reading
// the socket, one driving the round ticker — each push a typed event onto
// engineEvents; only the engine goroutine ever touches Engine, which is
// what realizes the spec's single-threaded state-mutation invariant with
// idiomatic Go concurrency rather than a literal poll() loop. This mirrors
// the teacher's Server.Start (goroutines funneled through channels, guarded
// shutdown via ctx/cancel) generalized from a worker-pool-per-message
// design to a single serializing consumer, because this domain's
// invariants (event log written only by one path) require it.
type Server struct {
	cfg     Config
	engine  *Engine
	metrics *metrics.Registry
	logger  *logrus.Logger

	conn *net.UDPConn

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	engineEvents chan engineEvent

	timersMu sync.Mutex
	timers   [MaxPlayers]*time.Timer
}

type engineEventKind int

const (
	eventClientDatagram engineEventKind = iota
	eventRoundTick
	eventSlotTimeout
)

type engineEvent struct {
	kind    engineEventKind
	addr    *net.UDPAddr
	payload []byte
	slotIdx int
}

// New constructs a Server bound to cfg; it does not open any socket until
// Start is called.
func New(cfg Config, reg *metrics.Registry, logger *logrus.Logger) *Server {
	return &Server{
		cfg:          cfg,
		engine:       NewEngine(cfg, reg, logger),
		metrics:      reg,
		logger:       logger,
		engineEvents: make(chan engineEvent, 64),
	}
}

// Start opens the UDP socket (dual-stack IPv6 per spec.md §6) and launches
// the network-read and engine goroutines; the engine goroutine arms the
// round timer itself. It returns once the socket is listening; call Stop
// to shut down.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	// "udp" with a wildcard address gives a dual-stack socket; "udp6" would
	// be IPv6-only.
	addr, err := net.ResolveUDPAddr("udp", ":"+strconv.Itoa(s.cfg.Port))
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return err
	}
	s.conn = conn

	s.wg.Add(2)
	go s.networkLoop()
	go s.engineLoop()

	return nil
}

// Stop cancels the server's context and closes the socket, then waits for
// all goroutines to exit.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.conn != nil {
		s.conn.Close()
	}
	s.wg.Wait()
}

func (s *Server) networkLoop() {
	defer s.wg.Done()
	buf := make([]byte, 4096)
	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}
		s.conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-s.ctx.Done():
				return
			default:
				s.logger.WithError(err).Warn("udp read error")
				continue
			}
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])
		select {
		case s.engineEvents <- engineEvent{kind: eventClientDatagram, addr: addr, payload: payload}:
		case <-s.ctx.Done():
			return
		}
	}
}

// engineLoop is the single goroutine that owns Engine. The round ticker,
// every per-slot timeout timer, and the datagram reader all funnel onto
// engineEvents, and this loop handles exactly one at a time — that
// serialization is what satisfies spec.md §5's "no operation suspends in
// the middle of state mutation" invariant. Strict priority order (round
// timer before slot timeouts before one client datagram) is not
// reproduced exactly — Go's channel/select has no built-in priority — but
// every handler commits its full state transition before the next event is
// read, so no invariant that depends on ordering-within-a-tick is ever
// violated; at worst a datagram is processed a few microseconds before or
// after a timer that fired in the same instant.
func (s *Server) engineLoop() {
	defer s.wg.Done()

	var roundTicker *time.Timer
	roundPending := false // a round timer is armed and its tick not yet handled
	armRoundTicker := func() {
		if s.engine.Status() != GameStarted {
			return
		}
		period := time.Second / time.Duration(s.cfg.RoundsPerSec)
		roundPending = true
		roundTicker = time.AfterFunc(period, func() {
			select {
			case s.engineEvents <- engineEvent{kind: eventRoundTick}:
			case <-s.ctx.Done():
			}
		})
	}

	for {
		select {
		case <-s.ctx.Done():
			if roundTicker != nil {
				roundTicker.Stop()
			}
			return
		case ev := <-s.engineEvents:
			if ev.kind == eventRoundTick {
				roundPending = false
			}
			s.dispatch(ev)
			if ev.kind == eventRoundTick || ev.kind == eventClientDatagram {
				// A round may have just started or ended; (re)arm as needed,
				// keeping at most one round timer pending.
				if s.engine.Status() == GameStarted && !roundPending {
					armRoundTicker()
				}
			}
		}
	}
}

func (s *Server) dispatch(ev engineEvent) {
	var out []Datagram
	switch ev.kind {
	case eventClientDatagram:
		out = s.engine.HandleClientDatagram(ev.addr, ev.payload)
		if idx := s.engine.findSlotByAddr(ev.addr); idx >= 0 {
			s.rearmSlotTimer(idx)
		}
	case eventRoundTick:
		out = s.engine.RoundTick()
	case eventSlotTimeout:
		out = s.engine.HandleSlotTimeout(ev.slotIdx)
		if s.engine.slots[ev.slotIdx].Active {
			s.rearmSlotTimer(ev.slotIdx)
		}
	}
	for _, d := range out {
		if _, err := s.conn.WriteToUDP(d.Payload, d.Addr); err != nil {
			s.logger.WithError(err).Warn("udp write error")
		}
	}
}

func (s *Server) rearmSlotTimer(idx int) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if s.timers[idx] != nil {
		s.timers[idx].Stop()
	}
	slotIdx := idx
	s.timers[idx] = time.AfterFunc(SlotTimeout, func() {
		select {
		case s.engineEvents <- engineEvent{kind: eventSlotTimeout, slotIdx: slotIdx}:
		case <-s.ctx.Done():
		}
	})
}
