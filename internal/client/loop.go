package client

import (
	"bufio"
	"context"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snowq173/SIK-Screen-Worms/internal/frontend"
	"github.com/snowq173/SIK-Screen-Worms/internal/wire"
)

// Client owns the UDP socket to the game server, the TCP socket to the
// local frontend, the keepalive ticker, and the single engine goroutine
// that serializes all three against the shared session state (spec.md
// §4.6, mirroring the server's single-engine-goroutine realization of
// §5 in internal/server/loop.go).
type Client struct {
	cfg    Config
	reass  *Reassembler
	logger *logrus.Logger

	serverConn *net.UDPConn
	frontConn  *net.TCPConn

	sessionID uint64
	turnDirMu sync.Mutex
	turnDir   uint8

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	fatalErr *FatalError

	events chan clientEvent
}

type clientEventKind int

const (
	eventServerDatagram clientEventKind = iota
	eventFrontendLine
	eventKeepalive
)

type clientEvent struct {
	kind    clientEventKind
	payload []byte
	line    string
}

// New constructs a Client bound to cfg. sessionID should be a value unique
// to this process run (spec.md §4.3: "a value that changes across restarts,
// e.g. the time the client started, in microseconds").
func New(cfg Config, sessionID uint64, logger *logrus.Logger) *Client {
	return &Client{
		cfg:       cfg,
		reass:     NewReassembler(),
		logger:    logger,
		sessionID: sessionID,
		events:    make(chan clientEvent, 64),
	}
}

// Start dials the game server over UDP and the frontend over TCP
// (TCP_NODELAY, per spec.md §4.6), then launches the reader and engine
// goroutines. It returns once both connections are established.
func (c *Client) Start(ctx context.Context) error {
	c.ctx, c.cancel = context.WithCancel(ctx)

	serverAddr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(c.cfg.ServerHost, strconv.Itoa(c.cfg.ServerPort)))
	if err != nil {
		return err
	}
	serverConn, err := net.DialUDP("udp", nil, serverAddr)
	if err != nil {
		return err
	}
	c.serverConn = serverConn

	frontAddr, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(c.cfg.GuiHost, strconv.Itoa(c.cfg.GuiPort)))
	if err != nil {
		return err
	}
	frontConn, err := net.DialTCP("tcp", nil, frontAddr)
	if err != nil {
		return err
	}
	frontConn.SetNoDelay(true)
	c.frontConn = frontConn

	c.wg.Add(3)
	go c.serverReadLoop()
	go c.frontendReadLoop()
	go c.engineLoop()

	return nil
}

// Stop cancels the client's context and closes both sockets, then waits
// for all goroutines to exit.
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	if c.serverConn != nil {
		c.serverConn.Close()
	}
	if c.frontConn != nil {
		c.frontConn.Close()
	}
	c.wg.Wait()
}

// Err returns the fatal protocol violation that caused the client to shut
// itself down, or nil if Stop was called for any other reason (a signal,
// or the caller's own choice). Only valid after Stop has returned.
func (c *Client) Err() *FatalError {
	return c.fatalErr
}

func (c *Client) serverReadLoop() {
	defer c.wg.Done()
	buf := make([]byte, wire.ServerDatagramMaxSize)
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}
		c.serverConn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		n, err := c.serverConn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			select {
			case <-c.ctx.Done():
				return
			default:
				c.logger.WithError(err).Warn("udp read error")
				continue
			}
		}
		payload := make([]byte, n)
		copy(payload, buf[:n])
		select {
		case c.events <- clientEvent{kind: eventServerDatagram, payload: payload}:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) frontendReadLoop() {
	defer c.wg.Done()
	var acc frontend.Accumulator
	buf := make([]byte, 256)
	r := bufio.NewReader(c.frontConn)
	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}
		n, err := r.Read(buf)
		if err != nil {
			if err != io.EOF {
				c.logger.WithError(err).Warn("frontend read error")
			}
			return
		}
		for _, line := range acc.Feed(buf[:n]) {
			select {
			case c.events <- clientEvent{kind: eventFrontendLine, line: line}:
			case <-c.ctx.Done():
				return
			}
		}
	}
}

// engineLoop is the single goroutine that owns Reassembler state and the
// client's outgoing turn_direction/next_expected, mirroring the server's
// engine loop: every incoming source funnels through one channel, so no
// operation observes a half-applied event while another is in flight.
func (c *Client) engineLoop() {
	defer c.wg.Done()

	keepalive := time.NewTicker(KeepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-keepalive.C:
			c.sendClientDatagram()
		case ev := <-c.events:
			switch ev.kind {
			case eventServerDatagram:
				lines, err := c.reass.ProcessDatagram(ev.payload)
				for _, line := range lines {
					if _, werr := c.frontConn.Write([]byte(line)); werr != nil {
						c.logger.WithError(werr).Warn("frontend write error")
					}
				}
				if err != nil {
					c.logger.WithError(err).Error("client terminating on protocol violation")
					if fe, ok := err.(*FatalError); ok {
						c.fatalErr = fe
					}
					c.cancel()
					return
				}
			case eventFrontendLine:
				if dir, ok := frontend.TurnDirection(ev.line); ok {
					c.turnDirMu.Lock()
					c.turnDir = dir
					c.turnDirMu.Unlock()
				}
			}
		}
	}
}

func (c *Client) sendClientDatagram() {
	c.turnDirMu.Lock()
	dir := c.turnDir
	c.turnDirMu.Unlock()

	dg := wire.ClientDatagram{
		SessionID:         c.sessionID,
		TurnDirection:     dir,
		NextExpectedEvent: c.reass.State().NextExpected,
		PlayerName:        c.cfg.PlayerName,
	}
	payload := wire.EncodeClientDatagram(dg)
	if _, err := c.serverConn.Write(payload); err != nil {
		c.logger.WithError(err).Warn("udp write error")
	}
}
