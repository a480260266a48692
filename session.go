// File: session.go
// Package wsrt
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Session is the public facade: lifecycle (Connect/Disconnect/Wait),
// callback registration, and config mutators, per spec.md §6 and §9's
// "Pimpl / hidden state" note — all mutable runtime state lives behind
// this exported type and is reached only through its methods.

package wsrt

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hioload/wsrt/bufpool"
	"github.com/hioload/wsrt/handshake"
	"github.com/hioload/wsrt/heartbeat"
	"github.com/hioload/wsrt/mpsc"
	"github.com/hioload/wsrt/transport"
	"github.com/hioload/wsrt/wserr"
	"github.com/hioload/wsrt/wsframe"
	"github.com/hioload/wsrt/wsurl"
)

const readChunkSize = 32 * 1024
const readQuantum = 100 * time.Millisecond

// Session is a single client-side WebSocket connection, including its
// reconnection policy. The zero value is not usable; construct with
// New. A *Session must not be copied: it embeds mutexes and channels.
type Session struct {
	id string

	cfgMu sync.Mutex
	cfg   Config

	callbacks callbackStore

	stateMu sync.Mutex
	state   State

	target wsurl.URL

	connMu sync.Mutex
	conn   transport.Conn

	sendMu sync.Mutex

	queue *mpsc.Queue[[]byte]
	pool  *bufpool.Pool
	hb    *heartbeat.Engine

	fragActive bool
	fragOpcode wsframe.Opcode
	fragBuf    []byte

	pinMu      sync.Mutex
	pinCore    int
	pinPending bool

	reconnectBackoff *linearBackoff

	userClosed    atomic.Bool // set by Disconnect() before it tears the loop down
	closeCodeSet  atomic.Bool // guards requestClose so only the first caller's code wins
	lastCloseCode atomic.Int32

	stopCh chan struct{}
	loopWG sync.WaitGroup
	closeOnce sync.Once

	logger *log.Logger
}

// New constructs a Session from cfg. It parses cfg.URL and validates
// the configuration but does not connect; call Connect for that.
func New(cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	target, err := wsurl.Parse(cfg.URL)
	if err != nil {
		return nil, wserr.Wrap(wserr.CodeInvalidURL, "parsing url", err)
	}

	id := uuid.NewString()
	s := &Session{
		id:     id,
		cfg:    cfg,
		target: target,
		queue:  mpsc.New[[]byte](),
		pool:   bufpool.New(readChunkSize, 4),
		state:  StateIdle,
		logger: log.New(os.Stderr, fmt.Sprintf("wsrt[%s] ", id[:8]), log.LstdFlags),
	}
	s.hb = heartbeat.New(heartbeat.Config{
		Mode:        cfg.Heartbeat.Mode,
		Interval:    cfg.Heartbeat.Interval,
		Timeout:     cfg.Heartbeat.Timeout,
		TextPayload: cfg.Heartbeat.TextPayload,
		AutoPong:    cfg.Heartbeat.AutoPong,
	})
	s.reconnectBackoff = newLinearBackoff(cfg.MaxReconnectAttempts)
	return s, nil
}

// ID returns the session's correlation id, useful for tying together
// log lines across a reconnect cycle.
func (s *Session) ID() string {
	return s.id
}

// Connect performs the full connect sequence: TCP/TLS dial, the HTTP
// Upgrade handshake, and — on success — starts the heartbeat engine
// and the I/O loop. It blocks until the outcome (Open or a setup
// failure) is known; it does not block for the lifetime of the
// connection. Use Wait for that.
func (s *Session) Connect() error {
	s.setState(StateConnecting)

	// Fragment reassembly never survives a (re)connect: a partially
	// assembled message from a dead connection is discarded, not
	// resumed, per spec.md §9's fragment-on-reconnect decision.
	s.fragActive = false
	s.fragOpcode = 0
	s.fragBuf = nil

	cfg := s.snapshotConfig()

	conn, err := s.dial(cfg)
	if err != nil {
		s.failConnect(wserr.CodeConnectionFailed, err)
		return err
	}

	leftover, err := s.handshakeOver(conn, cfg)
	if err != nil {
		_ = conn.Close()
		s.failConnect(wserr.CodeHandshakeFailed, err)
		return err
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()

	s.setState(StateOpen)
	s.reconnectBackoff.Reset()
	s.userClosed.Store(false)
	s.closeCodeSet.Store(false)
	s.emitConnect()

	s.hb.Start(s.sendControlPing, s.sendTextPing, s.onHeartbeatTimeout)

	s.stopCh = make(chan struct{})
	s.closeOnce = sync.Once{}
	s.loopWG.Add(1)
	go s.runIOLoop(leftover)

	return nil
}

func (s *Session) dial(cfg Config) (transport.Conn, error) {
	if s.target.Secure {
		return transport.DialTLS(s.target.Host, s.target.Port, cfg.ConnectTimeout)
	}
	return transport.DialTCP(s.target.Host, s.target.Port, cfg.ConnectTimeout)
}

// handshakeOver runs the HTTP Upgrade exchange over conn and returns
// any bytes the handshake's buffered reader pulled in past the
// response headers — the start of the first WebSocket frame.
func (s *Session) handshakeOver(conn transport.Conn, cfg Config) ([]byte, error) {
	key, err := handshake.NewKey()
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(cfg.ConnectTimeout))
	}

	req := handshake.BuildRequest(s.target, key, nil)
	if err := conn.WriteAll(req); err != nil {
		return nil, fmt.Errorf("handshake: sending request: %w", err)
	}

	br := bufio.NewReader(conn)
	resp, err := handshake.ReadResponseBuffered(br)
	if err != nil {
		return nil, err
	}
	if err := handshake.Verify(resp, key); err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		_ = conn.SetReadDeadline(time.Time{})
	}

	leftover := make([]byte, br.Buffered())
	_, _ = br.Read(leftover)
	return leftover, nil
}

func (s *Session) snapshotConfig() Config {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.cfg
}
