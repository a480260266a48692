// File: heartbeat/heartbeat.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Liveness engine: sends pings on a configurable interval, watches for
// a pong within a configurable deadline, and reports a timeout through
// a callback. Interval, timeout, and mode are reconfigurable while the
// engine is running.

package heartbeat

import (
	"sync"
	"time"
)

// Mode selects how (or whether) pings are sent.
type Mode int

const (
	// Disabled sends no pings; the engine never starts its timer.
	Disabled Mode = iota
	// ControlPing sends an RFC 6455 control-frame Ping.
	ControlPing
	// TextPing sends a text message as an application-level ping,
	// for peers that do not answer control-frame pings.
	TextPing
)

// Config holds the tunables of an Engine.
type Config struct {
	Mode        Mode
	Interval    time.Duration
	Timeout     time.Duration
	TextPayload string // used when Mode == TextPing
	AutoPong    bool   // reply to inbound pings automatically
}

// SendPingFn sends a control-frame ping; it returns false if the send
// failed.
type SendPingFn func() bool

// SendTextFn sends an application-level text ping with the given
// payload; it returns false if the send failed.
type SendTextFn func(payload string) bool

// OnTimeoutFn is invoked when a sent ping's pong deadline elapses
// without a matching pong.
type OnTimeoutFn func()

// Engine drives the ping/pong liveness state machine for one
// connection. The zero value is not usable; construct with New.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	wake   chan struct{}
	done   chan struct{}
	once   sync.Once
	active bool
	wg     sync.WaitGroup

	waitingPong  bool
	lastPingSent time.Time

	sendPing  SendPingFn
	sendText  SendTextFn
	onTimeout OnTimeoutFn
}

// New constructs an Engine with the given initial configuration. It
// does not start the timer; call Start for that.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Start launches the timer goroutine if the engine is not already
// running and Mode is not Disabled. It is a no-op otherwise.
func (e *Engine) Start(sendPing SendPingFn, sendText SendTextFn, onTimeout OnTimeoutFn) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active || e.cfg.Mode == Disabled {
		return
	}

	e.sendPing = sendPing
	e.sendText = sendText
	e.onTimeout = onTimeout
	e.active = true
	e.waitingPong = false
	e.wake = make(chan struct{}, 1)
	e.done = make(chan struct{})
	e.once = sync.Once{}

	e.wg.Add(1)
	go e.loop(e.wake, e.done)
}

// Stop halts the timer goroutine and blocks until it has exited, so
// that no call into onTimeout can happen after Stop returns. Idempotent.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	e.active = false
	done := e.done
	e.mu.Unlock()

	e.once.Do(func() { close(done) })
	e.wg.Wait()
}

// OnPongReceived clears the pending-pong flag; call it whenever a pong
// frame (or matching text reply) arrives from the peer.
func (e *Engine) OnPongReceived() {
	e.mu.Lock()
	e.waitingPong = false
	e.mu.Unlock()
}

// SetInterval changes the ping interval at runtime, waking the timer
// goroutine immediately so the new interval takes effect without
// waiting out the old one.
func (e *Engine) SetInterval(interval time.Duration) {
	e.mu.Lock()
	e.cfg.Interval = interval
	e.mu.Unlock()
	e.nudge()
}

// SetTimeout changes the pong deadline at runtime.
func (e *Engine) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	e.cfg.Timeout = timeout
	e.mu.Unlock()
}

// SetMode changes the ping mode at runtime. Switching to Disabled
// stops the engine; switching away from Disabled has no effect until
// Start is called.
func (e *Engine) SetMode(mode Mode) {
	e.mu.Lock()
	e.cfg.Mode = mode
	e.mu.Unlock()
	if mode == Disabled {
		e.Stop()
	}
}

// Config returns a snapshot of the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

func (e *Engine) nudge() {
	e.mu.Lock()
	wake := e.wake
	e.mu.Unlock()
	if wake == nil {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}

func (e *Engine) loop(wake <-chan struct{}, done <-chan struct{}) {
	defer e.wg.Done()
	for {
		e.mu.Lock()
		interval := e.cfg.Interval
		timeout := e.cfg.Timeout
		mode := e.cfg.Mode
		e.mu.Unlock()

		timer := time.NewTimer(interval)
		select {
		case <-done:
			timer.Stop()
			return
		case <-wake:
			timer.Stop()
			continue
		case <-timer.C:
		}

		e.mu.Lock()
		if e.waitingPong {
			if time.Since(e.lastPingSent) > timeout {
				e.waitingPong = false
				onTimeout := e.onTimeout
				e.mu.Unlock()
				if onTimeout != nil {
					onTimeout()
				}
				continue
			}
		}
		sendPing := e.sendPing
		sendText := e.sendText
		textPayload := e.cfg.TextPayload
		e.mu.Unlock()

		var sent bool
		switch mode {
		case ControlPing:
			if sendPing != nil {
				sent = sendPing()
			}
		case TextPing:
			if sendText != nil {
				sent = sendText(textPayload)
			}
		}

		if sent {
			e.mu.Lock()
			// The deadline runs from the oldest unanswered ping, so a
			// repeat ping does not push it back.
			if !e.waitingPong {
				e.lastPingSent = time.Now()
				e.waitingPong = true
			}
			e.mu.Unlock()
		}
	}
}
