// File: callbacks.go
// Package wsrt
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Callback storage: a mutex-guarded slot per spec.md §9 "Callback
// storage" design note. A dispatch in progress holds the callback
// value it read for the duration of its invocation, so replacing a
// callback mid-dispatch cannot race with that invocation; it only
// changes what the next dispatch sees.

package wsrt

import (
	"sync"

	"github.com/hioload/wsrt/wserr"
)

type callbacks struct {
	onConnect    func()
	onDisconnect func(code wserr.CloseCode)
	onError      func(code wserr.Code, message string)
	onRawMessage func(payload []byte)
	onMessage    func(decoded any)
	onPing       func(payload []byte)
	onPong       func(payload []byte)
}

type callbackStore struct {
	mu sync.Mutex
	cb callbacks
}

func (c *callbackStore) set(fn func(*callbacks)) {
	c.mu.Lock()
	fn(&c.cb)
	c.mu.Unlock()
}

func (c *callbackStore) snapshot() callbacks {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cb
}

// OnConnect registers the callback invoked after a successful
// handshake, once the HTTP 101 response has been validated.
func (s *Session) OnConnect(fn func()) {
	s.callbacks.set(func(c *callbacks) { c.onConnect = fn })
}

// OnDisconnect registers the callback invoked with the effective
// close code once the I/O loop has fully exited.
func (s *Session) OnDisconnect(fn func(code wserr.CloseCode)) {
	s.callbacks.set(func(c *callbacks) { c.onDisconnect = fn })
}

// OnError registers the callback invoked for setup/transport/protocol/
// liveness failures (spec.md §7).
func (s *Session) OnError(fn func(code wserr.Code, message string)) {
	s.callbacks.set(func(c *callbacks) { c.onError = fn })
}

// OnRawMessage registers the callback invoked with every completed
// Text/Binary message payload, before any structured decoding.
func (s *Session) OnRawMessage(fn func(payload []byte)) {
	s.callbacks.set(func(c *callbacks) { c.onRawMessage = fn })
}

// OnMessage registers the callback invoked with the Decoder's output
// whenever decoding a completed message succeeds.
func (s *Session) OnMessage(fn func(decoded any)) {
	s.callbacks.set(func(c *callbacks) { c.onMessage = fn })
}

// OnPing registers the callback invoked when a Ping frame arrives,
// after any auto-pong reply has already been sent.
func (s *Session) OnPing(fn func(payload []byte)) {
	s.callbacks.set(func(c *callbacks) { c.onPing = fn })
}

// OnPong registers the callback invoked when a Pong frame arrives,
// after the heartbeat engine has been notified.
func (s *Session) OnPong(fn func(payload []byte)) {
	s.callbacks.set(func(c *callbacks) { c.onPong = fn })
}

func (s *Session) emitConnect() {
	if fn := s.callbacks.snapshot().onConnect; fn != nil {
		fn()
	}
}

func (s *Session) emitDisconnect(code wserr.CloseCode) {
	if fn := s.callbacks.snapshot().onDisconnect; fn != nil {
		fn(code)
	}
}

func (s *Session) emitError(code wserr.Code, message string) {
	s.logger.Printf("session %s: error %s: %s", s.id, code, message)
	if fn := s.callbacks.snapshot().onError; fn != nil {
		fn(code, message)
	}
}

func (s *Session) emitRawMessage(payload []byte) {
	if fn := s.callbacks.snapshot().onRawMessage; fn != nil {
		fn(payload)
	}
	decoder := s.getDecoder()
	if decoder == nil {
		return
	}
	decoded, err := decoder(payload)
	if err != nil {
		return
	}
	if fn := s.callbacks.snapshot().onMessage; fn != nil {
		fn(decoded)
	}
}

func (s *Session) emitPing(payload []byte) {
	if fn := s.callbacks.snapshot().onPing; fn != nil {
		fn(payload)
	}
}

func (s *Session) emitPong(payload []byte) {
	if fn := s.callbacks.snapshot().onPong; fn != nil {
		fn(payload)
	}
}
