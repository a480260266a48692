// File: reconnect.go
// Package wsrt
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Reconnection controller: detects an abnormal closure, backs off per
// spec.md §4.9 ("attempt N waits N*1s"), and re-runs the connect
// sequence. Driven through github.com/cenkalti/backoff/v5's BackOff
// interface the same way coachpo-meltica-gateway's WebSocket stream
// managers drive theirs, but with a linear schedule and a hard cap
// instead of an exponential one.

package wsrt

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/hioload/wsrt/wserr"
)

// linearBackoff implements backoff.BackOff with the exact N*1s
// schedule spec.md §4.9 requires, giving up after maxAttempts.
type linearBackoff struct {
	mu          sync.Mutex
	attempt     int
	maxAttempts int
}

var _ backoff.BackOff = (*linearBackoff)(nil)

func newLinearBackoff(maxAttempts int) *linearBackoff {
	return &linearBackoff{maxAttempts: maxAttempts}
}

func (b *linearBackoff) NextBackOff() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempt++
	if b.attempt > b.maxAttempts {
		return backoff.Stop
	}
	return time.Duration(b.attempt) * time.Second
}

func (b *linearBackoff) Reset() {
	b.mu.Lock()
	b.attempt = 0
	b.mu.Unlock()
}

func (b *linearBackoff) current() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempt
}

// maybeReconnect is called after every transition into Closed. It
// schedules a single further Connect attempt after the next backoff
// delay, unless the close code is CloseNormal (whether sent by the peer
// or passed to Disconnect), Disconnect(CloseNormal) has been called,
// auto-reconnect is off, or the attempt budget is exhausted.
func (s *Session) maybeReconnect(code wserr.CloseCode) {
	cfg := s.snapshotConfig()
	if !cfg.AutoReconnect || s.userClosed.Load() || code == wserr.CloseNormal {
		return
	}

	wait := s.reconnectBackoff.NextBackOff()
	if wait == backoff.Stop {
		s.logger.Printf("session %s: reconnect attempts exhausted", s.id)
		return
	}

	attempt := s.reconnectBackoff.current()
	s.setState(StateReconnecting)
	s.logger.Printf("session %s: reconnecting (attempt %d) in %s", s.id, attempt, wait)

	time.AfterFunc(wait, func() {
		if s.userClosed.Load() {
			return
		}
		if err := s.Connect(); err != nil {
			s.logger.Printf("session %s: reconnect attempt %d failed: %v", s.id, attempt, err)
		}
	})
}
