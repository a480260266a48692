// File: mutators.go
// Package wsrt
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Thread-safe runtime config mutators, per spec.md §6/§9. Each takes
// effect without requiring a reconnect, with one exception: switching
// the ping mode away from Disabled starts no heartbeat until the next
// Connect. Ping mutators delegate to the heartbeat engine, which
// already guards its own state with a mutex.

package wsrt

import (
	"fmt"
	"time"

	"github.com/hioload/wsrt/affinity"
	"github.com/hioload/wsrt/heartbeat"
	"github.com/hioload/wsrt/wserr"
)

// PinThread requests that the I/O loop pin itself to the given
// logical CPU core on its next (re)start. An invalid core index is
// rejected here without touching any thread state, per spec.md §5.
func (s *Session) PinThread(core int) error {
	if core < 0 || core >= affinity.CoreCount() {
		return wserr.New(wserr.CodeInvalidArgument, fmt.Sprintf("invalid core index %d", core))
	}
	s.pinMu.Lock()
	s.pinCore = core
	s.pinPending = true
	s.pinMu.Unlock()
	return nil
}

// SetPingMode changes the heartbeat mode at runtime.
func (s *Session) SetPingMode(mode heartbeat.Mode) {
	s.cfgMu.Lock()
	s.cfg.Heartbeat.Mode = mode
	s.cfgMu.Unlock()
	s.hb.SetMode(mode)
}

// SetPingInterval changes the ping interval at runtime.
func (s *Session) SetPingInterval(interval time.Duration) {
	s.cfgMu.Lock()
	s.cfg.Heartbeat.Interval = interval
	s.cfgMu.Unlock()
	s.hb.SetInterval(interval)
}

// SetPingTimeout changes the pong deadline at runtime.
func (s *Session) SetPingTimeout(timeout time.Duration) {
	s.cfgMu.Lock()
	s.cfg.Heartbeat.Timeout = timeout
	s.cfgMu.Unlock()
	s.hb.SetTimeout(timeout)
}

// SetPingAutoPong toggles automatic Pong replies at runtime.
func (s *Session) SetPingAutoPong(enabled bool) {
	s.cfgMu.Lock()
	s.cfg.Heartbeat.AutoPong = enabled
	s.cfgMu.Unlock()
}

// SetAutoReconnect toggles whether an abnormal closure triggers the
// reconnection controller.
func (s *Session) SetAutoReconnect(enabled bool) {
	s.cfgMu.Lock()
	s.cfg.AutoReconnect = enabled
	s.cfgMu.Unlock()
}
