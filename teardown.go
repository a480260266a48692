// File: teardown.go
// Package wsrt
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Unified teardown path per spec.md §7: every exit from Open flows
// through requestClose -> the I/O loop observing stopCh ->
// finalizeLoop, which stops the heartbeat, releases the transport,
// and emits Disconnected before possibly handing off to the
// reconnection controller.

package wsrt

import (
	"github.com/hioload/wsrt/wsframe"
	"github.com/hioload/wsrt/wserr"
)

// requestClose marks the effective close code and asks the I/O loop
// to exit on its next iteration. Idempotent: only the first call's
// code takes effect.
func (s *Session) requestClose(code wserr.CloseCode) {
	if !s.closeCodeSet.CompareAndSwap(false, true) {
		return
	}
	s.lastCloseCode.Store(int32(code))
	s.setState(StateClosing)
	s.closeOnce.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
		}
	})
}

// failConnect handles a setup-phase failure (dial or handshake): it
// emits the error, transitions to Closed, emits Disconnected with an
// abnormal code, and hands off to the reconnection controller, per
// spec.md §4.9 "Connecting -> Closed on any handshake failure".
func (s *Session) failConnect(code wserr.Code, cause error) {
	s.emitError(code, cause.Error())
	s.setState(StateClosed)
	s.emitDisconnect(wserr.CloseAbnormalClosure)
	s.maybeReconnect(wserr.CloseAbnormalClosure)
}

func (s *Session) finalizeLoop() {
	s.hb.Stop()

	s.connMu.Lock()
	conn := s.conn
	s.conn = nil
	s.connMu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}

	code := wserr.CloseCode(s.lastCloseCode.Load())
	s.setState(StateClosed)
	s.emitDisconnect(code)
	s.closeCodeSet.Store(false)

	s.maybeReconnect(code)
}

// Disconnect tears the session down, sending a best-effort Close
// frame carrying code, then blocks until the I/O loop has fully
// exited. Idempotent. Disconnect(CloseNormal) suppresses any pending
// or future auto-reconnect; any other code still honors the
// auto-reconnect policy (spec.md §7).
func (s *Session) Disconnect(code wserr.CloseCode) error {
	if code == wserr.CloseNormal {
		s.userClosed.Store(true)
	}

	if st := s.getState(); st == StateIdle || st == StateClosed {
		s.Wait()
		return nil
	}

	if s.IsConnected() {
		_ = s.writeFrame(wsframe.OpClose, closeFramePayload(code))
	}
	s.requestClose(code)
	s.Wait()
	return nil
}

// Wait blocks until the current I/O loop goroutine (if any) has
// exited. It returns immediately if no loop is running.
func (s *Session) Wait() {
	s.loopWG.Wait()
}
