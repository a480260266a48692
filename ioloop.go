// File: ioloop.go
// Package wsrt
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The I/O loop: the single goroutine per open session that owns the
// socket for reading (spec.md §4.8). Each iteration drains the async
// send queue, waits up to a short quantum for readable bytes, decodes
// as many complete frames as are buffered, and dispatches each one.

package wsrt

import (
	"encoding/binary"
	"errors"
	"net"
	"runtime"
	"time"

	"github.com/hioload/wsrt/affinity"
	"github.com/hioload/wsrt/wserr"
	"github.com/hioload/wsrt/wsframe"
)

func (s *Session) runIOLoop(leftover []byte) {
	defer s.loopWG.Done()

	s.applyPendingPin()

	buf := append([]byte(nil), leftover...)

	for {
		select {
		case <-s.stopCh:
			s.finalizeLoop()
			return
		default:
		}

		s.drainAsyncQueue()

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()
		if conn == nil {
			s.finalizeLoop()
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(readQuantum))
		chunk := s.pool.Acquire()
		n, readErr := conn.Read(chunk.Bytes())
		if n > 0 {
			buf = append(buf, chunk.Bytes()[:n]...)
		}
		chunk.Release()

		if readErr != nil {
			var netErr net.Error
			if errors.As(readErr, &netErr) && netErr.Timeout() {
				continue
			}
			s.emitError(wserr.CodeReceiveFailed, readErr.Error())
			s.requestClose(wserr.CloseAbnormalClosure)
			continue
		}

		maxMessageSize := s.snapshotConfig().MaxMessageSize
		stop := s.decodeAndDispatch(&buf, maxMessageSize)
		if stop {
			continue
		}
	}
}

// applyPendingPin applies a requested CPU core pin as the I/O loop's
// first statement, per spec.md §5. It locks the goroutine to its
// current OS thread before pinning, since an unlocked goroutine can be
// migrated to a different thread at the next scheduling point, leaving
// the affinity mask on a thread nothing runs on anymore.
func (s *Session) applyPendingPin() {
	s.pinMu.Lock()
	core, pending := s.pinCore, s.pinPending
	s.pinMu.Unlock()
	if !pending {
		return
	}
	runtime.LockOSThread()
	if err := affinity.SetAffinity(core); err != nil {
		s.logger.Printf("session %s: pin to core %d failed: %v", s.id, core, err)
	}
}

func (s *Session) drainAsyncQueue() {
	for {
		payload, ok := s.queue.Pop()
		if !ok {
			return
		}
		if err := s.writeFrame(wsframe.OpText, payload); err != nil {
			s.emitError(wserr.CodeSendFailed, err.Error())
		}
	}
}

// decodeAndDispatch pulls as many complete frames as buf currently
// holds. It returns true if a protocol-level failure requested a
// close, so the caller should re-check stopCh before reading again.
func (s *Session) decodeAndDispatch(buf *[]byte, maxMessageSize int64) bool {
	for {
		frame, consumed, err := wsframe.Decode(*buf, maxMessageSize)
		if err != nil {
			if errors.Is(err, wsframe.ErrMessageTooLarge) {
				s.emitError(wserr.CodeMessageTooLarge, err.Error())
				s.requestClose(wserr.CloseMessageTooBig)
			} else {
				s.emitError(wserr.CodeInvalidFrame, err.Error())
				s.requestClose(wserr.CloseProtocolError)
			}
			*buf = nil
			return true
		}
		if frame == nil {
			return false
		}
		*buf = (*buf)[consumed:]
		if s.dispatch(frame) {
			return true
		}
	}
}

// dispatch applies the per-opcode delivery rules of spec.md §4.8. It
// returns true if handling the frame requested that the loop close.
func (s *Session) dispatch(frame *wsframe.Frame) bool {
	switch frame.Opcode {
	case wsframe.OpText, wsframe.OpBinary:
		if frame.Fin {
			s.emitRawMessage(frame.Payload)
			return false
		}
		s.fragActive = true
		s.fragOpcode = frame.Opcode
		s.fragBuf = append([]byte(nil), frame.Payload...)
		return false

	case wsframe.OpContinuation:
		if !s.fragActive {
			return false
		}
		s.fragBuf = append(s.fragBuf, frame.Payload...)
		if frame.Fin {
			payload := s.fragBuf
			s.fragActive = false
			s.fragBuf = nil
			s.emitRawMessage(payload)
		}
		return false

	case wsframe.OpPing:
		cfg := s.snapshotConfig()
		if cfg.Heartbeat.AutoPong {
			if err := s.SendPong(frame.Payload); err != nil {
				s.emitError(wserr.CodeSendFailed, err.Error())
			}
		}
		s.emitPing(frame.Payload)
		return false

	case wsframe.OpPong:
		s.hb.OnPongReceived()
		s.emitPong(frame.Payload)
		return false

	case wsframe.OpClose:
		code := wserr.CloseNoStatusReceived
		if len(frame.Payload) >= 2 {
			code = wserr.CloseCode(binary.BigEndian.Uint16(frame.Payload))
		}
		_ = s.writeFrame(wsframe.OpClose, closeFramePayload(code))
		s.requestClose(code)
		return true
	}
	return false
}

func closeFramePayload(code wserr.CloseCode) []byte {
	if code == wserr.CloseNoStatusReceived || code == wserr.CloseAbnormalClosure {
		return nil
	}
	payload := make([]byte, 2)
	binary.BigEndian.PutUint16(payload, uint16(code))
	return payload
}
