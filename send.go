// File: send.go
// Package wsrt
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Send paths per spec.md §4.3/§5: synchronous sends are written
// directly under the send mutex in the calling goroutine's program
// order; async sends are enqueued on the MPSC queue and drained by the
// I/O loop, preserving only per-producer order.

package wsrt

import (
	"github.com/hioload/wsrt/wserr"
	"github.com/hioload/wsrt/wsframe"
)

// Send synchronously writes text as a single Text frame.
func (s *Session) Send(text string) error {
	return s.writeFrame(wsframe.OpText, []byte(text))
}

// SendBinary synchronously writes data as a single Binary frame.
func (s *Session) SendBinary(data []byte) error {
	return s.writeFrame(wsframe.OpBinary, data)
}

// SendAsync enqueues text for delivery as a Text frame by the I/O
// loop; it never blocks on the network and never fails due to a
// transport error (those surface later through OnError).
func (s *Session) SendAsync(text string) {
	s.queue.Push([]byte(text))
}

// SendPing writes a Ping control frame with an empty payload.
func (s *Session) SendPing() error {
	return s.writeFrame(wsframe.OpPing, nil)
}

// SendPingPayload writes a Ping control frame carrying payload.
func (s *Session) SendPingPayload(payload []byte) error {
	return s.writeFrame(wsframe.OpPing, payload)
}

// SendPong writes a Pong control frame carrying payload.
func (s *Session) SendPong(payload []byte) error {
	return s.writeFrame(wsframe.OpPong, payload)
}

// writeFrame encodes and writes one frame; it is the sole path that
// touches the transport for writing, serialized by sendMu so that no
// two frames interleave bytes on the wire (spec.md §5).
func (s *Session) writeFrame(op wsframe.Opcode, payload []byte) error {
	encoded, err := wsframe.Encode(op, payload)
	if err != nil {
		return wserr.Wrap(wserr.CodeSendFailed, "encoding frame", err)
	}

	s.connMu.Lock()
	conn := s.conn
	s.connMu.Unlock()
	if conn == nil {
		return wserr.New(wserr.CodeSendFailed, "session is not connected")
	}

	s.sendMu.Lock()
	err = conn.WriteAll(encoded)
	s.sendMu.Unlock()
	if err != nil {
		return wserr.Wrap(wserr.CodeSendFailed, "writing frame", err)
	}
	return nil
}

// sendControlPing is the heartbeat engine's ControlPing hook.
func (s *Session) sendControlPing() bool {
	return s.SendPing() == nil
}

// sendTextPing is the heartbeat engine's TextPing hook.
func (s *Session) sendTextPing(payload string) bool {
	return s.Send(payload) == nil
}

// onHeartbeatTimeout is invoked by the heartbeat engine when a ping
// goes unanswered past the pong deadline; it maps to a fatal
// PingTimeout close (spec.md §4.6/§4.10).
func (s *Session) onHeartbeatTimeout() {
	s.emitError(wserr.CodePingTimeout, "pong not received within deadline")
	s.requestClose(wserr.CloseAbnormalClosure)
}
