package wsframe_test

import (
	"bytes"
	"testing"

	"github.com/hioload/wsrt/wsframe"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	sizes := []int{0, 1, 125, 126, 1000, 65535, 65536, 200000}
	for _, n := range sizes {
		payload := make([]byte, n)
		for i := range payload {
			payload[i] = byte(i)
		}
		encoded, err := wsframe.Encode(wsframe.OpBinary, payload)
		if err != nil {
			t.Fatalf("Encode(n=%d): %v", n, err)
		}

		var wantHeaderLen int
		switch {
		case n < 126:
			wantHeaderLen = 2
		case n <= 0xFFFF:
			wantHeaderLen = 4
		default:
			wantHeaderLen = 10
		}
		if got := len(encoded) - 4 - n; got != wantHeaderLen {
			t.Errorf("n=%d: header length = %d, want %d", n, got, wantHeaderLen)
		}
		if encoded[1]&0x80 == 0 {
			t.Errorf("n=%d: mask bit not set on outbound frame", n)
		}

		frame, consumed, err := wsframe.Decode(encoded, 1<<24)
		if err != nil {
			t.Fatalf("Decode(n=%d): %v", n, err)
		}
		if frame == nil {
			t.Fatalf("Decode(n=%d): incomplete, want complete", n)
		}
		if consumed != len(encoded) {
			t.Errorf("n=%d: consumed %d, want %d", n, consumed, len(encoded))
		}
		if !frame.Fin || frame.Opcode != wsframe.OpBinary {
			t.Errorf("n=%d: fin=%v opcode=%v", n, frame.Fin, frame.Opcode)
		}
		if !bytes.Equal(frame.Payload, payload) {
			t.Errorf("n=%d: payload mismatch after round trip", n)
		}
	}
}

func TestDecodeIncomplete(t *testing.T) {
	encoded, err := wsframe.Encode(wsframe.OpText, []byte("hello world"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < len(encoded); i++ {
		frame, consumed, err := wsframe.Decode(encoded[:i], 1<<20)
		if err != nil {
			t.Fatalf("Decode(prefix %d): unexpected error %v", i, err)
		}
		if frame != nil || consumed != 0 {
			t.Fatalf("Decode(prefix %d): expected incomplete indication", i)
		}
	}
}

func TestDecodeUnmasksWhenMaskBitSet(t *testing.T) {
	encoded, err := wsframe.Encode(wsframe.OpText, []byte("ping-pong"))
	if err != nil {
		t.Fatal(err)
	}
	frame, _, err := wsframe.Decode(encoded, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	if !frame.Masked {
		t.Error("expected Masked=true on a frame that carried a mask bit")
	}
	if string(frame.Payload) != "ping-pong" {
		t.Errorf("payload = %q", frame.Payload)
	}
}

func TestDecodeRejectsInvalidOpcode(t *testing.T) {
	raw := []byte{0x83, 0x00} // FIN=1, opcode=3 (reserved), len=0
	_, _, err := wsframe.Decode(raw, 1<<20)
	if err == nil {
		t.Fatal("expected error for reserved opcode")
	}
}

func TestDecodeRejectsFragmentedControlFrame(t *testing.T) {
	raw := []byte{0x09, 0x00} // FIN=0, opcode=Ping, len=0
	_, _, err := wsframe.Decode(raw, 1<<20)
	if err == nil {
		t.Fatal("expected error for fragmented control frame")
	}
}

func TestDecodeRejectsOversizedControlFrame(t *testing.T) {
	payload := make([]byte, 126)
	raw := append([]byte{0x89, 0x7E, 0x00, 0x7E}, payload...) // FIN=1 Ping, 16-bit extended len=126 (exceeds 125)
	_, _, err := wsframe.Decode(raw, 1<<20)
	if err == nil {
		t.Fatal("expected error for oversized control frame")
	}
}

func TestDecodeRejectsOverMaxPayload(t *testing.T) {
	payload := make([]byte, 2048)
	encoded, err := wsframe.Encode(wsframe.OpBinary, payload)
	if err != nil {
		t.Fatal(err)
	}
	_, _, err = wsframe.Decode(encoded, 1024)
	if err != wsframe.ErrMessageTooLarge {
		t.Fatalf("err = %v, want ErrMessageTooLarge", err)
	}
}

func TestEncodeRejectsOversizedControlPayload(t *testing.T) {
	_, err := wsframe.Encode(wsframe.OpPing, make([]byte, 200))
	if err == nil {
		t.Fatal("expected error encoding oversized ping payload")
	}
}

func TestMaskKeysAreNotRepeating(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		encoded, err := wsframe.Encode(wsframe.OpText, []byte("x"))
		if err != nil {
			t.Fatal(err)
		}
		key := string(encoded[2:6])
		if seen[key] {
			t.Fatalf("mask key %x repeated across frames", key)
		}
		seen[key] = true
	}
}
