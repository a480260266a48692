package wsrt_test

import (
	"testing"

	"github.com/hioload/wsrt"
)

func TestNewSessionStartsIdle(t *testing.T) {
	cfg := wsrt.DefaultConfig("ws://example.com/")
	sess, err := wsrt.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if sess.IsConnected() {
		t.Fatal("a freshly constructed session must not be connected")
	}
}

func TestStateStringValues(t *testing.T) {
	cases := map[wsrt.State]string{
		wsrt.StateIdle:         "Idle",
		wsrt.StateConnecting:   "Connecting",
		wsrt.StateOpen:         "Open",
		wsrt.StateClosing:      "Closing",
		wsrt.StateClosed:       "Closed",
		wsrt.StateReconnecting: "Reconnecting",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
