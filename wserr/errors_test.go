package wserr_test

import (
	"errors"
	"testing"

	"github.com/hioload/wsrt/wserr"
)

func TestNewErrorMessage(t *testing.T) {
	e := wserr.New(wserr.CodeInvalidURL, "missing host")
	if got, want := e.Error(), "InvalidUrl: missing host"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := errors.New("dial refused")
	e := wserr.Wrap(wserr.CodeConnectionFailed, "connecting", cause)
	if !errors.Is(e, cause) {
		t.Fatal("errors.Is should find the wrapped cause")
	}
}

func TestCodeCategoryMapping(t *testing.T) {
	cases := map[wserr.Code]wserr.Category{
		wserr.CodeInvalidURL:       wserr.CategorySetup,
		wserr.CodeHandshakeFailed:  wserr.CategorySetup,
		wserr.CodeSendFailed:       wserr.CategoryTransport,
		wserr.CodeReceiveFailed:    wserr.CategoryTransport,
		wserr.CodeInvalidFrame:     wserr.CategoryProtocol,
		wserr.CodeMessageTooLarge: wserr.CategoryProtocol,
		wserr.CodePingTimeout:     wserr.CategoryLiveness,
	}
	for code, want := range cases {
		if got := code.Category(); got != want {
			t.Fatalf("%s.Category() = %v, want %v", code, got, want)
		}
	}
}

func TestCloseCodeValues(t *testing.T) {
	if wserr.CloseNormal != 1000 {
		t.Fatalf("CloseNormal = %d, want 1000", wserr.CloseNormal)
	}
	if wserr.CloseMessageTooBig != 1009 {
		t.Fatalf("CloseMessageTooBig = %d, want 1009", wserr.CloseMessageTooBig)
	}
}
