package wsurl_test

import (
	"testing"

	"github.com/hioload/wsrt/wsurl"
)

func TestParseDefaults(t *testing.T) {
	cases := []struct {
		raw    string
		secure bool
		host   string
		port   int
		path   string
	}{
		{"ws://example.com", false, "example.com", 80, "/"},
		{"wss://example.com", true, "example.com", 443, "/"},
		{"ws://example.com/stream", false, "example.com", 80, "/stream"},
		{"wss://example.com:9443/v1/feed", true, "example.com", 9443, "/v1/feed"},
		{"ws://example.com:8080", false, "example.com", 8080, "/"},
	}
	for _, c := range cases {
		u, err := wsurl.Parse(c.raw)
		if err != nil {
			t.Fatalf("Parse(%q): unexpected error: %v", c.raw, err)
		}
		if u.Secure != c.secure || u.Host != c.host || u.Port != c.port || u.Path != c.path {
			t.Errorf("Parse(%q) = %+v, want {%v %v %v %v}", c.raw, u, c.secure, c.host, c.port, c.path)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		"http://example.com",
		"example.com",
		"ws://",
		"ws://:8080/path",
		"wss://example.com:notaport/path",
		"ws://example.com:99999",
	}
	for _, raw := range cases {
		if _, err := wsurl.Parse(raw); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", raw)
		}
	}
}

func TestHostHeaderOmitsDefaultPort(t *testing.T) {
	u, err := wsurl.Parse("wss://example.com/")
	if err != nil {
		t.Fatal(err)
	}
	if got := u.HostHeader(); got != "example.com" {
		t.Errorf("HostHeader() = %q, want %q", got, "example.com")
	}

	u2, err := wsurl.Parse("wss://example.com:8443/")
	if err != nil {
		t.Fatal(err)
	}
	if got := u2.HostHeader(); got != "example.com:8443" {
		t.Errorf("HostHeader() = %q, want %q", got, "example.com:8443")
	}
}
