// File: handshake/handshake.go
// Package handshake
// Author: momentics <momentics@gmail.com>
//
// Client-side opening handshake: builds the HTTP Upgrade request,
// parses the server's response, and computes/verifies
// Sec-WebSocket-Accept per RFC 6455 §1.3 / §4.

package handshake

import (
	"bufio"
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hioload/wsrt/wsurl"
)

const (
	webSocketGUID            = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"
	headerConnection         = "Connection"
	headerUpgrade            = "Upgrade"
	headerSecWebSocketKey    = "Sec-WebSocket-Key"
	headerSecWebSocketAccept = "Sec-WebSocket-Accept"
	headerSecWebSocketVer    = "Sec-WebSocket-Version"
	requiredWebSocketVersion = "13"
)

// ErrUpgradeRejected is returned when the server's response is not a
// 101 Switching Protocols with the required Upgrade headers.
var ErrUpgradeRejected = fmt.Errorf("handshake: server did not accept the upgrade")

// NewKey returns a fresh, randomly generated Sec-WebSocket-Key value.
func NewKey() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("handshake: generating key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// ComputeAccept derives the Sec-WebSocket-Accept value a compliant
// server must return for the given client key.
func ComputeAccept(key string) string {
	h := sha1.New()
	h.Write([]byte(key + webSocketGUID))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// BuildRequest renders the HTTP Upgrade request for target, using key
// as the Sec-WebSocket-Key value and attaching any caller-supplied
// headers (e.g. Origin, Sec-WebSocket-Protocol, cookies).
func BuildRequest(target wsurl.URL, key string, extra http.Header) []byte {
	var b strings.Builder
	path := target.Path
	if path == "" {
		path = "/"
	}
	fmt.Fprintf(&b, "GET %s HTTP/1.1\r\n", path)
	fmt.Fprintf(&b, "Host: %s\r\n", target.HostHeader())
	fmt.Fprintf(&b, "%s: Upgrade\r\n", headerConnection)
	fmt.Fprintf(&b, "%s: websocket\r\n", headerUpgrade)
	fmt.Fprintf(&b, "%s: %s\r\n", headerSecWebSocketKey, key)
	fmt.Fprintf(&b, "%s: %s\r\n", headerSecWebSocketVer, requiredWebSocketVersion)
	for name, values := range extra {
		for _, v := range values {
			fmt.Fprintf(&b, "%s: %s\r\n", name, v)
		}
	}
	b.WriteString("\r\n")
	return []byte(b.String())
}

// Response holds the parsed server handshake response.
type Response struct {
	StatusCode int
	Header     http.Header
}

// ReadResponse parses the HTTP response from r. It does not itself
// validate the upgrade; call Verify for that.
func ReadResponse(r io.Reader) (*Response, error) {
	return ReadResponseBuffered(bufio.NewReader(r))
}

// ReadResponseBuffered parses the HTTP response from br. Callers that
// go on to read raw bytes from the same underlying connection should
// reuse br.Buffered() first: the bufio.Reader may have already pulled
// in bytes belonging to the first WebSocket frame while buffering the
// handshake response.
func ReadResponseBuffered(br *bufio.Reader) (*Response, error) {
	resp, err := http.ReadResponse(br, nil)
	if err != nil {
		return nil, fmt.Errorf("handshake: reading response: %w", err)
	}
	defer resp.Body.Close()
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header}, nil
}

// Verify checks that resp represents a successful upgrade for the
// given client key: status 101, Upgrade/Connection tokens present,
// and an Accept value matching ComputeAccept(key).
func Verify(resp *Response, key string) error {
	if resp.StatusCode != http.StatusSwitchingProtocols {
		return ErrUpgradeRejected
	}
	if !headerContainsToken(resp.Header, headerUpgrade, "websocket") ||
		!headerContainsToken(resp.Header, headerConnection, "Upgrade") {
		return ErrUpgradeRejected
	}
	accept := resp.Header.Get(headerSecWebSocketAccept)
	if accept == "" || accept != ComputeAccept(key) {
		return ErrUpgradeRejected
	}
	return nil
}

func headerContainsToken(h http.Header, headerName, token string) bool {
	vals := h[http.CanonicalHeaderKey(headerName)]
	token = strings.ToLower(token)
	for _, v := range vals {
		for _, p := range strings.Split(v, ",") {
			if strings.ToLower(strings.TrimSpace(p)) == token {
				return true
			}
		}
	}
	return false
}
