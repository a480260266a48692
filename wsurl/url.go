// Package wsurl parses WebSocket endpoint URLs of the form
// ws[s]://host[:port]/path into their constituent parts.
//
// Only the two WebSocket schemes are recognized; anything else is an
// invalidation. No percent-decoding or query-string handling is
// performed — the path is passed through verbatim to the HTTP Upgrade
// request line.
package wsurl

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	schemeWS  = "ws://"
	schemeWSS = "wss://"

	defaultPortWS  = 80
	defaultPortWSS = 443
)

// URL is the parsed, immutable result of Parse.
type URL struct {
	Secure bool
	Host   string
	Port   int
	Path   string
}

// String reconstructs a canonical ws[s]://host:port/path form.
func (u URL) String() string {
	scheme := "ws"
	if u.Secure {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%d%s", scheme, u.Host, u.Port, u.Path)
}

// HostHeader returns the value to send in the HTTP Host header: the
// bare host when the port is the scheme default, host:port otherwise.
func (u URL) HostHeader() string {
	if (u.Secure && u.Port == defaultPortWSS) || (!u.Secure && u.Port == defaultPortWS) {
		return u.Host
	}
	return fmt.Sprintf("%s:%d", u.Host, u.Port)
}

// Parse splits raw into its secure/host/port/path components.
//
// Recognizes exactly "ws://" (secure=false, default port 80) and
// "wss://" (secure=true, default port 443). After the scheme prefix,
// the remainder is split at the first '/' into authority and path;
// a missing path defaults to "/". An optional ":port" suffix on the
// authority overrides the scheme default. Any other scheme, or an
// empty host, is reported as an error.
func Parse(raw string) (URL, error) {
	var secure bool
	var rest string

	switch {
	case strings.HasPrefix(raw, schemeWSS):
		secure = true
		rest = raw[len(schemeWSS):]
	case strings.HasPrefix(raw, schemeWS):
		secure = false
		rest = raw[len(schemeWS):]
	default:
		return URL{}, fmt.Errorf("wsurl: unsupported scheme in %q", raw)
	}

	authority := rest
	path := "/"
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		authority = rest[:idx]
		path = rest[idx:]
	}

	if authority == "" {
		return URL{}, fmt.Errorf("wsurl: missing host in %q", raw)
	}

	host := authority
	port := defaultPortWS
	if secure {
		port = defaultPortWSS
	}

	if idx := strings.LastIndexByte(authority, ':'); idx >= 0 {
		host = authority[:idx]
		portStr := authority[idx+1:]
		p, err := strconv.Atoi(portStr)
		if err != nil || p < 1 || p > 65535 {
			return URL{}, fmt.Errorf("wsurl: invalid port %q in %q", portStr, raw)
		}
		port = p
	}

	if host == "" {
		return URL{}, fmt.Errorf("wsurl: missing host in %q", raw)
	}

	return URL{Secure: secure, Host: host, Port: port, Path: path}, nil
}
