// Package transport provides the byte-stream collaborator a session
// dials through: a plain TCP connection or a TLS connection layered
// over one, exposing the write-all / best-effort-read contract the
// protocol layer is built against.
package transport

import (
	"crypto/tls"
	"net"
	"strconv"
	"time"
)

// Conn is the byte-stream abstraction the handshake and I/O loop
// depend on. Both the plaintext and TLS transports satisfy it, since
// both are backed by a net.Conn underneath.
type Conn interface {
	// WriteAll writes the entirety of b, looping internally until
	// every byte is accepted or a write fails.
	WriteAll(b []byte) error

	// Read reads into dst and returns the number of bytes read, with
	// net.Conn.Read semantics: a timeout error after a deadline set by
	// SetReadDeadline only means no bytes arrived in time; any other
	// error signals EOF or a fatal transport error.
	Read(dst []byte) (int, error)

	SetReadDeadline(t time.Time) error
	Close() error

	// LocalAddr and RemoteAddr are exposed for logging/diagnostics.
	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}

// streamConn adapts a net.Conn to Conn; it is shared by the plaintext
// and TLS constructors below since tls.Conn also implements net.Conn.
type streamConn struct {
	net.Conn
}

func (s *streamConn) WriteAll(b []byte) error {
	for len(b) > 0 {
		n, err := s.Conn.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// DialTCP opens a plaintext TCP connection to host:port, disabling
// Nagle's algorithm so small protocol frames are not delayed.
func DialTCP(host string, port int, timeout time.Duration) (Conn, error) {
	d := net.Dialer{Timeout: timeout}
	c, err := d.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	if tc, ok := c.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	return &streamConn{Conn: c}, nil
}

// TLSConfig returns a client TLS configuration pinned to the target
// host: SNI is set to the hostname (not an IP literal), hostname
// verification is left enabled (InsecureSkipVerify stays false), and
// the minimum negotiated version is TLS 1.2.
func TLSConfig(host string) *tls.Config {
	return &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}
}

// DialTLS opens a TCP connection to host:port and then performs a TLS
// client handshake over it using TLSConfig(host).
func DialTLS(host string, port int, timeout time.Duration) (Conn, error) {
	d := net.Dialer{Timeout: timeout}
	raw, err := d.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, err
	}
	if tc, ok := raw.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}

	tlsConn := tls.Client(raw, TLSConfig(host))
	if timeout > 0 {
		_ = tlsConn.SetDeadline(time.Now().Add(timeout))
	}
	if err := tlsConn.Handshake(); err != nil {
		_ = raw.Close()
		return nil, err
	}
	if timeout > 0 {
		_ = tlsConn.SetDeadline(time.Time{})
	}
	return &streamConn{Conn: tlsConn}, nil
}
