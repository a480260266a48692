// File: config.go
// Package wsrt
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wsrt

import (
	"fmt"
	"time"

	"github.com/hioload/wsrt/heartbeat"
	"github.com/hioload/wsrt/wserr"
)

// Decoder attempts to parse a raw message payload into a structured
// value. It is an external collaborator supplied by the caller; the
// default used by DefaultConfig decodes JSON via encoding/json.
type Decoder func([]byte) (any, error)

// HeartbeatConfig controls the liveness engine.
type HeartbeatConfig struct {
	Mode        heartbeat.Mode
	Interval    time.Duration
	Timeout     time.Duration
	TextPayload string
	AutoPong    bool
}

// Config is the full configuration surface of a Session, per
// spec.md §6.
type Config struct {
	URL                   string
	ConnectTimeout        time.Duration
	MaxMessageSize        int64
	AutoReconnect         bool
	MaxReconnectAttempts  int
	Heartbeat             HeartbeatConfig
	Decoder               Decoder
}

const defaultMaxMessageSize = 16 * 1024 * 1024

// DefaultConfig returns the documented defaults for the given
// endpoint URL; callers override fields before calling Connect.
func DefaultConfig(url string) Config {
	return Config{
		URL:                  url,
		ConnectTimeout:       10 * time.Second,
		MaxMessageSize:       defaultMaxMessageSize,
		AutoReconnect:        true,
		MaxReconnectAttempts: 5,
		Heartbeat: HeartbeatConfig{
			Mode:        heartbeat.ControlPing,
			Interval:    30 * time.Second,
			Timeout:     10 * time.Second,
			TextPayload: "ping",
			AutoPong:    true,
		},
		Decoder: defaultJSONDecoder,
	}
}

func (c Config) validate() error {
	if c.URL == "" {
		return wserr.New(wserr.CodeInvalidURL, "url is required")
	}
	if c.ConnectTimeout <= 0 {
		return wserr.New(wserr.CodeInvalidURL, fmt.Sprintf("invalid connectTimeout %v", c.ConnectTimeout))
	}
	if c.MaxMessageSize <= 0 {
		return wserr.New(wserr.CodeInvalidURL, fmt.Sprintf("invalid maxMessageSize %d", c.MaxMessageSize))
	}
	if c.MaxReconnectAttempts < 0 {
		return wserr.New(wserr.CodeInvalidURL, "maxReconnectAttempts must be >= 0")
	}
	return nil
}
