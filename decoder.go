// File: decoder.go
// Package wsrt
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package wsrt

import "encoding/json"

// defaultJSONDecoder decodes a raw message payload as JSON into a
// generic map/slice/scalar value. Callers wanting a typed structured
// message set a custom Decoder on Config instead.
func defaultJSONDecoder(payload []byte) (any, error) {
	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Session) getDecoder() Decoder {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()
	return s.cfg.Decoder
}

// SetDecoder replaces the structured-message decoder at runtime.
// Passing nil disables OnMessage delivery; OnRawMessage is unaffected.
func (s *Session) SetDecoder(d Decoder) {
	s.cfgMu.Lock()
	s.cfg.Decoder = d
	s.cfgMu.Unlock()
}
