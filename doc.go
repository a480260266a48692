// File: doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package wsrt is a client-side WebSocket runtime (RFC 6455) for
// high-throughput, long-lived streaming connections. It opens a TLS
// or plaintext connection, performs the HTTP Upgrade handshake, and
// exchanges masked frames; it maintains liveness via a heartbeat
// state machine, accepts concurrent submissions from many producers,
// and dispatches received messages to user callbacks.
//
// A Session is constructed with New and driven through Connect,
// Disconnect, and Wait. Callbacks are registered with the On*
// methods before or after Connect; they may be replaced at any time.
//
//	cfg := wsrt.DefaultConfig("wss://example.com/stream")
//	sess, err := wsrt.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	sess.OnRawMessage(func(payload []byte) {
//		fmt.Println(string(payload))
//	})
//	if err := sess.Connect(); err != nil {
//		log.Fatal(err)
//	}
//	sess.Wait()
package wsrt
