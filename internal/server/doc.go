// Package server exposes the emulated CAN bus to debug tooling over HTTP and
// WebSocket.
//
// # Endpoints
//
//	GET /healthz  liveness probe, returns "ok"
//	GET /devices  every emulated device, one serialized device per line
//	GET /ws       WebSocket session (see below)
//
// # WebSocket Session
//
// On connect the server sends the current state of every device, then one
// text message per stored update:
//
//	{"type":"TALON_SRX","id":3,"speed":0.25,"inverted":false}
//
// Clients drive the bus by sending JSON requests:
//
//	{"op":"send","id":33816579,"data":[0,1,0,0,0,0,0,4],"period_ms":10}
//	{"op":"receive","id":33816579}
//
// "op" defaults to "send" and "data_size" defaults to the length of "data".
// A receive request is answered with {"id":<id>,"present":<bool>}; a request
// that fails is answered with {"error":"<message>"}.
//
// # Usage Example
//
//	emu := bus.New(registry.Instance())
//	srv := server.New(&server.Config{Port: 8087}, emu)
//	if err := srv.Listen(); err != nil {
//	    log.Fatal(err)
//	}
//	log.Fatal(srv.Run())
//
// # Thread Safety
//
// Each WebSocket client has its own writer goroutine. Device updates are
// fanned out without blocking the bus: a client whose queue is full misses
// the update and a warning is logged.
package server
