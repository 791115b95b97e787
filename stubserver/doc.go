// Package stubserver runs a scripted in-process API for harness tests.
//
// Routes are declared per test, either as a fixed response or as a
// sequence consumed one response per call, which makes it easy to script
// retry scenarios:
//
//	stub := stubserver.New()
//	defer stub.Close()
//	stub.StubSequence("GET", "/flaky",
//	    stubserver.Respond(503, nil),
//	    stubserver.Respond(503, nil),
//	    stubserver.Respond(200, map[string]string{"ok": "true"}),
//	)
//
// Every request is captured for later inspection of headers and bodies.
package stubserver
