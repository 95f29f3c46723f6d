// Package server hosts the self-hosted configuration API that gate clients
// confirm against.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [Mux] implementation registers method-qualified patterns on [net/http.ServeMux].
//
// # Config Handler
//
// [ConfigHandler] serves the gate configuration endpoint:
//
//   - GET /api/config reports whether a gate password is configured on the
//     server, without ever revealing it, plus any server-declared
//     subscription feeds clients should adopt.
//   - POST /api/config validates a candidate password and answers with a
//     plain verdict. Responses never distinguish "wrong password" from
//     "no password configured".
//
// Password comparison is constant-time and the POST route is rate limited to
// slow down guessing.
package server
