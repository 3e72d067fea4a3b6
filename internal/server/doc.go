// Package server receives OAuth2 redirects on a fixed loopback port.
//
// # One-shot design
//
// [Loopback] is the callback half of the authorization flow. Each platform
// reserves one well-known local port in its registered redirect URI, so the
// listener binds exactly that port, accepts exactly one connection, and then
// releases the port.
//
// The implementation stays at the TCP level. A redirect is a single GET whose
// interesting content (code, state, error) lives entirely in the request
// line's query string, so the listener reads that one line, answers with a
// static confirmation page, and closes. There is no routing,
// no handler tree, and no long-lived server to manage.
//
// # Waiting and cancellation
//
// [Loopback.WaitForCallback] blocks with no deadline of its own; the user may
// take minutes to approve access in the browser. Callers that want bounded
// waiting pass a cancellable context. Cancellation closes the listener (and
// the accepted connection, if any), which unblocks the wait and surfaces
// [shared.ErrTimeout].
//
// # Port as lock
//
// A second authorization attempt for the same platform fails immediately at
// [Loopback.Listen] with [shared.ErrListenerUnavailable] because the port is
// taken. That failure mode is the concurrency contract: one attempt per
// platform at a time, enforced by the operating system.
package server
