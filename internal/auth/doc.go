// Package auth implements the OAuth2 authorization code flow and the token
// lifecycle around it.
//
// # Authorization
//
// [Flow.Authorize] runs one interactive attempt end to end:
//
//  1. Reserve the platform's fixed loopback port (fail fast when a
//     concurrent attempt holds it)
//  2. Generate [PKCE] material when the platform requires it, plus a state
//     nonce either way
//  3. Open the consent page in the browser, printing the URL as the fallback
//  4. Block on the single callback redirect
//  5. Validate state (byte-for-byte, constant time) for PKCE platforms, then
//     the presence of the authorization code
//  6. Exchange the code and persist the issued record
//
// A failed attempt persists nothing.
//
// # Exchange
//
// [Exchanger] owns the two token endpoint operations, code exchange and
// refresh, as plain form POSTs with no retries. Failed responses keep their
// status and body in the error chain under [shared.ErrTokenExchange] or
// [shared.ErrRefreshFailed]; undecodable documents surface
// [shared.ErrTokenParse].
//
// # Lifecycle
//
// [Manager.EnsureValidToken] is what upload code calls before talking to a
// platform API. It resolves, in order: no record (run the interactive flow),
// fresh record (return it, zero network), stale record with a refresh token
// (refresh and persist, keeping the old refresh token when the platform
// does not rotate it), stale record without one (tell the user to
// reauthorize). [Manager.Status] reports the same decision inputs for
// display without side effects.
//
// Both Flow and Manager take their clock as a dependency, expiry decisions
// are pure functions of stored records and injected time.
package auth
