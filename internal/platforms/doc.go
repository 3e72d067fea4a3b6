// Package platforms declares the supported mix platforms and their OAuth2
// shape.
//
// Each [Provider] value pairs a platform's fixed properties (authorize and
// token endpoints, redirect URI with its reserved loopback port, PKCE
// requirement, scope) with the client credentials supplied at runtime through
// configuration. Nothing here is baked in at build time; a djx binary is
// useless without a config.toml.
//
// The two platforms differ in flow shape:
//   - Mixcloud: plain authorization code flow, non-expiring tokens
//   - SoundCloud: PKCE (S256) with CSRF state validation, expiring tokens
//     with refresh, "non-expiring" scope requested for uploads
//
// [Registry] indexes providers by name for CLI lookup and rejects
// configurations where two providers claim the same callback port, because
// the port is also the mutual exclusion for concurrent authorization
// attempts.
package platforms
