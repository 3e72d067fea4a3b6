// Package tokens persists OAuth2 credentials between djx runs.
//
// # Model
//
// A [Record] is what one successful authorization leaves behind: the access
// token, the optional refresh token, the UTC issue time, and the optional
// lifetime in seconds as reported by the platform. Expiry is a pure function
// of the record and a supplied instant, so callers inject their clock:
//   - [Record.IsExpired] : true once the token is within [ExpiryBuffer] of
//     its deadline; records without a lifetime never expire
//   - [Record.TimeUntilExpiry] : remaining real lifetime for display
//
// [Storage] maps platform names to records and marshals as one JSON object.
//
// # Persistence
//
// [Store] reads and writes the whole document in a single file under the
// user's config directory (see [DefaultPath]). Loading a file that does not
// exist yet returns an empty Storage; saving replaces the file outright.
// There are no partial updates and no locking, a djx machine has a single
// interactive user and the last writer wins.
package tokens
