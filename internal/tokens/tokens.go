package tokens

import "time"

// ExpiryBuffer is subtracted from a token's reported lifetime so a refresh
// happens before the platform actually starts rejecting the token.
const ExpiryBuffer = 5 * time.Minute

// Record holds the credentials issued by a platform for one authorization.
//
// CreatedAt is always UTC and marshals as RFC 3339. RefreshToken and
// ExpiresIn are omitted from the JSON document when the platform did not
// report them; a nil ExpiresIn means the token never expires.
type Record struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresIn    *int64    `json:"expires_in,omitempty"`
}

// NewRecord builds a Record stamped with the issue time in UTC.
func NewRecord(accessToken, refreshToken string, expiresIn *int64, now time.Time) Record {
	return Record{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		CreatedAt:    now.UTC(),
		ExpiresIn:    expiresIn,
	}
}

// IsExpired reports whether the access token should be treated as stale at
// the given instant. A token counts as expired [ExpiryBuffer] before its real
// deadline; records without a reported lifetime never expire.
func (r Record) IsExpired(now time.Time) bool {
	if r.ExpiresIn == nil {
		return false
	}

	deadline := r.CreatedAt.Add(time.Duration(*r.ExpiresIn)*time.Second - ExpiryBuffer)
	return !now.Before(deadline)
}

// TimeUntilExpiry returns the time remaining until the platform's actual
// deadline, without the safety buffer. The second return is false when the
// platform reported no lifetime. Negative durations mean the deadline passed.
func (r Record) TimeUntilExpiry(now time.Time) (time.Duration, bool) {
	if r.ExpiresIn == nil {
		return 0, false
	}

	deadline := r.CreatedAt.Add(time.Duration(*r.ExpiresIn) * time.Second)
	return deadline.Sub(now), true
}

// Storage maps platform names to their stored token record, at most one per
// platform. It marshals as a single JSON object; platforms never authorized
// are simply absent from the document.
type Storage map[string]Record

// Lookup returns the record stored for the named platform.
func (s Storage) Lookup(platform string) (Record, bool) {
	rec, ok := s[platform]
	return rec, ok
}

// Set stores the record for the named platform, replacing any previous one.
func (s Storage) Set(platform string, rec Record) {
	s[platform] = rec
}
