package auth

import "golang.org/x/oauth2"

// PKCE is the proof-key pair for one authorization attempt.
//
// The verifier exists only in memory for the attempt's lifetime and is never
// logged or persisted; only its S256 challenge travels in the authorize URL.
type PKCE struct {
	Verifier  string
	Challenge string
}

// GeneratePKCE creates a fresh verifier (32 random bytes, URL-safe base64
// without padding) and derives its S256 challenge,
// base64url(sha256(verifier)).
func GeneratePKCE() PKCE {
	verifier := oauth2.GenerateVerifier()
	return PKCE{
		Verifier:  verifier,
		Challenge: oauth2.S256ChallengeFromVerifier(verifier),
	}
}
