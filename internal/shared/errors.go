package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authorization flow errors
	ErrListenerUnavailable = fmt.Errorf("callback listener unavailable")
	ErrStateMismatch       = fmt.Errorf("state parameter mismatch")
	ErrMissingCode         = fmt.Errorf("authorization code missing from callback")
	ErrTimeout             = fmt.Errorf("operation timed out")

	// Token errors
	ErrTokenExchange  = fmt.Errorf("token exchange failed")
	ErrTokenParse     = fmt.Errorf("unexpected token response")
	ErrRefreshFailed  = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken = fmt.Errorf("no refresh token available")

	// API and platform errors
	ErrAPIRequest      = fmt.Errorf("API request failed")
	ErrUnknownPlatform = fmt.Errorf("unknown platform")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
)
