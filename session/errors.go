package session

import "errors"

// Local precondition failures. These are raised before any network call is
// attempted.
var (
	ErrNoTempToken     = errors.New("no temp token found, register or log in first")
	ErrNoTransactionID = errors.New("no transaction id found, generate an OTP first")
	ErrNoCodeVerifier  = errors.New("PKCE code verifier not found, initiate OAuth login again")
	ErrMalformedAuth   = errors.New("auth response missing token")
)
