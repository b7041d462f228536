// Package session owns the client's authoritative authentication state and
// the operations that move it: register, OTP verification, login, the PKCE
// OAuth exchange, and logout.
package session

import "github.com/codejam-dev/auth-client/authmodel"

// Session is an immutable snapshot of the client's authentication state.
// Err is an annotation, not a state: it is cleared at the start of the next
// operation or explicitly via ClearError.
type Session struct {
	IsAuthenticated bool
	User            *authmodel.User
	Token           string
	Loading         bool
	Err             string
}
