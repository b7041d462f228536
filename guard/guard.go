// Package guard decides whether a protected view may render for the current
// session, and where an unauthenticated or unverified visitor belongs.
package guard

import (
	"github.com/codejam-dev/auth-client/credentials"
	"github.com/codejam-dev/auth-client/session"
)

// Decision is the outcome of evaluating a session against a protected view.
type Decision int

const (
	// Wait renders a neutral loading affordance; no redirect while the
	// session is still resolving.
	Wait Decision = iota
	// Allow renders the protected content.
	Allow
	// RedirectLogin sends the visitor to the login view.
	RedirectLogin
	// RedirectVerifyOTP sends the visitor to the OTP-verification view.
	RedirectVerifyOTP
)

func (d Decision) String() string {
	switch d {
	case Wait:
		return "wait"
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectVerifyOTP:
		return "redirect-verify-otp"
	}
	return "unknown"
}

// Guard gates protected views using the session snapshot plus the credential
// store's pending-verification keys.
type Guard struct {
	store credentials.Store
}

func New(store credentials.Store) *Guard {
	return &Guard{store: store}
}

// Evaluate maps the session to a Decision:
//   - still loading: Wait
//   - unauthenticated with a temp token and a pending email: the visitor is
//     mid-verification, RedirectVerifyOTP
//   - unauthenticated otherwise: RedirectLogin
//   - authenticated but the user record is missing or not enabled: a stale
//     or partial session, RedirectVerifyOTP
//   - otherwise: Allow
func (g *Guard) Evaluate(s session.Session) Decision {
	if s.Loading {
		return Wait
	}

	if !s.IsAuthenticated {
		_, hasTempToken := g.store.Get(credentials.KeyTempToken)
		_, hasPendingEmail := g.store.Get(credentials.KeyPendingEmail)
		if hasTempToken && hasPendingEmail {
			return RedirectVerifyOTP
		}
		return RedirectLogin
	}

	if s.User == nil || !s.User.IsEnabled {
		return RedirectVerifyOTP
	}
	return Allow
}
