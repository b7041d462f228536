package guard_test

import (
	"testing"

	"github.com/codejam-dev/auth-client/authmodel"
	"github.com/codejam-dev/auth-client/credentials"
	"github.com/codejam-dev/auth-client/credentials/storefakes"
	"github.com/codejam-dev/auth-client/guard"
	"github.com/codejam-dev/auth-client/session"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	enabledUser := &authmodel.User{UserID: "user-1", Email: "alice@x.com", IsEnabled: true}
	disabledUser := &authmodel.User{UserID: "user-1", Email: "alice@x.com", IsEnabled: false}

	tests := []struct {
		name    string
		session session.Session
		stored  map[credentials.Key]string
		want    guard.Decision
	}{
		{
			name:    "loading renders nothing and redirects nowhere",
			session: session.Session{Loading: true},
			want:    guard.Wait,
		},
		{
			name:    "anonymous visitor goes to login",
			session: session.Session{},
			want:    guard.RedirectLogin,
		},
		{
			name:    "pending verification goes to OTP entry",
			session: session.Session{},
			stored: map[credentials.Key]string{
				credentials.KeyTempToken:    "temp-1",
				credentials.KeyPendingEmail: "alice@x.com",
			},
			want: guard.RedirectVerifyOTP,
		},
		{
			name:    "temp token without pending email goes to login",
			session: session.Session{},
			stored: map[credentials.Key]string{
				credentials.KeyTempToken: "temp-1",
			},
			want: guard.RedirectLogin,
		},
		{
			name:    "authenticated enabled user renders",
			session: session.Session{IsAuthenticated: true, User: enabledUser, Token: "tok"},
			want:    guard.Allow,
		},
		{
			name:    "authenticated but disabled user goes to OTP entry",
			session: session.Session{IsAuthenticated: true, User: disabledUser, Token: "tok"},
			want:    guard.RedirectVerifyOTP,
		},
		{
			name:    "authenticated without user record goes to OTP entry",
			session: session.Session{IsAuthenticated: true, Token: "tok"},
			want:    guard.RedirectVerifyOTP,
		},
		{
			name: "authenticated user renders even with stale pending keys",
			session: session.Session{IsAuthenticated: true, User: enabledUser, Token: "tok"},
			stored: map[credentials.Key]string{
				credentials.KeyTempToken:    "stale",
				credentials.KeyPendingEmail: "old@x.com",
			},
			want: guard.Allow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storefakes.NewFakeStore()
			for key, value := range tt.stored {
				require.NoError(t, store.Set(key, value))
			}
			require.Equal(t, tt.want, guard.New(store).Evaluate(tt.session))
		})
	}
}

func TestDecisionString(t *testing.T) {
	require.Equal(t, "wait", guard.Wait.String())
	require.Equal(t, "allow", guard.Allow.String())
	require.Equal(t, "redirect-login", guard.RedirectLogin.String())
	require.Equal(t, "redirect-verify-otp", guard.RedirectVerifyOTP.String())
}
