package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/codejam-dev/auth-client/apiclient"
	"github.com/codejam-dev/auth-client/authmodel"
	"github.com/codejam-dev/auth-client/credentials"
	"github.com/codejam-dev/auth-client/pkce"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Navigate performs the full-page redirect to the identity provider. Under a
// browser-like host this replaces the running page; the CLI opens a browser
// instead.
type Navigate func(url string)

// Deps holds the collaborators the Manager orchestrates.
type Deps struct {
	Store     credentials.Store  // durable credential persistence
	Verifiers pkce.VerifierStore // transient PKCE verifier storage
	API       *apiclient.Client  // authentication gateway transport
}

// Manager owns the session state machine. It is constructed once at startup
// and injected into every consumer; state is only readable through Session
// snapshots.
//
// Overlapping operations are serialized by a mutex, and every state-mutating
// operation carries a generation: a completion whose generation is stale
// (logout or a newer call intervened) does not apply its result.
type Manager struct {
	deps          Deps
	googleAuthURL string
	navigate      Navigate
	log           zerolog.Logger
	nowTime       func() time.Time

	lock  sync.Mutex
	state Session
	gen   uint64
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithLogger sets the manager's logger.
func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = logger
	}
}

// WithNavigator sets the redirect implementation used by
// InitiateGoogleLogin.
func WithNavigator(navigate Navigate) ManagerOption {
	return func(m *Manager) {
		m.navigate = navigate
	}
}

// NewManager initializes a Manager and restores any persisted session: a
// stored token whose exp claim is still in the future starts the session
// authenticated, anything else starts it anonymous.
func NewManager(deps Deps, googleAuthURL string, options ...ManagerOption) (*Manager, error) {
	if deps.Store == nil {
		return nil, errors.New("[NewManager] credential store is required")
	}
	if deps.Verifiers == nil {
		return nil, errors.New("[NewManager] verifier store is required")
	}
	if deps.API == nil {
		return nil, errors.New("[NewManager] api client is required")
	}

	m := &Manager{
		deps:          deps,
		googleAuthURL: googleAuthURL,
		log:           zerolog.Nop(),
		nowTime:       time.Now,
	}
	for _, opt := range options {
		opt(m)
	}

	m.restore()
	return m, nil
}

// Session returns a snapshot of the current state.
func (m *Manager) Session() Session {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.state
}

// ClearError removes the error annotation without otherwise changing state.
func (m *Manager) ClearError() {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.state.Err = ""
}

// restore reads the credential store once at construction. Expired or
// undecodable tokens are a silent sign-out, not an error.
func (m *Manager) restore() {
	token, hasToken := m.deps.Store.Get(credentials.KeyAuthToken)
	userData, hasUser := m.deps.Store.Get(credentials.KeyUserData)
	if !hasToken || !hasUser {
		return
	}

	user, err := authmodel.ParseUser(userData)
	if err != nil || !user.IsEnabled || tokenExpired(token, m.nowTime()) {
		m.log.Debug().Msg("stored session invalid or expired, starting anonymous")
		m.deps.Store.ClearSession()
		return
	}

	m.state = Session{
		IsAuthenticated: true,
		User:            &user,
		Token:           token,
	}
}

// Register creates an account. On success a temp token and the pending email
// are persisted for the OTP step; the user is not logged in. Failure leaves
// stored credentials untouched.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	gen := m.beginOp()

	var payload authmodel.AuthPayload
	req := authmodel.RegisterRequest{Name: name, Email: email, Password: password}
	if err := m.deps.API.Post(ctx, apiclient.RouteRegister, req, false, &payload); err != nil {
		return m.failOp(gen, err, "[Register]")
	}

	m.persistPendingVerification(payload.Token, payload.Email)
	m.finishOp(gen, func(s *Session) {
		s.IsAuthenticated = false
		s.User = nil
		s.Token = ""
	})
	m.log.Info().Str("email", email).Msg("registered, awaiting OTP verification")
	return nil
}

// GenerateOTP requests a one-time code for the pending registration. Safe to
// call again to resend; each call overwrites the stored transaction id.
func (m *Manager) GenerateOTP(ctx context.Context) error {
	gen := m.beginOp()

	if _, ok := m.deps.Store.Get(credentials.KeyTempToken); !ok {
		return m.failOp(gen, ErrNoTempToken, "[GenerateOTP]")
	}

	var payload authmodel.GenerateOtpPayload
	if err := m.deps.API.Post(ctx, apiclient.RouteGenerateOtp, nil, true, &payload); err != nil {
		return m.failOp(gen, err, "[GenerateOTP]")
	}

	if payload.TransactionID != "" {
		m.setStored(credentials.KeyPendingTransactionID, payload.TransactionID)
	}
	m.finishOp(gen, nil)
	return nil
}

// ValidateOTP submits the one-time code. On success the pending-verification
// keys are cleared, the full token and user are persisted, and the session
// becomes authenticated. On failure pending-verification data is left
// untouched so the user may retry.
func (m *Manager) ValidateOTP(ctx context.Context, code string) error {
	gen := m.beginOp()

	if _, ok := m.deps.Store.Get(credentials.KeyTempToken); !ok {
		return m.failOp(gen, ErrNoTempToken, "[ValidateOTP]")
	}
	transactionID, ok := m.deps.Store.Get(credentials.KeyPendingTransactionID)
	if !ok {
		return m.failOp(gen, ErrNoTransactionID, "[ValidateOTP]")
	}

	var payload authmodel.AuthPayload
	req := authmodel.ValidateOtpRequest{Otp: code, TransactionID: transactionID}
	if err := m.deps.API.Post(ctx, apiclient.RouteValidateOtp, req, true, &payload); err != nil {
		return m.failOp(gen, err, "[ValidateOTP]")
	}
	if payload.Token == "" {
		return m.failOp(gen, ErrMalformedAuth, "[ValidateOTP]")
	}

	// Passing the OTP check is itself proof of enablement, whether or not
	// the gateway echoes the flag.
	user := payload.User(true)
	m.deps.Store.ClearPendingVerification()
	m.persistAuthenticated(payload.Token, user)
	m.finishOp(gen, func(s *Session) {
		s.IsAuthenticated = true
		s.User = &user
		s.Token = payload.Token
	})
	m.log.Info().Str("email", user.Email).Msg("OTP verified, session authenticated")
	return nil
}

// Login authenticates with email and password. An enabled account becomes a
// full session; a not-yet-enabled account gets a temp token and pending
// email with no error, which is the caller's signal to route to OTP
// verification next.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	gen := m.beginOp()

	var payload authmodel.AuthPayload
	req := authmodel.LoginRequest{Email: email, Password: password}
	if err := m.deps.API.Post(ctx, apiclient.RouteLogin, req, false, &payload); err != nil {
		return m.failOp(gen, err, "[Login]")
	}

	if !payload.UserEnabled() {
		m.persistPendingVerification(payload.Token, payload.Email)
		m.finishOp(gen, func(s *Session) {
			s.IsAuthenticated = false
			s.User = nil
			s.Token = ""
		})
		m.log.Info().Str("email", email).Msg("login requires OTP verification")
		return nil
	}

	user := payload.User(false)
	// Any stale pending-verification keys from an earlier incomplete
	// registration are dead once a full session exists.
	m.deps.Store.ClearPendingVerification()
	m.persistAuthenticated(payload.Token, user)
	m.finishOp(gen, func(s *Session) {
		s.IsAuthenticated = true
		s.User = &user
		s.Token = payload.Token
	})
	m.log.Info().Str("email", email).Msg("login succeeded")
	return nil
}

// InitiateGoogleLogin generates a fresh PKCE pair, stores the verifier, and
// redirects to the identity provider with the S256 challenge attached. The
// authorization URL is returned for hosts without a navigator. A verifier
// storage failure aborts the redirect: proceeding would leave the flow
// unrecoverable at exchange time.
func (m *Manager) InitiateGoogleLogin() (string, error) {
	verifier, err := pkce.GenerateVerifier()
	if err != nil {
		return "", m.annotate(errors.Wrap(err, "[InitiateGoogleLogin] generate verifier"))
	}
	challenge := pkce.ComputeChallenge(verifier)

	if err := m.deps.Verifiers.Put(verifier); err != nil {
		return "", m.annotate(errors.Wrap(err, "[InitiateGoogleLogin] store verifier"))
	}

	authURL, err := url.Parse(m.googleAuthURL)
	if err != nil {
		return "", m.annotate(errors.Wrap(err, "[InitiateGoogleLogin] parse authorization URL"))
	}
	query := authURL.Query()
	query.Set("code_challenge", challenge)
	query.Set("code_challenge_method", "S256")
	authURL.RawQuery = query.Encode()

	target := authURL.String()
	if m.navigate != nil {
		m.navigate(target)
	}
	return target, nil
}

// ExchangeOAuthCode trades the provider's authorization code plus the stored
// PKCE verifier for a full session. The verifier is cleared whether the
// exchange succeeds or fails; a verifier must never be presented twice.
func (m *Manager) ExchangeOAuthCode(ctx context.Context, code string) error {
	gen := m.beginOp()

	verifier, ok := m.deps.Verifiers.Get()
	if !ok {
		return m.failOp(gen, ErrNoCodeVerifier, "[ExchangeOAuthCode]")
	}
	defer m.deps.Verifiers.Clear()

	var payload authmodel.AuthPayload
	req := authmodel.OAuthExchangeRequest{Code: code, CodeVerifier: verifier}
	if err := m.deps.API.Post(ctx, apiclient.RouteOAuthExchange, req, false, &payload); err != nil {
		return m.failOp(gen, err, "[ExchangeOAuthCode]")
	}
	if payload.Token == "" {
		return m.failOp(gen, ErrMalformedAuth, "[ExchangeOAuthCode]")
	}

	// OAuth-authenticated users are always enabled.
	user := payload.User(true)
	m.deps.Store.ClearPendingVerification()
	m.persistAuthenticated(payload.Token, user)
	m.finishOp(gen, func(s *Session) {
		s.IsAuthenticated = true
		s.User = &user
		s.Token = payload.Token
	})
	m.log.Info().Str("provider", payload.Provider).Msg("OAuth exchange succeeded")
	return nil
}

// Logout ends the session. The gateway call is best effort: whatever it
// returns, every stored credential is cleared and the session resets to
// anonymous. A network failure must never leave stale credentials behind.
func (m *Manager) Logout(ctx context.Context) {
	gen := m.beginOp()

	if err := m.deps.API.Post(ctx, apiclient.RouteLogout, nil, true, nil); err != nil {
		m.log.Warn().Err(err).Msg("logout request failed, clearing local session anyway")
	}

	m.deps.Store.ClearAll()
	m.deps.Verifiers.Clear()
	m.finishOp(gen, func(s *Session) {
		*s = Session{}
	})
	m.log.Info().Msg("logged out")
}

// RequestPasswordReset asks the gateway to email a reset token. It never
// touches stored credentials.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	gen := m.beginOp()

	req := authmodel.ResetPasswordRequest{Email: email}
	if err := m.deps.API.Post(ctx, apiclient.RouteResetPassword, req, false, nil); err != nil {
		return m.failOp(gen, err, "[RequestPasswordReset]")
	}
	m.finishOp(gen, nil)
	return nil
}

// CompletePasswordReset submits the emailed reset token with the new
// password. The user still logs in afterwards; no session state changes.
func (m *Manager) CompletePasswordReset(ctx context.Context, email, resetToken, newPassword string) error {
	gen := m.beginOp()

	req := authmodel.ValidateResetTokenRequest{Email: email, ResetToken: resetToken, NewPassword: newPassword}
	if err := m.deps.API.Post(ctx, apiclient.RouteValidateResetToken, req, false, nil); err != nil {
		return m.failOp(gen, err, "[CompletePasswordReset]")
	}
	m.finishOp(gen, nil)
	return nil
}

// CheckHealth reports whether the auth gateway answers its health endpoint.
func (m *Manager) CheckHealth(ctx context.Context) bool {
	return m.deps.API.Get(ctx, apiclient.RouteHealth, false, nil) == nil
}

// TempToken returns the stored temp token, if any.
func (m *Manager) TempToken() (string, bool) {
	return m.deps.Store.Get(credentials.KeyTempToken)
}

// PendingEmail returns the email awaiting OTP verification, if any.
func (m *Manager) PendingEmail() (string, bool) {
	return m.deps.Store.Get(credentials.KeyPendingEmail)
}

// PendingTransactionID returns the OTP transaction id, if any.
func (m *Manager) PendingTransactionID() (string, bool) {
	return m.deps.Store.Get(credentials.KeyPendingTransactionID)
}

func (m *Manager) beginOp() uint64 {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.gen++
	m.state.Loading = true
	m.state.Err = ""
	return m.gen
}

// finishOp applies a state mutation unless a newer operation has begun since
// gen was issued.
func (m *Manager) finishOp(gen uint64, apply func(*Session)) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if gen != m.gen {
		m.log.Debug().Uint64("gen", gen).Uint64("current", m.gen).Msg("stale operation completion dropped")
		return
	}
	m.state.Loading = false
	if apply != nil {
		apply(&m.state)
	}
}

// failOp records a human-readable message on the session and rethrows the
// underlying error to the caller.
func (m *Manager) failOp(gen uint64, err error, contextStr string) error {
	m.lock.Lock()
	if gen == m.gen {
		m.state.Loading = false
		m.state.Err = errorMessage(err)
	}
	m.lock.Unlock()
	return errors.Wrap(err, contextStr)
}

func (m *Manager) annotate(err error) error {
	m.lock.Lock()
	m.state.Err = errorMessage(err)
	m.lock.Unlock()
	return err
}

func errorMessage(err error) string {
	if apiErr, ok := apiclient.AsError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

// persistPendingVerification stores the temp token and pending email issued
// for the OTP flow. Persistence is best effort: a store that cannot write
// degrades the experience, it does not break the flow.
func (m *Manager) persistPendingVerification(tempToken, email string) {
	if tempToken != "" {
		m.setStored(credentials.KeyTempToken, tempToken)
	}
	if email != "" {
		m.setStored(credentials.KeyPendingEmail, email)
	}
}

func (m *Manager) persistAuthenticated(token string, user authmodel.User) {
	m.setStored(credentials.KeyAuthToken, token)
	if serialized, err := user.Serialize(); err == nil {
		m.setStored(credentials.KeyUserData, serialized)
	}
}

func (m *Manager) setStored(key credentials.Key, value string) {
	if err := m.deps.Store.Set(key, value); err != nil {
		m.log.Warn().Err(err).Str("key", string(key)).Msg("failed to persist credential")
	}
}
