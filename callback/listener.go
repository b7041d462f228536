// Package callback runs the loopback HTTP listener that receives the
// identity provider's redirect after an authorization request. The provider
// calls back with either ?code=... or ?error=...; the listener hands the
// outcome to whoever is waiting and tells the user to return to the app.
package callback

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const resultPageHTML = `<!DOCTYPE html>
<html><body>
<p>Sign-in complete. You can close this window and return to codejam.</p>
</body></html>`

// Result is the outcome carried by the provider redirect.
type Result struct {
	Code       string
	ErrMessage string
}

// Listener binds the host and path of the configured callback URL and
// captures a single redirect.
type Listener struct {
	echo    *echo.Echo
	addr    string
	path    string
	results chan Result
	log     zerolog.Logger
}

// ListenerOption configures a Listener.
type ListenerOption func(*Listener)

// WithLogger sets the listener's logger.
func WithLogger(logger zerolog.Logger) ListenerOption {
	return func(l *Listener) {
		l.log = logger
	}
}

// New builds a Listener for callbackURL, e.g.
// "http://localhost:3000/auth/callback".
func New(callbackURL string, options ...ListenerOption) (*Listener, error) {
	parsed, err := url.Parse(callbackURL)
	if err != nil {
		return nil, errors.Wrap(err, "[callback.New] parse callback URL")
	}
	if parsed.Host == "" {
		return nil, errors.New("[callback.New] callback URL must carry a host")
	}
	path := parsed.Path
	if path == "" {
		path = "/"
	}

	l := &Listener{
		echo:    echo.New(),
		addr:    parsed.Host,
		path:    path,
		results: make(chan Result, 1),
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(l)
	}

	l.echo.HideBanner = true
	l.echo.HidePort = true
	l.echo.GET(l.path, l.handleRedirect)
	return l, nil
}

func (l *Listener) handleRedirect(c echo.Context) error {
	result := Result{
		Code:       c.QueryParam("code"),
		ErrMessage: c.QueryParam("error"),
	}
	select {
	case l.results <- result:
	default:
		// A second redirect for the same flow; the first one won.
		l.log.Warn().Msg("duplicate provider redirect ignored")
	}
	return c.HTML(http.StatusOK, resultPageHTML)
}

// Start begins serving in the background. It returns once the listener is
// accepting connections or fails to bind.
func (l *Listener) Start() error {
	errs := make(chan error, 1)
	go func() {
		if err := l.echo.Start(l.addr); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	// Give an immediate bind failure (port already taken) a moment to
	// surface here rather than as a missed redirect on Wait.
	select {
	case err := <-errs:
		return errors.Wrap(err, "[Listener.Start] bind callback listener")
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// Addr returns the bound listen address once Start has succeeded. Useful
// when the callback URL carries port 0.
func (l *Listener) Addr() string {
	addr := l.echo.ListenerAddr()
	if addr == nil {
		return ""
	}
	return addr.String()
}

// Wait blocks until the provider redirect arrives or ctx expires. A redirect
// carrying ?error= is returned as an error; an empty redirect (neither code
// nor error) means the provider misbehaved.
func (l *Listener) Wait(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "[Listener.Wait] waiting for provider redirect")
	case result := <-l.results:
		if result.ErrMessage != "" {
			return "", errors.Errorf("[Listener.Wait] provider returned error: %s", result.ErrMessage)
		}
		if result.Code == "" {
			return "", errors.New("[Listener.Wait] provider redirect carried no code")
		}
		return result.Code, nil
	}
}

// Shutdown stops the listener.
func (l *Listener) Shutdown(ctx context.Context) error {
	return l.echo.Shutdown(ctx)
}
