package callback_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/codejam-dev/auth-client/callback"
	"github.com/stretchr/testify/require"
)

func startListener(t *testing.T) *callback.Listener {
	t.Helper()
	listener, err := callback.New("http://127.0.0.1:0/auth/callback")
	require.NoError(t, err)
	require.NoError(t, listener.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = listener.Shutdown(ctx)
	})

	// Port 0 binds asynchronously; wait until the address is known.
	require.Eventually(t, func() bool { return listener.Addr() != "" }, time.Second, 10*time.Millisecond)
	return listener
}

func TestListenerDeliversCode(t *testing.T) {
	listener := startListener(t)

	resp, err := http.Get("http://" + listener.Addr() + "/auth/callback?code=abc123")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	code, err := listener.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc123", code)
}

func TestListenerSurfacesProviderError(t *testing.T) {
	listener := startListener(t)

	resp, err := http.Get("http://" + listener.Addr() + "/auth/callback?error=access_denied")
	require.NoError(t, err)
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = listener.Wait(ctx)
	require.ErrorContains(t, err, "access_denied")
}

func TestListenerWaitHonorsContext(t *testing.T) {
	listener := startListener(t)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := listener.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewRejectsHostlessURL(t *testing.T) {
	_, err := callback.New("/auth/callback")
	require.Error(t, err)
}
