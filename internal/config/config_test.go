package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codejam-dev/auth-client/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := config.New()
	require.Equal(t, "Codejam Auth", c.GetAppName())
	require.Equal(t, "http://localhost:8080/v1/api/auth", c.GetAuthBaseURL())
	require.Equal(t, "http://localhost:8080/v1/api/auth/oauth2/authorization/google", c.GetGoogleAuthURL())
	require.Equal(t, "http://localhost:3000/auth/callback", c.GetCallbackURL())
	require.Equal(t, 30*time.Second, c.GetRequestTimeout())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CODEJAM_AUTH_BASE_URL", "https://api.example.com/auth")
	t.Setenv("CODEJAM_REQUEST_TIMEOUT_SECONDS", "5")

	c := config.New()
	require.Equal(t, "https://api.example.com/auth", c.GetAuthBaseURL())
	require.Equal(t, 5*time.Second, c.GetRequestTimeout())
	// Google URL follows the auth base unless set explicitly.
	require.Equal(t, "https://api.example.com/auth/oauth2/authorization/google", c.GetGoogleAuthURL())
}

func TestBadTimeoutFallsBackToDefault(t *testing.T) {
	t.Setenv("CODEJAM_REQUEST_TIMEOUT_SECONDS", "-3")
	require.Equal(t, 30*time.Second, config.New().GetRequestTimeout())

	t.Setenv("CODEJAM_REQUEST_TIMEOUT_SECONDS", "nope")
	require.Equal(t, 30*time.Second, config.New().GetRequestTimeout())
}

func TestNewFromFileMissingFileUsesEnv(t *testing.T) {
	c, err := config.NewFromFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/v1/api/auth", c.GetAuthBaseURL())
}

func TestNewFromFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
auth_base_url = "https://auth.codejam.dev/v1/api/auth"
request_timeout_seconds = 10
credentials_dir = "/tmp/codejam-test"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	c, err := config.NewFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "https://auth.codejam.dev/v1/api/auth", c.GetAuthBaseURL())
	require.Equal(t, 10*time.Second, c.GetRequestTimeout())
	require.Equal(t, "/tmp/codejam-test", c.GetCredentialsDir())
	// Derived from the overlaid auth base.
	require.Equal(t, "https://auth.codejam.dev/v1/api/auth/oauth2/authorization/google", c.GetGoogleAuthURL())
	// Untouched values fall through.
	require.Equal(t, "http://localhost:3000/auth/callback", c.GetCallbackURL())
}

func TestNewFromFileRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("auth_base_url = [broken"), 0o600))

	_, err := config.NewFromFile(path)
	require.Error(t, err)
}
