package config

import (
	"os"
	"strconv"
	"time"
)

const (
	appNameVar        = "CODEJAM_APP_NAME"
	authBaseURLVar    = "CODEJAM_AUTH_BASE_URL"
	gatewayBaseURLVar = "CODEJAM_API_GATEWAY_URL"
	googleAuthURLVar  = "CODEJAM_GOOGLE_AUTH_URL"
	callbackURLVar    = "CODEJAM_OAUTH_CALLBACK_URL"
	timeoutSecondsVar = "CODEJAM_REQUEST_TIMEOUT_SECONDS"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}
var _ EndpointConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Codejam Auth")
}

func (EnvVars) GetEnv() string {
	return GetEnv("ENV", "DEV")
}

type EndpointConfig interface {
	GetAuthBaseURL() string
	GetGatewayBaseURL() string
	GetGoogleAuthURL() string
	GetCallbackURL() string
	GetRequestTimeout() time.Duration
}

// GetAuthBaseURL returns the base URL of the authentication API
// (e.g. "https://api.codejam.dev/v1/api/auth"). All auth endpoints hang off it.
func (e EnvVars) GetAuthBaseURL() string {
	return GetEnv(authBaseURLVar, "http://localhost:8080/v1/api/auth")
}

func (EnvVars) GetGatewayBaseURL() string {
	return GetEnv(gatewayBaseURLVar, "http://localhost:8080")
}

// GetGoogleAuthURL returns the gateway's Google authorization initiation
// endpoint. The PKCE challenge parameters are appended to it.
func (e EnvVars) GetGoogleAuthURL() string {
	return GetEnv(googleAuthURLVar, e.GetAuthBaseURL()+"/oauth2/authorization/google")
}

func (EnvVars) GetCallbackURL() string {
	return GetEnv(callbackURLVar, "http://localhost:3000/auth/callback")
}

func (EnvVars) GetRequestTimeout() time.Duration {
	seconds, err := strconv.Atoi(GetEnv(timeoutSecondsVar, "30"))
	if err != nil || seconds <= 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
