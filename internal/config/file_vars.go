package config

import (
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// FileVars overlays values loaded from a TOML config file on top of the
// environment-variable configuration. Empty fields fall through to EnvVars.
type FileVars struct {
	mainConfig

	AppName        string `toml:"app_name"`
	AuthBaseURL    string `toml:"auth_base_url"`
	GatewayBaseURL string `toml:"gateway_base_url"`
	GoogleAuthURL  string `toml:"google_auth_url"`
	CallbackURL    string `toml:"callback_url"`
	TimeoutSeconds int    `toml:"request_timeout_seconds"`
	CredentialsDir string `toml:"credentials_dir"`
	SealKey        string `toml:"seal_key"`
}

var _ Config = &FileVars{}

// NewFromFile loads a TOML overlay from path. A missing file is not an
// error; the environment configuration is returned unchanged.
func NewFromFile(path string) (Config, error) {
	fv := &FileVars{}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fv, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[NewFromFile] read config file")
	}
	if err := toml.Unmarshal(data, fv); err != nil {
		return nil, errors.Wrap(err, "[NewFromFile] parse config file")
	}
	return fv, nil
}

func (f *FileVars) GetAppName() string {
	return fallthroughValue(f.AppName, f.mainConfig.GetAppName)
}

func (f *FileVars) GetAuthBaseURL() string {
	return fallthroughValue(f.AuthBaseURL, f.mainConfig.GetAuthBaseURL)
}

func (f *FileVars) GetGatewayBaseURL() string {
	return fallthroughValue(f.GatewayBaseURL, f.mainConfig.GetGatewayBaseURL)
}

func (f *FileVars) GetGoogleAuthURL() string {
	if f.GoogleAuthURL != "" {
		return f.GoogleAuthURL
	}
	if f.AuthBaseURL != "" {
		return f.AuthBaseURL + "/oauth2/authorization/google"
	}
	return f.mainConfig.GetGoogleAuthURL()
}

func (f *FileVars) GetCallbackURL() string {
	return fallthroughValue(f.CallbackURL, f.mainConfig.GetCallbackURL)
}

func (f *FileVars) GetRequestTimeout() time.Duration {
	if f.TimeoutSeconds > 0 {
		return time.Duration(f.TimeoutSeconds) * time.Second
	}
	return f.mainConfig.GetRequestTimeout()
}

func (f *FileVars) GetCredentialsDir() string {
	return fallthroughValue(f.CredentialsDir, f.mainConfig.GetCredentialsDir)
}

func (f *FileVars) GetSealKey() string {
	return fallthroughValue(f.SealKey, f.mainConfig.GetSealKey)
}

func fallthroughValue(v string, fallback func() string) string {
	if v != "" {
		return v
	}
	return fallback()
}
