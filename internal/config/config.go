package config

type Config interface {
	EnvConfig
	EndpointConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Storage
}

// New builds the default configuration: environment variables layered over
// built-in defaults, with an optional TOML file overlay (see NewFromFile).
func New() Config {
	return mainConfig{}
}
