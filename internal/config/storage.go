package config

import (
	"os"
	"path/filepath"
)

type StorageConfig interface {
	GetCredentialsDir() string
	GetSealKey() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

// GetCredentialsDir returns the directory holding the persisted credential
// file. An empty return means no writable location exists and the store
// should fall back to its no-op implementation.
func (Storage) GetCredentialsDir() string {
	if dir := GetEnv("CODEJAM_CREDENTIALS_DIR", ""); dir != "" {
		return dir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "codejam")
}

// GetSealKey returns the hex-encoded 32-byte key used to seal the credential
// file at rest, or "" to persist unsealed.
func (Storage) GetSealKey() string {
	return GetEnv("CODEJAM_SEAL_KEY", "")
}
