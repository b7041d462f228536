package credentials

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const storeFileName = "credentials.json"

var _ Store = (*FileStore)(nil)

// FileStore keeps credentials in a single JSON file under the configured
// directory, optionally sealed at rest (see WithSealKey). The full map lives
// in memory; every mutation rewrites the file with 0600 permissions.
type FileStore struct {
	path   string
	values map[Key]string
	sealer *sealer
	log    zerolog.Logger
	lock   sync.RWMutex
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithSealKey seals values at rest with the given 32-byte key.
func WithSealKey(key [32]byte) FileStoreOption {
	return func(fs *FileStore) {
		fs.sealer = newSealer(key)
	}
}

// WithLogger sets the logger used for persistence warnings.
func WithLogger(logger zerolog.Logger) FileStoreOption {
	return func(fs *FileStore) {
		fs.log = logger
	}
}

// NewFileStore opens (or creates) the credential file under dir. A corrupt
// or unreadable file starts the store empty rather than failing: losing a
// cached session is recoverable, refusing to start is not.
func NewFileStore(dir string, options ...FileStoreOption) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("[NewFileStore] credentials directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] create credentials directory")
	}

	fs := &FileStore{
		path:   filepath.Join(dir, storeFileName),
		values: make(map[Key]string),
		log:    zerolog.Nop(),
	}
	for _, opt := range options {
		opt(fs)
	}
	fs.load()
	return fs, nil
}

func (fs *FileStore) load() {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		fs.log.Warn().Err(err).Str("path", fs.path).Msg("credential file unreadable, starting empty")
		return
	}
	if fs.sealer != nil {
		data, err = fs.sealer.open(data)
		if err != nil {
			fs.log.Warn().Err(err).Msg("credential file unsealing failed, starting empty")
			return
		}
	}
	if err := json.Unmarshal(data, &fs.values); err != nil {
		fs.log.Warn().Err(err).Msg("credential file corrupt, starting empty")
		fs.values = make(map[Key]string)
	}
}

func (fs *FileStore) persist() error {
	data, err := json.Marshal(fs.values)
	if err != nil {
		return errors.Wrap(err, "marshal credentials")
	}
	if fs.sealer != nil {
		data, err = fs.sealer.seal(data)
		if err != nil {
			return errors.Wrap(err, "seal credentials")
		}
	}
	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return errors.Wrap(err, "write credential file")
	}
	return nil
}

func (fs *FileStore) Get(key Key) (string, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	value, ok := fs.values[key]
	return value, ok
}

func (fs *FileStore) Set(key Key, value string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values[key] = value
	return errors.Wrap(fs.persist(), "[FileStore.Set]")
}

func (fs *FileStore) Remove(key Key) {
	fs.removeKeys(key)
}

func (fs *FileStore) ClearSession() {
	fs.removeKeys(KeyAuthToken, KeyUserData)
}

func (fs *FileStore) ClearPendingVerification() {
	fs.removeKeys(KeyTempToken, KeyPendingEmail, KeyPendingTransactionID)
}

func (fs *FileStore) ClearAll() {
	fs.removeKeys(AllKeys...)
}

func (fs *FileStore) removeKeys(keys ...Key) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	changed := false
	for _, key := range keys {
		if _, ok := fs.values[key]; ok {
			delete(fs.values, key)
			changed = true
		}
	}
	if !changed {
		return
	}
	if err := fs.persist(); err != nil {
		fs.log.Warn().Err(err).Msg("failed to persist credential removal")
	}
}
