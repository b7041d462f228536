package storefakes

import (
	"sync"

	"github.com/codejam-dev/auth-client/credentials"
)

var _ credentials.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credentials.Store for tests. SetErr, when
// non-nil, is returned from every Set call to simulate storage failure.
type FakeStore struct {
	SetErr error

	values map[credentials.Key]string
	lock   sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{values: make(map[credentials.Key]string)}
}

func (fs *FakeStore) Get(key credentials.Key) (string, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	value, ok := fs.values[key]
	return value, ok
}

func (fs *FakeStore) Set(key credentials.Key, value string) error {
	if fs.SetErr != nil {
		return fs.SetErr
	}
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.values[key] = value
	return nil
}

func (fs *FakeStore) Remove(key credentials.Key) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	delete(fs.values, key)
}

func (fs *FakeStore) ClearSession() {
	fs.Remove(credentials.KeyAuthToken)
	fs.Remove(credentials.KeyUserData)
}

func (fs *FakeStore) ClearPendingVerification() {
	fs.Remove(credentials.KeyTempToken)
	fs.Remove(credentials.KeyPendingEmail)
	fs.Remove(credentials.KeyPendingTransactionID)
}

func (fs *FakeStore) ClearAll() {
	for _, key := range credentials.AllKeys {
		fs.Remove(key)
	}
}
