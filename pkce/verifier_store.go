package pkce

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

const (
	verifierKey = "oauth_code_verifier"

	// DefaultVerifierTTL bounds how long an abandoned authorization flow
	// keeps its verifier alive.
	DefaultVerifierTTL = 10 * time.Minute
)

// VerifierStore holds the single in-flight code verifier. Its lifetime is
// strictly narrower than the credential store's: nothing survives process
// exit, and abandoned verifiers expire on their own.
type VerifierStore interface {
	Put(verifier string) error
	Get() (string, bool)
	Clear()
}

var _ VerifierStore = (*TTLVerifierStore)(nil)

// TTLVerifierStore keeps the verifier in a TTL-bounded in-memory cache.
type TTLVerifierStore struct {
	cache *ttlcache.Cache[string, string]
}

// NewVerifierStore builds a store with the given verifier lifetime; ttl <= 0
// uses DefaultVerifierTTL.
func NewVerifierStore(ttl time.Duration) *TTLVerifierStore {
	if ttl <= 0 {
		ttl = DefaultVerifierTTL
	}
	return &TTLVerifierStore{
		cache: ttlcache.New(
			ttlcache.WithTTL[string, string](ttl),
			ttlcache.WithDisableTouchOnHit[string, string](),
		),
	}
}

// Put stores the verifier, replacing any previous one. There is at most one
// authorization flow in flight.
func (s *TTLVerifierStore) Put(verifier string) error {
	s.cache.Set(verifierKey, verifier, ttlcache.DefaultTTL)
	return nil
}

func (s *TTLVerifierStore) Get() (string, bool) {
	item := s.cache.Get(verifierKey)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

func (s *TTLVerifierStore) Clear() {
	s.cache.Delete(verifierKey)
}
