package credentials

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
)

// sealer encrypts the credential file at rest with NaCl secretbox. A fresh
// random nonce is prepended to each sealed blob.
type sealer struct {
	key [32]byte
}

func newSealer(key [32]byte) *sealer {
	return &sealer{key: key}
}

// ParseSealKey decodes a hex-encoded 32-byte seal key.
func ParseSealKey(hexKey string) ([32]byte, error) {
	var key [32]byte
	raw, err := hex.DecodeString(hexKey)
	if err != nil {
		return key, errors.Wrap(err, "[ParseSealKey] invalid hex")
	}
	if len(raw) != 32 {
		return key, errors.Errorf("[ParseSealKey] key must be 32 bytes, got %d", len(raw))
	}
	copy(key[:], raw)
	return key, nil
}

func (s *sealer) seal(plaintext []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, errors.Wrap(err, "generate nonce")
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, &s.key), nil
}

func (s *sealer) open(sealed []byte) ([]byte, error) {
	if len(sealed) < 24 {
		return nil, errors.New("sealed blob too short")
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, &s.key)
	if !ok {
		return nil, errors.New("unsealing failed")
	}
	return plaintext, nil
}
