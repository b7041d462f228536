// Package pkce implements RFC 7636 proof-key generation for the OAuth2
// authorization-code flow: a random code verifier and its S256 challenge.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

const (
	verifierBytes = 32
	encodeChunk   = 8192
)

// GenerateVerifier produces a fresh code verifier: 256 bits of
// cryptographically secure randomness, base64url-encoded without padding.
func GenerateVerifier() (string, error) {
	buf := make([]byte, verifierBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "[GenerateVerifier] rand.Read")
	}
	return encodeBase64URL(buf), nil
}

// ComputeChallenge derives the S256 code challenge from a verifier: the
// base64url-encoded SHA-256 digest of the verifier's bytes. The result is
// always 43 characters for a 32-byte digest.
func ComputeChallenge(verifier string) string {
	digest := sha256.Sum256([]byte(verifier))
	return encodeBase64URL(digest[:])
}

// encodeBase64URL encodes buf as unpadded base64url, feeding the encoder in
// bounded chunks so inputs of any length encode without building an
// intermediate copy of the whole buffer.
func encodeBase64URL(buf []byte) string {
	var sb strings.Builder
	enc := base64.NewEncoder(base64.RawURLEncoding, &sb)
	for len(buf) > 0 {
		n := min(len(buf), encodeChunk)
		enc.Write(buf[:n])
		buf = buf[n:]
	}
	enc.Close()
	return sb.String()
}
