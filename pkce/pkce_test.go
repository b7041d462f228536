package pkce_test

import (
	"strings"
	"testing"
	"time"

	"github.com/codejam-dev/auth-client/pkce"
	"github.com/stretchr/testify/require"
)

const (
	// Test vector from RFC 7636 appendix B.
	rfcVerifier  = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	rfcChallenge = "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
)

func TestComputeChallengeMatchesRFCVector(t *testing.T) {
	require.Equal(t, rfcChallenge, pkce.ComputeChallenge(rfcVerifier))
}

func TestComputeChallengeIsDeterministic(t *testing.T) {
	verifier, err := pkce.GenerateVerifier()
	require.NoError(t, err)

	first := pkce.ComputeChallenge(verifier)
	require.Equal(t, first, pkce.ComputeChallenge(verifier))
	require.Len(t, first, 43)
	requireURLSafe(t, first)
}

func TestComputeChallengeHandlesLongVerifiers(t *testing.T) {
	// Well past any single-call encoding chunk.
	long := strings.Repeat("a", 64*1024)
	challenge := pkce.ComputeChallenge(long)
	require.Len(t, challenge, 43)
	requireURLSafe(t, challenge)
}

func TestGenerateVerifierShape(t *testing.T) {
	verifier, err := pkce.GenerateVerifier()
	require.NoError(t, err)
	require.Len(t, verifier, 43) // 32 bytes, base64url, no padding
	requireURLSafe(t, verifier)
}

func TestGenerateVerifierNeverRepeats(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		verifier, err := pkce.GenerateVerifier()
		require.NoError(t, err)
		_, dup := seen[verifier]
		require.False(t, dup, "verifier collision after %d draws", i)
		seen[verifier] = struct{}{}
	}
}

func requireURLSafe(t *testing.T, s string) {
	t.Helper()
	require.NotContains(t, s, "+")
	require.NotContains(t, s, "/")
	require.NotContains(t, s, "=")
}

func TestVerifierStoreRoundTrip(t *testing.T) {
	store := pkce.NewVerifierStore(pkce.DefaultVerifierTTL)

	_, ok := store.Get()
	require.False(t, ok)

	require.NoError(t, store.Put(rfcVerifier))
	got, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, rfcVerifier, got)

	store.Clear()
	_, ok = store.Get()
	require.False(t, ok)
}

func TestVerifierStoreOverwrites(t *testing.T) {
	store := pkce.NewVerifierStore(pkce.DefaultVerifierTTL)
	require.NoError(t, store.Put("first"))
	require.NoError(t, store.Put("second"))

	got, ok := store.Get()
	require.True(t, ok)
	require.Equal(t, "second", got)
}

func TestVerifierStoreExpires(t *testing.T) {
	store := pkce.NewVerifierStore(10 * time.Millisecond)
	require.NoError(t, store.Put(rfcVerifier))

	time.Sleep(30 * time.Millisecond)
	_, ok := store.Get()
	require.False(t, ok)
}
