package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_GenerateSalt(t *testing.T) {
	h := NewBcryptHasher(10)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		salt, err := h.GenerateSalt()
		require.NoError(t, err)
		assert.Regexp(t, "^[0-9a-f]{64}$", salt, "salt should be 64 hex characters")
		assert.False(t, seen[salt], "salts must not repeat")
		seen[salt] = true
	}
}

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(10)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)

	hash, err := h.Hash(salt, "correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NoError(t, h.Compare(hash, salt, "correct horse battery"))
	assert.Error(t, h.Compare(hash, salt, "wrong horse battery"))
}

func TestBcryptHasher_Compare_WrongSalt(t *testing.T) {
	h := NewBcryptHasher(10)
	salt1, err := h.GenerateSalt()
	require.NoError(t, err)
	salt2, err := h.GenerateSalt()
	require.NoError(t, err)

	hash, err := h.Hash(salt1, "password")
	require.NoError(t, err)
	assert.Error(t, h.Compare(hash, salt2, "password"))
}

func TestBcryptHasher_LongPassword(t *testing.T) {
	// The SHA256 pre-hash keeps inputs under bcrypt's 72-byte limit, so
	// arbitrarily long passwords must still round-trip.
	h := NewBcryptHasher(10)
	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	long := strings.Repeat("x", 200)

	hash, err := h.Hash(salt, long)
	require.NoError(t, err)
	assert.NoError(t, h.Compare(hash, salt, long))
}
