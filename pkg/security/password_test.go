package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLegacyHasherKnownDigests(t *testing.T) {
	h := NewLegacyHasher()

	tests := []struct {
		password string
		digest   string
	}{
		{"admin", "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"},
		{"geheim", "addb0f5e7826c857d7376d1bd9bc33c0c544790a2eac96144a8af22b1298c940"},
	}
	for _, tt := range tests {
		got, err := h.Hash(tt.password)
		require.NoError(t, err)
		assert.Equal(t, tt.digest, got, "digest for %q must stay byte-compatible", tt.password)
		assert.NoError(t, h.Compare(tt.digest, tt.password))
	}
}

func TestLegacyHasherRejectsWrongPassword(t *testing.T) {
	h := NewLegacyHasher()
	digest, err := h.Hash("admin")
	require.NoError(t, err)
	assert.ErrorIs(t, h.Compare(digest, "Admin"), ErrHashMismatch)
}

func TestIsLegacyHash(t *testing.T) {
	legacy, err := NewLegacyHasher().Hash("admin")
	require.NoError(t, err)
	assert.True(t, IsLegacyHash(legacy))

	modern, err := NewBcryptHasher(bcrypt.MinCost).Hash("admin")
	require.NoError(t, err)
	assert.False(t, IsLegacyHash(modern))
}

func TestVerifyAcceptsBothSchemes(t *testing.T) {
	legacy, err := NewLegacyHasher().Hash("admin")
	require.NoError(t, err)
	assert.NoError(t, Verify(legacy, "admin"))
	assert.ErrorIs(t, Verify(legacy, "wrong"), ErrHashMismatch)

	modern, err := NewBcryptHasher(bcrypt.MinCost).Hash("admin")
	require.NoError(t, err)
	assert.NoError(t, Verify(modern, "admin"))
	assert.ErrorIs(t, Verify(modern, "wrong"), ErrHashMismatch)
}

func TestVerifyAndUpgrade(t *testing.T) {
	legacy, err := NewLegacyHasher().Hash("admin")
	require.NoError(t, err)

	rehash, err := VerifyAndUpgrade(legacy, "admin", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, rehash)
	assert.False(t, IsLegacyHash(rehash))
	assert.NoError(t, Verify(rehash, "admin"))

	// A bcrypt digest is already upgraded; nothing to persist.
	rehash2, err := VerifyAndUpgrade(rehash, "admin", bcrypt.MinCost)
	require.NoError(t, err)
	assert.Empty(t, rehash2)

	// A failed verification never yields a rehash.
	_, err = VerifyAndUpgrade(legacy, "wrong", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrHashMismatch)
}
