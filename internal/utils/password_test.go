package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	// The hash is never the plaintext.
	assert.NotEqual(t, "password123", hash)
	assert.True(t, CheckPassword(hash, "password123"))
	assert.False(t, CheckPassword(hash, "password124"))
}

func TestCheckPassword_NotAHash(t *testing.T) {
	// Comparing against a stored value that is not a bcrypt hash must
	// fail cleanly, never panic.
	assert.False(t, CheckPassword("plaintext-on-disk", "plaintext-on-disk"))
	assert.False(t, CheckPassword("", "anything"))
}

// TestProperty_HashRoundTrip checks that for any password, hashing then
// verifying with the same plaintext succeeds, and the hash never equals
// the plaintext.
func TestProperty_HashRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// bcrypt truncates beyond 72 bytes, stay under it
		password := rapid.StringN(1, 24, 72).Draw(t, "password")

		hash, err := HashPassword(password)
		if err != nil {
			t.Fatalf("hashing %q: %v", password, err)
		}
		if hash == password {
			t.Fatalf("hash equals plaintext for %q", password)
		}
		if !CheckPassword(hash, password) {
			t.Fatalf("round trip failed for %q", password)
		}
	})
}
