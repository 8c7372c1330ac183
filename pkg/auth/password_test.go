package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordNeverStoresPlaintext(t *testing.T) {
	encoded, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2", encoded)
	assert.NotContains(t, encoded, "hunter2")
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"), "got %q", encoded)
}

func TestVerifyPasswordRoundTrip(t *testing.T) {
	encoded, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	ok, err := VerifyPassword(encoded, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(encoded, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltsAreUnique(t *testing.T) {
	first, err := HashPassword("same password")
	require.NoError(t, err)
	second, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=1,p=4$notbase64!$digest",
		"$bcrypt$whatever",
	} {
		ok, err := VerifyPassword(encoded, "anything")
		assert.False(t, ok, "input %q", encoded)
		assert.ErrorIs(t, err, ErrInvalidHash, "input %q", encoded)
	}
}
