package hash

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", h)
	assert.True(t, CheckPassword(h, "Secret123"))
	assert.False(t, CheckPassword(h, "Secret124"))
}

func TestHashPassword_Salted(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, CheckPassword(a, "same-password"))
	assert.True(t, CheckPassword(b, "same-password"))
}

func TestHashPassword_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.Error(t, err)
}

func TestCheckPassword_GarbageHash(t *testing.T) {
	t.Parallel()

	assert.False(t, CheckPassword("not-a-bcrypt-hash", "password"))
	assert.False(t, CheckPassword("", ""))
}
