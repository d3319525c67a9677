package auth

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	for _, pw := range []string{"pw1", "correct horse battery staple", "пароль", ""} {
		hash, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hash)
		assert.True(t, h.Verify(pw, hash), "password %q", pw)
	}
}

func TestBcryptHasher_Mismatch(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw1")
	require.NoError(t, err)
	assert.False(t, h.Verify("pw2", hash))
	assert.False(t, h.Verify("PW1", hash))
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("pw", ""))
	assert.False(t, h.Verify("pw", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("pw", "$2a$10$short"))
}

func TestBcryptHasher_TooLong(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestNewBcryptHasher_CostBounds(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(100).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
