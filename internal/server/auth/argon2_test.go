package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2Hasher_RoundTrip(t *testing.T) {
	h := NewArgon2Hasher()

	hash, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"), hash)
	assert.True(t, h.Verify("correct horse", hash))
	assert.False(t, h.Verify("wrong horse", hash))

	again, err := h.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again)
}

func TestArgon2Hasher_ForeignParameters(t *testing.T) {
	cheap := &Argon2Hasher{time: 2, memory: 8 * 1024, threads: 1, keyLen: 16, saltLen: 8}
	hash, err := cheap.Hash("pw")
	require.NoError(t, err)

	assert.True(t, NewArgon2Hasher().Verify("pw", hash))
}

func TestArgon2Hasher_Malformed(t *testing.T) {
	h := NewArgon2Hasher()

	for _, hash := range []string{
		"",
		"$2a$10$abcdefghijklmnopqrstuv",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=4$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$!!$a2V5",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",
		"$argon2id$v=19$m=65536,t=1,p=0$c2FsdHNhbHQ$a2V5a2V5a2V5",
		"$argon2id$v=19$m=65536,t=0,p=4$c2FsdHNhbHQ$a2V5a2V5a2V5",
		"$argon2id$v=19$m=16,t=1,p=4$c2FsdHNhbHQ$a2V5a2V5a2V5",
		"$argon2id$v=19$m=4294967295,t=1,p=4$c2FsdHNhbHQ$a2V5a2V5a2V5",
	} {
		assert.False(t, h.Verify("pw", hash), hash)
	}
}
