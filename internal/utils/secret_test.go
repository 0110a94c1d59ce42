package utils

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret_Format(t *testing.T) {
	hash, err := HashSecret(uuid.NewString())

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestVerifySecret_Correct(t *testing.T) {
	code := uuid.NewString()
	hash, err := HashSecret(code)
	require.NoError(t, err)

	ok, err := VerifySecret(code, hash)

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifySecret_Incorrect(t *testing.T) {
	hash, err := HashSecret(uuid.NewString())
	require.NoError(t, err)

	ok, err := VerifySecret(uuid.NewString(), hash)

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashSecret_SaltedPerCall(t *testing.T) {
	code := uuid.NewString()

	h1, err := HashSecret(code)
	require.NoError(t, err)
	h2, err := HashSecret(code)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifySecret_InvalidHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want error
	}{
		{"empty", "", ErrInvalidHash},
		{"plain text", "not-a-hash", ErrInvalidHash},
		{"wrong algorithm", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$a2V5", ErrInvalidHash},
		{"wrong version", "$argon2id$v=16$m=19456,t=2,p=1$c2FsdA$a2V5", ErrIncompatibleVersion},
		{"bad params", "$argon2id$v=19$memory$c2FsdA$a2V5", ErrInvalidHash},
		{"bad salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!$a2V5", ErrInvalidHash},
		{"empty key", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$", ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifySecret("anything", tt.hash)

			assert.ErrorIs(t, err, tt.want)
			assert.False(t, ok)
		})
	}
}
