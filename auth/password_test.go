package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		algorithm HashAlgorithm
		expPrefix string
	}{
		{name: "ok/bcrypt", algorithm: HashBcrypt, expPrefix: "$2a$04$"},
		{name: "ok/default", algorithm: "", expPrefix: "$2a$04$"},
		{name: "ok/argon2id", algorithm: HashArgon2id, expPrefix: "argon2id$v=19$m=65536,t=3,p=4$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := NewPasswordHasher(tt.algorithm, bcrypt.MinCost)
			require.NoError(t, err)

			hash, err := h.Hash("12345")
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, tt.expPrefix), hash)

			ok, err := h.Compare("12345", hash)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Compare("54321", hash)
			require.NoError(t, err)
			assert.False(t, ok)

			// Salted hashes differ between calls.
			hash2, err := h.Hash("12345")
			require.NoError(t, err)
			assert.NotEqual(t, hash, hash2)
		})
	}
}

func TestPasswordHasherCompareAcrossAlgorithms(t *testing.T) {
	t.Parallel()

	bh, err := NewPasswordHasher(HashBcrypt, bcrypt.MinCost)
	require.NoError(t, err)
	ah, err := NewPasswordHasher(HashArgon2id, 0)
	require.NoError(t, err)

	argonHash, err := ah.Hash("pw")
	require.NoError(t, err)
	ok, err := bh.Compare("pw", argonHash)
	require.NoError(t, err)
	assert.True(t, ok)

	bcryptHash, err := bh.Hash("pw")
	require.NoError(t, err)
	ok, err = ah.Compare("pw", bcryptHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordHasherCompareLegacyHash(t *testing.T) {
	t.Parallel()

	h, err := NewPasswordHasher(HashBcrypt, 0)
	require.NoError(t, err)

	// A $2b$10$ hash created by earlier versions of the service.
	ok, err := h.Compare("12345", "$2b$10$7uqVZ5a5QmeinnPp098Us.09BLm2xUGbB7fC4P8I4lq7n5KWadpRO")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasherErrors(t *testing.T) {
	t.Parallel()

	_, err := NewPasswordHasher("md5", 0)
	assert.EqualError(t, err, "unsupported password hash algorithm 'md5'")

	_, err = NewPasswordHasher(HashBcrypt, 50)
	assert.EqualError(t, err, "bcrypt cost must be between 4 and 31, got 50")

	h, err := NewPasswordHasher(HashBcrypt, bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name   string
		hash   string
		expErr string
	}{
		{
			name:   "err/bcrypt_short",
			hash:   "$2b$",
			expErr: "failed comparing password hash: crypto/bcrypt: hashedSecret too short to be a bcrypted password",
		},
		{
			name:   "err/argon2_parts",
			hash:   "argon2id$v=19$m=1",
			expErr: "invalid argon2id hash format",
		},
		{
			name:   "err/argon2_version",
			hash:   "argon2id$v=16$m=1,t=1,p=1$c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
			expErr: "unsupported argon2 version 'v=16'",
		},
		{
			name:   "err/argon2_param",
			hash:   "argon2id$v=19$m=1,x=1,p=1$c2FsdA$aGFzaGhhc2hoYXNoaGFzaA",
			expErr: "unknown argon2 parameter 'x'",
		},
		{
			name:   "err/argon2_short_hash",
			hash:   "argon2id$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
			expErr: "invalid argon2 hash length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ok, err := h.Compare("pw", tt.hash)
			assert.EqualError(t, err, tt.expErr)
			assert.False(t, ok)
		})
	}
}
