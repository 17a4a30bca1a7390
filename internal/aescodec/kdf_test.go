package aescodec

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKeyKnownVector(t *testing.T) {
	// RFC 7914 section 11, PBKDF2-HMAC-SHA256 with c=1.
	key, err := DeriveKey([]byte("passwd"), []byte("salt"), 1, 256)
	require.NoError(t, err)
	assert.Equal(t, "55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc", hex.EncodeToString(key))
}

func TestDeriveKeyLengths(t *testing.T) {
	k128, err := DeriveKey([]byte("pw"), []byte("12345678"), DefaultIterations, 128)
	require.NoError(t, err)
	assert.Len(t, k128, 16)

	k256, err := DeriveKey([]byte("pw"), []byte("12345678"), DefaultIterations, 256)
	require.NoError(t, err)
	assert.Len(t, k256, 32)
	assert.Equal(t, k128, k256[:16])
}

func TestDeriveKeyErrors(t *testing.T) {
	_, err := DeriveKey([]byte("pw"), nil, 100, 128)
	assert.ErrorIs(t, err, ErrMissingSalt)

	_, err = DeriveKey([]byte("pw"), []byte("salt"), 0, 128)
	assert.ErrorIs(t, err, ErrInvalidIterations)

	_, err = DeriveKey([]byte("pw"), []byte("salt"), 1, 192)
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestDeriveKeyIVSplitsOneOutput(t *testing.T) {
	salt := []byte("12345678")
	key, iv, err := DeriveKeyIV([]byte("pw"), salt, 10, 128)
	require.NoError(t, err)
	assert.Len(t, key, 16)
	assert.Len(t, iv, 16)

	plain, err := DeriveKey([]byte("pw"), salt, 10, 128)
	require.NoError(t, err)
	assert.Equal(t, plain, key)
}
