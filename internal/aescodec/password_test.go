package aescodec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pbkdf2Config() PasswordConfig {
	return PasswordConfig{Password: "pw", KeyLength: 128, Mode: ModeCBC}
}

func TestPasswordEncryptOpenSSLEnvelope(t *testing.T) {
	res, err := pbkdf2Config().Encrypt([]byte("hello"))
	require.NoError(t, err)

	assert.True(t, res.SaltGenerated)
	assert.True(t, res.IVGenerated)
	require.Len(t, res.Salt, SaltSize)
	assert.True(t, bytes.HasPrefix(res.Envelope, []byte("Salted__")))
	assert.Equal(t, res.Salt, res.Envelope[8:16])
	assert.True(t, strings.HasPrefix(res.Text, "Salted__"+strings.ToUpper(hexString(res.Salt))+"\n"))
}

func TestPasswordRoundTrip(t *testing.T) {
	for _, mode := range []Mode{ModeCBC, ModeECB, ModeCTR} {
		for _, bits := range []int{128, 256} {
			cfg := PasswordConfig{Password: "correct horse", KeyLength: bits, Mode: mode, Iterations: 1000}
			res, err := cfg.Encrypt([]byte("attack at dawn"))
			require.NoError(t, err)

			cfg.IV = res.IV
			got, err := cfg.Decrypt(res.Text)
			require.NoError(t, err)
			assert.Empty(t, got.Warning)
			assert.Equal(t, "attack at dawn", string(got.Plaintext))

			got, err = cfg.DecryptBytes(res.Envelope)
			require.NoError(t, err)
			assert.Equal(t, "attack at dawn", string(got.Plaintext))
		}
	}
}

func TestPasswordConfiguredSalt(t *testing.T) {
	cfg := pbkdf2Config()
	cfg.Salt = testSalt
	cfg.IV = testIV
	res, err := cfg.Encrypt([]byte("hello"))
	require.NoError(t, err)
	assert.False(t, res.SaltGenerated)
	assert.False(t, res.IVGenerated)
	assert.Equal(t, testSalt, res.Salt)

	// Bare base64 ciphertext falls back to the configured salt.
	_, ct, _ := Open(res.Envelope)
	got, err := cfg.DecryptBytes(ct)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got.Plaintext))
}

func TestPasswordDecryptMissingSalt(t *testing.T) {
	cfg := pbkdf2Config()
	cfg.IV = testIV
	_, err := cfg.DecryptBytes(make([]byte, 16))
	assert.ErrorIs(t, err, ErrMissingSalt)
}

func TestPasswordDecryptMissingIV(t *testing.T) {
	res, err := pbkdf2Config().Encrypt([]byte("hello"))
	require.NoError(t, err)
	_, err = pbkdf2Config().Decrypt(res.Text)
	assert.ErrorIs(t, err, ErrMissingIV)
}

func TestPasswordDeriveIV(t *testing.T) {
	cfg := pbkdf2Config()
	cfg.DeriveIV = true
	res, err := cfg.Encrypt([]byte("hello"))
	require.NoError(t, err)
	assert.False(t, res.IVGenerated)

	got, err := cfg.Decrypt(res.Text)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got.Plaintext))
}

func TestPasswordRawDerivation(t *testing.T) {
	cfg := PasswordConfig{Password: "0123456789abcdef", KeyLength: 128, Mode: ModeECB, Derivation: DerivationRaw}
	res, err := cfg.Encrypt([]byte("hello"))
	require.NoError(t, err)
	assert.Nil(t, res.Salt)
	assert.False(t, strings.HasPrefix(res.Text, "Salted__"))

	got, err := cfg.Decrypt(res.Text)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got.Plaintext))

	cfg.Password = "short"
	_, err = cfg.Encrypt([]byte("hello"))
	assert.ErrorIs(t, err, ErrInvalidKeyLength)
}

func TestPasswordWrongPasswordWarns(t *testing.T) {
	cfg := pbkdf2Config()
	cfg.IV = testIV
	res, err := cfg.Encrypt([]byte("some plaintext that is long enough"))
	require.NoError(t, err)

	cfg.Password = "not the password"
	got, err := cfg.Decrypt(res.Text)
	require.NoError(t, err)
	assert.NotEmpty(t, got.Warning)
	assert.NotEmpty(t, got.Plaintext)
}

func TestPasswordRejectsSaltOfWrongSize(t *testing.T) {
	cfg := pbkdf2Config()
	cfg.IV = testIV
	cfg.Salt = bytes.Repeat([]byte{7}, 16)
	_, err := cfg.Encrypt([]byte("hello world"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = cfg.DecryptBytes(make([]byte, 32))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg.Salt = testSalt
	res, err := cfg.Encrypt([]byte("hello world"))
	require.NoError(t, err)
	got, err := cfg.DecryptBytes(res.Envelope)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got.Plaintext))
}

func TestPasswordConfigValidation(t *testing.T) {
	_, err := PasswordConfig{KeyLength: 128, Mode: ModeCBC}.Encrypt([]byte("x"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = PasswordConfig{Password: "pw", KeyLength: 512, Mode: ModeCBC}.Encrypt([]byte("x"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = PasswordConfig{Password: "pw", KeyLength: 128, Mode: ModeCBC, Iterations: -1}.Encrypt([]byte("x"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func hexString(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, digits[c>>4], digits[c&0x0f])
	}
	return string(out)
}

func TestPasswordBadPaddingKeepsRawBlocks(t *testing.T) {
	key, err := DeriveKey([]byte("pw"), testSalt, DefaultIterations, 128)
	require.NoError(t, err)
	block := append([]byte("fifteen bytes!!"), 0)
	ct, err := Encrypt(block, key, testIV, ModeCBC, PaddingNone)
	require.NoError(t, err)

	cfg := pbkdf2Config()
	cfg.IV = testIV
	got, err := cfg.DecryptBytes(Seal(testSalt, ct))
	require.NoError(t, err)
	assert.Equal(t, ErrInvalidPadding.Error(), got.Warning)
	assert.Equal(t, block, got.Plaintext)
}
