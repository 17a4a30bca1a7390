package aescodec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	key128 = []byte("0123456789abcdef")
	key256 = []byte("0123456789abcdef0123456789abcdef")
	testIV = []byte("fedcba9876543210")
)

func TestRoundTrip(t *testing.T) {
	plaintexts := [][]byte{
		{},
		[]byte("a"),
		[]byte("exactly16bytes!!"),
		[]byte("a longer message that spans more than two AES blocks"),
	}
	tests := []struct {
		name    string
		key     []byte
		mode    Mode
		padding Padding
	}{
		{"CBC-128 PKCS7", key128, ModeCBC, PaddingPKCS7},
		{"CBC-256 PKCS7", key256, ModeCBC, PaddingPKCS7},
		{"ECB-128 PKCS7", key128, ModeECB, PaddingPKCS7},
		{"ECB-256 PKCS7", key256, ModeECB, PaddingPKCS7},
		{"CTR-128", key128, ModeCTR, PaddingNone},
		{"CTR-256", key256, ModeCTR, PaddingNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, pt := range plaintexts {
				ct, err := Encrypt(pt, tt.key, testIV, tt.mode, tt.padding)
				require.NoError(t, err)
				got, err := Decrypt(ct, tt.key, testIV, tt.mode, tt.padding)
				require.NoError(t, err)
				assert.Equal(t, pt, got)
			}
		})
	}
}

func TestZeroPaddingRoundTrip(t *testing.T) {
	for _, pt := range []string{"x", "hello world", "exactly16bytes!!", "seventeen bytes!!"} {
		ct, err := Encrypt([]byte(pt), key128, testIV, ModeCBC, PaddingZero)
		require.NoError(t, err)
		assert.Zero(t, len(ct)%BlockSize)
		got, err := Decrypt(ct, key128, testIV, ModeCBC, PaddingZero)
		require.NoError(t, err)
		assert.Equal(t, pt, string(got))
	}
}

func TestZeroPaddingDropsTrailingNUL(t *testing.T) {
	ct, err := Encrypt([]byte("abc\x00"), key128, testIV, ModeCBC, PaddingZero)
	require.NoError(t, err)
	got, err := Decrypt(ct, key128, testIV, ModeCBC, PaddingZero)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestZeroPadLength(t *testing.T) {
	assert.Len(t, zeroPad(make([]byte, 16)), 16)
	assert.Len(t, zeroPad(make([]byte, 17)), 32)
	assert.Len(t, zeroPad(nil), 0)
}

func TestCTRIgnoresAlignment(t *testing.T) {
	pt := []byte("seven b")
	ct, err := Encrypt(pt, key128, testIV, ModeCTR, PaddingPKCS7)
	require.NoError(t, err)
	assert.Len(t, ct, len(pt))
}

func TestECBIgnoresIV(t *testing.T) {
	pt := []byte("same input, different ivs")
	a, err := Encrypt(pt, key128, nil, ModeECB, PaddingPKCS7)
	require.NoError(t, err)
	b, err := Encrypt(pt, key128, testIV, ModeECB, PaddingPKCS7)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestECBRepeatsBlocks(t *testing.T) {
	pt := bytes.Repeat([]byte("A"), 32)
	ct, err := Encrypt(pt, key128, nil, ModeECB, PaddingNone)
	require.NoError(t, err)
	assert.Equal(t, ct[:16], ct[16:])
}

func TestDecryptRejectsMisalignedCiphertext(t *testing.T) {
	// The bad key would fail too, so a length error proves the check runs first.
	_, err := Decrypt(make([]byte, 15), []byte("short"), testIV, ModeCBC, PaddingPKCS7)
	assert.ErrorIs(t, err, ErrCiphertextLength)

	_, err = Decrypt(make([]byte, 17), key128, nil, ModeECB, PaddingZero)
	assert.ErrorIs(t, err, ErrCiphertextLength)
}

func TestInputErrors(t *testing.T) {
	_, err := Encrypt([]byte("x"), []byte("short"), testIV, ModeCBC, PaddingPKCS7)
	assert.ErrorIs(t, err, ErrInvalidKeyLength)

	_, err = Encrypt([]byte("x"), key128, nil, ModeCBC, PaddingPKCS7)
	assert.ErrorIs(t, err, ErrMissingIV)

	_, err = Encrypt([]byte("x"), key128, []byte("too short"), ModeCTR, PaddingNone)
	assert.ErrorIs(t, err, ErrInvalidIVLength)

	_, err = Encrypt([]byte("not aligned"), key128, testIV, ModeCBC, PaddingNone)
	assert.ErrorIs(t, err, ErrPlaintextLength)

	_, err = Encrypt([]byte("x"), key128, testIV, Mode("GCM"), PaddingNone)
	assert.ErrorIs(t, err, ErrUnsupportedMode)

	assert.True(t, IsInputError(err))
}

func TestWrongKeyReportsInvalidPadding(t *testing.T) {
	ct, err := Encrypt([]byte("secret message"), key128, testIV, ModeCBC, PaddingPKCS7)
	require.NoError(t, err)

	wrong := []byte("fedcba9876543210")
	_, err = Decrypt(ct, wrong, testIV, ModeCBC, PaddingPKCS7)
	// A wrong key still has a 1/256-ish chance of valid padding.
	if err != nil {
		assert.ErrorIs(t, err, ErrInvalidPadding)
		assert.True(t, IsSuspectOutput(err))
	}
}

func TestPKCS7Unpad(t *testing.T) {
	_, err := pkcs7Unpad(append(make([]byte, 15), 0))
	assert.ErrorIs(t, err, ErrInvalidPadding)

	_, err = pkcs7Unpad(append(make([]byte, 15), 17))
	assert.ErrorIs(t, err, ErrInvalidPadding)

	_, err = pkcs7Unpad(append(bytes.Repeat([]byte{1}, 14), 2, 2))
	assert.NoError(t, err)

	_, err = pkcs7Unpad(append(bytes.Repeat([]byte{1}, 13), 2, 3, 3))
	assert.ErrorIs(t, err, ErrInvalidPadding)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"ok cbc", Config{Mode: ModeCBC, KeyLength: 128, Key: key128, IV: testIV}, nil},
		{"ok ecb without iv", Config{Mode: ModeECB, KeyLength: 256, Key: key256}, nil},
		{"key length mismatch", Config{Mode: ModeCBC, KeyLength: 256, Key: key128, IV: testIV}, ErrInvalidKeyLength},
		{"bad key size", Config{Mode: ModeCBC, KeyLength: 192, Key: key128, IV: testIV}, ErrInvalidConfig},
		{"unknown mode", Config{Mode: "OFB", KeyLength: 128, Key: key128, IV: testIV}, ErrInvalidConfig},
		{"missing iv", Config{Mode: ModeCTR, KeyLength: 128, Key: key128}, ErrMissingIV},
		{"missing key", Config{Mode: ModeECB, KeyLength: 128}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEffectivePadding(t *testing.T) {
	assert.Equal(t, PaddingNone, Config{Mode: ModeCTR, Padding: PaddingPKCS7}.EffectivePadding())
	assert.Equal(t, PaddingPKCS7, Config{Mode: ModeCBC}.EffectivePadding())
	assert.Equal(t, PaddingZero, Config{Mode: ModeECB, Padding: PaddingZero}.EffectivePadding())
}

func TestParseModeAndPadding(t *testing.T) {
	assert.Equal(t, ModeCTR, ParseMode(" ctr "))
	assert.Equal(t, PaddingZero, ParsePadding("ZeroPadding"))
	assert.Equal(t, PaddingPKCS7, ParsePadding("pkcs7"))
	assert.Equal(t, Padding("ISO"), ParsePadding("ISO"))
}
