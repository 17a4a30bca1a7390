package aescodec

import "errors"

// Input validation errors.
var (
	ErrInvalidKeyLength  = errors.New("aescodec: invalid key length")
	ErrInvalidIVLength   = errors.New("aescodec: iv must be exactly 16 bytes")
	ErrMissingIV         = errors.New("aescodec: iv required for CBC and CTR modes")
	ErrCiphertextLength  = errors.New("aescodec: ciphertext length is not a multiple of the block size")
	ErrPlaintextLength   = errors.New("aescodec: plaintext length is not a multiple of the block size")
	ErrMalformedInput    = errors.New("aescodec: malformed input encoding")
	ErrEmptyInput        = errors.New("aescodec: input is empty")
	ErrInvalidConfig     = errors.New("aescodec: invalid configuration")
	ErrInvalidIterations = errors.New("aescodec: iterations must be at least 1")
	ErrUnsupportedMode   = errors.New("aescodec: unsupported mode")
)

// Format errors.
var (
	ErrMissingSalt = errors.New("aescodec: salt required for PBKDF2 key derivation")
	ErrBadParams   = errors.New("aescodec: cannot parse shared parameters")
)

// ErrInvalidPadding means the decrypted block did not end in valid PKCS7
// padding. The cipher is unauthenticated, so this almost always means the
// key, IV or password was wrong rather than that the data is corrupt.
var ErrInvalidPadding = errors.New("aescodec: invalid padding, the key, IV or password may be wrong")

// IsInputError reports whether err is something the user can fix by
// correcting what they typed.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrInvalidKeyLength, ErrInvalidIVLength, ErrMissingIV, ErrCiphertextLength,
		ErrPlaintextLength, ErrMalformedInput, ErrEmptyInput, ErrInvalidConfig,
		ErrInvalidIterations, ErrUnsupportedMode,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsSuspectOutput reports whether err should be shown as a "parameters may be
// wrong" warning instead of a hard failure.
func IsSuspectOutput(err error) bool {
	return errors.Is(err, ErrInvalidPadding)
}
