package aescodec

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%^&*"

const DefaultPasswordLength = 16

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("reading random bytes: %w", err)
	}
	return b, nil
}

func GenerateKey(bits int) ([]byte, error) {
	if bits != 128 && bits != 256 {
		return nil, fmt.Errorf("%w: key size must be 128 or 256 bits, got %d", ErrInvalidKeyLength, bits)
	}
	return randomBytes(bits / 8)
}

func GenerateIV() ([]byte, error) {
	return randomBytes(IVSize)
}

func GenerateSalt() ([]byte, error) {
	return randomBytes(SaltSize)
}

// GeneratePassword draws n characters uniformly from the password alphabet.
func GeneratePassword(n int) (string, error) {
	if n < 1 {
		n = DefaultPasswordLength
	}
	alphabetLen := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("reading random bytes: %w", err)
		}
		out[i] = passwordAlphabet[idx.Int64()]
	}
	return string(out), nil
}
