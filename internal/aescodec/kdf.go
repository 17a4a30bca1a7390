package aescodec

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// DeriveKey runs PBKDF2-HMAC-SHA256 and returns bits/8 bytes of key.
func DeriveKey(password, salt []byte, iterations, bits int) ([]byte, error) {
	if err := checkKDFInput(salt, iterations, bits); err != nil {
		return nil, err
	}
	return pbkdf2.Key(password, salt, iterations, bits/8, sha256.New), nil
}

// DeriveKeyIV derives key and IV from a single PBKDF2 output, the layout
// `openssl enc -pbkdf2 -md sha256` uses.
func DeriveKeyIV(password, salt []byte, iterations, bits int) (key, iv []byte, err error) {
	if err := checkKDFInput(salt, iterations, bits); err != nil {
		return nil, nil, err
	}
	n := bits / 8
	out := pbkdf2.Key(password, salt, iterations, n+IVSize, sha256.New)
	return out[:n], out[n:], nil
}

func checkKDFInput(salt []byte, iterations, bits int) error {
	if len(salt) == 0 {
		return ErrMissingSalt
	}
	if iterations < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}
	if bits != 128 && bits != 256 {
		return fmt.Errorf("%w: key size must be 128 or 256 bits, got %d", ErrInvalidKeyLength, bits)
	}
	return nil
}
