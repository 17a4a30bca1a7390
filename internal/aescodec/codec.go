// Package aescodec implements the AES encrypt/decrypt panels: CBC, ECB and
// CTR over 128 or 256 bit keys, PKCS7 or zero padding, PBKDF2-SHA256 key
// derivation and the legacy OpenSSL "Salted__" envelope.
package aescodec

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// Encrypt runs plaintext through AES in the given mode. ECB ignores iv and
// CTR ignores padding.
func Encrypt(plaintext, key, iv []byte, mode Mode, padding Padding) ([]byte, error) {
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	switch mode {
	case ModeCTR:
		if err := checkIV(iv); err != nil {
			return nil, err
		}
		out := make([]byte, len(plaintext))
		cipher.NewCTR(block, iv).XORKeyStream(out, plaintext)
		return out, nil
	case ModeCBC:
		if err := checkIV(iv); err != nil {
			return nil, err
		}
		padded, err := pad(plaintext, padding)
		if err != nil {
			return nil, err
		}
		cipher.NewCBCEncrypter(block, iv).CryptBlocks(padded, padded)
		return padded, nil
	case ModeECB:
		padded, err := pad(plaintext, padding)
		if err != nil {
			return nil, err
		}
		ecbCrypt(block.Encrypt, padded)
		return padded, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}
}

// Decrypt reverses Encrypt. Block mode ciphertext is length checked before
// the key is even expanded. A wrong key usually shows up as
// ErrInvalidPadding with PKCS7 and as garbage with the other paddings.
func Decrypt(ciphertext, key, iv []byte, mode Mode, padding Padding) ([]byte, error) {
	if mode.IsBlockMode() && len(ciphertext)%BlockSize != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrCiphertextLength, len(ciphertext))
	}
	block, err := newBlock(key)
	if err != nil {
		return nil, err
	}
	switch mode {
	case ModeCTR:
		if err := checkIV(iv); err != nil {
			return nil, err
		}
		out := make([]byte, len(ciphertext))
		cipher.NewCTR(block, iv).XORKeyStream(out, ciphertext)
		return out, nil
	case ModeCBC:
		if err := checkIV(iv); err != nil {
			return nil, err
		}
		out := make([]byte, len(ciphertext))
		cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ciphertext)
		return unpad(out, padding)
	case ModeECB:
		out := make([]byte, len(ciphertext))
		copy(out, ciphertext)
		ecbCrypt(block.Decrypt, out)
		return unpad(out, padding)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedMode, mode)
	}
}

func newBlock(key []byte) (cipher.Block, error) {
	switch len(key) {
	case 16, 32:
		return aes.NewCipher(key)
	default:
		return nil, fmt.Errorf("%w: need 16 or 32 bytes, got %d", ErrInvalidKeyLength, len(key))
	}
}

// ecbCrypt transforms buf in place one block at a time.
func ecbCrypt(fn func(dst, src []byte), buf []byte) {
	for i := 0; i < len(buf); i += BlockSize {
		fn(buf[i:i+BlockSize], buf[i:i+BlockSize])
	}
}
