package aescodec

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

var saltedMagic = []byte("Salted__")

// Seal builds the binary OpenSSL envelope: "Salted__" || salt || ciphertext.
func Seal(salt, ciphertext []byte) []byte {
	out := make([]byte, 0, len(saltedMagic)+len(salt)+len(ciphertext))
	out = append(out, saltedMagic...)
	out = append(out, salt...)
	return append(out, ciphertext...)
}

// Open splits a binary envelope. ok is false when data has no envelope
// header, in which case ciphertext is data unchanged.
func Open(data []byte) (salt, ciphertext []byte, ok bool) {
	if len(data) < len(saltedMagic)+SaltSize || !bytes.HasPrefix(data, saltedMagic) {
		return nil, data, false
	}
	rest := data[len(saltedMagic):]
	return rest[:SaltSize], rest[SaltSize:], true
}

// Armor renders the text form: "Salted__" + upper-case hex salt, a newline,
// then the base64 ciphertext.
func Armor(salt, ciphertext []byte) string {
	return string(saltedMagic) + strings.ToUpper(hex.EncodeToString(salt)) + "\n" +
		base64.StdEncoding.EncodeToString(ciphertext)
}

// Dearmor accepts the text form produced by Armor, the base64 of a binary
// envelope, or bare base64 ciphertext. salt is nil for bare ciphertext.
func Dearmor(text string) (salt, ciphertext []byte, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, ErrEmptyInput
	}

	if strings.HasPrefix(text, string(saltedMagic)) {
		header, body, found := strings.Cut(text, "\n")
		if !found {
			return nil, nil, fmt.Errorf("%w: salted header without ciphertext line", ErrMalformedInput)
		}
		saltText := strings.TrimSpace(strings.TrimPrefix(header, string(saltedMagic)))
		salt, err = decodeSaltText(saltText)
		if err != nil {
			return nil, nil, err
		}
		ciphertext, err = decodeBase64(body)
		if err != nil {
			return nil, nil, err
		}
		return salt, ciphertext, nil
	}

	raw, err := decodeBase64(text)
	if err != nil {
		return nil, nil, err
	}
	if s, ct, ok := Open(raw); ok {
		return s, ct, nil
	}
	return nil, raw, nil
}

// decodeSaltText reads the salt from the armor header. Hex is what Armor
// writes; base64 is accepted for text pasted from the parameter display.
// Either way the salt must decode to SaltSize bytes.
func decodeSaltText(s string) ([]byte, error) {
	if s == "" {
		return nil, ErrMissingSalt
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		if b, err = base64.StdEncoding.DecodeString(s); err != nil {
			return nil, fmt.Errorf("%w: salt %q is neither hex nor base64", ErrMalformedInput, s)
		}
	}
	if len(b) != SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d", ErrMalformedInput, SaltSize, len(b))
	}
	return b, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return b, nil
}
