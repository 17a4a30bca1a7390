package aescodec

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// Encoding names how key, IV or ciphertext bytes are written as text.
type Encoding string

const (
	EncodingHex    Encoding = "hex"
	EncodingBase64 Encoding = "base64"
	EncodingText   Encoding = "text"
	EncodingAuto   Encoding = "auto"
)

// Decode turns s into bytes. Auto picks hex for 32 characters, base64 for
// 24 and UTF-8 text otherwise, which matches the lengths of an encoded IV.
func Decode(s string, enc Encoding) ([]byte, error) {
	if enc == EncodingAuto {
		enc = detectEncoding(s)
	}
	switch enc {
	case EncodingHex:
		b, err := hex.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("%w: bad hex: %v", ErrMalformedInput, err)
		}
		return b, nil
	case EncodingBase64:
		return decodeBase64(s)
	case EncodingText, "":
		return []byte(s), nil
	default:
		return nil, fmt.Errorf("%w: unknown encoding %q", ErrInvalidConfig, enc)
	}
}

func Encode(b []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingHex:
		return hex.EncodeToString(b), nil
	case EncodingBase64, "":
		return base64.StdEncoding.EncodeToString(b), nil
	case EncodingText:
		return string(b), nil
	default:
		return "", fmt.Errorf("%w: cannot encode as %q", ErrInvalidConfig, enc)
	}
}

func detectEncoding(s string) Encoding {
	switch len(s) {
	case 32:
		if _, err := hex.DecodeString(s); err == nil {
			return EncodingHex
		}
	case 24:
		if _, err := base64.StdEncoding.DecodeString(s); err == nil {
			return EncodingBase64
		}
	}
	return EncodingText
}
