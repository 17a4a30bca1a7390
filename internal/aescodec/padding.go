package aescodec

import (
	"bytes"
	"fmt"
)

func pkcs7Pad(data []byte) []byte {
	n := BlockSize - len(data)%BlockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, ErrInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > BlockSize {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}

// zeroPad appends (16 - L mod 16) mod 16 zero bytes; aligned input is left as is.
func zeroPad(data []byte) []byte {
	n := (BlockSize - len(data)%BlockSize) % BlockSize
	return append(bytes.Clone(data), make([]byte, n)...)
}

// zeroUnpad strips every trailing 0x00. A plaintext that really ended in
// NUL bytes loses them; the scheme cannot tell padding from data.
func zeroUnpad(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

func pad(data []byte, padding Padding) ([]byte, error) {
	switch padding {
	case PaddingPKCS7, "":
		return pkcs7Pad(data), nil
	case PaddingZero:
		return zeroPad(data), nil
	case PaddingNone:
		if len(data)%BlockSize != 0 {
			return nil, fmt.Errorf("%w: got %d bytes", ErrPlaintextLength, len(data))
		}
		return bytes.Clone(data), nil
	default:
		return nil, fmt.Errorf("%w: unknown padding %q", ErrInvalidConfig, padding)
	}
}

func unpad(data []byte, padding Padding) ([]byte, error) {
	switch padding {
	case PaddingPKCS7, "":
		return pkcs7Unpad(data)
	case PaddingZero:
		return zeroUnpad(data), nil
	case PaddingNone:
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unknown padding %q", ErrInvalidConfig, padding)
	}
}
