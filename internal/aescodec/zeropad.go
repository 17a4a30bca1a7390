package aescodec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// ZeroPadKey is the fixed key and IV of the zero padding panel. It is
// published in the client and protects nothing.
const ZeroPadKey = "P.8CGq@Wr~Vs]!4!"

// ZeroPadCodec is AES-128-CBC with zero padding and key = IV = ZeroPadKey.
type ZeroPadCodec struct {
	cfg Config
}

func NewZeroPadCodec() *ZeroPadCodec {
	return &ZeroPadCodec{cfg: Config{
		Mode:      ModeCBC,
		KeyLength: 128,
		Padding:   PaddingZero,
		Key:       []byte(ZeroPadKey),
		IV:        []byte(ZeroPadKey),
	}}
}

func (z *ZeroPadCodec) EncryptString(plaintext string) (string, error) {
	ct, err := z.cfg.Encrypt([]byte(plaintext))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ct), nil
}

// DecryptString rejects input that is not valid base64 or whose decoded
// length is not a whole number of blocks, without running the cipher.
func (z *ZeroPadCodec) DecryptString(encoded string) (string, error) {
	if strings.TrimSpace(encoded) == "" {
		return "", ErrEmptyInput
	}
	ct, err := decodeBase64(encoded)
	if err != nil {
		return "", err
	}
	if len(ct)%BlockSize != 0 {
		return "", fmt.Errorf("%w: got %d bytes", ErrCiphertextLength, len(ct))
	}
	pt, err := z.cfg.Decrypt(ct)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}
