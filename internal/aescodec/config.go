package aescodec

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Mode string

const (
	ModeCBC Mode = "CBC"
	ModeECB Mode = "ECB"
	ModeCTR Mode = "CTR"
)

// NeedsIV is false only for ECB.
func (m Mode) NeedsIV() bool {
	return m != ModeECB
}

// IsBlockMode reports whether the mode works on whole 16 byte blocks.
func (m Mode) IsBlockMode() bool {
	return m == ModeCBC || m == ModeECB
}

type Padding string

const (
	PaddingPKCS7 Padding = "PKCS7"
	PaddingZero  Padding = "Zero"
	PaddingNone  Padding = "None"
)

type Derivation string

const (
	DerivationRaw    Derivation = "raw"
	DerivationPBKDF2 Derivation = "pbkdf2"
)

const (
	BlockSize = 16
	IVSize    = 16
	SaltSize  = 8

	DefaultIterations = 100
)

var validate = validator.New()

// Config is a fully resolved cipher configuration: raw key bytes plus the IV.
type Config struct {
	Mode      Mode    `validate:"required,oneof=CBC ECB CTR"`
	KeyLength int     `validate:"oneof=128 256"`
	Padding   Padding `validate:"omitempty,oneof=PKCS7 Zero None"`
	Key       []byte  `validate:"required"`
	IV        []byte
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(c.Key) != c.KeyLength/8 {
		return fmt.Errorf("%w: AES-%d needs %d bytes, got %d", ErrInvalidKeyLength, c.KeyLength, c.KeyLength/8, len(c.Key))
	}
	if c.Mode.NeedsIV() {
		return checkIV(c.IV)
	}
	return nil
}

// EffectivePadding resolves the padding actually applied. CTR is a stream
// mode and never pads; block modes default to PKCS7.
func (c Config) EffectivePadding() Padding {
	if c.Mode == ModeCTR {
		return PaddingNone
	}
	if c.Padding == "" {
		return PaddingPKCS7
	}
	return c.Padding
}

func (c Config) Encrypt(plaintext []byte) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return Encrypt(plaintext, c.Key, c.iv(), c.Mode, c.EffectivePadding())
}

func (c Config) Decrypt(ciphertext []byte) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return Decrypt(ciphertext, c.Key, c.iv(), c.Mode, c.EffectivePadding())
}

func (c Config) iv() []byte {
	if !c.Mode.NeedsIV() {
		return nil
	}
	return c.IV
}

func checkIV(iv []byte) error {
	if len(iv) == 0 {
		return ErrMissingIV
	}
	if len(iv) != IVSize {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidIVLength, len(iv))
	}
	return nil
}

// ParseMode and ParsePadding accept any letter case. Unknown names pass
// through and fail validation later.
func ParseMode(s string) Mode {
	return Mode(strings.ToUpper(strings.TrimSpace(s)))
}

func ParsePadding(s string) Padding {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pkcs7", "pkcs#7":
		return PaddingPKCS7
	case "zero", "zeropadding":
		return PaddingZero
	case "none", "nopadding":
		return PaddingNone
	default:
		return Padding(s)
	}
}
