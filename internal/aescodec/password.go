package aescodec

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// PasswordConfig drives the OpenSSL style panel, where a password rather
// than raw key bytes is the secret. Salt and IV are optional on encrypt and
// generated when missing.
type PasswordConfig struct {
	Password   string     `validate:"required"`
	Salt       []byte
	IV         []byte
	KeyLength  int        `validate:"oneof=128 256"`
	Mode       Mode       `validate:"required,oneof=CBC ECB CTR"`
	Iterations int        `validate:"gte=0"`
	Derivation Derivation `validate:"omitempty,oneof=raw pbkdf2"`
	// DeriveIV takes the IV from the PBKDF2 output instead of IV.
	DeriveIV bool
}

type PasswordResult struct {
	Text     string
	Envelope []byte
	Salt     []byte
	IV       []byte

	SaltGenerated bool
	IVGenerated   bool
}

type DecryptResult struct {
	Plaintext []byte
	Salt      []byte
	// Warning is set when the output looks like the product of wrong
	// parameters.
	Warning string
}

func (p PasswordConfig) usePBKDF2() bool {
	return p.Derivation != DerivationRaw
}

func (p PasswordConfig) iterations() int {
	if p.Iterations == 0 {
		return DefaultIterations
	}
	return p.Iterations
}

func (p PasswordConfig) check() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if len(p.Salt) > 0 && len(p.Salt) != SaltSize {
		return fmt.Errorf("%w: salt must be %d bytes, got %d", ErrInvalidConfig, SaltSize, len(p.Salt))
	}
	return nil
}

// Encrypt encrypts plaintext. With PBKDF2 the text output is the armored
// envelope; with raw derivation it is plain base64.
func (p PasswordConfig) Encrypt(plaintext []byte) (*PasswordResult, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	res := &PasswordResult{}

	if p.usePBKDF2() {
		res.Salt = p.Salt
		if len(res.Salt) == 0 {
			s, err := GenerateSalt()
			if err != nil {
				return nil, err
			}
			res.Salt, res.SaltGenerated = s, true
		}
	}

	key, iv, err := p.keyAndIV(res.Salt)
	if err != nil {
		return nil, err
	}
	if p.Mode.NeedsIV() && iv == nil {
		iv, err = GenerateIV()
		if err != nil {
			return nil, err
		}
		res.IVGenerated = true
	}
	res.IV = iv

	cfg := Config{Mode: p.Mode, KeyLength: p.KeyLength, Key: key, IV: iv}
	ct, err := cfg.Encrypt(plaintext)
	if err != nil {
		return nil, err
	}

	if p.usePBKDF2() {
		res.Text = Armor(res.Salt, ct)
		res.Envelope = Seal(res.Salt, ct)
	} else {
		res.Text = base64.StdEncoding.EncodeToString(ct)
		res.Envelope = ct
	}
	return res, nil
}

// Decrypt accepts anything Dearmor understands.
func (p PasswordConfig) Decrypt(text string) (*DecryptResult, error) {
	salt, ct, err := Dearmor(text)
	if err != nil {
		return nil, err
	}
	return p.decrypt(salt, ct)
}

// DecryptBytes accepts a binary envelope or bare ciphertext bytes.
func (p PasswordConfig) DecryptBytes(data []byte) (*DecryptResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	salt, ct, _ := Open(data)
	return p.decrypt(salt, ct)
}

func (p PasswordConfig) decrypt(embeddedSalt, ct []byte) (*DecryptResult, error) {
	if err := p.check(); err != nil {
		return nil, err
	}
	salt := embeddedSalt
	if len(salt) == 0 {
		salt = p.Salt
	}
	if p.usePBKDF2() && len(salt) == 0 {
		return nil, ErrMissingSalt
	}

	key, iv, err := p.keyAndIV(salt)
	if err != nil {
		return nil, err
	}
	if p.Mode.NeedsIV() && iv == nil {
		return nil, ErrMissingIV
	}

	cfg := Config{Mode: p.Mode, KeyLength: p.KeyLength, Key: key, IV: iv}
	pt, err := cfg.Decrypt(ct)
	if errors.Is(err, ErrInvalidPadding) {
		// Hand back the unpadded blocks so the user can judge them.
		cfg.Padding = PaddingNone
		raw, rawErr := cfg.Decrypt(ct)
		if rawErr != nil {
			return nil, rawErr
		}
		return &DecryptResult{Plaintext: raw, Salt: salt, Warning: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}
	res := &DecryptResult{Plaintext: pt, Salt: salt}
	if LooksGarbled(pt) {
		res.Warning = WarnSuspectParameters
	}
	return res, nil
}

// keyAndIV resolves the key and, when it can, the IV. iv is nil when the
// mode needs one and none was configured or derived.
func (p PasswordConfig) keyAndIV(salt []byte) (key, iv []byte, err error) {
	if !p.usePBKDF2() {
		key = []byte(p.Password)
		if len(key) != p.KeyLength/8 {
			return nil, nil, fmt.Errorf("%w: raw password must be exactly %d bytes for AES-%d, got %d",
				ErrInvalidKeyLength, p.KeyLength/8, p.KeyLength, len(key))
		}
		return key, p.configuredIV(), nil
	}

	if p.DeriveIV && p.Mode.NeedsIV() {
		return DeriveKeyIV([]byte(p.Password), salt, p.iterations(), p.KeyLength)
	}
	key, err = DeriveKey([]byte(p.Password), salt, p.iterations(), p.KeyLength)
	if err != nil {
		return nil, nil, err
	}
	return key, p.configuredIV(), nil
}

func (p PasswordConfig) configuredIV() []byte {
	if !p.Mode.NeedsIV() || len(p.IV) == 0 {
		return nil
	}
	return p.IV
}
