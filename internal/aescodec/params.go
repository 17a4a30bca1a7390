package aescodec

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const paramsNote = "parameters generated by the ruantools AES tool"

// Params is the JSON document used to hand a password configuration to
// someone else. Salt is base64 and IV is hex, as the panel displays them.
type Params struct {
	Password   string  `json:"password"`
	Salt       string  `json:"salt"`
	IV         string  `json:"iv"`
	KeySize    KeySize `json:"keySize"`
	Mode       string  `json:"mode"`
	Iterations int     `json:"iterations"`
	Timestamp  string  `json:"timestamp"`
	Note       string  `json:"note"`
}

// KeySize is written as a string and read from either a string or a number.
type KeySize int

func (k KeySize) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(k)))
}

func (k *KeySize) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*k = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("keySize %q: %w", s, err)
	}
	*k = KeySize(n)
	return nil
}

func ExportParams(cfg PasswordConfig, now time.Time) ([]byte, error) {
	p := Params{
		Password:   cfg.Password,
		KeySize:    KeySize(cfg.KeyLength),
		Mode:       string(cfg.Mode),
		Iterations: cfg.iterations(),
		Timestamp:  now.UTC().Format(time.RFC3339Nano),
		Note:       paramsNote,
	}
	if len(cfg.Salt) > 0 {
		p.Salt = base64.StdEncoding.EncodeToString(cfg.Salt)
	}
	if len(cfg.IV) > 0 {
		p.IV = hex.EncodeToString(cfg.IV)
	}
	return json.MarshalIndent(p, "", "  ")
}

// ImportParams overlays the non-empty fields of a params document on base.
func ImportParams(data []byte, base PasswordConfig) (PasswordConfig, error) {
	if strings.TrimSpace(string(data)) == "" {
		return base, fmt.Errorf("%w: %w", ErrBadParams, ErrEmptyInput)
	}
	var p Params
	if err := json.Unmarshal(data, &p); err != nil {
		return base, fmt.Errorf("%w: %v", ErrBadParams, err)
	}

	out := base
	if p.Password != "" {
		out.Password = p.Password
	}
	if p.Salt != "" {
		salt, err := Decode(p.Salt, EncodingBase64)
		if err != nil {
			return base, fmt.Errorf("%w: salt: %w", ErrBadParams, err)
		}
		out.Salt = salt
	}
	if p.IV != "" {
		iv, err := Decode(p.IV, EncodingAuto)
		if err != nil {
			return base, fmt.Errorf("%w: iv: %w", ErrBadParams, err)
		}
		out.IV = iv
	}
	if p.KeySize != 0 {
		out.KeyLength = int(p.KeySize)
	}
	if p.Mode != "" {
		out.Mode = Mode(strings.ToUpper(p.Mode))
	}
	if p.Iterations != 0 {
		out.Iterations = p.Iterations
	}
	return out, nil
}
