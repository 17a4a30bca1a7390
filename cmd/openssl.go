package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanq16/ruantools/internal/aescodec"
	"github.com/tanq16/ruantools/internal/output"
)

type opensslFlags struct {
	password   string
	salt       string
	iv         string
	keySize    int
	mode       string
	iterations int
	raw        bool
	deriveIV   bool
	paramsFile string
}

func (f *opensslFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.password, "password", "P", "", "Password (the key itself with --raw)")
	cmd.Flags().StringVar(&f.salt, "salt", "", "Base64 salt; random 8 bytes when empty on encrypt")
	cmd.Flags().StringVar(&f.iv, "iv", "", "IV as hex, base64 or 16 characters; random when empty on encrypt")
	cmd.Flags().IntVarP(&f.keySize, "key-size", "s", 128, "Key size in bits: 128 or 256")
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "CBC", "Cipher mode: CBC, ECB or CTR")
	cmd.Flags().IntVar(&f.iterations, "iter", 0, "PBKDF2 iterations (defaults to --iterations)")
	cmd.Flags().BoolVar(&f.raw, "raw", false, "Use the password bytes as the key instead of PBKDF2")
	cmd.Flags().BoolVar(&f.deriveIV, "derive-iv", false, "Derive the IV from PBKDF2 like openssl enc -pbkdf2")
	cmd.Flags().StringVar(&f.paramsFile, "params", "", "JSON parameter file to load before applying flags")
}

// config applies the params file first and explicit flags on top of it.
func (f *opensslFlags) config(cmd *cobra.Command) (aescodec.PasswordConfig, error) {
	cfg := aescodec.PasswordConfig{
		KeyLength:  f.keySize,
		Mode:       aescodec.ParseMode(f.mode),
		Iterations: iterations,
		Derivation: aescodec.DerivationPBKDF2,
		DeriveIV:   f.deriveIV,
	}
	if f.paramsFile != "" {
		data, err := os.ReadFile(f.paramsFile)
		if err != nil {
			return cfg, fmt.Errorf("reading params: %w", err)
		}
		if cfg, err = aescodec.ImportParams(data, cfg); err != nil {
			return cfg, err
		}
	}
	changed := cmd.Flags().Changed
	if f.password != "" {
		cfg.Password = f.password
	}
	if changed("key-size") {
		cfg.KeyLength = f.keySize
	}
	if changed("mode") {
		cfg.Mode = aescodec.ParseMode(f.mode)
	}
	if f.iterations != 0 {
		cfg.Iterations = f.iterations
	}
	if f.raw {
		cfg.Derivation = aescodec.DerivationRaw
	}
	if f.salt != "" {
		salt, err := aescodec.Decode(f.salt, aescodec.EncodingBase64)
		if err != nil {
			return cfg, err
		}
		cfg.Salt = salt
	}
	if f.iv != "" {
		iv, err := aescodec.Decode(f.iv, aescodec.EncodingAuto)
		if err != nil {
			return cfg, err
		}
		cfg.IV = iv
	}
	return cfg, nil
}

func newOpenSSLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "openssl",
		Short: "Password based AES compatible with the OpenSSL Salted__ format",
	}

	var encFlags opensslFlags
	var outFile string
	encryptCmd := &cobra.Command{
		Use:   "encrypt [TEXT|-]",
		Short: "Encrypt text with a password",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			input, err := readInput(args)
			if err != nil {
				exitCodecError(err)
			}
			if input == "" {
				exitCodecError(aescodec.ErrEmptyInput)
			}
			cfg, err := encFlags.config(cmd)
			if err != nil {
				exitCodecError(err)
			}
			res, err := cfg.Encrypt([]byte(input))
			if err != nil {
				exitCodecError(err)
			}
			if outFile != "" {
				if err := os.WriteFile(outFile, res.Envelope, 0600); err != nil {
					output.PrintError(fmt.Sprintf("Error writing %s: %v", outFile, err))
					os.Exit(1)
				}
			}
			output.PrintResult(res.Text)
			if res.SaltGenerated {
				output.PrintKV("generated salt", base64.StdEncoding.EncodeToString(res.Salt))
			}
			if res.IVGenerated {
				output.PrintKV("generated iv", hex.EncodeToString(res.IV))
			}
		},
	}
	encFlags.register(encryptCmd)
	encryptCmd.Flags().StringVarP(&outFile, "out", "o", "", "Also write the binary Salted__ envelope to this file")

	var decFlags opensslFlags
	var inFile string
	decryptCmd := &cobra.Command{
		Use:   "decrypt [TEXT|-]",
		Short: "Decrypt Salted__ text, base64 envelopes or a binary envelope file",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := decFlags.config(cmd)
			if err != nil {
				exitCodecError(err)
			}
			var res *aescodec.DecryptResult
			if inFile != "" {
				data, readErr := os.ReadFile(inFile)
				if readErr != nil {
					output.PrintError(fmt.Sprintf("Error reading %s: %v", inFile, readErr))
					os.Exit(1)
				}
				res, err = cfg.DecryptBytes(data)
			} else {
				input, readErr := readInput(args)
				if readErr != nil {
					exitCodecError(readErr)
				}
				res, err = cfg.Decrypt(input)
			}
			if err != nil {
				exitCodecError(err)
			}
			printPlaintext(res.Plaintext, res.Warning)
		},
	}
	decFlags.register(decryptCmd)
	decryptCmd.Flags().StringVarP(&inFile, "in", "i", "", "Read a binary envelope from this file")

	var paramFlags opensslFlags
	var generate bool
	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "Print the parameters as shareable JSON",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := paramFlags.config(cmd)
			if err != nil {
				exitCodecError(err)
			}
			if generate {
				if err := fillMissing(&cfg); err != nil {
					exitCodecError(err)
				}
			}
			data, err := aescodec.ExportParams(cfg, time.Now())
			if err != nil {
				exitCodecError(err)
			}
			output.PrintResult(string(data))
		},
	}
	paramFlags.register(paramsCmd)
	paramsCmd.Flags().BoolVarP(&generate, "generate", "g", false, "Generate any missing password, salt and IV")

	cmd.AddCommand(encryptCmd, decryptCmd, paramsCmd)
	return cmd
}

func fillMissing(cfg *aescodec.PasswordConfig) error {
	var err error
	if cfg.Password == "" {
		if cfg.Password, err = aescodec.GeneratePassword(aescodec.DefaultPasswordLength); err != nil {
			return err
		}
	}
	if len(cfg.Salt) == 0 {
		if cfg.Salt, err = aescodec.GenerateSalt(); err != nil {
			return err
		}
	}
	if len(cfg.IV) == 0 && cfg.Mode.NeedsIV() {
		if cfg.IV, err = aescodec.GenerateIV(); err != nil {
			return err
		}
	}
	return nil
}
