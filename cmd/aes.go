package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tanq16/ruantools/internal/aescodec"
	"github.com/tanq16/ruantools/internal/output"
)

type aesFlags struct {
	mode        string
	keySize     int
	key         string
	keyEncoding string
	iv          string
	ivEncoding  string
	padding     string
	encoding    string
}

func (f *aesFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "CBC", "Cipher mode: CBC, ECB or CTR")
	cmd.Flags().IntVarP(&f.keySize, "key-size", "s", 128, "Key size in bits: 128 or 256")
	cmd.Flags().StringVarP(&f.key, "key", "k", "", "Key, exactly key-size/8 bytes once decoded")
	cmd.Flags().StringVar(&f.keyEncoding, "key-encoding", "text", "Key encoding: hex, base64 or text")
	cmd.Flags().StringVar(&f.iv, "iv", "", "IV, 16 bytes once decoded (ignored for ECB)")
	cmd.Flags().StringVar(&f.ivEncoding, "iv-encoding", "auto", "IV encoding: auto, hex, base64 or text")
	cmd.Flags().StringVar(&f.padding, "padding", "PKCS7", "Padding for CBC/ECB: PKCS7, Zero or None")
	cmd.Flags().StringVarP(&f.encoding, "encoding", "e", "base64", "Ciphertext encoding: base64 or hex")
	cmd.MarkFlagRequired("key")
}

func (f *aesFlags) config() (aescodec.Config, error) {
	key, err := aescodec.Decode(f.key, aescodec.Encoding(f.keyEncoding))
	if err != nil {
		return aescodec.Config{}, err
	}
	cfg := aescodec.Config{
		Mode:      aescodec.ParseMode(f.mode),
		KeyLength: f.keySize,
		Padding:   aescodec.ParsePadding(f.padding),
		Key:       key,
	}
	if f.iv != "" && cfg.Mode.NeedsIV() {
		if cfg.IV, err = aescodec.Decode(f.iv, aescodec.Encoding(f.ivEncoding)); err != nil {
			return aescodec.Config{}, err
		}
	}
	return cfg, nil
}

func newAESCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aes",
		Short: "Encrypt or decrypt with a raw AES key",
	}

	var encFlags aesFlags
	encryptCmd := &cobra.Command{
		Use:   "encrypt [TEXT|-]",
		Short: "Encrypt text with AES",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			input, err := readInput(args)
			if err != nil {
				exitCodecError(err)
			}
			cfg, err := encFlags.config()
			if err != nil {
				exitCodecError(err)
			}
			ct, err := cfg.Encrypt([]byte(input))
			if err != nil {
				exitCodecError(err)
			}
			text, err := aescodec.Encode(ct, aescodec.Encoding(encFlags.encoding))
			if err != nil {
				exitCodecError(err)
			}
			output.PrintResult(text)
		},
	}
	encFlags.register(encryptCmd)

	var decFlags aesFlags
	decryptCmd := &cobra.Command{
		Use:   "decrypt [CIPHERTEXT|-]",
		Short: "Decrypt AES ciphertext",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			input, err := readInput(args)
			if err != nil {
				exitCodecError(err)
			}
			if input == "" {
				exitCodecError(aescodec.ErrEmptyInput)
			}
			cfg, err := decFlags.config()
			if err != nil {
				exitCodecError(err)
			}
			ct, err := aescodec.Decode(input, aescodec.Encoding(decFlags.encoding))
			if err != nil {
				exitCodecError(err)
			}
			pt, err := cfg.Decrypt(ct)
			if err != nil {
				exitCodecError(err)
			}
			warning := ""
			if aescodec.LooksGarbled(pt) {
				warning = aescodec.WarnSuspectParameters
			}
			printPlaintext(pt, warning)
		},
	}
	decFlags.register(decryptCmd)

	cmd.AddCommand(encryptCmd, decryptCmd)
	return cmd
}
