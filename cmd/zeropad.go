package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tanq16/ruantools/internal/aescodec"
	"github.com/tanq16/ruantools/internal/output"
)

func newZeroPadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zeropad",
		Short: "AES-128-CBC with zero padding and the built-in fixed key",
		Long: `AES-128-CBC with zero padding, key and IV both set to the fixed built-in value.
Output is base64. Trailing NUL bytes of the plaintext do not survive a round trip.`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "encrypt [TEXT|-]",
		Short: "Encrypt text to base64",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			input, err := readInput(args)
			if err != nil {
				exitCodecError(err)
			}
			if input == "" {
				exitCodecError(aescodec.ErrEmptyInput)
			}
			text, err := aescodec.NewZeroPadCodec().EncryptString(input)
			if err != nil {
				exitCodecError(err)
			}
			output.PrintResult(text)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "decrypt [BASE64|-]",
		Short: "Decrypt base64 ciphertext",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			input, err := readInput(args)
			if err != nil {
				exitCodecError(err)
			}
			text, err := aescodec.NewZeroPadCodec().DecryptString(input)
			if err != nil {
				exitCodecError(err)
			}
			warning := ""
			if aescodec.LooksGarbled([]byte(text)) {
				warning = aescodec.WarnSuspectParameters
			}
			printPlaintext([]byte(text), warning)
		},
	})
	return cmd
}
