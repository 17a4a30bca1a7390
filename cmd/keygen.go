package cmd

import (
	"encoding/base64"
	"encoding/hex"

	"github.com/spf13/cobra"
	"github.com/tanq16/ruantools/internal/aescodec"
	"github.com/tanq16/ruantools/internal/output"
)

func newKeygenCmd() *cobra.Command {
	var bits int
	var length int
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a random key, IV, salt and password",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			key, err := aescodec.GenerateKey(bits)
			if err != nil {
				exitCodecError(err)
			}
			iv, err := aescodec.GenerateIV()
			if err != nil {
				exitCodecError(err)
			}
			salt, err := aescodec.GenerateSalt()
			if err != nil {
				exitCodecError(err)
			}
			password, err := aescodec.GeneratePassword(length)
			if err != nil {
				exitCodecError(err)
			}
			output.PrintKV("key (hex)", hex.EncodeToString(key))
			output.PrintKV("key (base64)", base64.StdEncoding.EncodeToString(key))
			output.PrintKV("iv (hex)", hex.EncodeToString(iv))
			output.PrintKV("salt (base64)", base64.StdEncoding.EncodeToString(salt))
			output.PrintKV("password", password)
		},
	}
	cmd.Flags().IntVarP(&bits, "key-size", "s", 256, "Key size in bits: 128 or 256")
	cmd.Flags().IntVarP(&length, "length", "l", aescodec.DefaultPasswordLength, "Password length")
	return cmd
}
