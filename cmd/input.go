package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tanq16/ruantools/internal/aescodec"
	"github.com/tanq16/ruantools/internal/output"
)

// readInput returns the single positional argument, or stdin when it is
// absent or "-".
func readInput(args []string) (string, error) {
	if len(args) > 0 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// exitCodecError prints err in the class it belongs to and exits.
func exitCodecError(err error) {
	switch {
	case aescodec.IsSuspectOutput(err):
		output.PrintWarning(err.Error())
	case aescodec.IsInputError(err):
		output.PrintError("Invalid input: " + err.Error())
	default:
		output.PrintError(err.Error())
	}
	os.Exit(1)
}

func printPlaintext(pt []byte, warning string) {
	if warning != "" {
		output.PrintWarning(warning)
	}
	output.PrintResult(string(pt))
}
