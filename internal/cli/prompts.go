package cli

import (
	"bufio"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// maxSecretInput bounds how much is read from a non-terminal stdin.
const maxSecretInput = 4096

// readSecret reads one secret from in. On a terminal the input is not
// echoed; otherwise the whole stream is read.
func readSecret(in io.Reader, prompt io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term
		out(prompt, "%s: ", label)
		data, err := term.ReadPassword(int(f.Fd())) //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term
		outln(prompt)
		if err != nil {
			return "", syncerr.Wrap(err, "reading %s", label)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(bufio.NewReader(io.LimitReader(in, maxSecretInput)))
	if err != nil {
		return "", syncerr.Wrap(err, "reading %s", label)
	}
	return strings.TrimSpace(string(data)), nil
}
