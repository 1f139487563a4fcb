package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/walletsync/internal/wallet"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Work with wallet seeds",
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var seedCheckCmd = &cobra.Command{
	Use:   "check [phrase...]",
	Short: "Validate a recovery phrase or hex seed",
	Long: `Validate a 24-word recovery phrase, or a 32-byte hex seed with --hex,
and print the seed fingerprint. The seed itself is never printed.

When no phrase is given on the command line it is read from stdin, without
echo on a terminal. Misspelled words are reported with suggestions.

Example:
  walletsync seed check < phrase.txt
  walletsync seed check --hex`,
	RunE: runSeedCheck,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var seedHex bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.AddCommand(seedCheckCmd)

	seedCheckCmd.Flags().BoolVar(&seedHex, "hex", false, "input is a hex encoded seed instead of a phrase")
}

// seedReport is the check output.
type seedReport struct {
	Valid       bool   `json:"valid"`
	Source      string `json:"source"`
	Fingerprint string `json:"fingerprint"`
}

func runSeedCheck(cmd *cobra.Command, args []string) error {
	label := "Recovery phrase"
	if seedHex {
		label = "Hex seed"
	}

	input := strings.Join(args, " ")
	if input == "" {
		var err error
		if input, err = readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), label); err != nil {
			return err
		}
	}
	if strings.TrimSpace(input) == "" {
		return syncerr.WithSuggestion(syncerr.ErrInvalidInput, "provide the phrase as arguments or on stdin")
	}

	seed, source, err := parseSeed(input)
	if err != nil {
		return err
	}
	defer seed.Destroy()

	report := seedReport{Valid: true, Source: source, Fingerprint: seed.Fingerprint()}
	if !seed.IsLocked() {
		logger.Debug("seed memory could not be locked")
	}

	return cmdFormatter(cmd).Result(report, func(w io.Writer) error {
		out(w, "Valid %s\n", source)
		out(w, "Fingerprint: %s\n", report.Fingerprint)
		return nil
	})
}

func parseSeed(input string) (*wallet.Seed, string, error) {
	if seedHex {
		seed, err := wallet.SeedFromHex(input)
		return seed, "hex seed", err
	}
	seed, err := wallet.SeedFromMnemonic(input)
	return seed, "recovery phrase", err
}
