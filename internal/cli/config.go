package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/walletsync/internal/config"
	syncerr "github.com/mrz1836/walletsync/pkg/errors"
)

// redactedValue replaces secrets in displayed configuration.
const redactedValue = "********"

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Create, view and validate walletsync configuration.`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.walletsync/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.

Example:
  walletsync config init
  walletsync config init --force`,
	RunE: runConfigInit,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective configuration after environment overrides.
The snapshot password is never printed.

Example:
  walletsync config show
  walletsync config show -o json`,
	RunE: runConfigShow,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long: `Check that the effective configuration can drive a session acquire.

Example:
  walletsync config validate`,
	RunE: runConfigValidate,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path(config.ExpandHome(cfg.Home))

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return syncerr.WithSuggestion(
			syncerr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	defaultCfg := config.Defaults()
	defaultCfg.Home = cfg.Home
	defaultCfg.Snapshots.Dir = cfg.SnapshotDir()

	if err := config.Save(defaultCfg, configPath); err != nil {
		return syncerr.Wrap(err, "writing config file")
	}
	logger.Debug("config written to %s", configPath)

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - network.*: indexer, node and proof server endpoints")
	outln(w, "  - snapshots.dir: where session snapshots are stored")
	outln(w, "  - sync.funding_threshold: minimum native balance before a session is usable")
	outln(w, "  - logging.level: Log level (debug/info/warn/error)")

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	shown := *cfg
	if shown.Snapshots.Password != "" {
		shown.Snapshots.Password = redactedValue
	}
	shown.Snapshots.Dir = cfg.SnapshotDir()

	return cmdFormatter(cmd).Result(shown, func(w io.Writer) error {
		data, err := yaml.Marshal(&shown)
		if err != nil {
			return err
		}
		out(w, "# %s\n", config.Path(config.ExpandHome(cfg.Home)))
		_, err = w.Write(data)
		return err
	})
}

func runConfigValidate(cmd *cobra.Command, _ []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return cmdFormatter(cmd).Result(map[string]bool{"valid": true}, func(w io.Writer) error {
		outln(w, "Configuration is valid")
		return nil
	})
}
