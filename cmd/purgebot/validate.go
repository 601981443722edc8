package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"chatops-hq/purgebot/pkg/cli"
	"chatops-hq/purgebot/pkg/config"
	"chatops-hq/purgebot/pkg/timewindow"
)

var validateFlags struct {
	quiet bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate a configuration file without starting the bot.

The validate command loads the configuration file, applies environment
variable overrides, and runs full validation. It reports every invalid
field rather than stopping at the first problem.

Unlike run --dry-run, this command never caches the configuration, so it
can be pointed at any number of files in sequence.

Examples:
  # Validate the default config file
  purgebot validate

  # Validate a specific file
  purgebot validate --config /etc/purgebot/purgebot.yaml

  # Exit code only, no output
  purgebot validate --quiet`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVarP(&validateFlags.quiet, "quiet", "q", false, "suppress output, report via exit code only")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var validationErr config.ValidationError
		if errors.As(err, &validationErr) {
			if !validateFlags.quiet {
				fmt.Printf("✗ Configuration invalid (%d error(s))\n\n", len(validationErr.Errors))
				for _, fieldErr := range validationErr.Errors {
					fmt.Printf("  %s: %s\n", fieldErr.Field, fieldErr.Message)
				}
			}
			return cli.NewConfigError("", fmt.Sprintf("%d validation error(s) in %s", len(validationErr.Errors), cfgFile))
		}
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if validateFlags.quiet {
		return nil
	}

	fmt.Println("✓ Configuration valid")
	fmt.Println()
	fmt.Printf("Store backend:    %s\n", cfg.Store.Backend)

	if lifetime, err := cfg.Purge.Lifetime(); err == nil {
		fmt.Printf("Default lifetime: %s\n", timewindow.Format(lifetime))
	}

	if cfg.Purge.Sweep.Enabled {
		fmt.Printf("Sweep schedule:   %s\n", cfg.Purge.Sweep.Schedule)
	} else {
		fmt.Println("Sweep schedule:   disabled")
	}

	if cfg.Server.Enabled {
		fmt.Printf("Ops server:       %s\n", cfg.Server.ListenAddress)
	} else {
		fmt.Println("Ops server:       disabled")
	}

	return nil
}
