package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chatops-hq/purgebot/pkg/cli"
)

// Flags shared by every subcommand.
var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "purgebot",
	Short: "Purgebot - Telegram auto-purge moderation bot",
	Long: `Purgebot is a Telegram moderation bot that keeps group chats clean by
deleting messages once they outlive a per-group retention window.

A group administrator activates the bot with /start, after which every
message the bot sees is tracked and deleted when it grows older than
the group's lifetime window. Administrators tune the window with
/lifetime and a compact duration such as 30d, 12hr30m or 90s.

For more information, visit: https://github.com/chatops-hq/purgebot`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "purgebot.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// completion.go registers a curated completion command.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
