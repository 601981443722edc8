/*
Package cli carries the shared plumbing of the purgebot command:
result formatters, process exit codes and shutdown signal handling.

Formatters render command results as text, JSON or CSV. Text and JSON
take any value; CSV takes pre-flattened rows:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, listing); err != nil {
		return err
	}

	csv := &cli.CSVFormatter{Headers: []string{"chat_id", "lifetime"}}
	_ = csv.FormatTo(os.Stdout, [][]string{{"-1001", "7d"}})

Errors returned by subcommands carry exit codes, so scripts can tell a
bad configuration (exit 2) from a runtime failure (exit 1):

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}

WaitForShutdown blocks the caller until SIGINT or SIGTERM arrives,
leaving a second signal as a hard exit for stuck shutdowns:

	sig := <-cli.WaitForShutdown()
	logger.Info("shutting down", "signal", sig.String())
*/
package cli
