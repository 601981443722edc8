package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"chatops-hq/purgebot/pkg/bot"
	"chatops-hq/purgebot/pkg/cli"
	"chatops-hq/purgebot/pkg/config"
	"chatops-hq/purgebot/pkg/store"
	"chatops-hq/purgebot/pkg/timewindow"
)

var stateFlags struct {
	backend string
	format  string
	output  string
	chatID  int64
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and manage the group state store",
	Long: `Inspect and manage the persisted group state store offline.

The state command opens the store named by the configuration (or the
--backend flag) without starting the bot. Stop the bot first when the
backend holds file locks (bolt, sqlite).

Subcommands:
  list - List tracked groups and their retention state
  drop - Remove one group's tracked state

Examples:
  # List tracked groups
  purgebot state list

  # Export group state as JSON
  purgebot state list --format json --output groups.json

  # Remove a group that the bot can no longer reach
  purgebot state drop --chat-id -1001234567890`,
}

var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked groups",
	Long: `List every tracked group with its lifetime window, tracked message
count, purge cursor and activation time.

Examples:
  # Plain text listing
  purgebot state list

  # JSON for scripting
  purgebot state list --format json

  # CSV export
  purgebot state list --format csv --output groups.csv`,
	RunE: listState,
}

var stateDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Remove one group's tracked state",
	Long: `Remove the tracked state for a single group.

Dropping a group does not delete any messages; it only forgets the
retention state, as if the group had issued /stop.

Examples:
  purgebot state drop --chat-id -1001234567890`,
	RunE: dropState,
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.AddCommand(stateListCmd, stateDropCmd)

	// Flags for list command
	stateListCmd.Flags().StringVar(&stateFlags.backend, "backend", "", "backend: memory, snapshot, bolt, sqlite (uses config if not specified)")
	stateListCmd.Flags().StringVar(&stateFlags.format, "format", "text", "output format: text, json, csv")
	stateListCmd.Flags().StringVarP(&stateFlags.output, "output", "o", "", "output file (default: stdout)")

	// Flags for drop command
	stateDropCmd.Flags().StringVar(&stateFlags.backend, "backend", "", "backend: memory, snapshot, bolt, sqlite (uses config if not specified)")
	stateDropCmd.Flags().Int64Var(&stateFlags.chatID, "chat-id", 0, "chat id to drop")
}

// openStateStore loads the configuration and opens the store it names.
// The --backend flag overrides the configured backend.
func openStateStore() (store.Store, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if stateFlags.backend != "" {
		cfg.Store.Backend = stateFlags.backend
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, cli.NewCommandError("state", err)
	}
	return st, nil
}

func listState(cmd *cobra.Command, args []string) error {
	st, err := openStateStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	infos, err := loadGroupInfos(ctx, st)
	if err != nil {
		return cli.NewCommandError("state", err)
	}

	// Output results
	var output *os.File
	if stateFlags.output != "" {
		output, err = os.Create(stateFlags.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer output.Close()
	} else {
		output = os.Stdout
	}

	switch stateFlags.format {
	case "json":
		formatter := cli.NewFormatter(cli.FormatJSON)
		listing := map[string]interface{}{
			"count":  len(infos),
			"groups": infos,
		}
		return formatter.FormatTo(output, listing)
	case "csv":
		formatter := &cli.CSVFormatter{
			Headers: []string{"chat_id", "lifetime", "tracked_messages", "latest_deleted_message_id", "activated_at"},
		}
		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, []string{
				strconv.FormatInt(info.ChatID, 10),
				info.Lifetime,
				strconv.Itoa(info.TrackedMessages),
				strconv.Itoa(info.LatestDeletedMessageID),
				info.ActivatedAt.Format(time.RFC3339),
			})
		}
		return formatter.FormatTo(output, rows)
	default:
		return outputStateText(output, infos)
	}
}

func outputStateText(output *os.File, infos []bot.GroupInfo) error {
	fmt.Fprintf(output, "Tracked groups: %d\n", len(infos))
	fmt.Fprintln(output)

	if len(infos) == 0 {
		fmt.Fprintln(output, "No groups tracked.")
		return nil
	}

	for i, info := range infos {
		if i > 0 {
			fmt.Fprintln(output)
		}

		fmt.Fprintf(output, "Chat ID: %d\n", info.ChatID)
		fmt.Fprintf(output, "Lifetime: %s\n", info.Lifetime)
		fmt.Fprintf(output, "Tracked messages: %d\n", info.TrackedMessages)
		if info.LatestDeletedMessageID > 0 {
			fmt.Fprintf(output, "Purge cursor: %d\n", info.LatestDeletedMessageID)
		}
		fmt.Fprintf(output, "Activated: %s\n", info.ActivatedAt.Format(time.RFC3339))
	}

	return nil
}

func dropState(cmd *cobra.Command, args []string) error {
	if stateFlags.chatID == 0 {
		return fmt.Errorf("--chat-id is required")
	}

	st, err := openStateStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()

	state, err := st.Get(ctx, stateFlags.chatID)
	if err != nil {
		return cli.NewCommandError("state", err)
	}
	if state == nil {
		return fmt.Errorf("chat %d is not tracked", stateFlags.chatID)
	}

	if err := st.Delete(ctx, stateFlags.chatID); err != nil {
		return cli.NewCommandError("state", err)
	}
	if err := st.Flush(ctx); err != nil {
		return cli.NewCommandError("state", err)
	}

	fmt.Printf("✓ Dropped state for chat %d (%d tracked messages)\n", stateFlags.chatID, len(state.Messages))
	return nil
}

// loadGroupInfos builds the group listing straight from the store, the
// same rows the running bot serves on /groups.
func loadGroupInfos(ctx context.Context, st store.Store) ([]bot.GroupInfo, error) {
	chatIDs, err := st.ChatIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	infos := make([]bot.GroupInfo, 0, len(chatIDs))
	for _, chatID := range chatIDs {
		state, err := st.Get(ctx, chatID)
		if err != nil {
			return nil, fmt.Errorf("load group %d: %w", chatID, err)
		}
		if state == nil {
			continue
		}
		infos = append(infos, bot.GroupInfo{
			ChatID:                 chatID,
			Lifetime:               timewindow.Format(state.Lifetime),
			TrackedMessages:        len(state.Messages),
			LatestDeletedMessageID: state.LatestDeletedMessageID,
			ActivatedAt:            state.ActivatedAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ChatID < infos[j].ChatID })

	return infos, nil
}
