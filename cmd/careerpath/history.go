package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/amishk599/careerpath/internal/model"
	"github.com/amishk599/careerpath/internal/store"
	"github.com/amishk599/careerpath/internal/tui"
)

var errHistoryDisabled = errors.New("history is disabled (set history.enabled in config)")

var (
	historyOperation string
	historyLimit     int
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past generations",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openHistory()
		if err != nil {
			return err
		}
		defer a.Close()

		if historyOperation != "" && !validOperation(historyOperation) {
			return fmt.Errorf("unknown operation %q", historyOperation)
		}
		records, err := a.history.List(cmd.Context(), store.ListOptions{
			Operation: model.Operation(historyOperation),
			Limit:     historyLimit,
		})
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No generations recorded yet.")
			return nil
		}

		fmt.Printf("%-36s %-12s %-9s %-9s %s\n", "ID", "Operation", "Source", "Took", "Created")
		fmt.Println(strings.Repeat("─", 90))
		for _, r := range records {
			fmt.Printf("%-36s %-12s %-9s %-9s %s\n",
				r.ID, r.Operation, r.Source,
				r.Duration.Round(time.Millisecond), r.CreatedAt.Local().Format(time.DateTime))
		}
		fmt.Printf("\nTotal: %d generations\n", len(records))
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a recorded generation",
	Long:  "Print a recorded generation as JSON. Without an id, pick one interactively.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openHistory()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var rec model.GenerationRecord
		if len(args) == 1 {
			rec, err = a.history.Get(ctx, args[0])
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no generation with id %s", args[0])
			}
			if err != nil {
				return err
			}
		} else {
			if !isatty.IsTerminal(os.Stdin.Fd()) {
				return fmt.Errorf("an id is required when not running in a terminal")
			}
			records, err := a.history.List(ctx, store.ListOptions{Limit: historyLimit})
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No generations recorded yet.")
				return nil
			}
			idx, err := tui.RunHistoryPicker(records)
			if err != nil {
				return fmt.Errorf("picker: %w", err)
			}
			if idx < 0 {
				return nil
			}
			rec = records[idx]
		}

		return printJSON(cmd.OutOrStdout(), recordView{
			ID:         rec.ID,
			Operation:  rec.Operation,
			Source:     rec.Source,
			DurationMS: rec.Duration.Milliseconds(),
			CreatedAt:  rec.CreatedAt,
			Result:     rec.Payload,
		})
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete generations older than the retention window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openHistory()
		if err != nil {
			return err
		}
		defer a.Close()

		olderThan := a.cfg.History.Retention
		if cmd.Flags().Changed("older-than") {
			olderThan = historyOlderThan
		}
		if olderThan <= 0 {
			return fmt.Errorf("--older-than must be positive, got %s", olderThan)
		}
		n, err := a.history.Cleanup(cmd.Context(), olderThan)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %d generations older than %s\n", n, olderThan)
		return nil
	},
}

// recordView is the JSON shape printed by "history show".
type recordView struct {
	ID         string          `json:"id"`
	Operation  model.Operation `json:"operation"`
	Source     model.Source    `json:"source"`
	DurationMS int64           `json:"durationMs"`
	CreatedAt  time.Time       `json:"createdAt"`
	Result     json.RawMessage `json:"result"`
}

func init() {
	historyListCmd.Flags().StringVar(&historyOperation, "operation", "", "only show this operation")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum rows to show")
	historyShowCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "rows offered by the picker")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "age cutoff (default: history.retention)")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory builds the app and fails early when no history is kept.
func openHistory() (*app, error) {
	a, err := newApp(setupLogger(debug))
	if err != nil {
		return nil, err
	}
	if !a.cfg.History.Enabled {
		a.Close()
		return nil, errHistoryDisabled
	}
	return a, nil
}

func validOperation(s string) bool {
	for _, op := range model.Operations {
		if string(op) == s {
			return true
		}
	}
	return false
}
