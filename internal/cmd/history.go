package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <workload>",
	Short: "List past runs of a workload, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().Int("limit", 20, "maximum rows to show; 0 for all")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := openHistoryStore()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	defer store.Close()

	rows, err := store.History(args[0], limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintf(out, "no recorded runs for %q\n", args[0])
		return nil
	}
	for _, r := range rows {
		total := r.Metrics.Select.Count + r.Metrics.Mutation.Count + r.Metrics.Delete.Count
		fmt.Fprintf(out, "#%d  %s  ended=%s  ops=%d  errors=%d  p99_select_us=%.1f  status=%s\n",
			r.ID, r.Workload, r.EndedAt.Format("2006-01-02T15:04:05Z07:00"),
			total, r.Metrics.Errors.Count, r.Metrics.Select.P99Us, r.Status)
	}
	return nil
}
