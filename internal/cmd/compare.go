package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nimbusdb/cstress/internal/history"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare two recorded runs and flag regressions",
	RunE:  runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().Int64("baseline", 0, "baseline run id")
	compareCmd.Flags().Int64("against", 0, "candidate run id")
	compareCmd.Flags().Float64("threshold", history.DefaultRegressionThresholdPct, "regression/improvement threshold, percent")
}

func runCompare(cmd *cobra.Command, args []string) error {
	baselineID, _ := cmd.Flags().GetInt64("baseline")
	againstID, _ := cmd.Flags().GetInt64("against")
	threshold, _ := cmd.Flags().GetFloat64("threshold")

	if baselineID == 0 || againstID == 0 {
		return fmt.Errorf("--baseline and --against are both required")
	}

	store, err := openHistoryStore()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	defer store.Close()

	baseline, found, err := store.Get(baselineID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no run recorded with id %d", baselineID)
	}
	candidate, found, err := store.Get(againstID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no run recorded with id %d", againstID)
	}

	cmp := history.Compare(baseline, candidate, threshold)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "baseline #%d (%s)  vs  candidate #%d (%s)\n",
		baseline.ID, baseline.EndedAt.Format("2006-01-02T15:04:05Z07:00"),
		candidate.ID, candidate.EndedAt.Format("2006-01-02T15:04:05Z07:00"))
	for _, d := range cmp.Deltas {
		fmt.Fprintln(out, d.String())
	}
	return nil
}
