package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nimbusdb/cstress/internal/workload"
)

var infoCmd = &cobra.Command{
	Use:   "info <workload>",
	Short: "Describe a workload's schema, default read rate, and tunable parameters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := workload.Default.Get(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "name: %s\n", w.Name())
		fmt.Fprintf(out, "description: %s\n", w.Description())
		fmt.Fprintf(out, "default read rate: %.2f\n", w.DefaultReadRate())
		fmt.Fprintln(out, "schema:")
		for _, stmt := range w.DDL() {
			fmt.Fprintf(out, "  %s\n", stmt)
		}

		params := w.Parameters()
		fmt.Fprintf(out, "parameters (%d):\n", len(params))
		for _, p := range params {
			fmt.Fprintf(out, "  %s (%s): %s\n", p.Name, p.Kind, p.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
