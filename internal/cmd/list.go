package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nimbusdb/cstress/internal/workload"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every registered workload profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		names := workload.Default.Names()
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d workloads registered\n", len(names))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
