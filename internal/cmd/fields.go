package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nimbusdb/cstress/internal/fieldgen"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List every registered field-value generator function",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := fieldgen.NewRegistry()
		fieldgen.RegisterBuiltins(reg)

		descs := reg.List()
		sort.Slice(descs, func(i, j int) bool { return descs[i].Name < descs[j].Name })
		for _, d := range descs {
			fmt.Fprintln(cmd.OutOrStdout(), d.Name)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d generators registered\n", len(descs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
