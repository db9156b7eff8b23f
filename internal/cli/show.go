package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableapp/internal/tablefile"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file> <row> <col>",
		Short: "Describe one cell of a table file",
		Long:  "Print the kind, raw text, display value, numeric value, and formula references of the cell at the 1-based row and column.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := parseCell(args[1], args[2])
			if err != nil {
				return userError(err)
			}
			t, err := tablefile.Load(args[0])
			if err != nil {
				return classify(err)
			}
			defer t.Release()
			describeCell(cmd.OutOrStdout(), t, row, col)
			return nil
		},
	}
}
