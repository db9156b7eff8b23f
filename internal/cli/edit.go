package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.alis.build/alog"

	"github.com/mesh-intelligence/tableapp/internal/document"
)

func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <file> <row> <col> <value>",
		Short: "Set one cell of a table file and save it",
		Long: "Load a table file, replace the cell at the 1-based row and column with\n" +
			"a value parsed the same way as file fields, and save the file. Values\n" +
			"starting with = are formulas; quote a value to keep it as text.",
		Example: `  tableapp edit data.csv 2 3 42
  tableapp edit data.csv 1 1 "=R2C1+R2C2"`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, col, err := parseCell(args[1], args[2])
			if err != nil {
				return userError(err)
			}

			doc := document.New()
			if err := doc.Load(args[0]); err != nil {
				return classify(err)
			}
			if err := doc.Edit(row, col, args[3]); err != nil {
				return userError(err)
			}
			if err := doc.Save(); err != nil {
				return classify(err)
			}

			alog.Infof(context.Background(), "edited %s R%dC%d", args[0], row, col)
			fmt.Fprintln(cmd.OutOrStdout(), msgCellUpdated)
			return nil
		},
	}
	// Stop flag parsing at the first positional so values like -5 are kept.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
