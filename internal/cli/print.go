package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tableapp/internal/display"
	"github.com/mesh-intelligence/tableapp/internal/tablefile"
)

func newPrintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "print <file>",
		Short: "Print a table file",
		Long:  "Load a table file and print its display values. Formulas are evaluated; failed evaluations print as ERROR.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tablefile.Load(args[0])
			if err != nil {
				return classify(err)
			}
			defer t.Release()
			return classify(display.Render(cmd.OutOrStdout(), t, a.displayOptions()))
		},
	}
}
