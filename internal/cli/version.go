package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the tableapp release version.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/tableapp"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the tableapp version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tableapp v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
