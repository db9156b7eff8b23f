package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.alis.build/alog"

	"github.com/mesh-intelligence/tableapp/internal/sqlite"
	"github.com/mesh-intelligence/tableapp/internal/tablefile"
)

func newSnapshotCmd(a *app) *cobra.Command {
	var dbDir string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage named table snapshots",
		Long: "Snapshots keep named copies of a table in a SQLite database in the data\n" +
			"directory. Unlike table files, snapshots keep formulas.",
	}
	cmd.PersistentFlags().StringVar(&dbDir, "db", "", "directory holding the snapshot database (overrides the data directory)")

	cmd.AddCommand(&cobra.Command{
		Use:   "save <name> <file>",
		Short: "Store a table file as a snapshot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := tablefile.Load(args[1])
			if err != nil {
				return classify(err)
			}
			defer t.Release()

			store, err := a.attachStore(dbDir)
			if err != nil {
				return sysError(err)
			}
			defer store.Detach()

			id, err := store.Save(args[0], t)
			if err != nil {
				return classify(err)
			}
			alog.Infof(context.Background(), "snapshot %s saved as %s", args[0], id)
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot saved: %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "load <name> <file>",
		Short: "Write a snapshot to a table file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.attachStore(dbDir)
			if err != nil {
				return sysError(err)
			}
			defer store.Detach()

			t, err := store.Load(args[0])
			if err != nil {
				return classify(err)
			}
			defer t.Release()
			if err := tablefile.Save(args[1], t); err != nil {
				return classify(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot loaded: %s -> %s\n", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.attachStore(dbDir)
			if err != nil {
				return sysError(err)
			}
			defer store.Detach()

			snaps, err := store.List()
			if err != nil {
				return classify(err)
			}
			writeSnapshots(cmd.OutOrStdout(), snaps)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.attachStore(dbDir)
			if err != nil {
				return sysError(err)
			}
			defer store.Detach()

			if err := store.Delete(args[0]); err != nil {
				return classify(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot deleted: %s\n", args[0])
			return nil
		},
	})

	return cmd
}

// writeSnapshots prints one line per snapshot: name, row count, creation time.
func writeSnapshots(w io.Writer, snaps []sqlite.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No snapshots.")
		return
	}
	for _, s := range snaps {
		fmt.Fprintf(w, "%s\t%d rows\t%s\n", s.Name, s.Rows, s.CreatedAt.Local().Format(time.DateTime))
	}
}
