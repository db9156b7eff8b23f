// Package cli implements the tableapp command-line interface: one-shot
// commands that load, edit, and print table files, the snapshot store
// commands, and the interactive shell.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.alis.build/alog"

	"github.com/mesh-intelligence/tableapp/internal/paths"
	"github.com/mesh-intelligence/tableapp/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// skipConfigAnnotation marks commands that run without loading config.yaml.
const skipConfigAnnotation = "tableapp/skip-config"

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	style     string
	logLevel  string
}

// app is the state shared by one command tree.
type app struct {
	flags     rootFlags
	configDir string
	cfg       types.Config
}

// NewRootCmd creates the top-level "tableapp" command with global flags
// and all subcommands registered. Run without a subcommand it starts the
// interactive shell, opening the file argument if one is given.
func NewRootCmd() *cobra.Command {
	a := &app{cfg: types.DefaultConfig()}

	root := &cobra.Command{
		Use:   "tableapp [file]",
		Short: "Edit and print comma-delimited tables with R<row>C<col> formulas",
		Long: "tableapp loads tables from comma-delimited text files, evaluates\n" +
			"formula cells, and prints or edits them from the command line or an\n" +
			"interactive shell.",
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfigAnnotation] != "" {
				return nil
			}
			return a.loadConfig()
		},
		RunE: a.runShell,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory holding the snapshot database (default: platform data dir)")
	pf.StringVar(&a.flags.style, "style", "", "print style: plain or grid (overrides print_style)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warning, or error (overrides log_level)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newShellCmd(a))
	root.AddCommand(newPrintCmd(a))
	root.AddCommand(newEditCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newSnapshotCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		alog.Errorf(context.Background(), "%s", err)
		os.Exit(ExitCode(err))
	}
}

// resolveConfigDir returns the config directory from flag, env, or default.
func (a *app) resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(a.flags.configDir)
}

// resolveDataDir returns the data directory following the precedence
// --data-dir flag > config.yaml data_dir > TABLEAPP_DATA_DIR env > default.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.cfg.DataDir)
}

// exitError carries the process exit code for an error returned by a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// userError marks err as caused by bad input (exit code 1).
func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

// sysError marks err as an environment or I/O failure (exit code 2).
func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// classify picks the exit code for an error from the lower layers.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, types.ErrFileRead),
		errors.Is(err, types.ErrFileWrite),
		errors.Is(err, types.ErrStoreDetached):
		return sysError(err)
	default:
		return userError(err)
	}
}

// ExitCode maps an error returned by the command tree to a process exit code.
// Errors without an explicit code, such as argument validation failures
// raised by cobra, are user errors.
func ExitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
