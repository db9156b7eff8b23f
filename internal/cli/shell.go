// Interactive shell for tableapp.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.alis.build/alog"

	"github.com/mesh-intelligence/tableapp/internal/display"
	"github.com/mesh-intelligence/tableapp/internal/document"
)

// Shell messages.
const (
	msgReady        = "Table CLI ready. Type 'help'."
	msgPrompt       = "> "
	msgOpened       = "Opened: %s\n"
	msgSaved        = "Saved."
	msgSavedAs      = "Saved as: %s\n"
	msgClosed       = "Closed."
	msgCellUpdated  = "Cell updated."
	msgInvalidEdit  = `Invalid input: row col "value"`
	msgInvalidShow  = "Invalid input: row col"
	msgError        = "Error: %s\n"
	msgBye          = "Bye!"
	msgUnknown      = "Unknown command: %s\n"
	msgMissingFile  = "missing file name"
	msgMissingName  = "missing snapshot name"
	msgSnapshotHelp = "usage: snapshot save|load|delete <name> | snapshot list"
)

const shellHelp = `Commands:
  open <file>             load a table file
  save                    save to the open file
  saveas <file>           save to another file and switch to it
  print                   print the table
  close                   discard the table
  edit <row> <col> <val>  set a cell; =expr is a formula, "text" is quoted text
  show <row> <col>        describe a cell
  snapshot save <name>    store the table as a named snapshot
  snapshot load <name>    replace the table with a snapshot
  snapshot list           list snapshots
  snapshot delete <name>  delete a snapshot
  help                    show this help
  exit                    leave the shell
`

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell [file]",
		Short: "Start the interactive shell",
		Long:  "Read commands from standard input, one per line, against a single table. Type 'help' in the shell for the command list.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runShell,
	}
}

func (a *app) runShell(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	s := newSession(a, out)
	defer func() { s.doc.Table().Release() }()

	fmt.Fprintln(out, msgReady)
	if len(args) == 1 {
		s.dispatch("open " + args[0])
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for !s.done {
		fmt.Fprint(out, msgPrompt)
		if !scanner.Scan() {
			break
		}
		s.dispatch(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return sysError(fmt.Errorf("read input: %w", err))
	}
	return nil
}

// session is one shell run: a document and the command tree that edits it.
type session struct {
	app  *app
	doc  *document.Document
	out  io.Writer
	tree *cobra.Command
	done bool
}

func newSession(a *app, out io.Writer) *session {
	s := &session{app: a, doc: document.New(), out: out}

	tree := &cobra.Command{
		Use:           "tableapp",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	tree.CompletionOptions.DisableDefaultCmd = true
	tree.SetOut(out)
	tree.SetErr(out)

	tree.AddCommand(
		s.command("open", s.open),
		s.command("save", s.save),
		s.command("saveas", s.saveAs),
		s.command("print", s.print),
		s.command("close", s.close),
		s.command("edit", s.edit),
		s.command("show", s.show),
		s.command("snapshot", s.snapshot),
		s.command("exit", s.exit),
	)
	tree.SetHelpCommand(s.command("help", s.help))
	tree.InitDefaultHelpCmd()

	s.tree = tree
	return s
}

// command builds a shell command. Flag parsing is off so arguments such as
// -5 reach the handler untouched.
func (s *session) command(name string, run func(args []string) error) *cobra.Command {
	return &cobra.Command{
		Use:                name,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args)
		},
	}
}

// lookup returns the shell command called name, or nil.
func (s *session) lookup(name string) *cobra.Command {
	for _, c := range s.tree.Commands() {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// dispatch runs one input line. The first word names the command and is
// matched case-insensitively; the rest of the line is split per command.
func (s *session) dispatch(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	name, rest, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	rest = strings.TrimSpace(rest)

	if s.lookup(name) == nil {
		fmt.Fprintf(s.out, msgUnknown, name)
		return
	}

	s.tree.SetArgs(append([]string{name}, shellArgs(name, rest)...))
	if err := s.tree.Execute(); err != nil {
		alog.Warnf(context.Background(), "shell %s: %s", name, err)
		fmt.Fprintf(s.out, msgError, err)
	}
}

// shellArgs splits the text after a command name. edit takes the row and
// column as the first two words and keeps the rest of the line verbatim as
// the value; show and snapshot take words; the other
// commands take the whole remainder as one argument, so file names may
// contain spaces.
func shellArgs(name, rest string) []string {
	if rest == "" {
		return nil
	}
	switch name {
	case "edit":
		return editArgs(rest)
	case "show", "snapshot":
		return strings.Fields(rest)
	default:
		return []string{rest}
	}
}

// editArgs splits "<row> <col> <value>". Any run of blanks separates the
// coordinates; the value is the remainder with only its leading blanks
// removed.
func editArgs(rest string) []string {
	var args []string
	for len(args) < 2 {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return args
		}
		word := rest
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			word = rest[:i]
		}
		args = append(args, word)
		rest = rest[len(word):]
	}
	if rest = strings.TrimLeft(rest, " \t"); rest != "" {
		args = append(args, rest)
	}
	return args
}

func (s *session) open(args []string) error {
	if len(args) == 0 {
		return errors.New(msgMissingFile)
	}
	if err := s.doc.Load(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, msgOpened, args[0])
	return nil
}

func (s *session) save(args []string) error {
	if err := s.doc.Save(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, msgSaved)
	return nil
}

func (s *session) saveAs(args []string) error {
	if len(args) == 0 {
		return errors.New(msgMissingFile)
	}
	if err := s.doc.SaveAs(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, msgSavedAs, args[0])
	return nil
}

func (s *session) print(args []string) error {
	return display.Render(s.out, s.doc.Table(), s.app.displayOptions())
}

func (s *session) close(args []string) error {
	s.doc.Close()
	fmt.Fprintln(s.out, msgClosed)
	return nil
}

func (s *session) edit(args []string) error {
	if len(args) < 3 {
		fmt.Fprintln(s.out, msgInvalidEdit)
		return nil
	}
	row, col, err := parseCell(args[0], args[1])
	if err != nil {
		fmt.Fprintln(s.out, msgInvalidEdit)
		return nil
	}
	if err := s.doc.Edit(row, col, args[2]); err != nil {
		fmt.Fprintln(s.out, msgInvalidEdit)
		return nil
	}
	fmt.Fprintln(s.out, msgCellUpdated)
	return nil
}

func (s *session) show(args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(s.out, msgInvalidShow)
		return nil
	}
	row, col, err := parseCell(args[0], args[1])
	if err != nil {
		fmt.Fprintln(s.out, msgInvalidShow)
		return nil
	}
	describeCell(s.out, s.doc.Table(), row, col)
	return nil
}

func (s *session) snapshot(args []string) error {
	if len(args) == 0 {
		return errors.New(msgSnapshotHelp)
	}
	op := strings.ToLower(args[0])
	if op != "list" && len(args) != 2 {
		if len(args) < 2 {
			return errors.New(msgMissingName)
		}
		return errors.New(msgSnapshotHelp)
	}

	store, err := s.app.attachStore("")
	if err != nil {
		return err
	}
	defer store.Detach()

	switch op {
	case "save":
		if _, err := store.Save(args[1], s.doc.Table()); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Snapshot saved: %s\n", args[1])
	case "load":
		t, err := store.Load(args[1])
		if err != nil {
			return err
		}
		s.doc.Replace(t)
		fmt.Fprintf(s.out, "Snapshot loaded: %s\n", args[1])
	case "list":
		snaps, err := store.List()
		if err != nil {
			return err
		}
		writeSnapshots(s.out, snaps)
	case "delete":
		if err := store.Delete(args[1]); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "Snapshot deleted: %s\n", args[1])
	default:
		return errors.New(msgSnapshotHelp)
	}
	return nil
}

func (s *session) help(args []string) error {
	fmt.Fprint(s.out, shellHelp)
	return nil
}

func (s *session) exit(args []string) error {
	fmt.Fprintln(s.out, msgBye)
	s.done = true
	return nil
}
