package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testEnv provides an isolated environment with its own config and data
// directory. Commands run in-process against a fresh command tree.
type testEnv struct {
	t         *testing.T
	tempDir   string
	configDir string
	dataDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tempDir := t.TempDir()
	return &testEnv{
		t:         t,
		tempDir:   tempDir,
		configDir: filepath.Join(tempDir, "config"),
		dataDir:   filepath.Join(tempDir, "data"),
	}
}

// cmdResult holds the outcome of one command execution.
type cmdResult struct {
	Stdout   string
	Err      error
	ExitCode int
}

// run executes tableapp with args, feeding stdin to the shell.
func (e *testEnv) run(stdin string, args ...string) cmdResult {
	e.t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))

	err := root.Execute()
	return cmdResult{Stdout: out.String(), Err: err, ExitCode: ExitCode(err)}
}

// mustRun executes tableapp and fails the test on a non-zero exit code.
func (e *testEnv) mustRun(args ...string) cmdResult {
	e.t.Helper()
	res := e.run("", args...)
	require.Equalf(e.t, exitSuccess, res.ExitCode, "tableapp %v: %v\n%s", args, res.Err, res.Stdout)
	return res
}

// writeTable writes content to name inside the environment and returns the path.
func (e *testEnv) writeTable(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.tempDir, name)
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// readFile returns the contents of path.
func (e *testEnv) readFile(path string) string {
	e.t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(e.t, err)
	return string(data)
}
