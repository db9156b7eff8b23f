package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tableapp/internal/sqlite"
	"github.com/mesh-intelligence/tableapp/pkg/types"
)

const sampleTable = "1, 2.5, hello\n=R1C1+R1C2, \"quoted, text\"\n"

// plainRow renders one row of the plain layout at the default width.
func plainRow(values ...string) string {
	var s string
	for _, v := range values {
		s += fmt.Sprintf("%-15s|", v)
	}
	return s + "\n"
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("version")
	assert.Contains(t, res.Stdout, "tableapp v"+Version)
	assert.Contains(t, res.Stdout, modulePath)

	_, err := os.Stat(env.configDir)
	assert.True(t, os.IsNotExist(err), "version must not create the config dir")
}

func TestInit(t *testing.T) {
	env := newTestEnv(t)
	res := env.mustRun("init")
	assert.Contains(t, res.Stdout, "tableapp initialized")

	cfg := env.readFile(filepath.Join(env.configDir, configFileExt))
	assert.Contains(t, cfg, "print_style: plain")
	assert.Contains(t, cfg, "column_width: 15")
	assert.Contains(t, cfg, "data_dir: "+env.dataDir)

	_, err := os.Stat(filepath.Join(env.dataDir, sqlite.DBFileName))
	assert.NoError(t, err, "init must create the snapshot database")

	t.Run("second init keeps existing config", func(t *testing.T) {
		path := filepath.Join(env.configDir, configFileExt)
		require.NoError(t, os.WriteFile(path, []byte("print_style: grid\n"), 0o644))
		env.mustRun("init")
		assert.Equal(t, "print_style: grid\n", env.readFile(path))
	})
}

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeTable("t.csv", "1\n")
	env.mustRun("print", path)

	cfg := env.readFile(filepath.Join(env.configDir, configFileExt))
	assert.Equal(t, defaultConfigYAML, cfg)
}

func TestPrint(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeTable("t.csv", sampleTable)

	t.Run("plain", func(t *testing.T) {
		res := env.mustRun("print", path)
		want := plainRow("1", "2.5", "hello") + plainRow("3.5", "quoted, text", "")
		assert.Equal(t, want, res.Stdout)
	})

	t.Run("grid style flag", func(t *testing.T) {
		res := env.mustRun("--style", "grid", "print", path)
		assert.Contains(t, res.Stdout, "C1")
		assert.NotContains(t, res.Stdout, "C 1")
		assert.Contains(t, res.Stdout, "quoted, text")
		assert.Contains(t, res.Stdout, "3.5")
	})

	t.Run("column width from config", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, os.MkdirAll(env.configDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt), []byte("column_width: 4\n"), 0o644))
		res := env.mustRun("print", path)
		assert.Equal(t, "1   |2.5 |hello|\n3.5 |quoted, text|    |\n", res.Stdout)
	})

	t.Run("missing file is a user error", func(t *testing.T) {
		res := env.run("", "print", filepath.Join(env.tempDir, "missing.csv"))
		assert.Equal(t, exitUserError, res.ExitCode)
		assert.True(t, errors.Is(res.Err, types.ErrFileNotFound))
	})

	t.Run("unknown style is rejected", func(t *testing.T) {
		res := env.run("", "--style", "fancy", "print", path)
		assert.Equal(t, exitUserError, res.ExitCode)
		assert.True(t, errors.Is(res.Err, types.ErrStyleUnknown))
	})

	t.Run("wrong argument count", func(t *testing.T) {
		res := env.run("", "print")
		assert.Equal(t, exitUserError, res.ExitCode)
	})
}

func TestEdit(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFile string
	}{
		{
			name:     "replace integer",
			args:     []string{"1", "1", "42"},
			wantFile: "42, 2.5, hello\n44.5, \"quoted, text\"\n",
		},
		{
			name:     "negative value is not a flag",
			args:     []string{"1", "2", "-5"},
			wantFile: "1, -5, hello\n-4, \"quoted, text\"\n",
		},
		{
			name:     "formula in a new row saves its value",
			args:     []string{"3", "2", "=R1C1*2"},
			wantFile: "1, 2.5, hello\n3.5, \"quoted, text\"\n, 2\n",
		},
		{
			name:     "quoted text",
			args:     []string{"2", "3", `"a b"`},
			wantFile: "1, 2.5, hello\n3.5, \"quoted, text\", a b\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			path := env.writeTable("t.csv", sampleTable)
			res := env.mustRun(append([]string{"edit", path}, tt.args...)...)
			assert.Equal(t, msgCellUpdated+"\n", res.Stdout)
			assert.Equal(t, tt.wantFile, env.readFile(path))
		})
	}
}

func TestEdit_InvalidCoordinates(t *testing.T) {
	for _, coords := range [][2]string{{"0", "1"}, {"1", "0"}, {"x", "1"}, {"1", "-2"}} {
		t.Run(coords[0]+","+coords[1], func(t *testing.T) {
			env := newTestEnv(t)
			path := env.writeTable("t.csv", sampleTable)
			res := env.run("", "edit", path, coords[0], coords[1], "7")
			assert.Equal(t, exitUserError, res.ExitCode)
			assert.True(t, errors.Is(res.Err, types.ErrInvalidCoordinate))
			assert.Equal(t, sampleTable, env.readFile(path), "file must be unchanged")
		})
	}
}

func TestShow(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeTable("t.csv", sampleTable+"=R1C1/0\n")

	t.Run("formula", func(t *testing.T) {
		res := env.mustRun("show", path, "2", "1")
		assert.Equal(t, "cell: R2C1\nkind: formula\nraw: =R1C1+R1C2\ndisplay: 3.5\nvalue: 3.5\nrefs: R1C1, R1C2\n", res.Stdout)
	})

	t.Run("text", func(t *testing.T) {
		res := env.mustRun("show", path, "2", "2")
		assert.Equal(t, "cell: R2C2\nkind: text\nraw: quoted, text\ndisplay: quoted, text\nvalue: 0\n", res.Stdout)
	})

	t.Run("division by zero", func(t *testing.T) {
		res := env.mustRun("show", path, "3", "1")
		assert.Contains(t, res.Stdout, "display: ERROR\n")
		assert.Contains(t, res.Stdout, "value: NaN\n")
	})

	t.Run("outside the table", func(t *testing.T) {
		res := env.mustRun("show", path, "9", "9")
		assert.Contains(t, res.Stdout, "kind: text\n")
		assert.Contains(t, res.Stdout, "display: \n")
	})
}

func TestSnapshotCommands(t *testing.T) {
	env := newTestEnv(t)
	path := env.writeTable("t.csv", sampleTable)

	res := env.mustRun("snapshot", "list")
	assert.Equal(t, "No snapshots.\n", res.Stdout)

	res = env.mustRun("snapshot", "save", "first", path)
	assert.Equal(t, "Snapshot saved: first\n", res.Stdout)

	res = env.mustRun("snapshot", "list")
	assert.Contains(t, res.Stdout, "first\t2 rows\t")

	out := filepath.Join(env.tempDir, "out.csv")
	res = env.mustRun("snapshot", "load", "first", out)
	assert.Contains(t, res.Stdout, "Snapshot loaded: first")
	assert.Equal(t, "1, 2.5, hello\n3.5, \"quoted, text\"\n", env.readFile(out))

	res = env.mustRun("snapshot", "delete", "first")
	assert.Equal(t, "Snapshot deleted: first\n", res.Stdout)

	res = env.run("", "snapshot", "delete", "first")
	assert.Equal(t, exitUserError, res.ExitCode)
	assert.True(t, errors.Is(res.Err, types.ErrSnapshotNotFound))

	t.Run("db flag overrides the data dir", func(t *testing.T) {
		dbDir := filepath.Join(env.tempDir, "other")
		env.mustRun("snapshot", "--db", dbDir, "save", "elsewhere", path)
		_, err := os.Stat(filepath.Join(dbDir, sqlite.DBFileName))
		assert.NoError(t, err)

		res := env.mustRun("snapshot", "list")
		assert.NotContains(t, res.Stdout, "elsewhere")
	})
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"plain error", errors.New("boom"), exitUserError},
		{"user error", userError(errors.New("bad")), exitUserError},
		{"system error", sysError(errors.New("disk")), exitSysError},
		{"wrapped system error", fmt.Errorf("ctx: %w", sysError(errors.New("disk"))), exitSysError},
		{"read failure", classify(fmt.Errorf("%w: x", types.ErrFileRead)), exitSysError},
		{"missing file", classify(fmt.Errorf("%w: x", types.ErrFileNotFound)), exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}
