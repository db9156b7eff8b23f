package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.alis.build/alog"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tableapp/internal/sqlite"
	"github.com/mesh-intelligence/tableapp/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Initialize tableapp configuration and snapshot storage",
		Long:        "Create the configuration directory with a config.yaml, then create the data directory and the snapshot database.",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE:        a.runInit,
	}
}

func (a *app) runInit(cmd *cobra.Command, args []string) error {
	configDir, err := a.resolveConfigDir()
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	if err := ensureConfigDir(configDir); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}

	configPath := filepath.Join(configDir, configFileExt)
	cfg := types.DefaultConfig()
	cfg.DataDir = a.flags.dataDir
	if err := writeConfigIfMissing(configPath, cfg); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	// Pick up an existing config.yaml, including its data_dir.
	a.flags.configDir = configDir
	if err := a.loadConfig(); err != nil {
		return err
	}

	dataDir, err := a.resolveDataDir()
	if err != nil {
		return sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	store := sqlite.NewStore()
	if err := store.Attach(dataDir); err != nil {
		return sysError(fmt.Errorf("initialize storage: %w", err))
	}
	if err := store.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	alog.Infof(context.Background(), "initialized config %s and data %s", configDir, dataDir)
	fmt.Fprintf(cmd.OutOrStdout(), "tableapp initialized\nconfig: %s\ndata: %s\n", configPath, dataDir)
	return nil
}

// writeConfigIfMissing writes cfg as config.yaml if the file does not exist.
// If it already exists, the function returns nil.
func writeConfigIfMissing(path string, cfg types.Config) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
