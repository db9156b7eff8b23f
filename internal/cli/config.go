// Config loading for the tableapp CLI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.alis.build/alog"

	"github.com/mesh-intelligence/tableapp/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyDataDir     = "data_dir"
	cfgKeyPrintStyle  = "print_style"
	cfgKeyColumnWidth = "column_width"
	cfgKeyLogLevel    = "log_level"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# tableapp configuration

# Print style for "print": plain or grid
print_style: plain

# Field width used by the plain print style
column_width: 15

# Log level: debug, info, warning, or error
log_level: info

# Directory holding the snapshot database (optional; overridable by --data-dir)
# data_dir:
`

// logLevels maps config names to alog levels.
var logLevels = map[string]alog.LogLevel{
	types.LogLevelDebug:   alog.LevelDebug,
	types.LogLevelInfo:    alog.LevelInfo,
	types.LogLevelWarning: alog.LevelWarning,
	types.LogLevelError:   alog.LevelError,
}

// loadConfig resolves the config directory, reads config.yaml, applies
// flag overrides, validates the result, and sets the log level.
func (a *app) loadConfig() error {
	configDir, err := a.resolveConfigDir()
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := readConfig(configDir)
	if err != nil {
		return sysError(err)
	}

	cfg := types.Config{
		DataDir:     v.GetString(cfgKeyDataDir),
		PrintStyle:  v.GetString(cfgKeyPrintStyle),
		ColumnWidth: v.GetInt(cfgKeyColumnWidth),
		LogLevel:    v.GetString(cfgKeyLogLevel),
	}
	if a.flags.style != "" {
		cfg.PrintStyle = a.flags.style
	}
	if a.flags.logLevel != "" {
		cfg.LogLevel = a.flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return userError(fmt.Errorf("config: %w", err))
	}

	alog.SetLevel(logLevels[cfg.LogLevel])
	alog.Debugf(context.Background(), "config loaded from %s", configDir)

	a.configDir = configDir
	a.cfg = cfg
	return nil
}

// readConfig reads config.yaml from configDir using Viper. It creates the
// config directory and a default config.yaml on first run. A missing
// config.yaml is not an error.
func readConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyDataDir, "")
	v.SetDefault(cfgKeyPrintStyle, types.DefaultPrintStyle)
	v.SetDefault(cfgKeyColumnWidth, types.DefaultColumnWidth)
	v.SetDefault(cfgKeyLogLevel, types.DefaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
