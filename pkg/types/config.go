package types

import (
	"errors"
	"fmt"
)

// Config holds the settings loaded from config.yaml and flags.
type Config struct {
	DataDir     string `json:"data_dir" yaml:"data_dir,omitempty"`
	PrintStyle  string `json:"print_style" yaml:"print_style"`
	ColumnWidth int    `json:"column_width" yaml:"column_width"`
	LogLevel    string `json:"log_level" yaml:"log_level"`
}

// Print styles understood by the display package.
const (
	StylePlain = "plain"
	StyleGrid  = "grid"
)

// Log level names accepted in config.yaml.
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Defaults applied when a key is absent from config.yaml.
const (
	DefaultPrintStyle  = StylePlain
	DefaultColumnWidth = 15
	DefaultLogLevel    = LogLevelInfo
)

// Config validation errors.
var (
	ErrStyleUnknown       = errors.New("unknown print style")
	ErrLogLevelUnknown    = errors.New("unknown log level")
	ErrColumnWidthInvalid = errors.New("column width must be positive")
)

var knownStyles = map[string]bool{
	StylePlain: true,
	StyleGrid:  true,
}

var knownLogLevels = map[string]bool{
	LogLevelDebug:   true,
	LogLevelInfo:    true,
	LogLevelWarning: true,
	LogLevelError:   true,
}

// DefaultConfig returns a Config populated with the default values.
func DefaultConfig() Config {
	return Config{
		PrintStyle:  DefaultPrintStyle,
		ColumnWidth: DefaultColumnWidth,
		LogLevel:    DefaultLogLevel,
	}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure, wrapped with the offending value.
func (c Config) Validate() error {
	if !knownStyles[c.PrintStyle] {
		return fmt.Errorf("%w: %q", ErrStyleUnknown, c.PrintStyle)
	}
	if c.ColumnWidth <= 0 {
		return fmt.Errorf("%w: %d", ErrColumnWidthInvalid, c.ColumnWidth)
	}
	if !knownLogLevels[c.LogLevel] {
		return fmt.Errorf("%w: %q", ErrLogLevelUnknown, c.LogLevel)
	}
	return nil
}
