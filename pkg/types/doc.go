// Package types defines the configuration, option names, and standard
// error values shared by the tableapp packages.
package types
