package types

import "errors"

// Document and file errors.
var (
	ErrNoFileBound  = errors.New("no file bound")
	ErrFileNotFound = errors.New("file not found")
	ErrFileRead     = errors.New("cannot read file")
	ErrFileWrite    = errors.New("cannot write file")
)

// Table errors.
var (
	ErrInvalidCoordinate = errors.New("row and column must be positive")
)

// Snapshot store errors.
var (
	ErrStoreDetached    = errors.New("snapshot store is detached")
	ErrAlreadyAttached  = errors.New("snapshot store is already attached")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrInvalidName      = errors.New("invalid snapshot name")
)
