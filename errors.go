package main

import (
	"errors"
	"io/fs"
)

var (
	// ErrInvalidPattern is fatal: no target is opened after it.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrUnknownType is fatal: a --type name has no language definition.
	ErrUnknownType = errors.New("unknown file type")

	ErrTargetNotFound = errors.New("no such file or directory")
	ErrIsDirectory    = errors.New("is a directory")
	ErrRead           = errors.New("read error")
)

// describeError renders err for a "label: reason" line. The label already
// names the path, so *fs.PathError wrappers are reduced to their cause.
func describeError(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		if errors.Is(err, ErrRead) {
			return ErrRead.Error() + ": " + pathErr.Err.Error()
		}
		return pathErr.Err.Error()
	}
	return err.Error()
}
