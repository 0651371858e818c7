// Package walker enumerates the regular files reachable from a root
// directory. It follows symbolic links and records the real path of every
// directory and file it accepts, so symlink cycles terminate and content
// reachable through several links is reported once.
package walker

import "errors"

// ErrEmptyRoot is returned by Validate when no root is set.
var ErrEmptyRoot = errors.New("walker root cannot be empty")

// Options configures a walk.
type Options struct {
	// Root is the directory to enumerate. It is made absolute before use.
	Root string

	// OnFile is called with each emitted path, in discovery order.
	OnFile func(path string)

	// OnSkip is called for entries dropped because they could not be
	// resolved, with the resolution error.
	OnSkip func(path string, err error)
}

// Validate checks that the options can drive a walk.
func (o *Options) Validate() error {
	if o.Root == "" {
		return ErrEmptyRoot
	}
	return nil
}
