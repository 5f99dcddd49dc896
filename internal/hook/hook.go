// Package hook implements the named, side-effectful steps that run outside
// the main DAG: self-rebuild, clean, and compile-commands, plus the Hook
// type itself.
package hook

import (
	"context"

	"github.com/gocbuild/cbuild/internal/fsutil"
)

// Hook is a named step with its own freshness check, run outside the main
// DAG. A Hook with an empty Output or empty Inputs is always considered
// stale, since there is nothing to compare a timestamp against.
type Hook struct {
	Name   string
	Inputs []string
	Output string

	Run        func(ctx context.Context) error
	OnComplete func()
}

// NeedsRebuild reports whether the hook should run.
func (h *Hook) NeedsRebuild() bool {
	if h.Output == "" || len(h.Inputs) == 0 {
		return true
	}
	if !fsutil.Exists(h.Output) {
		return true
	}
	for _, in := range h.Inputs {
		if fsutil.IsNewer(in, h.Output) {
			return true
		}
	}
	return false
}
