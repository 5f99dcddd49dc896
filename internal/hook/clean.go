package hook

import (
	"context"

	"github.com/gocbuild/cbuild/internal/fsutil"
)

// NewClean returns the optional pre-hook the CLI's clean and rebuild
// commands install: it deletes the build directory recursively. It has no
// Inputs or Output, so NeedsRebuild always reports stale and it always
// runs.
func NewClean(buildDir string) *Hook {
	return &Hook{
		Name: "clean",
		Run: func(ctx context.Context) error {
			return fsutil.RemoveAll(buildDir)
		},
	}
}
