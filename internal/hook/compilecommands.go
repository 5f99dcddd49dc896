package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/gocbuild/cbuild/internal/fsutil"
	"github.com/gocbuild/cbuild/internal/step"
	"github.com/google/renameio"
	"golang.org/x/xerrors"
)

// compileCommandEntry is one element of a compile_commands.json array, the
// format clangd and other clang-tooling consumers expect.
type compileCommandEntry struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
	Output    string `json:"output"`
}

// NewCompileCommands returns the post-hook added automatically for each
// target, regenerating that target's compile_commands.json whenever any of
// its sources changes. steps must be the target's compile steps, in
// declaration order.
func NewCompileCommands(steps []*step.Step, output string) *Hook {
	var inputs []string
	for _, s := range steps {
		inputs = append(inputs, s.Inputs[0])
	}
	h := &Hook{
		Name:   "compile-commands",
		Inputs: inputs,
		Output: output,
	}
	h.Run = func(ctx context.Context) error {
		cwd, err := os.Getwd()
		if err != nil {
			return xerrors.Errorf("compile-commands: %w", err)
		}

		var buf bytes.Buffer
		buf.WriteString("[\n")
		for i, s := range steps {
			entry := compileCommandEntry{
				Directory: cwd,
				Command:   s.Command(),
				File:      s.Inputs[0],
				Output:    s.Output,
			}
			encoded, err := json.Marshal(entry)
			if err != nil {
				return xerrors.Errorf("compile-commands: %w", err)
			}
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.Write(encoded)
		}
		buf.WriteString("\n]\n")

		if err := fsutil.MkdirAll(filepath.Dir(output)); err != nil {
			return xerrors.Errorf("compile-commands: %w", err)
		}
		f, err := renameio.TempFile("", output)
		if err != nil {
			return xerrors.Errorf("compile-commands: %w", err)
		}
		defer f.Cleanup()
		if _, err := f.Write(buf.Bytes()); err != nil {
			return xerrors.Errorf("compile-commands: %w", err)
		}
		return f.CloseAtomicallyReplace()
	}
	return h
}
