package hook

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocbuild/cbuild/internal/logx"
	"github.com/gocbuild/cbuild/internal/process"
	"github.com/gocbuild/cbuild/internal/step"
	"github.com/google/go-cmp/cmp"
)

func TestNeedsRebuildAlwaysStaleWithoutOutput(t *testing.T) {
	h := &Hook{Name: "clean"}
	if !h.NeedsRebuild() {
		t.Error("NeedsRebuild() = false for hook with no output, want true")
	}
}

func TestNeedsRebuildFreshWhenOutputNewer(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in")
	output := filepath.Join(dir, "out")
	if err := os.WriteFile(input, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(input, old, old); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(output, []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := &Hook{Name: "x", Inputs: []string{input}, Output: output}
	if h.NeedsRebuild() {
		t.Error("NeedsRebuild() = true for fresh output, want false")
	}
}

type fakeRunner struct {
	out process.Output
	err error
}

func (f fakeRunner) Run(ctx context.Context, cmd process.Command) (process.Output, error) {
	return f.out, f.err
}

func TestSelfRebuildRunFailsOnNonzeroExit(t *testing.T) {
	log := logx.New(os.Stderr, logx.Fatal+1) // suppress output
	runner := fakeRunner{out: process.Output{ExitCode: 1, Stderr: "boom"}}
	h := NewSelfRebuild("gcc", "build.c", "libcbuild.a", "libcore.a", "cbuild", runner, log, []string{"cbuild"}, nil, nil)
	if err := h.Run(context.Background()); err == nil {
		t.Error("Run() = nil error for nonzero exit code, want error")
	}
}

func TestSelfRebuildRunSucceeds(t *testing.T) {
	log := logx.New(os.Stderr, logx.Fatal+1)
	runner := fakeRunner{out: process.Output{ExitCode: 0}}
	h := NewSelfRebuild("gcc", "build.c", "libcbuild.a", "libcore.a", "cbuild", runner, log, []string{"cbuild"}, nil, nil)
	if err := h.Run(context.Background()); err != nil {
		t.Errorf("Run() returned error: %v", err)
	}
}

func TestCleanAlwaysRuns(t *testing.T) {
	dir := t.TempDir()
	buildDir := filepath.Join(dir, "build")
	if err := os.MkdirAll(filepath.Join(buildDir, "bin"), 0o755); err != nil {
		t.Fatal(err)
	}
	h := NewClean(buildDir)
	if !h.NeedsRebuild() {
		t.Fatal("NeedsRebuild() = false for clean hook, want true")
	}
	if err := h.Run(context.Background()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if _, err := os.Stat(buildDir); !os.IsNotExist(err) {
		t.Errorf("build dir still exists after clean: %v", err)
	}
}

func TestCompileCommandsWritesExpectedEntries(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "bin", "compile_commands.json")

	steps := []*step.Step{
		{Kind: step.Compile, Inputs: []string{"main.c"}, Output: "build/bin/main.c.o", Argv: []string{"gcc", "-c", "main.c", "-o", "build/bin/main.c.o"}},
		{Kind: step.Compile, Inputs: []string{"util.c"}, Output: "build/bin/util.c.o", Argv: []string{"gcc", "-c", "util.c", "-o", "build/bin/util.c.o"}},
	}
	h := NewCompileCommands(steps, output)

	wantInputs := []string{"main.c", "util.c"}
	if diff := cmp.Diff(wantInputs, h.Inputs); diff != "" {
		t.Fatalf("Inputs diff (-want +got):\n%s", diff)
	}

	if err := h.Run(context.Background()); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading %s: %v", output, err)
	}
	var entries []compileCommandEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("json.Unmarshal: %v\ncontent: %s", err, data)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].File != "main.c" || entries[0].Output != "build/bin/main.c.o" {
		t.Errorf("entries[0] = %+v, want file=main.c output=build/bin/main.c.o", entries[0])
	}
	if entries[1].File != "util.c" || entries[1].Output != "build/bin/util.c.o" {
		t.Errorf("entries[1] = %+v, want file=util.c output=build/bin/util.c.o", entries[1])
	}
}
