package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gocbuild/cbuild"
	"github.com/gocbuild/cbuild/internal/logx"
)

// configure registers this binary's targets. Unlike a dynamically loaded
// build configuration, the target graph a cbuild binary builds is fixed
// at compile time: -f/--file only names the companion C source the
// self-rebuild pre-hook compiles with the C compiler into ./cbuild, then
// restarts into; editing that file never changes configure(). Projects
// embedding this package define their own configure and their own main.
func configure(o *cbuild.Orchestrator) error {
	exe := cbuild.NewExecutable("hello")
	exe.AddSources("hello.c")
	if err := o.AddTarget(exe); err != nil {
		return fmt.Errorf("configure: %w", err)
	}
	return nil
}

// newOrchestrator builds an Orchestrator from parsed flags. When -log-file
// is set, it opens the file for append and registers its Close with
// RegisterAtExit, so the handle is flushed and closed whether the run
// finishes normally or the self-rebuild hook restarts the process mid-run.
func newOrchestrator(pa parsedArgs) (*cbuild.Orchestrator, error) {
	o := cbuild.New()
	o.ConfigFilePath = pa.file

	level := logx.Info
	if pa.verbose {
		o.Verbose = true
		level = logx.Debug
	}

	if pa.logFile != "" {
		f, err := os.OpenFile(pa.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening -log-file: %w", err)
		}
		o.Log = logx.New(f, level)
		cbuild.RegisterAtExit(f.Close)
	} else if pa.verbose {
		o.Log = logx.New(os.Stderr, level)
	}

	return o, nil
}

func runBuild(ctx context.Context, pa parsedArgs) error {
	o, err := newOrchestrator(pa)
	if err != nil {
		return err
	}
	if err := configure(o); err != nil {
		return err
	}
	return runPipeline(ctx, o)
}

func runClean(ctx context.Context, pa parsedArgs) error {
	o, err := newOrchestrator(pa)
	if err != nil {
		return err
	}
	o.InstallClean()
	return runPipeline(ctx, o)
}

func runRebuild(ctx context.Context, pa parsedArgs) error {
	o, err := newOrchestrator(pa)
	if err != nil {
		return err
	}
	o.InstallClean()
	if err := configure(o); err != nil {
		return err
	}
	return runPipeline(ctx, o)
}

func runPipeline(ctx context.Context, o *cbuild.Orchestrator) error {
	result := o.Run(ctx)
	if err := cbuild.RunAtExit(); err != nil {
		return fmt.Errorf("at-exit: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("build failed: %d completed, %d failed, %d skipped", result.Completed, result.Failed, result.Skipped)
	}
	return nil
}

const initTemplate = `// build.c: cbuild configuration.
//
// Declare your targets here; cbuild recompiles this file together with
// libcbuild.a and libcore.a and restarts itself whenever it changes.

int main(int argc, char **argv) {
	return 0;
}
`

func runInit(pa parsedArgs) error {
	if _, err := os.Stat(pa.file); err == nil {
		return fmt.Errorf("init: %s already exists", pa.file)
	}
	return os.WriteFile(pa.file, []byte(initTemplate), 0o644)
}
