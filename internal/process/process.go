// Package process runs external commands and reports their outcome with a
// clear split between infrastructure and subject failure: an error return
// means the process could not be run at all (exec failure, I/O failure);
// a non-nil Output with a nonzero ExitCode or a non-empty Signal means the
// process ran to completion but failed or was killed.
package process

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"
	"golang.org/x/xerrors"
)

// Command describes a process to run.
type Command struct {
	Argv []string
	Dir  string
	Env  []string // nil means inherit the current process's environment
}

// Output captures how a process finished.
type Output struct {
	ExitCode int
	Signal   string // empty unless the process was killed by a signal
	Stdout   string
	Stderr   string
}

// Run starts cmd, waits for it to finish, and returns its Output. Stdout
// and stderr are captured concurrently with errgroup.Group so neither pipe
// fills up and blocks the compiler while the other is being drained.
//
// The returned error is non-nil only when the process could not be
// started or its output could not be read — never merely because it
// exited nonzero or was signaled, which is reported through Output
// instead.
func Run(ctx context.Context, cmd Command) (Output, error) {
	if len(cmd.Argv) == 0 {
		return Output{}, xerrors.New("process.Run: empty argv")
	}
	c := exec.CommandContext(ctx, cmd.Argv[0], cmd.Argv[1:]...)
	c.Dir = cmd.Dir
	c.Env = cmd.Env

	stdoutPipe, err := c.StdoutPipe()
	if err != nil {
		return Output{}, xerrors.Errorf("process.Run(%v): %w", cmd.Argv, err)
	}
	stderrPipe, err := c.StderrPipe()
	if err != nil {
		return Output{}, xerrors.Errorf("process.Run(%v): %w", cmd.Argv, err)
	}

	if err := c.Start(); err != nil {
		return Output{}, xerrors.Errorf("process.Run(%v): %w", cmd.Argv, err)
	}

	var stdout, stderr bytes.Buffer
	var eg errgroup.Group
	eg.Go(func() error {
		_, err := io.Copy(&stdout, stdoutPipe)
		return err
	})
	eg.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})

	// Both pipes must be drained before Wait, which closes them.
	copyErr := eg.Wait()
	waitErr := c.Wait()
	if copyErr != nil {
		return Output{}, xerrors.Errorf("process.Run(%v): reading output: %w", cmd.Argv, copyErr)
	}

	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if waitErr == nil {
		return out, nil
	}
	exitErr, ok := waitErr.(*exec.ExitError)
	if !ok {
		return Output{}, xerrors.Errorf("process.Run(%v): %w", cmd.Argv, waitErr)
	}
	if st, ok := exitErr.Sys().(syscall.WaitStatus); ok {
		if ws := unix.WaitStatus(st); ws.Signaled() {
			out.Signal = ws.Signal().String()
			return out, nil
		}
	}
	out.ExitCode = exitErr.ExitCode()
	return out, nil
}

// Runner executes commands. The orchestrator and its steps depend on this
// interface rather than calling Run directly, so tests can substitute a
// fake without spawning real compilers and linkers.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Output, error)
}

type realRunner struct{}

func (realRunner) Run(ctx context.Context, cmd Command) (Output, error) { return Run(ctx, cmd) }

// Real is the Runner backed by actual subprocess execution.
var Real Runner = realRunner{}

// Exec replaces the calling process's image with argv[0], the same
// self-exec primitive the self-rebuild hook uses to restart as the binary
// it just compiled. It only returns on failure — success never returns,
// since the process image is gone.
func Exec(argv []string, env []string) error {
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return xerrors.Errorf("process.Exec(%v): %w", argv, err)
	}
	if err := unix.Exec(path, argv, env); err != nil {
		return xerrors.Errorf("process.Exec(%v): %w", argv, err)
	}
	return nil
}
