package hook

import (
	"context"

	"github.com/gocbuild/cbuild/internal/logx"
	"github.com/gocbuild/cbuild/internal/process"
	"golang.org/x/xerrors"
)

// SelfRebuildTag tags every log line this hook emits.
const SelfRebuildTag = "SELF_REBUILD"

// NewSelfRebuild returns the default pre-hook that recompiles the tool
// from its own configuration source plus the two static libraries it ships
// as, then restarts the process with the freshly built binary.
//
// argv and env are the arguments and environment the restarted process
// should use — ordinarily the current process's own os.Args and
// os.Environ(), so the restart is transparent to the caller.
//
// beforeExec, if non-nil, runs immediately before the process image is
// replaced. A successful rebuild never returns control to the caller of
// Run, so this is the only chance for anything the caller opened (a log
// file, a lock) to flush and close before the bytes backing it vanish
// out from under the running goroutines. A beforeExec failure is logged
// but does not cancel the restart.
func NewSelfRebuild(cCompiler, configFilePath, libcbuildPath, libcorePath, binaryName string, runner process.Runner, log *logx.Logger, argv, env []string, beforeExec func() error) *Hook {
	h := &Hook{
		Name:   "self-rebuild",
		Inputs: []string{configFilePath, libcbuildPath, libcorePath},
		Output: binaryName,
	}
	h.Run = func(ctx context.Context) error {
		compileArgv := []string{cCompiler, "-Iinclude", configFilePath, libcbuildPath, libcorePath, "-o", binaryName}
		log.Tagf(logx.Info, SelfRebuildTag, "Rebuilding cbuild...")
		out, err := runner.Run(ctx, process.Command{Argv: compileArgv})
		if err != nil {
			return xerrors.Errorf("self-rebuild: %w", err)
		}
		if out.Signal != "" || out.ExitCode != 0 {
			log.Tagf(logx.Error, SelfRebuildTag, "%s", out.Stderr)
			return xerrors.Errorf("self-rebuild: compile of %s failed (exit %d)", configFilePath, out.ExitCode)
		}
		return nil
	}
	h.OnComplete = func() {
		if beforeExec != nil {
			if err := beforeExec(); err != nil {
				log.Tagf(logx.Error, SelfRebuildTag, "cleanup before restart: %v", err)
			}
		}
		log.Tagf(logx.Info, SelfRebuildTag, "Restarting with new binary...")
		// Exec only returns on failure; a failed restart leaves the old
		// binary running rather than aborting the build it just finished.
		if err := process.Exec(argv, env); err != nil {
			log.Tagf(logx.Error, SelfRebuildTag, "%v", err)
		}
	}
	return h
}
