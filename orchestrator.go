package cbuild

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gocbuild/cbuild/internal/clock"
	"github.com/gocbuild/cbuild/internal/fsutil"
	"github.com/gocbuild/cbuild/internal/graph"
	"github.com/gocbuild/cbuild/internal/hook"
	"github.com/gocbuild/cbuild/internal/logx"
	"github.com/gocbuild/cbuild/internal/process"
	"github.com/gocbuild/cbuild/internal/step"
	"github.com/gocbuild/cbuild/internal/toolchain"
	"golang.org/x/xerrors"
)

// Orchestrator owns the registered targets, the DAG they expand into, the
// hooks that run around it, and everything needed to execute a build:
// toolchain, output index, and the external collaborators (process runner,
// clock, logger) a caller can substitute for testing or for an alternate
// execution environment.
//
// The zero value is not usable; construct one with New.
type Orchestrator struct {
	// BuildDir is the root directory build artifacts are written under.
	// Defaults to "build".
	BuildDir string
	// ConfigFilePath is the user configuration source the self-rebuild
	// hook recompiles. Defaults to "build.c".
	ConfigFilePath string
	Toolchain      toolchain.Toolchain

	StopOnError bool
	Verbose     bool

	// IncludeSelfRebuild controls whether the default self-rebuild
	// pre-hook runs ahead of user-installed pre-hooks. True by default:
	// a cbuild binary normally keeps itself up to date with its own
	// configuration source before building anything else.
	IncludeSelfRebuild bool

	// Argv and Env are what the self-rebuild hook restarts the process
	// with on a successful rebuild. Default to the current process's
	// own os.Args and os.Environ().
	Argv []string
	Env  []string

	Runner process.Runner
	Log    *logx.Logger
	Clock  clock.Clock

	dag      *graph.DAG
	targets  []*Target
	steps    []*step.Step
	nodeOf   map[*step.Step]graph.Node
	stepAt   map[graph.Node]*step.Step
	outIndex map[string]*step.Step

	targetsByName map[string]*Target
	targetOutput  map[string]string

	preHooks  []*hook.Hook
	postHooks []*hook.Hook

	startedAt time.Time
}

// New returns an Orchestrator ready to accept targets: default toolchain,
// build directory "build", self-rebuild pre-hook installed, and
// StopOnError true so a failing step halts the rest of the build.
func New() *Orchestrator {
	o := &Orchestrator{
		BuildDir:           "build",
		ConfigFilePath:     "build.c",
		Toolchain:          toolchain.Default(),
		StopOnError:        true,
		IncludeSelfRebuild: true,
		Argv:               append([]string(nil), os.Args...),
		Env:                os.Environ(),
		Runner:             process.Real,
		Log:                logx.Default(),
		Clock:              clock.System,

		dag:           graph.New(),
		nodeOf:        map[*step.Step]graph.Node{},
		stepAt:        map[graph.Node]*step.Step{},
		outIndex:      map[string]*step.Step{},
		targetsByName: map[string]*Target{},
		targetOutput:  map[string]string{},
	}
	o.startedAt = o.Clock.Now()
	return o
}

// InstallClean appends the "clean" pre-hook, which removes BuildDir before
// anything else runs. The CLI's clean and rebuild commands call this.
func (o *Orchestrator) InstallClean() {
	o.preHooks = append(o.preHooks, hook.NewClean(o.BuildDir))
}

// AddTarget expands t into compile steps plus at most one link or archive
// step, wires the resulting DAG edges, and registers a compile-commands
// post-hook for it. It must be called after every target t links against
// via LinkTarget has itself already been added.
func (o *Orchestrator) AddTarget(t *Target) error {
	if t.Name == "" {
		return xerrors.New("AddTarget: target name must not be empty")
	}
	if t.OutputName == "" {
		return xerrors.New("AddTarget: output_name must not be empty")
	}

	if err := t.expandSourceDirs(fsutil.ListDir); err != nil {
		return xerrors.Errorf("AddTarget(%s): %w", t.Name, err)
	}

	compileSteps, err := o.buildCompileSteps(t)
	if err != nil {
		return xerrors.Errorf("AddTarget(%s): %w", t.Name, err)
	}

	ccOutput := filepath.Join(o.BuildDir, t.ArtifactsDir, "compile_commands.json")
	o.postHooks = append(o.postHooks, hook.NewCompileCommands(compileSteps, ccOutput))

	var outputStep *step.Step
	switch t.Kind {
	case Executable, SharedLibrary:
		outputStep = o.buildLinkStep(t, compileSteps)
	case StaticLibrary:
		outputStep = o.buildArchiveStep(t, compileSteps)
	case ObjectAggregate:
		outputStep = nil
	}

	if outputStep != nil {
		outputNode := o.dag.AddNode()
		o.registerStep(outputNode, outputStep)
		for _, cs := range compileSteps {
			o.dag.AddEdge(outputNode, o.nodeOf[cs])
		}
		for _, lo := range t.LinkObjects {
			if lo.Kind != LinkTargetRef {
				continue
			}
			depOutput, ok := o.targetOutput[lo.Name]
			if !ok {
				// The dependency target was not registered yet (or at
				// all): no edge is added, no error. A target naming a
				// dependency the caller hasn't added yet is free to
				// link against a path supplied some other way.
				continue
			}
			depStep, ok := o.outIndex[depOutput]
			if !ok {
				continue
			}
			o.dag.AddEdge(outputNode, o.nodeOf[depStep])
		}
		o.targetOutput[t.Name] = outputStep.Output
	}

	o.targetsByName[t.Name] = t
	o.targets = append(o.targets, t)
	return nil
}

func (o *Orchestrator) buildCompileSteps(t *Target) ([]*step.Step, error) {
	var steps []*step.Step
	for _, src := range t.Sources {
		lang := src.resolvedLanguage()
		stepLang := lang.stepLanguage()

		outputPath := filepath.Clean(filepath.Join(o.BuildDir, t.ArtifactsDir, src.Path+".o"))
		depPath := filepath.Clean(filepath.Join(o.BuildDir, t.ArtifactsDir, src.Path+".d"))

		languageFlags := t.CFlags
		if stepLang == step.LangCXX {
			languageFlags = t.CXXFlags
		}

		cs, err := step.NewCompile(step.CompileSpec{
			Compiler:          o.Toolchain.CompilerFor(lang.toolchainKey()),
			PreprocessorFlags: t.CPPFlags,
			LanguageFlags:     languageFlags,
			OptimizeFlag:      t.Optimize.flag(),
			IncludeFlags:      t.includeFlags(),
			DefineFlags:       t.defineFlags(),
			ExtraFlags:        src.ExtraFlags,
			Shared:            t.Kind == SharedLibrary,
			EmitDeps:          t.EmitDeps,
			Input:             src.Path,
			Output:            outputPath,
			DepPath:           depPath,
			Language:          stepLang,
		})
		if err != nil {
			return nil, err
		}
		node := o.dag.AddNode()
		o.registerStep(node, cs)
		steps = append(steps, cs)
	}
	return steps, nil
}

func (o *Orchestrator) buildArchiveStep(t *Target, compileSteps []*step.Step) *step.Step {
	output := filepath.Join(o.BuildDir, t.BinDir, "lib"+t.OutputName+".a")
	return step.NewArchive(step.ArchiveSpec{
		Archiver: o.Toolchain.Archiver,
		Inputs:   stepOutputs(compileSteps),
		Output:   output,
	})
}

func (o *Orchestrator) buildLinkStep(t *Target, compileSteps []*step.Step) *step.Step {
	linkLang := step.LangC
	for _, cs := range compileSteps {
		if cs.Language == step.LangCXX {
			linkLang = step.LangCXX
			break
		}
	}
	linkerKey := "c"
	if linkLang == step.LangCXX {
		linkerKey = "cxx"
	}

	var output string
	if t.Kind == SharedLibrary {
		output = filepath.Join(o.BuildDir, t.BinDir, "lib"+t.OutputName+".so")
	} else {
		output = filepath.Join(o.BuildDir, t.BinDir, t.OutputName)
	}

	return step.NewLink(step.LinkSpec{
		Linker:        o.Toolchain.LinkerFor(linkerKey),
		Shared:        t.Kind == SharedLibrary,
		Inputs:        stepOutputs(compileSteps),
		Output:        output,
		LibPaths:      t.LibPaths,
		LinkArgs:      o.resolveLinkArgs(t, map[string]bool{}),
		PIE:           t.PIE,
		LTO:           t.LTO,
		Strip:         t.Strip,
		UserLinkFlags: t.LinkFlags,
		Language:      linkLang,
	})
}

// resolveLinkArgs renders t's link objects in declaration order. A
// target-reference emits the referenced target's own artifact path, then
// recursively its own target-reference dependencies' paths, so linking
// against a static library pulls in that library's own link requirements
// transitively. visited guards against a target-reference cycle
// re-entering the same target.
func (o *Orchestrator) resolveLinkArgs(t *Target, visited map[string]bool) []string {
	var args []string
	for _, lo := range t.LinkObjects {
		switch lo.Kind {
		case LinkSystemLib:
			args = append(args, "-l"+lo.Name)
		case LinkFramework:
			args = append(args, "-framework", lo.Name)
		case LinkStaticPath, LinkSharedPath, LinkObjectFile:
			args = append(args, lo.Path)
		case LinkTargetRef:
			if visited[lo.Name] {
				continue
			}
			visited[lo.Name] = true
			depOutput, ok := o.targetOutput[lo.Name]
			if !ok {
				continue
			}
			args = append(args, depOutput)
			if dep, ok := o.targetsByName[lo.Name]; ok {
				args = append(args, o.resolveLinkArgs(dep, visited)...)
			}
		}
	}
	return args
}

func (o *Orchestrator) registerStep(node graph.Node, s *step.Step) {
	o.steps = append(o.steps, s)
	o.nodeOf[s] = node
	o.stepAt[node] = s
	o.outIndex[s.Output] = s
}

func stepOutputs(steps []*step.Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Output
	}
	return out
}

// selfRebuildHook builds the default pre-hook fresh from the
// Orchestrator's current configuration, so changes to ConfigFilePath,
// BuildDir, or Toolchain made after New() (e.g. by a CLI flag) are
// honored at Run time.
func (o *Orchestrator) selfRebuildHook() *hook.Hook {
	libcbuild := filepath.Join(o.BuildDir, "bin", "libcbuild.a")
	libcore := filepath.Join(o.BuildDir, "bin", "libcore.a")
	return hook.NewSelfRebuild(o.Toolchain.CCompiler, o.ConfigFilePath, libcbuild, libcore, "cbuild", o.Runner, o.Log, o.Argv, o.Env, RunAtExit)
}

func (o *Orchestrator) allPreHooks() []*hook.Hook {
	if !o.IncludeSelfRebuild {
		return o.preHooks
	}
	hooks := make([]*hook.Hook, 0, len(o.preHooks)+1)
	hooks = append(hooks, o.selfRebuildHook())
	return append(hooks, o.preHooks...)
}

// Run executes the pre-hooks, then the main DAG in topological order,
// then — only if nothing failed — the post-hooks. It stops at the first
// pre-hook failure (a pre-hook failing leaves the build in an unknown
// state) but otherwise continues or halts per StopOnError.
func (o *Orchestrator) Run(ctx context.Context) BuildResult {
	var result BuildResult
	o.startedAt = o.Clock.Now()

	for _, h := range o.allPreHooks() {
		if !h.NeedsRebuild() {
			result.Skipped++
			continue
		}
		if err := o.runHook(ctx, h); err != nil {
			o.Log.Tagf(logx.Error, "ORCHESTRATOR", "pre-hook %s failed: %v", h.Name, err)
			result.Failed++
			result.Success = false
			result.DurationSeconds = clock.ElapsedSeconds(o.Clock, o.startedAt)
			return o.finish(result)
		}
	}

	order, err := o.dag.TopologicalOrder()
	if err != nil {
		o.Log.Tagf(logx.Error, "ORCHESTRATOR", "Dependency cycle detected")
		result.Failed++
		return o.finish(result)
	}
	result.Total = len(order)

	for _, node := range order {
		s := o.stepAt[node]
		if s.Completed || !s.NeedsRebuild() {
			result.Skipped++
			continue
		}
		if err := fsutil.MkdirAll(filepath.Dir(s.Output)); err != nil {
			o.Log.Tagf(logx.Error, s.Kind.String(), "%v", err)
			result.Failed++
			if o.StopOnError {
				break
			}
			continue
		}
		if o.Verbose {
			o.Log.Step(s.Kind.String(), s.Command())
		}
		out, runErr := o.Runner.Run(ctx, process.Command{Argv: s.Argv})
		if runErr != nil {
			o.Log.Tagf(logx.Error, s.Kind.String(), "%v", runErr)
			result.Failed++
			if o.StopOnError {
				break
			}
			continue
		}
		if out.ExitCode != 0 || out.Signal != "" {
			o.Log.Tagf(logx.Error, s.Kind.String(), "%s", out.Stderr)
			result.Failed++
			if o.StopOnError {
				break
			}
			continue
		}
		s.MarkComplete(out)
		result.Completed++
	}

	if result.Failed == 0 {
		for _, h := range o.postHooks {
			if !h.NeedsRebuild() {
				result.Skipped++
				continue
			}
			if err := o.runHook(ctx, h); err != nil {
				o.Log.Tagf(logx.Error, "ORCHESTRATOR", "post-hook %s failed: %v", h.Name, err)
				result.Failed++
				if o.StopOnError {
					break
				}
			}
		}
	}

	return o.finish(result)
}

func (o *Orchestrator) finish(result BuildResult) BuildResult {
	result.Success = result.Failed == 0
	result.DurationSeconds = clock.ElapsedSeconds(o.Clock, o.startedAt)
	if result.Success {
		o.Log.Tagf(logx.Info, "ORCHESTRATOR", "Build succeeded: %d completed, %d skipped", result.Completed, result.Skipped)
	} else {
		o.Log.Tagf(logx.Error, "ORCHESTRATOR", "Build failed: %d completed, %d failed, %d skipped", result.Completed, result.Failed, result.Skipped)
	}
	return result
}

func (o *Orchestrator) runHook(ctx context.Context, h *hook.Hook) error {
	if err := h.Run(ctx); err != nil {
		return err
	}
	if h.OnComplete != nil {
		h.OnComplete()
	}
	return nil
}
