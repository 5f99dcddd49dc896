package step

import "github.com/gocbuild/cbuild/internal/depfile"

// CompileSpec carries everything NewCompile needs to form a compile step's
// argv, already resolved by the caller from toolchain defaults and target
// configuration (optimize mode looked up, include/define lists flattened to
// flags, and so on) — this package only knows argv ordering, not target
// semantics.
type CompileSpec struct {
	Compiler          string
	PreprocessorFlags []string
	LanguageFlags     []string // the target's c_flags or cxx_flags, whichever applies
	OptimizeFlag      string   // empty means omit
	IncludeFlags      []string
	DefineFlags       []string
	// ExtraFlags are a source's own per-file flags, appended after every
	// target-wide flag so a single file can override a target default.
	ExtraFlags []string
	Shared     bool
	EmitDeps   bool
	Input      string
	Output     string
	DepPath    string
	Language   Language
}

// NewCompile forms a compile step. DepPath is read immediately for header
// dependencies left by a prior run (empty if this is the first build of
// Input).
func NewCompile(spec CompileSpec) (*Step, error) {
	headerDeps, err := depfile.Parse(spec.DepPath)
	if err != nil {
		return nil, err
	}

	argv := make([]string, 0, 8+len(spec.IncludeFlags)+len(spec.DefineFlags)+len(spec.ExtraFlags))
	argv = append(argv, spec.Compiler)
	argv = append(argv, spec.PreprocessorFlags...)
	argv = append(argv, spec.LanguageFlags...)
	if spec.OptimizeFlag != "" {
		argv = append(argv, spec.OptimizeFlag)
	}
	argv = append(argv, spec.IncludeFlags...)
	argv = append(argv, spec.DefineFlags...)
	if spec.Shared {
		argv = append(argv, "-fPIC")
	}
	if spec.EmitDeps {
		argv = append(argv, "-MMD")
	}
	argv = append(argv, spec.ExtraFlags...)
	argv = append(argv, "-c", spec.Input, "-o", spec.Output)

	return &Step{
		Kind:       Compile,
		Language:   spec.Language,
		Inputs:     []string{spec.Input},
		Output:     spec.Output,
		DepPath:    spec.DepPath,
		HeaderDeps: headerDeps,
		Argv:       argv,
		Dirty:      true,
	}, nil
}
