package step

// LinkSpec carries what NewLink needs to form an executable or shared
// library's argv. LinkArgs is the already-resolved, in-order sequence of
// positional link-object arguments (-l names, -framework names, static and
// shared library paths, object files, and the transitive closure of any
// target-reference link objects' artifact paths) — resolving a
// target-reference requires the orchestrator's output index, so that
// recursion happens one layer up, in the cbuild package.
type LinkSpec struct {
	Linker        string
	Shared        bool
	Inputs        []string
	Output        string
	LibPaths      []string
	LinkArgs      []string
	PIE           bool
	LTO           bool
	Strip         bool
	UserLinkFlags []string
	Language      Language
}

// NewLink forms a link step with arguments in a fixed order: program,
// -shared, inputs, -o output, library-search paths, link objects, then the
// pie/lto/strip toggles, then user link flags.
func NewLink(spec LinkSpec) *Step {
	argv := make([]string, 0, 8+len(spec.Inputs)+len(spec.LibPaths)+len(spec.LinkArgs)+len(spec.UserLinkFlags))
	argv = append(argv, spec.Linker)
	if spec.Shared {
		argv = append(argv, "-shared")
	}
	argv = append(argv, spec.Inputs...)
	argv = append(argv, "-o", spec.Output)
	for _, p := range spec.LibPaths {
		argv = append(argv, "-L"+p)
	}
	argv = append(argv, spec.LinkArgs...)
	if spec.PIE {
		argv = append(argv, "-pie")
	}
	if spec.LTO {
		argv = append(argv, "-flto")
	}
	if spec.Strip {
		argv = append(argv, "-s")
	}
	argv = append(argv, spec.UserLinkFlags...)

	return &Step{
		Kind:     Link,
		Language: spec.Language,
		Inputs:   spec.Inputs,
		Output:   spec.Output,
		Argv:     argv,
		Dirty:    true,
	}
}
