package step

// ArchiveSpec carries what NewArchive needs to form a static-library
// archive step's argv.
type ArchiveSpec struct {
	Archiver string
	Inputs   []string
	Output   string
}

// NewArchive forms an archive step: `archiver rcs output inputs...`.
func NewArchive(spec ArchiveSpec) *Step {
	argv := make([]string, 0, 3+len(spec.Inputs))
	argv = append(argv, spec.Archiver, "rcs", spec.Output)
	argv = append(argv, spec.Inputs...)
	return &Step{
		Kind:   Archive,
		Inputs: spec.Inputs,
		Output: spec.Output,
		Argv:   argv,
		Dirty:  true,
	}
}
