// Package step implements the unit of work the orchestrator schedules: a
// compile, archive, or link invocation, with its freshness policy and
// formed command line. Steps are produced by the cbuild package's target
// expansion (see Orchestrator.AddTarget) from a Target's configuration;
// this package only knows how to turn already-resolved arguments into a
// correctly ordered argv and how to decide whether a step is stale.
package step

import (
	"github.com/gocbuild/cbuild/internal/fsutil"
	"github.com/gocbuild/cbuild/internal/process"
)

// Kind identifies what a step does.
type Kind int

const (
	Compile Kind = iota
	Archive
	Link
)

// String returns the step kind's log label, e.g. "COMPILE".
func (k Kind) String() string {
	switch k {
	case Compile:
		return "COMPILE"
	case Archive:
		return "ARCHIVE"
	case Link:
		return "LINK"
	default:
		return "UNKNOWN"
	}
}

// Language is the source language a compile or link step is working in.
type Language int

const (
	LangUnknown Language = iota
	LangC
	LangCXX
	LangASM
)

// Step is one DAG node: a formed command, its declared inputs and single
// output, and the mutable state the orchestrator updates as it runs.
type Step struct {
	Kind     Kind
	Language Language

	// Inputs holds, for a compile step, exactly one source path; for
	// archive and link steps, the owning target's compile-step outputs
	// in declaration order.
	Inputs []string
	Output string

	// DepPath and HeaderDeps are populated only for compile steps.
	DepPath    string
	HeaderDeps []string

	Argv []string

	Dirty     bool
	Completed bool
	Result    *process.Output
}

// NeedsRebuild reports whether Output is missing or older than any Input
// or, for compile steps, any header the last build's depfile recorded.
func (s *Step) NeedsRebuild() bool {
	if !fsutil.Exists(s.Output) {
		return true
	}
	for _, in := range s.Inputs {
		if fsutil.IsNewer(in, s.Output) {
			return true
		}
	}
	if s.Kind == Compile {
		for _, h := range s.HeaderDeps {
			if fsutil.IsNewer(h, s.Output) {
				return true
			}
		}
	}
	return false
}

// MarkComplete records a successful run.
func (s *Step) MarkComplete(result process.Output) {
	s.Result = &result
	s.Completed = true
	s.Dirty = false
}

// Command joins Argv with spaces, the form the compile-commands hook and
// verbose step logging both use.
func (s *Step) Command() string {
	out := ""
	for i, a := range s.Argv {
		if i > 0 {
			out += " "
		}
		out += a
	}
	return out
}
