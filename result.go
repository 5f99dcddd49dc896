package cbuild

// BuildResult summarizes one Orchestrator.Run invocation: how many steps
// and hooks were scheduled, how each of them fared, and how long the run
// took.
type BuildResult struct {
	// Total is the number of DAG steps in the topological order that was
	// executed (does not include pre-/post-hooks).
	Total int

	Completed int
	Failed    int
	Skipped   int

	DurationSeconds float64
	Success         bool
}
