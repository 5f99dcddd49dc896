package graph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTopologicalOrderLinear(t *testing.T) {
	d := New()
	a := d.AddNode()
	b := d.AddNode()
	c := d.AddNode()
	// a depends on b, b depends on c
	d.AddEdge(a, b)
	d.AddEdge(b, c)

	order, err := d.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder() returned error: %v", err)
	}
	want := []Node{c, b, a}
	if diff := cmp.Diff(want, order, cmp.AllowUnexported(Node{})); diff != "" {
		t.Errorf("TopologicalOrder() diff (-want +got):\n%s", diff)
	}
}

func TestTopologicalOrderStableOnTies(t *testing.T) {
	// Independent nodes with no edges at all: insertion order breaks ties.
	for _, test := range []struct {
		desc string
		n    int
	}{
		{desc: "3 independent nodes", n: 3},
		{desc: "8 independent nodes", n: 8},
	} {
		t.Run(test.desc, func(t *testing.T) {
			d := New()
			var want []Node
			for i := 0; i < test.n; i++ {
				want = append(want, d.AddNode())
			}
			order, err := d.TopologicalOrder()
			if err != nil {
				t.Fatalf("TopologicalOrder() returned error: %v", err)
			}
			if diff := cmp.Diff(want, order, cmp.AllowUnexported(Node{})); diff != "" {
				t.Errorf("TopologicalOrder() diff (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTopologicalOrderDetectsCycle(t *testing.T) {
	d := New()
	a := d.AddNode()
	b := d.AddNode()
	c := d.AddNode()
	d.AddEdge(a, b)
	d.AddEdge(b, c)
	d.AddEdge(c, a)

	if _, err := d.TopologicalOrder(); !errors.Is(err, ErrCycle) {
		t.Errorf("TopologicalOrder() error = %v, want ErrCycle", err)
	}
}

func TestRootsAndLeaves(t *testing.T) {
	d := New()
	compileA := d.AddNode()
	compileB := d.AddNode()
	link := d.AddNode()
	d.AddEdge(link, compileA)
	d.AddEdge(link, compileB)

	leaves := d.Leaves()
	wantLeaves := []Node{compileA, compileB}
	if diff := cmp.Diff(wantLeaves, leaves, cmp.AllowUnexported(Node{})); diff != "" {
		t.Errorf("Leaves() diff (-want +got):\n%s", diff)
	}

	roots := d.Roots()
	wantRoots := []Node{link}
	if diff := cmp.Diff(wantRoots, roots, cmp.AllowUnexported(Node{})); diff != "" {
		t.Errorf("Roots() diff (-want +got):\n%s", diff)
	}
}

func TestDependencyAndDependentCounts(t *testing.T) {
	d := New()
	compileA := d.AddNode()
	compileB := d.AddNode()
	link := d.AddNode()
	d.AddEdge(link, compileA)
	d.AddEdge(link, compileB)

	if got, want := d.DependencyCount(link), 2; got != want {
		t.Errorf("DependencyCount(link) = %d, want %d", got, want)
	}
	if got, want := d.DependentCount(compileA), 1; got != want {
		t.Errorf("DependentCount(compileA) = %d, want %d", got, want)
	}
	if got, want := d.DependentCount(link), 0; got != want {
		t.Errorf("DependentCount(link) = %d, want %d", got, want)
	}
	if !d.HasEdge(link, compileA) {
		t.Error("HasEdge(link, compileA) = false, want true")
	}
	if d.HasEdge(compileA, link) {
		t.Error("HasEdge(compileA, link) = true, want false")
	}
}
