// Package graph implements the build DAG: dense-id nodes, dependency edges,
// and a deterministic topological order.
//
// Edges point from a node to each node it depends on: AddEdge(from, to)
// means "from depends on to". Internally this is represented as a gonum
// directed graph with edges reversed (to -> from), so that gonum's own
// stabilized topological sort already yields "dependencies before
// dependents" without any translation at read time. Cycles are detected
// via topo.Unorderable.
package graph

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// ErrCycle is returned by TopologicalOrder when the graph is not acyclic.
var ErrCycle = errors.New("dependency cycle detected")

// Node identifies one vertex in the DAG. Ids are dense and start at 0, in
// the order AddNode was called.
type Node struct {
	id int64
}

// ID implements graph.Node.
func (n Node) ID() int64 { return n.id }

// DAG is a directed acyclic graph of build steps and hooks. The graph owns
// no payload: callers keep a parallel slice (or map) from Node to whatever
// they attached the node for, indexed by Node.ID().
type DAG struct {
	g      *simple.DirectedGraph
	nextID int64
}

// New returns an empty DAG.
func New() *DAG {
	return &DAG{g: simple.NewDirectedGraph()}
}

// AddNode allocates the next dense node id and returns it.
func (d *DAG) AddNode() Node {
	n := Node{id: d.nextID}
	d.nextID++
	d.g.AddNode(n)
	return n
}

// AddEdge records that from depends on to. Duplicate edges are silently
// ignored, as gonum's edge set is not a multiset.
func (d *DAG) AddEdge(from, to Node) {
	// Reversed relative to the from/to argument order: gonum orders a
	// directed edge's tail before its head in a topological sort, and we
	// want "to" (the dependency) ordered before "from" (the dependent).
	d.g.SetEdge(d.g.NewEdge(to, from))
}

// HasEdge reports whether from depends (directly) on to.
func (d *DAG) HasEdge(from, to Node) bool {
	return d.g.HasEdgeFromTo(to.id, from.id)
}

// NodeCount returns the number of nodes added so far.
func (d *DAG) NodeCount() int {
	return d.g.Nodes().Len()
}

// DependencyCount returns how many nodes n directly depends on.
func (d *DAG) DependencyCount(n Node) int {
	return d.g.To(n.id).Len()
}

// DependentCount returns how many nodes directly depend on n.
func (d *DAG) DependentCount(n Node) int {
	return d.g.From(n.id).Len()
}

// TopologicalOrder returns a deterministic execution order: for every edge
// u -> v (u depends on v), v appears before u. Ties are broken by
// ascending node id, i.e. insertion order, so the result is stable given a
// fixed sequence of AddNode/AddEdge calls. Returns ErrCycle if the graph is
// not acyclic.
func (d *DAG) TopologicalOrder() ([]Node, error) {
	ordered, err := topo.SortStabilized(d.g, func(nodes []graph.Node) {
		sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	})
	if err != nil {
		var unorderable topo.Unorderable
		if errors.As(err, &unorderable) {
			return nil, ErrCycle
		}
		return nil, err
	}
	nodes := make([]Node, len(ordered))
	for i, n := range ordered {
		nodes[i] = Node{id: n.ID()}
	}
	return nodes, nil
}

// Roots returns nodes with no dependents (nothing depends on them) — the
// final outputs of the graph — in ascending id order.
func (d *DAG) Roots() []Node {
	return d.filterByDegree(func(n Node) bool { return d.DependentCount(n) == 0 })
}

// Leaves returns nodes with no dependencies (nothing they depend on) — the
// graph's starting points — in ascending id order.
func (d *DAG) Leaves() []Node {
	return d.filterByDegree(func(n Node) bool { return d.DependencyCount(n) == 0 })
}

func (d *DAG) filterByDegree(keep func(Node) bool) []Node {
	var out []Node
	for id := int64(0); id < d.nextID; id++ {
		n := Node{id: id}
		if d.g.Node(id) == nil {
			continue
		}
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
