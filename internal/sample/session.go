package sample

import (
	"fmt"

	gr "github.com/jsdoublel/sdag/internal/graphs"
)

// noID marks an absent child slot in the sampled substructure.
const noID = -1

// session is the call-scoped state of one sampling run: non-owning views of
// the DAG and the two weight vectors, plus the incrementally built result.
// A session never outlives the call that created it.
type session struct {
	dag      *gr.SubsplitDAG
	forward  []float64 // leafward (descending) edge weights
	backward []float64 // rootward (ascending) edge weights
	result   result
}

func newSession(dag *gr.SubsplitDAG, forward, backward []float64) *session {
	return &session{
		dag:      dag,
		forward:  forward,
		backward: backward,
		result:   result{vertices: make(map[int]bool)},
	}
}

// result is the substructure discovered during one sampling call: the set of
// visited vertices and the edges sampled between them.
type result struct {
	vertices  map[int]bool
	edges     []gr.Edge
	children  map[int][2]int // per-vertex sampled child by clade, set by connect
	hasParent map[int]bool   // vertices with a sampled rootward edge, set by connect
}

// addVertex inserts a vertex into the result if absent.
func (r *result) addVertex(id int) {
	r.vertices[id] = true
}

// addEdge records a sampled edge.
func (r *result) addEdge(e gr.Edge) {
	r.edges = append(r.edges, e)
}

// connect finalizes adjacency bookkeeping over only the vertices and edges
// actually visited, not the full DAG.
func (r *result) connect() {
	r.children = make(map[int][2]int, len(r.vertices))
	r.hasParent = make(map[int]bool, len(r.vertices))
	for id := range r.vertices {
		r.children[id] = [2]int{noID, noID}
	}
	for _, e := range r.edges {
		c := r.children[e.Parent]
		c[e.Clade] = e.Child
		r.children[e.Parent] = c
		r.hasParent[e.Child] = true
	}
}

// child returns the sampled child of a visited vertex along the given clade,
// or noID if none was sampled.
func (r *result) child(id int, c gr.Clade) int {
	return r.children[id][c]
}

// findRoot returns the unique visited vertex with no sampled rootward edge.
// Anything other than exactly one such vertex implies a malformed input DAG
// (cyclic or with inconsistent adjacency lists).
func (r *result) findRoot() (int, error) {
	rootID, count := noID, 0
	for id := range r.vertices {
		if !r.hasParent[id] {
			rootID = id
			count++
		}
	}
	switch count {
	case 1:
		return rootID, nil
	case 0:
		return noID, fmt.Errorf("%w, sampled substructure has no parentless vertex", ErrNoRoot)
	default:
		return noID, fmt.Errorf("%w, sampled substructure has %d parentless vertices", ErrNoRoot, count)
	}
}
