package sample

import (
	"fmt"

	gr "github.com/jsdoublel/sdag/internal/graphs"
)

// direction tags which side of a newly discovered vertex is already known.
type direction int

const (
	// rootwardKnown marks a vertex discovered as a child: its single parent
	// edge is sampled, both of its own clades remain to be explored.
	rootwardKnown direction = iota
	// leafwardKnown marks a vertex discovered as a parent: the child in one
	// of its clades is sampled, its ancestors and sibling clade remain.
	leafwardKnown
)

// TopologySampler draws one concrete bifurcating topology per call from a
// subsplit DAG and a pair of edge-indexed weight vectors. The sampler owns
// one mutable random stream; it must not be invoked concurrently from
// multiple goroutines without external synchronization. The DAG and weight
// vectors are only read and may be shared freely between samplers.
type TopologySampler struct {
	src *RandomSource
}

func NewTopologySampler() *TopologySampler {
	return &TopologySampler{src: NewRandomSource()}
}

// SetSeed deterministically reinitializes the sampler's random stream. With
// a fixed seed and fixed inputs the output topology is fully reproducible.
func (ts *TopologySampler) SetSeed(seed int64) {
	ts.src.SetSeed(seed)
}

// Sample draws one topology by a bidirectional random walk from the start
// vertex: one weighted path to the DAG root and one full weighted subtree on
// every clade encountered. Leafward choices are weighted by forward,
// rootward choices by backward; both must have length dag.NumEdges().
func (ts *TopologySampler) Sample(start int, dag *gr.SubsplitDAG, forward, backward []float64) (*gr.Node, error) {
	if start < 0 || start >= dag.NumVertices() {
		return nil, fmt.Errorf("%w, start vertex %d out of range [0, %d)",
			ErrInvalidInput, start, dag.NumVertices())
	}
	if len(forward) != dag.NumEdges() || len(backward) != dag.NumEdges() {
		return nil, fmt.Errorf("%w, weight vectors have lengths %d and %d but dag has %d edges",
			ErrInvalidInput, len(forward), len(backward), dag.NumEdges())
	}
	ses := newSession(dag, forward, backward)
	v := dag.Vertex(start)
	ses.result.addVertex(v.ID())
	// neither side of the start vertex is known yet, so all three
	// explorations run on it explicitly
	if err := ts.sampleRootward(ses, v); err != nil {
		return nil, err
	}
	if err := ts.sampleLeafward(ses, v, gr.Left); err != nil {
		return nil, err
	}
	if err := ts.sampleLeafward(ses, v, gr.Right); err != nil {
		return nil, err
	}
	ses.result.connect()
	rootID, err := ses.result.findRoot()
	if err != nil {
		return nil, err
	}
	return ts.buildTopology(ses, rootID)
}

// visit dispatches exploration of a newly discovered vertex based on which
// side of it is already known. clade is only meaningful for leafwardKnown:
// it names the clade through which the vertex was reached.
func (ts *TopologySampler) visit(ses *session, v *gr.Vertex, dir direction, clade gr.Clade) error {
	ses.result.addVertex(v.ID())
	switch dir {
	case rootwardKnown:
		if err := ts.sampleLeafward(ses, v, gr.Left); err != nil {
			return err
		}
		return ts.sampleLeafward(ses, v, gr.Right)
	case leafwardKnown:
		if err := ts.sampleRootward(ses, v); err != nil {
			return err
		}
		return ts.sampleLeafward(ses, v, clade.Opposite())
	default:
		panic(fmt.Sprintf("invalid direction (%d)", dir))
	}
}

// sampleRootward picks one parent edge of v from the union of both clades'
// rootward candidates, weighted by the backward vector, then explores the
// parent's unknown sides.
func (ts *TopologySampler) sampleRootward(ses *session, v *gr.Vertex) error {
	cands := v.AllRootward()
	if len(cands) == 0 {
		// reached the root
		return nil
	}
	adj, err := ts.sampleAdjacency(cands, ses.backward)
	if err != nil {
		return err
	}
	edge := ses.dag.Edge(adj.Edge)
	ses.result.addEdge(edge)
	return ts.visit(ses, ses.dag.Vertex(adj.Node), leafwardKnown, edge.Clade)
}

// sampleLeafward picks one child edge of v along the given clade, weighted
// by the forward vector, then explores the child's unknown sides.
func (ts *TopologySampler) sampleLeafward(ses *session, v *gr.Vertex, clade gr.Clade) error {
	cands := v.Leafward(clade)
	if len(cands) == 0 {
		// reached a leaf along this clade
		return nil
	}
	adj, err := ts.sampleAdjacency(cands, ses.forward)
	if err != nil {
		return err
	}
	ses.result.addEdge(ses.dag.Edge(adj.Edge))
	return ts.visit(ses, ses.dag.Vertex(adj.Node), rootwardKnown, clade)
}

// sampleAdjacency picks one candidate via a discrete distribution over the
// candidates' edge weights. Both rootward and leafward steps share this; the
// only difference is which candidate set and which vector is supplied.
func (ts *TopologySampler) sampleAdjacency(cands []gr.Adjacency, weights []float64) (gr.Adjacency, error) {
	w := make([]float64, len(cands))
	for i, adj := range cands {
		w[i] = weights[adj.Edge]
	}
	i, err := ts.src.Draw(w)
	if err != nil {
		return gr.Adjacency{}, err
	}
	return cands[i], nil
}

// buildTopology reconstructs the sampled substructure as a topology value,
// starting from the result root. Child lookups go through the result, not
// the full DAG.
func (ts *TopologySampler) buildTopology(ses *session, id int) (*gr.Node, error) {
	left := ses.result.child(id, gr.Left)
	right := ses.result.child(id, gr.Right)
	v := ses.dag.Vertex(id)
	switch {
	case left != noID && right != noID:
		lt, err := ts.buildTopology(ses, left)
		if err != nil {
			return nil, err
		}
		rt, err := ts.buildTopology(ses, right)
		if err != nil {
			return nil, err
		}
		return gr.Join(lt, rt, id), nil
	case left == noID && right == noID && v.IsLeaf():
		return gr.Leaf(id), nil
	case v.IsRoot() && (left != noID || right != noID):
		// exactly one child here, since the two-children case matched above
		childID := left
		if childID == noID {
			childID = right
		}
		sub, err := ts.buildTopology(ses, childID)
		if err != nil {
			return nil, err
		}
		return gr.UnaryJoin(sub, id), nil
	default:
		n := 0
		if left != noID {
			n++
		}
		if right != noID {
			n++
		}
		return nil, fmt.Errorf("%w, vertex %d has %d sampled children (leaf: %t, root: %t)",
			ErrMalformedTree, id, n, v.IsLeaf(), v.IsRoot())
	}
}
