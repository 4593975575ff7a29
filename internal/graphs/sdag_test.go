package graphs

import (
	"errors"
	"strings"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/tree"
)

func parseNewicks(t *testing.T, nwks []string) []*tree.Tree {
	t.Helper()
	trees := make([]*tree.Tree, 0, len(nwks))
	for _, nwk := range nwks {
		tre, err := newick.NewParser(strings.NewReader(nwk)).Parse()
		if err != nil {
			t.Fatalf("invalid newick tree %q; test is written wrong", nwk)
		}
		trees = append(trees, tre)
	}
	return trees
}

// findVertex returns the id of the vertex whose subsplit clades contain
// exactly the given taxon indices, or -1.
func findVertex(d *SubsplitDAG, left, right []uint) int {
	for id := 0; id < d.NumVertices(); id++ {
		s := d.Vertex(id).Subsplit()
		if cladeEquals(s.CladeSet(Left), left) && cladeEquals(s.CladeSet(Right), right) {
			return id
		}
	}
	return -1
}

func cladeEquals(clade *bitset.BitSet, taxa []uint) bool {
	if clade.Count() != uint(len(taxa)) {
		return false
	}
	for _, ti := range taxa {
		if !clade.Test(ti) {
			return false
		}
	}
	return true
}

func TestCladeOpposite(t *testing.T) {
	if Left.Opposite() != Right || Right.Opposite() != Left {
		t.Error("clade opposites are wrong")
	}
}

func TestBuildDAGSingleTree(t *testing.T) {
	dag, err := BuildDAG(parseNewicks(t, []string{"((A,B),(C,D));"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dag.NumTaxa() != 4 {
		t.Errorf("expected 4 taxa, got %d", dag.NumTaxa())
	}
	if dag.NumVertices() != 7 {
		t.Errorf("expected 7 vertices, got %d", dag.NumVertices())
	}
	if dag.NumEdges() != 6 {
		t.Errorf("expected 6 edges, got %d", dag.NumEdges())
	}
	for _, taxa := range [][2][]uint{
		{{0}, {1}},       // (A,B) cherry
		{{2}, {3}},       // (C,D) cherry
		{{0, 1}, {2, 3}}, // rootsplit
	} {
		if findVertex(dag, taxa[0], taxa[1]) == -1 {
			t.Errorf("no vertex with subsplit %v|%v", taxa[0], taxa[1])
		}
	}
	root := dag.Root()
	if root.ID() != findVertex(dag, []uint{0, 1}, []uint{2, 3}) {
		t.Error("root is not the rootsplit vertex")
	}
	if !root.IsRoot() || root.IsLeaf() {
		t.Error("root predicates are wrong")
	}
	for i := 0; i < 4; i++ {
		leaf := dag.Vertex(i)
		if !leaf.IsLeaf() || leaf.IsRoot() {
			t.Errorf("leaf %d predicates are wrong", i)
		}
	}
	checkMirroredAdjacency(t, dag)
}

func TestBuildDAGMultipleRootsplits(t *testing.T) {
	dag, err := BuildDAG(parseNewicks(t, []string{
		"((A,B),(C,D));",
		"(((A,B),C),D);",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dag.NumVertices() != 10 {
		t.Errorf("expected 10 vertices, got %d", dag.NumVertices())
	}
	if dag.NumEdges() != 12 {
		t.Errorf("expected 12 edges, got %d", dag.NumEdges())
	}
	root := dag.Root()
	if root.Subsplit().CladeSet(Right).Count() != 0 {
		t.Error("universal root right clade should be empty")
	}
	if root.Subsplit().CladeSet(Left).Count() != 4 {
		t.Error("universal root left clade should hold all taxa")
	}
	if len(root.Leafward(Left)) != 2 || len(root.Leafward(Right)) != 0 {
		t.Errorf("universal root should unifurcate to 2 rootsplits, got %d/%d",
			len(root.Leafward(Left)), len(root.Leafward(Right)))
	}
	checkMirroredAdjacency(t, dag)
}

func TestBuildDAGSharedSubstructure(t *testing.T) {
	// both trees display the (A,B) cherry; it must appear exactly once
	dag, err := BuildDAG(parseNewicks(t, []string{
		"((A,B),(C,D));",
		"(((A,B),C),D);",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := 0
	for id := 0; id < dag.NumVertices(); id++ {
		s := dag.Vertex(id).Subsplit()
		if cladeEquals(s.CladeSet(Left), []uint{0}) && cladeEquals(s.CladeSet(Right), []uint{1}) {
			count++
		}
	}
	if count != 1 {
		t.Errorf("cherry subsplit appears %d times, expected 1", count)
	}
	cherry := dag.Vertex(findVertex(dag, []uint{0}, []uint{1}))
	if len(cherry.AllRootward()) != 2 {
		t.Errorf("shared cherry should have 2 parents, got %d", len(cherry.AllRootward()))
	}
}

func TestBuildDAGErrors(t *testing.T) {
	testCases := []struct {
		name string
		nwks []string
		err  error
	}{
		{
			name: "empty",
			nwks: []string{},
			err:  ErrNoTrees,
		},
		{
			name: "unrooted",
			nwks: []string{"(A,B,C);"},
			err:  ErrUnrooted,
		},
		{
			name: "non-binary",
			nwks: []string{"((A,B,C),D);"},
			err:  ErrNonBinary,
		},
		{
			name: "mismatched taxa",
			nwks: []string{"((A,B),(C,D));", "((A,B),(C,E));"},
			err:  ErrTipNameMismatch,
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			_, err := BuildDAG(parseNewicks(t, test.nwks))
			if !errors.Is(err, test.err) {
				t.Errorf("expected error %v, got %v", test.err, err)
			}
		})
	}
}

// checkMirroredAdjacency verifies every edge appears in the leafward list of
// its parent and the rootward list of its child, under the same clade.
func checkMirroredAdjacency(t *testing.T, d *SubsplitDAG) {
	t.Helper()
	for id := 0; id < d.NumEdges(); id++ {
		e := d.Edge(id)
		if !containsAdjacency(d.Vertex(e.Parent).Leafward(e.Clade), Adjacency{Node: e.Child, Edge: e.ID}) {
			t.Errorf("edge %d missing from parent %d leafward %s list", e.ID, e.Parent, e.Clade)
		}
		if !containsAdjacency(d.Vertex(e.Child).Rootward(e.Clade), Adjacency{Node: e.Parent, Edge: e.ID}) {
			t.Errorf("edge %d missing from child %d rootward %s list", e.ID, e.Child, e.Clade)
		}
	}
}

func containsAdjacency(list []Adjacency, adj Adjacency) bool {
	for _, a := range list {
		if a == adj {
			return true
		}
	}
	return false
}
