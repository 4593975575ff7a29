package graphs

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/evolbioinfo/gotree/tree"
)

var (
	ErrNoTrees         = errors.New("no trees")
	ErrUnrooted        = errors.New("unrooted tree")
	ErrNonBinary       = errors.New("non-binary tree")
	ErrTipNameMismatch = errors.New("tip name mismatch! maybe the topology labels don't match?")
)

// edgeKey identifies a DAG edge for deduplication across input trees.
type edgeKey struct {
	parent, child int
	clade         Clade
}

// BuildDAG collapses a collection of rooted bifurcating topologies over one
// shared taxon set into a subsplit DAG. Every subsplit displayed by an input
// tree becomes one vertex, every parent-child containment one edge. When the
// trees disagree on the rootsplit, a universal root vertex (full taxon set,
// empty right clade) is added above all rootsplits, so a sampled topology
// may carry a unifurcation at its apex.
func BuildDAG(trees []*tree.Tree) (*SubsplitDAG, error) {
	if len(trees) == 0 {
		return nil, ErrNoTrees
	}
	ref := trees[0]
	if err := ref.UpdateTipIndex(); err != nil {
		return nil, fmt.Errorf("%w, %s", ErrTipNameMismatch, err.Error())
	}
	nTaxa, err := ref.NbTips()
	if err != nil {
		return nil, fmt.Errorf("%w, %s", ErrTipNameMismatch, err.Error())
	}
	taxa := make([]string, nTaxa)
	for _, name := range ref.AllTipNames() {
		ti, err := ref.TipIndex(name)
		if err != nil {
			panic(err)
		}
		taxa[ti] = name
	}
	d := NewDAG(taxa)
	vertexIDs := make(map[string]int, 2*nTaxa)
	for _, v := range d.vertices {
		vertexIDs[v.subsplit.key()] = v.id
	}
	edges := make(map[edgeKey]bool)
	rootsplits := make(map[int]bool)
	for i, tre := range trees {
		rootID, err := d.addTree(tre, ref, vertexIDs, edges)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		rootsplits[rootID] = true
	}
	if len(rootsplits) > 1 {
		full := bitset.New(uint(nTaxa))
		for i := 0; i < nTaxa; i++ {
			full.Set(uint(i))
		}
		root := d.AddVertex(NewSubsplit(full, bitset.New(uint(nTaxa))))
		ids := make([]int, 0, len(rootsplits))
		for id := range rootsplits {
			ids = append(ids, id)
		}
		slices.Sort(ids) // keep edge ids stable across runs
		for _, id := range ids {
			d.AddEdge(root.id, id, Left)
		}
	}
	return d, nil
}

// addTree merges one topology into the DAG and returns the vertex id of its
// rootsplit.
func (d *SubsplitDAG) addTree(tre, ref *tree.Tree, vertexIDs map[string]int, edges map[edgeKey]bool) (int, error) {
	if !tre.Rooted() {
		return 0, ErrUnrooted
	}
	if n, err := tre.NbTips(); err != nil || n != len(d.taxa) {
		return 0, fmt.Errorf("%w, tree has %d tips but %d taxa expected", ErrTipNameMismatch, n, len(d.taxa))
	}
	nNodes := len(tre.Nodes())
	leafsets := make([]*bitset.BitSet, nNodes)
	vertexOf := make([]int, nNodes)
	var walkErr error
	tre.PostOrder(func(cur, prev *tree.Node, e *tree.Edge) (keep bool) {
		if walkErr != nil {
			return false
		}
		if cur.Tip() {
			ti, err := ref.TipIndex(cur.Name())
			if err != nil {
				walkErr = fmt.Errorf("%w, %s", ErrTipNameMismatch, err.Error())
				return false
			}
			leafsets[cur.Id()] = bitset.New(uint(len(d.taxa)))
			leafsets[cur.Id()].Set(uint(ti))
			vertexOf[cur.Id()] = ti
			return true
		}
		children := childNodes(cur)
		if len(children) != 2 {
			walkErr = fmt.Errorf("%w, node has %d children", ErrNonBinary, len(children))
			return false
		}
		left, right := leafsets[children[0].Id()], leafsets[children[1].Id()]
		if firstBit(right) < firstBit(left) {
			left, right = right, left
			children[0], children[1] = children[1], children[0]
		}
		s := NewSubsplit(left, right)
		id, ok := vertexIDs[s.key()]
		if !ok {
			id = d.AddVertex(s).id
			vertexIDs[s.key()] = id
		}
		for ci, child := range children {
			key := edgeKey{parent: id, child: vertexOf[child.Id()], clade: Clade(ci)}
			if !edges[key] {
				d.AddEdge(key.parent, key.child, key.clade)
				edges[key] = true
			}
		}
		leafsets[cur.Id()] = left.Union(right)
		vertexOf[cur.Id()] = id
		return true
	})
	if walkErr != nil {
		return 0, walkErr
	}
	return vertexOf[tre.Root().Id()], nil
}

// childNodes returns the neighbors of a node other than its parent.
func childNodes(node *tree.Node) []*tree.Node {
	p, err := node.Parent()
	if err != nil && err.Error() == "The node has more than one parent" {
		panic(err)
	}
	children := make([]*tree.Node, 0, 2)
	for _, n := range node.Neigh() {
		if n != p {
			children = append(children, n)
		}
	}
	return children
}

func firstBit(b *bitset.BitSet) uint {
	i, ok := b.NextSet(0)
	if !ok {
		panic("empty clade in subsplit")
	}
	return i
}
