// Package graphs contains the graph-like data structures used by the
// sampler: the subsplit DAG and the sampled topology.
package graphs

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Clade identifies which side of a subsplit an edge instantiates.
type Clade int

const (
	Left Clade = iota
	Right
)

func (c Clade) Opposite() Clade {
	switch c {
	case Left:
		return Right
	case Right:
		return Left
	default:
		panic(fmt.Sprintf("invalid clade (%d)", c))
	}
}

func (c Clade) String() string {
	if c == Left {
		return "left"
	}
	return "right"
}

// Subsplit is an ordered bipartition of a taxon subset into two disjoint
// clades. Leaf subsplits hold a singleton left clade and an empty right
// clade; the universal root (if present) holds the full taxon set on the
// left and nothing on the right.
type Subsplit struct {
	clades [2]*bitset.BitSet
}

func NewSubsplit(left, right *bitset.BitSet) Subsplit {
	return Subsplit{clades: [2]*bitset.BitSet{left, right}}
}

func (s Subsplit) CladeSet(c Clade) *bitset.BitSet {
	return s.clades[c]
}

// Taxa returns the union of both clades.
func (s Subsplit) Taxa() *bitset.BitSet {
	return s.clades[Left].Union(s.clades[Right])
}

// key uniquely identifies a subsplit for deduplication.
func (s Subsplit) key() string {
	return s.clades[Left].String() + "|" + s.clades[Right].String()
}

// Adjacency is one entry of a vertex adjacency list: a neighbor vertex and
// the edge connecting to it.
type Adjacency struct {
	Node int // neighbor vertex id
	Edge int // connecting edge id
}

// Vertex is one subsplit in the DAG. Rootward lists hold the parents
// reachable through each clade of the parent; leafward lists hold the
// children instantiating each clade of this vertex.
type Vertex struct {
	id       int
	subsplit Subsplit
	rootward [2][]Adjacency
	leafward [2][]Adjacency
}

func (v *Vertex) ID() int { return v.id }

func (v *Vertex) Subsplit() Subsplit { return v.subsplit }

func (v *Vertex) Rootward(c Clade) []Adjacency { return v.rootward[c] }

func (v *Vertex) Leafward(c Clade) []Adjacency { return v.leafward[c] }

// AllRootward returns the union of both rootward lists (left clade first).
func (v *Vertex) AllRootward() []Adjacency {
	all := make([]Adjacency, 0, len(v.rootward[Left])+len(v.rootward[Right]))
	all = append(all, v.rootward[Left]...)
	return append(all, v.rootward[Right]...)
}

// IsRoot reports whether the vertex has no parents in the DAG.
func (v *Vertex) IsRoot() bool {
	return len(v.rootward[Left]) == 0 && len(v.rootward[Right]) == 0
}

// IsLeaf reports whether the vertex has no children in either clade.
func (v *Vertex) IsLeaf() bool {
	return len(v.leafward[Left]) == 0 && len(v.leafward[Right]) == 0
}

// Edge is a directed parent -> child connection in the DAG. Edge ids form a
// dense index space used to index weight vectors.
type Edge struct {
	ID     int
	Parent int
	Child  int
	Clade  Clade // clade of the parent the child occupies
}

// SubsplitDAG compactly represents a collection of rooted bifurcating tree
// topologies sharing substructure. Vertices 0..NumTaxa-1 are the leaves;
// their ids equal the tip indices of the taxa they represent.
type SubsplitDAG struct {
	vertices []*Vertex
	edges    []Edge
	taxa     []string // taxon names indexed by tip index
}

// NewDAG creates a DAG over the given taxa (indexed by tip index) containing
// only the leaf vertices.
func NewDAG(taxa []string) *SubsplitDAG {
	d := &SubsplitDAG{taxa: taxa}
	for i := range taxa {
		clade := bitset.New(uint(len(taxa)))
		clade.Set(uint(i))
		d.AddVertex(NewSubsplit(clade, bitset.New(uint(len(taxa)))))
	}
	return d
}

// AddVertex appends a vertex for the given subsplit and returns it.
func (d *SubsplitDAG) AddVertex(s Subsplit) *Vertex {
	v := &Vertex{id: len(d.vertices), subsplit: s}
	d.vertices = append(d.vertices, v)
	return v
}

// AddEdge connects parent to child along the given clade of the parent,
// updating both adjacency lists, and returns the new edge.
func (d *SubsplitDAG) AddEdge(parent, child int, clade Clade) Edge {
	e := Edge{ID: len(d.edges), Parent: parent, Child: child, Clade: clade}
	d.edges = append(d.edges, e)
	adj := Adjacency{Node: child, Edge: e.ID}
	d.Vertex(parent).leafward[clade] = append(d.Vertex(parent).leafward[clade], adj)
	adj = Adjacency{Node: parent, Edge: e.ID}
	d.Vertex(child).rootward[clade] = append(d.Vertex(child).rootward[clade], adj)
	return e
}

func (d *SubsplitDAG) Vertex(id int) *Vertex {
	if id < 0 || id >= len(d.vertices) {
		panic(fmt.Sprintf("vertex id %d out of range [0, %d)", id, len(d.vertices)))
	}
	return d.vertices[id]
}

func (d *SubsplitDAG) Edge(id int) Edge {
	if id < 0 || id >= len(d.edges) {
		panic(fmt.Sprintf("edge id %d out of range [0, %d)", id, len(d.edges)))
	}
	return d.edges[id]
}

func (d *SubsplitDAG) NumVertices() int { return len(d.vertices) }

func (d *SubsplitDAG) NumEdges() int { return len(d.edges) }

func (d *SubsplitDAG) NumTaxa() int { return len(d.taxa) }

// TaxonName returns the taxon name of a leaf vertex.
func (d *SubsplitDAG) TaxonName(id int) string {
	if id < 0 || id >= len(d.taxa) {
		panic(fmt.Sprintf("vertex id %d is not a leaf", id))
	}
	return d.taxa[id]
}

// Root returns the parentless vertex of the DAG.
func (d *SubsplitDAG) Root() *Vertex {
	for _, v := range d.vertices {
		if v.IsRoot() {
			return v
		}
	}
	panic("dag has no root")
}
