package sample

import (
	"errors"
	"testing"

	gr "github.com/jsdoublel/sdag/internal/graphs"
)

func TestFindRoot(t *testing.T) {
	testCases := []struct {
		name     string
		vertices []int
		edges    []gr.Edge
		root     int
		err      error
	}{
		{
			name:     "chain",
			vertices: []int{0, 1, 2},
			edges: []gr.Edge{
				{ID: 0, Parent: 2, Child: 1, Clade: gr.Left},
				{ID: 1, Parent: 1, Child: 0, Clade: gr.Left},
			},
			root: 2,
		},
		{
			name:     "cycle has no root",
			vertices: []int{0, 1},
			edges: []gr.Edge{
				{ID: 0, Parent: 0, Child: 1, Clade: gr.Left},
				{ID: 1, Parent: 1, Child: 0, Clade: gr.Left},
			},
			err: ErrNoRoot,
		},
		{
			name:     "disconnected has two roots",
			vertices: []int{0, 1, 2, 3},
			edges: []gr.Edge{
				{ID: 0, Parent: 0, Child: 1, Clade: gr.Left},
				{ID: 1, Parent: 2, Child: 3, Clade: gr.Left},
			},
			err: ErrNoRoot,
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			r := result{vertices: make(map[int]bool)}
			for _, id := range test.vertices {
				r.addVertex(id)
			}
			for _, e := range test.edges {
				r.addEdge(e)
			}
			r.connect()
			root, err := r.findRoot()
			if test.err != nil {
				if !errors.Is(err, test.err) {
					t.Errorf("expected error %v, got %v", test.err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if root != test.root {
				t.Errorf("root %d != expected %d", root, test.root)
			}
		})
	}
}

func TestAddVertexIdempotent(t *testing.T) {
	r := result{vertices: make(map[int]bool)}
	r.addVertex(5)
	r.addVertex(5)
	if len(r.vertices) != 1 {
		t.Errorf("expected 1 vertex, got %d", len(r.vertices))
	}
}

func TestConnectUsesOnlyVisited(t *testing.T) {
	r := result{vertices: make(map[int]bool)}
	r.addVertex(0)
	r.addVertex(1)
	r.addVertex(2)
	r.addEdge(gr.Edge{ID: 0, Parent: 2, Child: 0, Clade: gr.Left})
	r.addEdge(gr.Edge{ID: 1, Parent: 2, Child: 1, Clade: gr.Right})
	r.connect()
	if got := r.child(2, gr.Left); got != 0 {
		t.Errorf("left child of 2 is %d, expected 0", got)
	}
	if got := r.child(2, gr.Right); got != 1 {
		t.Errorf("right child of 2 is %d, expected 1", got)
	}
	if got := r.child(0, gr.Left); got != noID {
		t.Errorf("left child of 0 is %d, expected none", got)
	}
}
