package graphs

import (
	"fmt"
	"strings"
)

// Node is one vertex of a sampled topology. Leaves carry the tip index of
// their taxon; joins carry the id of the DAG vertex they were sampled from.
// A node with a single child only occurs at the apex, encoding the
// unifurcating-root convention for an unrooted tree. Nodes are immutable
// once built.
type Node struct {
	id       int
	children []*Node
}

// Leaf makes a terminal node labeled with a leaf vertex id.
func Leaf(id int) *Node {
	return &Node{id: id}
}

// Join makes a binary node labeled with a DAG vertex id.
func Join(left, right *Node, id int) *Node {
	return &Node{id: id, children: []*Node{left, right}}
}

// UnaryJoin makes a unifurcating apex node labeled with a DAG vertex id.
func UnaryJoin(child *Node, id int) *Node {
	return &Node{id: id, children: []*Node{child}}
}

func (n *Node) ID() int { return n.id }

// Children returns the child list; callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Tips collects the leaf vertex ids of the topology in pre-order.
func (n *Node) Tips() []int {
	tips := make([]int, 0)
	n.PreOrder(func(cur *Node) {
		if cur.IsLeaf() {
			tips = append(tips, cur.id)
		}
	})
	return tips
}

// PreOrder visits every node of the topology, parents before children.
func (n *Node) PreOrder(f func(cur *Node)) {
	f(n)
	for _, c := range n.children {
		c.PreOrder(f)
	}
}

// String renders the topology as a newick-shaped string over vertex ids
// (mainly useful for tests and debugging).
func (n *Node) String() string {
	if n.IsLeaf() {
		return fmt.Sprintf("%d", n.id)
	}
	parts := make([]string, len(n.children))
	for i, c := range n.children {
		parts[i] = c.String()
	}
	return fmt.Sprintf("(%s)%d", strings.Join(parts, ","), n.id)
}
