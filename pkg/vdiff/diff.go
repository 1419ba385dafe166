package vdiff

// Diff is the variation diff of one file.
type Diff struct {
	Path     string
	Language string

	root  *Node
	count int
}

// Root returns the synthetic root node.
func (d *Diff) Root() *Node {
	return d.root
}

// Len returns the number of nodes including the root.
func (d *Diff) Len() int {
	return d.count
}

// Walk visits nodes in pre-order: a parent before its children, children in
// source-line order. Returning false from visit stops the walk.
func (d *Diff) Walk(visit func(*Node) bool) {
	if d == nil || d.root == nil {
		return
	}

	walk(d.root, visit)
}

func walk(n *Node, visit func(*Node) bool) bool {
	if !visit(n) {
		return false
	}

	for _, child := range n.children {
		if !walk(child, visit) {
			return false
		}
	}

	return true
}

// Select returns every node satisfying pred, in pre-order.
func (d *Diff) Select(pred func(*Node) bool) []*Node {
	var out []*Node

	d.Walk(func(n *Node) bool {
		if pred(n) {
			out = append(out, n)
		}

		return true
	})

	return out
}

// Any reports whether any node satisfies pred. It stops at the first match.
func (d *Diff) Any(pred func(*Node) bool) bool {
	found := false

	d.Walk(func(n *Node) bool {
		if pred(n) {
			found = true

			return false
		}

		return true
	})

	return found
}

// IsArtifact is a predicate selecting code-line nodes.
func IsArtifact(n *Node) bool {
	return n.IsArtifact()
}

// IsChanged is a predicate selecting added or removed nodes.
func IsChanged(n *Node) bool {
	return !n.IsNon()
}
