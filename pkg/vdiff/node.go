// Package vdiff models a variation diff: the line-level difference of one file
// between two revisions, where C preprocessor annotations form a tree above
// the code lines they guard.
package vdiff

import (
	"slices"
	"strings"
)

// DiffType tells on which side of the diff a node exists.
type DiffType int

const (
	// Non nodes exist before and after the change.
	Non DiffType = iota
	// Add nodes exist only after the change.
	Add
	// Rem nodes exist only before the change.
	Rem
)

// String returns the conventional short name of the diff type.
func (d DiffType) String() string {
	switch d {
	case Add:
		return "add"
	case Rem:
		return "rem"
	default:
		return "non"
	}
}

// ExistsAt reports whether a node of this diff type exists at the given time.
func (d DiffType) ExistsAt(t Time) bool {
	switch d {
	case Add:
		return t == After
	case Rem:
		return t == Before
	default:
		return true
	}
}

// NodeType distinguishes code lines from annotation scaffolding.
type NodeType int

const (
	// Root is the single synthetic node at the top of every diff.
	Root NodeType = iota
	// If is an #if, #ifdef or #ifndef directive.
	If
	// Elif is an #elif directive.
	Elif
	// Else is an #else directive.
	Else
	// Artifact is an actual line of code.
	Artifact
)

// String returns the node type name.
func (n NodeType) String() string {
	switch n {
	case Root:
		return "root"
	case If:
		return "if"
	case Elif:
		return "elif"
	case Else:
		return "else"
	default:
		return "artifact"
	}
}

// Time selects one side of the diff.
type Time int

const (
	// Before is the parent revision.
	Before Time = iota
	// After is the revision of the commit.
	After
)

// Node is a single vertex of a variation diff.
type Node struct {
	ID       int
	DiffType DiffType
	NodeType NodeType
	// Label is the source line without its trailing newline.
	Label string
	// FromLine and ToLine are 1-based line numbers; zero when the node does
	// not exist on that side.
	FromLine int
	ToLine   int

	conjuncts    []string
	parentBefore *Node
	parentAfter  *Node
	children     []*Node
}

// IsArtifact reports whether the node is a line of code.
func (n *Node) IsArtifact() bool {
	return n.NodeType == Artifact
}

// IsAnnotation reports whether the node is a preprocessor branch.
func (n *Node) IsAnnotation() bool {
	return n.NodeType == If || n.NodeType == Elif || n.NodeType == Else
}

// IsAdd reports whether the node was added.
func (n *Node) IsAdd() bool { return n.DiffType == Add }

// IsRem reports whether the node was removed.
func (n *Node) IsRem() bool { return n.DiffType == Rem }

// IsNon reports whether the node is unchanged.
func (n *Node) IsNon() bool { return n.DiffType == Non }

// Parent returns the enclosing annotation at the given time, or nil when the
// node does not exist then or is the root.
func (n *Node) Parent(t Time) *Node {
	if t == Before {
		return n.parentBefore
	}

	return n.parentAfter
}

// Children returns the node's children in source order.
func (n *Node) Children() []*Node {
	return n.children
}

// Conjuncts returns the feature conditions this annotation contributes to the
// presence condition of its descendants. Empty for artifacts and the root.
func (n *Node) Conjuncts() []string {
	return n.conjuncts
}

// PresenceCondition returns the sorted, de-duplicated conjuncts of every
// annotation enclosing the node at the given time. An empty result means the
// node is unconditionally present (or absent at that time).
func (n *Node) PresenceCondition(t Time) []string {
	var pc []string

	for p := n.Parent(t); p != nil; p = p.Parent(t) {
		pc = append(pc, p.conjuncts...)
	}

	slices.Sort(pc)

	return slices.Compact(pc)
}

// String renders the node for debugging.
func (n *Node) String() string {
	var sb strings.Builder

	sb.WriteString(n.DiffType.String())
	sb.WriteByte(' ')
	sb.WriteString(n.NodeType.String())

	if n.Label != "" {
		sb.WriteString(" ")
		sb.WriteString(strings.TrimSpace(n.Label))
	}

	return sb.String()
}
