package editclass

import (
	"slices"

	"github.com/Sumatoshi-tech/commitclass/pkg/vdiff"
)

// Proposed classifies artifacts by comparing their presence conditions
// before and after the edit. Conditions are compared as sets of conjuncts,
// which is a syntactic approximation of logical equivalence.
type Proposed struct{}

// Match implements Classifier.
func (Proposed) Match(node *vdiff.Node) (Class, bool) {
	if node == nil || !node.IsArtifact() {
		return "", false
	}

	switch node.DiffType {
	case vdiff.Add:
		if p := node.Parent(vdiff.After); p != nil && p.IsAnnotation() && p.IsAdd() {
			return AddWithMapping, true
		}

		return AddToPC, true
	case vdiff.Rem:
		if p := node.Parent(vdiff.Before); p != nil && p.IsAnnotation() && p.IsRem() {
			return RemWithMapping, true
		}

		return RemFromPC, true
	default:
		return matchUnchanged(node), true
	}
}

func matchUnchanged(node *vdiff.Node) Class {
	before := node.PresenceCondition(vdiff.Before)
	after := node.PresenceCondition(vdiff.After)

	switch {
	case slices.Equal(before, after):
		if node.Parent(vdiff.Before) == node.Parent(vdiff.After) {
			return Untouched
		}

		return Refactoring
	case subset(after, before):
		// Fewer conjuncts after the edit: the line is present in more variants.
		return Generalization
	case subset(before, after):
		return Specialization
	default:
		return Reconfiguration
	}
}

// subset reports whether every element of a is in b. Both are sorted.
func subset(a, b []string) bool {
	for _, x := range a {
		if _, found := slices.BinarySearch(b, x); !found {
			return false
		}
	}

	return true
}
