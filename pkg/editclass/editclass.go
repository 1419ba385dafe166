// Package editclass labels the artifact nodes of a variation diff with the
// kind of edit they underwent.
package editclass

import (
	"strings"

	"github.com/Sumatoshi-tech/commitclass/pkg/vdiff"
)

// Class is an edit-class label.
type Class string

// Name returns the label name.
func (c Class) Name() string {
	return string(c)
}

// Is reports whether the class has the given name, ignoring case.
func (c Class) Is(name string) bool {
	return strings.EqualFold(string(c), name)
}

// Labels produced by the proposed catalogue.
const (
	AddToPC         Class = "AddToPC"
	AddWithMapping  Class = "AddWithMapping"
	RemFromPC       Class = "RemFromPC"
	RemWithMapping  Class = "RemWithMapping"
	Specialization  Class = "Specialization"
	Generalization  Class = "Generalization"
	Reconfiguration Class = "Reconfiguration"
	Refactoring     Class = "Refactoring"
	Untouched       Class = "Untouched"
	// Unknown is not produced by any classifier; consumers use it when no
	// label applies.
	Unknown Class = "Unknown"
)

// All lists the labels of the proposed catalogue in a stable order.
func All() []Class {
	return []Class{
		AddToPC, AddWithMapping, RemFromPC, RemWithMapping,
		Specialization, Generalization, Reconfiguration, Refactoring, Untouched,
	}
}

// Classifier matches a single diff node to an edit class. The boolean is
// false when the node has no class (for example annotation nodes).
type Classifier interface {
	Match(node *vdiff.Node) (Class, bool)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(node *vdiff.Node) (Class, bool)

// Match calls f(node).
func (f ClassifierFunc) Match(node *vdiff.Node) (Class, bool) {
	return f(node)
}
