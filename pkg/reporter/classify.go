package reporter

import (
	"github.com/Sumatoshi-tech/commitclass/pkg/editclass"
	"github.com/Sumatoshi-tech/commitclass/pkg/vdiff"
)

// acceptedClasses are the only labels a commit is reported with; anything
// else is reported as Unknown.
var acceptedClasses = []editclass.Class{editclass.Refactoring, editclass.Reconfiguration}

// Classify returns the first accepted label the classifier assigns to an
// artifact of d, visiting artifacts in pre-order (a parent before its
// children, siblings in source-line order). It returns Unknown when no
// artifact gets an accepted label, and for a nil diff or classifier.
func Classify(d *vdiff.Diff, classifier editclass.Classifier) editclass.Class {
	if d == nil || classifier == nil {
		return editclass.Unknown
	}

	for _, node := range d.Select(vdiff.IsArtifact) {
		class, ok := classifier.Match(node)
		if !ok {
			continue
		}

		for _, accepted := range acceptedClasses {
			if class.Is(accepted.Name()) {
				return accepted
			}
		}
	}

	return editclass.Unknown
}
