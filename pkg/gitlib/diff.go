package gitlib

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Diff wraps a libgit2 tree-to-tree diff.
type Diff struct {
	diff *git2go.Diff
}

// NumDeltas returns the number of file deltas in the diff.
func (d *Diff) NumDeltas() (int, error) {
	n, err := d.diff.NumDeltas()
	if err != nil {
		return 0, fmt.Errorf("get num deltas: %w", err)
	}

	return n, nil
}

// Delta returns the delta at the given index.
func (d *Diff) Delta(index int) (git2go.DiffDelta, error) {
	delta, err := d.diff.Delta(index)
	if err != nil {
		return git2go.DiffDelta{}, fmt.Errorf("get delta %d: %w", index, err)
	}

	return delta, nil
}

// Free releases the diff resources.
func (d *Diff) Free() {
	if d.diff == nil {
		return
	}

	// Free errors are not actionable during cleanup.
	_ = d.diff.Free()
	d.diff = nil
}
