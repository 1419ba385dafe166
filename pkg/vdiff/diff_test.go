package vdiff_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/commitclass/pkg/vdiff"
)

func TestDiff_AnyStopsAtFirstMatch(t *testing.T) {
	t.Parallel()

	d := build(t, "a\nb\n", "a\nb\nc\n")

	visited := 0
	found := d.Any(func(n *vdiff.Node) bool {
		visited++

		return n.IsAdd()
	})

	assert.True(t, found)
	assert.Equal(t, d.Len(), visited)
	assert.True(t, d.Any(vdiff.IsChanged))
}

func TestDiff_WalkStops(t *testing.T) {
	t.Parallel()

	d := build(t, "a\nb\nc\n", "a\nb\nc\n")

	var seen []string

	d.Walk(func(n *vdiff.Node) bool {
		seen = append(seen, n.Label)

		return n.Label != "a"
	})

	assert.Equal(t, []string{"", "a"}, seen)
}

func TestDiff_NilIsEmpty(t *testing.T) {
	t.Parallel()

	var d *vdiff.Diff

	assert.Empty(t, d.Select(vdiff.IsArtifact))
	assert.False(t, d.Any(vdiff.IsArtifact))
}

func TestDiffType_ExistsAt(t *testing.T) {
	t.Parallel()

	assert.True(t, vdiff.Non.ExistsAt(vdiff.Before))
	assert.True(t, vdiff.Non.ExistsAt(vdiff.After))
	assert.True(t, vdiff.Add.ExistsAt(vdiff.After))
	assert.False(t, vdiff.Add.ExistsAt(vdiff.Before))
	assert.True(t, vdiff.Rem.ExistsAt(vdiff.Before))
	assert.False(t, vdiff.Rem.ExistsAt(vdiff.After))
}
