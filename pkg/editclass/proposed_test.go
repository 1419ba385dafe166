package editclass_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitclass/pkg/editclass"
	"github.com/Sumatoshi-tech/commitclass/pkg/vdiff"
)

// classOf builds a diff and classifies the single artifact whose label is line
// and which exists after the edit (or before, for removals).
func classOf(t *testing.T, before, after, line string) editclass.Class {
	t.Helper()

	d, err := vdiff.Build("f.c", []byte(before), []byte(after), vdiff.Options{Annotations: true})
	require.NoError(t, err)

	nodes := d.Select(func(n *vdiff.Node) bool { return n.IsArtifact() && n.Label == line })
	require.Len(t, nodes, 1, "expected one node for %q", line)

	class, ok := editclass.Proposed{}.Match(nodes[0])
	require.True(t, ok)

	return class
}

func TestProposed_Catalogue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		before string
		after  string
		line   string
		want   editclass.Class
	}{
		{
			name:   "untouched",
			before: "#ifdef A\nx;\n#endif\ny;\n",
			after:  "#ifdef A\nx;\n#endif\nz;\n",
			line:   "x;",
			want:   editclass.Untouched,
		},
		{
			name:   "add to existing condition",
			before: "#ifdef A\nx;\n#endif\n",
			after:  "#ifdef A\nx;\nnew;\n#endif\n",
			line:   "new;",
			want:   editclass.AddToPC,
		},
		{
			name:   "add with new condition",
			before: "x;\n",
			after:  "x;\n#ifdef B\nnew;\n#endif\n",
			line:   "new;",
			want:   editclass.AddWithMapping,
		},
		{
			name:   "remove from condition",
			before: "#ifdef A\nx;\nold;\n#endif\n",
			after:  "#ifdef A\nx;\n#endif\n",
			line:   "old;",
			want:   editclass.RemFromPC,
		},
		{
			name:   "remove with condition",
			before: "x;\n#ifdef B\nold;\n#endif\n",
			after:  "x;\n",
			line:   "old;",
			want:   editclass.RemWithMapping,
		},
		{
			name:   "specialization",
			before: "x;\n",
			after:  "#ifdef A\nx;\n#endif\n",
			line:   "x;",
			want:   editclass.Specialization,
		},
		{
			name:   "generalization",
			before: "#ifdef A\nx;\n#endif\n",
			after:  "x;\n",
			line:   "x;",
			want:   editclass.Generalization,
		},
		{
			name:   "reconfiguration",
			before: "#ifdef A\nx;\n#endif\n",
			after:  "#ifdef B\nx;\n#endif\n",
			line:   "x;",
			want:   editclass.Reconfiguration,
		},
		{
			name:   "refactoring",
			before: "#ifdef A\nx;\n#endif\n",
			after:  "#if defined(A)\nx;\n#endif\n",
			line:   "x;",
			want:   editclass.Refactoring,
		},
		{
			name:   "else of a replaced condition",
			before: "#ifdef A\nx;\n#else\ny;\n#endif\n",
			after:  "#ifdef B\nx;\n#else\ny;\n#endif\n",
			line:   "y;",
			want:   editclass.Reconfiguration,
		},
		{
			name:   "else of a kept condition",
			before: "#ifdef A\nx;\n#else\ny;\n#endif\n",
			after:  "#ifdef A\nz;\n#else\ny;\n#endif\n",
			line:   "y;",
			want:   editclass.Untouched,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, classOf(t, tt.before, tt.after, tt.line))
		})
	}
}

func TestProposed_IgnoresAnnotations(t *testing.T) {
	t.Parallel()

	d, err := vdiff.Build("f.c", nil, []byte("#ifdef A\nx;\n#endif\n"), vdiff.Options{Annotations: true})
	require.NoError(t, err)

	for _, n := range d.Select(func(n *vdiff.Node) bool { return !n.IsArtifact() }) {
		_, ok := editclass.Proposed{}.Match(n)
		assert.False(t, ok, n.String())
	}

	_, ok := editclass.Proposed{}.Match(nil)
	assert.False(t, ok)
}

func TestClass_Is(t *testing.T) {
	t.Parallel()

	assert.True(t, editclass.Refactoring.Is("refactoring"))
	assert.True(t, editclass.Class("RECONFIGURATION").Is("Reconfiguration"))
	assert.False(t, editclass.Untouched.Is("Refactoring"))
	assert.Equal(t, "Unknown", editclass.Unknown.Name())
	assert.Len(t, editclass.All(), 9)
}

func TestClassifierFunc(t *testing.T) {
	t.Parallel()

	var c editclass.Classifier = editclass.ClassifierFunc(func(*vdiff.Node) (editclass.Class, bool) {
		return editclass.Refactoring, true
	})

	got, ok := c.Match(nil)
	assert.True(t, ok)
	assert.Equal(t, editclass.Refactoring, got)
}
