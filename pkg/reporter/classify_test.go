package reporter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitclass/pkg/editclass"
	"github.com/Sumatoshi-tech/commitclass/pkg/reporter"
	"github.com/Sumatoshi-tech/commitclass/pkg/vdiff"
)

func mustBuild(t *testing.T, before, after string) *vdiff.Diff {
	t.Helper()

	d, err := vdiff.Build("file.c", []byte(before), []byte(after), vdiff.Options{Annotations: true})
	require.NoError(t, err)

	return d
}

// byLabel classifies artifacts by their source line; unlisted lines get no
// result.
func byLabel(labels map[string]editclass.Class) editclass.Classifier {
	return editclass.ClassifierFunc(func(n *vdiff.Node) (editclass.Class, bool) {
		c, ok := labels[n.Label]

		return c, ok
	})
}

func TestIsBugRelated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		message string
		want    bool
	}{
		{"Fixed a BUG", true},
		{"Refactor naming", false},
		{"", false},
		{"bug in parser", true},
		{"hotfix", true},
		{"Handle ERROR codes", true},
		{"closes issue #12", true},
		{"Defect 42", true},
		{"add prefix option", true},
		{"Add feature\n\nNo problems here", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, reporter.IsBugRelated(tt.message), tt.message)
	}
}

func TestClassify_DefaultsToUnknown(t *testing.T) {
	t.Parallel()

	d := mustBuild(t, "a\nb\n", "a\nc\n")

	assert.Equal(t, editclass.Unknown, reporter.Classify(nil, editclass.Proposed{}))
	assert.Equal(t, editclass.Unknown, reporter.Classify(d, nil))
	assert.Equal(t, editclass.Unknown, reporter.Classify(d, byLabel(nil)))
	assert.Equal(t, editclass.Unknown, reporter.Classify(d, byLabel(map[string]editclass.Class{
		"a": editclass.Untouched,
		"c": editclass.AddToPC,
	})))
}

func TestClassify_AcceptsLabelsCaseInsensitively(t *testing.T) {
	t.Parallel()

	d := mustBuild(t, "a\n", "a\n")

	got := reporter.Classify(d, byLabel(map[string]editclass.Class{"a": "RECONFIGURATION"}))
	assert.Equal(t, editclass.Reconfiguration, got)

	got = reporter.Classify(d, byLabel(map[string]editclass.Class{"a": "refactoring"}))
	assert.Equal(t, editclass.Refactoring, got)
}

func TestClassify_FirstAcceptedInPreOrderWins(t *testing.T) {
	t.Parallel()

	src := "#ifdef X\ninner\n#endif\nouter\n"
	d := mustBuild(t, src, src)

	got := reporter.Classify(d, byLabel(map[string]editclass.Class{
		"inner": editclass.Refactoring,
		"outer": editclass.Reconfiguration,
	}))
	assert.Equal(t, editclass.Refactoring, got)

	// Rejected labels do not stop the search.
	got = reporter.Classify(d, byLabel(map[string]editclass.Class{
		"inner": editclass.Specialization,
		"outer": editclass.Reconfiguration,
	}))
	assert.Equal(t, editclass.Reconfiguration, got)
}

func TestClassify_OnlyArtifactsAreAsked(t *testing.T) {
	t.Parallel()

	d := mustBuild(t, "#ifdef X\nx\n#endif\n", "#ifdef X\nx\n#endif\n")

	var asked []string

	reporter.Classify(d, editclass.ClassifierFunc(func(n *vdiff.Node) (editclass.Class, bool) {
		asked = append(asked, n.String())

		return "", false
	}))

	assert.Equal(t, []string{"non artifact x"}, asked)
}

func TestClassify_WithProposedClassifier(t *testing.T) {
	t.Parallel()

	d := mustBuild(t, "#ifdef A\nint x;\n#endif\n", "#ifdef B\nint x;\n#endif\n")

	assert.Equal(t, editclass.Reconfiguration, reporter.Classify(d, editclass.Proposed{}))
}

func TestParseOptions(t *testing.T) {
	t.Parallel()

	loc, err := reporter.ParseLocation("")
	require.NoError(t, err)
	assert.Equal(t, reporter.LocationOutputDir, loc)

	loc, err = reporter.ParseLocation(" Working_Dir ")
	require.NoError(t, err)
	assert.Equal(t, reporter.LocationWorkingDir, loc)

	_, err = reporter.ParseLocation("home")
	require.ErrorIs(t, err, reporter.ErrInvalidLocation)

	layout, err := reporter.ParseLayout("PIPE")
	require.NoError(t, err)
	assert.Equal(t, reporter.LayoutPipe, layout)

	layout, err = reporter.ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, reporter.LayoutTab, layout)

	_, err = reporter.ParseLayout("csv")
	require.ErrorIs(t, err, reporter.ErrInvalidLayout)

	assert.Equal(t, reporter.Options{
		Location:     reporter.LocationOutputDir,
		Layout:       reporter.LayoutTab,
		LogFile:      "commit_log.txt",
		MessagesFile: "commit_messages.txt",
	}, reporter.DefaultOptions())
}
