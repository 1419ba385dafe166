// Package analysis drives hooks over the history of a repository: it walks
// commits, builds a variation diff for every changed file and hands each diff
// to the registered hooks.
package analysis

import (
	"context"

	"github.com/Sumatoshi-tech/commitclass/pkg/gitlib"
	"github.com/Sumatoshi-tech/commitclass/pkg/vdiff"
)

// Action tells the runner whether to keep going after a hook call.
type Action int

const (
	// Continue proceeds with the traversal.
	Continue Action = iota
	// Stop skips the rest of the current unit of work: the commit when
	// returned from BeginCommit, the remaining hooks when returned from
	// AnalyzeVariationDiff.
	Stop
)

// String returns the action name.
func (a Action) String() string {
	if a == Stop {
		return "stop"
	}

	return "continue"
}

// Commit is the part of a commit hooks may look at.
type Commit interface {
	Hash() gitlib.Hash
	Message() string
}

// Hooks receive the lifecycle events of one analysis run.
type Hooks interface {
	// InitializeResults is called once before the first commit.
	InitializeResults(a *Analysis)
	// BeginCommit is called once per commit before any of its diffs.
	BeginCommit(a *Analysis) Action
	// AnalyzeVariationDiff is called once per changed file of the current
	// commit, so the same commit is seen several times.
	AnalyzeVariationDiff(a *Analysis) Action
	// EndBatch is called once after the last commit, also when the run
	// failed or was cancelled.
	EndBatch(a *Analysis)
}

// Analysis is the state shared with hooks during a run. Commit and Diff are
// only valid for the duration of the hook call that observes them.
type Analysis struct {
	// Name identifies the run in logs.
	Name string
	// OutputDir is where hooks should place their results.
	OutputDir string
	// Repository is the repository being walked. Nil in unit tests.
	Repository *gitlib.Repository
	// Commit is the commit currently being processed.
	Commit Commit
	// Diff is the variation diff of the file currently being processed.
	Diff *vdiff.Diff
	// Index counts commits from zero in walk order.
	Index int

	ctx context.Context //nolint:containedctx // hooks have no context parameter.
}

// NewAnalysis creates the shared state for a run writing into outputDir.
func NewAnalysis(ctx context.Context, name, outputDir string) *Analysis {
	return &Analysis{Name: name, OutputDir: outputDir, ctx: ctx}
}

// Context returns the run's context, or context.Background when none is set.
func (a *Analysis) Context() context.Context {
	if a == nil || a.ctx == nil {
		return context.Background()
	}

	return a.ctx
}

// CommitID returns the hex id of the current commit, or "" when there is none.
func (a *Analysis) CommitID() string {
	if a == nil || a.Commit == nil {
		return ""
	}

	return a.Commit.Hash().String()
}
