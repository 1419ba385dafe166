package analysis_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitclass/pkg/analysis"
	"github.com/Sumatoshi-tech/commitclass/pkg/gitlib"
)

// recorder logs every hook call it receives.
type recorder struct {
	events     []string
	stopBegin  bool
	stopDiff   bool
	initOutput string
}

func (r *recorder) InitializeResults(a *analysis.Analysis) {
	r.initOutput = a.OutputDir
	r.events = append(r.events, "init")
}

func (r *recorder) BeginCommit(a *analysis.Analysis) analysis.Action {
	r.events = append(r.events, fmt.Sprintf("begin %d %s", a.Index, a.Commit.Message()))

	if r.stopBegin {
		return analysis.Stop
	}

	return analysis.Continue
}

func (r *recorder) AnalyzeVariationDiff(a *analysis.Analysis) analysis.Action {
	r.events = append(r.events, fmt.Sprintf("diff %s %s", a.Commit.Message(), a.Diff.Path))

	if r.stopDiff {
		return analysis.Stop
	}

	return analysis.Continue
}

func (r *recorder) EndBatch(a *analysis.Analysis) {
	r.events = append(r.events, "end")
}

type scratchRepo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
	when   time.Time
}

func newScratchRepo(t *testing.T) *scratchRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return &scratchRepo{t: t, path: dir, native: repo, when: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (s *scratchRepo) write(name, content string) {
	s.t.Helper()

	path := filepath.Join(s.path, name)
	require.NoError(s.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(s.t, os.WriteFile(path, []byte(content), 0o644))
}

func (s *scratchRepo) commit(message string) {
	s.t.Helper()

	index, err := s.native.Index()
	require.NoError(s.t, err)
	defer index.Free()

	require.NoError(s.t, index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil))
	require.NoError(s.t, index.Write())

	treeID, err := index.WriteTree()
	require.NoError(s.t, err)

	tree, err := s.native.LookupTree(treeID)
	require.NoError(s.t, err)
	defer tree.Free()

	s.when = s.when.Add(time.Hour)
	sig := &git2go.Signature{Name: "Dev", Email: "dev@example.com", When: s.when}

	var parents []*git2go.Commit

	if head, headErr := s.native.Head(); headErr == nil {
		parent, lookupErr := s.native.LookupCommit(head.Target())
		require.NoError(s.t, lookupErr)

		parents = append(parents, parent)

		head.Free()
	}

	_, err = s.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(s.t, err)

	for _, p := range parents {
		p.Free()
	}
}

func (s *scratchRepo) open() *gitlib.Repository {
	s.t.Helper()

	repo, err := gitlib.OpenRepository(s.path)
	require.NoError(s.t, err)

	s.t.Cleanup(repo.Free)

	return repo
}

// twoCommits creates a root commit adding two C files and a second commit
// touching one of them.
func twoCommits(t *testing.T) *scratchRepo {
	t.Helper()

	s := newScratchRepo(t)
	s.write("a.c", "int a;\n")
	s.write("b.c", "#ifdef B\nint b;\n#endif\n")
	s.commit("first")
	s.write("a.c", "int a = 1;\n")
	s.commit("second")

	return s
}

func run(t *testing.T, repo *gitlib.Repository, cfg analysis.Config, hooks ...analysis.Hooks) analysis.RunStats {
	t.Helper()

	r, err := analysis.NewRunner(repo, cfg, hooks...)
	require.NoError(t, err)

	stats, err := r.Run(context.Background())
	require.NoError(t, err)

	return stats
}

func TestRunner_PresentsCommitOncePerFile(t *testing.T) {
	t.Parallel()

	repo := twoCommits(t).open()
	rec := &recorder{}

	stats := run(t, repo, analysis.Config{OutputDir: "out", Annotations: true}, rec)

	assert.Equal(t, []string{
		"init",
		"begin 0 second",
		"diff second a.c",
		"begin 1 first",
		"diff first a.c",
		"diff first b.c",
		"end",
	}, rec.events)
	assert.Equal(t, "out", rec.initOutput)
	assert.Equal(t, analysis.RunStats{Commits: 2, Diffs: 3}, stats)
}

func TestRunner_StopOnBeginSkipsCommit(t *testing.T) {
	t.Parallel()

	repo := twoCommits(t).open()
	rec := &recorder{stopBegin: true}

	stats := run(t, repo, analysis.Config{}, rec)

	assert.Equal(t, []string{"init", "begin 0 second", "begin 1 first", "end"}, rec.events)
	assert.Zero(t, stats.Diffs)
}

func TestRunner_StopOnDiffSkipsLaterHooks(t *testing.T) {
	t.Parallel()

	repo := twoCommits(t).open()
	first := &recorder{stopDiff: true}
	second := &recorder{}

	run(t, repo, analysis.Config{Limit: 1}, first, second)

	assert.Contains(t, first.events, "diff second a.c")
	assert.NotContains(t, second.events, "diff second a.c")
	assert.Contains(t, second.events, "begin 0 second")
}

func TestRunner_Limit(t *testing.T) {
	t.Parallel()

	repo := twoCommits(t).open()
	rec := &recorder{}

	stats := run(t, repo, analysis.Config{Limit: 1}, rec)

	assert.Equal(t, 1, stats.Commits)
	assert.Equal(t, []string{"init", "begin 0 second", "diff second a.c", "end"}, rec.events)
}

func TestRunner_NegativeLimit(t *testing.T) {
	t.Parallel()

	_, err := analysis.NewRunner(nil, analysis.Config{Limit: -1})
	require.ErrorIs(t, err, analysis.ErrInvalidLimit)
}

func TestRunner_FiltersFiles(t *testing.T) {
	t.Parallel()

	s := newScratchRepo(t)
	s.write("main.c", "int main;\n")
	s.write("tool.go", "package main\n")
	s.write("vendor/lib.c", "int lib;\n")
	s.write("blob.bin", "\x00\x01\x02\x00")
	s.commit("mixed")

	rec := &recorder{}
	stats := run(t, s.open(), analysis.Config{Languages: []string{"C"}}, rec)

	assert.Equal(t, []string{"init", "begin 0 mixed", "diff mixed main.c", "end"}, rec.events)
	assert.Equal(t, 1, stats.Diffs)
	assert.Equal(t, 3, stats.Skipped)
}

func TestRunner_MaxFileSize(t *testing.T) {
	t.Parallel()

	s := newScratchRepo(t)
	s.write("small.c", "int s;\n")
	s.write("large.c", "int l0, l1, l2, l3, l4, l5, l6, l7, l8, l9;\n")
	s.commit("sizes")

	rec := &recorder{}
	stats := run(t, s.open(), analysis.Config{MaxFileSize: 16}, rec)

	assert.Contains(t, rec.events, "diff sizes small.c")
	assert.NotContains(t, rec.events, "diff sizes large.c")
	assert.Equal(t, 1, stats.Skipped)
}

func TestRunner_UnbalancedFileIsCounted(t *testing.T) {
	t.Parallel()

	s := newScratchRepo(t)
	s.write("broken.c", "#ifdef A\nint a;\n")
	s.write("fine.c", "int f;\n")
	s.commit("partial")

	rec := &recorder{}
	stats := run(t, s.open(), analysis.Config{Annotations: true}, rec)

	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Diffs)
	assert.Contains(t, rec.events, "diff partial fine.c")

	// Without annotation parsing the same file is just lines of code.
	rec = &recorder{}
	stats = run(t, s.open(), analysis.Config{}, rec)

	assert.Zero(t, stats.Failed)
	assert.Equal(t, 2, stats.Diffs)
}

func TestRunner_CancelledStillEndsBatch(t *testing.T) {
	t.Parallel()

	repo := twoCommits(t).open()
	rec := &recorder{}

	r, err := analysis.NewRunner(repo, analysis.Config{}, rec)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = r.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"init", "end"}, rec.events)
}

func TestAnalysis_Accessors(t *testing.T) {
	t.Parallel()

	var nilAnalysis *analysis.Analysis

	assert.NotNil(t, nilAnalysis.Context())
	assert.Empty(t, nilAnalysis.CommitID())

	a := analysis.NewAnalysis(context.Background(), "run", "dir")
	a.Commit = gitlib.NewTestCommit(gitlib.NewHash("0123456789abcdef0123456789abcdef01234567"), "msg")

	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", a.CommitID())
	assert.Equal(t, "stop", analysis.Stop.String())
	assert.Equal(t, "continue", analysis.Continue.String())
}
