package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/commitclass/pkg/gitlib"
	"github.com/Sumatoshi-tech/commitclass/pkg/vdiff"
)

const tracerName = "commitclass/analysis"

// ErrInvalidLimit is returned when a negative commit limit is configured.
var ErrInvalidLimit = errors.New("commit limit must not be negative")

// errLimitReached ends the walk early without failing the run.
var errLimitReached = errors.New("commit limit reached")

// Config controls which commits and files a Runner looks at.
type Config struct {
	// Name identifies the run in logs and spans.
	Name string
	// OutputDir is passed to hooks through Analysis.OutputDir.
	OutputDir string
	// FirstParent follows only the first parent of merge commits.
	FirstParent bool
	// Limit stops the walk after this many commits. Zero means no limit.
	Limit int
	// Since stops the walk at the first commit authored before this time.
	Since *time.Time
	// Languages restricts diffs to files of these languages (case-insensitive
	// enry names). Empty means every language.
	Languages []string
	// MaxFileSize skips files larger than this many bytes. Zero disables it.
	MaxFileSize int64
	// Annotations enables preprocessor parsing for C-family files.
	Annotations bool
}

// RunStats summarizes a finished walk.
type RunStats struct {
	Commits int `json:"commits" yaml:"commits"`
	Diffs   int `json:"diffs"   yaml:"diffs"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Failed  int `json:"failed"  yaml:"failed"`
}

// Runner walks a repository's history and feeds hooks sequentially.
type Runner struct {
	repo   *gitlib.Repository
	hooks  []Hooks
	config Config
	filter fileFilter
	logger *slog.Logger
}

// NewRunner creates a Runner over repo for the given hooks.
func NewRunner(repo *gitlib.Repository, config Config, hooks ...Hooks) (*Runner, error) {
	if config.Limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, config.Limit)
	}

	if config.Name == "" {
		config.Name = "commitclass"
	}

	return &Runner{
		repo:   repo,
		hooks:  hooks,
		config: config,
		filter: newFileFilter(config.Languages, config.MaxFileSize),
		logger: slog.Default(),
	}, nil
}

// WithLogger replaces the runner's logger.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	if logger != nil {
		r.logger = logger
	}

	return r
}

// Run walks the history from HEAD, newest first. EndBatch is called on every
// hook before Run returns, whatever the outcome of the walk.
func (r *Runner) Run(ctx context.Context) (RunStats, error) {
	var stats RunStats

	ctx, span := otel.Tracer(tracerName).Start(ctx, "commitclass.run",
		trace.WithAttributes(
			attribute.String("run.name", r.config.Name),
			attribute.String("run.repository", r.repo.Path()),
			attribute.Int("run.limit", r.config.Limit),
		))
	defer span.End()

	a := NewAnalysis(ctx, r.config.Name, r.config.OutputDir)
	a.Repository = r.repo

	for _, h := range r.hooks {
		h.InitializeResults(a)
	}

	err := r.walk(ctx, a, &stats)

	a.Commit, a.Diff = nil, nil

	for _, h := range r.hooks {
		h.EndBatch(a)
	}

	span.SetAttributes(
		attribute.Int("run.commits", stats.Commits),
		attribute.Int("run.diffs", stats.Diffs),
		attribute.Int("run.skipped", stats.Skipped),
		attribute.Int("run.failed", stats.Failed),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return stats, err
	}

	r.logger.InfoContext(ctx, "analysis finished",
		"commits", stats.Commits, "diffs", stats.Diffs,
		"skipped", stats.Skipped, "failed", stats.Failed)

	return stats, nil
}

func (r *Runner) walk(ctx context.Context, a *Analysis, stats *RunStats) error {
	iter, err := r.repo.Log(&gitlib.LogOptions{Since: r.config.Since, FirstParent: r.config.FirstParent})
	if err != nil {
		return fmt.Errorf("walk history: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(commit *gitlib.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if r.config.Limit > 0 && stats.Commits >= r.config.Limit {
			return errLimitReached
		}

		a.Index = stats.Commits
		stats.Commits++

		return r.processCommit(ctx, a, commit, stats)
	})
	if errors.Is(err, errLimitReached) {
		return nil
	}

	return err
}

func (r *Runner) processCommit(ctx context.Context, a *Analysis, commit *gitlib.Commit, stats *RunStats) error {
	hash := commit.Hash().String()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "commitclass.commit",
		trace.WithAttributes(attribute.String("commit.hash", hash)))
	defer span.End()

	runCtx := a.ctx
	a.ctx = ctx
	a.Commit = commit
	a.Diff = nil

	defer func() { a.ctx, a.Commit, a.Diff = runCtx, nil, nil }()

	skip := false

	for _, h := range r.hooks {
		if h.BeginCommit(a) == Stop {
			skip = true
		}
	}

	if skip {
		r.logger.DebugContext(ctx, "commit skipped by hook", "commit", hash)

		return nil
	}

	changes, err := commit.Changes()
	if err != nil {
		span.RecordError(err)

		return fmt.Errorf("changes of %s: %w", hash, err)
	}

	span.SetAttributes(attribute.Int("commit.files", len(changes)))

	for _, change := range changes {
		diff, ok := r.buildDiff(ctx, change, stats)
		if !ok {
			continue
		}

		stats.Diffs++
		a.Diff = diff

		for _, h := range r.hooks {
			if h.AnalyzeVariationDiff(a) == Stop {
				break
			}
		}
	}

	return nil
}

// buildDiff reads both sides of a change and builds its variation diff. The
// boolean is false when the file was filtered out or its diff failed.
func (r *Runner) buildDiff(ctx context.Context, change *gitlib.Change, stats *RunStats) (*vdiff.Diff, bool) {
	name := change.Path()

	if reason := r.filter.checkPath(change); reason != skipNone {
		r.logger.DebugContext(ctx, "file skipped", "path", name, "reason", string(reason))
		stats.Skipped++

		return nil, false
	}

	oldContent, err := gitlib.ReadBlob(r.repo, change.From.Hash)
	if err == nil {
		var newContent []byte

		newContent, err = gitlib.ReadBlob(r.repo, change.To.Hash)
		if err == nil {
			return r.buildFromContents(ctx, name, oldContent, newContent, stats)
		}
	}

	r.logger.WarnContext(ctx, "cannot read file contents", "path", name, "error", err)
	stats.Failed++

	return nil, false
}

func (r *Runner) buildFromContents(
	ctx context.Context, name string, oldContent, newContent []byte, stats *RunStats,
) (*vdiff.Diff, bool) {
	lang, reason := r.filter.checkContents(name, oldContent, newContent)
	if reason != skipNone {
		r.logger.DebugContext(ctx, "file skipped", "path", name, "language", lang, "reason", string(reason))
		stats.Skipped++

		return nil, false
	}

	diff, err := vdiff.Build(name, oldContent, newContent, vdiff.Options{
		Annotations: r.config.Annotations && hasAnnotations(lang),
		Language:    lang,
	})
	if err != nil {
		r.logger.WarnContext(ctx, "cannot build variation diff", "path", name, "error", err)
		stats.Failed++

		return nil, false
	}

	return diff, true
}
