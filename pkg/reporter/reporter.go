// Package reporter writes one line per analysed commit to a structured log and
// the commit's message to a transcript. Reporting is best effort: no failure
// in this package stops the history walk that drives it.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Sumatoshi-tech/commitclass/pkg/analysis"
	"github.com/Sumatoshi-tech/commitclass/pkg/editclass"
	"github.com/Sumatoshi-tech/commitclass/pkg/observability"
	"github.com/Sumatoshi-tech/commitclass/pkg/vdiff"
)

const dirPerm = 0o755

// ErrReportPanic wraps a panic recovered while reporting a commit.
var ErrReportPanic = errors.New("panic while reporting commit")

type state int

const (
	stateNew state = iota
	stateOpen
	stateDisabled // initialization failed; reporting is a no-op
	stateFinalized
)

// Summary describes a finished reporting run.
type Summary struct {
	// CommitsSeen counts begin-commit events, duplicates included.
	CommitsSeen int `json:"commits_seen" yaml:"commits_seen"`
	// CommitsReported is the number of unique commit ids reported.
	CommitsReported int            `json:"commits_reported" yaml:"commits_reported"`
	BugRelated      int            `json:"bug_related"      yaml:"bug_related"`
	Classes         map[string]int `json:"classes"          yaml:"classes"`
	Failures        int            `json:"failures"         yaml:"failures"`
	LogPath         string         `json:"log_path"         yaml:"log_path"`
	MessagesPath    string         `json:"messages_path"    yaml:"messages_path"`
}

// Reporter classifies commits and appends them to the structured log and the
// message transcript. Each commit id is reported at most once per run. All
// methods are safe for concurrent use.
type Reporter struct {
	mu sync.Mutex

	classifier editclass.Classifier
	opts       Options
	logger     *slog.Logger
	metrics    *observability.ReportMetrics

	state      state
	log        *sink
	transcript *sink
	seen       map[string]struct{}
	commits    int
	bugs       int
	classes    map[string]int
	failures   int
	summary    Summary
}

// New creates a Reporter that labels commits with classifier.
func New(classifier editclass.Classifier, opts Options) *Reporter {
	return &Reporter{
		classifier: classifier,
		opts:       opts.withDefaults(),
		logger:     slog.Default(),
		seen:       map[string]struct{}{},
		classes:    map[string]int{},
	}
}

// WithLogger replaces the reporter's logger.
func (r *Reporter) WithLogger(logger *slog.Logger) *Reporter {
	if logger != nil {
		r.logger = logger
	}

	return r
}

// WithMetrics attaches metric instruments. A nil value disables metrics.
func (r *Reporter) WithMetrics(metrics *observability.ReportMetrics) *Reporter {
	r.metrics = metrics

	return r
}

// Initialize creates the report directory and truncates both report files,
// writing their headers, and starts a fresh run. On failure the error is
// logged and returned, and the reporter stays a no-op until the next
// Initialize.
func (r *Reporter) Initialize(ctx context.Context, outputDir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closeSinks(ctx)

	r.seen = map[string]struct{}{}
	r.classes = map[string]int{}
	r.commits, r.bugs, r.failures = 0, 0, 0
	r.summary = Summary{}

	err := r.openSinks(outputDir)
	if err != nil {
		r.state = stateDisabled
		r.logger.ErrorContext(ctx, "commit reporting disabled", "error", err)

		return err
	}

	r.state = stateOpen
	r.logger.InfoContext(ctx, "report files created", "log", r.log.path, "messages", r.transcript.path)

	return nil
}

func (r *Reporter) openSinks(outputDir string) error {
	dir, err := r.opts.Location.resolve(outputDir)
	if err != nil {
		return err
	}

	err = os.MkdirAll(dir, dirPerm)
	if err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	logSink, err := openSink(sinkLog, filepath.Join(dir, r.opts.LogFile), logHeader(r.opts.Layout))
	if err != nil {
		return err
	}

	transcript, err := openSink(sinkTranscript, filepath.Join(dir, r.opts.MessagesFile), transcriptHeaderLines())
	if err != nil {
		return errors.Join(err, logSink.close())
	}

	r.log, r.transcript = logSink, transcript

	return nil
}

// OnCommitBegin counts a commit presentation. It never vetoes the commit.
func (r *Reporter) OnCommitBegin(ctx context.Context) analysis.Action {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == stateOpen || r.state == stateDisabled {
		r.commits++
		r.metrics.CommitSeen(ctx)
	}

	return analysis.Continue
}

// OnDiffReady reports the commit unless its id was already reported in this
// run. Failures are logged and counted, never returned.
func (r *Reporter) OnDiffReady(ctx context.Context, commitID, message string, diff *vdiff.Diff) analysis.Action {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != stateOpen {
		return analysis.Continue
	}

	if _, dup := r.seen[commitID]; dup {
		r.metrics.DuplicateSkipped(ctx)

		return analysis.Continue
	}

	r.seen[commitID] = struct{}{}

	err := r.report(ctx, commitID, message, diff)
	if err != nil {
		r.logger.ErrorContext(ctx, "cannot report commit", "commit", commitID, "error", err)
	}

	return analysis.Continue
}

func (r *Reporter) report(ctx context.Context, commitID, message string, diff *vdiff.Diff) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.failures++
			err = fmt.Errorf("%w: %v", ErrReportPanic, p)
		}
	}()

	rec := Record{
		CommitID:   commitID,
		Message:    message,
		Class:      Classify(diff, r.classifier).Name(),
		BugRelated: IsBugRelated(message),
	}

	r.classes[rec.Class]++

	if rec.BugRelated {
		r.bugs++
	}

	r.metrics.CommitReported(ctx, rec.Class, rec.BugRelated)
	r.logger.DebugContext(ctx, "commit reported",
		"commit", commitID, "class", rec.Class, "bug_related", rec.BugRelated)

	logErr := r.log.writeLines(logLine(r.opts.Layout, rec))
	if logErr != nil {
		r.writeFailed(ctx, sinkLog)
	}

	transcriptErr := r.transcript.writeLines(transcriptBlock(rec)...)
	if transcriptErr != nil {
		r.writeFailed(ctx, sinkTranscript)
	}

	return errors.Join(logErr, transcriptErr)
}

func (r *Reporter) writeFailed(ctx context.Context, sinkName string) {
	r.failures++
	r.metrics.WriteFailed(ctx, sinkName)
}

// Finalize logs the run totals, closes both report files and returns the
// run summary. Later calls return the same summary until the next
// Initialize.
func (r *Reporter) Finalize(ctx context.Context) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == stateNew || r.state == stateFinalized {
		return r.summary
	}

	r.summary = Summary{
		CommitsSeen:     r.commits,
		CommitsReported: len(r.seen),
		BugRelated:      r.bugs,
		Classes:         r.classes,
		Failures:        r.failures,
	}

	if r.log != nil {
		r.summary.LogPath = r.log.path
		r.summary.MessagesPath = r.transcript.path
	}

	r.logger.InfoContext(ctx, "commit reporting finished",
		"commits_seen", r.summary.CommitsSeen,
		"unique_commits", r.summary.CommitsReported,
		"bug_related", r.summary.BugRelated,
		"failures", r.summary.Failures)

	r.closeSinks(ctx)
	r.state = stateFinalized

	return r.summary
}

// Summary returns the summary of the last finalized run.
func (r *Reporter) Summary() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.summary
}

func (r *Reporter) closeSinks(ctx context.Context) {
	for _, s := range []*sink{r.log, r.transcript} {
		err := s.close()
		if err != nil {
			r.logger.WarnContext(ctx, "cannot close report file", "path", s.path, "error", err)
		}
	}

	r.log, r.transcript = nil, nil
}

// InitializeResults implements analysis.Hooks.
func (r *Reporter) InitializeResults(a *analysis.Analysis) {
	_ = r.Initialize(a.Context(), a.OutputDir) //nolint:errcheck // logged by Initialize; reporting is best effort.
}

// BeginCommit implements analysis.Hooks.
func (r *Reporter) BeginCommit(a *analysis.Analysis) analysis.Action {
	return r.OnCommitBegin(a.Context())
}

// AnalyzeVariationDiff implements analysis.Hooks.
func (r *Reporter) AnalyzeVariationDiff(a *analysis.Analysis) analysis.Action {
	var message string
	if a.Commit != nil {
		message = a.Commit.Message()
	}

	return r.OnDiffReady(a.Context(), a.CommitID(), message, a.Diff)
}

// EndBatch implements analysis.Hooks.
func (r *Reporter) EndBatch(a *analysis.Analysis) {
	r.Finalize(a.Context())
}

var _ analysis.Hooks = (*Reporter)(nil)
