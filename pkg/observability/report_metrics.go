package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricCommitsSeen     = "commitclass.report.commits.seen.total"
	metricCommitsReported = "commitclass.report.commits.reported.total"
	metricDuplicates      = "commitclass.report.duplicates.total"
	metricWriteFailures   = "commitclass.report.write.failures.total"

	attrClass = "class"
	attrBug   = "bug_related"
	attrSink  = "sink"
)

// ReportMetrics holds OTel instruments for commit reporting.
type ReportMetrics struct {
	commitsSeen     metric.Int64Counter
	commitsReported metric.Int64Counter
	duplicates      metric.Int64Counter
	writeFailures   metric.Int64Counter
}

// NewReportMetrics creates report metric instruments from the given meter.
func NewReportMetrics(mt metric.Meter) (*ReportMetrics, error) {
	seen, err := mt.Int64Counter(metricCommitsSeen,
		metric.WithDescription("Commits presented to the reporter, duplicates included"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommitsSeen, err)
	}

	reported, err := mt.Int64Counter(metricCommitsReported,
		metric.WithDescription("Unique commits written to the logs"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricCommitsReported, err)
	}

	dups, err := mt.Int64Counter(metricDuplicates,
		metric.WithDescription("Repeated presentations of an already reported commit"),
		metric.WithUnit("{commit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricDuplicates, err)
	}

	failures, err := mt.Int64Counter(metricWriteFailures,
		metric.WithDescription("Failed report writes by sink"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricWriteFailures, err)
	}

	return &ReportMetrics{
		commitsSeen:     seen,
		commitsReported: reported,
		duplicates:      dups,
		writeFailures:   failures,
	}, nil
}

// CommitSeen counts one begin-commit event. Safe to call on a nil receiver.
func (rm *ReportMetrics) CommitSeen(ctx context.Context) {
	if rm == nil {
		return
	}

	rm.commitsSeen.Add(ctx, 1)
}

// CommitReported counts one reported commit by class and bug flag.
// Safe to call on a nil receiver.
func (rm *ReportMetrics) CommitReported(ctx context.Context, class string, bugRelated bool) {
	if rm == nil {
		return
	}

	rm.commitsReported.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrClass, class),
		attribute.Bool(attrBug, bugRelated),
	))
}

// DuplicateSkipped counts one ignored repeated presentation.
// Safe to call on a nil receiver.
func (rm *ReportMetrics) DuplicateSkipped(ctx context.Context) {
	if rm == nil {
		return
	}

	rm.duplicates.Add(ctx, 1)
}

// WriteFailed counts one failed write to the named sink.
// Safe to call on a nil receiver.
func (rm *ReportMetrics) WriteFailed(ctx context.Context, sink string) {
	if rm == nil {
		return
	}

	rm.writeFailures.Add(ctx, 1, metric.WithAttributes(attribute.String(attrSink, sink)))
}
