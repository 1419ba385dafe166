package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sumatoshi-tech/commitclass/pkg/analysis"
	"github.com/Sumatoshi-tech/commitclass/pkg/config"
	"github.com/Sumatoshi-tech/commitclass/pkg/editclass"
	"github.com/Sumatoshi-tech/commitclass/pkg/gitlib"
	"github.com/Sumatoshi-tech/commitclass/pkg/observability"
	"github.com/Sumatoshi-tech/commitclass/pkg/reporter"
	"github.com/Sumatoshi-tech/commitclass/pkg/version"
	"github.com/Sumatoshi-tech/commitclass/pkg/wordfreq"
)

// Flag names shared between registration and config overrides.
const (
	flagConfig        = "config"
	flagOutput        = "output"
	flagLocation      = "location"
	flagLayout        = "layout"
	flagLogFile       = "log-file"
	flagMessagesFile  = "messages-file"
	flagFirstParent   = "first-parent"
	flagLimit         = "limit"
	flagSince         = "since"
	flagLanguages     = "languages"
	flagMaxFileSize   = "max-file-size"
	flagNoAnnotations = "no-annotations"
	flagFormat        = "format"
	flagWords         = "words"
	flagMetricsAddr   = "metrics-addr"
)

// ErrRepositoryLoad is returned when the repository cannot be opened.
var ErrRepositoryLoad = errors.New("failed to load repository")

// AnalyzeCommand holds the flag values of the analyze command.
type AnalyzeCommand struct {
	configPath    string
	output        string
	location      string
	layout        string
	logFile       string
	messagesFile  string
	since         string
	maxFileSize   string
	format        string
	metricsAddr   string
	languages     []string
	limit         int
	firstParent   bool
	noAnnotations bool
	words         bool
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	ac := &AnalyzeCommand{}

	cobraCmd := &cobra.Command{
		Use:   "analyze [repository]",
		Short: "Classify the edits of every commit and write the commit reports",
		Long: `Walk the history of a git repository, classify each commit's
variation diffs and write two reports:

  commit_log.txt       one row per commit: id, classification, bug flag, message
  commit_messages.txt  transcript of every commit message

Flags override values from the config file and COMMITCLASS_* variables.`,
		Args: cobra.MaximumNArgs(1),
		RunE: ac.run,
	}

	flags := cobraCmd.Flags()
	flags.StringVar(&ac.configPath, flagConfig, "", "Config file (default: .commitclass.yaml in . or $HOME)")
	flags.StringVarP(&ac.output, flagOutput, "o", config.DefaultOutputDirectory, "Directory for the report files")
	flags.StringVar(&ac.location, flagLocation, config.DefaultOutputLocation, "Report location (output_dir, working_dir)")
	flags.StringVar(&ac.layout, flagLayout, config.DefaultOutputLayout, "Structured log layout (tab, pipe)")
	flags.StringVar(&ac.logFile, flagLogFile, "", "Structured log file name (default depends on layout)")
	flags.StringVar(&ac.messagesFile, flagMessagesFile, config.DefaultOutputMessagesFile, "Commit message transcript file name")
	flags.BoolVar(&ac.firstParent, flagFirstParent, false, "Follow only first parent of merge commits")
	flags.IntVar(&ac.limit, flagLimit, 0, "Limit number of commits to analyze (0 = no limit)")
	flags.StringVar(&ac.since, flagSince, "", "Only analyze commits after this time (e.g., '24h', '2024-01-01', RFC3339)")
	flags.StringSliceVar(&ac.languages, flagLanguages, nil, "Only diff files of these languages (comma-separated)")
	flags.StringVar(&ac.maxFileSize, flagMaxFileSize, config.DefaultHistoryMaxFileSize, "Skip files larger than this (e.g., '512KB'; 0 = no limit)")
	flags.BoolVar(&ac.noAnnotations, flagNoAnnotations, false, "Treat C preprocessor directives as plain text")
	flags.StringVarP(&ac.format, flagFormat, "f", formatText, "Summary format (text, yaml, json)")
	flags.BoolVar(&ac.words, flagWords, false, "Also write the commit word frequency report")
	flags.StringVar(&ac.metricsAddr, flagMetricsAddr, "", "Serve Prometheus metrics on this address during the run")

	return cobraCmd
}

// AnalyzeResult is what the analyze command renders.
type AnalyzeResult struct {
	Repository string               `json:"repository"           yaml:"repository"`
	Run        analysis.RunStats    `json:"run"                  yaml:"run"`
	Report     reporter.Summary     `json:"report"               yaml:"report"`
	Words      []wordfreq.WordCount `json:"top_words,omitempty"  yaml:"top_words,omitempty"`
	WordsPath  string               `json:"words_path,omitempty" yaml:"words_path,omitempty"`
}

func (ac *AnalyzeCommand) run(cmd *cobra.Command, args []string) error {
	renderer, err := newRenderer(ac.format)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(ac.configPath)
	if err != nil {
		return err
	}

	ac.applyOverrides(cmd.Flags(), cfg)

	err = cfg.Validate()
	if err != nil {
		return fmt.Errorf("validate flags: %w", err)
	}

	uri, err := resolveRepoURI(args)
	if err != nil {
		return err
	}

	providers, err := observability.Init(cfg.Observability(version.Version))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	defer func() {
		shutdownErr := providers.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	slog.SetDefault(providers.Logger)

	serveCtx, stopServe := context.WithCancel(ctx)
	defer stopServe()

	if cfg.Telemetry.MetricsAddr != "" && providers.MetricsHandler != nil {
		_, serveErr := observability.ServeMetrics(serveCtx, cfg.Telemetry.MetricsAddr, providers.MetricsHandler, providers.Logger)
		if serveErr != nil {
			return serveErr
		}
	}

	result, err := analyzeRepository(ctx, uri, cfg, providers)
	if err != nil {
		return err
	}

	return renderer.analyze(cmd.OutOrStdout(), result)
}

// applyOverrides copies explicitly set flags over the loaded configuration.
func (ac *AnalyzeCommand) applyOverrides(flags *pflag.FlagSet, cfg *config.Config) {
	overrides := []struct {
		name  string
		apply func()
	}{
		{flagOutput, func() { cfg.Output.Directory = ac.output }},
		{flagLocation, func() { cfg.Output.Location = ac.location }},
		{flagLayout, func() { cfg.Output.Layout = ac.layout }},
		{flagLogFile, func() { cfg.Output.LogFile = ac.logFile }},
		{flagMessagesFile, func() { cfg.Output.MessagesFile = ac.messagesFile }},
		{flagFirstParent, func() { cfg.History.FirstParent = ac.firstParent }},
		{flagLimit, func() { cfg.History.Limit = ac.limit }},
		{flagSince, func() { cfg.History.Since = ac.since }},
		{flagLanguages, func() { cfg.History.Languages = ac.languages }},
		{flagMaxFileSize, func() { cfg.History.MaxFileSize = ac.maxFileSize }},
		{flagNoAnnotations, func() { cfg.History.Annotations = !ac.noAnnotations }},
		{flagWords, func() { cfg.Words.Enabled = ac.words }},
		{flagMetricsAddr, func() { cfg.Telemetry.MetricsAddr = ac.metricsAddr }},
	}

	for _, o := range overrides {
		if flags.Changed(o.name) {
			o.apply()
		}
	}
}

// analyzeRepository runs the reporter over the repository history and, when
// enabled, the word frequency report over the resulting transcript.
func analyzeRepository(ctx context.Context, uri string, cfg *config.Config, providers observability.Providers) (AnalyzeResult, error) {
	runnerConfig, err := runnerConfigFrom(cfg)
	if err != nil {
		return AnalyzeResult{}, err
	}

	opts, err := cfg.ReporterOptions()
	if err != nil {
		return AnalyzeResult{}, err
	}

	repository, err := loadRepository(uri)
	if err != nil {
		return AnalyzeResult{}, err
	}
	defer repository.Free()

	metrics, err := observability.NewReportMetrics(providers.Meter)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("create report metrics: %w", err)
	}

	rep := reporter.New(editclass.Proposed{}, opts).
		WithLogger(providers.Logger).
		WithMetrics(metrics)

	runner, err := analysis.NewRunner(repository, runnerConfig, rep)
	if err != nil {
		return AnalyzeResult{}, err
	}

	stats, err := runner.WithLogger(providers.Logger).Run(ctx)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("analyze %s: %w", uri, err)
	}

	result := AnalyzeResult{Repository: uri, Run: stats, Report: rep.Summary()}

	if cfg.Words.Enabled && result.Report.MessagesPath != "" {
		result.Words, result.WordsPath = wordReport(ctx, providers.Logger, result.Report.MessagesPath, cfg.Words)
	}

	return result, nil
}

func runnerConfigFrom(cfg *config.Config) (analysis.Config, error) {
	maxSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return analysis.Config{}, err
	}

	since, err := cfg.SinceTime()
	if err != nil {
		return analysis.Config{}, err
	}

	return analysis.Config{
		Name:        "commitclass",
		OutputDir:   cfg.Output.Directory,
		FirstParent: cfg.History.FirstParent,
		Limit:       cfg.History.Limit,
		Since:       since,
		Languages:   cfg.History.Languages,
		MaxFileSize: maxSize,
		Annotations: cfg.History.Annotations,
	}, nil
}

// wordReport writes the word frequency report next to the transcript.
// Failures are logged; the commit reports are already complete.
func wordReport(ctx context.Context, logger *slog.Logger, messagesPath string, words config.WordsConfig) ([]wordfreq.WordCount, string) {
	counter, err := wordfreq.CountFile(messagesPath, words.MinLength)
	if err != nil {
		logger.WarnContext(ctx, "word frequency report skipped", "error", err)

		return nil, ""
	}

	top := counter.Top(words.Top)
	path := filepath.Join(filepath.Dir(messagesPath), words.File)

	err = wordfreq.WriteReportFile(path, words.Top, top)
	if err != nil {
		logger.WarnContext(ctx, "word frequency report not written", "path", path, "error", err)

		return top, ""
	}

	return top, path
}

func resolveRepoURI(args []string) (string, error) {
	uri := "."
	if len(args) > 0 {
		uri = args[0]
	}

	if strings.HasPrefix(uri, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}

		uri = strings.Replace(uri, "~", home, 1)
	}

	return uri, nil
}

func loadRepository(uri string) (*gitlib.Repository, error) {
	repository, err := gitlib.LoadRepository(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRepositoryLoad, err)
	}

	return repository, nil
}
