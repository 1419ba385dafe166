package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/commitclass/pkg/wordfreq"
)

// Output formats.
const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

// ErrInvalidFormat is returned for an unknown --format value.
var ErrInvalidFormat = errors.New("invalid output format")

type renderer struct {
	format string
}

func newRenderer(format string) (renderer, error) {
	switch f := strings.ToLower(format); f {
	case formatText, formatYAML, formatJSON:
		return renderer{format: f}, nil
	default:
		return renderer{}, fmt.Errorf("%w: %q (want text, yaml or json)", ErrInvalidFormat, format)
	}
}

func (r renderer) analyze(w io.Writer, result AnalyzeResult) error {
	switch r.format {
	case formatYAML:
		return writeYAML(w, result)
	case formatJSON:
		return writeJSON(w, result)
	}

	heading := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w, heading.Sprintf("Commit classification: %s", result.Repository))

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRows([]table.Row{
		{"Commits walked", humanize.Comma(int64(result.Run.Commits))},
		{"Diffs analyzed", humanize.Comma(int64(result.Run.Diffs))},
		{"Files skipped", humanize.Comma(int64(result.Run.Skipped))},
		{"Diff failures", humanize.Comma(int64(result.Run.Failed))},
		{"Commits seen", humanize.Comma(int64(result.Report.CommitsSeen))},
		{"Unique commits", humanize.Comma(int64(result.Report.CommitsReported))},
		{"Bug-related", humanize.Comma(int64(result.Report.BugRelated))},
		{"Report failures", humanize.Comma(int64(result.Report.Failures))},
	})
	tbl.Render()

	if len(result.Report.Classes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading.Sprint("Classifications"))

		classes := newTable(w)
		classes.AppendHeader(table.Row{"Class", "Commits"})

		names := make([]string, 0, len(result.Report.Classes))
		for name := range result.Report.Classes {
			names = append(names, name)
		}

		slices.Sort(names)

		for _, name := range names {
			classes.AppendRow(table.Row{name, humanize.Comma(int64(result.Report.Classes[name]))})
		}

		classes.Render()
	}

	if len(result.Words) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, heading.Sprint("Top words"))
		renderWords(w, result.Words)
	}

	fmt.Fprintln(w)

	for _, path := range []string{result.Report.LogPath, result.Report.MessagesPath, result.WordsPath} {
		if path != "" {
			fmt.Fprintf(w, "wrote %s\n", path)
		}
	}

	return nil
}

func (r renderer) words(w io.Writer, result WordsResult) error {
	switch r.format {
	case formatYAML:
		return writeYAML(w, result)
	case formatJSON:
		return writeJSON(w, result)
	}

	heading := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(w, heading.Sprintf("Top %d words in %s", result.Top, result.Source))
	renderWords(w, result.Words)
	fmt.Fprintf(w, "%s words, %s distinct\n", humanize.Comma(int64(result.Total)), humanize.Comma(int64(result.Distinct)))

	if result.ReportPath != "" {
		fmt.Fprintf(w, "wrote %s\n", result.ReportPath)
	}

	return nil
}

func renderWords(w io.Writer, words []wordfreq.WordCount) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Word", "Count"})

	for _, wc := range words {
		tbl.AppendRow(table.Row{wc.Word, humanize.Comma(int64(wc.Count))})
	}

	tbl.Render()
}

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false
	tbl.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})

	return tbl
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}

	return enc.Close()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}
