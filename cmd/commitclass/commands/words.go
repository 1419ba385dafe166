package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/commitclass/pkg/config"
	"github.com/Sumatoshi-tech/commitclass/pkg/reporter"
	"github.com/Sumatoshi-tech/commitclass/pkg/wordfreq"
)

// WordsCommand holds the flag values of the words command.
type WordsCommand struct {
	out       string
	format    string
	top       int
	minLength int
}

// WordsResult is what the words command renders.
type WordsResult struct {
	Source     string               `json:"source"                yaml:"source"`
	ReportPath string               `json:"report_path,omitempty" yaml:"report_path,omitempty"`
	Words      []wordfreq.WordCount `json:"words"                 yaml:"words"`
	Top        int                  `json:"top"                   yaml:"top"`
	Total      int                  `json:"total"                 yaml:"total"`
	Distinct   int                  `json:"distinct"              yaml:"distinct"`
}

// NewWordsCommand creates the words command.
func NewWordsCommand() *cobra.Command {
	wc := &WordsCommand{}

	cobraCmd := &cobra.Command{
		Use:   "words [messages-file]",
		Short: "Count the most used words in a commit message transcript",
		Long: `Read a transcript written by "commitclass analyze" and report the most
frequent words. Headers and commit id lines are ignored; words are lower-cased
letters only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: wc.run,
	}

	cobraCmd.Flags().IntVarP(&wc.top, "top", "n", config.DefaultWordsTop, "Number of words to report")
	cobraCmd.Flags().IntVar(&wc.minLength, "min-length", config.DefaultWordsMinLength, "Ignore words shorter than this")
	cobraCmd.Flags().StringVar(&wc.out, "out", "", "Report file (default: "+config.DefaultWordsFile+" next to the transcript; '-' to skip)")
	cobraCmd.Flags().StringVarP(&wc.format, "format", "f", formatText, "Output format (text, yaml, json)")

	return cobraCmd
}

func (wc *WordsCommand) run(cmd *cobra.Command, args []string) error {
	renderer, err := newRenderer(wc.format)
	if err != nil {
		return err
	}

	if wc.top <= 0 {
		return fmt.Errorf("%w: %d", config.ErrInvalidTop, wc.top)
	}

	if wc.minLength <= 0 {
		return fmt.Errorf("%w: %d", config.ErrInvalidMinLength, wc.minLength)
	}

	source := reporter.DefaultMessagesFile
	if len(args) > 0 {
		source = args[0]
	}

	counter, err := wordfreq.CountFile(source, wc.minLength)
	if err != nil {
		return err
	}

	result := WordsResult{
		Source:   source,
		Words:    counter.Top(wc.top),
		Top:      wc.top,
		Total:    counter.Total(),
		Distinct: counter.Distinct(),
	}

	switch wc.out {
	case "-":
	case "":
		result.ReportPath = filepath.Join(filepath.Dir(source), config.DefaultWordsFile)
	default:
		result.ReportPath = wc.out
	}

	if result.ReportPath != "" {
		err = wordfreq.WriteReportFile(result.ReportPath, wc.top, result.Words)
		if err != nil {
			return err
		}
	}

	return renderer.words(cmd.OutOrStdout(), result)
}
