package wordfreq_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/commitclass/pkg/wordfreq"
)

const transcript = `==== Commit Messages ====

Commit ID: 3f2a9c0d1e
Fix the parser bug

Commit ID: 77bbccdd00
Refactor parser, fix tests!
Signed-off-by: Dev 42

Commit ID: aa11bb22cc
the THE The fix

`

func TestReadTranscript_SkipsHeaderAndIDs(t *testing.T) {
	t.Parallel()

	c := wordfreq.NewCounter(wordfreq.DefaultMinLength)
	require.NoError(t, c.ReadTranscript(strings.NewReader(transcript)))

	assert.Equal(t, []wordfreq.WordCount{
		{Word: "the", Count: 4},
		{Word: "fix", Count: 3},
		{Word: "parser", Count: 2},
	}, c.Top(3))

	for _, wc := range c.Top(0) {
		assert.NotContains(t, []string{"commit", "messages", "bbccdd"}, wc.Word)
	}
}

func TestReadTranscript_CountsBodyLinesWithIDLabel(t *testing.T) {
	t.Parallel()

	const in = "==== Commit Messages ====\n\n" +
		"Commit ID: 3f2a9c0d1e\n" +
		"Revert broken merge\n" +
		"Commit ID: 77bbccdd00 was wrong\n" +
		"Commit ID: abcdef\n" +
		"\n" +
		"Commit ID: 0011223344\n" +
		"Tidy\n" +
		"\n"

	c := wordfreq.NewCounter(wordfreq.DefaultMinLength)
	require.NoError(t, c.ReadTranscript(strings.NewReader(in)))

	assert.Equal(t, []wordfreq.WordCount{
		{Word: "commit", Count: 2},
		{Word: "abcdef", Count: 1},
		{Word: "bbccdd", Count: 1},
		{Word: "broken", Count: 1},
		{Word: "merge", Count: 1},
		{Word: "revert", Count: 1},
		{Word: "tidy", Count: 1},
		{Word: "was", Count: 1},
		{Word: "wrong", Count: 1},
	}, c.Top(0))
}

func TestAddText_DropsShortWordsAndNonLetters(t *testing.T) {
	t.Parallel()

	c := wordfreq.NewCounter(3)
	c.AddText("a an ant; don't v2.0 C++ x86_64 ok")

	assert.Equal(t, []wordfreq.WordCount{
		{Word: "ant", Count: 1},
		{Word: "dont", Count: 1},
	}, c.Top(0))
	assert.Equal(t, 2, c.Total())
	assert.Equal(t, 2, c.Distinct())
}

func TestTop_TiesAreAlphabetical(t *testing.T) {
	t.Parallel()

	c := wordfreq.NewCounter(1)
	c.AddText("zeta alpha mid zeta alpha mid solo")

	assert.Equal(t, []wordfreq.WordCount{
		{Word: "alpha", Count: 2},
		{Word: "mid", Count: 2},
		{Word: "zeta", Count: 2},
		{Word: "solo", Count: 1},
	}, c.Top(10))
	assert.Len(t, c.Top(2), 2)
}

func TestNewCounter_MinimumOfOne(t *testing.T) {
	t.Parallel()

	c := wordfreq.NewCounter(0)
	c.AddText("a b")

	assert.Equal(t, 2, c.Total())
}

func TestWriteReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := wordfreq.WriteReport(&buf, 10, []wordfreq.WordCount{{Word: "fix", Count: 3}, {Word: "parser", Count: 2}})
	require.NoError(t, err)

	assert.Equal(t,
		"Top 10 most used words in commit messages:\n"+
			"------------------------------------------\n"+
			"fix: 3\nparser: 2\n",
		buf.String())
}

func TestCountFile_AndReportFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "commit_messages.txt")
	require.NoError(t, os.WriteFile(in, []byte(transcript), 0o644))

	c, err := wordfreq.CountFile(in, wordfreq.DefaultMinLength)
	require.NoError(t, err)

	out := filepath.Join(dir, wordfreq.ReportFile)
	require.NoError(t, wordfreq.WriteReportFile(out, 1, c.Top(1)))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "the: 4\n"))

	_, err = wordfreq.CountFile(filepath.Join(dir, "missing.txt"), 3)
	require.ErrorIs(t, err, os.ErrNotExist)
}
