package analysis

import (
	"context"
	"testing"

	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/cheerioskun/matchninja/internal/pattern"
	"github.com/cheerioskun/matchninja/internal/scanner"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCorpus(t *testing.T, files map[string]string) (afero.Fs, *models.Corpus) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, "/corpus/"+name, []byte(content), 0644))
	}
	corpus, err := scanner.NewCorpusScanner(fs).ScanCorpus("/corpus")
	require.NoError(t, err)
	return fs, corpus
}

func TestAnalyzeLines(t *testing.T) {
	fs, corpus := newCorpus(t, map[string]string{
		"a.log": "abcd!\nabcge\nzzz\n",
		"b.log": "abce?\nabcf\n",
	})
	m := pattern.MustCompile("abc(d|e|f).")

	report, err := NewAnalyzer(fs).Analyze(context.Background(), m, corpus, Options{})
	require.NoError(t, err)

	assert.Equal(t, "abc(d|e|f).", report.Pattern)
	assert.Len(t, report.Tokens, 3)
	assert.Equal(t, int64(5), report.Candidates)
	assert.Equal(t, int64(2), report.FullMatches)
	assert.Equal(t, 3, report.BestMatchLength)
	assert.Equal(t, 3, m.BestMatchLength())

	require.Len(t, report.Histogram, 4)
	assert.Equal(t, int64(1), report.Histogram[0].Count) // zzz
	assert.Equal(t, int64(1), report.Histogram[1].Count) // abcge
	assert.Equal(t, int64(1), report.Histogram[2].Count) // abcf
	assert.Equal(t, int64(2), report.Histogram[3].Count)

	require.Len(t, report.Files, 2)
	assert.Equal(t, "a.log", report.Files[0].Path)
	assert.Equal(t, []string{"abcd!", "abce?"}, report.Samples)
	assert.Equal(t, []string{"abcf", "abcge", "zzz"}, report.UnmatchedWords)
}

func TestAnalyzeWordsAndTimestamps(t *testing.T) {
	fs, corpus := newCorpus(t, map[string]string{
		"app.log": "2024-03-01 10:20:30 error: disk  full\n2024-03-01 10:20:31 warn: disk ok\n",
	})
	m := pattern.MustCompile("(error|warn):")

	report, err := NewAnalyzer(fs).Analyze(context.Background(), m, corpus, Options{
		Split:           models.SplitWords,
		StripTimestamps: true,
	})
	require.NoError(t, err)

	// Empty words between double spaces are skipped.
	assert.Equal(t, int64(6), report.Candidates)
	assert.Equal(t, int64(2), report.FullMatches)
	assert.Equal(t, []string{"disk", "full", "ok"}, report.UnmatchedWords)
	assert.Equal(t, models.SplitWords, report.Split)
}

func TestAnalyzeSkipsUnselected(t *testing.T) {
	fs, corpus := newCorpus(t, map[string]string{
		"a.log": "x\n",
		"b.log": "x\n",
	})
	corpus.ToggleFileSelection("b.log")

	report, err := NewAnalyzer(fs).Analyze(context.Background(), pattern.MustCompile("x"), corpus, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.FileCount())
	assert.Equal(t, int64(1), report.FullMatches)
}

func TestAnalyzeCancelled(t *testing.T) {
	fs, corpus := newCorpus(t, map[string]string{"a.log": "x\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAnalyzer(fs).Analyze(ctx, pattern.MustCompile("x"), corpus, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCancelCheckCountsUnevenSteps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	check := cancelCheck{ctx: ctx}

	// Three words per line never land on a multiple of the interval
	seen := 0
	var err error
	for err == nil && seen < 10*cancelCheckInterval {
		seen += 3
		err = check.tick(3)
	}
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, seen, cancelCheckInterval+2)
}

func TestAnalyzeCandidatesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAnalyzer(afero.NewMemMapFs()).AnalyzeCandidates(
		ctx, pattern.MustCompile("x"), []string{"x"}, "stdin", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeCandidates(t *testing.T) {
	m := pattern.MustCompile("(ab|a)x")
	report, err := NewAnalyzer(afero.NewMemMapFs()).AnalyzeCandidates(
		context.Background(), m, []string{"abx", "ax", "abb", ""}, "stdin", Options{})
	require.NoError(t, err)

	assert.Equal(t, int64(4), report.Candidates)
	assert.Equal(t, int64(2), report.FullMatches)
	assert.Equal(t, []string{"abx", "ax"}, report.Samples)

	d := Summarize(report)
	assert.Equal(t, int64(4), d.TotalCandidates)
	assert.Equal(t, int64(2), d.FullMatches)
	assert.Equal(t, 2, d.PeakDepth)
	assert.InDelta(t, 1.25, d.MeanDepth, 1e-9)
	assert.Equal(t, "2/2 tokens", d.Coverage)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, &Distribution{}, Summarize(nil))
}
