package analysis

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/cheerioskun/matchninja/internal/pattern"
	"github.com/cheerioskun/matchninja/internal/scanner"
	"github.com/cheerioskun/matchninja/internal/utils"
	"github.com/cheerioskun/matchninja/internal/words"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const (
	// cancelCheckInterval is how many candidates are matched between
	// context checks.
	cancelCheckInterval = 1024

	DefaultMaxSamples        = 5
	DefaultMaxUnmatchedWords = 200
)

// Options controls how a corpus is turned into candidates.
type Options struct {
	Split             models.SplitMode
	StripTimestamps   bool
	MaxSamples        int
	MaxUnmatchedWords int
	Workers           int
}

func (o Options) withDefaults() Options {
	if o.Split == "" {
		o.Split = models.SplitLines
	}
	if o.MaxSamples <= 0 {
		o.MaxSamples = DefaultMaxSamples
	}
	if o.MaxUnmatchedWords <= 0 {
		o.MaxUnmatchedWords = DefaultMaxUnmatchedWords
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// cancelCheck polls ctx once every cancelCheckInterval candidates, however
// many candidates each step adds.
type cancelCheck struct {
	ctx     context.Context
	pending int
}

func (c *cancelCheck) tick(n int) error {
	c.pending += n
	if c.pending < cancelCheckInterval {
		return nil
	}
	c.pending = 0
	return c.ctx.Err()
}

// Analyzer runs a compiled pattern over corpus files
type Analyzer struct {
	fs       afero.Fs
	stripper *scanner.PrefixStripper
}

// NewAnalyzer creates a new analyzer reading through fs
func NewAnalyzer(fs afero.Fs) *Analyzer {
	return &Analyzer{
		fs:       fs,
		stripper: scanner.NewPrefixStripper(fs),
	}
}

// tally accumulates results for one group of candidates.
type tally struct {
	res       models.FileResult
	hist      []int64
	samples   []string
	unmatched map[string]struct{}
	maxSample int
	maxWords  int
}

func newTally(path string, numTokens int, opts Options) *tally {
	return &tally{
		res:       models.FileResult{Path: path},
		hist:      make([]int64, numTokens+1),
		unmatched: make(map[string]struct{}),
		maxSample: opts.MaxSamples,
		maxWords:  opts.MaxUnmatchedWords,
	}
}

func (t *tally) add(m *pattern.Matcher, candidate string, split models.SplitMode) {
	depth := len(m.Match(candidate))
	t.res.Candidates++
	t.hist[depth]++

	switch {
	case depth > t.res.BestDepth:
		t.res.BestDepth = depth
		t.samples = append(t.samples[:0], candidate)
	case depth == t.res.BestDepth && len(t.samples) < t.maxSample:
		t.samples = append(t.samples, candidate)
	}

	if depth == m.NumTokens() {
		t.res.FullMatches++
		return
	}
	if len(t.unmatched) >= t.maxWords {
		return
	}
	if split == models.SplitWords {
		t.unmatched[candidate] = struct{}{}
		return
	}
	for _, w := range words.UniqueWords(candidate) {
		if w == "" || len(t.unmatched) >= t.maxWords {
			continue
		}
		t.unmatched[w] = struct{}{}
	}
}

// Analyze matches every candidate of the selected corpus files. Files are
// read concurrently; the report lists them in corpus order.
func (a *Analyzer) Analyze(ctx context.Context, m *pattern.Matcher, corpus *models.Corpus, opts Options) (*models.Report, error) {
	if m == nil || corpus == nil {
		return nil, fmt.Errorf("matcher and corpus are required")
	}
	opts = opts.withDefaults()
	start := time.Now()

	var files []models.SourceFile
	for _, f := range corpus.Files {
		if f.Selected {
			files = append(files, f)
		}
	}

	tallies := make([]*tally, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, f := range files {
		g.Go(func() error {
			t, err := a.analyzeFile(gctx, m, corpus.GetAbsolutePath(f.Path), f.Path, opts)
			if err != nil {
				return err
			}
			tallies[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := newReport(m, corpus.Path, opts.Split)
	merge(report, tallies, opts)
	report.Duration = time.Since(start)

	utils.Info("analyzed %q over %d files: %d candidates, %d full matches, best %d/%d",
		m.Text(), len(files), report.Candidates, report.FullMatches, report.BestMatchLength, m.NumTokens())
	return report, nil
}

func (a *Analyzer) analyzeFile(ctx context.Context, m *pattern.Matcher, fullPath, relPath string, opts Options) (*tally, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var preferred *scanner.PrefixPattern
	if opts.StripTimestamps {
		detected, err := a.stripper.DetectBestPattern(fullPath)
		if err != nil {
			utils.Warning("timestamp detection failed for %s: %v", relPath, err)
		} else {
			preferred = detected.Pattern
		}
	}

	t := newTally(relPath, m.NumTokens(), opts)
	check := cancelCheck{ctx: ctx}
	var cancelled error
	err := scanner.ForEachLine(a.fs, fullPath, func(_ int, line string) bool {
		before := t.res.Candidates
		if opts.StripTimestamps {
			line, _ = a.stripper.Strip(line, preferred)
		}
		if opts.Split == models.SplitWords {
			it := words.NewIterator(line)
			for w, ok := it.NextWord(); ok; w, ok = it.NextWord() {
				if w != "" {
					t.add(m, w, opts.Split)
				}
			}
		} else {
			t.add(m, line, opts.Split)
		}

		// A line with no candidates still counts so long runs of
		// blank lines stay cancellable.
		if cancelled = check.tick(max(1, int(t.res.Candidates-before))); cancelled != nil {
			return false
		}
		return true
	})
	if cancelled != nil {
		return nil, cancelled
	}
	if err != nil {
		return nil, fmt.Errorf("failed to analyze %s: %w", relPath, err)
	}
	return t, nil
}

// AnalyzeCandidates matches an in-memory candidate list, as typed into the
// trace panel or piped to the match command.
func (a *Analyzer) AnalyzeCandidates(ctx context.Context, m *pattern.Matcher, candidates []string, source string, opts Options) (*models.Report, error) {
	opts = opts.withDefaults()
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := newTally(source, m.NumTokens(), opts)
	check := cancelCheck{ctx: ctx}
	for _, c := range candidates {
		t.add(m, c, opts.Split)
		if err := check.tick(1); err != nil {
			return nil, err
		}
	}

	report := newReport(m, source, opts.Split)
	merge(report, []*tally{t}, opts)
	report.Duration = time.Since(start)
	return report, nil
}

func newReport(m *pattern.Matcher, source string, split models.SplitMode) *models.Report {
	tokens := make([]string, 0, m.NumTokens())
	for _, tok := range m.Tokens() {
		tokens = append(tokens, tok.String())
	}
	return models.NewReport(m.Text(), tokens, source, split)
}

// merge folds per-file tallies into the report, keeping samples from the
// files that reached the overall best depth.
func merge(report *models.Report, tallies []*tally, opts Options) {
	var unmatched []string
	for _, t := range tallies {
		report.AddFile(t.res)
		for depth, n := range t.hist {
			report.AddDepth(depth, n)
		}
		for w := range t.unmatched {
			unmatched = append(unmatched, w)
		}
	}

	for _, t := range tallies {
		if t.res.Candidates == 0 || t.res.BestDepth != report.BestMatchLength {
			continue
		}
		for _, s := range t.samples {
			if len(report.Samples) >= opts.MaxSamples {
				break
			}
			report.Samples = append(report.Samples, s)
		}
	}

	unmatched = words.UniqueSorted(unmatched)
	if len(unmatched) > opts.MaxUnmatchedWords {
		unmatched = unmatched[:opts.MaxUnmatchedWords]
	}
	report.UnmatchedWords = unmatched
}
