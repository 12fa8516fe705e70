package models

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorpusAddFile(t *testing.T) {
	c := NewCorpus("/data", afero.NewMemMapFs())
	early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := early.Add(48 * time.Hour)

	c.AddFile(SourceFile{Path: "a.log", Size: 10, IsText: true, LineCount: 3, LastModified: late})
	c.AddFile(SourceFile{Path: "b.bin", Size: 5})
	c.AddFile(SourceFile{Path: "c.txt", Size: 7, IsText: true, LineCount: 2, LastModified: early})

	assert.Equal(t, int64(22), c.TotalSize)
	assert.Equal(t, 3, c.Metadata.TotalFileCount)
	assert.Equal(t, 2, c.Metadata.TextFileCount)
	assert.Equal(t, int64(5), c.Metadata.TotalLines)
	require.NotNil(t, c.ModRange)
	assert.Equal(t, early, c.ModRange.Start)
	assert.Equal(t, late, c.ModRange.End)

	c.SelectTextFiles()
	assert.Equal(t, []string{"a.log", "c.txt"}, c.GetSelectedFiles())

	c.SelectModifiedWithin(&TimeRange{Start: late, End: late})
	assert.Equal(t, []string{"a.log"}, c.GetSelectedFiles())

	assert.False(t, c.ToggleFileSelection("a.log"))
	assert.Nil(t, c.GetFileByPath("missing"))
	assert.Equal(t, "/data/c.txt", c.GetAbsolutePath("c.txt"))
}

func TestTimeRange(t *testing.T) {
	start := time.Now()
	_, err := NewTimeRange(start, start.Add(-time.Second))
	assert.Error(t, err)

	tr, err := NewTimeRange(start, start.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, tr.Contains(start))
	assert.False(t, tr.Contains(start.Add(time.Hour)))

	tr.Extend(start.Add(-time.Hour))
	assert.Equal(t, start.Add(-time.Hour), tr.Start)
	assert.Equal(t, 61*time.Minute, tr.Duration())

	tr.Extend(start.Add(time.Hour))
	assert.Equal(t, 2*time.Hour, tr.Duration())
	assert.Equal(t, "-", (*TimeRange)(nil).String())
}

func TestReportTotals(t *testing.T) {
	r := NewReport("a(b|c)", []string{`RawText("a")`, `OneOfText(["b", "c"])`}, "/data", SplitLines)
	require.Len(t, r.Histogram, 3)

	r.AddFile(FileResult{Path: "x", Candidates: 4, FullMatches: 1, BestDepth: 2})
	r.AddFile(FileResult{Path: "y", Candidates: 6, FullMatches: 0, BestDepth: 1})
	r.AddDepth(0, 1)
	r.AddDepth(2, 1)
	r.AddDepth(2, 1)
	r.AddDepth(9, 1)

	assert.Equal(t, int64(10), r.Candidates)
	assert.Equal(t, 2, r.BestMatchLength)
	assert.InDelta(t, 0.1, r.MatchRate(), 1e-9)
	assert.Equal(t, int64(2), r.MaxBinCount())

	clone := r.Clone()
	clone.Histogram[0].Count = 99
	assert.Equal(t, int64(1), r.Histogram[0].Count)
}

func TestSessionPatterns(t *testing.T) {
	c := NewCorpus("/data", afero.NewMemMapFs())
	c.AddFile(SourceFile{Path: "small.log", Size: 1, IsText: true})
	c.AddFile(SourceFile{Path: "big.log", Size: 100, IsText: true})
	c.AddFile(SourceFile{Path: "img.png", Size: 50})

	s := NewSession(c)
	assert.Equal(t, 2, s.GetSelectedFileCount())
	assert.Equal(t, int64(101), s.GetSelectedTotalSize())

	bySize := s.GetSelectedFilesBySize(1)
	require.Len(t, bySize, 1)
	assert.Equal(t, "big.log", bySize[0].Path)

	s.SelectNone()
	assert.Zero(t, s.GetSelectedFileCount())
	s.SelectAllFiles()
	assert.Equal(t, 3, s.GetSelectedFileCount())
}

func TestSessionApplySelection(t *testing.T) {
	c := NewCorpus("/data", afero.NewMemMapFs())
	c.AddFile(SourceFile{Path: "a.log", IsText: true})
	c.AddFile(SourceFile{Path: "b.log", IsText: true})

	s := NewSession(c)
	s.ToggleFileSelection("b.log")
	c.SelectAll()

	s.ApplySelection()
	assert.Equal(t, []string{"a.log"}, c.GetSelectedFiles())

	NewSession(nil).ApplySelection()
}
