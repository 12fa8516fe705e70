package models

import (
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// Corpus is a directory of text files whose lines are matched against
// patterns.
type Corpus struct {
	Path      string         `json:"path"`       // Root directory path
	Files     []SourceFile   `json:"files"`      // All files found
	TotalSize int64          `json:"total_size"` // Total size in bytes
	ModRange  *TimeRange     `json:"mod_range"`  // Span of text file modification times
	Metadata  CorpusMetadata `json:"metadata"`
	ScanTime  time.Time      `json:"scan_time"`
	fs        afero.Fs
}

// SourceFile describes one file in the corpus.
type SourceFile struct {
	Path         string    `json:"path"`       // Relative path from corpus root
	Size         int64     `json:"size"`       // File size in bytes
	IsText       bool      `json:"is_text"`    // Candidate source for matching
	LineCount    int64     `json:"line_count"` // Estimated, not exact
	Selected     bool      `json:"selected"`
	LastModified time.Time `json:"last_modified"`
}

// CorpusMetadata aggregates counts over the corpus.
type CorpusMetadata struct {
	TextFileCount  int   `json:"text_file_count"`
	TotalFileCount int   `json:"total_file_count"`
	TotalLines     int64 `json:"total_lines"` // Estimated lines over text files
	ScanDepth      int   `json:"scan_depth"`
}

// NewCorpus creates an empty Corpus rooted at path on fs.
func NewCorpus(path string, fs afero.Fs) *Corpus {
	return &Corpus{
		Path:     path,
		Files:    make([]SourceFile, 0),
		ScanTime: time.Now(),
		fs:       fs,
	}
}

// AddFile adds a file and updates the aggregates.
func (c *Corpus) AddFile(file SourceFile) {
	c.Files = append(c.Files, file)
	c.TotalSize += file.Size
	c.Metadata.TotalFileCount++

	if !file.IsText {
		return
	}
	c.Metadata.TextFileCount++
	c.Metadata.TotalLines += file.LineCount

	if file.LastModified.IsZero() {
		return
	}
	if c.ModRange == nil {
		c.ModRange = &TimeRange{Start: file.LastModified, End: file.LastModified}
	} else {
		c.ModRange.Extend(file.LastModified)
	}
}

// GetSelectedFiles returns the paths of selected files.
func (c *Corpus) GetSelectedFiles() []string {
	var selected []string
	for _, file := range c.Files {
		if file.Selected {
			selected = append(selected, file.Path)
		}
	}
	return selected
}

// GetTextFiles returns all files detected as text.
func (c *Corpus) GetTextFiles() []SourceFile {
	var text []SourceFile
	for _, file := range c.Files {
		if file.IsText {
			text = append(text, file)
		}
	}
	return text
}

func (c *Corpus) SelectAll() {
	for i := range c.Files {
		c.Files[i].Selected = true
	}
}

func (c *Corpus) SelectNone() {
	for i := range c.Files {
		c.Files[i].Selected = false
	}
}

// SelectTextFiles selects exactly the text files.
func (c *Corpus) SelectTextFiles() {
	for i := range c.Files {
		c.Files[i].Selected = c.Files[i].IsText
	}
}

// SelectModifiedWithin narrows the current selection to files modified
// inside tr.
func (c *Corpus) SelectModifiedWithin(tr *TimeRange) {
	if tr == nil {
		return
	}
	for i := range c.Files {
		if !tr.Contains(c.Files[i].LastModified) {
			c.Files[i].Selected = false
		}
	}
}

// GetFileByPath returns the file with the given relative path, or nil.
func (c *Corpus) GetFileByPath(path string) *SourceFile {
	for i := range c.Files {
		if c.Files[i].Path == path {
			return &c.Files[i]
		}
	}
	return nil
}

// ToggleFileSelection flips a file's selection and returns the new state.
func (c *Corpus) ToggleFileSelection(path string) bool {
	if f := c.GetFileByPath(path); f != nil {
		f.Selected = !f.Selected
		return f.Selected
	}
	return false
}

func (c *Corpus) GetFilesystem() afero.Fs {
	return c.fs
}

// GetAbsolutePath joins a relative file path onto the corpus root.
func (c *Corpus) GetAbsolutePath(relativePath string) string {
	return filepath.Join(c.Path, relativePath)
}
