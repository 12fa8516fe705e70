package models

import (
	"sort"
	"time"
)

// Session is the interactive working state: the corpus, the user's file
// selection, the pattern list and the latest report.
type Session struct {
	Corpus        *Corpus         `json:"corpus"`
	SelectedFiles map[string]bool `json:"selected_files"`
	Patterns      []string        `json:"patterns"`
	Split         SplitMode       `json:"split"`
	Report        *Report         `json:"report"` // Latest analysis of the selected pattern
	LastUpdated   time.Time       `json:"last_updated"`
}

// NewSession creates a Session with every text file of corpus selected.
// corpus may be nil when only ad-hoc candidates are matched.
func NewSession(corpus *Corpus) *Session {
	selected := make(map[string]bool)
	if corpus != nil {
		for _, file := range corpus.Files {
			selected[file.Path] = file.IsText
		}
	}
	return &Session{
		Corpus:        corpus,
		SelectedFiles: selected,
		Patterns:      make([]string, 0),
		Split:         SplitLines,
		LastUpdated:   time.Now(),
	}
}

func (s *Session) touch() { s.LastUpdated = time.Now() }

func (s *Session) ToggleFileSelection(path string) {
	s.SelectedFiles[path] = !s.SelectedFiles[path]
	s.touch()
}

func (s *Session) SetFileSelection(path string, selected bool) {
	s.SelectedFiles[path] = selected
	s.touch()
}

func (s *Session) IsFileSelected(path string) bool {
	return s.SelectedFiles[path]
}

func (s *Session) GetSelectedFileCount() int {
	count := 0
	for _, selected := range s.SelectedFiles {
		if selected {
			count++
		}
	}
	return count
}

func (s *Session) SelectAllFiles() {
	if s.Corpus == nil {
		return
	}
	for _, file := range s.Corpus.Files {
		s.SelectedFiles[file.Path] = true
	}
	s.touch()
}

func (s *Session) SelectTextFiles() {
	if s.Corpus == nil {
		return
	}
	for _, file := range s.Corpus.Files {
		s.SelectedFiles[file.Path] = file.IsText
	}
	s.touch()
}

func (s *Session) SelectNone() {
	for path := range s.SelectedFiles {
		s.SelectedFiles[path] = false
	}
	s.touch()
}

// ApplySelection copies the session's selection onto the corpus files,
// which is what analysis reads.
func (s *Session) ApplySelection() {
	if s.Corpus == nil {
		return
	}
	for i := range s.Corpus.Files {
		s.Corpus.Files[i].Selected = s.SelectedFiles[s.Corpus.Files[i].Path]
	}
}

// SetReport stores the latest analysis.
func (s *Session) SetReport(r *Report) {
	s.Report = r
	s.touch()
}

// GetSelectedFiles returns the selected files in corpus order.
func (s *Session) GetSelectedFiles() []SourceFile {
	if s.Corpus == nil {
		return nil
	}
	var out []SourceFile
	for _, file := range s.Corpus.Files {
		if s.IsFileSelected(file.Path) {
			out = append(out, file)
		}
	}
	return out
}

// GetSelectedFilesBySize returns selected files, largest first, capped at
// limit when limit > 0.
func (s *Session) GetSelectedFilesBySize(limit int) []SourceFile {
	files := s.GetSelectedFiles()
	sort.SliceStable(files, func(i, j int) bool { return files[i].Size > files[j].Size })
	if limit > 0 && limit < len(files) {
		files = files[:limit]
	}
	return files
}

func (s *Session) GetSelectedTotalSize() int64 {
	var total int64
	for _, file := range s.GetSelectedFiles() {
		total += file.Size
	}
	return total
}
