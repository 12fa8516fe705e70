package scanner

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/cheerioskun/matchninja/internal/utils"
	"github.com/spf13/afero"
)

// CorpusScanner discovers the text files under a directory
type CorpusScanner struct {
	fs       afero.Fs
	maxDepth int
	textExts map[string]bool
}

// NewCorpusScanner creates a new CorpusScanner with the given filesystem
func NewCorpusScanner(fs afero.Fs) *CorpusScanner {
	return &CorpusScanner{
		fs:       fs,
		maxDepth: 10,
		textExts: map[string]bool{
			".log":  true,
			".txt":  true,
			".out":  true,
			".err":  true,
			".json": true,
			".csv":  true,
			".md":   true,
		},
	}
}

// SetMaxDepth sets the maximum scanning depth
func (cs *CorpusScanner) SetMaxDepth(depth int) {
	cs.maxDepth = depth
}

// AddTextExtension adds a file extension to be treated as text
func (cs *CorpusScanner) AddTextExtension(ext string) {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	cs.textExts[strings.ToLower(ext)] = true
}

// ScanCorpus walks path and returns a Corpus with every discovered file.
// Text files start out selected.
func (cs *CorpusScanner) ScanCorpus(path string) (*models.Corpus, error) {
	info, err := cs.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %s is not a directory", path)
	}

	corpus := models.NewCorpus(path, cs.fs)
	if err := cs.scanDirectory(path, "", 0, corpus); err != nil {
		return nil, fmt.Errorf("failed to scan corpus: %w", err)
	}
	corpus.Metadata.ScanDepth = cs.maxDepth
	corpus.SelectTextFiles()

	utils.Debug("scanned %s: %d files, %d text", path, corpus.Metadata.TotalFileCount, corpus.Metadata.TextFileCount)
	return corpus, nil
}

func (cs *CorpusScanner) scanDirectory(basePath, relativePath string, depth int, corpus *models.Corpus) error {
	if depth > cs.maxDepth {
		return nil
	}

	currentPath := filepath.Join(basePath, relativePath)
	entries, err := afero.ReadDir(cs.fs, currentPath)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", currentPath, err)
	}

	for _, entry := range entries {
		entryRelPath := filepath.Join(relativePath, entry.Name())
		entryFullPath := filepath.Join(basePath, entryRelPath)

		if entry.IsDir() {
			if err := cs.scanDirectory(basePath, entryRelPath, depth+1, corpus); err != nil {
				utils.Warning("failed to scan directory %s: %v", entryRelPath, err)
			}
			continue
		}

		corpus.AddFile(cs.processFile(entryFullPath, entryRelPath, entry))
	}
	return nil
}

func (cs *CorpusScanner) processFile(fullPath, relativePath string, info os.FileInfo) models.SourceFile {
	file := models.SourceFile{
		Path:         relativePath,
		Size:         info.Size(),
		IsText:       cs.isTextFile(relativePath),
		LastModified: info.ModTime(),
	}
	if file.IsText {
		lines, err := cs.estimateLineCount(fullPath)
		if err != nil {
			utils.Warning("failed to estimate lines of %s: %v", relativePath, err)
		}
		file.LineCount = lines
	}
	return file
}

func (cs *CorpusScanner) isTextFile(path string) bool {
	if cs.textExts[strings.ToLower(filepath.Ext(path))] {
		return true
	}

	filename := strings.ToLower(filepath.Base(path))
	namePatterns := []string{
		"log", "syslog", "messages", "access", "error", "debug",
		"trace", "audit", "console", "output", "stderr", "stdout",
		"readme", "words", "dict",
	}
	for _, p := range namePatterns {
		if strings.Contains(filename, p) {
			return true
		}
	}
	return false
}

// estimateLineCount samples the first 64KB and extrapolates by file size.
func (cs *CorpusScanner) estimateLineCount(path string) (int64, error) {
	file, err := cs.fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	const sampleSize = 64 * 1024
	buffer := make([]byte, sampleSize)

	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	lines := int64(0)
	for i := 0; i < n; i++ {
		if buffer[i] == '\n' {
			lines++
		}
	}

	stat, err := file.Stat()
	if err != nil {
		return lines, nil
	}

	fileSize := stat.Size()
	if int64(n) >= fileSize {
		// An unterminated last line still counts.
		if buffer[n-1] != '\n' {
			lines++
		}
		return lines, nil
	}

	if lines > 0 {
		return (lines * fileSize) / int64(n), nil
	}
	return 0, nil
}

// GetSupportedExtensions returns the text extensions, sorted
func (cs *CorpusScanner) GetSupportedExtensions() []string {
	var exts []string
	for ext := range cs.textExts {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// QuickScan counts top-level files without descending or reading them
func (cs *CorpusScanner) QuickScan(path string) (*models.CorpusMetadata, error) {
	info, err := cs.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path %s: %w", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path %s is not a directory", path)
	}

	metadata := &models.CorpusMetadata{ScanDepth: 1}

	entries, err := afero.ReadDir(cs.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		metadata.TotalFileCount++
		if cs.isTextFile(entry.Name()) {
			metadata.TextFileCount++
		}
	}
	return metadata, nil
}
