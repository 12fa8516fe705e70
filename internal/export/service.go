package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheerioskun/matchninja/internal/filelock"
	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/cheerioskun/matchninja/internal/utils"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// Format is a report output format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}

// ParseFormat accepts a format name or a common alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	return FormatJSON
}

// Extension returns the file extension used for the format.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	default:
		return ".json"
	}
}

// Service writes match reports to disk
type Service struct {
	fs       afero.Fs
	markdown goldmark.Markdown
}

// NewService creates a new export service
func NewService(fs afero.Fs) *Service {
	return &Service{
		fs:       fs,
		markdown: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// ExportOptions contains configuration for export operations
type ExportOptions struct {
	DestinationPath string
	Format          Format // inferred from DestinationPath when empty
	Overwrite       bool
}

// ExportSummary describes a finished export
type ExportSummary struct {
	ReportID        string
	Format          Format
	Bytes           int
	DestinationPath string
}

// ExportReport renders report and writes it atomically. A report without
// an ID gets a fresh one.
func (s *Service) ExportReport(report *models.Report, opts ExportOptions) (*ExportSummary, error) {
	if report == nil {
		return nil, fmt.Errorf("no report to export")
	}
	if strings.TrimSpace(opts.DestinationPath) == "" {
		return nil, fmt.Errorf("export path cannot be empty")
	}

	format := opts.Format
	if format == "" {
		format = FormatFromPath(opts.DestinationPath)
	}

	if !opts.Overwrite {
		exists, err := afero.Exists(s.fs, opts.DestinationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to check if destination exists: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("destination file exists and overwrite is disabled: %s", opts.DestinationPath)
		}
	}

	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	data, err := s.Render(report, format)
	if err != nil {
		return nil, err
	}

	if err := filelock.LockAndWrite(s.fs, opts.DestinationPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}

	utils.Info("exported report %s as %s to %s", report.ID, format, opts.DestinationPath)
	return &ExportSummary{
		ReportID:        report.ID,
		Format:          format,
		Bytes:           len(data),
		DestinationPath: opts.DestinationPath,
	}, nil
}

// Render encodes report in the given format.
func (s *Service) Render(report *models.Report, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatMarkdown:
		return []byte(RenderMarkdown(report)), nil
	case FormatHTML:
		var body bytes.Buffer
		if err := s.markdown.Convert([]byte(RenderMarkdown(report)), &body); err != nil {
			return nil, fmt.Errorf("failed to render html: %w", err)
		}
		var page bytes.Buffer
		fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>matchninja report %s</title></head>\n<body>\n", report.ID)
		page.Write(body.Bytes())
		page.WriteString("</body>\n</html>\n")
		return page.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

// DefaultExportPath names a report file in the working directory after the
// corpus it was built from.
func DefaultExportPath(source string, format Format) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	baseName := filepath.Base(source)
	if baseName == "/" || baseName == "." || baseName == "" {
		baseName = "corpus"
	}
	return filepath.Join(cwd, baseName+"_report"+format.Extension()), nil
}

// ValidateExportPath performs basic validation on the export path
func ValidateExportPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("export path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		path = absPath
	}

	parentDir := filepath.Dir(path)
	if _, err := os.Stat(parentDir); os.IsNotExist(err) {
		return fmt.Errorf("parent directory does not exist: %s", parentDir)
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("export path is a directory: %s", path)
	}
	return nil
}
