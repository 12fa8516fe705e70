package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/cheerioskun/matchninja/internal/analysis"
	"github.com/cheerioskun/matchninja/internal/export"
	"github.com/cheerioskun/matchninja/internal/history"
	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <pattern> <path>",
	Short: "Match a pattern against every line or word of a directory of text files",
	Long: `Scan a directory of text files and match every candidate against the
pattern. Candidates are lines by default, or space separated words with
--split words.

The report shows how deep into the pattern candidates got, a sample of
the candidates that got furthest and the words that never started a
match.

Examples:
  matchninja scan 'user (alice|bob) logged .n' /var/log
  matchninja scan '(GET|POST) /api/.' ./logs --strip-timestamps
  matchninja scan 'err(or|no)' ./logs --split words --export report.md
  matchninja scan 'timeout' ./logs --record
  matchninja scan 'panic: .' ./logs --modified-within 24h`,
	Args: cobra.ExactArgs(2),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Scan-specific flags
	scanCmd.Flags().Int("max-depth", 10, "maximum directory depth to scan")
	scanCmd.Flags().StringSlice("text-ext", nil, "extra file extensions to treat as text")
	scanCmd.Flags().String("split", string(models.SplitLines), "candidate split: lines or words")
	scanCmd.Flags().Bool("strip-timestamps", false, "remove leading timestamps before matching")
	scanCmd.Flags().Int("workers", 0, "files analysed in parallel (0 = GOMAXPROCS)")
	scanCmd.Flags().Duration("modified-within", 0, "only match files modified within this long (e.g. 24h)")
	scanCmd.Flags().StringP("export", "o", "", "write the report to this file")
	scanCmd.Flags().String("format", "", "export format: json, yaml, markdown or html (default from extension)")
	scanCmd.Flags().Bool("overwrite", false, "replace an existing export file")
	scanCmd.Flags().Bool("record", false, "record the run in the history database")
}

func runScan(cmd *cobra.Command, args []string) error {
	m, err := compileOrReport(cmd, args[0])
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(args[1])
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", absPath)
	}

	fs := afero.NewOsFs()
	out := cmd.OutOrStdout()

	corpusScanner := cfg.NewCorpusScanner(fs)

	corpus, err := corpusScanner.ScanCorpus(absPath)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	fmt.Fprintf(out, "Scanned %s: %d files (%d text, %s)\n\n",
		corpus.Path, corpus.Metadata.TotalFileCount, corpus.Metadata.TextFileCount, formatBytes(corpus.TotalSize))
	if cfg.Verbose {
		fmt.Fprintf(out, "Modified: %s\n", corpus.ModRange)
		printCorpusFiles(out, corpus)
	}
	if within := viper.GetDuration("modified-within"); within > 0 {
		corpus.SelectModifiedWithin(models.Since(within))
		fmt.Fprintf(out, "Matching %d files modified within %s\n\n", len(corpus.GetSelectedFiles()), within)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	report, err := analysis.NewAnalyzer(fs).Analyze(ctx, m, corpus, analysis.Options{
		Split:           cfg.SplitMode(),
		StripTimestamps: cfg.StripTimestamps,
		Workers:         cfg.Workers,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	p := printer(out)
	p.Report(report)

	dist := analysis.Summarize(report)
	fmt.Fprintf(out, "\nMean depth %.2f, peak at depth %d (%d candidates), coverage %s\n",
		dist.MeanDepth, dist.PeakDepth, dist.PeakCount, dist.Coverage)

	if dest := viper.GetString("export"); dest != "" {
		if err := exportReport(out, fs, report, dest); err != nil {
			return err
		}
	}

	if cfg.Record {
		if err := recordReport(ctx, out, report); err != nil {
			return err
		}
	}
	return nil
}

func exportReport(out io.Writer, fs afero.Fs, report *models.Report, dest string) error {
	if err := export.ValidateExportPath(dest); err != nil {
		return err
	}
	var format export.Format
	if cfg.Format != "" {
		f, err := export.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}
		format = f
	}

	summary, err := export.NewService(fs).ExportReport(report, export.ExportOptions{
		DestinationPath: dest,
		Format:          format,
		Overwrite:       viper.GetBool("overwrite"),
	})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(out, "Exported %s report (%s) to %s\n", summary.Format, formatBytes(int64(summary.Bytes)), summary.DestinationPath)
	return nil
}

func recordReport(ctx context.Context, out io.Writer, report *models.Report) error {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	previous, err := store.Best(ctx, report.Pattern)
	if err != nil {
		return err
	}
	if _, err := store.Record(ctx, report); err != nil {
		return err
	}

	switch {
	case previous == nil:
		fmt.Fprintf(out, "Recorded first run of %q\n", report.Pattern)
	case report.BestMatchLength > previous.BestMatchLength:
		fmt.Fprintf(out, "New best for %q: %d tokens (was %d over %d runs)\n",
			report.Pattern, report.BestMatchLength, previous.BestMatchLength, previous.Runs)
	default:
		fmt.Fprintf(out, "Recorded run; best for %q is still %d tokens\n", report.Pattern, previous.BestMatchLength)
	}
	return nil
}

func printCorpusFiles(out io.Writer, corpus *models.Corpus) {
	textFiles, otherFiles := 0, 0
	for _, file := range corpus.Files {
		if file.IsText {
			textFiles++
			if textFiles <= 10 {
				fmt.Fprintf(out, "  [TXT] %s (%s, ~%d lines)\n", file.Path, formatBytes(file.Size), file.LineCount)
			}
		} else {
			otherFiles++
			if otherFiles <= 5 {
				fmt.Fprintf(out, "  [BIN] %s (%s)\n", file.Path, formatBytes(file.Size))
			}
		}
	}
	if textFiles > 10 {
		fmt.Fprintf(out, "  ... and %d more text files\n", textFiles-10)
	}
	if otherFiles > 5 {
		fmt.Fprintf(out, "  ... and %d more other files\n", otherFiles-5)
	}
	fmt.Fprintln(out)
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
