package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cheerioskun/matchninja/internal/analysis"
	"github.com/cheerioskun/matchninja/internal/history"
	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/cheerioskun/matchninja/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui [path]",
	Short: "Start the interactive TUI interface",
	Long: `Start the interactive Terminal User Interface for building patterns.

The TUI provides:
- A pattern list with live compile errors
- A trace panel that matches as you type
- A match depth histogram over the selected files
- File selection and report export

Without a path only the trace panel has data to work with.

Examples:
  matchninja tui
  matchninja tui ./logs --split words
  matchninja tui /var/log --max-depth 3 --strip-timestamps`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().Int("max-depth", 10, "maximum directory depth to scan")
	tuiCmd.Flags().StringSlice("text-ext", nil, "extra file extensions to treat as text")
	tuiCmd.Flags().String("split", string(models.SplitLines), "candidate split: lines or words")
	tuiCmd.Flags().Bool("strip-timestamps", false, "remove leading timestamps before matching")
	tuiCmd.Flags().Int("workers", 0, "files analysed in parallel (0 = GOMAXPROCS)")
	tuiCmd.Flags().Bool("record", false, "record every analysis in the history database")
}

func runTUI(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()
	stderr := cmd.ErrOrStderr()

	var corpus *models.Corpus
	if len(args) == 1 {
		absPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", absPath)
		}

		corpusScanner := cfg.NewCorpusScanner(fs)

		if cfg.Verbose {
			fmt.Fprintf(stderr, "Scanning corpus at: %s\n", absPath)
			fmt.Fprintf(stderr, "Max depth: %d\n", cfg.MaxDepth)
		}

		corpus, err = corpusScanner.ScanCorpus(absPath)
		if err != nil {
			return fmt.Errorf("failed to scan corpus: %w", err)
		}

		if cfg.Verbose {
			fmt.Fprintf(stderr, "Found %d files (%d text files)\n",
				corpus.Metadata.TotalFileCount, corpus.Metadata.TextFileCount)
		}
	}

	var store *history.Store
	if cfg.Record {
		s, err := history.Open(cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer s.Close()
		store = s
	}

	session := models.NewSession(corpus)
	session.Split = cfg.SplitMode()

	model := ui.NewAppModel(session, fs, ui.Options{
		Analysis: analysis.Options{
			Split:           cfg.SplitMode(),
			StripTimestamps: cfg.StripTimestamps,
			Workers:         cfg.Workers,
		},
		Patterns: cfg.Patterns,
		History:  store,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	if cfg.Verbose {
		fmt.Fprintf(stderr, "Starting TUI...\n")
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
