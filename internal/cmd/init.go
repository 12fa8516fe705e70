package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cheerioskun/matchninja/internal/config"
	"github.com/cheerioskun/matchninja/internal/models"
	"github.com/cheerioskun/matchninja/internal/pattern"
	"github.com/cheerioskun/matchninja/internal/scanner"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// detectSampleFiles is how many text files are probed for a timestamp
// prefix during init.
const detectSampleFiles = 5

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter config for a directory of text files",
	Long: `Scan a directory, probe its files for timestamp prefixes and write a
.matchninja.yaml with settings that suit it.

This command:
- Counts files and estimates their line totals
- Turns on strip-timestamps when most sampled files start lines with one
- Saves any --pattern values so the TUI opens with them

Examples:
  matchninja init ./logs
  matchninja init /var/log --pattern 'session (opened|closed)' --output-config /tmp/mn.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringP("output-config", "o", config.FileName, "output configuration file")
	initCmd.Flags().Int("max-depth", 10, "maximum directory depth to scan")
	initCmd.Flags().StringSlice("text-ext", nil, "extra file extensions to treat as text")
	initCmd.Flags().StringArray("pattern", nil, "pattern to save (repeatable)")
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration file")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", absPath)
	}

	outputConfig := viper.GetString("output-config")
	fs := afero.NewOsFs()
	out := cmd.OutOrStdout()

	if exists, _ := afero.Exists(fs, outputConfig); exists && !viper.GetBool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", outputConfig)
	}

	patterns, err := cmd.Flags().GetStringArray("pattern")
	if err != nil {
		return err
	}
	for _, p := range patterns {
		if _, err := compileOrReport(cmd, p); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Initializing configuration for: %s\n", absPath)

	corpusScanner := cfg.NewCorpusScanner(fs)

	meta, err := corpusScanner.QuickScan(absPath)
	if err != nil {
		return fmt.Errorf("quick scan failed: %w", err)
	}
	fmt.Fprintf(out, "Top level: %d files (%d text)\n", meta.TotalFileCount, meta.TextFileCount)

	corpus, err := corpusScanner.ScanCorpus(absPath)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}
	fmt.Fprintf(out, "Found %d files (%d text, ~%d lines, %s)\n",
		corpus.Metadata.TotalFileCount, corpus.Metadata.TextFileCount, corpus.Metadata.TotalLines, formatBytes(corpus.TotalSize))

	strip, prefix := detectTimestamps(fs, corpus)
	if strip {
		fmt.Fprintf(out, "Detected %s timestamps, enabling strip-timestamps\n", prefix)
	}

	newCfg := *cfg
	newCfg.StripTimestamps = strip
	newCfg.Patterns = append(append([]string{}, cfg.Patterns...), patterns...)
	if err := newCfg.Validate(); err != nil {
		return err
	}
	if err := config.Write(fs, outputConfig, &newCfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfiguration saved to: %s\n", outputConfig)
	if len(newCfg.Patterns) > 0 {
		fmt.Fprintf(out, "Saved %d patterns:\n", len(newCfg.Patterns))
		for _, p := range newCfg.Patterns {
			m, err := pattern.Compile(p)
			if err != nil {
				fmt.Fprintf(out, "  %s (invalid: %v)\n", p, errors.Unwrap(err))
				continue
			}
			fmt.Fprintf(out, "  %s (%d tokens)\n", p, m.NumTokens())
		}
	}
	return nil
}

// detectTimestamps probes the largest text files and reports whether most
// of them carry a recognisable timestamp prefix.
func detectTimestamps(fs afero.Fs, corpus *models.Corpus) (bool, string) {
	session := models.NewSession(corpus)
	session.SelectTextFiles()

	stripper := scanner.NewPrefixStripper(fs)
	votes := make(map[string]int)
	probed := 0
	for _, file := range session.GetSelectedFilesBySize(detectSampleFiles) {
		res, err := stripper.DetectBestPattern(corpus.GetAbsolutePath(file.Path))
		probed++
		if err != nil || res == nil || res.Pattern == nil {
			continue
		}
		votes[res.Pattern.Name]++
	}

	best, bestVotes := "", 0
	for name, n := range votes {
		if n > bestVotes || (n == bestVotes && name < best) {
			best, bestVotes = name, n
		}
	}
	return probed > 0 && bestVotes*2 > probed, best
}
