package cmd

import (
	"fmt"

	"github.com/cheerioskun/matchninja/internal/analysis"
	"github.com/cheerioskun/matchninja/internal/scanner"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var matchCmd = &cobra.Command{
	Use:   "match <pattern> [candidate...]",
	Short: "Match candidates against a pattern and print each trace",
	Long: `Match each candidate against the pattern and print the tokens it
matched before the first mismatch. Without candidate arguments, each line
of standard input is a candidate.

Examples:
  matchninja match 'abc(d|e|f).' abcd💪 abcge
  cut -d' ' -f5 access.log | matchninja match '(GET|POST) /.' --full-only
  matchninja match 'user .' < users.txt --quiet --export users.md --record`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().Bool("full-only", false, "print only candidates that match every token")
	matchCmd.Flags().Bool("quiet", false, "print only the best match length")
	matchCmd.Flags().StringP("export", "o", "", "write a report of the candidates to this file")
	matchCmd.Flags().String("format", "", "export format: json, yaml, markdown or html (default from extension)")
	matchCmd.Flags().Bool("overwrite", false, "replace an existing export file")
	matchCmd.Flags().Bool("record", false, "record the run in the history database")
}

func runMatch(cmd *cobra.Command, args []string) error {
	m, err := compileOrReport(cmd, args[0])
	if err != nil {
		return err
	}

	source := "args"
	candidates := args[1:]
	if len(candidates) == 0 {
		source = "stdin"
		err := scanner.ReadLines(cmd.InOrStdin(), func(_ int, line string) bool {
			candidates = append(candidates, line)
			return true
		})
		if err != nil {
			return fmt.Errorf("failed to read candidates: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	p := printer(out)
	fullOnly := viper.GetBool("full-only")
	quiet := viper.GetBool("quiet")

	full := 0
	for _, c := range candidates {
		tr := m.Match(c)
		if m.IsFullMatch(tr) {
			full++
		} else if fullOnly {
			continue
		}
		if !quiet {
			p.Trace(m, c, tr)
		}
	}

	if !quiet {
		fmt.Fprintf(out, "\n%d of %d candidates matched fully\n", full, len(candidates))
	}
	p.Best(m)

	dest := viper.GetString("export")
	if dest == "" && !cfg.Record {
		return nil
	}
	report, err := analysis.NewAnalyzer(afero.NewOsFs()).AnalyzeCandidates(cmd.Context(), m, candidates, source, analysis.Options{})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if dest != "" {
		if err := exportReport(out, afero.NewOsFs(), report, dest); err != nil {
			return err
		}
	}
	if cfg.Record {
		return recordReport(cmd.Context(), out, report)
	}
	return nil
}
