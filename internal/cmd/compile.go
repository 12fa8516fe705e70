package cmd

import (
	"errors"
	"fmt"

	"github.com/cheerioskun/matchninja/internal/pattern"
	"github.com/spf13/cobra"
)

var compileCmd = &cobra.Command{
	Use:   "compile <pattern>",
	Short: "Compile a pattern and print its tokens",
	Long: `Compile a pattern and print the token sequence it produces.

Invalid patterns are reported with the position of the offending
character.

Examples:
  matchninja compile 'abc(d|e|f).'
  matchninja compile '(a|b'`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	m, err := compileOrReport(cmd, args[0])
	if err != nil {
		return err
	}
	printer(cmd.OutOrStdout()).Tokens(m)
	return nil
}

// compileOrReport compiles p, printing a caret diagram on failure.
func compileOrReport(cmd *cobra.Command, p string) (*pattern.Matcher, error) {
	m, err := pattern.Compile(p)
	if err != nil {
		var perr *pattern.ParseError
		if errors.As(err, &perr) {
			printer(cmd.OutOrStdout()).ParseError(perr)
		}
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}
	return m, nil
}
