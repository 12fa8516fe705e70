package cmd

import (
	"fmt"
	"strings"

	"github.com/cheerioskun/matchninja/internal/words"
	"github.com/spf13/cobra"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Split and compare space separated words",
	Long: `Helpers for looking at text the way scan --split words does: words are
separated by single spaces, so two spaces in a row produce an empty word.

Examples:
  matchninja words split 'GET /index.html 200'
  matchninja words unique 'a b a  c'
  matchninja words diff 'a b c' 'b c d'`,
}

var wordsSplitCmd = &cobra.Command{
	Use:   "split <text>",
	Short: "Print every word in order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer(cmd.OutOrStdout()).Words("", words.Words(args[0]))
		return nil
	},
}

var wordsUniqueCmd = &cobra.Command{
	Use:   "unique <text>",
	Short: "Print each distinct word once, sorted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		printer(cmd.OutOrStdout()).Words("", words.UniqueWords(args[0]))
		return nil
	},
}

var wordsDiffCmd = &cobra.Command{
	Use:   "diff <first> <second>",
	Short: "Print the words that appear in only one of two texts",
	Args:  cobra.ExactArgs(2),
	RunE:  runWordsDiff,
}

func init() {
	rootCmd.AddCommand(wordsCmd)
	wordsCmd.AddCommand(wordsSplitCmd, wordsUniqueCmd, wordsDiffCmd)
}

func runWordsDiff(cmd *cobra.Command, args []string) error {
	diff := words.FindDifference(args[0], args[1])
	out := cmd.OutOrStdout()
	if len(diff.FirstOnly) == 0 && len(diff.SecondOnly) == 0 {
		fmt.Fprintln(out, "no differences")
		return nil
	}

	p := printer(out)
	p.Words(fmt.Sprintf("only in %s:", quoteShort(args[0])), diff.FirstOnly)
	p.Words(fmt.Sprintf("only in %s:", quoteShort(args[1])), diff.SecondOnly)
	return nil
}

func quoteShort(s string) string {
	const max = 32
	if r := []rune(s); len(r) > max {
		s = strings.TrimSpace(string(r[:max])) + "…"
	}
	return fmt.Sprintf("%q", s)
}
