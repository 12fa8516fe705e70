package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/cheerioskun/matchninja/internal/history"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var historyCmd = &cobra.Command{
	Use:   "history [pattern]",
	Short: "Show recorded runs",
	Long: `Show runs recorded by scan, match or tui with --record, newest first. With a pattern, only
runs of that pattern are listed together with its best match length.

Examples:
  matchninja history
  matchninja history 'err(or|no)' --limit 5
  matchninja history clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear [pattern]",
	Short: "Delete recorded runs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistoryClear,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyClearCmd)

	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 = all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	var p string
	if len(args) == 1 {
		p = args[0]
		best, err := store.Best(ctx, p)
		if err != nil {
			return err
		}
		if best == nil {
			fmt.Fprintf(out, "no runs recorded for %q\n", p)
			return nil
		}
		fmt.Fprintf(out, "%q: best %d of %d tokens over %d runs (last %s)\n\n",
			best.Pattern, best.BestMatchLength, best.NumTokens, best.Runs, best.LastRun.Local().Format("2006-01-02 15:04:05"))
	}

	runs, err := store.Recent(ctx, p, viper.GetInt("limit"))
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tPATTERN\tBEST\tFULL\tCANDIDATES\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%d\t%d\t%s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Pattern, r.BestMatchLength, r.NumTokens,
			r.FullMatches, r.Candidates, r.Source)
	}
	return tw.Flush()
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var p string
	if len(args) == 1 {
		p = args[0]
	}
	n, err := store.Clear(cmd.Context(), p)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d runs\n", n)
	return nil
}
