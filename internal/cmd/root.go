package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/cheerioskun/matchninja/internal/config"
	"github.com/cheerioskun/matchninja/internal/render"
	"github.com/cheerioskun/matchninja/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "matchninja",
	Short: "Compile and test tiny match patterns against text",
	Long: `matchninja compiles patterns made of literal text, single-character
wildcards (.) and alternation groups like (get|put|post), then matches
them against candidate strings without backtracking.

Each match reports how many tokens of the pattern matched, in order,
before the first mismatch.

Examples:
  matchninja compile 'abc(d|e|f).'
  matchninja match 'abc(d|e|f).' abcd! abcge
  matchninja scan '(GET|POST) /api/.' ./logs --strip-timestamps
  matchninja tui ./logs`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./.matchninja.yaml or $HOME/.matchninja.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output and debug logging")
	rootCmd.PersistentFlags().String("log-file", "", "log file path (default "+utils.DefaultLogPath()+")")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable coloured output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
}

func setup(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	// Bind the running command's own flags so shared names like
	// max-depth resolve to the flag that was actually parsed.
	if err := v.BindPFlags(cmd.LocalNonPersistentFlags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}
	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := utils.Init(cfg.LogFile, cfg.Verbose); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	utils.Debug("running %s with config %s", cmd.CommandPath(), v.ConfigFileUsed())
	return nil
}

func printer(w io.Writer) *render.Printer {
	return render.NewPrinter(w, cfg == nil || !cfg.NoColor)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
