package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/theapemachine/errnie"
	"github.com/theapemachine/qprogress"
)

var (
	// configFile is set by the --config flag.
	configFile string

	// v carries defaults, the config file, QPROGRESS_* env vars and flags.
	v = qprogress.NewViper()

	// cfg is resolved by PersistentPreRunE before any subcommand runs.
	cfg *qprogress.Config
)

var rootCmd = &cobra.Command{
	Use:   "qprogress",
	Short: "Progress bars that change when you look at them",
	Long: `qprogress draws progress bars governed by quantum mechanics: every
observation disturbs the progress, time estimates are uncertain, and
entangled bars push each other around.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	// Flag defaults rank below viper defaults, so the terminal check has to
	// be registered as one.
	v.SetDefault(qprogress.KeyColor, qprogress.ColorEnabled(os.Stdout))

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default: ./qprogress.yaml or ~/.config/qprogress/qprogress.yaml)")
	flags.Int("total", qprogress.DefaultTotal, "total number of steps")
	flags.Int("width", qprogress.DefaultWidth, "bar width in cells")
	flags.Bool("quantum-style", true, "draw quantum glyphs instead of a solid bar")
	flags.Bool("color", qprogress.ColorEnabled(os.Stdout), "colour the bar")
	flags.Float64("collapse-factor", float64(qprogress.DefaultCollapseFactor), "how far one observation may move the bar (0-1)")
	flags.Float64("uncertainty", float64(qprogress.DefaultUncertainty), "uncertainty of time estimates (0-1)")
	flags.Duration("delay", qprogress.DefaultDelay, "pause between frames")
	flags.Duration("min-interval", qprogress.DefaultMinInterval, "shortest time between throttled redraws")

	bindings := map[string]string{
		qprogress.KeyTotal:          "total",
		qprogress.KeyWidth:          "width",
		qprogress.KeyQuantumStyle:   "quantum-style",
		qprogress.KeyColor:          "color",
		qprogress.KeyCollapseFactor: "collapse-factor",
		qprogress.KeyUncertainty:    "uncertainty",
		qprogress.KeyDelay:          "delay",
		qprogress.KeyMinInterval:    "min-interval",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(observeCmd)
	rootCmd.AddCommand(entangleCmd)
	rootCmd.AddCommand(loadingCmd)
	rootCmd.AddCommand(iterateCmd)
}

// loadConfig resolves cfg with precedence flag > env > config file > default.
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := qprogress.ReadConfig(v, configFile); err != nil {
		return err
	}

	resolved, err := qprogress.ConfigFromViper(v)
	if err != nil {
		return err
	}

	resolved.Width = qprogress.FitWidth(resolved.Width)
	cfg = resolved

	errnie.Info("qprogress - config %+v", *cfg)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "qprogress", qprogress.Version)
	},
}
