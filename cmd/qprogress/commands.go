package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/theapemachine/qprogress"
)

var (
	flagFrames int
	flagDump   bool
	flagSteps  int
	flagMsg    string
	flagLength time.Duration
)

func init() {
	observeCmd.Flags().IntVar(&flagFrames, "frames", 5, "number of observations to draw")
	observeCmd.Flags().BoolVar(&flagDump, "dump", false, "dump the final state and metrics")

	entangleCmd.Flags().IntVar(&flagSteps, "steps", 10, "steps to advance the first bar by")

	loadingCmd.Flags().StringVar(&flagMsg, "message", "Loading quantum state", "message shown next to the bar")
	loadingCmd.Flags().DurationVar(&flagLength, "duration", 2*time.Second, "how long to animate")
}

// options turns the resolved config into QuantumState options writing to w.
func options(w io.Writer) []qprogress.Option {
	return []qprogress.Option{qprogress.WithConfig(cfg), qprogress.WithOutput(w)}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Animate a bar until it reaches 100% and print an estimate",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if err := qprogress.Progress(cmd.Context(), cfg.Total, cfg.Width, cfg.Delay, options(out)...); err != nil {
			return err
		}

		fmt.Fprintf(out, "Estimated time: %s\n", qprogress.UncertaintyEstimate())
		return nil
	},
}

var observeCmd = &cobra.Command{
	Use:   "observe",
	Short: "Observe a bar a few times, estimating the time left after each look",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		qs, err := qprogress.NewQuantumState(cfg.Total, options(out)...)
		if err != nil {
			return err
		}

		for frame := 0; frame < flagFrames; frame++ {
			qs.Render(cfg.Width, cfg.QuantumStyle)
			fmt.Fprintf(out, " Estimated time: %s\n", qs.Estimate())

			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(cfg.Delay):
			}
		}

		if flagDump {
			fmt.Fprint(out, qs.Dump())
			printMetrics(out, qs.Metrics())
		}
		return nil
	},
}

var entangleCmd = &cobra.Command{
	Use:   "entangle",
	Short: "Entangle two bars, advance one and look at both",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		first, err := qprogress.NewQuantumState(cfg.Total, options(out)...)
		if err != nil {
			return err
		}
		second, err := qprogress.NewQuantumState(cfg.Total, options(out)...)
		if err != nil {
			return err
		}

		first.Entangle(second)
		first.Advance(flagSteps)

		first.Render(cfg.Width, cfg.QuantumStyle)
		fmt.Fprintln(out)
		second.Render(cfg.Width, cfg.QuantumStyle)
		fmt.Fprintln(out)

		for _, change := range first.Entanglement().GetStateHistory(0) {
			fmt.Fprintf(out, "peer moved %+d: %d -> %d\n", change.Delta, change.Before, change.After)
		}
		return nil
	},
}

var loadingCmd = &cobra.Command{
	Use:   "loading",
	Short: "Show a loading animation",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		return qprogress.Loading(cmd.Context(), out, flagMsg, flagLength, cfg.Width, qprogress.WithConfig(cfg))
	},
}

var iterateCmd = &cobra.Command{
	Use:   "iterate [items...]",
	Short: "Walk over the arguments with a bar, one step per item",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		for range qprogress.IterateSlice(args, options(out)...) {
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(cfg.Delay):
			}
		}
		return nil
	},
}

func printMetrics(w io.Writer, m *qprogress.Metrics) {
	exported := m.ExportMetrics()
	for _, key := range slices.Sorted(maps.Keys(exported)) {
		fmt.Fprintf(w, "%s: %v\n", key, exported[key])
	}
}
