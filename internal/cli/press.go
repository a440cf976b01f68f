package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dshills/keyresolve/internal/input"
	"github.com/dshills/keyresolve/internal/input/key"
)

func newPressCommand(r *runner) *cobra.Command {
	var (
		disabled   []string
		verbose    bool
		maxLatency time.Duration
	)

	cmd := &cobra.Command{
		Use:   "press <stroke>...",
		Short: "Feed key strokes to the resolver and print each outcome",
		Long: `Press each stroke in turn, the way a terminal would deliver them, and print
what happened: awaiting a longer sequence, invoking a command, or an
unrecognized sequence.

Examples:
  keyresolve press Ctrl+S
  keyresolve press Ctrl+K Ctrl+C --context editor.text,editor,global
  keyresolve press "Ctrl+X Ctrl+S" --scheme emacs --disable file.save`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := key.ParseSequence(strings.Join(args, " "))
			if err != nil {
				return err
			}

			cfg := r.app.Config.HandlerConfig()
			cfg.SequenceTimeout = 0
			if len(disabled) > 0 {
				cfg.Status = input.CommandStatusFunc(func(id string) bool {
					return !slices.Contains(disabled, id)
				})
			}
			h := input.NewHandler(r.app.Machine, cfg, input.WithLogger(r.app.Logger))
			defer h.Close()
			if verbose {
				h.Hooks().RegisterWithOptions(input.LoggingHook{
					Logger: r.app.Logger.Level(zerolog.DebugLevel),
				}, "log", input.HookPriorityLowest)
			}

			out := cmd.OutOrStdout()
			for _, stroke := range seq.Strokes() {
				res := h.Press(stroke)
				fmt.Fprintf(out, "%s\t%s\n", stroke, res)
			}

			if pending := h.Pending(); !pending.IsEmpty() {
				next := make([]string, 0)
				for _, s := range h.NextStrokes() {
					next = append(next, s.String())
				}
				fmt.Fprintf(out, "pending %s, next: %s\n", pending, strings.Join(next, " "))
			}

			if verbose {
				printPressStats(out, h, maxLatency)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&disabled, "disable", nil, "commands to treat as disabled")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log each press and print handler statistics")
	cmd.Flags().DurationVar(&maxLatency, "max-latency", 50*time.Millisecond, "peak press latency considered healthy")
	return cmd
}

func printPressStats(out io.Writer, h *input.Handler, maxLatency time.Duration) {
	names := make([]string, 0)
	for _, reg := range h.Hooks().List() {
		names = append(names, reg.Name)
	}
	fmt.Fprintf(out, "hooks: %s\n", strings.Join(names, " "))

	snap := h.Metrics().Snapshot()
	fmt.Fprintf(out, "presses %d, invoked %d, awaiting %d, unrecognized %d (%d disabled)\n",
		snap.Presses, snap.Invocations, snap.Awaiting, snap.Unrecognized, snap.Disabled)

	health := h.Metrics().HealthCheck(maxLatency)
	fmt.Fprintf(out, "latency avg %s, peak %s: %s\n", snap.AvgLatency, health.PeakLatency, health.Message)
}
