package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

func newCheckCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report sources that failed to load and definitions that were skipped",
		Long: `Report every binding source that failed to load and every definition that
could not be parsed. Exits non-zero when anything was reported, so it can
guard binding files in CI.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			res := r.app.Loaded

			for _, t := range r.app.Registry.Tiers() {
				fmt.Fprintf(out, "source %s (rank %d)\n", t.Name, t.Rank)
			}

			problems := 0
			for _, name := range slices.Sorted(maps.Keys(res.Failed)) {
				fmt.Fprintf(out, "failed: %s: %v\n", name, res.Failed[name])
				problems++
			}
			for _, skipped := range r.app.Registry.Report() {
				fmt.Fprintf(out, "skipped: %v\n", skipped)
				problems++
			}
			// Building the tree drops bindings with unusable coordinates.
			r.app.Machine.CommandMap()
			if n := r.app.Machine.Stats().Skipped; n > 0 {
				fmt.Fprintf(out, "unusable: %d binding(s), see the log for details\n", n)
				problems += n
			}

			if problems > 0 {
				return fmt.Errorf("%d problem(s) found", problems)
			}
			fmt.Fprintf(out, "%d bindings ok\n", len(res.Bindings))
			return nil
		},
	}
}
