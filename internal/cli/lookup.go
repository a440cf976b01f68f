package cli

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/keyresolve/internal/input/key"
)

func newLookupCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <command>",
		Short: "Show the sequences bound to a command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seqs := r.app.Machine.KeySequenceMap()[args[0]]
			if len(seqs) == 0 {
				return fmt.Errorf("command %q has no binding in the active state", args[0])
			}
			for _, seq := range seqs {
				fmt.Fprintln(cmd.OutOrStdout(), seq)
			}
			return nil
		},
	}
}

func newConflictsCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "conflicts",
		Short: "List sequences bound to more than one command at equal precedence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conflicts := r.app.Machine.Conflicts()
			if len(conflicts) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no conflicts")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, seq := range slices.SortedFunc(maps.Keys(conflicts), key.Sequence.Compare) {
				fmt.Fprintf(tw, "%s\t%s\n", seq, conflicts[seq])
			}
			return tw.Flush()
		},
	}
}
