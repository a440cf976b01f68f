package cli

import (
	"fmt"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/keyresolve/internal/input/fuzzy"
)

func newSearchCommand(r *runner) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find bound commands by abbreviation and show their first sequence",
		Long: `Search the commands bound in the active state. The query matches when its
letters appear in order, so "fsa" finds file.saveAs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := r.app.Machine
			ids := slices.Sorted(maps.Keys(m.KeySequenceMap()))

			matches := fuzzy.Find(args[0], ids, limit)
			if len(matches) == 0 {
				return fmt.Errorf("no command matches %q", args[0])
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, match := range matches {
				seq, _ := m.FirstSequenceForCommand(match.Text)
				fmt.Fprintf(tw, "%s\t%s\n", match.Text, seq)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results (0 for all)")
	return cmd
}
