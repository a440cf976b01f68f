package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/keyresolve/internal/input/key"
	"github.com/dshills/keyresolve/internal/input/keymap"
)

func newBindingsCommand(r *runner) *cobra.Command {
	var (
		prefix string
		format string
	)

	cmd := &cobra.Command{
		Use:   "bindings",
		Short: "List the effective bindings for the active state",
		Long: `List every key sequence that invokes a command in the active state.

With --prefix, list the sequences that continue a partial sequence instead.
With --format toml|yaml|json the bindings are written as a binding file
that can be used as a source.

Examples:
  keyresolve bindings --scheme emacs --context editor.text,editor,global
  keyresolve bindings --prefix "Ctrl+K"
  keyresolve bindings --format toml > bindings.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := r.app.Machine

			var commands map[key.Sequence]string
			if prefix == "" {
				commands = m.CommandMap()
			} else {
				seq, err := key.ParseSequence(prefix)
				if err != nil {
					return fmt.Errorf("prefix: %w", err)
				}
				m.SetMode(seq)
				commands = m.CommandMapForMode()
				m.SetMode(key.Sequence{})
			}

			if format != "" {
				return exportBindings(cmd.OutOrStdout(), commands, format)
			}
			printCommandMap(cmd.OutOrStdout(), commands)
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "list continuations of a partial sequence")
	cmd.Flags().StringVar(&format, "format", "", "write a binding file (toml, yaml, json)")
	return cmd
}

func sortedSequences(commands map[key.Sequence]string) []key.Sequence {
	return slices.SortedFunc(maps.Keys(commands), key.Sequence.Compare)
}

func printCommandMap(w io.Writer, commands map[key.Sequence]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, seq := range sortedSequences(commands) {
		fmt.Fprintf(tw, "%s\t%s\n", seq, commands[seq])
	}
	_ = tw.Flush()
}

func exportBindings(w io.Writer, commands map[key.Sequence]string, format string) error {
	set := keymap.NewSet("export")
	for _, seq := range sortedSequences(commands) {
		set.Add(seq.String(), commands[seq])
	}
	data, err := keymap.EncodeSet(set, keymap.Format(format))
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
