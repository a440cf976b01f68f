package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/keyresolve/internal/config/notify"
	"github.com/dshills/keyresolve/internal/config/watcher"
	"github.com/dshills/keyresolve/internal/input/keymap"
	"github.com/dshills/keyresolve/internal/input/machine"
)

func newWatchCommand(r *runner) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload bindings whenever a source file changes",
		Long: `Watch every configured source and reload the bindings when one changes.
Each reload prints the number of effective bindings and any failures.
Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := r.app
			out := cmd.OutOrStdout()

			w, err := watcher.New(
				watcher.WithDebounce(debounce),
				watcher.WithLogger(component(app.Logger, "watcher")),
			)
			if err != nil {
				return err
			}
			defer w.Close()

			files, dirs := app.Config.WatchPaths()
			for _, f := range files {
				if err := w.Watch(f); err != nil {
					return fmt.Errorf("watching %s: %w", f, err)
				}
			}
			for _, d := range dirs {
				if err := w.WatchDir(d, "*"); err != nil {
					return fmt.Errorf("watching %s: %w", d, err)
				}
			}

			sub := app.Machine.SubscribeTopic(machine.TopicBindings, func(c notify.Change) {
				if c.Type == notify.ChangeReload {
					fmt.Fprintf(out, "bindings replaced by %s\n", c.Source)
					return
				}
				app.Logger.Info().Str("topic", c.Topic).Msg("bindings changed")
			})
			defer sub.Unsubscribe()

			reloader := watcher.NewReloader(app.Registry, app.Machine, app.Logger)
			reloader.Notifier = app.Notifier
			reloader.OnReload = func(res *keymap.Result, err error) {
				if res != nil {
					fmt.Fprintf(out, "reloaded: %d bindings, %d effective\n",
						len(res.Bindings), len(app.Machine.CommandMap()))
				}
				if err != nil {
					fmt.Fprintf(out, "reload failed: %v\n", err)
				}
			}
			w.OnChange(reloader.Handle)
			w.Start()

			fmt.Fprintf(out, "watching %d file(s) and %d directory(ies)\n", len(files), len(dirs))
			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "delay before reloading after a change")
	return cmd
}
