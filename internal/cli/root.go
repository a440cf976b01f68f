package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/keyresolve/internal/config"
)

// Build information, set from main.
var (
	Version = "dev"
	Commit  = "unknown"
)

// runner carries state from the root command into its subcommands.
type runner struct {
	configPath string
	app        *App
}

// flagKeys maps persistent flags to configuration keys.
var flagKeys = map[string]string{
	"platform":  "platform",
	"locale":    "locale",
	"scheme":    "scheme",
	"context":   "contexts",
	"log-level": "log.level",
	"timeout":   "sequence_timeout",
}

// NewRootCommand creates the keyresolve command tree.
func NewRootCommand() *cobra.Command {
	r := &runner{}

	root := &cobra.Command{
		Use:   "keyresolve",
		Short: "Resolve key presses against layered key bindings",
		Long: `keyresolve loads key bindings from files, Lua scripts and the built-in
set, resolves them for the active contexts, scheme, platform and locale,
and answers what a key sequence does.

Configuration is read from --config, or keyresolve.{toml,yaml,json} in the
user config directory or the working directory. KEYRESOLVE_* environment
variables and flags override the file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "version", "completion":
				return nil
			}
			return r.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&r.configPath, "config", "c", "", "path to configuration file")
	flags.String("platform", "", "platform to resolve for (darwin, linux, windows)")
	flags.String("locale", "", "locale to resolve for, e.g. de_DE")
	flags.String("scheme", "", "active scheme")
	flags.StringSlice("context", nil, "active contexts, most preferred first")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.Duration("timeout", 0, "sequence timeout")

	root.AddCommand(
		newBindingsCommand(r),
		newPressCommand(r),
		newLookupCommand(r),
		newSearchCommand(r),
		newConflictsCommand(r),
		newCheckCommand(r),
		newWatchCommand(r),
		newVersionCommand(),
	)
	return root
}

func (r *runner) init(cmd *cobra.Command) error {
	loader := config.NewLoader()
	v := loader.Viper()
	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, cmd.Root().PersistentFlags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}

	cfg, err := loader.Load(r.configPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	r.app, err = NewApp(ctx, cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	return nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "keyresolve %s (%s)\n", Version, Commit)
		},
	}
}
