// Package cli implements the keyresolve command line.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/dshills/keyresolve/internal/config"
	"github.com/dshills/keyresolve/internal/config/notify"
	"github.com/dshills/keyresolve/internal/input/keymap"
	"github.com/dshills/keyresolve/internal/input/machine"
	"github.com/dshills/keyresolve/internal/logging"
)

// App holds the engine assembled from a configuration.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Registry *keymap.Registry
	Machine  *machine.Machine

	// Notifier carries the machine's changes and reload events.
	Notifier *notify.Notifier

	// Loaded is the result of the initial load.
	Loaded *keymap.Result
}

// NewApp builds the registry and machine described by cfg and loads
// every source once. Failing sources are logged, not fatal.
func NewApp(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	logCfg := cfg.LoggingConfig()
	logCfg.Output = logOut
	logger := logging.New(logCfg)

	reg, err := cfg.BuildRegistry(component(logger, "registry"))
	if err != nil {
		return nil, fmt.Errorf("building registry: %w", err)
	}

	notifier := notify.New()
	m := machine.New(machine.WithLogger(logger), machine.WithNotifier(notifier))
	if _, err := m.SetSnapshot(cfg.Snapshot()); err != nil {
		return nil, fmt.Errorf("active snapshot: %w", err)
	}

	res, err := reg.Apply(ctx, m)
	if res == nil {
		return nil, fmt.Errorf("loading bindings: %w", err)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("some binding sources failed")
	}

	return &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Machine:  m,
		Notifier: notifier,
		Loaded:   res,
	}, nil
}

func component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}
