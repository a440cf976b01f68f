package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/keyresolve/internal/config/notify"
	"github.com/dshills/keyresolve/internal/input/keymap"
)

// Reloader re-applies a registry to its target whenever a watched file
// changes. Reloads are serialised.
type Reloader struct {
	mu       sync.Mutex
	registry *keymap.Registry
	target   keymap.Target
	timeout  time.Duration
	logger   zerolog.Logger

	// OnReload, if set, is called after every reload attempt.
	OnReload func(res *keymap.Result, err error)

	// Notifier, if set, receives a reload change whenever bindings were
	// applied.
	Notifier *notify.Notifier
}

// NewReloader creates a reloader that loads registry into target.
func NewReloader(registry *keymap.Registry, target keymap.Target, logger zerolog.Logger) *Reloader {
	return &Reloader{
		registry: registry,
		target:   target,
		timeout:  10 * time.Second,
		logger:   logger.With().Str("component", "reloader").Logger(),
	}
}

// Handle is a watcher Handler.
func (r *Reloader) Handle(event Event) {
	r.logger.Info().Str("file", event.Path).Str("op", event.Op.String()).Msg("reloading bindings")
	r.Reload(context.Background())
}

// Reload loads every source and applies the result.
// Failed sources are logged and the rest still apply.
func (r *Reloader) Reload(ctx context.Context) (*keymap.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.registry.Apply(ctx, r.target)
	if err != nil {
		r.logger.Warn().Err(err).Msg("reload incomplete")
	}
	if res != nil {
		r.logger.Debug().
			Int("bindings", len(res.Bindings)).
			Int("skipped", len(res.Skipped)).
			Int("failed", len(res.Failed)).
			Msg("bindings reloaded")
		if r.Notifier != nil {
			r.Notifier.NotifyReload("reloader")
		}
	}
	if r.OnReload != nil {
		r.OnReload(res, err)
	}
	return res, err
}
