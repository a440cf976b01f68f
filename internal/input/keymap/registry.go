package keymap

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Target receives the aggregated bindings and hierarchies.
// Each setter reports whether the value changed.
type Target interface {
	SetBindings(bindings []Binding) bool
	SetContextHierarchy(parents map[string]string) bool
	SetSchemeHierarchy(parents map[string]string) bool
}

// Registry aggregates binding sources into one ranked binding list.
//
// Sources are grouped into rank tiers. Rank 0 has the highest precedence
// and any number of tiers may be used. Every binding takes the rank of
// its source's tier.
type Registry struct {
	mu     sync.Mutex
	tiers  []tier
	logger zerolog.Logger
	last   *Result
}

type tier struct {
	rank   int
	source Source
}

// TierInfo describes a registered source.
type TierInfo struct {
	Rank int
	Name string
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report skipped definitions and
// failing sources.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers a source at the given rank. Sources sharing a rank are
// merged in the order they were added.
func (r *Registry) Add(rank int, src Source) error {
	if src == nil {
		return errors.New("cannot add nil source")
	}
	if rank < 0 {
		return fmt.Errorf("source %q: %w: %d", src.Name(), ErrNegativeRank, rank)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers = append(r.tiers, tier{rank: rank, source: src})
	slices.SortStableFunc(r.tiers, func(a, b tier) int { return cmp.Compare(a.rank, b.rank) })
	return nil
}

// Remove unregisters every source with the given name.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.tiers)
	r.tiers = slices.DeleteFunc(r.tiers, func(t tier) bool { return t.source.Name() == name })
	return len(r.tiers) != n
}

// Tiers lists the registered sources in precedence order.
func (r *Registry) Tiers() []TierInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]TierInfo, len(r.tiers))
	for i, t := range r.tiers {
		out[i] = TierInfo{Rank: t.rank, Name: t.source.Name()}
	}
	return out
}

// Result is the outcome of a Load.
type Result struct {
	Bindings []Binding
	Contexts map[string]string
	Schemes  map[string]string

	// Skipped lists definitions that could not be parsed.
	Skipped []*DefinitionError

	// Failed maps source names to their load errors.
	Failed map[string]error
}

// Load reads every source concurrently and merges the results.
//
// A failing source or a malformed definition never stops the rest: the
// failure is recorded in the Result and the returned error joins the
// source failures. Load returns a nil Result only when ctx is cancelled.
// When tiers declare the same context or scheme with different parents,
// the lower rank wins.
func (r *Registry) Load(ctx context.Context) (*Result, error) {
	r.mu.Lock()
	tiers := slices.Clone(r.tiers)
	r.mu.Unlock()

	sets := make([]*Set, len(tiers))
	loadErrs := make([]error, len(tiers))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range tiers {
		g.Go(func() error {
			set, err := t.source.Load(gctx)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				loadErrs[i] = err
				return nil
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{
		Contexts: make(map[string]string),
		Schemes:  make(map[string]string),
		Failed:   make(map[string]error),
	}
	var errs []error
	for i, t := range tiers {
		name := t.source.Name()
		if loadErrs[i] != nil {
			r.logger.Warn().Err(loadErrs[i]).Str("source", name).Msg("binding source failed")
			res.Failed[name] = loadErrs[i]
			errs = append(errs, fmt.Errorf("source %q: %w", name, loadErrs[i]))
			continue
		}
		r.merge(res, t.rank, name, sets[i])
	}

	r.logger.Debug().
		Int("bindings", len(res.Bindings)).
		Int("skipped", len(res.Skipped)).
		Int("failed", len(res.Failed)).
		Msg("bindings loaded")

	r.mu.Lock()
	r.last = res
	r.mu.Unlock()

	return res, errors.Join(errs...)
}

func (r *Registry) merge(res *Result, rank int, name string, set *Set) {
	if set == nil {
		return
	}
	for id, parent := range set.Contexts {
		mergeParent(res.Contexts, id, parent)
	}
	for id, parent := range set.Schemes {
		mergeParent(res.Schemes, id, parent)
	}

	for i, d := range set.Bindings {
		b, err := d.Parse(name, rank)
		if err != nil {
			derr := &DefinitionError{Source: name, Index: i, Keys: d.Keys, Err: err}
			r.logger.Warn().Err(err).Str("source", name).Int("index", i).Str("keys", d.Keys).Msg("skipping binding")
			res.Skipped = append(res.Skipped, derr)
			continue
		}
		res.Bindings = append(res.Bindings, b)
	}
}

// mergeParent keeps the first declaration of id; tiers are merged in
// precedence order.
func mergeParent(dst map[string]string, id, parent string) {
	if id == "" {
		return
	}
	if _, ok := dst[id]; !ok {
		dst[id] = parent
	}
}

// Apply loads all sources and pushes the result to t.
// Hierarchies are set before bindings. The partial result of a load with
// failing sources is still applied.
func (r *Registry) Apply(ctx context.Context, t Target) (*Result, error) {
	res, err := r.Load(ctx)
	if res == nil {
		return nil, err
	}
	t.SetContextHierarchy(res.Contexts)
	t.SetSchemeHierarchy(res.Schemes)
	t.SetBindings(res.Bindings)
	return res, err
}

// Report returns the definitions skipped by the last Load.
func (r *Registry) Report() []*DefinitionError {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	return slices.Clone(r.last.Skipped)
}
