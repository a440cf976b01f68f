package machine

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/keyresolve/internal/config/notify"
	"github.com/dshills/keyresolve/internal/input/key"
	"github.com/dshills/keyresolve/internal/input/keymap"
	"github.com/dshills/keyresolve/internal/input/state"
	"github.com/dshills/keyresolve/internal/input/trie"
)

const changeSource = "machine"

// Machine resolves key sequences to commands for the active snapshot.
type Machine struct {
	mu       sync.Mutex
	logger   zerolog.Logger
	notifier *notify.Notifier

	// Inputs
	bindings       []keymap.Binding
	contextParents map[string]string
	schemeParents  map[string]string

	// Active snapshot
	activeContexts []string
	activeScheme   string
	platform       string
	locale         string
	mode           key.Sequence

	// Derived state, see Phase
	phase    Phase
	root     *trie.Node
	contexts *state.Hierarchy
	schemes  *state.Hierarchy

	// Cached views; nil when stale
	commandMap      map[key.Sequence]string
	sequenceMap     map[string][]key.Sequence
	modeCommandMap  map[key.Sequence]string
	modeSequenceMap map[string][]key.Sequence

	stats Stats
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the logger for build and solve diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger.With().Str("component", "machine").Logger()
	}
}

// WithNotifier publishes changes to n instead of a private notifier.
func WithNotifier(n *notify.Notifier) Option {
	return func(m *Machine) {
		m.notifier = n
	}
}

// New creates a machine with no bindings. The active snapshot starts as
// context "global", scheme "default", any platform and any locale.
func New(opts ...Option) *Machine {
	m := &Machine{
		logger:         zerolog.Nop(),
		activeContexts: []string{keymap.DefaultContext},
		activeScheme:   keymap.DefaultScheme,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.notifier == nil {
		m.notifier = notify.New()
	}
	return m
}

// Subscribe registers fn for every change. Changes are delivered after
// the machine's state transition completes and outside its lock.
func (m *Machine) Subscribe(fn notify.Observer) *notify.Subscription {
	return m.notifier.Subscribe(fn)
}

// SubscribeTopic registers fn for one topic, e.g. TopicMode or "active".
func (m *Machine) SubscribeTopic(topic string, fn notify.Observer) *notify.Subscription {
	return m.notifier.SubscribeTopic(topic, fn)
}

// update runs fn under the lock and publishes the changes it returns.
func (m *Machine) update(fn func(b *notify.Batch) error) error {
	batch := m.notifier.NewBatch()

	m.mu.Lock()
	err := fn(batch)
	m.mu.Unlock()

	if err != nil {
		batch.Discard()
		return err
	}
	batch.Commit()
	return nil
}

// SetBindings replaces the raw bindings. It reports whether they changed.
func (m *Machine) SetBindings(bindings []keymap.Binding) bool {
	changed := false
	_ = m.update(func(b *notify.Batch) error {
		if slices.Equal(m.bindings, bindings) {
			return nil
		}
		old := len(m.bindings)
		m.bindings = slices.Clone(bindings)
		m.invalidateTree()
		b.Set(TopicBindings, old, len(bindings), changeSource)
		changed = true
		return nil
	})
	return changed
}

// SetContextHierarchy replaces the context parent map.
func (m *Machine) SetContextHierarchy(parents map[string]string) bool {
	return m.setHierarchy(&m.contextParents, parents, TopicContextHierarchy)
}

// SetSchemeHierarchy replaces the scheme parent map.
func (m *Machine) SetSchemeHierarchy(parents map[string]string) bool {
	return m.setHierarchy(&m.schemeParents, parents, TopicSchemeHierarchy)
}

func (m *Machine) setHierarchy(dst *map[string]string, parents map[string]string, topic string) bool {
	changed := false
	_ = m.update(func(b *notify.Batch) error {
		if maps.Equal(*dst, parents) {
			return nil
		}
		old := *dst
		*dst = maps.Clone(parents)
		m.invalidateTree()
		b.Set(topic, old, maps.Clone(parents), changeSource)
		changed = true
		return nil
	})
	return changed
}

// SetActiveContexts sets the active contexts, most preferred first.
// An empty list or an empty id fails with ErrInvalidArgument.
func (m *Machine) SetActiveContexts(ids []string) (bool, error) {
	return m.modifySnapshot(func(s *Snapshot) { s.Contexts = ids })
}

// SetActiveScheme sets the active scheme. An empty id fails with
// ErrInvalidArgument.
func (m *Machine) SetActiveScheme(id string) (bool, error) {
	return m.modifySnapshot(func(s *Snapshot) { s.Scheme = id })
}

// SetPlatform sets the active platform, e.g. "linux" or "linux/gtk".
func (m *Machine) SetPlatform(platform string) (bool, error) {
	return m.modifySnapshot(func(s *Snapshot) { s.Platform = platform })
}

// SetLocale sets the active locale, e.g. "en_US".
func (m *Machine) SetLocale(locale string) (bool, error) {
	return m.modifySnapshot(func(s *Snapshot) { s.Locale = locale })
}

// Snapshot is the active state bindings are resolved against.
type Snapshot struct {
	// Contexts lists the active contexts, most preferred first.
	Contexts []string
	Scheme   string
	Platform string
	Locale   string
}

// Snapshot returns the active snapshot.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Contexts: slices.Clone(m.activeContexts),
		Scheme:   m.activeScheme,
		Platform: m.platform,
		Locale:   m.locale,
	}
}

// SetSnapshot replaces the whole active snapshot at once. It is
// validated before anything changes; on error the machine is untouched.
func (m *Machine) SetSnapshot(s Snapshot) (bool, error) {
	return m.modifySnapshot(func(dst *Snapshot) { *dst = s })
}

// modifySnapshot applies fn to the active snapshot and validates the
// result. Read, modify and write happen under one lock.
func (m *Machine) modifySnapshot(fn func(*Snapshot)) (bool, error) {
	changed := false
	err := m.update(func(b *notify.Batch) error {
		s := Snapshot{
			Contexts: slices.Clone(m.activeContexts),
			Scheme:   m.activeScheme,
			Platform: m.platform,
			Locale:   m.locale,
		}
		fn(&s)
		s, err := validateSnapshot(s)
		if err != nil {
			return err
		}

		if !slices.Equal(m.activeContexts, s.Contexts) {
			b.Set(TopicActiveContexts, m.activeContexts, slices.Clone(s.Contexts), changeSource)
			m.activeContexts = slices.Clone(s.Contexts)
		}
		if m.activeScheme != s.Scheme {
			b.Set(TopicActiveScheme, m.activeScheme, s.Scheme, changeSource)
			m.activeScheme = s.Scheme
		}
		if m.platform != s.Platform {
			b.Set(TopicPlatform, m.platform, s.Platform, changeSource)
			m.platform = s.Platform
		}
		if m.locale != s.Locale {
			b.Set(TopicLocale, m.locale, s.Locale, changeSource)
			m.locale = s.Locale
		}
		if b.Len() > 0 {
			m.invalidateSolution()
			changed = true
		}
		return nil
	})
	return changed, err
}

// validateSnapshot checks s and returns it with platform and locale in
// canonical form.
func validateSnapshot(s Snapshot) (Snapshot, error) {
	if len(s.Contexts) == 0 {
		return s, fmt.Errorf("%w: no active contexts", ErrInvalidArgument)
	}
	if slices.Contains(s.Contexts, "") {
		return s, fmt.Errorf("%w: empty context id", ErrInvalidArgument)
	}
	if s.Scheme == "" {
		return s, fmt.Errorf("%w: empty scheme id", ErrInvalidArgument)
	}
	platform, err := state.CanonicalPlatform(s.Platform)
	if err != nil {
		return s, fmt.Errorf("%w: platform %q: %w", ErrInvalidArgument, s.Platform, err)
	}
	locale, err := state.CanonicalLocale(s.Locale)
	if err != nil {
		return s, fmt.Errorf("%w: locale %q: %w", ErrInvalidArgument, s.Locale, err)
	}
	s.Platform, s.Locale = platform, locale
	return s, nil
}

// SetMode sets the partially typed sequence. Only the mode-scoped views
// are discarded.
func (m *Machine) SetMode(mode key.Sequence) bool {
	changed := false
	_ = m.update(func(b *notify.Batch) error {
		if m.mode == mode {
			return nil
		}
		b.Set(TopicMode, m.mode, mode, changeSource)
		m.mode = mode
		m.invalidateMode()
		changed = true
		return nil
	})
	return changed
}

// Mode returns the partially typed sequence.
func (m *Machine) Mode() key.Sequence {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// ModeActive reports whether a partial sequence is being tracked.
func (m *Machine) ModeActive() bool {
	return !m.Mode().IsEmpty()
}

// Phase returns the current cache state.
func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Stats returns build and solve counters.
func (m *Machine) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// Bindings returns a copy of the raw bindings.
func (m *Machine) Bindings() []keymap.Binding {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.bindings)
}

// ContextHierarchy returns a copy of the context parent map.
func (m *Machine) ContextHierarchy() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.contextParents)
}

// SchemeHierarchy returns a copy of the scheme parent map.
func (m *Machine) SchemeHierarchy() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.schemeParents)
}

// CommandMap returns every exposed sequence and its command.
func (m *Machine) CommandMap() map[key.Sequence]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.commandMapLocked())
}

// CommandMapForMode returns the bindings that strictly extend the mode:
// the legal completions of the partial sequence.
func (m *Machine) CommandMapForMode() map[key.Sequence]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureSolved()
	if m.modeCommandMap == nil {
		m.modeCommandMap = trie.CommandMap(trie.Find(m.root, m.mode), m.mode)
	}
	return maps.Clone(m.modeCommandMap)
}

// KeySequenceMap returns each command's bound sequences in ascending order.
func (m *Machine) KeySequenceMap() map[string][]key.Sequence {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSequenceMap(m.sequenceMapLocked())
}

// KeySequenceMapForMode is KeySequenceMap restricted to extensions of the mode.
func (m *Machine) KeySequenceMapForMode() map[string][]key.Sequence {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureSolved()
	if m.modeSequenceMap == nil {
		m.modeSequenceMap = trie.KeySequenceMap(trie.Find(m.root, m.mode), m.mode)
	}
	return cloneSequenceMap(m.modeSequenceMap)
}

// FirstSequenceForCommand returns the lowest sequence bound to id.
func (m *Machine) FirstSequenceForCommand(id string) (key.Sequence, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seqs := m.sequenceMapLocked()[id]
	if len(seqs) == 0 {
		return key.Sequence{}, false
	}
	return seqs[0], true
}

// Lookup returns the resolution of exactly seq, ignoring prefix shadowing.
func (m *Machine) Lookup(seq key.Sequence) trie.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureSolved()
	match := trie.Find(m.root, seq).Match()
	match.Candidates = slices.Clone(match.Candidates)
	return match
}

// Conflicts returns the sequences whose resolution is ambiguous.
func (m *Machine) Conflicts() map[key.Sequence]trie.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureSolved()

	out := make(map[key.Sequence]trie.Match)
	for seq, match := range trie.MatchMap(m.root, key.Sequence{}) {
		if match.Kind == trie.Ambiguous {
			out[seq] = match
		}
	}
	return out
}

func (m *Machine) commandMapLocked() map[key.Sequence]string {
	m.ensureSolved()
	if m.commandMap == nil {
		m.commandMap = trie.CommandMap(m.root, key.Sequence{})
	}
	return m.commandMap
}

func (m *Machine) sequenceMapLocked() map[string][]key.Sequence {
	m.ensureSolved()
	if m.sequenceMap == nil {
		m.sequenceMap = trie.KeySequenceMap(m.root, key.Sequence{})
	}
	return m.sequenceMap
}

func cloneSequenceMap(src map[string][]key.Sequence) map[string][]key.Sequence {
	out := make(map[string][]key.Sequence, len(src))
	for id, seqs := range src {
		out[id] = slices.Clone(seqs)
	}
	return out
}

// invalidateTree discards the tree and everything derived from it.
func (m *Machine) invalidateTree() {
	m.invalidateSolution()
	m.root = nil
	m.contexts = nil
	m.schemes = nil
	m.phase = Unbuilt
}

// invalidateSolution keeps the tree but discards its resolution.
func (m *Machine) invalidateSolution() {
	if m.phase == Solved {
		m.phase = BuiltUnsolved
	}
	m.commandMap = nil
	m.sequenceMap = nil
	m.invalidateMode()
}

// invalidateMode discards the mode-scoped views.
func (m *Machine) invalidateMode() {
	m.modeCommandMap = nil
	m.modeSequenceMap = nil
}

func (m *Machine) ensureSolved() {
	if m.phase == Unbuilt {
		m.build()
	}
	if m.phase == BuiltUnsolved {
		m.solve()
	}
}

func (m *Machine) build() {
	m.contexts = state.NewHierarchy(m.contextParents)
	m.schemes = state.NewHierarchy(m.schemeParents)
	for _, id := range m.contexts.Cycles() {
		m.logger.Warn().Str("context", id).Msg("context hierarchy cycle, bindings excluded")
	}
	for _, id := range m.schemes.Cycles() {
		m.logger.Warn().Str("scheme", id).Msg("scheme hierarchy cycle, bindings excluded")
	}

	root := trie.New()
	skipped := 0
	for _, b := range m.bindings {
		coord, err := m.coord(b)
		if err != nil {
			skipped++
			ev := m.logger.Warn()
			if errors.Is(err, state.ErrCycle) {
				ev = m.logger.Debug()
			}
			ev.Err(err).Stringer("binding", b).Msg("skipping binding")
			continue
		}
		trie.Add(root, b.Sequence, coord, b.CommandID)
	}

	m.root = root
	m.phase = BuiltUnsolved
	m.stats.Builds++
	m.stats.Skipped = skipped
	m.logger.Debug().Int("bindings", len(m.bindings)).Int("skipped", skipped).Msg("binding tree built")
}

// coord validates b against the hierarchies and returns its trie coordinates.
func (m *Machine) coord(b keymap.Binding) (trie.Coord, error) {
	if b.Sequence.IsEmpty() {
		return trie.Coord{}, errors.New("empty sequence")
	}
	if b.Rank < 0 {
		return trie.Coord{}, fmt.Errorf("%w: %d", keymap.ErrNegativeRank, b.Rank)
	}
	if _, err := m.contexts.Path(b.ContextID); err != nil {
		return trie.Coord{}, fmt.Errorf("context %q: %w", b.ContextID, err)
	}
	if _, err := m.schemes.Path(b.SchemeID); err != nil {
		return trie.Coord{}, fmt.Errorf("scheme %q: %w", b.SchemeID, err)
	}
	platform, err := state.CanonicalPlatform(b.Platform)
	if err != nil {
		return trie.Coord{}, fmt.Errorf("platform %q: %w", b.Platform, err)
	}
	locale, err := state.CanonicalLocale(b.Locale)
	if err != nil {
		return trie.Coord{}, fmt.Errorf("locale %q: %w", b.Locale, err)
	}
	return trie.Coord{
		Context:  b.ContextID,
		Scheme:   b.SchemeID,
		Rank:     b.Rank,
		Platform: platform,
		Locale:   locale,
	}, nil
}

func (m *Machine) solve() {
	res := resolver{contexts: m.contexts, schemes: m.schemes}

	var envs []state.State
	if env, err := state.EnvState(m.platform, m.locale); err == nil {
		envs = append(envs, env)
	} else {
		m.logger.Warn().Err(err).Msg("invalid platform or locale")
	}

	trie.Solve(m.root, res, m.contextStates(), envs)
	m.phase = Solved
	m.stats.Solves++
	m.logger.Debug().Strs("contexts", m.activeContexts).Str("scheme", m.activeScheme).Msg("bindings solved")
}

// contextStates pairs each active context with the active scheme.
func (m *Machine) contextStates() []state.State {
	schemePath, err := m.schemes.Path(m.activeScheme)
	if err != nil {
		m.logger.Warn().Err(err).Str("scheme", m.activeScheme).Msg("active scheme unusable")
		return nil
	}

	out := make([]state.State, 0, len(m.activeContexts))
	for _, id := range m.activeContexts {
		ctxPath, err := m.contexts.Path(id)
		if err != nil {
			m.logger.Warn().Err(err).Str("context", id).Msg("active context unusable")
			continue
		}
		st, err := state.NewState(ctxPath, schemePath)
		if err != nil {
			continue
		}
		out = append(out, st)
	}
	return out
}

// resolver adapts the machine's hierarchies to trie.Resolver.
type resolver struct {
	contexts *state.Hierarchy
	schemes  *state.Hierarchy
}

func (r resolver) ContextPath(id string) (state.Path, error) { return r.contexts.Path(id) }
func (r resolver) SchemePath(id string) (state.Path, error)  { return r.schemes.Path(id) }

func (r resolver) PlatformPath(platform string) (state.Path, error) {
	return state.PlatformPath(platform)
}

func (r resolver) LocalePath(locale string) (state.Path, error) {
	return state.LocalePath(locale)
}
