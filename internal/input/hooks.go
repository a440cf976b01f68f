package input

import (
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dshills/keyresolve/internal/input/key"
)

// Hook allows interception and observation of presses.
type Hook interface {
	// PrePress is called before a stroke is resolved.
	// Return true to consume the stroke (stop further processing).
	PrePress(stroke key.Stroke, pending key.Sequence) bool

	// PostPress is called after a stroke was resolved.
	PostPress(stroke key.Stroke, res Result)
}

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHighest runs before all other hooks.
	HookPriorityHighest HookPriority = -1000
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
	// HookPriorityLowest runs after all other hooks.
	HookPriorityLowest HookPriority = 1000
)

// HookID uniquely identifies a registered hook.
type HookID uint64

// HookRegistration holds metadata about a registered hook.
type HookRegistration struct {
	ID       HookID
	Name     string
	Priority HookPriority
	Hook     Hook
}

// HookManager keeps hooks ordered by priority. Hooks with equal priority
// run in registration order.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []HookRegistration
	nextID  HookID
	sorted  bool
	enabled bool
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{sorted: true, enabled: true}
}

// RegisterWithOptions adds a hook with all options specified.
func (m *HookManager) RegisterWithOptions(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.hooks = append(m.hooks, HookRegistration{
		ID:       m.nextID,
		Name:     name,
		Priority: priority,
		Hook:     hook,
	})
	m.sorted = false
	return m.nextID
}

// UnregisterByName removes a hook by name.
func (m *HookManager) UnregisterByName(name string) bool {
	if name == "" {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeWhere(func(r HookRegistration) bool { return r.Name == name })
}

func (m *HookManager) removeWhere(match func(HookRegistration) bool) bool {
	for i := range m.hooks {
		if match(m.hooks[i]) {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// List returns all hook registrations in execution order.
func (m *HookManager) List() []HookRegistration {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureSorted()
	out := make([]HookRegistration, len(m.hooks))
	copy(out, m.hooks)
	return out
}

// snapshot returns the hooks to run, or nil when hooks are disabled.
// Hooks run outside the lock so they may call back into the manager.
func (m *HookManager) snapshot() []Hook {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.enabled || len(m.hooks) == 0 {
		return nil
	}
	m.ensureSorted()
	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].Hook
	}
	return hooks
}

func (m *HookManager) ensureSorted() {
	if m.sorted {
		return
	}
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority < m.hooks[j].Priority
	})
	m.sorted = true
}

// RunPrePress runs all PrePress hooks in priority order.
// Returns true if any hook consumed the stroke.
func (m *HookManager) RunPrePress(stroke key.Stroke, pending key.Sequence) bool {
	for _, hook := range m.snapshot() {
		if hook.PrePress(stroke, pending) {
			return true
		}
	}
	return false
}

// RunPostPress runs all PostPress hooks in priority order.
func (m *HookManager) RunPostPress(stroke key.Stroke, res Result) {
	for _, hook := range m.snapshot() {
		hook.PostPress(stroke, res)
	}
}

// BaseHook provides a default implementation of the Hook interface.
// Embed this in custom hooks to only implement the methods you need.
type BaseHook struct{}

// PrePress is a no-op that does not consume strokes.
func (BaseHook) PrePress(key.Stroke, key.Sequence) bool { return false }

// PostPress is a no-op.
func (BaseHook) PostPress(key.Stroke, Result) {}

// FuncHook wraps functions into a Hook.
type FuncHook struct {
	PrePressFunc  func(key.Stroke, key.Sequence) bool
	PostPressFunc func(key.Stroke, Result)
}

// PrePress calls PrePressFunc if set.
func (h FuncHook) PrePress(stroke key.Stroke, pending key.Sequence) bool {
	if h.PrePressFunc != nil {
		return h.PrePressFunc(stroke, pending)
	}
	return false
}

// PostPress calls PostPressFunc if set.
func (h FuncHook) PostPress(stroke key.Stroke, res Result) {
	if h.PostPressFunc != nil {
		h.PostPressFunc(stroke, res)
	}
}

// LoggingHook logs every press at debug level.
type LoggingHook struct {
	BaseHook
	Logger zerolog.Logger
}

// PostPress logs the stroke and its result.
func (h LoggingHook) PostPress(stroke key.Stroke, res Result) {
	ev := h.Logger.Debug().
		Str("stroke", stroke.String()).
		Str("outcome", res.Outcome.String()).
		Stringer("sequence", res.Sequence)
	if res.CommandID != "" {
		ev = ev.Str("command", res.CommandID)
	}
	ev.Msg("press")
}
