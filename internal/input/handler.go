package input

import (
	"slices"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/keyresolve/internal/input/key"
	"github.com/dshills/keyresolve/internal/input/machine"
)

// Config configures the press handler.
type Config struct {
	// SequenceTimeout is how long a partial sequence may stay pending before
	// it is abandoned. Zero waits forever.
	// Default: 1000ms
	SequenceTimeout time.Duration

	// Status decides whether a resolved command may run.
	// Default: every command is enabled.
	Status CommandStatus
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		SequenceTimeout: 1000 * time.Millisecond,
		Status:          AllEnabled,
	}
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger.With().Str("component", "input").Logger()
	}
}

// Handler resolves key presses against a Machine.
// It is safe for concurrent use; presses are serialised.
type Handler struct {
	mu sync.Mutex

	machine *machine.Machine
	config  Config
	hooks   *HookManager
	metrics *Metrics
	logger  zerolog.Logger

	// Sequence timeout timer. gen invalidates timers that fire after
	// being superseded.
	seqTimer *time.Timer
	gen      uint64

	closed bool
}

// NewHandler creates a handler that drives m.
func NewHandler(m *machine.Machine, config Config, opts ...Option) *Handler {
	if config.Status == nil {
		config.Status = AllEnabled
	}
	h := &Handler{
		machine: m,
		config:  config,
		hooks:   NewHookManager(),
		metrics: NewMetrics(),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Press feeds one stroke to the machine and reports the decision.
func (h *Handler) Press(stroke key.Stroke) Result {
	start := time.Now()

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return Result{Outcome: OutcomeUnrecognized}
	}
	pending := h.machine.Mode()
	h.mu.Unlock()

	if h.hooks.RunPrePress(stroke, pending) {
		res := Result{Outcome: OutcomeConsumed, Sequence: pending}
		h.metrics.RecordPress(res, time.Since(start))
		return res
	}

	h.mu.Lock()
	res := h.resolve(stroke)
	h.mu.Unlock()

	h.metrics.RecordPress(res, time.Since(start))
	h.hooks.RunPostPress(stroke, res)
	return res
}

// PressEvent converts a terminal key event and presses it.
// The second result is false when the event has no stroke equivalent.
func (h *Handler) PressEvent(ev *tcell.EventKey) (Result, bool) {
	stroke, ok := key.FromTcell(ev)
	if !ok {
		return Result{}, false
	}
	return h.Press(stroke), true
}

// resolve compares the completions before and after extending the mode.
// Caller must hold h.mu.
func (h *Handler) resolve(stroke key.Stroke) Result {
	if h.closed {
		return Result{Outcome: OutcomeUnrecognized}
	}

	pending := h.machine.Mode()
	next := pending.Append(stroke)
	if !stroke.IsValid() {
		h.reset()
		return Result{Outcome: OutcomeUnrecognized, Sequence: next}
	}

	before := h.machine.CommandMapForMode()
	h.machine.SetMode(next)
	if len(h.machine.CommandMapForMode()) > 0 {
		h.armTimeout()
		return Result{Outcome: OutcomeAwaiting, Sequence: next}
	}

	h.reset()
	cmd, ok := before[next]
	if !ok {
		return Result{Outcome: OutcomeUnrecognized, Sequence: next}
	}
	if !h.config.Status.Enabled(cmd) {
		h.logger.Debug().Str("command", cmd).Stringer("sequence", next).Msg("command disabled")
		return Result{Outcome: OutcomeUnrecognized, CommandID: cmd, Sequence: next, Disabled: true}
	}
	return Result{Outcome: OutcomeInvoke, CommandID: cmd, Sequence: next}
}

// reset clears the mode and the pending timeout. Caller must hold h.mu.
func (h *Handler) reset() {
	h.stopTimeout()
	h.machine.SetMode(key.Sequence{})
}

// Clear abandons any pending sequence.
func (h *Handler) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reset()
}

// Pending returns the partial sequence typed so far.
func (h *Handler) Pending() key.Sequence {
	return h.machine.Mode()
}

// NextStrokes returns the strokes that may legally follow the pending
// sequence, in ascending order. It is empty when nothing is pending.
func (h *Handler) NextStrokes() []key.Stroke {
	h.mu.Lock()
	defer h.mu.Unlock()

	pending := h.machine.Mode()
	if pending.IsEmpty() {
		return nil
	}

	depth := pending.Len()
	var out []key.Stroke
	for seq := range h.machine.CommandMapForMode() {
		out = append(out, seq.At(depth))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Completions returns the commands reachable from the pending sequence,
// keyed by their full sequence.
func (h *Handler) Completions() map[key.Sequence]string {
	return h.machine.CommandMapForMode()
}

// armTimeout restarts the sequence timeout. Caller must hold h.mu.
func (h *Handler) armTimeout() {
	h.stopTimeout()
	if h.config.SequenceTimeout <= 0 {
		return
	}
	gen := h.gen
	h.seqTimer = time.AfterFunc(h.config.SequenceTimeout, func() {
		h.handleTimeout(gen)
	})
}

// stopTimeout stops the sequence timeout timer. Caller must hold h.mu.
func (h *Handler) stopTimeout() {
	h.gen++
	if h.seqTimer != nil {
		h.seqTimer.Stop()
		h.seqTimer = nil
	}
}

// handleTimeout is called when the sequence timeout fires.
func (h *Handler) handleTimeout(gen uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || gen != h.gen {
		return
	}
	pending := h.machine.Mode()
	h.seqTimer = nil
	h.machine.SetMode(key.Sequence{})
	h.metrics.RecordTimeout()
	h.logger.Debug().Stringer("sequence", pending).Msg("pending sequence timed out")
}

// Hooks returns the hook manager.
func (h *Handler) Hooks() *HookManager {
	return h.hooks
}

// Metrics returns the handler's metrics tracker.
func (h *Handler) Metrics() *Metrics {
	return h.metrics
}

// Machine returns the machine the handler drives.
func (h *Handler) Machine() *machine.Machine {
	return h.machine
}

// Close stops the timeout timer. Presses after Close are unrecognized.
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.stopTimeout()
}

// IsClosed returns true if the handler has been closed.
func (h *Handler) IsClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}
