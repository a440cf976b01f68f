package input

import (
	"fmt"

	"github.com/dshills/keyresolve/internal/input/key"
)

// Outcome is the per-press decision.
type Outcome uint8

const (
	// OutcomeAwaiting means the pressed strokes form a proper prefix of at
	// least one binding; more input is expected.
	OutcomeAwaiting Outcome = iota
	// OutcomeInvoke means the sequence resolved to an enabled command.
	OutcomeInvoke
	// OutcomeUnrecognized means the sequence is bound to nothing usable.
	OutcomeUnrecognized
	// OutcomeConsumed means a hook intercepted the stroke before resolution.
	// The mode is left untouched.
	OutcomeConsumed
)

// String returns a string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAwaiting:
		return "awaiting"
	case OutcomeInvoke:
		return "invoke"
	case OutcomeUnrecognized:
		return "unrecognized"
	case OutcomeConsumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// Result describes what a single press did.
type Result struct {
	Outcome Outcome

	// CommandID is set for OutcomeInvoke, and for OutcomeUnrecognized when
	// the sequence was bound to a disabled command.
	CommandID string

	// Sequence is the sequence the press was judged on: the extended mode.
	Sequence key.Sequence

	// Disabled reports that CommandID was bound but not enabled.
	Disabled bool
}

// String returns e.g. "invoke file.save (Ctrl+S)".
func (r Result) String() string {
	switch {
	case r.CommandID != "" && r.Disabled:
		return fmt.Sprintf("%s %s (%s, disabled)", r.Outcome, r.CommandID, r.Sequence)
	case r.CommandID != "":
		return fmt.Sprintf("%s %s (%s)", r.Outcome, r.CommandID, r.Sequence)
	case r.Sequence.IsEmpty():
		return r.Outcome.String()
	default:
		return fmt.Sprintf("%s (%s)", r.Outcome, r.Sequence)
	}
}

// CommandStatus reports whether a command may currently run.
type CommandStatus interface {
	Enabled(commandID string) bool
}

// CommandStatusFunc adapts a function to CommandStatus.
type CommandStatusFunc func(commandID string) bool

// Enabled calls f.
func (f CommandStatusFunc) Enabled(commandID string) bool {
	return f(commandID)
}

// AllEnabled treats every command as enabled.
var AllEnabled CommandStatus = CommandStatusFunc(func(string) bool { return true })
