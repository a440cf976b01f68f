package keymap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/keyresolve/internal/input/key"
)

// Defaults applied to definitions that leave context or scheme empty.
const (
	DefaultContext = "global"
	DefaultScheme  = "default"
)

var (
	// ErrEmptyKeys indicates a definition without a key sequence.
	ErrEmptyKeys = errors.New("empty keys")

	// ErrEmptyCommand indicates a definition without a command that is not an unbinding.
	ErrEmptyCommand = errors.New("empty command")

	// ErrNegativeRank indicates a rank below zero.
	ErrNegativeRank = errors.New("negative rank")
)

// Binding is one resolved key binding. Bindings are comparable.
type Binding struct {
	// SchemeID is the scheme (key configuration) the binding belongs to.
	SchemeID string

	// CommandID is the command to invoke. Empty means the sequence is
	// explicitly unbound at these coordinates.
	CommandID string

	// Locale and Platform restrict the binding; empty matches all.
	Locale   string
	Platform string

	// SourceID identifies where the binding was defined.
	SourceID string

	// Rank is the precedence tier. Lower wins.
	Rank int

	// ContextID is the context the binding is active in.
	ContextID string

	// Sequence triggers the binding.
	Sequence key.Sequence
}

// IsUnbind reports whether the binding removes its sequence.
func (b Binding) IsUnbind() bool {
	return b.CommandID == ""
}

func (b Binding) String() string {
	cmd := b.CommandID
	if cmd == "" {
		cmd = "<unbound>"
	}
	return fmt.Sprintf("%s -> %s [%s/%s rank %d]", b.Sequence, cmd, b.ContextID, b.SchemeID, b.Rank)
}

// Definition is the textual form of a binding.
type Definition struct {
	// Keys is the key sequence that triggers this binding.
	// Formats: "j", "g g", "C-s", "<C-S-a>", "Ctrl+Shift+A"
	Keys string `json:"keys" yaml:"keys" toml:"keys"`

	// Command is the command to invoke.
	Command string `json:"command,omitempty" yaml:"command,omitempty" toml:"command,omitempty"`

	// Unbind marks a definition that removes Keys at its coordinates.
	Unbind bool `json:"unbind,omitempty" yaml:"unbind,omitempty" toml:"unbind,omitempty"`

	Context  string `json:"context,omitempty" yaml:"context,omitempty" toml:"context,omitempty"`
	Scheme   string `json:"scheme,omitempty" yaml:"scheme,omitempty" toml:"scheme,omitempty"`
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty" toml:"platform,omitempty"`
	Locale   string `json:"locale,omitempty" yaml:"locale,omitempty" toml:"locale,omitempty"`

	// Description provides documentation for the binding.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
}

// Bind creates a definition in the default context and scheme.
func Bind(keys, command string) Definition {
	return Definition{Keys: keys, Command: command}
}

// Unbinding creates a definition that removes keys.
func Unbinding(keys string) Definition {
	return Definition{Keys: keys, Unbind: true}
}

// InContext sets the context.
func (d Definition) InContext(context string) Definition {
	d.Context = context
	return d
}

// InScheme sets the scheme.
func (d Definition) InScheme(scheme string) Definition {
	d.Scheme = scheme
	return d
}

// OnPlatform sets the platform.
func (d Definition) OnPlatform(platform string) Definition {
	d.Platform = platform
	return d
}

// ForLocale sets the locale.
func (d Definition) ForLocale(locale string) Definition {
	d.Locale = locale
	return d
}

// WithDescription sets the description.
func (d Definition) WithDescription(desc string) Definition {
	d.Description = desc
	return d
}

// Parse converts the definition into a Binding for the given source and rank.
func (d Definition) Parse(sourceID string, rank int) (Binding, error) {
	if rank < 0 {
		return Binding{}, fmt.Errorf("%w: %d", ErrNegativeRank, rank)
	}
	if strings.TrimSpace(d.Keys) == "" {
		return Binding{}, ErrEmptyKeys
	}
	command := strings.TrimSpace(d.Command)
	if command == "" && !d.Unbind {
		return Binding{}, ErrEmptyCommand
	}
	if d.Unbind {
		command = ""
	}

	seq, err := key.ParseSequence(d.Keys)
	if err != nil {
		return Binding{}, fmt.Errorf("parsing %q: %w", d.Keys, err)
	}

	return Binding{
		SchemeID:  orDefault(d.Scheme, DefaultScheme),
		CommandID: command,
		Locale:    strings.TrimSpace(d.Locale),
		Platform:  strings.TrimSpace(d.Platform),
		SourceID:  sourceID,
		Rank:      rank,
		ContextID: orDefault(d.Context, DefaultContext),
		Sequence:  seq,
	}, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// DefinitionError records a definition that could not be used.
type DefinitionError struct {
	Source string
	Index  int
	Keys   string
	Err    error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s: binding %d (%q): %v", e.Source, e.Index, e.Keys, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}
