package lua

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keyresolve/internal/input/keymap"
)

// Source is a keymap.Source backed by a Lua script.
// Every Load runs the script in a fresh State.
type Source struct {
	name    string
	path    string
	code    string
	timeout time.Duration
	logger  zerolog.Logger
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithTimeout bounds a single script run.
func WithTimeout(d time.Duration) SourceOption {
	return func(s *Source) {
		s.timeout = d
	}
}

// WithSourceLogger receives the script's print output.
func WithSourceLogger(logger zerolog.Logger) SourceOption {
	return func(s *Source) {
		s.logger = logger
	}
}

// NewSource creates a source for the script at path.
func NewSource(path string, opts ...SourceOption) *Source {
	return newSource(&Source{name: path, path: path}, opts)
}

// NewStringSource creates a source for an in-memory script.
func NewStringSource(name, code string, opts ...SourceOption) *Source {
	return newSource(&Source{name: name, code: code}, opts)
}

func newSource(s *Source, opts []SourceOption) *Source {
	s.timeout = DefaultExecutionTimeout
	s.logger = zerolog.Nop()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the script path, or the name given to NewStringSource.
func (s *Source) Name() string {
	return s.name
}

// Load runs the script and returns what it declared.
func (s *Source) Load(ctx context.Context) (*keymap.Set, error) {
	state := NewState(
		WithExecutionTimeout(s.timeout),
		WithLogger(s.logger.With().Str("script", s.name).Logger()),
	)
	defer state.Close()

	c := &collector{set: keymap.NewSet(s.name)}
	c.install(state)

	var err error
	if s.path != "" {
		err = state.DoFile(ctx, s.path)
	} else {
		err = state.DoString(ctx, s.code)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	return c.set, nil
}

var _ keymap.Source = (*Source)(nil)

// collector implements the script-facing functions.
type collector struct {
	set *keymap.Set
}

func (c *collector) install(state *State) {
	state.RegisterFunc("bind", c.bind)
	state.RegisterFunc("unbind", c.unbind)
	state.RegisterFunc("context", c.context)
	state.RegisterFunc("scheme", c.scheme)
	state.RegisterFunc("name", c.name)
}

// bind{keys=, command=, ...} or bind(keys, command, opts?)
func (c *collector) bind(L *lua.LState) int {
	c.set.AddDefinition(definition(L, false))
	return 0
}

// unbind{keys=, ...} or unbind(keys, opts?)
func (c *collector) unbind(L *lua.LState) int {
	c.set.AddDefinition(definition(L, true))
	return 0
}

// context(id, parent?)
func (c *collector) context(L *lua.LState) int {
	id := L.CheckString(1)
	if id == "" {
		L.ArgError(1, "context id cannot be empty")
		return 0
	}
	c.set.Context(id, L.OptString(2, ""))
	return 0
}

// scheme(id, parent?)
func (c *collector) scheme(L *lua.LState) int {
	id := L.CheckString(1)
	if id == "" {
		L.ArgError(1, "scheme id cannot be empty")
		return 0
	}
	c.set.Scheme(id, L.OptString(2, ""))
	return 0
}

// name(name) renames the set in reports.
func (c *collector) name(L *lua.LState) int {
	c.set.Name = L.CheckString(1)
	return 0
}

func definition(L *lua.LState, unbind bool) keymap.Definition {
	def := keymap.Definition{Unbind: unbind}

	var opts *lua.LTable
	if tbl, ok := L.Get(1).(*lua.LTable); ok {
		def.Keys = getTableString(L, tbl, "keys")
		def.Command = getTableString(L, tbl, "command")
		opts = tbl
	} else {
		def.Keys = L.CheckString(1)
		next := 2
		if !unbind {
			def.Command = L.CheckString(2)
			next = 3
		}
		opts = L.OptTable(next, nil)
	}

	if opts != nil {
		def.Context = getTableString(L, opts, "context")
		def.Scheme = getTableString(L, opts, "scheme")
		def.Platform = getTableString(L, opts, "platform")
		def.Locale = getTableString(L, opts, "locale")
		def.Description = getTableString(L, opts, "desc")
	}

	if def.Keys == "" {
		L.ArgError(1, "keys cannot be empty")
	}
	if !unbind && def.Command == "" {
		L.ArgError(2, "command cannot be empty")
	}
	return def
}

// getTableString returns a string or number field, "" otherwise.
func getTableString(L *lua.LState, tbl *lua.LTable, key string) string {
	return lua.LVAsString(L.GetField(tbl, key))
}
