package lua

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single DoString or DoFile call.
const DefaultExecutionTimeout = 5 * time.Second

// unsafeGlobals are base library functions that reach the file system or
// load code from outside the script.
var unsafeGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"module",
	"require",
}

// State wraps gopher-lua with a sandbox and execution timeout.
//
// gopher-lua's LState is not goroutine-safe. The mutex serialises calls
// made through State; direct use of LuaState bypasses it.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	logger           zerolog.Logger

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the execution timeout for Lua calls.
// Zero disables the timeout; the caller's context still applies.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithLogger routes the script's print output to logger at debug level.
func WithLogger(logger zerolog.Logger) StateOption {
	return func(s *State) {
		s.logger = logger
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{
		executionTimeout: DefaultExecutionTimeout,
		logger:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	for _, name := range unsafeGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.L.SetGlobal("print", s.L.NewFunction(s.print))
	return s
}

// openSafeLibraries opens only safe Lua standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

func (s *State) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	s.logger.Debug().Str("output", strings.Join(parts, "\t")).Msg("lua print")
	return 0
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, func() error { return s.L.DoFile(path) })
}

// DoString executes a Lua string.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func() error { return s.L.DoString(code) })
}

func (s *State) run(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	runCtx := ctx
	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(runCtx)
	defer s.L.RemoveContext()

	err := doWithRecovery(fn)
	if err == nil {
		return nil
	}
	// The VM reports cancellation as a plain script error.
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return ErrExecutionTimeout
	}
	return err
}

// doWithRecovery executes a function with panic recovery.
func doWithRecovery(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// GetGlobal returns a global variable value.
func (s *State) GetGlobal(name string) lua.LValue {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil
	}
	return s.L.GetGlobal(name)
}

// RegisterFunc registers a Go function as a global Lua function.
func (s *State) RegisterFunc(name string, fn lua.LGFunction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// LuaState returns the underlying gopher-lua state.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// IsClosed returns true if the state has been closed.
func (s *State) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases all resources associated with the Lua state.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}
