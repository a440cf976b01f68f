package lua

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	glua "github.com/yuin/gopher-lua"
)

func TestStateDoString(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(context.Background(), `x = 1 + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	v := state.GetGlobal("x")
	if n, ok := v.(glua.LNumber); !ok || n != 2 {
		t.Errorf("GetGlobal(x) = %v, want 2", v)
	}
}

func TestStateSyntaxError(t *testing.T) {
	state := NewState()
	defer state.Close()

	if err := state.DoString(context.Background(), `this is not lua`); err == nil {
		t.Error("DoString() with invalid code should fail")
	}
}

func TestStateSandbox(t *testing.T) {
	state := NewState()
	defer state.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module", "io", "os", "debug"} {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("global %q should be unavailable, got %s", name, v.Type())
		}
	}
	for _, name := range []string{"string", "table", "math", "pairs"} {
		if v := state.GetGlobal(name); v == glua.LNil {
			t.Errorf("global %q should be available", name)
		}
	}
}

func TestStateTimeout(t *testing.T) {
	state := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(context.Background(), `while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Fatalf("DoString() error = %v, want ErrExecutionTimeout", err)
	}
}

func TestStateCancelledContext(t *testing.T) {
	state := NewState()
	defer state.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := state.DoString(ctx, `x = 1`); !errors.Is(err, context.Canceled) {
		t.Errorf("DoString() error = %v, want context.Canceled", err)
	}
}

func TestStatePrintLogs(t *testing.T) {
	var buf bytes.Buffer
	state := NewState(WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	defer state.Close()

	if err := state.DoString(context.Background(), `print("hello", 42)`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}
	if !strings.Contains(buf.String(), `hello\t42`) {
		t.Errorf("print output not logged: %s", buf.String())
	}
}

func TestStateClosed(t *testing.T) {
	state := NewState()
	state.Close()
	state.Close()

	if !state.IsClosed() {
		t.Error("IsClosed() = false after Close")
	}
	if err := state.DoString(context.Background(), `x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() error = %v, want ErrStateClosed", err)
	}
	if v := state.GetGlobal("x"); v != glua.LNil {
		t.Errorf("GetGlobal() on closed state = %v", v)
	}
}
