// Package lua lets extensions define key bindings in Lua scripts.
//
// Scripts run in a sandboxed gopher-lua state with only the base, table,
// string and math libraries. File, OS and module loading are unavailable.
// A Source runs its script on every Load and collects what the script
// declares into a keymap.Set:
//
//	name "vim-lite"
//	context("editor.normal", "editor")
//	scheme("vim", "default")
//
//	bind{keys = "g g", command = "cursor.top", context = "editor.normal"}
//	bind("Ctrl+S", "file.save")
//	bind("Meta+S", "file.save", {platform = "darwin"})
//	unbind{keys = "Ctrl+Q", platform = "darwin"}
//
// bind and unbind accept either a table with named fields or positional
// keys (and command) followed by an optional options table. The recognised
// fields are keys, command, context, scheme, platform, locale and desc.
//
// # State
//
// State wraps the runtime itself:
//
//	state := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	defer state.Close()
//
//	if err := state.DoString(ctx, `x = 1 + 1`); err != nil {
//	    return err
//	}
//
// Execution stops when the context is cancelled or the timeout passes.
package lua
