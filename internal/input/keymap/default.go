package keymap

// BuiltinName is the source name of the builtin bindings.
const BuiltinName = "builtin"

// Builtin returns the default workbench bindings.
//
// Contexts form the tree global > editor > editor.text, with terminal and
// palette under global. The emacs scheme extends default.
func Builtin() *StaticSource {
	return NewStaticSource(BuiltinSet())
}

// BuiltinSet returns a fresh copy of the builtin set.
func BuiltinSet() *Set {
	s := NewSet(BuiltinName).
		Context(DefaultContext, "").
		Context("editor", DefaultContext).
		Context("editor.text", "editor").
		Context("terminal", DefaultContext).
		Context("palette", DefaultContext).
		Scheme(DefaultScheme, "").
		Scheme("emacs", DefaultScheme)

	s.AddDefinition(globalDefaults()...)
	s.AddDefinition(editorDefaults()...)
	s.AddDefinition(terminalDefaults()...)
	s.AddDefinition(emacsDefaults()...)
	return s
}

func globalDefaults() []Definition {
	return []Definition{
		// Files
		Bind("Ctrl+S", "file.save").WithDescription("Save file"),
		Bind("Ctrl+Shift+S", "file.saveAs").WithDescription("Save file as"),
		Bind("Ctrl+O", "file.open").WithDescription("Open file"),
		Bind("Ctrl+N", "file.new").WithDescription("New file"),
		Bind("Ctrl+W", "file.close").WithDescription("Close file"),
		Bind("Ctrl+K S", "file.saveAll").WithDescription("Save all files"),

		// Workbench
		Bind("Ctrl+Q", "app.quit").WithDescription("Quit"),
		Bind("Ctrl+Shift+P", "palette.show").WithDescription("Show command palette"),
		Bind("Ctrl+P", "palette.files").WithDescription("Go to file"),
		Bind("Ctrl+B", "view.toggleSidebar").WithDescription("Toggle sidebar"),
		Bind("Ctrl+Plus", "view.zoomIn").WithDescription("Zoom in"),
		Bind("Ctrl+Minus", "view.zoomOut").WithDescription("Zoom out"),
		Bind("F11", "view.fullscreen").WithDescription("Toggle full screen"),
		Bind("Ctrl+K Ctrl+S", "keybindings.show").WithDescription("Show key bindings"),
		Bind("Ctrl+K Ctrl+T", "theme.select").WithDescription("Select color theme"),

		// Platform variants
		Bind("Meta+Q", "app.quit").OnPlatform("darwin"),
		Unbinding("Ctrl+Q").OnPlatform("darwin"),
	}
}

func editorDefaults() []Definition {
	return []Definition{
		// Editing
		Bind("Ctrl+Z", "edit.undo").InContext("editor").WithDescription("Undo"),
		Bind("Ctrl+Shift+Z", "edit.redo").InContext("editor").WithDescription("Redo"),
		Bind("Ctrl+Y", "edit.redo").InContext("editor").WithDescription("Redo"),
		Bind("Ctrl+X", "edit.cut").InContext("editor").WithDescription("Cut"),
		Bind("Ctrl+C", "edit.copy").InContext("editor").WithDescription("Copy"),
		Bind("Ctrl+V", "edit.paste").InContext("editor").WithDescription("Paste"),
		Bind("Ctrl+A", "edit.selectAll").InContext("editor").WithDescription("Select all"),
		Bind("Ctrl+F", "find.open").InContext("editor").WithDescription("Find"),
		Bind("Ctrl+H", "find.replace").InContext("editor").WithDescription("Replace"),
		Bind("F3", "find.next").InContext("editor").WithDescription("Find next"),
		Bind("Shift+F3", "find.previous").InContext("editor").WithDescription("Find previous"),
		Bind("Ctrl+G", "cursor.gotoLine").InContext("editor").WithDescription("Go to line"),

		// Text
		Bind("Ctrl+K Ctrl+C", "edit.comment").InContext("editor.text").WithDescription("Comment lines"),
		Bind("Ctrl+K Ctrl+U", "edit.uncomment").InContext("editor.text").WithDescription("Uncomment lines"),
		Bind("Ctrl+D", "edit.duplicateLine").InContext("editor.text").WithDescription("Duplicate line"),
		Bind("Ctrl+Shift+K", "edit.deleteLine").InContext("editor.text").WithDescription("Delete line"),
		Bind("Alt+Up", "edit.moveLineUp").InContext("editor.text").WithDescription("Move line up"),
		Bind("Alt+Down", "edit.moveLineDown").InContext("editor.text").WithDescription("Move line down"),
		Bind("Tab", "edit.indent").InContext("editor.text").WithDescription("Indent"),
		Bind("Shift+Tab", "edit.outdent").InContext("editor.text").WithDescription("Outdent"),
		Bind("Ctrl+Space", "completion.trigger").InContext("editor.text").WithDescription("Trigger completion"),
		Bind("F12", "lsp.definition").InContext("editor.text").WithDescription("Go to definition"),
		Bind("Shift+F12", "lsp.references").InContext("editor.text").WithDescription("Find references"),
		Bind("F2", "lsp.rename").InContext("editor.text").WithDescription("Rename symbol"),
	}
}

func terminalDefaults() []Definition {
	return []Definition{
		Bind("Ctrl+Shift+C", "terminal.copy").InContext("terminal").WithDescription("Copy"),
		Bind("Ctrl+Shift+V", "terminal.paste").InContext("terminal").WithDescription("Paste"),
		Bind("Ctrl+Shift+T", "terminal.new").InContext("terminal").WithDescription("New terminal"),
		Bind("Escape", "palette.hide").InContext("palette").WithDescription("Close palette"),
		Bind("Enter", "palette.accept").InContext("palette").WithDescription("Accept selection"),
	}
}

func emacsDefaults() []Definition {
	emacs := func(keys, command, context string) Definition {
		return Bind(keys, command).InScheme("emacs").InContext(context)
	}
	return []Definition{
		emacs("Ctrl+X Ctrl+S", "file.save", DefaultContext),
		emacs("Ctrl+X Ctrl+F", "file.open", DefaultContext),
		emacs("Ctrl+X Ctrl+C", "app.quit", DefaultContext),
		emacs("Ctrl+X k", "file.close", DefaultContext),
		emacs("Alt+X", "palette.show", DefaultContext),
		emacs("Ctrl+G", "app.cancel", DefaultContext),
		emacs("Ctrl+A", "cursor.lineStart", "editor.text"),
		emacs("Ctrl+E", "cursor.lineEnd", "editor.text"),
		emacs("Ctrl+F", "cursor.right", "editor.text"),
		emacs("Ctrl+B", "cursor.left", "editor.text"),
		emacs("Ctrl+N", "cursor.down", "editor.text"),
		emacs("Ctrl+P", "cursor.up", "editor.text"),
		emacs("Ctrl+K", "edit.killLine", "editor.text"),
		emacs("Ctrl+Y", "edit.yank", "editor.text"),
		emacs("Ctrl+/", "edit.undo", "editor.text"),
		emacs("Alt+W", "edit.copy", "editor.text"),
		emacs("Ctrl+W", "edit.cut", "editor.text"),
		emacs("Ctrl+S", "find.incremental", "editor.text"),

		// Ctrl+K kills the line, so its chords are released
		Unbinding("Ctrl+K Ctrl+C").InScheme("emacs").InContext("editor.text"),
		Unbinding("Ctrl+K Ctrl+U").InScheme("emacs").InContext("editor.text"),
		Unbinding("Ctrl+K Ctrl+S").InScheme("emacs").InContext("editor.text"),
		Unbinding("Ctrl+K Ctrl+T").InScheme("emacs").InContext("editor.text"),
		Unbinding("Ctrl+K S").InScheme("emacs").InContext("editor.text"),
	}
}
