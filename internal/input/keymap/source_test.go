package keymap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlBindings = `
name = "user"

[contexts]
"editor.go" = "editor.text"

[schemes]
mine = "default"

[[bindings]]
keys = "Ctrl+K Ctrl+C"
command = "go.comment"
context = "editor.go"

[[bindings]]
keys = "Ctrl+Q"
unbind = true
platform = "linux"
`

const yamlBindings = `
contexts:
  editor.go: editor.text
bindings:
  - keys: "Ctrl+K Ctrl+C"
    command: go.comment
    context: editor.go
  - keys: Ctrl+Q
    unbind: true
    platform: linux
`

const jsonBindings = `{
  "contexts": {"editor.go": "editor.text"},
  "bindings": [
    {"keys": "Ctrl+K Ctrl+C", "command": "go.comment", "context": "editor.go"},
    {"keys": "Ctrl+Q", "unbind": true, "platform": "linux"}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSourceFormats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"keys.toml": tomlBindings,
		"keys.yaml": yamlBindings,
		"keys.json": jsonBindings,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, dir, name, content)
			set, err := NewFileSource(path).Load(context.Background())
			require.NoError(t, err)

			require.Len(t, set.Bindings, 2)
			assert.Equal(t, "go.comment", set.Bindings[0].Command)
			assert.Equal(t, "editor.go", set.Bindings[0].Context)
			assert.True(t, set.Bindings[1].Unbind)
			assert.Equal(t, "linux", set.Bindings[1].Platform)
			assert.Equal(t, "editor.text", set.Contexts["editor.go"])
			require.NoError(t, set.Validate())
		})
	}
}

func TestFileSourceNames(t *testing.T) {
	dir := t.TempDir()

	named := writeFile(t, dir, "named.toml", tomlBindings)
	set, err := NewFileSource(named).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user", set.Name)
	assert.Equal(t, "default", set.Schemes["mine"])

	anon := writeFile(t, dir, "anon.yaml", yamlBindings)
	set, err = NewFileSource(anon).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, anon, set.Name)
}

func TestFileSourceErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := NewFileSource(filepath.Join(dir, "keys.ini")).Load(context.Background())
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = NewFileSource(filepath.Join(dir, "missing.toml")).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := writeFile(t, dir, "bad.json", "{not json")
	_, err = NewFileSource(bad).Load(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewFileSource(bad).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncodeDecodeSet(t *testing.T) {
	set := NewSet("roundtrip").Context("editor", "global").Add("Ctrl+S", "file.save")

	for _, format := range []Format{FormatTOML, FormatYAML, FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := EncodeSet(set, format)
			require.NoError(t, err)

			decoded, err := DecodeSet(data, format)
			require.NoError(t, err)
			assert.Equal(t, set.Name, decoded.Name)
			assert.Equal(t, set.Bindings, decoded.Bindings)
			assert.Equal(t, set.Contexts, decoded.Contexts)
		})
	}

	_, err := EncodeSet(set, Format("xml"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestDirSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", yamlBindings)
	writeFile(t, dir, "a.toml", tomlBindings)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	sources, err := DirSources(dir)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, filepath.Join(dir, "a.toml"), sources[0].Path())
	assert.Equal(t, filepath.Join(dir, "b.yaml"), sources[1].Name())

	_, err = DirSources(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestStaticSourceIsolation(t *testing.T) {
	set := NewSet("static").Add("Ctrl+S", "file.save")
	src := NewStaticSource(set)
	set.Bindings[0].Command = "mutated"

	loaded, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file.save", loaded.Bindings[0].Command)

	loaded.Bindings[0].Command = "mutated"
	again, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "file.save", again.Bindings[0].Command)
	assert.Equal(t, "static", src.Name())
}
