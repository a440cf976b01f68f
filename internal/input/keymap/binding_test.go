package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keyresolve/internal/input/key"
)

func TestDefinitionParse(t *testing.T) {
	b, err := Bind("Ctrl+K Ctrl+C", "edit.comment").InContext("editor").ForLocale("en_US").Parse("user", 2)
	require.NoError(t, err)

	assert.Equal(t, Binding{
		SchemeID:  DefaultScheme,
		CommandID: "edit.comment",
		Locale:    "en_US",
		SourceID:  "user",
		Rank:      2,
		ContextID: "editor",
		Sequence:  key.MustParseSequence("Ctrl+K Ctrl+C"),
	}, b)
	assert.False(t, b.IsUnbind())
}

func TestDefinitionParseDefaults(t *testing.T) {
	b, err := Bind("<C-s>", " file.save ").Parse("builtin", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultContext, b.ContextID)
	assert.Equal(t, DefaultScheme, b.SchemeID)
	assert.Equal(t, "file.save", b.CommandID)
	assert.Equal(t, "Ctrl+S -> file.save [global/default rank 0]", b.String())
}

func TestDefinitionParseUnbind(t *testing.T) {
	b, err := Unbinding("Ctrl+Q").OnPlatform("darwin").Parse("user", 0)
	require.NoError(t, err)
	assert.True(t, b.IsUnbind())
	assert.Equal(t, "darwin", b.Platform)
	assert.Contains(t, b.String(), "<unbound>")

	// Unbind wins over a stray command
	d := Bind("Ctrl+Q", "app.quit")
	d.Unbind = true
	b, err = d.Parse("user", 0)
	require.NoError(t, err)
	assert.True(t, b.IsUnbind())
}

func TestDefinitionParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		def     Definition
		rank    int
		wantErr error
	}{
		{"empty keys", Bind(" ", "x"), 0, ErrEmptyKeys},
		{"empty command", Bind("Ctrl+S", ""), 0, ErrEmptyCommand},
		{"negative rank", Bind("Ctrl+S", "x"), -1, ErrNegativeRank},
		{"bad keys", Bind("Hyper+S", "x"), 0, key.ErrInvalidSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.def.Parse("test", tt.rank)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDefinitionError(t *testing.T) {
	err := &DefinitionError{Source: "user.toml", Index: 3, Keys: "Hyper+S", Err: key.ErrInvalidSpec}
	assert.Equal(t, `user.toml: binding 3 ("Hyper+S"): invalid key specification`, err.Error())
	assert.ErrorIs(t, err, key.ErrInvalidSpec)
}

func TestSetBuilder(t *testing.T) {
	s := NewSet("mine").
		Context("editor", "global").
		Scheme("vim", "default").
		Add("Ctrl+S", "file.save").
		AddDefinition(Bind("g g", "cursor.top").InScheme("vim"))

	require.NoError(t, s.Validate())
	assert.Len(t, s.Bindings, 2)
	assert.Equal(t, "global", s.Contexts["editor"])

	clone := s.Clone()
	clone.Bindings[0].Command = "changed"
	clone.Contexts["editor"] = "changed"
	assert.Equal(t, "file.save", s.Bindings[0].Command)
	assert.Equal(t, "global", s.Contexts["editor"])

	s.Add("Nope+X", "broken")
	var derr *DefinitionError
	require.ErrorAs(t, s.Validate(), &derr)
	assert.Equal(t, 2, derr.Index)
}

func TestBuiltinSetIsValid(t *testing.T) {
	s := BuiltinSet()
	require.NoError(t, s.Validate())
	assert.Equal(t, BuiltinName, s.Name)
	assert.Equal(t, DefaultScheme, s.Schemes["emacs"])
	assert.Equal(t, "editor", s.Contexts["editor.text"])

	seen := make(map[Binding]bool)
	for _, d := range s.Bindings {
		b, err := d.Parse(s.Name, 0)
		require.NoError(t, err)
		assert.False(t, seen[b], "duplicate builtin binding %s", b)
		seen[b] = true
	}
}
