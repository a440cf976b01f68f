package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/keyresolve/internal/input/key"
	"github.com/dshills/keyresolve/internal/input/state"
)

// testResolver resolves ids through fixed hierarchies.
type testResolver struct {
	contexts *state.Hierarchy
	schemes  *state.Hierarchy
}

func newResolver(contexts, schemes map[string]string) *testResolver {
	return &testResolver{
		contexts: state.NewHierarchy(contexts),
		schemes:  state.NewHierarchy(schemes),
	}
}

func (r *testResolver) ContextPath(id string) (state.Path, error) { return r.contexts.Path(id) }
func (r *testResolver) SchemePath(id string) (state.Path, error)  { return r.schemes.Path(id) }
func (r *testResolver) PlatformPath(p string) (state.Path, error) { return state.PlatformPath(p) }
func (r *testResolver) LocalePath(l string) (state.Path, error)   { return state.LocalePath(l) }

var defaultHierarchy = map[string]string{
	"global":      "",
	"editor":      "global",
	"editor.text": "editor",
}

func seq(s string) key.Sequence {
	return key.MustParseSequence(s)
}

func global(rank int) Coord {
	return Coord{Context: "global", Scheme: "default", Rank: rank}
}

func activeContexts(t *testing.T, r *testResolver, pairs ...[2]string) []state.State {
	t.Helper()
	out := make([]state.State, 0, len(pairs))
	for _, p := range pairs {
		cp, err := r.ContextPath(p[0])
		require.NoError(t, err)
		sp, err := r.SchemePath(p[1])
		require.NoError(t, err)
		out = append(out, state.MustState(cp, sp))
	}
	return out
}

func activeEnv(t *testing.T, platform, locale string) []state.State {
	t.Helper()
	env, err := state.EnvState(platform, locale)
	require.NoError(t, err)
	return []state.State{env}
}

func solveDefault(t *testing.T, root *Node) {
	t.Helper()
	r := newResolver(defaultHierarchy, map[string]string{"emacs": "default"})
	Solve(root, r, activeContexts(t, r, [2]string{"editor.text", "default"}), activeEnv(t, "linux", "en_US"))
}

func TestAddFind(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+K Ctrl+C"), global(0), "comment")

	assert.True(t, root.HasChildren())
	assert.False(t, root.HasBindings())

	mid := Find(root, seq("Ctrl+K"))
	assert.True(t, mid.HasChildren())
	assert.False(t, mid.HasBindings())
	assert.Equal(t, []key.Stroke{key.MustParseStroke("Ctrl+C")}, mid.Strokes())

	leaf := Find(root, seq("Ctrl+K Ctrl+C"))
	assert.True(t, leaf.HasBindings())

	missing := Find(root, seq("Ctrl+X"))
	assert.False(t, missing.HasChildren())
	assert.False(t, missing.HasBindings())

	assert.Equal(t, root, Find(root, key.Sequence{}))
	assert.Equal(t, 2, root.Size())
}

func TestRemovePrunes(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+K Ctrl+C"), global(0), "comment")
	Add(root, seq("Ctrl+K Ctrl+U"), global(0), "uncomment")

	assert.False(t, Remove(root, seq("Ctrl+K Ctrl+C"), global(1), "comment"))
	assert.False(t, Remove(root, seq("Ctrl+Q"), global(0), "comment"))

	require.True(t, Remove(root, seq("Ctrl+K Ctrl+C"), global(0), "comment"))
	assert.Nil(t, Find(root, seq("Ctrl+K")).Child(key.MustParseStroke("Ctrl+C")))
	assert.Equal(t, 2, root.Size())

	require.True(t, Remove(root, seq("Ctrl+K Ctrl+U"), global(0), "uncomment"))
	assert.False(t, root.HasChildren())
	assert.Equal(t, 0, root.Size())
}

func TestRemoveKeepsSiblingCoordinates(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+S"), global(0), "save")
	Add(root, seq("Ctrl+S"), global(1), "saveAll")

	require.True(t, Remove(root, seq("Ctrl+S"), global(0), "save"))
	solveDefault(t, root)

	m := Find(root, seq("Ctrl+S")).Match()
	assert.Equal(t, Command, m.Kind)
	assert.Equal(t, "saveAll", m.CommandID)
	assert.Equal(t, 1, m.Rank)
}

func TestSolveMostSpecificContext(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+S"), global(0), "save")
	Add(root, seq("Ctrl+S"), Coord{Context: "editor", Scheme: "default"}, "editor.save")
	Add(root, seq("Ctrl+S"), Coord{Context: "terminal", Scheme: "default"}, "terminal.save")
	solveDefault(t, root)

	m := Find(root, seq("Ctrl+S")).Match()
	assert.Equal(t, Command, m.Kind)
	assert.Equal(t, "editor.save", m.CommandID)
	assert.Equal(t, 1<<4, m.Score)
}

func TestSolveRankIsStrictTier(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+S"), Coord{Context: "global", Scheme: "default", Rank: 0}, "builtin")
	Add(root, seq("Ctrl+S"), Coord{Context: "global", Scheme: "default", Rank: 1, Platform: "linux", Locale: "en_US"}, "user")
	solveDefault(t, root)

	m := Find(root, seq("Ctrl+S")).Match()
	assert.Equal(t, "builtin", m.CommandID)
	assert.Equal(t, 0, m.Rank)
}

func TestSolveLowerRankFallsThroughWhenEnvFails(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+S"), Coord{Context: "global", Scheme: "default", Rank: 0, Platform: "windows"}, "winSave")
	Add(root, seq("Ctrl+S"), global(1), "save")
	solveDefault(t, root)

	m := Find(root, seq("Ctrl+S")).Match()
	assert.Equal(t, "save", m.CommandID)
	assert.Equal(t, 1, m.Rank)
}

func TestSolveMostSpecificEnvironment(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+S"), global(0), "generic")
	Add(root, seq("Ctrl+S"), Coord{Context: "global", Scheme: "default", Platform: "linux"}, "linux")
	Add(root, seq("Ctrl+S"), Coord{Context: "global", Scheme: "default", Platform: "linux", Locale: "en"}, "linuxEnglish")
	solveDefault(t, root)

	m := Find(root, seq("Ctrl+S")).Match()
	assert.Equal(t, "linuxEnglish", m.CommandID)
	assert.Equal(t, 1, m.EnvScore)
}

func TestSolveAmbiguous(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+D"), global(0), "duplicate")
	Add(root, seq("Ctrl+D"), global(0), "delete")
	solveDefault(t, root)

	m := Find(root, seq("Ctrl+D")).Match()
	assert.Equal(t, Ambiguous, m.Kind)
	assert.Empty(t, m.CommandID)
	assert.Equal(t, []string{"delete", "duplicate"}, m.Candidates)
	assert.Empty(t, CommandMap(root, key.Sequence{}))
	assert.Contains(t, MatchMap(root, key.Sequence{}), seq("Ctrl+D"))
}

func TestSolvePlatformOutweighsLocale(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+D"), Coord{Context: "global", Scheme: "default", Platform: "linux"}, "a")
	Add(root, seq("Ctrl+D"), Coord{Context: "global", Scheme: "default", Locale: "en_US"}, "b")

	r := newResolver(defaultHierarchy, nil)
	Solve(root, r, activeContexts(t, r, [2]string{"global", "default"}), activeEnv(t, "linux", "en"))

	// [linux, ""] scores 1, ["", en_US] does not match en
	assert.Equal(t, "a", Find(root, seq("Ctrl+D")).Match().CommandID)

	root = New()
	Add(root, seq("Ctrl+D"), Coord{Context: "global", Scheme: "default", Platform: "linux", Locale: "en"}, "a")
	Add(root, seq("Ctrl+D"), Coord{Context: "global", Scheme: "default", Platform: "linux/gtk"}, "b")
	Solve(root, r, activeContexts(t, r, [2]string{"global", "default"}), activeEnv(t, "linux/gtk/4", "en"))

	// [linux, en] scores 2<<4, [linux/gtk, ""] scores 1<<4+1: b wins
	assert.Equal(t, "b", Find(root, seq("Ctrl+D")).Match().CommandID)
}

func TestSolveAmbiguousTie(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+D"), Coord{Context: "global", Scheme: "default", Locale: "en-US"}, "a")
	Add(root, seq("Ctrl+D"), Coord{Context: "global", Scheme: "default", Locale: "en_US"}, "b")
	solveDefault(t, root)

	m := Find(root, seq("Ctrl+D")).Match()
	assert.Equal(t, Ambiguous, m.Kind)
	assert.Equal(t, []string{"a", "b"}, m.Candidates)
}

func TestSolveUnbind(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+Q"), global(1), "quit")
	Add(root, seq("Ctrl+Q"), global(0), "")
	solveDefault(t, root)

	m := Find(root, seq("Ctrl+Q")).Match()
	assert.Equal(t, Unbound, m.Kind)
	assert.Empty(t, CommandMap(root, key.Sequence{}))
}

func TestSolveContextMismatch(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+E"), Coord{Context: "editor.text", Scheme: "default"}, "expand")

	r := newResolver(defaultHierarchy, nil)
	Solve(root, r, activeContexts(t, r, [2]string{"global", "default"}), activeEnv(t, "", ""))

	assert.Equal(t, None, Find(root, seq("Ctrl+E")).Match().Kind)
	assert.Empty(t, CommandMap(root, key.Sequence{}))
}

func TestSolveActiveContextOrder(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+T"), Coord{Context: "terminal", Scheme: "default"}, "terminal.new")
	Add(root, seq("Ctrl+T"), Coord{Context: "editor.text", Scheme: "default"}, "editor.transpose")

	r := newResolver(defaultHierarchy, nil)
	envs := activeEnv(t, "", "")

	Solve(root, r, activeContexts(t, r, [2]string{"terminal", "default"}, [2]string{"editor.text", "default"}), envs)
	assert.Equal(t, "terminal.new", Find(root, seq("Ctrl+T")).Match().CommandID)

	Solve(root, r, activeContexts(t, r, [2]string{"editor.text", "default"}, [2]string{"terminal", "default"}), envs)
	assert.Equal(t, "editor.transpose", Find(root, seq("Ctrl+T")).Match().CommandID)
}

func TestSolveSchemeInheritance(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+A"), global(0), "selectAll")
	Add(root, seq("Ctrl+A"), Coord{Context: "global", Scheme: "emacs"}, "lineStart")
	Add(root, seq("Ctrl+E"), global(0), "find")

	r := newResolver(defaultHierarchy, map[string]string{"emacs": "default"})
	Solve(root, r, activeContexts(t, r, [2]string{"global", "emacs"}), activeEnv(t, "", ""))

	assert.Equal(t, "lineStart", Find(root, seq("Ctrl+A")).Match().CommandID)
	assert.Equal(t, "find", Find(root, seq("Ctrl+E")).Match().CommandID)

	Solve(root, r, activeContexts(t, r, [2]string{"global", "default"}), activeEnv(t, "", ""))
	assert.Equal(t, "selectAll", Find(root, seq("Ctrl+A")).Match().CommandID)
}

func TestCommandMapPrefixShadowing(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+5"), global(0), "paste")
	Add(root, seq("Ctrl+5 Ctrl+5"), global(0), "pasteTwice")
	Add(root, seq("Ctrl+K Ctrl+C"), global(0), "comment")
	solveDefault(t, root)

	got := CommandMap(root, key.Sequence{})
	assert.Equal(t, map[key.Sequence]string{
		seq("Ctrl+5 Ctrl+5"): "pasteTwice",
		seq("Ctrl+K Ctrl+C"): "comment",
	}, got)

	// The shadowed node still resolves on its own
	assert.Equal(t, "paste", Find(root, seq("Ctrl+5")).Match().CommandID)
	assert.Len(t, MatchMap(root, key.Sequence{}), 3)
}

func TestCommandMapShadowingIgnoresUnresolvedChildren(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+5"), global(0), "paste")
	Add(root, seq("Ctrl+5 Ctrl+5"), Coord{Context: "terminal", Scheme: "default"}, "pasteTwice")
	solveDefault(t, root)

	assert.Equal(t, map[key.Sequence]string{seq("Ctrl+5"): "paste"}, CommandMap(root, key.Sequence{}))
}

func TestCommandMapForPrefix(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+K Ctrl+C"), global(0), "comment")
	Add(root, seq("Ctrl+K Ctrl+U"), global(0), "uncomment")
	Add(root, seq("Ctrl+S"), global(0), "save")
	solveDefault(t, root)

	mode := seq("Ctrl+K")
	got := CommandMap(Find(root, mode), mode)
	assert.Equal(t, map[key.Sequence]string{
		seq("Ctrl+K Ctrl+C"): "comment",
		seq("Ctrl+K Ctrl+U"): "uncomment",
	}, got)
}

func TestKeySequenceMap(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+S"), global(0), "save")
	Add(root, seq("Ctrl+X Ctrl+S"), global(0), "save")
	Add(root, seq("F2"), global(0), "save")
	Add(root, seq("Ctrl+O"), global(0), "open")
	solveDefault(t, root)

	got := KeySequenceMap(root, key.Sequence{})
	assert.Equal(t, []key.Sequence{seq("Ctrl+S"), seq("Ctrl+X Ctrl+S")}, got["save"][1:])
	assert.Equal(t, seq("F2"), got["save"][0])
	assert.Equal(t, []key.Sequence{seq("Ctrl+O")}, got["open"])
}

func TestSolveSkipsUnresolvablePaths(t *testing.T) {
	root := New()
	Add(root, seq("Ctrl+S"), Coord{Context: "loop", Scheme: "default"}, "cyclic")
	Add(root, seq("Ctrl+S"), global(1), "save")

	r := newResolver(map[string]string{"loop": "loop2", "loop2": "loop", "global": ""}, nil)
	Solve(root, r, activeContexts(t, r, [2]string{"global", "default"}), activeEnv(t, "", ""))

	assert.Equal(t, "save", Find(root, seq("Ctrl+S")).Match().CommandID)
}

func TestMatchString(t *testing.T) {
	assert.Equal(t, "none", Match{}.String())
	assert.Equal(t, "unbound", Match{Kind: Unbound}.String())
	assert.Equal(t, "save (rank 0, score 0/0)", Match{Kind: Command, CommandID: "save"}.String())
	assert.Equal(t, "ambiguous [a b] (rank 1)", Match{Kind: Ambiguous, Candidates: []string{"a", "b"}, Rank: 1}.String())
}
