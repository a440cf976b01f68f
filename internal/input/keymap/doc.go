// Package keymap turns binding definitions from several sources into the
// ranked binding list consumed by the resolution engine.
//
// # Key Concepts
//
// Definition: the textual form of a binding as written in a file, a Lua
// script or Go code. Keys use the key package formats ("Ctrl+K Ctrl+C",
// "<C-x><C-s>", "g g").
//
// Binding: a parsed, comparable record with a key.Sequence, the context and
// scheme it applies to, platform, locale, source id and rank.
//
// Set: what one source yields: definitions plus context and scheme parent
// maps.
//
// Source: anything that can load a Set. StaticSource holds one in memory,
// FileSource reads TOML, YAML or JSON.
//
// Registry: an ordered list of rank tiers. Rank 0 has the highest
// precedence; each source's bindings take the rank of its tier.
//
// # Usage
//
//	reg := keymap.NewRegistry()
//	reg.Add(1, keymap.Builtin())
//	reg.Add(0, keymap.NewFileSource("~/.config/keyresolve/keys.toml"))
//
//	res, err := reg.Apply(ctx, engine)
//	for _, skipped := range res.Skipped {
//	    log.Println(skipped)
//	}
package keymap
