package trie

import (
	"cmp"
	"maps"
	"slices"

	"github.com/dshills/keyresolve/internal/input/state"
)

// Resolver supplies the hierarchy Paths for binding coordinates.
// An error excludes the coordinate from matching.
type Resolver interface {
	ContextPath(id string) (state.Path, error)
	SchemePath(id string) (state.Path, error)
	PlatformPath(platform string) (state.Path, error)
	LocalePath(locale string) (state.Path, error)
}

// Solve resolves every node below root against the active states.
//
// contexts lists the acceptable [context, scheme] states in order of
// preference; envs lists the acceptable [platform, locale] states.
// For each context state, the bindings whose coordinates match it are
// tried closest first. Ranks are strict tiers: the lowest rank with any
// environment match decides, and within it the most specific environment
// wins. A tie at the best score, or several commands at the winning
// coordinates, resolves to Ambiguous.
func Solve(root *Node, r Resolver, contexts, envs []state.State) {
	s := &solver{
		resolver: r,
		contexts: contexts,
		envs:     envs,
		paths:    make(map[pathKey]pathResult),
	}
	s.solve(root)
}

type pathKind uint8

const (
	pathContext pathKind = iota
	pathScheme
	pathPlatform
	pathLocale
)

type pathKey struct {
	kind pathKind
	id   string
}

type pathResult struct {
	path state.Path
	ok   bool
}

type solver struct {
	resolver Resolver
	contexts []state.State
	envs     []state.State
	paths    map[pathKey]pathResult
}

// candidate is one (context, scheme) entry matching an active state.
type candidate struct {
	context string
	scheme  string
	score   int
	ranks   rankIndex
}

func (s *solver) solve(n *Node) {
	n.match = s.solveNode(n)
	for _, child := range n.children {
		s.solve(child)
	}
}

func (s *solver) solveNode(n *Node) Match {
	if len(n.bindings) == 0 {
		return Match{}
	}

	for _, active := range s.contexts {
		var candidates []candidate
		for ctxID, schemes := range n.bindings {
			ctxPath, ok := s.path(pathContext, ctxID)
			if !ok {
				continue
			}
			for schemeID, ranks := range schemes {
				schemePath, ok := s.path(pathScheme, schemeID)
				if !ok {
					continue
				}
				ref, err := state.NewState(ctxPath, schemePath)
				if err != nil {
					continue
				}
				score := ref.Match(active)
				if score < 0 {
					continue
				}
				c := candidate{context: ctxID, scheme: schemeID, score: score, ranks: ranks}

				// An exact entry cannot be beaten
				if score == 0 {
					if m, ok := s.decide(c); ok {
						return m
					}
				}
				candidates = append(candidates, c)
			}
		}

		slices.SortFunc(candidates, func(a, b candidate) int {
			return cmp.Or(
				cmp.Compare(a.score, b.score),
				cmp.Compare(a.context, b.context),
				cmp.Compare(a.scheme, b.scheme),
			)
		})
		for _, c := range candidates {
			if c.score == 0 {
				continue
			}
			if m, ok := s.decide(c); ok {
				return m
			}
		}
	}
	return Match{}
}

// decide walks c's ranks in ascending order and returns the match of the
// first rank with an environment match.
func (s *solver) decide(c candidate) (Match, bool) {
	for _, rank := range slices.Sorted(maps.Keys(c.ranks)) {
		for _, env := range s.envs {
			m, ok := s.decideEnv(c.ranks[rank], env)
			if !ok {
				continue
			}
			m.Rank = rank
			m.Score = c.score
			return m, true
		}
	}
	return Match{}, false
}

func (s *solver) decideEnv(platforms platformIndex, env state.State) (Match, bool) {
	best := -1
	var pool commandSet

	for platform, locales := range platforms {
		pp, ok := s.path(pathPlatform, platform)
		if !ok {
			continue
		}
		for locale, commands := range locales {
			lp, ok := s.path(pathLocale, locale)
			if !ok {
				continue
			}
			ref, err := state.NewState(pp, lp)
			if err != nil {
				continue
			}
			score := ref.Match(env)
			switch {
			case score < 0:
			case best < 0 || score < best:
				best, pool = score, maps.Clone(commands)
			case score == best:
				maps.Copy(pool, commands)
			}
		}
	}

	if best < 0 {
		return Match{}, false
	}
	m := Match{EnvScore: best}
	if len(pool) > 1 {
		m.Kind = Ambiguous
		m.Candidates = slices.Sorted(maps.Keys(pool))
		return m, true
	}
	for id := range pool {
		m.CommandID = id
	}
	if m.CommandID == "" {
		m.Kind = Unbound
	} else {
		m.Kind = Command
	}
	return m, true
}

func (s *solver) path(kind pathKind, id string) (state.Path, bool) {
	k := pathKey{kind: kind, id: id}
	if res, ok := s.paths[k]; ok {
		return res.path, res.ok
	}

	var (
		p   state.Path
		err error
	)
	switch kind {
	case pathContext:
		p, err = s.resolver.ContextPath(id)
	case pathScheme:
		p, err = s.resolver.SchemePath(id)
	case pathPlatform:
		p, err = s.resolver.PlatformPath(id)
	case pathLocale:
		p, err = s.resolver.LocalePath(id)
	}
	res := pathResult{path: p, ok: err == nil}
	s.paths[k] = res
	return res.path, res.ok
}
