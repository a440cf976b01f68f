// Package fuzzy finds command ids by abbreviation, e.g. "fsa" for
// "file.saveAs".
//
// Every query rune must appear in the id in order. Matches score higher
// when they are consecutive, start a word ("." "_" "-" or a camelCase
// hump), or form a prefix of the id, and when the id is short.
package fuzzy

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
)

// Match is a matched id.
type Match struct {
	Text string

	// Score is higher for better matches.
	Score int

	// Positions are the rune indices of the matched characters.
	Positions []int
}

// Find returns the texts matching query, best first. Ties are broken by
// text. An empty query matches everything with score zero. A limit of
// zero or less returns all matches.
func Find(query string, texts []string, limit int) []Match {
	query = strings.ToLower(strings.TrimSpace(query))

	var out []Match
	if query == "" {
		out = make([]Match, len(texts))
		for i, t := range texts {
			out[i] = Match{Text: t}
		}
	} else {
		q := []rune(query)
		for _, t := range texts {
			if score, pos := match(q, t); score > 0 {
				out = append(out, Match{Text: t, Score: score, Positions: pos})
			}
		}
	}

	slices.SortFunc(out, func(a, b Match) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return strings.Compare(a.Text, b.Text)
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// match scans text greedily left to right.
func match(query []rune, text string) (int, []int) {
	if text == "" {
		return 0, nil
	}
	original := []rune(text)
	lower := []rune(strings.ToLower(text))

	pos := make([]int, 0, len(query))
	qi := 0
	for i := 0; i < len(lower) && qi < len(query); i++ {
		if lower[i] == query[qi] {
			pos = append(pos, i)
			qi++
		}
	}
	if qi != len(query) {
		return 0, nil
	}
	return score(query, original, lower, pos), pos
}

func score(query, original, lower []rune, pos []int) int {
	s := 100

	for i := 1; i < len(pos); i++ {
		if pos[i] == pos[i-1]+1 {
			s += 20
		}
	}
	for _, p := range pos {
		if isWordStart(original, p) {
			s += 15
		}
	}

	// Gaps and a late start cost points
	if gap := pos[len(pos)-1] - pos[0] - len(pos) + 1; gap > 0 {
		s -= gap * 2
	}
	s -= pos[0]

	if n := len(lower); n < 20 {
		s += 20 - n
	}
	if len(lower) >= len(query) && slices.Equal(lower[:len(query)], query) {
		s += 75
	}

	return max(s, 1)
}

func isWordStart(runes []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev, cur := runes[i-1], runes[i]
	if unicode.IsSpace(prev) || unicode.IsPunct(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
