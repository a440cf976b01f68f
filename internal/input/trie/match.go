package trie

import "fmt"

// Kind classifies the resolution of a node.
type Kind uint8

const (
	// None means no binding applies to the active state.
	None Kind = iota

	// Command means exactly one command won.
	Command

	// Unbound means the winning binding explicitly removes the sequence.
	Unbound

	// Ambiguous means the winning coordinates name more than one command.
	Ambiguous
)

var kindNames = [...]string{
	None:      "none",
	Command:   "command",
	Unbound:   "unbound",
	Ambiguous: "ambiguous",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Match is the solved resolution of a node.
type Match struct {
	Kind Kind

	// CommandID is set when Kind is Command.
	CommandID string

	// Rank is the precedence tier the match was decided in.
	Rank int

	// Score is the context/scheme distance; EnvScore the platform/locale distance.
	Score    int
	EnvScore int

	// Candidates lists the colliding commands when Kind is Ambiguous.
	Candidates []string
}

// Resolved reports whether a binding decided the node.
func (m Match) Resolved() bool {
	return m.Kind != None
}

// IsCommand reports whether the match names a command.
func (m Match) IsCommand() bool {
	return m.Kind == Command
}

func (m Match) String() string {
	switch m.Kind {
	case Command:
		return fmt.Sprintf("%s (rank %d, score %d/%d)", m.CommandID, m.Rank, m.Score, m.EnvScore)
	case Ambiguous:
		return fmt.Sprintf("ambiguous %v (rank %d)", m.Candidates, m.Rank)
	default:
		return m.Kind.String()
	}
}
