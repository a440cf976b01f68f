package machine

import "fmt"

// Phase is the cache state of a Machine.
type Phase uint8

const (
	// Unbuilt means there is no binding tree.
	Unbuilt Phase = iota

	// BuiltUnsolved means the tree exists but is not resolved against the
	// active snapshot.
	BuiltUnsolved

	// Solved means the tree is resolved against the active snapshot.
	Solved
)

func (p Phase) String() string {
	switch p {
	case Unbuilt:
		return "unbuilt"
	case BuiltUnsolved:
		return "built-unsolved"
	case Solved:
		return "solved"
	default:
		return fmt.Sprintf("Phase(%d)", p)
	}
}

// Stats counts the expensive transitions of a Machine.
type Stats struct {
	Builds int
	Solves int

	// Skipped is the number of bindings left out of the last build.
	Skipped int
}

// Change topics published by a Machine.
const (
	TopicBindings         = "bindings"
	TopicContextHierarchy = "hierarchy.context"
	TopicSchemeHierarchy  = "hierarchy.scheme"
	TopicActiveContexts   = "active.contexts"
	TopicActiveScheme     = "active.scheme"
	TopicPlatform         = "active.platform"
	TopicLocale           = "active.locale"
	TopicMode             = "mode"
)
