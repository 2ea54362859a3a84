package naming

import "fmt"

// KeyConvention selects the shape of generated cache keys.
type KeyConvention string

const (
	// LiteralTuple keys are [resource, METHOD, template], followed by the
	// argument bag when the route takes arguments.
	LiteralTuple KeyConvention = "literal-tuple"

	// PathArgs keys are [template] or [template, args].
	PathArgs KeyConvention = "path-args"
)

// ParseKeyConvention parses a convention name.
func ParseKeyConvention(s string) (KeyConvention, error) {
	switch KeyConvention(s) {
	case LiteralTuple, PathArgs:
		return KeyConvention(s), nil
	}
	return "", fmt.Errorf("unknown key convention %q (want %s or %s)", s, LiteralTuple, PathArgs)
}

// KeyPart is one element of a cache key: a string literal, or the call's
// argument bag.
type KeyPart struct {
	Literal string
	Args    bool
}

// Key returns the cache key of the route under conv.
func (n Name) Key(conv KeyConvention, hasArgs bool) []KeyPart {
	var parts []KeyPart
	switch conv {
	case LiteralTuple:
		parts = []KeyPart{
			{Literal: n.Resource},
			{Literal: string(n.Method)},
			{Literal: n.Template},
		}
	default:
		parts = []KeyPart{{Literal: n.Template}}
	}
	if hasArgs {
		parts = append(parts, KeyPart{Args: true})
	}
	return parts
}
