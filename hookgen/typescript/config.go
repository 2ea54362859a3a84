// Package typescript is the rendering core shared by every output flavor:
// identifiers, literals, doc headers, request-client accessors and the
// declarations of normalized schemas.
package typescript

// Config contains TypeScript-specific options.
type Config struct {
	// UseInterface declares plain object schemas as interfaces.
	UseInterface bool

	// UseReadonlyArrays uses 'readonly T[]' instead of 'T[]'.
	UseReadonlyArrays bool

	// UnknownType is emitted for schemas without a type.
	// SHOULD be one of: "unknown", "any"
	UnknownType string

	// IndentSize is the number of spaces per level.
	IndentSize int
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		UseInterface: true,
		UnknownType:  "unknown",
		IndentSize:   2,
	}
}

func (c Config) withDefaults() Config {
	if c.UnknownType == "" {
		c.UnknownType = "unknown"
	}
	if c.IndentSize <= 0 {
		c.IndentSize = 2
	}
	return c
}
