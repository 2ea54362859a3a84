// Package ir defines the intermediate representation shared by every stage of
// the generator: the normalized schema node graph and the route descriptors
// that reference it. Emitters turn these into target language source code.
package ir

// Warning represents a non-fatal issue encountered during generation.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Schema is the canonical name of the nearest enclosing schema, if any.
	Schema string

	// Route is "METHOD /path" of the route that triggered the warning, if any.
	Route string
}

// String formats the warning for logs.
func (w Warning) String() string {
	loc := w.Schema
	if w.Route != "" {
		loc = w.Route
	}
	if loc == "" {
		return w.Code + ": " + w.Message
	}
	return w.Code + ": " + loc + ": " + w.Message
}

// Warning codes.
const (
	WarnAdvisoryNegation = "advisory_negation"
	WarnOpaqueResponse   = "opaque_response"
	WarnIgnoredMedia     = "ignored_media_type"
	WarnUnknownType      = "unknown_type"
	WarnSyntheticName    = "synthetic_name"
	WarnIgnoredSiblings  = "ignored_siblings"
	WarnSynthesizedParam = "synthesized_param"
)
