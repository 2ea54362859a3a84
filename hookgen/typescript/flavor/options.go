package flavor

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"github.com/broady/hookgen/hookgen/naming"
)

// targetOptions are the overrides accepted after "?" in a target spec.
type targetOptions struct {
	File   string `schema:"file"`
	Keys   string `schema:"keys"`
	Args   string `schema:"args"`
	Prefix string `schema:"prefix"`
	Types  bool   `schema:"types"`
}

var optionsDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(false)
	return d
}()

// ParseTargetSpec resolves a target spec of the form
// "name[?key=value&...]", e.g. "react-query?keys=literal-tuple&file=hooks.ts".
// Known keys are file, keys, args, prefix and types (adds declarations to
// the file). The resulting target is validated.
func ParseTargetSpec(s string) (*Target, error) {
	name, query, _ := strings.Cut(s, "?")
	t, err := Get(name)
	if err != nil {
		return nil, err
	}
	if query != "" {
		values, err := url.ParseQuery(query)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", s, err)
		}
		var opts targetOptions
		if err := optionsDecoder.Decode(&opts, values); err != nil {
			return nil, fmt.Errorf("target %s: %w", s, err)
		}
		if err := opts.apply(t); err != nil {
			return nil, fmt.Errorf("target %s: %w", s, err)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (o *targetOptions) apply(t *Target) error {
	if o.File != "" {
		t.File = o.File
	}
	if o.Keys != "" {
		k, err := naming.ParseKeyConvention(o.Keys)
		if err != nil {
			return err
		}
		t.Keys = k
	}
	if o.Args != "" {
		t.Args = o.Args
	}
	if o.Prefix != "" {
		t.HookPrefix = o.Prefix
	}
	if o.Types {
		t.Capabilities |= Types
	}
	return nil
}
