package spec

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Component sections that operations may reference.
const (
	componentParameters    = "parameters"
	componentRequestBodies = "requestBodies"
	componentResponses     = "responses"
)

// UnresolvedReferenceError reports a $ref in a path item or operation that
// names no declared component of the expected section.
type UnresolvedReferenceError struct {
	// Ref is the reference as written.
	Ref string

	// Location is the referring field, e.g. "requestBody" or "responses.200".
	Location string
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("unresolved reference %q", e.Ref)
	}
	return fmt.Sprintf("%s: unresolved reference %q", e.Location, e.Ref)
}

// loader decodes path items against the document's reusable components.
// Decoded components are cached by node so every reference to one component
// shares the same schema pointers.
type loader struct {
	components map[string]map[string]*yaml.Node

	params    map[*yaml.Node]*Parameter
	bodies    map[*yaml.Node]*RequestBody
	responses map[*yaml.Node]*Response
}

func newLoader(raw *rawDocument) (*loader, error) {
	l := &loader{
		components: make(map[string]map[string]*yaml.Node),
		params:     make(map[*yaml.Node]*Parameter),
		bodies:     make(map[*yaml.Node]*RequestBody),
		responses:  make(map[*yaml.Node]*Response),
	}
	sections := []struct {
		name string
		node *yaml.Node
	}{
		{componentParameters, &raw.Components.Parameters},
		{componentRequestBodies, &raw.Components.RequestBodies},
		{componentResponses, &raw.Components.Responses},
	}
	for _, sec := range sections {
		entries := make(map[string]*yaml.Node)
		err := eachPair(sec.node, func(key string, val *yaml.Node) error {
			entries[key] = val
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("components.%s: %w", sec.name, err)
		}
		l.components[sec.name] = entries
	}
	return l, nil
}

// follow returns the component a reference object points at, following
// chains of references within section. Other nodes are returned unchanged.
func (l *loader) follow(section string, node *yaml.Node, loc string) (*yaml.Node, error) {
	seen := make(map[string]bool)
	for {
		ref, ok := refOf(node)
		if !ok {
			return node, nil
		}
		if seen[ref] {
			return nil, fmt.Errorf("%s: reference cycle through %q", loc, ref)
		}
		seen[ref] = true

		prefix := "#/components/" + section + "/"
		if !strings.HasPrefix(ref, prefix) {
			return nil, &UnresolvedReferenceError{Ref: ref, Location: loc}
		}
		target, ok := l.components[section][unescapePointer(strings.TrimPrefix(ref, prefix))]
		if !ok {
			return nil, &UnresolvedReferenceError{Ref: ref, Location: loc}
		}
		node = target
	}
}

// refOf returns the $ref of a reference object. Sibling keys such as
// summary and description are ignored.
func refOf(node *yaml.Node) (string, bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return "", false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "$ref" {
			return node.Content[i+1].Value, true
		}
	}
	return "", false
}
