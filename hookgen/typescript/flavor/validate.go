package flavor

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// UnsupportedCapabilityError is returned when a target declares a
// capability it cannot render. It is reported before anything is emitted.
type UnsupportedCapabilityError struct {
	Target     string
	Capability Capability

	// Template is the missing template, if any.
	Template string

	// Requires is the capability the declared one depends on, if any.
	Requires Capability
}

func (e *UnsupportedCapabilityError) Error() string {
	if e.Requires != 0 {
		return fmt.Sprintf("target %s: capability %s requires %s", e.Target, e.Capability, e.Requires)
	}
	return fmt.Sprintf("target %s: capability %s has no %q template", e.Target, e.Capability, e.Template)
}

var requiredTemplates = []struct {
	c        Capability
	template string
}{
	{Calls, TemplateCall},
	{KeyGetter, TemplateKey},
	{Query, TemplateQuery},
	{Mutation, TemplateMutation},
}

// Validate checks the descriptor: field values, the templates every declared
// capability needs, and the dependencies between capabilities. Templates are
// parsed so syntax errors surface here too.
func (t *Target) Validate() error {
	if t == nil {
		return errors.New("nil target")
	}
	if err := validatorInstance().Struct(t); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("target %s: %w", t.Name, err)
		}
		problems := make([]string, len(verrs))
		for i, fe := range verrs {
			problems[i] = formatFieldError(fe)
		}
		return fmt.Errorf("target %s: %s", t.Name, strings.Join(problems, "; "))
	}

	for _, rt := range requiredTemplates {
		if t.Capabilities.Has(rt.c) && strings.TrimSpace(t.Templates[rt.template]) == "" {
			return &UnsupportedCapabilityError{Target: t.Name, Capability: rt.c, Template: rt.template}
		}
	}
	for _, hook := range []Capability{Query, Mutation} {
		if !t.Capabilities.Has(hook) {
			continue
		}
		for _, dep := range []Capability{Calls, KeyGetter} {
			if !t.Capabilities.Has(dep) {
				return &UnsupportedCapabilityError{Target: t.Name, Capability: hook, Requires: dep}
			}
		}
	}
	if t.Capabilities.Has(KeyGetter) && !t.Capabilities.Has(Query) && !t.Capabilities.Has(Mutation) {
		return &UnsupportedCapabilityError{Target: t.Name, Capability: KeyGetter, Requires: Query}
	}
	if t.schemaArgs() && t.Capabilities.Has(Calls) && !t.Capabilities.Has(Types) {
		return fmt.Errorf("target %s: args=schema names schema types, so the target needs the types capability", t.Name)
	}

	_, err := newTemplateRenderer(t)
	return err
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Target.")
	switch tag := fe.Tag(); {
	case tag == "required":
		return field + ": is required"
	case tag == "oneof":
		return fmt.Sprintf("%s: must be one of %s (got %q)", field, fe.Param(), fe.Value())
	case strings.HasPrefix(tag, "endswith"):
		return fmt.Sprintf("%s: must end in .ts or .tsx (got %q)", field, fe.Value())
	case tag == "alpha":
		return fmt.Sprintf("%s: must be letters only (got %q)", field, fe.Value())
	default:
		return fmt.Sprintf("%s: failed %s validation", field, fe.Tag())
	}
}
