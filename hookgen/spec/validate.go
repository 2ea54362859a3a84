package spec

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
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidationError reports malformed declarations found by Validate.
type ValidationError struct {
	// Problems lists one entry per offending field, e.g.
	// "Paths[0].Operations[1].Parameters[0].In: must be one of path query header cookie".
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid spec: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid spec (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Validate checks the structural declarations of doc: path syntax, methods,
// parameter locations and status codes. Schema bodies are checked later by
// normalization.
func Validate(doc *Document) error {
	if doc == nil {
		return errors.New("invalid spec: nil document")
	}
	var problems []string

	if err := validatorInstance().Struct(doc); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate spec: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, formatFieldError(fe))
		}
	}

	for _, item := range doc.Paths {
		if item == nil {
			continue
		}
		if strings.Count(item.Path, "{") != strings.Count(item.Path, "}") {
			problems = append(problems, fmt.Sprintf("path %s: unbalanced parameter braces", item.Path))
		}
		seen := make(map[string]bool)
		for _, op := range item.Operations {
			if op == nil {
				continue
			}
			if seen[op.Method] {
				problems = append(problems, fmt.Sprintf("path %s: duplicate method %s", item.Path, op.Method))
			}
			seen[op.Method] = true
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// formatFieldError converts a validator.FieldError to a human-readable message.
func formatFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Document.")
	switch fe.Tag() {
	case "required":
		return field + ": is required"
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s (got %q)", field, fe.Param(), fe.Value())
	case "startswith":
		return fmt.Sprintf("%s: must start with %q (got %q)", field, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s: failed %s validation", field, fe.Tag())
	}
}
