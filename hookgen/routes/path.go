package routes

import (
	"strings"

	"github.com/broady/hookgen/hookgen/ir"
)

// Tokenize splits a path template into segments. A segment that is exactly
// "{name}" becomes a parameter token; parameters embedded in a literal
// ("{name}.json") are rewritten to colon form inside the literal. Empty
// segments are dropped, so "/" has no segments.
func Tokenize(path string) []ir.Segment {
	var out []ir.Segment
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		if name, ok := wholeParam(part); ok {
			out = append(out, ir.Segment{Kind: ir.SegmentParam, Value: name})
			continue
		}
		out = append(out, ir.Segment{Kind: ir.SegmentLiteral, Value: colonize(part)})
	}
	return out
}

// ParamNames returns the names of all parameters in a path template, in
// order of appearance, including those embedded in literals.
func ParamNames(path string) []string {
	var names []string
	for rest := path; ; {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			return names
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return names
		}
		if name := rest[open+1 : open+end]; name != "" {
			names = append(names, name)
		}
		rest = rest[open+end+1:]
	}
}

func wholeParam(part string) (string, bool) {
	if len(part) < 3 || part[0] != '{' || part[len(part)-1] != '}' {
		return "", false
	}
	name := part[1 : len(part)-1]
	if strings.ContainsAny(name, "{}") {
		return "", false
	}
	return name, true
}

func colonize(part string) string {
	if !strings.Contains(part, "{") {
		return part
	}
	r := strings.NewReplacer("{", ":", "}", "")
	return r.Replace(part)
}
