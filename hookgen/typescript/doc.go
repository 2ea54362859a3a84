package typescript

import (
	"strings"

	"github.com/broady/hookgen/hookgen/ir"
)

// JSDoc renders a doc comment at the given indentation, ending in a newline.
// A single line uses the short form; blank entries become paragraph breaks.
// It returns "" when there is nothing to say.
func JSDoc(lines []string, indent string) string {
	body := docLines(lines)
	if len(body) == 0 {
		return ""
	}
	if len(body) == 1 {
		return indent + "/** " + body[0] + " */\n"
	}
	return block(body, indent)
}

// RouteDoc returns the header placed before every export of a route. It is
// always a block comment whose first line is "METHOD /path".
func RouteDoc(r *ir.Route) string {
	lines := []string{string(r.Method) + " " + r.Path}
	if r.Summary != "" {
		lines = append(lines, "", r.Summary)
	}
	if r.Description != "" && r.Description != r.Summary {
		lines = append(lines, "", r.Description)
	}
	if r.Deprecated {
		lines = append(lines, "", "@deprecated")
	}
	return block(docLines(lines), "")
}

func docLines(lines []string) []string {
	var body []string
	for _, l := range lines {
		for _, part := range strings.Split(l, "\n") {
			part = strings.ReplaceAll(part, "*/", "*\\/")
			body = append(body, strings.TrimRight(part, " \t\r"))
		}
	}
	for len(body) > 0 && body[len(body)-1] == "" {
		body = body[:len(body)-1]
	}
	for len(body) > 0 && body[0] == "" {
		body = body[1:]
	}
	return body
}

func block(body []string, indent string) string {
	var sb strings.Builder
	sb.WriteString(indent + "/**\n")
	for _, l := range body {
		if l == "" {
			sb.WriteString(indent + " *\n")
			continue
		}
		sb.WriteString(indent + " * " + l + "\n")
	}
	sb.WriteString(indent + " */\n")
	return sb.String()
}
