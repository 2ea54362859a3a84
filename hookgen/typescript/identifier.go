package typescript

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TypeScript reserved words from Appendix B.
var reservedWords = map[string]bool{
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"const":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"else":       true,
	"enum":       true,
	"export":     true,
	"extends":    true,
	"false":      true,
	"finally":    true,
	"for":        true,
	"function":   true,
	"if":         true,
	"implements": true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"interface":  true,
	"let":        true,
	"new":        true,
	"null":       true,
	"package":    true,
	"private":    true,
	"protected":  true,
	"public":     true,
	"return":     true,
	"static":     true,
	"super":      true,
	"switch":     true,
	"this":       true,
	"throw":      true,
	"true":       true,
	"try":        true,
	"type":       true,
	"typeof":     true,
	"var":        true,
	"void":       true,
	"while":      true,
	"with":       true,
	"yield":      true,
}

// isIdentifier reports whether name is a valid identifier name. Reserved
// words count: they are legal after a dot and as property keys.
func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	first, _ := utf8.DecodeRuneInString(name)
	if unicode.IsDigit(first) {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			return false
		}
	}
	return true
}

// TypeName turns a component schema name into a declarable type name.
func TypeName(name string) string {
	if name == "" {
		return "_"
	}

	var sb strings.Builder
	first, _ := utf8.DecodeRuneInString(name)
	if unicode.IsDigit(first) {
		sb.WriteRune('_')
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}

	out := sb.String()
	if reservedWords[out] {
		return out + "_"
	}
	return out
}

// PropertyKey renders an object key, quoting it when it is not an
// identifier.
func PropertyKey(name string) string {
	if isIdentifier(name) {
		return name
	}
	return Quote(name)
}

// Member renders the access of property name on an expression: ".name" or
// "['na-me']".
func Member(name string) string {
	if isIdentifier(name) {
		return "." + name
	}
	return "[" + Quote(name) + "]"
}
