package typescript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Quote renders s as a single-quoted string literal.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\'':
			sb.WriteString(`\'`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\u2028':
			sb.WriteString(`\u2028`)
		case '\u2029':
			sb.WriteString(`\u2029`)
		default:
			if r < 0x20 {
				sb.WriteString(`\x`)
				sb.WriteString(strconv.FormatInt(int64(r)+0x100, 16)[1:])
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// Literal renders a decoded JSON/YAML value as a TypeScript literal.
// Strings are single-quoted; composite values fall back to JSON.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return Quote(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	data, err := json.Marshal(normalizeKeys(v))
	if err != nil {
		return "undefined"
	}
	return string(data)
}

// normalizeKeys converts YAML's map[any]any into JSON-encodable maps.
func normalizeKeys(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalizeKeys(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalizeKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalizeKeys(val)
		}
		return out
	}
	return v
}
