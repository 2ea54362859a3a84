// Package naming derives exported identifiers and cache keys from routes.
//
// Stems are a pure function of the route's method and path tokens. Every
// exported identifier of a route (call, key getters, hooks) is derived from
// its stem. A Table threads the collision state of one generation run: a
// route keeps its stem when none of those identifiers is already claimed by
// another route, and otherwise gets the smallest free numeric suffix
// starting at 2. Suffixes therefore depend on the order routes are
// resolved in; Build resolves in route key order so the mapping does not
// depend on the order of its input.
package naming

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/broady/hookgen/hookgen/ir"
)

// maxSuffix bounds the search for a free suffix.
const maxSuffix = 10000

// Name is the resolved naming of one route.
type Name struct {
	Method ir.Method

	// Path is the declared path of the route.
	Path string

	// Stem is the PascalCase symbol stem, e.g. "GetApplicationsApplicationId".
	Stem string

	// Resource is the first path token, used by literal-tuple keys.
	Resource string

	// Template is the colon-parameter path, e.g. "/applications/:application_id".
	Template string
}

// Call returns the request function name, e.g. "getPets".
func (n Name) Call() string {
	return lowerFirst(n.Stem)
}

// QueryKeyGetter returns the query key function name, e.g. "getGetPetsQueryKey".
func (n Name) QueryKeyGetter() string {
	return "get" + n.Stem + "QueryKey"
}

// MutationKeyGetter returns the mutation key function name.
func (n Name) MutationKeyGetter() string {
	return "get" + n.Stem + "MutationKey"
}

// Hook returns the hook factory name for a hook prefix, e.g. "useGetPets".
func (n Name) Hook(prefix string) string {
	return prefix + n.Stem
}

// DefaultHookPrefixes are reserved by every Table.
var DefaultHookPrefixes = []string{"use", "create"}

// Table is the append-only collision table of a generation run.
// It is not safe for concurrent writes; once resolution has finished it may
// be shared read-only.
type Table struct {
	byRoute  map[string]Name
	owners   map[string]string // exported identifier to route key
	prefixes []string
	order    []string
}

// NewTable returns an empty table. Hook names are reserved for
// DefaultHookPrefixes and the given prefixes.
func NewTable(hookPrefixes ...string) *Table {
	seen := make(map[string]bool)
	var prefixes []string
	for _, p := range append(append([]string(nil), DefaultHookPrefixes...), hookPrefixes...) {
		if !seen[p] {
			seen[p] = true
			prefixes = append(prefixes, p)
		}
	}
	return &Table{
		byRoute:  make(map[string]Name),
		owners:   make(map[string]string),
		prefixes: prefixes,
	}
}

// CollisionError is returned when no free suffix exists for a stem. It
// indicates a broken invariant rather than a user error.
type CollisionError struct {
	Stem  string
	Route string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("naming: no free name for %s (stem %s)", e.Route, e.Stem)
}

// Resolve returns the name of r, assigning one on first use.
func (t *Table) Resolve(r *ir.Route) (Name, error) {
	key := r.Key()
	if n, ok := t.byRoute[key]; ok {
		return n, nil
	}

	base := StemFor(r)
	stem := base
	for i := 2; t.claimed(stem, key); i++ {
		if i > maxSuffix {
			return Name{}, &CollisionError{Stem: base, Route: key}
		}
		stem = fmt.Sprintf("%s%d", base, i)
	}

	n := Name{
		Method:   r.Method,
		Path:     r.Path,
		Stem:     stem,
		Resource: resource(r),
		Template: r.Template(),
	}
	for _, id := range t.exports(stem) {
		t.owners[id] = key
	}
	t.byRoute[key] = n
	t.order = append(t.order, key)
	return n, nil
}

// claimed reports whether any identifier derived from stem belongs to a
// route other than key.
func (t *Table) claimed(stem, key string) bool {
	for _, id := range t.exports(stem) {
		if owner, ok := t.owners[id]; ok && owner != key {
			return true
		}
	}
	return false
}

func (t *Table) exports(stem string) []string {
	n := Name{Stem: stem}
	ids := []string{stem, n.Call(), n.QueryKeyGetter(), n.MutationKeyGetter()}
	for _, p := range t.prefixes {
		ids = append(ids, n.Hook(p))
	}
	return ids
}

// Lookup returns the name assigned to r, if any.
func (t *Table) Lookup(r *ir.Route) (Name, bool) {
	n, ok := t.byRoute[r.Key()]
	return n, ok
}

// Len returns the number of resolved routes.
func (t *Table) Len() int { return len(t.order) }

// Build resolves every route in a new table. Routes are resolved in key
// order so the assignment is independent of the order of routes.
func Build(routes []ir.Route, hookPrefixes ...string) (*Table, error) {
	idx := make([]int, len(routes))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return routes[idx[a]].Key() < routes[idx[b]].Key()
	})

	t := NewTable(hookPrefixes...)
	for _, i := range idx {
		if _, err := t.Resolve(&routes[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// StemFor returns the unsuffixed stem of r: the method followed by the
// PascalCase words of every path token.
func StemFor(r *ir.Route) string {
	var sb strings.Builder
	sb.WriteString(upperFirst(strings.ToLower(string(r.Method))))
	if len(r.Segments) == 0 {
		sb.WriteString("Index")
		return sb.String()
	}
	for _, seg := range r.Segments {
		// Parameters contribute their name; the colon of embedded
		// parameters is a separator.
		writeWords(&sb, seg.Value)
	}
	return sb.String()
}

// symbolWords stand in for path characters that cannot appear in
// identifiers. Other punctuation only separates words.
var symbolWords = map[rune]string{
	'@': "At",
	'*': "Wildcard",
	'.': "Dot",
	'~': "Tilde",
	'$': "Dollar",
	'+': "Plus",
}

func writeWords(sb *strings.Builder, s string) {
	var word []rune
	flush := func() {
		if len(word) > 0 {
			sb.WriteString(upperFirst(string(word)))
			word = word[:0]
		}
	}
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word = append(word, r)
		case symbolWords[r] != "":
			flush()
			sb.WriteString(symbolWords[r])
		default:
			flush()
		}
	}
	flush()
}

func resource(r *ir.Route) string {
	if len(r.Segments) == 0 {
		return "index"
	}
	return r.Segments[0].Text()
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
