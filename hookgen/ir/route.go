package ir

import "strings"

// Method is an HTTP verb.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPut     Method = "PUT"
	MethodPost    Method = "POST"
	MethodDelete  Method = "DELETE"
	MethodOptions Method = "OPTIONS"
	MethodHead    Method = "HEAD"
	MethodPatch   Method = "PATCH"
	MethodTrace   Method = "TRACE"
)

// Methods lists the supported verbs in OpenAPI path-item order.
var Methods = []Method{
	MethodGet, MethodPut, MethodPost, MethodDelete,
	MethodOptions, MethodHead, MethodPatch, MethodTrace,
}

// ParseMethod parses a verb case-insensitively.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(s))
	for _, known := range Methods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Safe reports whether the method is a read that hook targets bind as a
// query rather than a mutation.
func (m Method) Safe() bool {
	return m == MethodGet || m == MethodHead
}

// SegmentKind distinguishes literal path segments from parameters.
type SegmentKind int

const (
	SegmentLiteral SegmentKind = iota
	SegmentParam
)

// Segment is one "/"-separated token of a path template.
type Segment struct {
	Kind SegmentKind

	// Value is the literal text, or the parameter name for SegmentParam.
	// Literals that embed parameters ("{name}.json") are stored with the
	// colon form (":name.json").
	Value string
}

// Text returns the segment in colon-parameter form.
func (s Segment) Text() string {
	if s.Kind == SegmentParam {
		return ":" + s.Value
	}
	return s.Value
}

// ParamLocation is where a parameter travels.
type ParamLocation string

const (
	InPath   ParamLocation = "path"
	InQuery  ParamLocation = "query"
	InHeader ParamLocation = "header"
	InCookie ParamLocation = "cookie"
)

// ArgKey returns the property name of the location in the client's argument
// bag.
func (l ParamLocation) ArgKey() string {
	if l == InPath {
		return "param"
	}
	return string(l)
}

// Param is one path, query, header or cookie parameter.
type Param struct {
	Name        string
	In          ParamLocation
	Required    bool
	Type        NodeID
	Description string
}

// Body is the request body of a route.
type Body struct {
	ContentType string
	Required    bool
	Type        NodeID

	// ArgKey is the property carrying the body in the argument bag:
	// "json" or "form".
	ArgKey string
}

// Response is the declared response for one status code.
type Response struct {
	Status      string
	ContentType string
	Description string

	// Type is NoNode for responses without a schema.
	Type NodeID
}

// Opaque reports whether the response has no declared schema.
func (r Response) Opaque() bool { return r.Type.IsZero() }

// Route is the canonical descriptor of one operation. It is built once during
// extraction and never modified afterwards.
type Route struct {
	Method Method

	// Path is the template as declared ("/users/{id}").
	Path string

	Segments []Segment

	OperationID string
	Summary     string
	Description string
	Deprecated  bool

	Params    []Param
	Body      *Body
	Responses []Response
}

// Template returns the path in colon-parameter form ("/users/:id").
func (r *Route) Template() string {
	if len(r.Segments) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, s := range r.Segments {
		sb.WriteByte('/')
		sb.WriteString(s.Text())
	}
	return sb.String()
}

// HasArgs reports whether the route takes call-time arguments.
func (r *Route) HasArgs() bool {
	return len(r.Params) > 0 || r.Body != nil
}

// ArgKeys returns the argument bag properties the route uses, in a fixed
// order.
func (r *Route) ArgKeys() []string {
	present := make(map[string]bool)
	for _, p := range r.Params {
		present[p.In.ArgKey()] = true
	}
	if r.Body != nil {
		present[r.Body.ArgKey] = true
	}
	var keys []string
	for _, k := range []string{"param", "query", "header", "cookie", "json", "form"} {
		if present[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Key returns the identity of the route within a document.
func (r *Route) Key() string {
	return string(r.Method) + " " + r.Path
}
