package typescript

import (
	"strings"

	"github.com/broady/hookgen/hookgen/ir"
)

// The request client mirrors the route's path as member accesses and ends in
// a "$method" function: client.users[':id'].$get(args, options). The root
// path is exposed as "index".

// ClientCall returns the callee expression of r on the client object.
func ClientCall(client string, r *ir.Route) string {
	var sb strings.Builder
	sb.WriteString(client)
	for _, seg := range clientPath(r) {
		sb.WriteString(Member(seg))
	}
	sb.WriteString(Member(methodMember(r.Method)))
	return sb.String()
}

// ClientCallType returns the type query of the callee, usable with
// InferRequestType. Once a segment needs brackets the rest of the chain uses
// indexed access, since a type query cannot continue with a dot.
func ClientCallType(client string, r *ir.Route) string {
	var sb strings.Builder
	sb.WriteString("typeof ")
	sb.WriteString(client)
	indexed := false
	for _, seg := range append(clientPath(r), methodMember(r.Method)) {
		if !indexed && isIdentifier(seg) {
			sb.WriteString("." + seg)
			continue
		}
		indexed = true
		sb.WriteString("[" + Quote(seg) + "]")
	}
	return sb.String()
}

func clientPath(r *ir.Route) []string {
	if len(r.Segments) == 0 {
		return []string{"index"}
	}
	out := make([]string, len(r.Segments))
	for i, seg := range r.Segments {
		out[i] = seg.Text()
	}
	return out
}

func methodMember(m ir.Method) string {
	return "$" + strings.ToLower(string(m))
}
