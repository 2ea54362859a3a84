// Package routes builds ir.Route descriptors from the paths of a spec
// document, normalizing parameter, body and response schemas on the way.
package routes

import (
	"fmt"
	"strings"

	"github.com/broady/hookgen/hookgen/ir"
	"github.com/broady/hookgen/hookgen/normalize"
	"github.com/broady/hookgen/hookgen/spec"
)

type role int

const (
	roleParam role = iota
	roleBody
	roleResponse
)

type cacheKey struct {
	schema *spec.Schema
	role   role
}

type extractor struct {
	n        *normalize.Normalizer
	cache    map[cacheKey]ir.NodeID
	warnings []ir.Warning

	// untyped stands in for parameters declared without a schema.
	untyped *spec.Schema
}

// Extract returns one route per operation of doc, in declaration order.
// Schemas are normalized through n, which must not be frozen yet.
func Extract(doc *spec.Document, n *normalize.Normalizer) ([]ir.Route, []ir.Warning, error) {
	x := &extractor{
		n:       n,
		cache:   make(map[cacheKey]ir.NodeID),
		untyped: &spec.Schema{Types: []string{"string"}},
	}

	var routes []ir.Route
	seen := make(map[string]bool)
	for _, item := range doc.Paths {
		if item == nil {
			continue
		}
		segments := Tokenize(item.Path)
		for _, op := range item.Operations {
			if op == nil {
				continue
			}
			r, err := x.route(item, op, segments)
			if err != nil {
				return nil, nil, fmt.Errorf("%s %s: %w", op.Method, item.Path, err)
			}
			if seen[r.Key()] {
				return nil, nil, fmt.Errorf("duplicate route %s", r.Key())
			}
			seen[r.Key()] = true
			routes = append(routes, r)
		}
	}
	return routes, x.warnings, nil
}

func (x *extractor) warn(r *ir.Route, code, format string, args ...any) {
	x.warnings = append(x.warnings, ir.Warning{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Route:   r.Key(),
	})
}

// schema normalizes s once per (identity, role).
func (x *extractor) schema(s *spec.Schema, ro role) (ir.NodeID, error) {
	key := cacheKey{schema: s, role: ro}
	if id, ok := x.cache[key]; ok {
		return id, nil
	}
	id, err := x.n.Schema(s, "")
	if err != nil {
		return ir.NoNode, err
	}
	x.cache[key] = id
	return id, nil
}

func (x *extractor) route(item *spec.PathItem, op *spec.Operation, segments []ir.Segment) (ir.Route, error) {
	method, ok := ir.ParseMethod(op.Method)
	if !ok {
		return ir.Route{}, fmt.Errorf("unsupported method %q", op.Method)
	}
	r := ir.Route{
		Method:      method,
		Path:        item.Path,
		Segments:    segments,
		OperationID: op.OperationID,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
	}

	for _, p := range mergeParams(item.Parameters, op.Parameters) {
		typ := p.Schema
		if typ == nil {
			typ = x.untyped
		}
		id, err := x.schema(typ, roleParam)
		if err != nil {
			return ir.Route{}, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		loc := ir.ParamLocation(p.In)
		r.Params = append(r.Params, ir.Param{
			Name:        p.Name,
			In:          loc,
			Required:    p.Required || loc == ir.InPath,
			Type:        id,
			Description: p.Description,
		})
	}
	if err := x.synthesizePathParams(&r); err != nil {
		return ir.Route{}, err
	}

	if op.RequestBody != nil {
		body, err := x.body(&r, op.RequestBody)
		if err != nil {
			return ir.Route{}, fmt.Errorf("request body: %w", err)
		}
		r.Body = body
	}

	for _, resp := range op.Responses {
		out, err := x.response(&r, resp)
		if err != nil {
			return ir.Route{}, fmt.Errorf("response %s: %w", resp.Status, err)
		}
		r.Responses = append(r.Responses, out)
	}
	return r, nil
}

// mergeParams applies operation parameters over path-level ones. A parameter
// is identified by (name, in); overrides keep the inherited position.
func mergeParams(inherited, own []*spec.Parameter) []*spec.Parameter {
	out := make([]*spec.Parameter, 0, len(inherited)+len(own))
	at := make(map[string]int)
	for _, list := range [][]*spec.Parameter{inherited, own} {
		for _, p := range list {
			if p == nil {
				continue
			}
			key := p.In + "\x00" + p.Name
			if i, ok := at[key]; ok {
				out[i] = p
				continue
			}
			at[key] = len(out)
			out = append(out, p)
		}
	}
	return out
}

// synthesizePathParams adds required string parameters for path tokens that
// have no declaration.
func (x *extractor) synthesizePathParams(r *ir.Route) error {
	declared := make(map[string]bool)
	for _, p := range r.Params {
		if p.In == ir.InPath {
			declared[p.Name] = true
		}
	}
	for _, name := range ParamNames(r.Path) {
		if declared[name] {
			continue
		}
		id, err := x.schema(x.untyped, roleParam)
		if err != nil {
			return err
		}
		r.Params = append(r.Params, ir.Param{Name: name, In: ir.InPath, Required: true, Type: id})
		declared[name] = true
		x.warn(r, ir.WarnSynthesizedParam, "path parameter %s is not declared; assuming string", name)
	}
	return nil
}

func (x *extractor) body(r *ir.Route, rb *spec.RequestBody) (*ir.Body, error) {
	var chosen *spec.MediaType
	argKey := ""
	for _, mt := range rb.Content {
		if IsJSON(mt.Type) {
			chosen, argKey = mt, "json"
			break
		}
	}
	if chosen == nil {
		for _, mt := range rb.Content {
			if IsForm(mt.Type) {
				chosen, argKey = mt, "form"
				break
			}
		}
	}
	for _, mt := range rb.Content {
		if mt != chosen {
			x.warn(r, ir.WarnIgnoredMedia, "request body media type %s ignored", mt.Type)
		}
	}
	if chosen == nil {
		return nil, nil
	}

	id, err := x.schema(chosen.Schema, roleBody)
	if err != nil {
		return nil, err
	}
	return &ir.Body{ContentType: chosen.Type, Required: rb.Required, Type: id, ArgKey: argKey}, nil
}

func (x *extractor) response(r *ir.Route, resp *spec.Response) (ir.Response, error) {
	out := ir.Response{Status: resp.Status, Description: resp.Description}
	if len(resp.Content) == 0 {
		return out, nil
	}

	chosen := resp.Content[0]
	for _, mt := range resp.Content {
		if IsJSON(mt.Type) {
			chosen = mt
			break
		}
	}
	out.ContentType = chosen.Type
	if chosen.Schema == nil {
		x.warn(r, ir.WarnOpaqueResponse, "%s response %s has no schema", resp.Status, chosen.Type)
		return out, nil
	}
	id, err := x.schema(chosen.Schema, roleResponse)
	if err != nil {
		return out, err
	}
	out.Type = id
	return out, nil
}

// IsJSON reports whether a media type carries JSON.
func IsJSON(mediaType string) bool {
	mt := strings.ToLower(strings.TrimSpace(strings.SplitN(mediaType, ";", 2)[0]))
	return mt == "application/json" || strings.HasSuffix(mt, "+json") || mt == "*/*"
}

// IsForm reports whether a media type is a form encoding.
func IsForm(mediaType string) bool {
	mt := strings.ToLower(strings.TrimSpace(strings.SplitN(mediaType, ";", 2)[0]))
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}
