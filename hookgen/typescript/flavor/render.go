package flavor

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/template"

	"github.com/broady/hookgen/hookgen/ir"
	"github.com/broady/hookgen/hookgen/naming"
	"github.com/broady/hookgen/hookgen/typescript"
)

// RouteView is the data a template sees for one route.
type RouteView struct {
	Method string
	Path   string

	// Doc is the route's doc header, ending in a newline.
	Doc string

	// Call is the request function ("getApplications").
	Call string

	// Stem is the PascalCase stem ("GetApplications").
	Stem string

	// Hook is the hook factory ("useGetApplications").
	Hook string

	// KeyGetter is the cache-key function ("getGetApplicationsQueryKey").
	KeyGetter string

	// Callee is the client accessor ("client.applications.$get").
	Callee string

	// ArgsType is the type of the argument bag.
	ArgsType string
	HasArgs  bool

	// Key is the body of the key tuple ("'/applications', args").
	Key     string
	KeyArgs bool

	// Query is set for GET and HEAD routes; others render as mutations.
	Query bool

	Vars map[string]string
}

// FileView is the data the imports template sees.
type FileView struct {
	HasQuery    bool
	HasMutation bool
	Vars        map[string]string
}

type templateRenderer struct {
	target *Target
	tmpl   *template.Template
}

// NewRenderer returns the Renderer of t.
func NewRenderer(t *Target) (Renderer, error) {
	return newTemplateRenderer(t)
}

func newTemplateRenderer(t *Target) (*templateRenderer, error) {
	root := template.New(t.Name).Option("missingkey=error")
	names := make([]string, 0, len(t.Templates))
	for name := range t.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := root.New(name).Parse(t.Templates[name]); err != nil {
			return nil, fmt.Errorf("target %s: template %s: %w", t.Name, name, err)
		}
	}
	return &templateRenderer{target: t, tmpl: root}, nil
}

func (r *templateRenderer) execute(w io.Writer, name string, data any) error {
	if r.tmpl.Lookup(name) == nil {
		return &UnsupportedCapabilityError{Target: r.target.Name, Template: name}
	}
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("target %s: %w", r.target.Name, err)
	}
	return nil
}

func (r *templateRenderer) RenderCall(w io.Writer, v *RouteView) error {
	return r.execute(w, TemplateCall, v)
}

func (r *templateRenderer) RenderKeyGetter(w io.Writer, v *RouteView) error {
	return r.execute(w, TemplateKey, v)
}

func (r *templateRenderer) RenderHookFactory(w io.Writer, v *RouteView) error {
	if v.Query {
		return r.execute(w, TemplateQuery, v)
	}
	return r.execute(w, TemplateMutation, v)
}

// imports renders the optional imports template as a list of lines.
func (r *templateRenderer) imports(v *FileView) ([]string, error) {
	if r.tmpl.Lookup(TemplateImports) == nil {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := r.execute(&buf, TemplateImports, v); err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// routeView builds the template data of r.
func routeView(t *Target, e *typescript.Emitter, client string, name naming.Name, r *ir.Route) (*RouteView, error) {
	v := &RouteView{
		Method:  string(r.Method),
		Path:    r.Path,
		Doc:     typescript.RouteDoc(r),
		Call:    name.Call(),
		Stem:    name.Stem,
		Hook:    name.Hook(t.HookPrefix),
		Callee:  typescript.ClientCall(client, r),
		HasArgs: r.HasArgs(),
		Query:   r.Method.Safe(),
		Vars:    t.Vars,
	}
	if v.Vars == nil {
		v.Vars = map[string]string{}
	}

	switch {
	case !v.HasArgs:
		v.ArgsType = "{}"
	case t.schemaArgs():
		args, err := e.ArgsType(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r.Key(), err)
		}
		v.ArgsType = args
	default:
		v.ArgsType = "InferRequestType<" + typescript.ClientCallType(client, r) + ">"
	}

	// Mutation keys identify the operation, not one invocation of it.
	if v.Query {
		v.KeyGetter = name.QueryKeyGetter()
		v.KeyArgs = v.HasArgs
	} else {
		v.KeyGetter = name.MutationKeyGetter()
	}
	parts := name.Key(t.keys(), v.KeyArgs)
	elems := make([]string, len(parts))
	for i, p := range parts {
		if p.Args {
			elems[i] = "args"
		} else {
			elems[i] = typescript.Quote(p.Literal)
		}
	}
	v.Key = strings.Join(elems, ", ")
	return v, nil
}
