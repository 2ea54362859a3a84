package flavor

import "github.com/broady/hookgen/hookgen/naming"

const callTemplate = `{{.Doc}}export async function {{.Call}}({{if .HasArgs}}args: {{.ArgsType}}, {{end}}options?: ClientRequestOptions) {
  return await parseResponse({{.Callee}}({{if .HasArgs}}args{{else}}undefined{{end}}, options))
}
`

const keyTemplate = `{{.Doc}}export function {{.KeyGetter}}({{if .KeyArgs}}args: {{.ArgsType}}{{end}}) {
  return [{{.Key}}] as const
}
`

// The request signal is applied after the caller's client options so
// cancellation by the query library always reaches the request.
const queryTemplate = `{{.Doc}}export function {{.Hook}}(
{{- if .HasArgs}}
  args: {{.ArgsType}},
{{- end}}
  options?: {
    query?: Partial<{{.Vars.queryOptions}}<Awaited<ReturnType<typeof {{.Call}}>>, Error>>
    client?: ClientRequestOptions
  },
) {
  const { query: queryOptions, client: clientOptions } = options ?? {}
  return {{.Vars.queryFn}}({{if .Vars.thunk}}() => ({{end}}{
    queryKey: {{.KeyGetter}}({{if .KeyArgs}}args{{end}}),
    queryFn: ({ signal }) =>
      {{.Call}}({{if .HasArgs}}args, {{end}}{ ...clientOptions, init: { ...clientOptions?.init, signal } }),
    ...queryOptions,
  }{{if .Vars.thunk}}){{end}})
}
`

const mutationTemplate = `{{.Doc}}export function {{.Hook}}(options?: {
  mutation?: Partial<{{.Vars.mutationOptions}}<Awaited<ReturnType<typeof {{.Call}}>>, Error, {{if .HasArgs}}{{.ArgsType}}{{else}}void{{end}}>>
  client?: ClientRequestOptions
}) {
  const { mutation: mutationOptions, client: clientOptions } = options ?? {}
  return {{.Vars.mutationFn}}({{if .Vars.thunk}}() => ({{end}}{
    mutationKey: {{.KeyGetter}}(),
    mutationFn: {{if .HasArgs}}(args: {{.ArgsType}}) => {{.Call}}(args, clientOptions){{else}}() => {{.Call}}(clientOptions){{end}},
    ...mutationOptions,
  }{{if .Vars.thunk}}){{end}})
}
`

const importsTemplate = `{{if .HasQuery}}
import { {{.Vars.queryFn}} } from '{{.Vars.module}}'
import type { {{.Vars.queryOptions}} } from '{{.Vars.module}}'
{{end}}{{if .HasMutation}}
import { {{.Vars.mutationFn}} } from '{{.Vars.module}}'
import type { {{.Vars.mutationOptions}} } from '{{.Vars.module}}'
{{end}}`

// hookLibrary is the surface of one query library binding.
type hookLibrary struct {
	module          string
	queryFn         string
	queryOptions    string
	mutationFn      string
	mutationOptions string
	prefix          string
	keys            naming.KeyConvention

	// thunk wraps options in a function, as signal-based libraries expect.
	thunk bool
}

var (
	react = hookLibrary{
		module:          "@tanstack/react-query",
		queryFn:         "useQuery",
		queryOptions:    "UseQueryOptions",
		mutationFn:      "useMutation",
		mutationOptions: "UseMutationOptions",
		prefix:          "use",
		keys:            naming.PathArgs,
	}
	vue = hookLibrary{
		module:          "@tanstack/vue-query",
		queryFn:         "useQuery",
		queryOptions:    "UseQueryOptions",
		mutationFn:      "useMutation",
		mutationOptions: "UseMutationOptions",
		prefix:          "use",
		keys:            naming.PathArgs,
	}
	svelte = hookLibrary{
		module:          "@tanstack/svelte-query",
		queryFn:         "createQuery",
		queryOptions:    "CreateQueryOptions",
		mutationFn:      "createMutation",
		mutationOptions: "CreateMutationOptions",
		prefix:          "create",
		keys:            naming.LiteralTuple,
		thunk:           true,
	}
	solid = hookLibrary{
		module:          "@tanstack/solid-query",
		queryFn:         "createQuery",
		queryOptions:    "SolidQueryOptions",
		mutationFn:      "createMutation",
		mutationOptions: "SolidMutationOptions",
		prefix:          "create",
		keys:            naming.LiteralTuple,
		thunk:           true,
	}
)

func rpcTarget() *Target {
	return &Target{
		Name:         "rpc",
		File:         "rpc.ts",
		Capabilities: Calls,
		Keys:         naming.PathArgs,
		Args:         "infer",
		Templates:    map[string]string{TemplateCall: callTemplate},
	}
}

func typesTarget() *Target {
	return &Target{
		Name:         "types",
		File:         "types.ts",
		Capabilities: Types,
		Args:         "infer",
	}
}

func hookTarget(name string, lib hookLibrary) *Target {
	thunk := ""
	if lib.thunk {
		thunk = "true"
	}
	return &Target{
		Name:         name,
		File:         name + ".ts",
		Capabilities: Calls | KeyGetter | Query | Mutation,
		Keys:         lib.keys,
		Args:         "infer",
		HookPrefix:   lib.prefix,
		Templates: map[string]string{
			TemplateCall:     callTemplate,
			TemplateKey:      keyTemplate,
			TemplateQuery:    queryTemplate,
			TemplateMutation: mutationTemplate,
			TemplateImports:  importsTemplate,
		},
		Vars: map[string]string{
			"module":          lib.module,
			"queryFn":         lib.queryFn,
			"queryOptions":    lib.queryOptions,
			"mutationFn":      lib.mutationFn,
			"mutationOptions": lib.mutationOptions,
			"thunk":           thunk,
		},
	}
}
