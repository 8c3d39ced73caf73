package protocol

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/telemetry"
)

type toolRef struct {
	module string
	tool   string
}

// legacyAliases maps tool names from earlier deployments to their current
// module/tool homes. The table is fixed; aliases never shadow a registered
// tool.
var legacyAliases = map[string]toolRef{
	"get_world_entities":       {module: "query", tool: "get_entities"},
	"get_entity_relationships": {module: "relationship", tool: "get_relationships"},
	"query_ontology":           {module: "query", tool: "execute_sparql"},
	"get_ontology_guidelines":  {module: "query", tool: "get_guidelines"},
}

// Registry holds the successfully constructed modules and routes tool calls
// to them.
type Registry struct {
	modules map[string]Module
	order   []string
	tools   map[string]toolRef
}

// NewRegistry constructs every module in the table. A failing constructor is
// logged and skipped; the registry still serves the modules that loaded.
func NewRegistry(deps Deps, constructors []Constructor) *Registry {
	r := &Registry{
		modules: make(map[string]Module),
		tools:   make(map[string]toolRef),
	}
	for _, c := range constructors {
		m, err := c.Build(deps)
		if err != nil {
			log.Printf("protocol: skipping module %q: %v", c.Name,
				domain.NewDomainErrorWithCause(domain.ErrCodeModuleLoad, "module failed to load", err))
			continue
		}
		r.register(m)
	}
	return r
}

func (r *Registry) register(m Module) {
	name := m.Name()
	if _, dup := r.modules[name]; dup {
		log.Printf("protocol: duplicate module %q ignored", name)
		return
	}
	r.modules[name] = m
	r.order = append(r.order, name)
	for _, t := range m.Tools() {
		if prev, dup := r.tools[t.Name]; dup {
			log.Printf("protocol: tool %q from module %q shadowed by module %q", t.Name, name, prev.module)
			continue
		}
		r.tools[t.Name] = toolRef{module: name, tool: t.Name}
	}
}

// Modules returns the loaded modules in registration order.
func (r *Registry) Modules() []Module {
	out := make([]Module, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.modules[name])
	}
	return out
}

// ToolDetail is one entry of the list_tools response.
type ToolDetail struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Module      string `json:"module"`
}

// ListToolsResult is the list_tools response payload.
type ListToolsResult struct {
	Tools   []string     `json:"tools"`
	Details []ToolDetail `json:"details"`
}

// ListTools enumerates every registered tool, modules in registration order
// and tools in each module's declared order. Aliases are not listed.
func (r *Registry) ListTools() *ListToolsResult {
	res := &ListToolsResult{Tools: []string{}, Details: []ToolDetail{}}
	for _, name := range r.order {
		m := r.modules[name]
		for _, t := range m.Tools() {
			res.Tools = append(res.Tools, t.Name)
			res.Details = append(res.Details, ToolDetail{
				Name:        t.Name,
				Description: t.Description,
				Module:      name,
			})
		}
	}
	return res
}

// Resolve maps a tool name to its owning module, consulting the legacy alias
// table on a registry miss.
func (r *Registry) Resolve(name string) (Module, string, error) {
	if ref, ok := r.tools[name]; ok {
		return r.modules[ref.module], ref.tool, nil
	}
	if ref, ok := legacyAliases[name]; ok {
		if m, loaded := r.modules[ref.module]; loaded {
			return m, ref.tool, nil
		}
		return nil, "", domain.NewDomainError(domain.ErrCodeNotFound,
			fmt.Sprintf("tool %q maps to module %q which is not loaded", name, ref.module))
	}
	return nil, "", domain.NewDomainError(domain.ErrCodeNotFound, fmt.Sprintf("unknown tool %q", name))
}

// CallTool dispatches one tool invocation. A panicking module is contained
// and reported as an internal error.
func (r *Registry) CallTool(ctx context.Context, name string, args map[string]any) (result any, err error) {
	m, tool, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "protocol.call_tool", telemetry.SpanAttributes{Tool: tool})
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("protocol: panic in tool %q: %v", name, rec)
			err = domain.NewDomainError(domain.ErrCodeInternalError, fmt.Sprintf("tool %q failed", name))
			span.SetError(err)
		}
	}()
	return m.Call(ctx, tool, args)
}

// AliasNames returns the legacy alias names, sorted, for diagnostics.
func AliasNames() []string {
	names := make([]string, 0, len(legacyAliases))
	for name := range legacyAliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
