package protocol

import (
	"context"
	"errors"
	"testing"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubModule is a minimal Module whose tools echo their own name, or panic on
// demand.
type stubModule struct {
	name   string
	tools  []ToolSpec
	panics bool
}

func (m *stubModule) Name() string        { return m.name }
func (m *stubModule) Description() string { return "stub" }
func (m *stubModule) Tools() []ToolSpec   { return m.tools }

func (m *stubModule) Call(_ context.Context, tool string, _ map[string]any) (any, error) {
	if m.panics {
		panic("boom")
	}
	for _, t := range m.tools {
		if t.Name == tool {
			return map[string]any{"tool": tool, "module": m.name}, nil
		}
	}
	return nil, unknownTool(m.name, tool)
}

func stubConstructor(m Module) Constructor {
	return Constructor{Name: m.Name(), Build: func(Deps) (Module, error) { return m, nil }}
}

func newStubRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(Deps{}, []Constructor{
		stubConstructor(&stubModule{name: "query", tools: []ToolSpec{
			{Name: "get_entities", Description: "entities"},
			{Name: "get_guidelines", Description: "guidelines"},
			{Name: "execute_sparql", Description: "sparql"},
		}}),
		stubConstructor(&stubModule{name: "relationship", tools: []ToolSpec{
			{Name: "get_relationships", Description: "relationships"},
			{Name: "get_capabilities", Description: "capabilities"},
		}}),
		stubConstructor(&stubModule{name: "dedup", tools: []ToolSpec{
			{Name: "check_duplicate", Description: "check"},
		}}),
	})
}

func TestRegistryListTools(t *testing.T) {
	r := newStubRegistry(t)

	res := r.ListTools()
	assert.Equal(t, []string{
		"get_entities", "get_guidelines", "execute_sparql",
		"get_relationships", "get_capabilities",
		"check_duplicate",
	}, res.Tools)

	require.Len(t, res.Details, 6)
	assert.Equal(t, "query", res.Details[0].Module)
	assert.Equal(t, "entities", res.Details[0].Description)

	// Aliases resolve but are not advertised.
	for _, alias := range AliasNames() {
		assert.NotContains(t, res.Tools, alias)
	}
}

func TestRegistryLegacyAliases(t *testing.T) {
	r := newStubRegistry(t)

	cases := map[string]struct {
		module string
		tool   string
	}{
		"get_world_entities":       {module: "query", tool: "get_entities"},
		"get_entity_relationships": {module: "relationship", tool: "get_relationships"},
		"query_ontology":           {module: "query", tool: "execute_sparql"},
		"get_ontology_guidelines":  {module: "query", tool: "get_guidelines"},
	}
	for alias, want := range cases {
		t.Run(alias, func(t *testing.T) {
			m, tool, err := r.Resolve(alias)
			require.NoError(t, err)
			assert.Equal(t, want.module, m.Name())
			assert.Equal(t, want.tool, tool)
		})
	}
}

func TestRegistryAliasToUnloadedModule(t *testing.T) {
	r := NewRegistry(Deps{}, []Constructor{
		stubConstructor(&stubModule{name: "query", tools: []ToolSpec{{Name: "get_entities"}}}),
	})

	_, _, err := r.Resolve("get_entity_relationships")
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeNotFound, de.Code)
}

func TestRegistrySkipsFailedConstructors(t *testing.T) {
	r := NewRegistry(Deps{}, []Constructor{
		{Name: "broken", Build: func(Deps) (Module, error) {
			return nil, errors.New("missing configuration")
		}},
		stubConstructor(&stubModule{name: "query", tools: []ToolSpec{{Name: "get_entities"}}}),
	})

	require.Len(t, r.Modules(), 1)
	assert.Equal(t, "query", r.Modules()[0].Name())

	_, err := r.CallTool(context.Background(), "get_entities", nil)
	assert.NoError(t, err)
}

func TestRegistryUnknownTool(t *testing.T) {
	r := newStubRegistry(t)

	_, err := r.CallTool(context.Background(), "no_such_tool", nil)
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeNotFound, de.Code)
}

func TestRegistryContainsPanics(t *testing.T) {
	r := NewRegistry(Deps{}, []Constructor{
		stubConstructor(&stubModule{name: "flaky", tools: []ToolSpec{{Name: "explode"}}, panics: true}),
	})

	_, err := r.CallTool(context.Background(), "explode", nil)
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrCodeInternalError, de.Code)
}

func TestRegistryEmptyListTools(t *testing.T) {
	r := NewRegistry(Deps{}, nil)

	res := r.ListTools()
	assert.NotNil(t, res.Tools)
	assert.NotNil(t, res.Details)
	assert.Empty(t, res.Tools)
}
