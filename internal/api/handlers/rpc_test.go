package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoModule struct{}

func (echoModule) Name() string        { return "echo" }
func (echoModule) Description() string { return "echoes arguments back" }

func (echoModule) Tools() []protocol.ToolSpec {
	return []protocol.ToolSpec{
		{Name: "echo_args", Description: "returns its arguments"},
		{Name: "always_fails", Description: "returns a validation error"},
	}
}

func (echoModule) Call(_ context.Context, tool string, args map[string]any) (any, error) {
	switch tool {
	case "echo_args":
		if args == nil {
			args = map[string]any{}
		}
		return map[string]any{"received": args}, nil
	case "always_fails":
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "bad input")
	}
	return nil, domain.NewDomainError(domain.ErrCodeNotFound, "unknown tool")
}

func newTestHandler(t *testing.T) *RPCHandler {
	t.Helper()
	registry := protocol.NewRegistry(protocol.Deps{}, []protocol.Constructor{
		{Name: "echo", Build: func(protocol.Deps) (protocol.Module, error) { return echoModule{}, nil }},
	})
	return NewRPCHandler(registry)
}

func post(t *testing.T, h *RPCHandler, body string) (*httptest.ResponseRecorder, RPCResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	var resp RPCResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestRPCListTools(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := post(t, h, `{"id": 1, "method": "list_tools"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", string(resp.ID))
	require.Nil(t, resp.Error)

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var listed protocol.ListToolsResult
	require.NoError(t, json.Unmarshal(raw, &listed))
	assert.Equal(t, []string{"echo_args", "always_fails"}, listed.Tools)
}

func TestRPCCallTool(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := post(t, h, `{
		"id": "req-7",
		"method": "call_tool",
		"params": {"name": "echo_args", "arguments": {"uri": "urn:eng#Engineer"}}
	}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"req-7"`, string(resp.ID))
	require.Nil(t, resp.Error)

	// The tool result is wrapped as serialized text content.
	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var result callToolResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Len(t, result.Content, 1)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &payload))
	assert.Equal(t, map[string]any{"received": map[string]any{"uri": "urn:eng#Engineer"}}, payload)
}

func TestRPCToolErrorsUseEnvelope(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := post(t, h, `{"id": 3, "method": "call_tool", "params": {"name": "always_fails"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, resp.Result)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "3", string(resp.ID))
}

func TestRPCUnknownTool(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := post(t, h, `{"id": 4, "method": "call_tool", "params": {"name": "nope"}}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.ErrCodeNotFound, resp.Error.Code)
}

func TestRPCMissingToolName(t *testing.T) {
	h := newTestHandler(t)

	_, resp := post(t, h, `{"id": 5, "method": "call_tool", "params": {}}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.ErrCodeValidation, resp.Error.Code)
}

func TestRPCUnknownMethod(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := post(t, h, `{"id": 6, "method": "shutdown"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.ErrCodeValidation, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "shutdown")
}

func TestRPCMalformedBody(t *testing.T) {
	h := newTestHandler(t)

	rec, resp := post(t, h, `{"id": 1, "method":`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, domain.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.ID)
}
