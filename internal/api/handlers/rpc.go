package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ethograph/ethograph/internal/api"
	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/protocol"
)

// RPCRequest is the protocol request envelope. The id is opaque and echoed
// back unchanged.
type RPCRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
}

// RPCError is the error half of the response envelope.
type RPCError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RPCResponse is the protocol response envelope. Exactly one of Result and
// Error is set.
type RPCResponse struct {
	ID     json.RawMessage `json:"id"`
	Result any             `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// toolContent is one entry of a call_tool result.
type toolContent struct {
	Text string `json:"text"`
}

type callToolResult struct {
	Content []toolContent `json:"content"`
}

// RPCHandler serves the tool protocol endpoint. Handled requests always
// answer HTTP 200; failures travel in the error envelope.
type RPCHandler struct {
	registry *protocol.Registry
}

func NewRPCHandler(registry *protocol.Registry) *RPCHandler {
	return &RPCHandler{registry: registry}
}

// Handle serves POST /rpc.
func (h *RPCHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req RPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "malformed request body", err))
		return
	}

	switch req.Method {
	case "list_tools":
		h.writeResult(w, req.ID, h.registry.ListTools())
	case "call_tool":
		h.callTool(w, r, req)
	default:
		h.writeError(w, req.ID, domain.NewDomainError(domain.ErrCodeValidation, "unknown method: "+req.Method))
	}
}

func (h *RPCHandler) callTool(w http.ResponseWriter, r *http.Request, req RPCRequest) {
	var params callToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			h.writeError(w, req.ID, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "malformed params", err))
			return
		}
	}
	if params.Name == "" {
		h.writeError(w, req.ID, domain.NewDomainError(domain.ErrCodeValidation, "tool name is required"))
		return
	}

	result, err := h.registry.CallTool(r.Context(), params.Name, params.Arguments)
	if err != nil {
		h.writeError(w, req.ID, err)
		return
	}

	text, err := json.Marshal(result)
	if err != nil {
		h.writeError(w, req.ID, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "encoding tool result", err))
		return
	}
	h.writeResult(w, req.ID, callToolResult{Content: []toolContent{{Text: string(text)}}})
}

func (h *RPCHandler) writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	api.JSON(w, http.StatusOK, RPCResponse{ID: id, Result: result})
}

func (h *RPCHandler) writeError(w http.ResponseWriter, id json.RawMessage, err error) {
	code := domain.ErrCodeInternalError
	var de *domain.DomainError
	if errors.As(err, &de) {
		code = de.Code
	}
	api.JSON(w, http.StatusOK, RPCResponse{ID: id, Error: &RPCError{Code: code, Message: err.Error()}})
}
