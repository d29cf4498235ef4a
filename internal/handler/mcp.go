package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/service"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/storage"
)

// KindInvalidParams marks a call rejected before any upstream request.
const KindInvalidParams = "INVALID_PARAMS"

// MCPHandler exposes the gateway operations as MCP tools.
type MCPHandler struct {
	gateway *service.Gateway
	info    *service.MCPServerService
	server  *mcp.Server
	tools   []models.ToolInfo
}

func NewMCPHandler(gateway *service.Gateway, info *service.MCPServerService) *MCPHandler {
	h := &MCPHandler{
		gateway: gateway,
		info:    info,
		server:  mcp.NewServer(&mcp.Implementation{Name: info.Name(), Version: info.Version()}, nil),
	}
	h.registerVectorStoreTools()
	h.registerVectorStoreFileTools()
	h.registerFileBatchTools()
	h.registerFileTools()
	h.registerUploadTools()
	h.registerAuthTools()
	return h
}

// Server returns the MCP server with every tool registered. The same server
// backs both the stdio and the streamable HTTP transport.
func (h *MCPHandler) Server() *mcp.Server {
	return h.server
}

func (h *MCPHandler) Tools() []models.ToolInfo {
	return append([]models.ToolInfo(nil), h.tools...)
}

// HandleMCPRegistration serves the server description and tool catalogue.
func (h *MCPHandler) HandleMCPRegistration(w http.ResponseWriter, r *http.Request) {
	sendMCPResponse(w, http.StatusOK, true, h.info.GetServerInfo(h.tools), "")
}

// addTool registers fn as a tool. A json.RawMessage result is returned to
// the caller verbatim; any other value is marshalled.
func addTool[In any](h *MCPHandler, name, description string, fn func(ctx context.Context, in In) (any, error)) {
	h.tools = append(h.tools, models.ToolInfo{Name: name, Description: description})

	mcp.AddTool(h.server, &mcp.Tool{Name: name, Description: description},
		func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
			invocationID := uuid.NewString()
			start := time.Now()
			log.Debug().
				Str("tool", name).
				Str("invocation_id", invocationID).
				Interface("input", in).
				Msg("tool invoked")

			out, err := fn(ctx, in)
			if err == nil {
				var res *mcp.CallToolResult
				if res, err = textResult(out); err == nil {
					log.Debug().
						Str("tool", name).
						Str("invocation_id", invocationID).
						Dur("elapsed", time.Since(start)).
						Msg("tool completed")
					return res, nil, nil
				}
			}

			log.Error().
				Err(err).
				Str("tool", name).
				Str("invocation_id", invocationID).
				Str("kind", ErrorKind(err)).
				Dur("elapsed", time.Since(start)).
				Msg("tool failed")
			return errorResult(err), nil, nil
		})
}

func textResult(out any) (*mcp.CallToolResult, error) {
	var text string
	switch v := out.(type) {
	case json.RawMessage:
		text = string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, storage.NewInternalError("encoding tool result: "+err.Error(), nil)
		}
		text = string(b)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil
}

// ToolError is the structured payload of a failed tool call.
type ToolError struct {
	Kind    string          `json:"kind"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Details json.RawMessage `json:"details"`
}

// ErrorKind reports the kind a tool error is surfaced with.
func ErrorKind(err error) string {
	return NewToolError(err).Kind
}

func NewToolError(err error) ToolError {
	if errors.Is(err, service.ErrMissingParameter) {
		return ToolError{
			Kind:    KindInvalidParams,
			Code:    storage.CodeInvalidParams,
			Message: err.Error(),
			Details: json.RawMessage(`{}`),
		}
	}

	var apiErr *storage.APIError
	if errors.As(err, &apiErr) {
		details := apiErr.Details
		if len(details) == 0 {
			details = json.RawMessage(`{}`)
		}
		return ToolError{
			Kind:    string(apiErr.Kind),
			Code:    apiErr.Kind.Code(),
			Message: apiErr.Message,
			Status:  apiErr.Status,
			Details: details,
		}
	}

	return ToolError{
		Kind:    string(storage.KindInternal),
		Code:    storage.CodeInternal,
		Message: err.Error(),
		Details: json.RawMessage(`{}`),
	}
}

func errorResult(err error) *mcp.CallToolResult {
	te := NewToolError(err)
	return &mcp.CallToolResult{
		IsError:           true,
		Content:           []mcp.Content{&mcp.TextContent{Text: te.Kind + ": " + te.Message}},
		StructuredContent: map[string]any{"error": te},
	}
}

func sendMCPResponse(w http.ResponseWriter, status int, success bool, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	response := &models.APIResponse{
		Success: success,
		Data:    data,
		Message: message,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}
