package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/config"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/models"
	"github.com/Akhildas-ts/vectorstore-mcp/internal/service"
	"github.com/Akhildas-ts/vectorstore-mcp/test/mocks"
)

var allTools = []string{
	"api_key_validate",
	"file_content",
	"file_delete",
	"file_get",
	"file_list",
	"file_upload",
	"upload_cancel",
	"upload_complete",
	"upload_create",
	"vector_store_create",
	"vector_store_delete",
	"vector_store_file_batch_cancel",
	"vector_store_file_batch_create",
	"vector_store_file_batch_files",
	"vector_store_file_batch_get",
	"vector_store_file_content",
	"vector_store_file_create",
	"vector_store_file_delete",
	"vector_store_file_get",
	"vector_store_file_list",
	"vector_store_file_update",
	"vector_store_get",
	"vector_store_list",
	"vector_store_modify",
}

func testServerInfo() *service.MCPServerService {
	return service.NewMCPServerService(&config.Config{
		ServerName:    "vectorstore-mcp",
		ServerVersion: "test",
		Transport:     config.TransportStdio,
		MCPPath:       "/mcp",
	})
}

func fakeGateway(fake *mocks.FakeOpenAI, apiKey string) *service.Gateway {
	return service.NewGatewayFromConfig(&config.Config{
		OpenAIAPIKey:     apiKey,
		OpenAIBaseURL:    fake.URL(),
		OpenAIBetaHeader: "assistants=v2",
	})
}

// connect wires a client to the handler's server over in-memory transports.
func connect(t *testing.T, gw *service.Gateway) (*mcp.ClientSession, *MCPHandler) {
	t.Helper()
	h := NewMCPHandler(gw, testServerInfo())

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := h.Server().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		cs.Close()
		ss.Wait()
	})
	return cs, h
}

func call(t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func decode(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.False(t, res.IsError, textOf(t, res))
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(textOf(t, res)), &out))
	return out
}

func toolError(t *testing.T, res *mcp.CallToolResult) map[string]any {
	t.Helper()
	require.True(t, res.IsError, "expected a tool error")
	sc, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "structured content: %T", res.StructuredContent)
	e, ok := sc["error"].(map[string]any)
	require.True(t, ok)
	return e
}

func TestListTools(t *testing.T) {
	cs, h := connect(t, service.NewGateway(mocks.NewMockUpstream()))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		assert.NotNil(t, tool.InputSchema, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, allTools, names)
	assert.Len(t, h.Tools(), len(allTools))
}

func TestVectorStoreToolsAgainstFakeUpstream(t *testing.T) {
	fake := mocks.NewFakeOpenAI("sk-test")
	defer fake.Close()
	cs, _ := connect(t, fakeGateway(fake, "sk-test"))

	created := decode(t, call(t, cs, "vector_store_create", map[string]any{
		"name":               "T1",
		"expires_after_days": 1,
	}))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "T1", created["name"])
	assert.Equal(t, map[string]any{"anchor": "last_active_at", "days": float64(1)}, created["expires_after"])

	got := decode(t, call(t, cs, "vector_store_get", map[string]any{"vector_store_id": id}))
	assert.Equal(t, id, got["id"])

	modified := decode(t, call(t, cs, "vector_store_modify", map[string]any{"vector_store_id": id, "name": "T2"}))
	assert.Equal(t, "T2", modified["name"])

	list := decode(t, call(t, cs, "vector_store_list", map[string]any{"limit": 10}))
	assert.Len(t, list["data"], 1)

	deleted := decode(t, call(t, cs, "vector_store_delete", map[string]any{"vector_store_id": id}))
	assert.Equal(t, true, deleted["deleted"])

	res := call(t, cs, "vector_store_get", map[string]any{"vector_store_id": id})
	e := toolError(t, res)
	assert.Equal(t, "NOT_FOUND", e["kind"])
	assert.Equal(t, float64(-32004), e["code"])
	assert.Equal(t, float64(http.StatusNotFound), e["status"])
	assert.True(t, strings.HasPrefix(textOf(t, res), "NOT_FOUND: "), textOf(t, res))
}

func TestMissingIdentifierNeverReachesUpstream(t *testing.T) {
	fake := mocks.NewFakeOpenAI("sk-test")
	defer fake.Close()
	cs, _ := connect(t, fakeGateway(fake, "sk-test"))

	t.Run("absent", func(t *testing.T) {
		_, err := cs.CallTool(context.Background(), &mcp.CallToolParams{
			Name:      "vector_store_get",
			Arguments: map[string]any{},
		})
		require.Error(t, err)
	})

	t.Run("blank", func(t *testing.T) {
		res := call(t, cs, "vector_store_file_get", map[string]any{"vector_store_id": "vs_1", "file_id": "  "})
		e := toolError(t, res)
		assert.Equal(t, KindInvalidParams, e["kind"])
		assert.Equal(t, float64(-32602), e["code"])
		assert.Contains(t, e["message"], "file_id")
	})

	assert.Zero(t, fake.Hits())
}

func TestFileUploadAlwaysFails(t *testing.T) {
	fake := mocks.NewFakeOpenAI("sk-test")
	defer fake.Close()
	cs, _ := connect(t, fakeGateway(fake, "sk-test"))

	res := call(t, cs, "file_upload", map[string]any{"path": "/tmp/report.pdf", "purpose": "assistants"})
	e := toolError(t, res)
	assert.Equal(t, "INTERNAL", e["kind"])
	assert.Equal(t, float64(-32603), e["code"])
	assert.Contains(t, textOf(t, res), "vector_store_file_create")
	assert.Contains(t, textOf(t, res), "vector_store_file_batch_create")
	assert.Zero(t, fake.Hits())
}

func TestAPIKeyValidate(t *testing.T) {
	fake := mocks.NewFakeOpenAI("sk-good")
	defer fake.Close()

	tests := []struct {
		name  string
		key   string
		valid bool
	}{
		{name: "accepted", key: "sk-good", valid: true},
		{name: "rejected", key: "sk-bad", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, _ := connect(t, fakeGateway(fake, tt.key))
			out := decode(t, call(t, cs, "api_key_validate", nil))
			assert.Equal(t, tt.valid, out["valid"])
		})
	}
}

func TestUpstreamRejectionIsClassified(t *testing.T) {
	fake := mocks.NewFakeOpenAI("sk-good")
	defer fake.Close()
	cs, _ := connect(t, fakeGateway(fake, "sk-bad"))

	res := call(t, cs, "vector_store_list", nil)
	e := toolError(t, res)
	assert.Equal(t, "UNAUTHORIZED", e["kind"])
	assert.Equal(t, float64(-32001), e["code"])
	assert.Equal(t, "Incorrect API key provided.", e["message"])
	details, ok := e["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "error")

	fake.SetError(http.StatusTooManyRequests, "slow down")
	cs2, _ := connect(t, fakeGateway(fake, "sk-good"))
	e = toolError(t, call(t, cs2, "file_list", nil))
	assert.Equal(t, "RATE_LIMITED", e["kind"])
	assert.Equal(t, map[string]any{}, e["details"])
}

func TestFileBatchTools(t *testing.T) {
	fake := mocks.NewFakeOpenAI("sk-test")
	defer fake.Close()
	fake.AddFile("file-a", "a.txt", "assistants", []byte("alpha"), "text/plain")
	fake.AddFile("file-b", "b.txt", "assistants", []byte("beta"), "text/plain")
	cs, _ := connect(t, fakeGateway(fake, "sk-test"))

	store := decode(t, call(t, cs, "vector_store_create", map[string]any{"name": "batches"}))
	storeID := store["id"].(string)

	batch := decode(t, call(t, cs, "vector_store_file_batch_create", map[string]any{
		"vector_store_id": storeID,
		"file_ids":        []string{"file-a", "file-b"},
	}))
	batchID := batch["id"].(string)
	assert.Equal(t, "in_progress", batch["status"])

	args := map[string]any{"vector_store_id": storeID, "batch_id": batchID}
	first := decode(t, call(t, cs, "vector_store_file_batch_get", args))
	second := decode(t, call(t, cs, "vector_store_file_batch_get", args))
	assert.True(t, models.CanTransition(
		models.BatchStatus(first["status"].(string)),
		models.BatchStatus(second["status"].(string)),
	))
	assert.Equal(t, "completed", second["status"])

	files := decode(t, call(t, cs, "vector_store_file_batch_files", args))
	assert.Len(t, files["data"], 2)

	e := toolError(t, call(t, cs, "vector_store_file_batch_cancel", args))
	assert.Equal(t, "INTERNAL", e["kind"])
	assert.Equal(t, float64(http.StatusBadRequest), e["status"])
}

func TestFileContentEncoding(t *testing.T) {
	fake := mocks.NewFakeOpenAI("sk-test")
	defer fake.Close()
	binary := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}
	fake.AddFile("file-txt", "notes.txt", "assistants", []byte("hello"), "text/plain")
	fake.AddFile("file-bin", "image.png", "assistants", binary, "image/png")
	cs, _ := connect(t, fakeGateway(fake, "sk-test"))

	text := decode(t, call(t, cs, "file_content", map[string]any{"file_id": "file-txt"}))
	assert.Equal(t, "utf-8", text["encoding"])
	assert.Equal(t, "hello", text["content"])

	bin := decode(t, call(t, cs, "file_content", map[string]any{"file_id": "file-bin"}))
	assert.Equal(t, "base64", bin["encoding"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(binary), bin["content"])
}

func TestSuccessBodyIsPassedThroughVerbatim(t *testing.T) {
	upstream := mocks.NewMockUpstream()
	body := `{"id":"vs_1",  "object":"vector_store", "unknown_field": [1, 2]}`
	upstream.SetResponse(body)
	cs, _ := connect(t, service.NewGateway(upstream))

	res := call(t, cs, "vector_store_get", map[string]any{"vector_store_id": "vs_1"})
	require.False(t, res.IsError)
	assert.Equal(t, body, textOf(t, res))

	req, ok := upstream.LastRequest()
	require.True(t, ok)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/vector_stores/vs_1", req.Path)
}

func TestHandleMCPRegistration(t *testing.T) {
	h := NewMCPHandler(service.NewGateway(mocks.NewMockUpstream()), testServerInfo())

	rec := httptest.NewRecorder()
	h.HandleMCPRegistration(rec, httptest.NewRequest(http.MethodGet, "/mcp-info", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Success bool              `json:"success"`
		Data    models.ServerInfo `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "vectorstore-mcp", resp.Data.Name)
	require.Len(t, resp.Data.Tools, len(allTools))
	for i, tool := range resp.Data.Tools {
		assert.Equal(t, allTools[i], tool.Name)
	}
	assert.NotContains(t, resp.Data.Endpoints, "metrics")
}
