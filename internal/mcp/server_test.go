package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"rulesmcp/internal/config"
	"rulesmcp/internal/logging"
	"rulesmcp/internal/rules"
	"rulesmcp/internal/source"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `# Style
indent: tabs
naming: camelCase for locals

## Notes
prose without separator

# Testing
framework: testify
docs: https://pkg.go.dev/testing

# Style
line length: 100 <soft> & 120 hard
`

type fakeSource struct {
	content string
	err     error
	calls   int
}

func (f *fakeSource) Fetch(ctx context.Context) (string, error) {
	f.calls++
	return f.content, f.err
}

func (f *fakeSource) Origin() source.Origin {
	return source.OriginLocal
}

func newTestServer(t *testing.T, src source.Source) *Server {
	t.Helper()
	logger, _ := logging.NewTestLogger()
	return NewServer(&config.Config{Location: "test"}, logger, src)
}

func TestNewServer(t *testing.T) {
	cfg := &config.Config{Location: "/tmp/RULES.md"}
	logger, _ := logging.NewTestLogger()
	src := &fakeSource{}

	server := NewServer(cfg, logger, src)

	if server == nil {
		t.Fatal("NewServer returned nil")
	}
	if server.config != cfg {
		t.Error("Server config not set correctly")
	}
	if server.logger != logger {
		t.Error("Server logger not set correctly")
	}
	if server.MCPServer() == nil {
		t.Error("MCP server should be created by NewServer")
	}
	if src.calls != 0 {
		t.Error("NewServer should not fetch the rules document")
	}
}

func TestStop(t *testing.T) {
	server := newTestServer(t, &fakeSource{})

	if err := server.Stop(); err != nil {
		t.Errorf("Stop should not return error: %v", err)
	}
}

func TestCall_GetRules(t *testing.T) {
	server := newTestServer(t, &fakeSource{content: sampleDocument})

	text, err := server.Call(context.Background(), ToolGetRules, nil)
	require.NoError(t, err)

	var got []rules.Rule
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, []rules.Rule{
		{Category: "Style", Key: "indent", Value: "tabs"},
		{Category: "Style", Key: "naming", Value: "camelCase for locals"},
		{Category: "Testing", Key: "framework", Value: "testify"},
		{Category: "Testing", Key: "docs", Value: "https://pkg.go.dev/testing"},
		{Category: "Style", Key: "line length", Value: "100 <soft> & 120 hard"},
	}, got)
}

func TestCall_GetRulesFilteredCaseInsensitive(t *testing.T) {
	server := newTestServer(t, &fakeSource{content: sampleDocument})

	text, err := server.Call(context.Background(), ToolGetRules, map[string]any{"category": "style"})
	require.NoError(t, err)

	var got []rules.Rule
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	require.Len(t, got, 3)
	for _, r := range got {
		assert.Equal(t, "Style", r.Category)
	}
}

func TestCall_GetRulesUnmatchedCategory(t *testing.T) {
	server := newTestServer(t, &fakeSource{content: sampleDocument})

	text, err := server.Call(context.Background(), ToolGetRules, map[string]any{"category": "Other"})
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
}

func TestCall_GetRulesEmptyOrNullCategory(t *testing.T) {
	server := newTestServer(t, &fakeSource{content: sampleDocument})

	all, err := server.Call(context.Background(), ToolGetRules, nil)
	require.NoError(t, err)

	for _, args := range []map[string]any{{"category": ""}, {"category": nil}, {}} {
		text, err := server.Call(context.Background(), ToolGetRules, args)
		require.NoError(t, err)
		assert.Equal(t, all, text)
	}
}

func TestCall_GetRulesNonStringCategory(t *testing.T) {
	src := &fakeSource{content: sampleDocument}
	server := newTestServer(t, src)

	_, err := server.Call(context.Background(), ToolGetRules, map[string]any{"category": 42.0})

	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, mcp.INVALID_PARAMS, dispatchErr.Code)
	assert.Zero(t, src.calls)
}

func TestCall_SerializationFormat(t *testing.T) {
	server := newTestServer(t, &fakeSource{content: "#A\nk: <v> & w"})

	text, err := server.Call(context.Background(), ToolGetRules, nil)
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"category\": \"A\",\n    \"key\": \"k\",\n    \"value\": \"<v> & w\"\n  }\n]", text)

	text, err = server.Call(context.Background(), ToolGetCategories, nil)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"A\"\n]", text)
}

func TestCall_GetCategories(t *testing.T) {
	server := newTestServer(t, &fakeSource{content: sampleDocument})

	text, err := server.Call(context.Background(), ToolGetCategories, map[string]any{})
	require.NoError(t, err)

	var got []string
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, []string{"Style", "Testing"}, got)
}

func TestCall_EmptyDocument(t *testing.T) {
	server := newTestServer(t, &fakeSource{content: ""})

	text, err := server.Call(context.Background(), ToolGetRules, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", text)

	text, err = server.Call(context.Background(), ToolGetCategories, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", text)
}

func TestCall_UnknownTool(t *testing.T) {
	src := &fakeSource{content: sampleDocument}
	server := newTestServer(t, src)

	_, err := server.Call(context.Background(), "delete_rules", nil)

	var dispatchErr *DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, mcp.METHOD_NOT_FOUND, dispatchErr.Code)
	assert.Equal(t, "Unknown tool: delete_rules", dispatchErr.Error())
	assert.Zero(t, src.calls, "unknown tools must not fetch")
}

func TestCall_FetchFailureIsNotAnEmptyResult(t *testing.T) {
	fetchErr := errors.New("Failed to read local file: boom. Make sure the file exists and is accessible.")
	server := newTestServer(t, &fakeSource{err: fetchErr})

	for _, tool := range []string{ToolGetRules, ToolGetCategories} {
		text, err := server.Call(context.Background(), tool, nil)
		assert.ErrorIs(t, err, fetchErr)
		assert.Empty(t, text)
	}
}

func TestCall_RefetchesEveryTime(t *testing.T) {
	src := &fakeSource{content: "#A\nk: v"}
	server := newTestServer(t, src)

	_, err := server.Call(context.Background(), ToolGetRules, nil)
	require.NoError(t, err)

	src.content = "#B\nk: v"
	text, err := server.Call(context.Background(), ToolGetCategories, nil)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"B\"\n]", text)
	assert.Equal(t, 2, src.calls)
}

func TestCall_FailureDoesNotAffectNextRequest(t *testing.T) {
	src := &fakeSource{err: errors.New("temporary")}
	server := newTestServer(t, src)

	_, err := server.Call(context.Background(), ToolGetRules, nil)
	require.Error(t, err)

	src.err = nil
	src.content = "#A\nk: v"
	_, err = server.Call(context.Background(), ToolGetRules, nil)
	assert.NoError(t, err)
}

func TestCall_LocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RULES.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleDocument), 0644))

	cfg := &config.Config{Location: path}
	logger, _ := logging.NewTestLogger()
	server := NewServer(cfg, logger, source.New(cfg, source.WithLogger(logger)))

	text, err := server.Call(context.Background(), ToolGetCategories, nil)
	require.NoError(t, err)
	assert.Equal(t, "[\n  \"Style\",\n  \"Testing\"\n]", text)
}

// rpcResponse is the subset of a JSON-RPC response the protocol tests need.
type rpcResponse struct {
	Result *struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func sendRPC(t *testing.T, server *Server, method string, params any) rpcResponse {
	t.Helper()

	request, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
		"params":  params,
	})
	require.NoError(t, err)

	message := server.MCPServer().HandleMessage(context.Background(), request)
	raw, err := json.Marshal(message)
	require.NoError(t, err)

	var resp rpcResponse
	require.NoError(t, json.Unmarshal(raw, &resp))
	return resp
}

func TestProtocol_ListTools(t *testing.T) {
	server := newTestServer(t, &fakeSource{})

	resp := sendRPC(t, server, "tools/list", map[string]any{})
	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)

	var names []string
	for _, tool := range resp.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{ToolGetRules, ToolGetCategories}, names)
}

func TestProtocol_CallGetRules(t *testing.T) {
	server := newTestServer(t, &fakeSource{content: "#Style\nindent: tabs\n#Other\nk: v"})

	resp := sendRPC(t, server, "tools/call", map[string]any{
		"name":      ToolGetRules,
		"arguments": map[string]any{"category": "STYLE"},
	})
	require.Nil(t, resp.Error)
	require.NotNil(t, resp.Result)
	require.Len(t, resp.Result.Content, 1)
	assert.Equal(t, "text", resp.Result.Content[0].Type)

	var got []rules.Rule
	require.NoError(t, json.Unmarshal([]byte(resp.Result.Content[0].Text), &got))
	assert.Equal(t, []rules.Rule{{Category: "Style", Key: "indent", Value: "tabs"}}, got)
}

func TestProtocol_RemoteNotFoundIsInternalError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(ts.Close)
	target, err := url.Parse(ts.URL)
	require.NoError(t, err)

	cfg := &config.Config{Location: "https://github.com/org/private/blob/main/RULES.md"}
	logger, _ := logging.NewTestLogger()
	client := &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		clone := req.Clone(req.Context())
		clone.URL.Scheme = target.Scheme
		clone.URL.Host = target.Host
		return http.DefaultTransport.RoundTrip(clone)
	})}
	server := NewServer(cfg, logger, source.New(cfg, source.WithHTTPClient(client), source.WithLogger(logger)))

	resp := sendRPC(t, server, "tools/call", map[string]any{
		"name":      ToolGetRules,
		"arguments": map[string]any{},
	})
	require.NotNil(t, resp.Error, "a failed fetch must not produce a result")
	assert.Nil(t, resp.Result)
	assert.Equal(t, mcp.INTERNAL_ERROR, resp.Error.Code)
	assert.Equal(t, "GitHub file not found. If this is a private repository, please provide a GITHUB_TOKEN.", resp.Error.Message)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
