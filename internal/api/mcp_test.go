package api

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/scout/internal/agents"
	"github.com/kalambet/scout/internal/conversation"
	"github.com/kalambet/scout/internal/extract"
	"github.com/kalambet/scout/internal/llm"
	"github.com/kalambet/scout/internal/match"
	"github.com/kalambet/scout/internal/proposal"
	"github.com/kalambet/scout/internal/session"
	"github.com/kalambet/scout/internal/storage"
)

func newTestMCPDeps(t *testing.T) MCPDeps {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	manager := session.NewManager(func() time.Time { return clock })
	registry := agents.NewRegistry(llm.NewMock(), extract.NewRules(), match.New(), proposal.NewGenerator(nil))

	return MCPDeps{Service: conversation.NewService(manager, store, registry)}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return tc.Text
}

func makeCallToolRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestMCPTool_StartAndSendMessage(t *testing.T) {
	deps := newTestMCPDeps(t)

	result, err := mcpStartConversation(deps)(context.Background(), makeCallToolRequest("start_conversation", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var started struct {
		SessionID string `json:"session_id"`
	}
	if err := json.Unmarshal([]byte(toolText(t, result)), &started); err != nil {
		t.Fatalf("parsing start result: %v", err)
	}
	if started.SessionID == "" {
		t.Fatal("no session id in start result")
	}

	result, err = mcpSendMessage(deps)(context.Background(), makeCallToolRequest("send_message", map[string]interface{}{
		"session_id": started.SessionID,
		"message":    "We need to hire 2 backend engineers urgently",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var reply conversation.Reply
	if err := json.Unmarshal([]byte(toolText(t, result)), &reply); err != nil {
		t.Fatalf("parsing reply: %v", err)
	}
	if reply.Agent != "extractor" {
		t.Fatalf("agent = %s, want extractor", reply.Agent)
	}
}

func TestMCPTool_StartWithInitialMessage(t *testing.T) {
	deps := newTestMCPDeps(t)

	result, err := mcpStartConversation(deps)(context.Background(), makeCallToolRequest("start_conversation", map[string]interface{}{
		"initial_message": "We need to hire 2 backend engineers urgently",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var reply conversation.Reply
	if err := json.Unmarshal([]byte(toolText(t, result)), &reply); err != nil {
		t.Fatalf("parsing reply: %v", err)
	}
	if reply.SessionID == "" {
		t.Fatal("no session id in reply")
	}
	if reply.Agent != "extractor" {
		t.Fatalf("agent = %s, want extractor", reply.Agent)
	}
	if reply.Stage != session.StageInquiry {
		t.Fatalf("stage = %s, want inquiry", reply.Stage)
	}
}

func TestMCPTool_SendMessage_MissingArgs(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpSendMessage(deps)

	result, err := handler(context.Background(), makeCallToolRequest("send_message", map[string]interface{}{
		"message": "hello",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error for missing session_id")
	}
}

func TestMCPTool_SendMessage_UnknownSession(t *testing.T) {
	deps := newTestMCPDeps(t)
	handler := mcpSendMessage(deps)

	result, err := handler(context.Background(), makeCallToolRequest("send_message", map[string]interface{}{
		"session_id": "no-such-session",
		"message":    "hello",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unknown session")
	}
	if !strings.Contains(toolText(t, result), "start_conversation") {
		t.Fatalf("unexpected error text: %s", toolText(t, result))
	}
}

func TestMCPTool_ResetSession(t *testing.T) {
	deps := newTestMCPDeps(t)

	started, err := deps.Service.Start(context.Background(), "")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	result, err := mcpResetSession(deps)(context.Background(), makeCallToolRequest("reset_session", map[string]interface{}{
		"session_id": started.SessionID,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}
	if !strings.Contains(toolText(t, result), "reset to stage greeting") {
		t.Fatalf("unexpected response: %s", toolText(t, result))
	}
}

func TestMCPTool_GetCatalog(t *testing.T) {
	deps := newTestMCPDeps(t)

	result, err := mcpGetCatalog(deps)(context.Background(), makeCallToolRequest("get_catalog", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error: %s", toolText(t, result))
	}

	var packages []json.RawMessage
	if err := json.Unmarshal([]byte(toolText(t, result)), &packages); err != nil {
		t.Fatalf("parsing catalog: %v", err)
	}
	if len(packages) == 0 {
		t.Fatal("catalog is empty")
	}
}

func TestMCPResource_Catalog(t *testing.T) {
	deps := newTestMCPDeps(t)

	contents, err := mcpResourceCatalog(deps)(context.Background(), mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{URI: "scout://catalog"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	if !strings.Contains(tc.Text, "Tech Startup Hiring Pack") {
		t.Fatalf("catalog resource missing packages: %s", tc.Text)
	}
}
