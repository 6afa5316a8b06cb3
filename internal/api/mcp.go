package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/scout/internal/conversation"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Service *conversation.Service
}

// NewMCPServer creates an MCP server exposing the sales assistant as tools,
// so an MCP-capable client can drive a conversation end to end.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"scout",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("scout — recruiting agency sales assistant. Start a conversation, describe hiring needs, and receive package recommendations and proposals."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("start_conversation",
			mcp.WithDescription("Open a new sales conversation. Pass the client's first message to have it processed right away; omit it to receive the greeting."),
			mcp.WithString("initial_message", mcp.Description("Optional first client message")),
		),
		mcpStartConversation(deps),
	)

	s.AddTool(
		mcp.NewTool("send_message",
			mcp.WithDescription("Send a client message to an existing conversation and get the assistant reply."),
			mcp.WithString("session_id", mcp.Description("Conversation session id"), mcp.Required()),
			mcp.WithString("message", mcp.Description("Client message text"), mcp.Required()),
		),
		mcpSendMessage(deps),
	)

	s.AddTool(
		mcp.NewTool("reset_session",
			mcp.WithDescription("Reset a conversation back to the greeting stage, keeping its history."),
			mcp.WithString("session_id", mcp.Description("Conversation session id"), mcp.Required()),
		),
		mcpResetSession(deps),
	)

	s.AddTool(
		mcp.NewTool("get_session",
			mcp.WithDescription("Return the full state of a conversation: stage, profile, history and recommendations."),
			mcp.WithString("session_id", mcp.Description("Conversation session id"), mcp.Required()),
		),
		mcpGetSession(deps),
	)

	s.AddTool(
		mcp.NewTool("get_catalog",
			mcp.WithDescription("List the recruiting service packages on offer."),
		),
		mcpGetCatalog(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"scout://catalog",
			"Service Catalog",
			mcp.WithResourceDescription("All recruiting service packages as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCatalog(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"scout://sessions",
			"Recent Sessions",
			mcp.WithResourceDescription("Recent conversation sessions (summaries only)"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceSessions(deps),
	)

	return s
}

func mcpStartConversation(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reply, err := deps.Service.Start(ctx, req.GetString("initial_message", ""))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to start conversation: %v", err)), nil
		}

		b, err := json.Marshal(reply)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal reply: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSendMessage(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := req.RequireString("session_id")
		if err != nil {
			return mcpError("session_id is required"), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		reply, err := deps.Service.HandleMessage(ctx, sessionID, message)
		if errors.Is(err, conversation.ErrSessionNotFound) {
			return mcpError("session not found; call start_conversation first"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to process message: %v", err)), nil
		}

		b, err := json.Marshal(reply)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal reply: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResetSession(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := req.RequireString("session_id")
		if err != nil {
			return mcpError("session_id is required"), nil
		}

		sess, err := deps.Service.Reset(ctx, sessionID)
		if errors.Is(err, conversation.ErrSessionNotFound) {
			return mcpError("session not found"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to reset session: %v", err)), nil
		}

		return mcpText(fmt.Sprintf("Session %s reset to stage %s", sess.ID, sess.Stage)), nil
	}
}

func mcpGetSession(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, err := req.RequireString("session_id")
		if err != nil {
			return mcpError("session_id is required"), nil
		}

		sess, err := deps.Service.Get(sessionID)
		if errors.Is(err, conversation.ErrSessionNotFound) {
			return mcpError("session not found"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to get session: %v", err)), nil
		}

		b, err := json.Marshal(sess)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal session: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetCatalog(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		b, err := json.Marshal(deps.Service.Catalog())
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal catalog: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceCatalog(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Service.Catalog())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceSessions(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		since := time.Now().UTC().AddDate(0, 0, -7)
		sessions, err := deps.Service.ListSessions(since, 10)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}

		b, err := json.Marshal(sessions)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sessions: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
