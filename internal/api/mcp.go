package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/solaces/internal/astra"
	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/memory"
	"github.com/kalambet/solaces/internal/oracle"
	"github.com/kalambet/solaces/internal/synthesis"
	"github.com/kalambet/solaces/internal/systems"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Controller *astra.Controller
	Systems    *systems.Manager
	Journal    *oracle.Journal
	Keep       *memory.Keep
	Store      docs.KV
	Now        func() time.Time
}

func (d MCPDeps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// NewMCPServer creates an MCP server with the control panel tools and
// resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"solaces",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("solaces: home devices, systems atlas, daily oracle and memory keep."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("toggle_device",
			mcp.WithDescription("Flip a home device on or off and report whether the gateway accepted the command."),
			mcp.WithString("device_id", mcp.Description("Device id, e.g. desk-lights"), mcp.Required()),
		),
		mcpToggleDevice(deps),
	)

	s.AddTool(
		mcp.NewTool("activate_scene",
			mcp.WithDescription("Activate a lighting and media scene."),
			mcp.WithString("scene_id", mcp.Description("Scene id, e.g. focus, evening or sleep"), mcp.Required()),
		),
		mcpActivateScene(deps),
	)

	s.AddTool(
		mcp.NewTool("capture_memory",
			mcp.WithDescription("Store a short note in the memory keep."),
			mcp.WithString("title", mcp.Description("Short title")),
			mcp.WithString("body", mcp.Description("Note text")),
			mcp.WithString("tag", mcp.Description("Optional tag")),
		),
		mcpCaptureMemory(deps),
	)

	s.AddTool(
		mcp.NewTool("set_system_status",
			mcp.WithDescription("Set the status of a system in the active profile."),
			mcp.WithString("system_id", mcp.Description("System id"), mcp.Required()),
			mcp.WithString("status", mcp.Description("One of ok, watch, issue, offline, unknown"), mcp.Required()),
			mcp.WithString("notes", mcp.Description("Optional notes; left unchanged when omitted")),
		),
		mcpSetSystemStatus(deps),
	)

	s.AddTool(
		mcp.NewTool("update_oracle",
			mcp.WithDescription("Write one field of a daily oracle entry."),
			mcp.WithString("field", mcp.Description("One of signal, friction, alignment"), mcp.Required()),
			mcp.WithString("value", mcp.Description("Text to store"), mcp.Required()),
			mcp.WithString("date", mcp.Description("Day as YYYY-MM-DD (default today)")),
		),
		mcpUpdateOracle(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"solaces://synthesis",
			"Daily Synthesis",
			mcp.WithResourceDescription("Today's oracle entry and systems summary"),
			mcp.WithMIMEType("text/plain"),
		),
		mcpResourceSynthesis(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"solaces://log",
			"Command Log",
			mcp.WithResourceDescription("Most recent device commands, newest first"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceLog(deps),
	)

	return s
}

func mcpToggleDevice(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("device_id")
		if err != nil || id == "" {
			return mcpError("device_id is required"), nil
		}
		res, ok := deps.Controller.ToggleDevice(ctx, id)
		if !ok {
			return mcpError(fmt.Sprintf("unknown device %q", id)), nil
		}
		state := "unknown"
		for _, d := range deps.Controller.Devices() {
			if d.ID == id {
				state = d.StatusText()
			}
		}
		if res.Err != nil {
			return mcpError(fmt.Sprintf("%s is now %s locally, but the gateway failed: %s", id, state, res.Detail())), nil
		}
		return mcpText(fmt.Sprintf("%s is now %s", id, state)), nil
	}
}

func mcpActivateScene(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("scene_id")
		if err != nil || id == "" {
			return mcpError("scene_id is required"), nil
		}
		deps.Controller.ActivateScene(ctx, id)
		return mcpText(fmt.Sprintf("Activated scene %s", id)), nil
	}
}

func mcpCaptureMemory(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		item, ok, err := deps.Keep.Capture(req.GetString("title", ""), req.GetString("body", ""), req.GetString("tag", ""))
		if !ok {
			return mcpError("title or body is required"), nil
		}
		if err != nil {
			return mcpError(fmt.Sprintf("failed to save: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Stored memory item %s", item.ID)), nil
	}
}

func mcpSetSystemStatus(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("system_id")
		if err != nil || id == "" {
			return mcpError("system_id is required"), nil
		}
		raw, err := req.RequireString("status")
		if err != nil {
			return mcpError("status is required"), nil
		}
		status := docs.SystemStatus(strings.ToLower(strings.TrimSpace(raw)))
		patch := systems.Patch{Status: &status}
		if args := req.GetArguments(); args != nil {
			if _, ok := args["notes"]; ok {
				notes := req.GetString("notes", "")
				patch.Notes = &notes
			}
		}

		item, found, err := deps.Systems.UpdateSystem(id, patch)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to update system: %v", err)), nil
		}
		if !found {
			return mcpError(fmt.Sprintf("system %q is not in the active profile", id)), nil
		}
		return mcpText(fmt.Sprintf("%s is now %s", item.Name, item.Status.Label())), nil
	}
}

func mcpUpdateOracle(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawField, err := req.RequireString("field")
		if err != nil {
			return mcpError("field is required"), nil
		}
		field, err := docs.ParseOracleField(rawField)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		value, err := req.RequireString("value")
		if err != nil {
			return mcpError("value is required"), nil
		}
		date := req.GetString("date", "")
		if date == "" {
			date = oracle.Today(deps.now())
		}
		if _, err := deps.Journal.UpdateField(date, field, value); err != nil {
			return mcpError(fmt.Sprintf("failed to update oracle: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Saved %s for %s", field, date)), nil
	}
}

func mcpResourceSynthesis(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text := "Nothing to synthesize yet."
		if v, ok := synthesis.Build(deps.Store, deps.now()); ok {
			var b strings.Builder
			if err := synthesis.Render(&b, v); err != nil {
				return nil, fmt.Errorf("failed to render synthesis: %w", err)
			}
			text = b.String()
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "text/plain",
				Text:     text,
			},
		}, nil
	}
}

func mcpResourceLog(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Controller.Log())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal log: %w", err)
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
