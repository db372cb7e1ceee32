package api

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kalambet/solaces/internal/astra"
	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/gateway"
	"github.com/kalambet/solaces/internal/memory"
	"github.com/kalambet/solaces/internal/oracle"
	"github.com/kalambet/solaces/internal/storage"
	"github.com/kalambet/solaces/internal/systems"
)

// --- helpers ---

func newTestMCPDeps(t *testing.T) (MCPDeps, *storage.Store, *mockGateway) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	gw := &mockGateway{}
	return MCPDeps{
		Controller: astra.NewControllerWithClock(store, gw, nil, fixedClock{testTime}),
		Systems:    systems.NewManagerWithClock(store, fixedClock{testTime}),
		Journal:    oracle.NewJournal(store),
		Keep:       memory.NewKeep(store),
		Store:      store,
		Now:        func() time.Time { return testTime },
	}, store, gw
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

func makeReadResourceRequest(uri string) mcp.ReadResourceRequest {
	return mcp.ReadResourceRequest{
		Params: mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

// --- tests ---

func TestNewMCPServer(t *testing.T) {
	deps, _, _ := newTestMCPDeps(t)
	if s := NewMCPServer(deps); s == nil {
		t.Fatal("NewMCPServer returned nil")
	}
}

func TestMCPTool_ToggleDevice(t *testing.T) {
	deps, _, gw := newTestMCPDeps(t)
	handler := mcpToggleDevice(deps)

	result, err := handler(context.Background(), makeCallToolRequest("toggle_device", map[string]interface{}{
		"device_id": "primary-tv",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(t, result))
	}
	if got := toolText(t, result); got != "primary-tv is now ON" {
		t.Errorf("text = %q", got)
	}
	if len(gw.commands) != 1 || gw.commands[0] != "primary-tv:on" {
		t.Errorf("commands = %v", gw.commands)
	}
}

func TestMCPTool_ToggleDevice_Errors(t *testing.T) {
	deps, _, gw := newTestMCPDeps(t)
	handler := mcpToggleDevice(deps)

	result, _ := handler(context.Background(), makeCallToolRequest("toggle_device", map[string]interface{}{}))
	if !result.IsError {
		t.Error("missing device_id should be a tool error")
	}

	result, _ = handler(context.Background(), makeCallToolRequest("toggle_device", map[string]interface{}{"device_id": "nope"}))
	if !result.IsError || !strings.Contains(toolText(t, result), "unknown device") {
		t.Errorf("unknown device: %+v", result)
	}

	gw.err = &gateway.StatusError{Code: 502}
	result, _ = handler(context.Background(), makeCallToolRequest("toggle_device", map[string]interface{}{"device_id": "desk-lights"}))
	if !result.IsError || !strings.Contains(toolText(t, result), "HTTP 502") {
		t.Errorf("gateway failure: %q", toolText(t, result))
	}
	for _, d := range deps.Controller.Devices() {
		if d.ID == "desk-lights" && !d.IsOn {
			t.Error("local change must survive a gateway failure")
		}
	}
}

func TestMCPTool_ActivateScene(t *testing.T) {
	deps, _, gw := newTestMCPDeps(t)
	result, err := mcpActivateScene(deps)(context.Background(), makeCallToolRequest("activate_scene", map[string]interface{}{
		"scene_id": "evening",
	}))
	if err != nil || result.IsError {
		t.Fatalf("activate_scene failed: %v %+v", err, result)
	}
	if len(gw.scenes) != 1 || gw.scenes[0] != "evening" {
		t.Errorf("scenes = %v", gw.scenes)
	}
	log := deps.Controller.Log()
	if len(log) != 1 || log[0].Status != docs.StatusSuccess {
		t.Errorf("log = %+v", log)
	}
}

func TestMCPTool_CaptureMemory(t *testing.T) {
	deps, _, _ := newTestMCPDeps(t)
	handler := mcpCaptureMemory(deps)

	result, _ := handler(context.Background(), makeCallToolRequest("capture_memory", map[string]interface{}{
		"title": "Wifi password",
		"body":  "on the router",
		"tag":   "home",
	}))
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}
	items := deps.Keep.List()
	if len(items) != 1 || items[0].Title != "Wifi password" || items[0].Tag != "home" {
		t.Errorf("items = %+v", items)
	}
	if !strings.Contains(toolText(t, result), items[0].ID) {
		t.Errorf("text = %q, want item id", toolText(t, result))
	}

	result, _ = handler(context.Background(), makeCallToolRequest("capture_memory", map[string]interface{}{}))
	if !result.IsError {
		t.Error("blank capture should be a tool error")
	}
}

func TestMCPTool_SetSystemStatus(t *testing.T) {
	deps, _, _ := newTestMCPDeps(t)
	handler := mcpSetSystemStatus(deps)

	result, _ := handler(context.Background(), makeCallToolRequest("set_system_status", map[string]interface{}{
		"system_id": "monitoring",
		"status":    "Watch",
		"notes":     "pager flapping",
	}))
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}
	if got := toolText(t, result); got != "Monitoring / Alerts is now Watch" {
		t.Errorf("text = %q", got)
	}

	active, _ := deps.Systems.State().Active()
	for _, s := range active.Systems {
		if s.ID == "monitoring" && (s.Status != docs.SystemWatch || s.Notes != "pager flapping") {
			t.Errorf("monitoring = %+v", s)
		}
	}

	// Notes are left alone when the argument is omitted.
	handler(context.Background(), makeCallToolRequest("set_system_status", map[string]interface{}{
		"system_id": "monitoring",
		"status":    "ok",
	}))
	active, _ = deps.Systems.State().Active()
	for _, s := range active.Systems {
		if s.ID == "monitoring" && s.Notes != "pager flapping" {
			t.Errorf("notes = %q, want unchanged", s.Notes)
		}
	}

	result, _ = handler(context.Background(), makeCallToolRequest("set_system_status", map[string]interface{}{
		"system_id": "monitoring",
		"status":    "exploded",
	}))
	if !result.IsError {
		t.Error("invalid status should be a tool error")
	}
}

func TestMCPTool_UpdateOracle(t *testing.T) {
	deps, _, _ := newTestMCPDeps(t)
	handler := mcpUpdateOracle(deps)

	result, _ := handler(context.Background(), makeCallToolRequest("update_oracle", map[string]interface{}{
		"field": "friction",
		"value": "too many tabs",
	}))
	if result.IsError {
		t.Fatalf("tool error: %s", toolText(t, result))
	}
	e, _ := deps.Journal.Entry("2024-03-01")
	if e.Friction != "too many tabs" {
		t.Errorf("entry = %+v", e)
	}

	handler(context.Background(), makeCallToolRequest("update_oracle", map[string]interface{}{
		"field": "signal",
		"value": "looking back",
		"date":  "2024-02-20",
	}))
	e, _ = deps.Journal.Entry("2024-02-20")
	if e.Signal != "looking back" {
		t.Errorf("dated entry = %+v", e)
	}

	for _, args := range []map[string]interface{}{
		{"field": "mood", "value": "x"},
		{"field": "signal", "value": "x", "date": "not-a-date"},
		{"value": "x"},
	} {
		if result, _ := handler(context.Background(), makeCallToolRequest("update_oracle", args)); !result.IsError {
			t.Errorf("args %v: expected tool error", args)
		}
	}
}

func TestMCPResource_Synthesis(t *testing.T) {
	deps, _, _ := newTestMCPDeps(t)
	handler := mcpResourceSynthesis(deps)

	contents, err := handler(context.Background(), makeReadResourceRequest("solaces://synthesis"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if tc.Text != "Nothing to synthesize yet." {
		t.Errorf("empty text = %q", tc.Text)
	}

	deps.Journal.UpdateField("2024-03-01", docs.FieldSignal, "clear skies")
	contents, _ = handler(context.Background(), makeReadResourceRequest("solaces://synthesis"))
	tc = contents[0].(mcp.TextResourceContents)
	if tc.URI != "solaces://synthesis" || tc.MIMEType != "text/plain" {
		t.Errorf("contents = %+v", tc)
	}
	if !strings.Contains(tc.Text, "clear skies") {
		t.Errorf("text = %q", tc.Text)
	}
}

func TestMCPResource_Log(t *testing.T) {
	deps, _, _ := newTestMCPDeps(t)
	deps.Controller.ToggleDevice(context.Background(), "desk-lights")

	contents, err := mcpResourceLog(deps)(context.Background(), makeReadResourceRequest("solaces://log"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	var log []docs.CommandLogEntry
	if err := json.Unmarshal([]byte(tc.Text), &log); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(log) != 1 || !strings.HasSuffix(log[0].ID, "-desk-lights") {
		t.Errorf("log = %+v", log)
	}
}
