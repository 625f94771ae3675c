package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/strlens/strlens/internal/config"
	"github.com/strlens/strlens/internal/store"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	database, err := store.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	return database, cfg
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultPayload unmarshals a tool result's JSON text content.
func resultPayload(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("content is not TextContent")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	return payload
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	payload := resultPayload(t, result)
	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("no error object in payload: %v", payload)
	}
	if code, _ := errorObj["code"].(string); code != expectedCode {
		t.Errorf("error code = %q, want %q", code, expectedCode)
	}
}

func TestHandleAnalyze(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	result, err := h.HandleAnalyze(ctx, makeRequest(map[string]any{"value": "racecar"}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error result")
	}

	payload := resultPayload(t, result)
	if payload["is_palindrome"] != true {
		t.Error("is_palindrome should be true for racecar")
	}
	if payload["length"].(float64) != 7 {
		t.Errorf("length = %v, want 7", payload["length"])
	}

	// Analyze must not store anything
	listResult, err := h.HandleList(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("list handler returned error: %v", err)
	}
	listPayload := resultPayload(t, listResult)
	if items := listPayload["items"].([]any); len(items) != 0 {
		t.Errorf("analyze stored an entry; store has %d items", len(items))
	}
}

func TestHandleAnalyze_MissingValue(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleAnalyze(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleStore(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name:      "store valid string",
			args:      map[string]any{"value": "hello world"},
			wantError: false,
		},
		{
			name:      "store empty string is legal",
			args:      map[string]any{"value": ""},
			wantError: false,
		},
		{
			name:      "store without value",
			args:      map[string]any{},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name:      "store duplicate replaces",
			args:      map[string]any{"value": "hello world"},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleStore(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error result")
			}
		})
	}
}

func TestHandleStore_ReportsReplaced(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	first, err := h.HandleStore(ctx, makeRequest(map[string]any{"value": "again"}))
	if err != nil || first.IsError {
		t.Fatalf("first store failed: %v", err)
	}
	if resultPayload(t, first)["replaced"] != false {
		t.Error("replaced should be false on first submit")
	}

	second, err := h.HandleStore(ctx, makeRequest(map[string]any{"value": "again"}))
	if err != nil || second.IsError {
		t.Fatalf("second store failed: %v", err)
	}
	if resultPayload(t, second)["replaced"] != true {
		t.Error("replaced should be true on resubmit")
	}
}

func TestHandleFetch(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	storeResult, err := h.HandleStore(ctx, makeRequest(map[string]any{"value": "fetch me"}))
	if err != nil || storeResult.IsError {
		t.Fatalf("setup store failed: %v", err)
	}
	entry := resultPayload(t, storeResult)["entry"].(map[string]any)
	id := entry["id"].(string)

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name:      "fetch by hash",
			args:      map[string]any{"identifier": id},
			wantError: false,
		},
		{
			name:      "fetch by exact value",
			args:      map[string]any{"identifier": "fetch me"},
			wantError: false,
		},
		{
			name:      "fetch unknown",
			args:      map[string]any{"identifier": "never stored"},
			wantError: true,
			errorCode: "NOT_FOUND",
		},
		{
			name:      "fetch without identifier",
			args:      map[string]any{},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleFetch(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error result")
			}
		})
	}
}

func TestHandleList_WithPredicates(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	for _, v := range []string{"racecar", "hello", "level"} {
		result, err := h.HandleStore(ctx, makeRequest(map[string]any{"value": v}))
		if err != nil || result.IsError {
			t.Fatalf("setup store %q failed: %v", v, err)
		}
	}

	result, err := h.HandleList(ctx, makeRequest(map[string]any{"is_palindrome": true}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	payload := resultPayload(t, result)
	if items := payload["items"].([]any); len(items) != 2 {
		t.Errorf("len(items) = %d, want 2", len(items))
	}
}

func TestHandleList_InvalidPredicate(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleList(context.Background(), makeRequest(map[string]any{
		"contains_character": "zz",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	assertErrorCode(t, result, "INVALID_PREDICATE")
}

func TestHandleQuery(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	for _, v := range []string{"racecar", "hello there"} {
		result, err := h.HandleStore(ctx, makeRequest(map[string]any{"value": v}))
		if err != nil || result.IsError {
			t.Fatalf("setup store %q failed: %v", v, err)
		}
	}

	result, err := h.HandleQuery(ctx, makeRequest(map[string]any{
		"query": "all single word palindromic strings",
	}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	payload := resultPayload(t, result)
	if items := payload["items"].([]any); len(items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(items))
	}
	interpreted := payload["interpreted_query"].(map[string]any)
	if interpreted["original"] != "all single word palindromic strings" {
		t.Errorf("original = %v, want the raw query", interpreted["original"])
	}
}

func TestHandleQuery_BlankQuery(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleQuery(context.Background(), makeRequest(map[string]any{"query": ""}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result")
	}
	assertErrorCode(t, result, "INVALID_REQUEST")
}

func TestHandleDelete(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	storeResult, err := h.HandleStore(ctx, makeRequest(map[string]any{"value": "doomed"}))
	if err != nil || storeResult.IsError {
		t.Fatalf("setup store failed: %v", err)
	}
	entry := resultPayload(t, storeResult)["entry"].(map[string]any)
	id := entry["id"].(string)

	result, err := h.HandleDelete(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatal("expected success, got error result")
	}

	// Second delete reports NOT_FOUND
	result, err = h.HandleDelete(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result on second delete")
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

func TestExportImport_RoundTrip(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)
	ctx := context.Background()

	storeResult, err := h.HandleStore(ctx, makeRequest(map[string]any{"value": "survivor"}))
	if err != nil || storeResult.IsError {
		t.Fatalf("setup store failed: %v", err)
	}

	path := t.TempDir() + "/roundtrip.jsonl"
	exportResult, err := h.HandleExport(ctx, makeRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatalf("export handler returned error: %v", err)
	}
	if exportResult.IsError {
		t.Fatal("expected export success, got error result")
	}
	if resultPayload(t, exportResult)["count"].(float64) != 1 {
		t.Error("export count should be 1")
	}

	freshDB, freshCfg := testSetup(t)
	freshH := NewHandlers(freshDB, freshCfg)

	importResult, err := freshH.HandleImport(ctx, makeRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatalf("import handler returned error: %v", err)
	}
	if importResult.IsError {
		t.Fatal("expected import success, got error result")
	}
	if resultPayload(t, importResult)["imported"].(float64) != 1 {
		t.Error("imported count should be 1")
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Errorf("AllToolNames returned %d names, want %d", len(names), len(toolRegistry))
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"string_store", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown = %v, want [bogus_tool]", unknown)
	}
}

func TestNewServer_DisablesTools(t *testing.T) {
	database, cfg := testSetup(t)
	cfg.DisabledTools = []string{"string_delete"}

	s := NewServer(database, cfg, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}
