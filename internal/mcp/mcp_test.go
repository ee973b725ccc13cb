package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ankilive/ankilive/internal/card"
	"github.com/ankilive/ankilive/internal/config"
	"github.com/ankilive/ankilive/internal/errors"
	"github.com/ankilive/ankilive/internal/repo"
)

// testSetup creates a temporary repository and config for testing.
func testSetup(t *testing.T) (*Handlers, *repo.Repository) {
	t.Helper()

	r, err := repo.New(filepath.Join(t.TempDir(), "cards"))
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	cfg := config.DefaultConfig()
	return NewHandlers(r, cfg), r
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// stageScreenshot writes a throwaway image file for create calls.
func stageScreenshot(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("png bytes"), 0600); err != nil {
		t.Fatalf("stage screenshot: %v", err)
	}
	return path
}

// resultJSON unmarshals the text payload of a tool result.
func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatalf("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	return payload
}

// errorCode extracts the error code from an error result payload.
func errorCode(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if !result.IsError {
		t.Fatalf("expected an error result")
	}
	payload := resultJSON(t, result)
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Fatalf("payload missing error object: %v", payload)
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestHandleCreateAndGet(t *testing.T) {
	h, _ := testSetup(t)
	shot := stageScreenshot(t, "shot.png")

	result, err := h.HandleCreate(context.Background(), makeRequest(map[string]any{
		"question":    "What is ATP?",
		"notes":       "Energy currency of the cell.",
		"screenshots": []any{shot},
	}))
	if err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}
	if result.IsError {
		t.Fatalf("create failed: %v", resultJSON(t, result))
	}

	created := resultJSON(t, result)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("create result missing id: %v", created)
	}

	getResult, err := h.HandleGet(context.Background(), makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("HandleGet: %v", err)
	}
	got := resultJSON(t, getResult)
	if got["question"] != "What is ATP?" {
		t.Errorf("question = %v", got["question"])
	}
}

func TestHandleCreateValidation(t *testing.T) {
	h, r := testSetup(t)

	result, err := h.HandleCreate(context.Background(), makeRequest(map[string]any{
		"question":    "   ",
		"screenshots": []any{"/tmp/nope.png"},
	}))
	if err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}
	if code := errorCode(t, result); code != string(errors.ErrInvalidInput) {
		t.Errorf("code = %s, want INVALID_INPUT", code)
	}

	cards, _ := r.List()
	if len(cards) != 0 {
		t.Errorf("invalid create persisted %d cards", len(cards))
	}
}

func TestHandleGetNotFound(t *testing.T) {
	h, _ := testSetup(t)

	result, err := h.HandleGet(context.Background(), makeRequest(map[string]any{"id": "missing"}))
	if err != nil {
		t.Fatalf("HandleGet: %v", err)
	}
	if code := errorCode(t, result); code != string(errors.ErrNotFound) {
		t.Errorf("code = %s, want NOT_FOUND", code)
	}
}

func TestHandleListAndDelete(t *testing.T) {
	h, r := testSetup(t)
	shot := stageScreenshot(t, "shot.png")

	created, err := r.Create(card.Input{Question: "Q1", Screenshots: []string{shot}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	listResult, err := h.HandleList(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleList: %v", err)
	}
	payload := resultJSON(t, listResult)
	if payload["count"] != float64(1) {
		t.Errorf("count = %v, want 1", payload["count"])
	}

	delResult, err := h.HandleDelete(context.Background(), makeRequest(map[string]any{"id": created.ID}))
	if err != nil {
		t.Fatalf("HandleDelete: %v", err)
	}
	if delResult.IsError {
		t.Fatalf("delete failed: %v", resultJSON(t, delResult))
	}

	cards, _ := r.List()
	if len(cards) != 0 {
		t.Errorf("cards = %d after delete, want 0", len(cards))
	}
}

func TestHandleExportEmptyDeck(t *testing.T) {
	h, _ := testSetup(t)

	result, err := h.HandleExport(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleExport: %v", err)
	}
	if code := errorCode(t, result); code != string(errors.ErrEmptyDeck) {
		t.Errorf("code = %s, want EMPTY_DECK", code)
	}
}

func TestHandleExportUsesConfiguredDeck(t *testing.T) {
	h, r := testSetup(t)
	shot := stageScreenshot(t, "shot.png")
	if _, err := r.Create(card.Input{Question: "Q", Screenshots: []string{shot}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	result, err := h.HandleExport(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleExport: %v", err)
	}
	if result.IsError {
		t.Fatalf("export failed: %v", resultJSON(t, result))
	}
	payload := resultJSON(t, result)
	if payload["deck"] != config.DefaultConfig().DeckName {
		t.Errorf("deck = %v, want configured default", payload["deck"])
	}
	path, _ := payload["path"].(string)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported package missing: %v", err)
	}
}

func TestHandlePurge(t *testing.T) {
	h, r := testSetup(t)
	shot := stageScreenshot(t, "shot.png")
	if _, err := r.Create(card.Input{Question: "Q", Screenshots: []string{shot}}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	result, err := h.HandlePurge(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandlePurge: %v", err)
	}
	payload := resultJSON(t, result)
	if payload["purged"] != float64(1) {
		t.Errorf("purged = %v, want 1", payload["purged"])
	}
}

func TestNewServerRegistersAllTools(t *testing.T) {
	_, r := testSetup(t)
	s := NewServer(r, config.DefaultConfig(), "test")
	if s == nil {
		t.Fatalf("NewServer returned nil")
	}
	if len(AllToolNames()) != len(toolRegistry) {
		t.Errorf("AllToolNames out of sync with registry")
	}
}
