package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ankilive/ankilive/internal/card"
	"github.com/ankilive/ankilive/internal/config"
	"github.com/ankilive/ankilive/internal/errors"
	"github.com/ankilive/ankilive/internal/repo"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	repo *repo.Repository
	cfg  *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(r *repo.Repository, cfg *config.Config) *Handlers {
	return &Handlers{repo: r, cfg: cfg}
}

// Request types for each tool

// CreateRequest represents the arguments for card_create.
type CreateRequest struct {
	Question    string   `json:"question"`
	Notes       string   `json:"notes,omitempty"`
	Screenshots []string `json:"screenshots"`
}

// GetRequest represents the arguments for card_get.
type GetRequest struct {
	ID string `json:"id"`
}

// DeleteRequest represents the arguments for card_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ExportRequest represents the arguments for deck_export.
type ExportRequest struct {
	Deck string `json:"deck,omitempty"`
}

// Handler implementations

// HandleCreate handles the card_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	created, err := h.repo.Create(card.Input{
		Question:    input.Question,
		Notes:       input.Notes,
		Screenshots: input.Screenshots,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(created)
}

// HandleGet handles the card_get tool call.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	c, err := h.repo.Get(input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(c)
}

// HandleList handles the card_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cards, err := h.repo.List()
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"cards": cards,
		"count": len(cards),
	})
}

// HandleDelete handles the card_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	if err := h.repo.Remove(input.ID); err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"deleted": input.ID})
}

// HandleExport handles the deck_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidInput(err.Error())), nil
	}

	deck := input.Deck
	if deck == "" {
		deck = h.cfg.DeckName
	}

	path, err := h.repo.ExportDeck(deck)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"deck": deck,
		"path": path,
	})
}

// HandlePurge handles the card_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := h.repo.Purge()
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{"purged": n})
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to avoid leaking file paths.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if appErr, ok := err.(*errors.AppError); ok {
		errorObj := map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
			"status":  appErr.Status,
		}
		if appErr.Code != errors.ErrInternal && appErr.Details != nil {
			errorObj["details"] = appErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
