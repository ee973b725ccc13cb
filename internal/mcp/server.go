// Package mcp exposes the card repository to MCP clients over stdio.
// An agent watching a lecture can create cards alongside the hotkey
// flow, then export the deck without touching the CLI.
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ankilive/ankilive/internal/config"
	"github.com/ankilive/ankilive/internal/repo"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"card_create": {
		def: mcp.NewTool("card_create",
			mcp.WithDescription("Create a flashcard from a question, optional Markdown notes, and one or more screenshot file paths. Screenshots are copied into the card store."),
			mcp.WithString("question", mcp.Required(), mcp.Description("Front side of the card; must not be blank")),
			mcp.WithString("notes", mcp.Description("Back side of the card, rendered as Markdown")),
			mcp.WithArray("screenshots", mcp.Required(),
				mcp.Description("Absolute paths to screenshot image files, in display order"),
				mcp.Items(map[string]any{"type": "string"})),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreate },
	},
	"card_get": {
		def: mcp.NewTool("card_get",
			mcp.WithDescription("Fetch a single card by ID."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Card ID (ULID)")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGet },
	},
	"card_list": {
		def: mcp.NewTool("card_list",
			mcp.WithDescription("List all cards in creation order."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleList },
	},
	"card_delete": {
		def: mcp.NewTool("card_delete",
			mcp.WithDescription("Delete a card by ID. Screenshot files are removed once no remaining card references them."),
			mcp.WithString("id", mcp.Required(), mcp.Description("Card ID (ULID)")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDelete },
	},
	"deck_export": {
		def: mcp.NewTool("deck_export",
			mcp.WithDescription("Export every card as an Anki .apkg package. Fails if the deck is empty; cards are left in place."),
			mcp.WithString("deck", mcp.Description("Deck name; defaults to the configured deck")),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExport },
	},
	"card_purge": {
		def: mcp.NewTool("card_purge",
			mcp.WithDescription("Delete all cards and their screenshots. Irreversible."),
		),
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandlePurge },
	},
}

// AllToolNames returns a list of all registered tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// NewServer creates an MCP server with the AnkiLive tools registered.
func NewServer(r *repo.Repository, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"ankilive",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(r, cfg)
	for _, entry := range toolRegistry {
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(r *repo.Repository, cfg *config.Config, version string) error {
	s := NewServer(r, cfg, version)
	return server.ServeStdio(s)
}
