package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ankilive/ankilive/internal/card"
	"github.com/ankilive/ankilive/internal/config"
	"github.com/ankilive/ankilive/internal/errors"
	"github.com/ankilive/ankilive/internal/repo"
	"github.com/ankilive/ankilive/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(r *repo.Repository, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "ankilive",
		Usage:   "Capture lecture slides into Anki flashcards",
		Version: Version,
		Commands: []*cli.Command{
			runCmd(r, cfg),
			addCmd(r),
			listCmd(r),
			showCmd(r),
			removeCmd(r),
			exportCmd(r, cfg),
			purgeCmd(r),
			webCmd(r, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// runCmd creates the run command (the capture daemon).
func runCmd(r *repo.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Start the capture daemon with global hotkeys",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "deck", Aliases: []string{"d"}, Usage: "Deck name (skips the startup prompt)"},
			&cli.StringFlag{Name: "backend", Aliases: []string{"b"}, Usage: "Screenshot backend (default from config)"},
		},
		Action: func(c *cli.Context) error {
			backend := cfg.CaptureBackend
			if b := c.String("backend"); b != "" {
				backend = b
			}
			if err := runDaemon(r, cfg, c.String("deck"), backend); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// addCmd creates the add command.
func addCmd(r *repo.Repository) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a card from existing screenshot files",
		ArgsUsage: "<screenshot.png> [screenshot.png ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "question", Aliases: []string{"q"}, Required: true, Usage: "Card question (front side)"},
			&cli.StringFlag{Name: "notes", Aliases: []string{"n"}, Usage: "Markdown notes (back side)"},
		},
		Action: func(c *cli.Context) error {
			created, err := r.Create(card.Input{
				Question:    c.String("question"),
				Notes:       c.String("notes"),
				Screenshots: c.Args().Slice(),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(created)
		},
	}
}

// listCmd creates the list command.
func listCmd(r *repo.Repository) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all cards in creation order",
		Action: func(c *cli.Context) error {
			cards, err := r.List()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"cards": cards,
				"count": len(cards),
			})
		},
	}
}

// showCmd creates the show command.
func showCmd(r *repo.Repository) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a card by ID",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidInput("card ID is required"))
			}
			found, err := r.Get(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(found)
		},
	}
}

// removeCmd creates the remove command.
func removeCmd(r *repo.Repository) *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a card and its unreferenced screenshots",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidInput("card ID is required"))
			}
			id := c.Args().First()
			if err := r.Remove(id); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"deleted": id})
		},
	}
}

// exportCmd creates the export command.
func exportCmd(r *repo.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all cards as an Anki .apkg package",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "deck", Aliases: []string{"d"}, Usage: "Deck name (default from config)"},
		},
		Action: func(c *cli.Context) error {
			deck := c.String("deck")
			if deck == "" {
				deck = cfg.DeckName
			}
			path, err := r.ExportDeck(deck)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{
				"deck": deck,
				"path": path,
			})
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(r *repo.Repository) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Delete all cards and screenshots (irreversible)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm the purge"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("yes") {
				return outputError(errors.NewInvalidInput("pass --yes to confirm purging all cards"))
			}
			n, err := r.Purge()
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"purged": n})
		},
	}
}

// webCmd creates the web command.
func webCmd(r *repo.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the card browser UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind := cfg.Web.Bind
			if b := c.String("bind"); b != "" {
				bind = b
			}
			port := cfg.Web.Port
			if p := c.Int("port"); p != 0 {
				port = p
			}
			srv := web.NewServer(r, cfg, Version, bind, port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if appErr, ok := err.(*errors.AppError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", appErr.Code, appErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
