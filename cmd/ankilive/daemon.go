package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ankilive/ankilive/internal/config"
	"github.com/ankilive/ankilive/internal/hotkey"
	"github.com/ankilive/ankilive/internal/orchestrator"
	"github.com/ankilive/ankilive/internal/repo"
	"github.com/ankilive/ankilive/internal/screenshot"
	"github.com/ankilive/ankilive/internal/ui"
)

// eventFor maps a hotkey action to an orchestrator event.
func eventFor(a hotkey.Action) orchestrator.Event {
	switch a {
	case hotkey.ActionCreateCard:
		return orchestrator.EventCreateCard
	case hotkey.ActionReset:
		return orchestrator.EventReset
	case hotkey.ActionExport:
		return orchestrator.EventExport
	default:
		return orchestrator.EventCapture
	}
}

// parseBindings parses the configured hotkey specs.
func parseBindings(hk config.HotkeyConfig) (map[hotkey.Action]hotkey.Binding, error) {
	specs := map[hotkey.Action]string{
		hotkey.ActionCapture:    hk.Capture,
		hotkey.ActionCreateCard: hk.CreateCard,
		hotkey.ActionReset:      hk.Reset,
		hotkey.ActionExport:     hk.Export,
	}

	bindings := make(map[hotkey.Action]hotkey.Binding, len(specs))
	for action, spec := range specs {
		b, err := hotkey.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("hotkey for %s: %w", action, err)
		}
		bindings[action] = b
	}
	return bindings, nil
}

// runDaemon starts a capture session: deck name prompt, global hotkey
// registration, then the orchestrator loop until export or interrupt.
func runDaemon(r *repo.Repository, cfg *config.Config, deckFlag, backend string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	dialogs := ui.NewTerminal()

	deck := deckFlag
	if deck == "" {
		name, ok, err := dialogs.DeckName(cfg.DeckName)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
		deck = name
	}

	client, err := screenshot.ForBackend(backend)
	if err != nil {
		return err
	}

	bindings, err := parseBindings(cfg.Hotkeys)
	if err != nil {
		return err
	}

	orch := orchestrator.New(r, client, dialogs, orchestrator.ConsoleNotifier{}, logger, deck)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	listener := hotkey.NewGlobal()
	if err := listener.Start(ctx, bindings, func(a hotkey.Action) {
		orch.Submit(eventFor(a))
	}); err != nil {
		return err
	}

	fmt.Printf("AnkiLive capturing into deck %q\n", deck)
	fmt.Printf("  %-10s %s\n", cfg.Hotkeys.Capture, "capture screenshot")
	fmt.Printf("  %-10s %s\n", cfg.Hotkeys.CreateCard, "create card from pending screenshots")
	fmt.Printf("  %-10s %s\n", cfg.Hotkeys.Reset, "discard pending screenshots")
	fmt.Printf("  %-10s %s\n", cfg.Hotkeys.Export, "export deck and exit")
	fmt.Println("Press Ctrl+C to quit without exporting.")

	if err := orch.Run(ctx); err != nil {
		if stderrors.Is(err, context.Canceled) {
			fmt.Println("\nSession ended without export. Cards are kept for next time.")
			return nil
		}
		return err
	}
	return nil
}
