// Package orchestrator wires global hotkey events to the screenshot
// client, the dialogs, and the card repository. It owns the only
// mutable process-wide state: the pending capture buffer and the
// session deck name.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ankilive/ankilive/internal/card"
	"github.com/ankilive/ankilive/internal/errors"
	"github.com/ankilive/ankilive/internal/repo"
	"github.com/ankilive/ankilive/internal/screenshot"
	"github.com/ankilive/ankilive/internal/ui"
)

// State is the orchestrator's current position in the capture flow.
type State int

const (
	StateIdle State = iota
	StateCapturing
	StateReviewingCard
	StateExporting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCapturing:
		return "capturing"
	case StateReviewingCard:
		return "reviewing_card"
	case StateExporting:
		return "exporting"
	default:
		return "unknown"
	}
}

// Event is a hotkey-driven transition request.
type Event int

const (
	EventCapture Event = iota
	EventCreateCard
	EventReset
	EventExport
)

// Notifier surfaces outcomes to the user. The daemon prints to the
// terminal; tests record.
type Notifier interface {
	Info(msg string)
	Error(msg string)
}

// ConsoleNotifier prints notifications to stdout/stderr.
type ConsoleNotifier struct{}

func (ConsoleNotifier) Info(msg string)  { fmt.Println(msg) }
func (ConsoleNotifier) Error(msg string) { fmt.Fprintln(os.Stderr, "error: "+msg) }

// Orchestrator processes one event at a time on a single control
// goroutine. Hotkey delivery happens on listener goroutines, but every
// state transition and buffer mutation runs inside Run's loop.
type Orchestrator struct {
	repo     *repo.Repository
	client   screenshot.Client
	dialogs  ui.Dialogs
	notify   Notifier
	log      *slog.Logger
	deckName string

	state   State
	pending []string // capture file paths, in capture order
	events  chan Event
}

// New creates an orchestrator for one session.
func New(r *repo.Repository, client screenshot.Client, dialogs ui.Dialogs, notify Notifier, logger *slog.Logger, deckName string) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		repo:     r,
		client:   client,
		dialogs:  dialogs,
		notify:   notify,
		log:      logger,
		deckName: deckName,
		state:    StateIdle,
		events:   make(chan Event),
	}
}

// State returns the current state. Only meaningful from the control
// goroutine; exposed for tests and status display.
func (o *Orchestrator) State() State { return o.state }

// PendingCount returns the number of buffered captures.
func (o *Orchestrator) PendingCount() int { return len(o.pending) }

// DeckName returns the session deck name.
func (o *Orchestrator) DeckName() string { return o.deckName }

// Submit posts a hotkey event to the control loop. Non-blocking: an
// event arriving while a transition is in progress is dropped, so a
// hotkey repeat during interactive capture or an open dialog is
// ignored rather than queued. Runs on listener goroutines and must
// not touch state owned by the control goroutine.
func (o *Orchestrator) Submit(ev Event) bool {
	select {
	case o.events <- ev:
		return true
	default:
		o.log.Debug("dropped event while busy", "event", ev)
		return false
	}
}

// Run consumes events until a successful export or until ctx is
// cancelled. Pending captures are discarded on the way out.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			o.discardPending()
			return ctx.Err()
		case ev := <-o.events:
			if exit := o.handle(ctx, ev); exit {
				return nil
			}
		}
	}
}

// handle performs one transition. Returns true when the daemon should
// exit (successful export).
func (o *Orchestrator) handle(ctx context.Context, ev Event) bool {
	switch ev {
	case EventCapture:
		o.handleCapture(ctx)
	case EventCreateCard:
		o.handleCreateCard()
	case EventReset:
		o.handleReset()
	case EventExport:
		return o.handleExport()
	}
	return false
}

// handleCapture blocks on interactive region selection, then grows the
// pending buffer. Cancellation is absorbed silently; a hard failure is
// reported and the state returns to idle either way.
func (o *Orchestrator) handleCapture(ctx context.Context) {
	o.state = StateCapturing
	defer func() { o.state = StateIdle }()

	o.notify.Info("Select an area of the screen to capture...")
	path, err := o.client.Capture(ctx)
	if err != nil {
		if errors.Is(err, errors.ErrCaptureCancelled) {
			o.log.Info("capture cancelled by user")
			return
		}
		o.notify.Error(err.Error())
		return
	}

	o.pending = append(o.pending, path)
	o.notify.Info(fmt.Sprintf("Captured screenshot (%d pending)", len(o.pending)))
}

// handleCreateCard opens the editor pre-filled with the pending
// buffer. The dialog edits a copy; only a successful save touches the
// buffer. A validation failure reopens the editor with the user's
// input intact.
func (o *Orchestrator) handleCreateCard() {
	if len(o.pending) == 0 {
		o.notify.Info("No pending screenshots; capture one first")
		return
	}

	o.state = StateReviewingCard
	defer func() { o.state = StateIdle }()

	draft := card.Draft{Screenshots: o.pending}
	for {
		result, saved, err := o.dialogs.EditCard(draft.Clone())
		if err != nil {
			o.notify.Error("card editor failed: " + err.Error())
			return
		}
		if !saved {
			// Cancelled: screenshots stay pending, nothing is lost.
			o.log.Info("card creation cancelled")
			return
		}

		created, err := o.repo.Create(card.Input{
			Question:    result.Question,
			Notes:       result.Notes,
			Screenshots: result.Screenshots,
		})
		if err != nil {
			if errors.Is(err, errors.ErrInvalidInput) {
				// Recoverable: reopen with the user's input.
				o.notify.Error(err.Error())
				draft = result
				continue
			}
			o.notify.Error(err.Error())
			return
		}

		o.discardPending()
		o.notify.Info(fmt.Sprintf("Created card %s: %s", created.ID, created.Question))
		o.log.Info("card created", "id", created.ID, "screenshots", len(created.Screenshots))
		return
	}
}

// handleReset clears the pending buffer and removes its orphaned
// capture files.
func (o *Orchestrator) handleReset() {
	n := len(o.pending)
	o.discardPending()
	o.notify.Info(fmt.Sprintf("Discarded %d pending screenshot(s)", n))
}

// handleExport packages the deck. Success terminates the daemon;
// failure (including an empty deck) is reported and the daemon keeps
// running.
func (o *Orchestrator) handleExport() bool {
	o.state = StateExporting

	path, err := o.repo.ExportDeck(o.deckName)
	if err != nil {
		o.notify.Error(err.Error())
		o.state = StateIdle
		return false
	}

	o.discardPending()
	o.notify.Info("Deck exported to " + path)
	o.log.Info("deck exported", "path", path, "deck", o.deckName)
	return true
}

// discardPending empties the buffer and deletes capture temp files.
// Saved cards are unaffected: the repository copies media on create.
func (o *Orchestrator) discardPending() {
	for _, path := range o.pending {
		_ = os.Remove(path)
	}
	o.pending = nil
}
