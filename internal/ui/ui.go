// Package ui provides the interactive dialogs: the startup deck-name
// prompt and the card editor. Both run as terminal programs in the
// daemon's terminal; the orchestrator only depends on the Dialogs
// interface.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ankilive/ankilive/internal/card"
)

// Dialogs collects user input for the orchestrator.
type Dialogs interface {
	// DeckName prompts for the session's deck name, pre-filled with
	// defaultName. ok is false when the user cancels.
	DeckName(defaultName string) (name string, ok bool, err error)

	// EditCard opens the card editor pre-filled with the draft. The
	// editor works on its own copy; the caller's draft is never
	// mutated. saved is false when the user cancels.
	EditCard(draft card.Draft) (result card.Draft, saved bool, err error)
}

// Terminal implements Dialogs with bubbletea programs.
type Terminal struct{}

// NewTerminal returns the terminal dialog implementation.
func NewTerminal() *Terminal { return &Terminal{} }

// DeckName implements Dialogs.
func (t *Terminal) DeckName(defaultName string) (string, bool, error) {
	final, err := tea.NewProgram(newDeckNameModel(defaultName)).Run()
	if err != nil {
		return "", false, err
	}
	m := final.(deckNameModel)
	if !m.accepted {
		return "", false, nil
	}
	return m.value, true, nil
}

// EditCard implements Dialogs.
func (t *Terminal) EditCard(draft card.Draft) (card.Draft, bool, error) {
	final, err := tea.NewProgram(newEditorModel(draft)).Run()
	if err != nil {
		return card.Draft{}, false, err
	}
	m := final.(editorModel)
	if !m.saved {
		return card.Draft{}, false, nil
	}
	return m.draft, true, nil
}
