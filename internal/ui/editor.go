package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ankilive/ankilive/internal/card"
)

// Editor focus areas.
const (
	focusQuestion = iota
	focusNotes
	focusShots
	focusCount
)

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	focusedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("205"))

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	shotCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// editorModel is the card editor: question line, markdown notes block,
// and the screenshot list with reordering. It edits a working copy;
// nothing propagates until the user saves.
type editorModel struct {
	draft  card.Draft
	focus  int
	cursor int // screenshot list position
	errMsg string
	saved  bool
}

func newEditorModel(draft card.Draft) editorModel {
	return editorModel{draft: draft.Clone()}
}

func (m editorModel) Init() tea.Cmd {
	return nil
}

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.saved = false
		return m, tea.Quit
	case "ctrl+s":
		if strings.TrimSpace(m.draft.Question) == "" {
			m.errMsg = "question must not be blank"
			m.focus = focusQuestion
			return m, nil
		}
		m.saved = true
		return m, tea.Quit
	case "tab":
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	case "shift+tab":
		m.focus = (m.focus - 1 + focusCount) % focusCount
		return m, nil
	}

	switch m.focus {
	case focusQuestion:
		m.updateQuestion(keyMsg)
		return m, nil
	case focusNotes:
		m.updateNotes(keyMsg)
		return m, nil
	default:
		m.updateShots(keyMsg)
		return m, nil
	}
}

func (m *editorModel) updateQuestion(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.focus = focusNotes
	case tea.KeyBackspace:
		m.draft.Question = trimLastRune(m.draft.Question)
	case tea.KeySpace:
		m.draft.Question += " "
	case tea.KeyRunes:
		m.draft.Question += string(msg.Runes)
		m.errMsg = ""
	}
}

func (m *editorModel) updateNotes(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEnter:
		m.draft.Notes += "\n"
	case tea.KeyBackspace:
		m.draft.Notes = trimLastRune(m.draft.Notes)
	case tea.KeySpace:
		m.draft.Notes += " "
	case tea.KeyRunes:
		m.draft.Notes += string(msg.Runes)
	}
}

func (m *editorModel) updateShots(msg tea.KeyMsg) {
	n := len(m.draft.Screenshots)
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "ctrl+up", "K":
		if m.cursor > 0 {
			shots := m.draft.Screenshots
			shots[m.cursor-1], shots[m.cursor] = shots[m.cursor], shots[m.cursor-1]
			m.cursor--
		}
	case "ctrl+down", "J":
		if n > 0 && m.cursor < n-1 {
			shots := m.draft.Screenshots
			shots[m.cursor+1], shots[m.cursor] = shots[m.cursor], shots[m.cursor+1]
			m.cursor++
		}
	case "x", "delete":
		if n > 0 {
			m.draft.Screenshots = append(m.draft.Screenshots[:m.cursor], m.draft.Screenshots[m.cursor+1:]...)
			if m.cursor >= len(m.draft.Screenshots) && m.cursor > 0 {
				m.cursor--
			}
		}
	}
}

func trimLastRune(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}

func (m editorModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Create Flashcard"))
	b.WriteString("\n\n")

	b.WriteString(m.label("Question", focusQuestion))
	b.WriteString(": ")
	b.WriteString(m.draft.Question)
	if m.focus == focusQuestion {
		b.WriteString(cursorStyle.Render("█"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.label("Notes (markdown)", focusNotes))
	b.WriteString(":\n")
	b.WriteString(m.draft.Notes)
	if m.focus == focusNotes {
		b.WriteString(cursorStyle.Render("█"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.label("Screenshots", focusShots))
	b.WriteString(":\n")
	if len(m.draft.Screenshots) == 0 {
		b.WriteString(helpStyle.Render("  (none)"))
		b.WriteString("\n")
	}
	for i, shot := range m.draft.Screenshots {
		marker := "  "
		if m.focus == focusShots && i == m.cursor {
			marker = shotCursorStyle.Render("▶ ")
		}
		b.WriteString(fmt.Sprintf("%s%d. %s\n", marker, i+1, filepath.Base(shot)))
	}
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab switch field · ctrl+↑/↓ reorder · x remove · ctrl+s save · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m editorModel) label(text string, focus int) string {
	if m.focus == focus {
		return focusedLabelStyle.Render(text)
	}
	return labelStyle.Render(text)
}
