package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type deckNameModel struct {
	value    string
	accepted bool
	errMsg   string
}

func newDeckNameModel(defaultName string) deckNameModel {
	return deckNameModel{value: defaultName}
}

func (m deckNameModel) Init() tea.Cmd {
	return nil
}

func (m deckNameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c", "esc":
		m.accepted = false
		return m, tea.Quit
	case "enter":
		if strings.TrimSpace(m.value) == "" {
			m.errMsg = "deck name must not be blank"
			return m, nil
		}
		m.value = strings.TrimSpace(m.value)
		m.accepted = true
		return m, tea.Quit
	}

	switch keyMsg.Type {
	case tea.KeyBackspace:
		if m.value != "" {
			runes := []rune(m.value)
			m.value = string(runes[:len(runes)-1])
		}
		m.errMsg = ""
	case tea.KeySpace:
		m.value += " "
	case tea.KeyRunes:
		m.value += string(keyMsg.Runes)
		m.errMsg = ""
	}
	return m, nil
}

func (m deckNameModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("AnkiLive: Deck Name"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Deck name: "))
	b.WriteString(m.value)
	b.WriteString(cursorStyle.Render("█"))
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter accept · esc cancel"))
	b.WriteString("\n")
	return b.String()
}
