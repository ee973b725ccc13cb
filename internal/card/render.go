package card

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
)

// EscapeQuestion HTML-escapes the question text for embedding in a card
// field.
func EscapeQuestion(question string) string {
	return html.EscapeString(question)
}

// RenderNotes converts markdown notes to HTML for the card back. The
// source is HTML-escaped first, so literal markup in the notes shows up
// as text rather than being interpreted or dropped.
func RenderNotes(notes string) string {
	escaped := html.EscapeString(notes)
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(escaped), &buf); err != nil {
		return escaped
	}
	return buf.String()
}

// ScreenshotsHTML builds the image sequence for a card's screenshots
// field, preserving order.
func ScreenshotsHTML(filenames []string) string {
	var b strings.Builder
	for _, name := range filenames {
		b.WriteString(`<img src="`)
		b.WriteString(html.EscapeString(name))
		b.WriteString(`">`)
	}
	return b.String()
}
