package repo

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ankilive/ankilive/internal/anki"
	"github.com/ankilive/ankilive/internal/card"
	"github.com/ankilive/ankilive/internal/errors"
)

// ExportDeck packages every stored card into a single .apkg in the
// cards directory and returns its path. The export is non-destructive:
// records and media stay in place, and re-exporting produces a fresh
// package. The package is written to a temp path and renamed so a
// failed export never leaves a truncated file behind.
func (r *Repository) ExportDeck(deckName string) (string, error) {
	cards, err := r.List()
	if err != nil {
		return "", err
	}
	if len(cards) == 0 {
		return "", errors.NewEmptyDeck(deckName)
	}

	notes := make([]anki.Note, 0, len(cards))
	mediaPaths := make([]string, 0, len(cards))
	seen := make(map[string]bool)
	for _, c := range cards {
		notes = append(notes, anki.Note{
			Question:    card.EscapeQuestion(c.Question),
			Answer:      card.RenderNotes(c.Notes),
			Screenshots: card.ScreenshotsHTML(c.Screenshots),
		})
		for _, name := range c.Screenshots {
			if seen[name] {
				continue
			}
			seen[name] = true
			mediaPaths = append(mediaPaths, r.MediaPath(name))
		}
	}

	finalPath := r.exportPath(deckName, time.Now())
	randBytes := make([]byte, 4)
	if _, err := rand.Read(randBytes); err != nil {
		return "", errors.NewInternal(err)
	}
	tempPath := fmt.Sprintf("%s.%x.tmp", finalPath, randBytes)

	if err := anki.WritePackage(tempPath, deckName, notes, mediaPaths); err != nil {
		os.Remove(tempPath)
		return "", errors.NewStorage(err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return "", errors.NewStorage(err)
	}
	return finalPath, nil
}

// exportPath names the package <deck>_<timestamp>.apkg in the cards
// directory, spaces replaced so the filename stays shell-friendly.
func (r *Repository) exportPath(deckName string, now time.Time) string {
	name := strings.ReplaceAll(deckName, " ", "_")
	filename := fmt.Sprintf("%s_%s.apkg", name, now.Format("20060102_150405"))
	return filepath.Join(r.cardsDir, filename)
}
