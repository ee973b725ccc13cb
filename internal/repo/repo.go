// Package repo owns durable card storage: one JSON record per card
// under <cardsDir>/data, screenshot images under <cardsDir>/media, and
// exported packages in <cardsDir> itself. It is the single source of
// truth for what has been saved.
package repo

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ankilive/ankilive/internal/card"
	"github.com/ankilive/ankilive/internal/errors"
)

// Repository is a flat-file card store rooted at cardsDir.
type Repository struct {
	cardsDir string
	dataDir  string
	mediaDir string
}

// New creates the card, data, and media directories if needed and
// returns a Repository rooted at cardsDir. A failure here is fatal to
// startup: without the store nothing else can run.
func New(cardsDir string) (*Repository, error) {
	r := &Repository{
		cardsDir: cardsDir,
		dataDir:  filepath.Join(cardsDir, "data"),
		mediaDir: filepath.Join(cardsDir, "media"),
	}
	for _, dir := range []string{r.cardsDir, r.dataDir, r.mediaDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create cards directory %s: %w", dir, err)
		}
	}
	return r, nil
}

// CardsDir returns the repository root.
func (r *Repository) CardsDir() string { return r.cardsDir }

// MediaPath resolves a screenshot filename to its path in the media
// directory.
func (r *Repository) MediaPath(filename string) string {
	return filepath.Join(r.mediaDir, filepath.Base(filename))
}

// Create validates the input, adopts the screenshot files into the
// media directory, and persists the card record. Validation happens
// before any side effect; a partial media copy is rolled back so a
// failed Create leaves the store unchanged.
func (r *Repository) Create(in card.Input) (*card.Card, error) {
	if err := in.Validate(); err != nil {
		return nil, errors.NewInvalidInput(err.Error())
	}

	id, err := newID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	filenames, err := r.adoptScreenshots(in.Screenshots)
	if err != nil {
		return nil, err
	}

	c := &card.Card{
		ID:          id,
		Question:    in.Question,
		Notes:       in.Notes,
		Screenshots: filenames,
		CreatedAt:   time.Now().UTC(),
	}

	if err := r.writeRecord(c); err != nil {
		r.removeMedia(filenames)
		return nil, err
	}
	return c, nil
}

// adoptScreenshots copies capture files into the media directory under
// stable generated names, preserving order. On any failure the copies
// made so far are removed.
func (r *Repository) adoptScreenshots(sources []string) ([]string, error) {
	filenames := make([]string, 0, len(sources))
	for _, src := range sources {
		mediaID, err := newID()
		if err != nil {
			r.removeMedia(filenames)
			return nil, errors.NewInternal(err)
		}
		ext := filepath.Ext(src)
		if ext == "" {
			ext = ".png"
		}
		filename := "screenshot_" + strings.ToLower(mediaID) + ext
		if err := copyFile(src, filepath.Join(r.mediaDir, filename)); err != nil {
			r.removeMedia(filenames)
			return nil, errors.NewStorage(err)
		}
		filenames = append(filenames, filename)
	}
	return filenames, nil
}

// writeRecord persists a card record atomically: temp file in the data
// directory, then rename into place.
func (r *Repository) writeRecord(c *card.Card) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.NewInternal(err)
	}

	randBytes := make([]byte, 4)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(err)
	}
	finalPath := r.recordPath(c.ID)
	tempPath := fmt.Sprintf("%s.%x.tmp", finalPath, randBytes)

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return errors.NewStorage(err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return errors.NewStorage(err)
	}
	return nil
}

// List returns all persisted cards in creation order. Corrupt records
// are skipped rather than failing the whole listing.
func (r *Repository) List() ([]card.Card, error) {
	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		return nil, errors.NewStorage(err)
	}

	cards := make([]card.Card, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		c, err := r.readRecord(filepath.Join(r.dataDir, entry.Name()))
		if err != nil {
			continue
		}
		cards = append(cards, *c)
	}

	// ULIDs sort lexicographically by creation time; CreatedAt breaks
	// ties for records imported from elsewhere.
	sort.Slice(cards, func(i, j int) bool {
		if !cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].CreatedAt.Before(cards[j].CreatedAt)
		}
		return cards[i].ID < cards[j].ID
	})
	return cards, nil
}

// Get returns a single card by ID.
func (r *Repository) Get(id string) (*card.Card, error) {
	c, err := r.readRecord(r.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(id)
		}
		return nil, errors.NewStorage(err)
	}
	return c, nil
}

// Remove deletes a card record and any of its screenshot files that no
// surviving card still references.
func (r *Repository) Remove(id string) error {
	c, err := r.Get(id)
	if err != nil {
		return err
	}

	if err := os.Remove(r.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFound(id)
		}
		return errors.NewStorage(err)
	}

	remaining, err := r.List()
	if err != nil {
		return err
	}
	referenced := make(map[string]bool)
	for _, other := range remaining {
		for _, name := range other.Screenshots {
			referenced[name] = true
		}
	}

	for _, name := range c.Screenshots {
		if referenced[name] {
			continue
		}
		if err := os.Remove(r.MediaPath(name)); err != nil && !os.IsNotExist(err) {
			return errors.NewStorage(err)
		}
	}
	return nil
}

// Purge removes every card record and all media files, leaving
// exported packages in place. Returns the number of cards removed.
func (r *Repository) Purge() (int, error) {
	cards, err := r.List()
	if err != nil {
		return 0, err
	}

	for _, c := range cards {
		if err := os.Remove(r.recordPath(c.ID)); err != nil && !os.IsNotExist(err) {
			return 0, errors.NewStorage(err)
		}
		r.removeMedia(c.Screenshots)
	}
	return len(cards), nil
}

func (r *Repository) recordPath(id string) string {
	return filepath.Join(r.dataDir, filepath.Base(id)+".json")
}

func (r *Repository) readRecord(path string) (*card.Card, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := &card.Card{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	return c, nil
}

// removeMedia deletes media files, ignoring failures. Used for
// rollback and purge, where a leftover file is preferable to masking
// the original error.
func (r *Repository) removeMedia(filenames []string) {
	for _, name := range filenames {
		_ = os.Remove(r.MediaPath(name))
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open screenshot %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("create media file: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy screenshot: %w", err)
	}
	return out.Close()
}

// newID generates a ULID. Lexicographic ID order matches creation
// order, which List relies on.
func newID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
