package repo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ankilive/ankilive/internal/card"
	"github.com/ankilive/ankilive/internal/errors"
)

// newTestRepo creates a repository in a temp directory plus a helper
// for minting capture files that stand in for screenshots.
func newTestRepo(t *testing.T) (*Repository, func(name string) string) {
	t.Helper()
	tmpDir := t.TempDir()
	r, err := New(filepath.Join(tmpDir, "cards"))
	require.NoError(t, err)

	captureDir := filepath.Join(tmpDir, "captures")
	require.NoError(t, os.MkdirAll(captureDir, 0700))
	makeCapture := func(name string) string {
		path := filepath.Join(captureDir, name)
		require.NoError(t, os.WriteFile(path, []byte("png-bytes-"+name), 0600))
		return path
	}
	return r, makeCapture
}

func TestNew_CreatesLayout(t *testing.T) {
	tmpDir := t.TempDir()
	cardsDir := filepath.Join(tmpDir, "cards")

	_, err := New(cardsDir)
	require.NoError(t, err)

	for _, sub := range []string{"data", "media"} {
		info, err := os.Stat(filepath.Join(cardsDir, sub))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}
}

func TestCreate_PersistsRecordAndMedia(t *testing.T) {
	r, makeCapture := newTestRepo(t)
	s1 := makeCapture("s1.png")
	s2 := makeCapture("s2.png")

	c, err := r.Create(card.Input{
		Question:    "What is X?",
		Notes:       "- a\n- b",
		Screenshots: []string{s1, s2},
	})
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Len(t, c.Screenshots, 2)
	require.False(t, c.CreatedAt.IsZero())

	// The JSON record exists and round-trips.
	data, err := os.ReadFile(filepath.Join(r.cardsDir, "data", c.ID+".json"))
	require.NoError(t, err)
	var stored card.Card
	require.NoError(t, json.Unmarshal(data, &stored))
	require.Equal(t, "What is X?", stored.Question)
	require.Equal(t, c.Screenshots, stored.Screenshots)

	// Both media files were copied in.
	for _, name := range c.Screenshots {
		_, err := os.Stat(r.MediaPath(name))
		require.NoError(t, err)
	}
}

func TestCreate_PreservesScreenshotOrder(t *testing.T) {
	r, makeCapture := newTestRepo(t)
	first := makeCapture("first.png")
	second := makeCapture("second.png")
	third := makeCapture("third.png")

	c, err := r.Create(card.Input{
		Question:    "Order?",
		Screenshots: []string{first, second, third},
	})
	require.NoError(t, err)

	// Copied media content must match capture order.
	for i, want := range []string{"png-bytes-first.png", "png-bytes-second.png", "png-bytes-third.png"} {
		data, err := os.ReadFile(r.MediaPath(c.Screenshots[i]))
		require.NoError(t, err)
		require.Equal(t, want, string(data))
	}
}

func TestCreate_ValidationLeavesStoreUnchanged(t *testing.T) {
	r, makeCapture := newTestRepo(t)
	s1 := makeCapture("s1.png")

	cases := []card.Input{
		{Question: "", Screenshots: []string{s1}},
		{Question: "   ", Screenshots: []string{s1}},
		{Question: "Q", Screenshots: nil},
	}
	for _, in := range cases {
		_, err := r.Create(in)
		require.True(t, errors.Is(err, errors.ErrInvalidInput), "want INVALID_INPUT, got %v", err)
	}

	dataEntries, err := os.ReadDir(filepath.Join(r.cardsDir, "data"))
	require.NoError(t, err)
	require.Empty(t, dataEntries, "no JSON record may be written on validation failure")

	mediaEntries, err := os.ReadDir(filepath.Join(r.cardsDir, "media"))
	require.NoError(t, err)
	require.Empty(t, mediaEntries, "no media file may be written on validation failure")
}

func TestCreate_MissingCaptureRollsBack(t *testing.T) {
	r, makeCapture := newTestRepo(t)
	s1 := makeCapture("s1.png")

	_, err := r.Create(card.Input{
		Question:    "Q",
		Screenshots: []string{s1, filepath.Join(t.TempDir(), "missing.png")},
	})
	require.True(t, errors.Is(err, errors.ErrStorage), "want STORAGE, got %v", err)

	mediaEntries, err := os.ReadDir(filepath.Join(r.cardsDir, "media"))
	require.NoError(t, err)
	require.Empty(t, mediaEntries, "partial media copy must be rolled back")
}

func TestList_CreationOrder(t *testing.T) {
	r, makeCapture := newTestRepo(t)

	var ids []string
	for _, q := range []string{"first", "second", "third"} {
		c, err := r.Create(card.Input{Question: q, Screenshots: []string{makeCapture(q + ".png")}})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	cards, err := r.List()
	require.NoError(t, err)
	require.Len(t, cards, 3)
	for i, c := range cards {
		require.Equal(t, ids[i], c.ID)
	}
	require.Equal(t, "first", cards[0].Question)
	require.Equal(t, "third", cards[2].Question)
}

func TestList_SkipsCorruptRecords(t *testing.T) {
	r, makeCapture := newTestRepo(t)
	_, err := r.Create(card.Input{Question: "Q", Screenshots: []string{makeCapture("s.png")}})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(r.cardsDir, "data", "corrupt.json"), []byte("{nope"), 0600))

	cards, err := r.List()
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestGet_NotFound(t *testing.T) {
	r, _ := newTestRepo(t)

	_, err := r.Get("01HZZZZZZZZZZZZZZZZZZZZZZZ")
	require.True(t, errors.Is(err, errors.ErrNotFound), "want NOT_FOUND, got %v", err)
}

func TestRemove(t *testing.T) {
	r, makeCapture := newTestRepo(t)
	c1, err := r.Create(card.Input{Question: "keep", Screenshots: []string{makeCapture("a.png")}})
	require.NoError(t, err)
	c2, err := r.Create(card.Input{Question: "drop", Screenshots: []string{makeCapture("b.png")}})
	require.NoError(t, err)

	require.NoError(t, r.Remove(c2.ID))

	cards, err := r.List()
	require.NoError(t, err)
	require.Len(t, cards, 1)
	require.Equal(t, c1.ID, cards[0].ID)

	// The removed card's media is gone; the survivor's remains.
	_, err = os.Stat(r.MediaPath(c2.Screenshots[0]))
	require.True(t, os.IsNotExist(err), "removed card's media must be deleted")
	_, err = os.Stat(r.MediaPath(c1.Screenshots[0]))
	require.NoError(t, err)

	// Removing again reports NOT_FOUND.
	err = r.Remove(c2.ID)
	require.True(t, errors.Is(err, errors.ErrNotFound), "want NOT_FOUND, got %v", err)
}

func TestRemove_KeepsSharedMedia(t *testing.T) {
	r, makeCapture := newTestRepo(t)
	c1, err := r.Create(card.Input{Question: "one", Screenshots: []string{makeCapture("a.png")}})
	require.NoError(t, err)

	// Hand-craft a second record referencing the same media file, the
	// way an external import might.
	shared := card.Card{
		ID:          "01J0000000000000000000SHRD",
		Question:    "two",
		Screenshots: []string{c1.Screenshots[0]},
		CreatedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(shared)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(r.cardsDir, "data", shared.ID+".json"), data, 0600))

	require.NoError(t, r.Remove(c1.ID))

	// Media survives because the hand-crafted card still references it.
	_, err = os.Stat(r.MediaPath(c1.Screenshots[0]))
	require.NoError(t, err)
}

func TestPurge(t *testing.T) {
	r, makeCapture := newTestRepo(t)
	for _, q := range []string{"a", "b"} {
		_, err := r.Create(card.Input{Question: q, Screenshots: []string{makeCapture(q + ".png")}})
		require.NoError(t, err)
	}

	n, err := r.Purge()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	cards, err := r.List()
	require.NoError(t, err)
	require.Empty(t, cards)

	mediaEntries, err := os.ReadDir(filepath.Join(r.cardsDir, "media"))
	require.NoError(t, err)
	require.Empty(t, mediaEntries)
}

func TestPurge_Empty(t *testing.T) {
	r, _ := newTestRepo(t)

	n, err := r.Purge()
	require.NoError(t, err)
	require.Zero(t, n)
}
