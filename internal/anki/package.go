package anki

import (
	"archive/zip"
	"crypto/rand"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Note is one deck entry ready for packaging. All three fields are
// final HTML; media files referenced by ScreenshotsHTML must appear in
// the package's media list.
type Note struct {
	Question    string
	Answer      string
	Screenshots string
}

// Fields joins the note fields with the Anki field separator.
func (n Note) Fields() string {
	return n.Question + "\x1f" + n.Answer + "\x1f" + n.Screenshots
}

const schema = `
CREATE TABLE col (
    id integer primary key,
    crt integer not null,
    mod integer not null,
    scm integer not null,
    ver integer not null,
    dty integer not null,
    usn integer not null,
    ls integer not null,
    conf text not null,
    models text not null,
    decks text not null,
    dconf text not null,
    tags text not null
);
CREATE TABLE notes (
    id integer primary key,
    guid text not null,
    mid integer not null,
    mod integer not null,
    usn integer not null,
    tags text not null,
    flds text not null,
    sfld integer not null,
    csum integer not null,
    flags integer not null,
    data text not null
);
CREATE TABLE cards (
    id integer primary key,
    nid integer not null,
    did integer not null,
    ord integer not null,
    mod integer not null,
    usn integer not null,
    type integer not null,
    queue integer not null,
    due integer not null,
    ivl integer not null,
    factor integer not null,
    reps integer not null,
    lapses integer not null,
    left integer not null,
    odue integer not null,
    odid integer not null,
    flags integer not null,
    data text not null
);
CREATE TABLE revlog (
    id integer primary key,
    cid integer not null,
    usn integer not null,
    ease integer not null,
    ivl integer not null,
    lastIvl integer not null,
    factor integer not null,
    time integer not null,
    type integer not null
);
CREATE TABLE graves (
    usn integer not null,
    oid integer not null,
    type integer not null
);
CREATE INDEX ix_notes_usn on notes (usn);
CREATE INDEX ix_cards_usn on cards (usn);
CREATE INDEX ix_revlog_usn on revlog (usn);
CREATE INDEX ix_cards_nid on cards (nid);
CREATE INDEX ix_cards_sched on cards (did, queue, due);
CREATE INDEX ix_revlog_cid on revlog (cid);
CREATE INDEX ix_notes_csum on notes (csum);
`

// WritePackage builds a complete .apkg at path: collection database,
// media manifest, and one copy of each media file. The write is not
// atomic; callers that need atomicity should write to a temp path and
// rename.
func WritePackage(path, deckName string, notes []Note, mediaPaths []string) error {
	tmpDir, err := os.MkdirTemp("", "ankilive-pkg-*")
	if err != nil {
		return fmt.Errorf("create package workspace: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	collectionPath := filepath.Join(tmpDir, "collection.anki2")
	if err := writeCollection(collectionPath, deckName, notes); err != nil {
		return err
	}

	return writeArchive(path, collectionPath, mediaPaths)
}

// writeCollection creates the collection.anki2 database and fills in
// the col row plus one note and one card per deck entry.
func writeCollection(path, deckName string, notes []Note) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open collection database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create collection schema: %w", err)
	}

	now := time.Now()
	nowSec := now.Unix()
	nowMilli := now.UnixMilli()
	creation := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Unix()

	models, err := modelsJSON(nowSec)
	if err != nil {
		return fmt.Errorf("build models blob: %w", err)
	}
	decks, err := decksJSON(deckName, nowSec)
	if err != nil {
		return fmt.Errorf("build decks blob: %w", err)
	}
	conf, err := confJSON()
	if err != nil {
		return fmt.Errorf("build conf blob: %w", err)
	}
	dconf, err := dconfJSON()
	if err != nil {
		return fmt.Errorf("build dconf blob: %w", err)
	}

	if _, err := db.Exec(
		`INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		 VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		creation, nowMilli, nowMilli, conf, models, decks, dconf,
	); err != nil {
		return fmt.Errorf("insert col row: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin note insert: %w", err)
	}
	defer tx.Rollback()

	for i, note := range notes {
		// Millisecond timestamps offset per note keep IDs unique within
		// the package.
		noteID := nowMilli + int64(i)
		cardID := nowMilli + int64(len(notes)+i)
		guid, err := newGUID()
		if err != nil {
			return fmt.Errorf("generate note guid: %w", err)
		}

		if _, err := tx.Exec(
			`INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
			 VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`,
			noteID, guid, ModelID, nowSec, note.Fields(), note.Question, fieldChecksum(note.Question),
		); err != nil {
			return fmt.Errorf("insert note: %w", err)
		}

		if _, err := tx.Exec(
			`INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl,
			 factor, reps, lapses, left, odue, odid, flags, data)
			 VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`,
			cardID, noteID, DeckID, nowSec, i+1,
		); err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit notes: %w", err)
	}
	return nil
}

// writeArchive zips the collection and media into the final package.
// Media files are stored under ordinal names with a JSON manifest
// mapping ordinals back to filenames, per the apkg layout.
func writeArchive(path, collectionPath string, mediaPaths []string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create package file: %w", err)
	}

	zw := zip.NewWriter(out)
	if err := fillArchive(zw, collectionPath, mediaPaths); err != nil {
		out.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finalize package: %w", err)
	}
	return out.Close()
}

func fillArchive(zw *zip.Writer, collectionPath string, mediaPaths []string) error {
	if err := addFile(zw, "collection.anki2", collectionPath); err != nil {
		return err
	}

	manifest := make(map[string]string, len(mediaPaths))
	for i, mediaPath := range mediaPaths {
		ordinal := strconv.Itoa(i)
		manifest[ordinal] = filepath.Base(mediaPath)
		if err := addFile(zw, ordinal, mediaPath); err != nil {
			return err
		}
	}

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("build media manifest: %w", err)
	}
	w, err := zw.Create("media")
	if err != nil {
		return fmt.Errorf("add media manifest: %w", err)
	}
	if _, err := w.Write(manifestJSON); err != nil {
		return fmt.Errorf("write media manifest: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, name, srcPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(srcPath), err)
	}
	defer src.Close()

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("add %s to package: %w", name, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("write %s to package: %w", name, err)
	}
	return nil
}

// fieldChecksum computes the Anki sort-field checksum: the first 8 hex
// digits of the SHA1 of the field, as an integer.
func fieldChecksum(field string) int64 {
	sum := sha1.Sum([]byte(stripHTML(field)))
	v := binary.BigEndian.Uint32(sum[:4])
	return int64(v)
}

// stripHTML removes tags from a field before checksumming, matching
// Anki's behavior of checksumming visible text.
func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// newGUID returns a random note GUID. Anki only requires uniqueness
// within the collection.
func newGUID() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
