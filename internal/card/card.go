// Package card defines the flashcard model shared by the repository,
// the orchestrator, and the export pipeline.
package card

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Card is one persisted flashcard: question, markdown notes, and an
// ordered list of screenshot filenames relative to the media directory.
// Ordering is significant: screenshots are shown in sequence on the
// card back.
type Card struct {
	ID          string    `json:"id"`
	Question    string    `json:"question"`
	Notes       string    `json:"notes"`
	Screenshots []string  `json:"screenshots"`
	CreatedAt   time.Time `json:"created_at"`
}

// Input contains the fields needed to create a card. Screenshots are
// absolute paths to captured image files awaiting adoption by the
// repository's media directory.
type Input struct {
	Question    string
	Notes       string
	Screenshots []string
}

// Validate enforces the card creation invariants: a non-blank question
// and at least one screenshot.
func (in Input) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Question, validation.Required.Error("question must not be blank"), validation.By(notBlank)),
		validation.Field(&in.Screenshots, validation.Required.Error("at least one screenshot is required")),
	)
}

func notBlank(value interface{}) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_blank", "must not be blank")
	}
	return nil
}

// Draft is the card editor's working copy. The dialog may reorder, add,
// or remove screenshots in the draft; the pending buffer is untouched
// until the user saves.
type Draft struct {
	Question    string
	Notes       string
	Screenshots []string
}

// Clone returns an independent copy so dialog edits never alias the
// orchestrator's pending buffer.
func (d Draft) Clone() Draft {
	out := d
	out.Screenshots = append([]string(nil), d.Screenshots...)
	return out
}
