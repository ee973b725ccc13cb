// Package anki writes Anki .apkg packages: a zip archive holding a
// collection.anki2 SQLite database, a media manifest, and the media
// files themselves. It replaces an external deck-packaging library with
// a direct implementation of the schema version 11 collection format.
package anki

import "encoding/json"

// Stable identifiers for the AnkiLive note model and deck. Anki uses
// these to match re-imported cards to their model, so they must not
// change between exports.
const (
	ModelID int64 = 1234567890
	DeckID  int64 = 2059400110
)

const modelName = "AnkiLive Card"

// Card template: question on the front; screenshots then notes on the
// back.
const (
	questionFormat = "{{Question}}"
	answerFormat   = `{{FrontSide}}<hr id="answer">{{Screenshots}}<br>{{Answer}}`
)

const modelCSS = `
.card {
    font-family: Arial, sans-serif;
    font-size: 16px;
    text-align: left;
    color: black;
    background-color: white;
    padding: 20px;
}
img {
    max-width: 90%;
    max-height: 400px;
    display: block;
    margin: 10px auto;
}
hr {
    border: 1px solid #ddd;
}
small {
    color: #666;
    font-size: 12px;
}
`

const (
	latexPre = "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n" +
		"\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n" +
		"\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}\n"
	latexPost = "\\end{document}"
)

func fieldDef(name string, ord int) map[string]any {
	return map[string]any{
		"name":   name,
		"ord":    ord,
		"sticky": false,
		"rtl":    false,
		"font":   "Arial",
		"size":   20,
		"media":  []any{},
	}
}

// modelsJSON builds the col.models blob containing the single AnkiLive
// note model.
func modelsJSON(mod int64) (string, error) {
	model := map[string]any{
		"id":    ModelID,
		"name":  modelName,
		"type":  0,
		"mod":   mod,
		"usn":   0,
		"sortf": 0,
		"did":   DeckID,
		"tmpls": []any{
			map[string]any{
				"name":  "Card 1",
				"ord":   0,
				"qfmt":  questionFormat,
				"afmt":  answerFormat,
				"bqfmt": "",
				"bafmt": "",
				"did":   nil,
				"bfont": "",
				"bsize": 0,
			},
		},
		"flds": []any{
			fieldDef("Question", 0),
			fieldDef("Answer", 1),
			fieldDef("Screenshots", 2),
		},
		"css":       modelCSS,
		"latexPre":  latexPre,
		"latexPost": latexPost,
		"req":       []any{[]any{0, "all", []any{0}}},
		"tags":      []any{},
		"vers":      []any{},
	}

	b, err := json.Marshal(map[string]any{jsonKey(ModelID): model})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decksJSON builds the col.decks blob: the default deck (required by
// Anki) plus the export target deck.
func decksJSON(deckName string, mod int64) (string, error) {
	decks := map[string]any{
		"1":             deckDef(1, "Default", mod),
		jsonKey(DeckID): deckDef(DeckID, deckName, mod),
	}
	b, err := json.Marshal(decks)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func deckDef(id int64, name string, mod int64) map[string]any {
	return map[string]any{
		"id":               id,
		"name":             name,
		"desc":             "",
		"mod":              mod,
		"usn":              0,
		"collapsed":        false,
		"browserCollapsed": false,
		"newToday":         []any{0, 0},
		"revToday":         []any{0, 0},
		"lrnToday":         []any{0, 0},
		"timeToday":        []any{0, 0},
		"dyn":              0,
		"extendNew":        10,
		"extendRev":        50,
		"conf":             1,
	}
}

// confJSON builds the col.conf blob.
func confJSON() (string, error) {
	conf := map[string]any{
		"activeDecks":   []any{1},
		"addToCur":      true,
		"collapseTime":  1200,
		"curDeck":       1,
		"curModel":      jsonKey(ModelID),
		"dueCounts":     true,
		"estTimes":      true,
		"newBury":       true,
		"newSpread":     0,
		"nextPos":       1,
		"sortBackwards": false,
		"sortType":      "noteFld",
		"timeLim":       0,
	}
	b, err := json.Marshal(conf)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// dconfJSON builds the col.dconf blob with the default options group.
func dconfJSON() (string, error) {
	dconf := map[string]any{
		"1": map[string]any{
			"id":       1,
			"name":     "Default",
			"replayq":  true,
			"maxTaken": 60,
			"timer":    0,
			"autoplay": true,
			"mod":      0,
			"usn":      0,
			"new": map[string]any{
				"bury":          true,
				"delays":        []any{1, 10},
				"initialFactor": 2500,
				"ints":          []any{1, 4, 7},
				"order":         1,
				"perDay":        20,
				"separate":      true,
			},
			"rev": map[string]any{
				"bury":     true,
				"ease4":    1.3,
				"fuzz":     0.05,
				"ivlFct":   1,
				"maxIvl":   36500,
				"minSpace": 1,
				"perDay":   100,
			},
			"lapse": map[string]any{
				"delays":      []any{10},
				"leechAction": 0,
				"leechFails":  8,
				"minInt":      1,
				"mult":        0,
			},
		},
	}
	b, err := json.Marshal(dconf)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func jsonKey(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
