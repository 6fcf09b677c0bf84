package models

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// LogKind is the media category of a log entry.
type LogKind string

const (
	KindGames  LogKind = "games"
	KindMovies LogKind = "movies"
	KindSeries LogKind = "series"
	KindBooks  LogKind = "books"
)

var LogKinds = []LogKind{KindGames, KindMovies, KindSeries, KindBooks}

func (k LogKind) Valid() bool {
	switch k {
	case KindGames, KindMovies, KindSeries, KindBooks:
		return true
	}
	return false
}

// ParseLogKind rejects anything outside the fixed set of kinds.
func ParseLogKind(s string) (LogKind, error) {
	k := LogKind(s)
	if !k.Valid() {
		return "", Invalid("invalid log type")
	}
	return k, nil
}

type LogEntry struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Type       LogKind   `json:"type"`
	Content    string    `json:"content"`
	Rating     Rating    `json:"rating"`
	Status     string    `json:"status"`
	Completion string    `json:"completion"`
	Author     string    `json:"author"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (e LogEntry) MarshalJSON() ([]byte, error) {
	type plain LogEntry
	return json.Marshal(struct {
		plain
		LegacyID int64 `json:"_id"`
	}{plain: plain(e), LegacyID: e.ID})
}

func (e LogEntry) Validate() error {
	if e.Title == "" || e.Type == "" {
		return Invalid("title and type are required")
	}
	if !e.Type.Valid() {
		return Invalid("invalid log type")
	}
	for _, f := range []struct {
		name  string
		value string
		max   int
	}{
		{"title", e.Title, MaxTitleLen},
		{"rating", string(e.Rating), MaxRatingLen},
		{"status", e.Status, MaxStatusLen},
		{"completion", e.Completion, MaxCompletionLen},
		{"author", e.Author, MaxAuthorLen},
	} {
		if err := checkLen(f.name, f.value, f.max); err != nil {
			return err
		}
	}
	return nil
}

// jsonNumberRx is the JSON number grammar. Text that only parses as a Go
// float ("+5", ".5", "05", "NaN", "Inf", hex floats) is emitted as a string.
var jsonNumberRx = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Rating is stored as free text ("5", "4.5/5", "DNF"). It decodes from a
// JSON number or string and encodes back as a number whenever it is one.
type Rating string

func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = Rating(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = Rating(n.String())
	return nil
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	if jsonNumberRx.MatchString(string(r)) {
		return []byte(r), nil
	}
	return json.Marshal(string(r))
}
