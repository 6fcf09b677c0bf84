package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogKind(t *testing.T) {
	for _, k := range []string{"games", "movies", "series", "books"} {
		got, err := ParseLogKind(k)
		require.NoError(t, err)
		assert.Equal(t, LogKind(k), got)
	}

	for _, k := range []string{"", "music", "Games", "book"} {
		_, err := ParseLogKind(k)
		assert.ErrorIs(t, err, ErrValidation, k)
	}
}

func TestRatingDecodesNumberAndString(t *testing.T) {
	var body struct {
		Rating Rating `json:"rating"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"rating":5}`), &body))
	assert.Equal(t, Rating("5"), body.Rating)

	require.NoError(t, json.Unmarshal([]byte(`{"rating":"4.5/5"}`), &body))
	assert.Equal(t, Rating("4.5/5"), body.Rating)

	require.NoError(t, json.Unmarshal([]byte(`{"rating":null}`), &body))
	assert.Equal(t, Rating(""), body.Rating)
}

func TestRatingEncodesNumericAsNumber(t *testing.T) {
	out, err := json.Marshal(map[string]Rating{"a": "5", "b": "4.5/5", "c": ""})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":5,"b":"4.5/5","c":null}`, string(out))
}

func TestPostCarriesLegacyID(t *testing.T) {
	out, err := json.Marshal(Post{ID: 7, Title: "t", Content: "c", Category: "tech"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.EqualValues(t, 7, m["id"])
	assert.EqualValues(t, 7, m["_id"])
	assert.Equal(t, "tech", m["category"])
}

func TestArchiveShape(t *testing.T) {
	out, err := json.Marshal(Archive{Year: 2024, Month: 3, Count: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":{"year":2024,"month":3},"year":2024,"month":3,"count":2}`, string(out))
}

func TestValidationErrors(t *testing.T) {
	err := Post{Title: "t"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "title, content, and category are required", Message(err, ""))

	err = LogEntry{Title: "Elden Ring", Type: "music"}.Validate()
	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, LogEntry{Title: "Elden Ring", Type: KindGames}.Validate())

	assert.ErrorIs(t, NotFound("log"), ErrNotFound)
	assert.Equal(t, "fallback", Message(NotFound("log"), "fallback"))
}

func TestRatingOnlyEmitsValidJSONNumbers(t *testing.T) {
	for _, raw := range []string{"+5", ".5", "05", "NaN", "Inf", "-Inf", "0x1p-2", "1.", "1e", " 5"} {
		entry := LogEntry{ID: 1, Title: "t", Type: KindBooks, Rating: Rating(raw)}
		out, err := json.Marshal(entry)
		require.NoError(t, err, raw)

		var back LogEntry
		require.NoError(t, json.Unmarshal(out, &back), raw)
		assert.Equal(t, strings.TrimSpace(raw), string(back.Rating), raw)

		var m map[string]any
		require.NoError(t, json.Unmarshal(out, &m))
		assert.IsType(t, "", m["rating"], raw)
	}

	for _, raw := range []string{"0", "5", "-1", "4.5", "1e3", "2.5E-1"} {
		out, err := json.Marshal(Rating(raw))
		require.NoError(t, err, raw)
		assert.Equal(t, raw, string(out))
	}
}

func TestValidateEnforcesColumnWidths(t *testing.T) {
	long := func(n int) string { return strings.Repeat("é", n) }

	assert.NoError(t, Post{Title: long(MaxTitleLen), Content: "c", Category: long(MaxCategoryLen)}.Validate())
	assert.ErrorIs(t, Post{Title: long(MaxTitleLen + 1), Content: "c", Category: "tech"}.Validate(), ErrValidation)
	assert.ErrorIs(t, Post{Title: "t", Content: "c", Category: long(MaxCategoryLen + 1)}.Validate(), ErrValidation)

	base := LogEntry{Title: "Dune", Type: KindBooks}
	assert.NoError(t, base.Validate())
	for _, mutate := range []func(*LogEntry){
		func(e *LogEntry) { e.Title = long(MaxTitleLen + 1) },
		func(e *LogEntry) { e.Rating = Rating(long(MaxRatingLen + 1)) },
		func(e *LogEntry) { e.Status = long(MaxStatusLen + 1) },
		func(e *LogEntry) { e.Completion = long(MaxCompletionLen + 1) },
		func(e *LogEntry) { e.Author = long(MaxAuthorLen + 1) },
	} {
		e := base
		mutate(&e)
		err := e.Validate()
		assert.ErrorIs(t, err, ErrValidation)
		assert.Contains(t, Message(err, ""), "at most")
	}
}
