package book

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportBooks = []Book{
	{ID: 2, Title: "Dune", Author: "Frank Herbert", Genre: GenreFiction, PublishedYear: 1965, OwnerID: 4},
	{ID: 1, Title: `The "Hobbit"`, Author: "John Tolkien", Genre: GenreFiction, PublishedYear: 1937, OwnerID: 4},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, exportBooks))

	want := "id,title,author,genre,published_year\n" +
		"2,Dune,Frank Herbert,Fiction,1965\n" +
		"1,\"The \"\"Hobbit\"\"\",John Tolkien,Fiction,1937\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_EmptyHasHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "id,title,author,genre,published_year\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, exportBooks[:1]))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, map[string]any{
		"id":             float64(2),
		"title":          "Dune",
		"author":         "Frank Herbert",
		"genre":          "Fiction",
		"published_year": float64(1965),
	}, got[0])
}

func TestWriteJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestEncode(t *testing.T) {
	body, contentType, err := Encode(FormatJSON, nil)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `[]`, string(body))

	_, _, err = Encode(Format("xml"), nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
