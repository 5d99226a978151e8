package ingest

import (
	"testing"

	"bookcatalog/internal/book"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		want        Format
		wantErr     error
	}{
		{"json by name", "Books.JSON", "", FormatJSON, nil},
		{"csv by name", "export.csv", "", FormatCSV, nil},
		{"json by content type", "upload", "application/json", FormatJSON, nil},
		{"json content type with params", "upload", "application/json; charset=utf-8", FormatJSON, nil},
		{"csv content type", "upload", "text/csv", FormatCSV, nil},
		{"application csv", "upload", "application/csv", FormatCSV, nil},
		{"json wins over csv", "books.csv.json", "", FormatJSON, nil},
		{"unsupported", "books.xml", "application/xml", "", ErrUnsupportedFormat},
		{"nothing", "", "", "", ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.fileName, tt.contentType)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeJSON_Shapes(t *testing.T) {
	record := `{"title":"Dune","author":"Frank Herbert","genre":"Fiction","published_year":1965}`
	want := book.RawRecord{Title: "Dune", Author: "Frank Herbert", Genre: "Fiction", PublishedYear: 1965}

	items, err := decodeJSON([]byte(`[` + record + `]`))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, item{row: 1, raw: want}, items[0])

	items, err = decodeJSON([]byte(`{"items":[` + record + `,` + record + `]}`))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[1].row)
}

func TestDecodeJSON_Malformed(t *testing.T) {
	for _, payload := range []string{
		`{"books":[]}`,
		`{"items":{}}`,
		`"just a string"`,
		`42`,
		`[{"title":`,
		``,
		`[{"title":"Dune"}] garbage`,
		`[] []`,
	} {
		_, err := decodeJSON([]byte(payload))
		assert.ErrorIs(t, err, ErrMalformedPayload, payload)
	}
}

func TestDecodeJSON_ItemProblems(t *testing.T) {
	items, err := decodeJSON([]byte(`[
		"not an object",
		{"title": 12, "author": "Frank Herbert", "genre": "Fiction", "published_year": 1965},
		{"title": "Dune", "author": "Frank Herbert", "genre": "Fiction", "published_year": "1965"},
		{"title": "Dune", "author": "Frank Herbert", "genre": "Fiction", "published_year": 1965.5},
		{"title": "Dune", "author": null, "genre": "Fiction"},
		{"title": "Dune", "author": "Frank Herbert", "genre": "Fiction", "published_year": 1965.0}
	]`))
	require.NoError(t, err)
	require.Len(t, items, 6)

	assert.Equal(t, "item must be a JSON object", items[0].problem)
	assert.Equal(t, "title: must be a string", items[1].problem)
	assert.Empty(t, items[2].problem)
	assert.Equal(t, 1965, items[2].raw.PublishedYear)
	assert.Equal(t, "published_year: must be an integer", items[3].problem)
	assert.Empty(t, items[4].problem)
	assert.Equal(t, "", items[4].raw.Author)
	assert.Equal(t, 0, items[4].raw.PublishedYear)
	assert.Empty(t, items[5].problem)
	assert.Equal(t, 1965, items[5].raw.PublishedYear)
}

func TestDecodeCSV_BareQuoteInField(t *testing.T) {
	items, err := decodeCSV([]byte("title,author,genre,published_year\n" +
		"Dune,Frank Herbert,Fiction,1965\n" +
		"The \"Best\" Book,Jane Doe,Fiction,2001\n"))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, `The "Best" Book`, items[1].raw.Title)
	assert.Equal(t, 2001, items[1].raw.PublishedYear)
}

func TestDecodeCSV(t *testing.T) {
	payload := "\xEF\xBB\xBFTitle,AUTHOR,genre,Published_Year\n" +
		"Dune,Frank Herbert,Fiction,1965\n" +
		"\"The \"\"Hobbit\"\"\",John Tolkien,Fiction,\n" +
		"Short Row,Someone\n" +
		"Bad Year,Someone,History,soon\n"

	items, err := decodeCSV([]byte(payload))
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, item{row: 2, raw: book.RawRecord{Title: "Dune", Author: "Frank Herbert", Genre: "Fiction", PublishedYear: 1965}}, items[0])
	assert.Equal(t, `The "Hobbit"`, items[1].raw.Title)
	assert.Equal(t, 0, items[1].raw.PublishedYear)
	assert.Equal(t, item{row: 4, raw: book.RawRecord{Title: "Short Row", Author: "Someone"}}, items[2])
	assert.Equal(t, 5, items[3].row)
	assert.Equal(t, 0, items[3].raw.PublishedYear)
}

func TestDecodeCSV_ColumnOrderFromHeader(t *testing.T) {
	items, err := decodeCSV([]byte("published_year,genre,author,title\n1965,Fiction,Frank Herbert,Dune\n"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, book.RawRecord{Title: "Dune", Author: "Frank Herbert", Genre: "Fiction", PublishedYear: 1965}, items[0].raw)
}

func TestDecodeCSV_BadHeader(t *testing.T) {
	for _, payload := range []string{
		"title,author,genre\nDune,Frank Herbert,Fiction\n",
		"title,author,genre,published_year,isbn\n",
		"title,author,genre,year\n",
		"title,title,genre,published_year\n",
		"",
	} {
		_, err := decodeCSV([]byte(payload))
		assert.ErrorIs(t, err, ErrMalformedPayload, payload)
	}
}

func TestDecodeCSV_HeaderOnly(t *testing.T) {
	items, err := decodeCSV([]byte("title,author,genre,published_year\n"))
	require.NoError(t, err)
	assert.Empty(t, items)
}
