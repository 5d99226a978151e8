package main

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/platform/clock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleBooks_AreValid(t *testing.T) {
	v := book.NewValidator(clock.Fixed(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
	for _, raw := range sampleBooks {
		_, err := v.Validate(raw)
		assert.NoError(t, err, raw.Title)
	}
}

func TestWriteSamples(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	paths, err := writeSamples(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	body, err := os.ReadFile(filepath.Join(dir, "books.json"))
	require.NoError(t, err)
	var got []book.RawRecord
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, sampleBooks, got)

	f, err := os.Open(filepath.Join(dir, "books.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(sampleBooks)+1)
	assert.Equal(t, []string{"title", "author", "genre", "published_year"}, rows[0])
	assert.Equal(t, []string{"Dune", "Frank Herbert", "Fiction", "1965"}, rows[1])
}

func TestLoadPayload(t *testing.T) {
	body, name, err := loadPayload("")
	require.NoError(t, err)
	assert.Equal(t, "samples.json", name)
	assert.Contains(t, string(body), "Frank Herbert")

	p := filepath.Join(t.TempDir(), "mine.csv")
	require.NoError(t, os.WriteFile(p, []byte("title,author,genre,published_year\n"), 0o644))
	_, name, err = loadPayload(p)
	require.NoError(t, err)
	assert.Equal(t, "mine.csv", name)

	_, _, err = loadPayload(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
