package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"bookcatalog/internal/book"
)

var sampleBooks = []book.RawRecord{
	{Title: "Dune", Author: "Frank Herbert", Genre: "Fiction", PublishedYear: 1965},
	{Title: "Sapiens", Author: "Yuval Noah Harari", Genre: "History", PublishedYear: 2011},
	{Title: "A Brief History of Time", Author: "Stephen Hawking", Genre: "Science", PublishedYear: 1988},
}

func samplesJSON() ([]byte, error) {
	return json.MarshalIndent(sampleBooks, "", "  ")
}

// writeSamples writes books.json and books.csv into dir in the shape the
// import endpoint accepts.
func writeSamples(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	jsonPath := filepath.Join(dir, "books.json")
	body, err := samplesJSON()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(jsonPath, body, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", jsonPath, err)
	}

	csvPath := filepath.Join(dir, "books.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	_ = cw.Write([]string{"title", "author", "genre", "published_year"})
	for _, b := range sampleBooks {
		_ = cw.Write([]string{b.Title, b.Author, b.Genre, strconv.Itoa(b.PublishedYear)})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("write %s: %w", csvPath, err)
	}
	return []string{jsonPath, csvPath}, f.Close()
}
