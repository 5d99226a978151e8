package book

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

var ErrUnknownFormat = errors.New("unknown export format")

var csvHeader = []string{"id", "title", "author", "genre", "published_year"}

// ParseFormat accepts json or csv; an empty string means json.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatCSV):
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType is the MIME type of the encoded export.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Archiver stores a finished export and returns its location.
type Archiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// WriteJSON writes books as a JSON array. No books encode as [].
func WriteJSON(w io.Writer, books []Book) error {
	if books == nil {
		books = []Book{}
	}
	return json.NewEncoder(w).Encode(books)
}

// WriteCSV writes the fixed header followed by one row per book.
func WriteCSV(w io.Writer, books []Book) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range books {
		row := []string{
			strconv.FormatInt(b.ID, 10),
			b.Title,
			b.Author,
			string(b.Genre),
			strconv.Itoa(b.PublishedYear),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Encode buffers the whole export so a failure never leaves a partial
// body behind.
func Encode(format Format, books []Book) ([]byte, string, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJSON:
		err = WriteJSON(&buf, books)
	case FormatCSV:
		err = WriteCSV(&buf, books)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), format.ContentType(), nil
}
