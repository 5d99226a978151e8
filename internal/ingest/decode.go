package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"strconv"
	"strings"

	"bookcatalog/internal/book"
)

var csvColumns = []string{"title", "author", "genre", "published_year"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// item is one decoded candidate. A non-empty problem means the item could
// not be read into a RawRecord and is skipped without validation.
type item struct {
	row     int
	raw     book.RawRecord
	problem string
}

// DetectFormat picks JSON or CSV from the upload's file name and content
// type. JSON wins when both match.
func DetectFormat(fileName, contentType string) (Format, error) {
	name := strings.ToLower(fileName)
	mediaType := strings.ToLower(strings.TrimSpace(contentType))
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = mt
	}

	switch {
	case strings.Contains(name, "json") || mediaType == "application/json":
		return FormatJSON, nil
	case strings.Contains(name, "csv") || mediaType == "text/csv" || mediaType == "application/csv":
		return FormatCSV, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func decode(format Format, payload []byte) ([]item, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(payload)
	case FormatCSV:
		return decodeCSV(payload)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// decodeJSON accepts a top-level array or an object with an "items" array.
func decodeJSON(payload []byte) ([]item, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedPayload, err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: invalid JSON: unexpected data after top-level value", ErrMalformedPayload)
	}

	var elems []any
	switch v := doc.(type) {
	case []any:
		elems = v
	case map[string]any:
		list, ok := v["items"].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: JSON must be an array of objects or {\"items\": [...]}", ErrMalformedPayload)
		}
		elems = list
	default:
		return nil, fmt.Errorf("%w: JSON must be an array of objects or {\"items\": [...]}", ErrMalformedPayload)
	}

	items := make([]item, len(elems))
	for i, elem := range elems {
		items[i] = jsonItem(i+1, elem)
	}
	return items, nil
}

func jsonItem(row int, elem any) item {
	obj, ok := elem.(map[string]any)
	if !ok {
		return item{row: row, problem: "item must be a JSON object"}
	}

	var problems []string
	str := func(key string) string {
		switch v := obj[key].(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			problems = append(problems, key+": must be a string")
			return ""
		}
	}

	raw := book.RawRecord{
		Title:  str("title"),
		Author: str("author"),
		Genre:  str("genre"),
	}
	year, err := jsonYear(obj["published_year"])
	if err != nil {
		problems = append(problems, "published_year: "+err.Error())
	}
	raw.PublishedYear = year

	it := item{row: row, raw: raw}
	if len(problems) > 0 {
		it.problem = strings.Join(problems, "; ")
	}
	return it
}

// jsonYear reads an integer year from a JSON number or a numeric string.
// Whole-number floats such as 1965.0 are accepted. A missing year reads as
// 0 and is left to validation.
func jsonYear(v any) (int, error) {
	switch y := v.(type) {
	case nil:
		return 0, nil
	case json.Number:
		if n, err := strconv.Atoi(y.String()); err == nil {
			return n, nil
		}
		f, err := y.Float64()
		if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, errors.New("must be an integer")
		}
		return int(f), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(y))
		if err != nil {
			return 0, errors.New("must be an integer")
		}
		return n, nil
	default:
		return 0, errors.New("must be an integer")
	}
}

// decodeCSV requires a header naming exactly title, author, genre and
// published_year in any order and case. Missing cells read as empty and an
// empty or unparseable year reads as 0.
func decodeCSV(payload []byte) ([]item, error) {
	payload = bytes.TrimPrefix(payload, utf8BOM)

	r := csv.NewReader(bytes.NewReader(payload))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: CSV header must be: %s", ErrMalformedPayload, strings.Join(csvColumns, ","))
		}
		return nil, fmt.Errorf("%w: invalid CSV: %v", ErrMalformedPayload, err)
	}
	index, ok := headerIndex(header)
	if !ok {
		return nil, fmt.Errorf("%w: CSV header must be: %s", ErrMalformedPayload, strings.Join(csvColumns, ","))
	}

	var items []item
	for row := 2; ; row++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: invalid CSV: %v", ErrMalformedPayload, err)
		}
		cell := func(col string) string {
			i := index[col]
			if i < len(record) {
				return record[i]
			}
			return ""
		}
		year, err := strconv.Atoi(strings.TrimSpace(cell("published_year")))
		if err != nil {
			year = 0
		}
		items = append(items, item{
			row: row,
			raw: book.RawRecord{
				Title:         cell("title"),
				Author:        cell("author"),
				Genre:         cell("genre"),
				PublishedYear: year,
			},
		})
	}
	return items, nil
}

func headerIndex(header []string) (map[string]int, bool) {
	if len(header) != len(csvColumns) {
		return nil, false
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(h)] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, false
		}
	}
	return index, true
}
