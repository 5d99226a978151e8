package book

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit       = 20
	MaxLimit           = 100
	DefaultExportLimit = 100
	MaxExportLimit     = 1000
)

const (
	SortTitle  = "title"
	SortAuthor = "author"
	SortYear   = "year"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// sortColumns is the only source of ORDER BY text. Sort tokens outside it
// are rejected, never interpolated.
var sortColumns = map[string]string{
	SortTitle:  "b.title",
	SortAuthor: "a.name",
	SortYear:   "b.published_year",
}

const selectBooks = `
		SELECT b.id, b.title, a.name AS author, b.genre, b.published_year, b.owner_id
		FROM books b
		JOIN authors a ON a.id = b.author_id`

// Query defines filters, ordering and the display window for listing books.
// Zero values mean "not set": no filter, sort by title ascending, first
// DefaultLimit rows.
type Query struct {
	Search   string
	Author   string
	Genre    string
	YearFrom *int
	YearTo   *int
	Sort     string
	Order    string
	Limit    int
	Offset   int
}

// ExportQuery selects the rows of an export, always ordered by title.
type ExportQuery struct {
	Genre  string
	Limit  int
	Offset int
}

// Plan is a compiled, parameterized statement. SQL never contains caller
// supplied text; every value travels in Args.
type Plan struct {
	SQL  string
	Args []any
}

type planBuilder struct {
	clauses []string
	args    []any
}

func (b *planBuilder) arg(v any) int {
	b.args = append(b.args, v)
	return len(b.args)
}

func (b *planBuilder) where(format string, v any) {
	n := b.arg(v)
	b.clauses = append(b.clauses, strings.ReplaceAll(format, "?", "$"+strconv.Itoa(n)))
}

// build assembles the statement. A negative limit leaves the window open.
// b.id breaks ties so equal sort keys page deterministically.
func (b *planBuilder) build(sortCol, order string, limit, offset int) Plan {
	var sb strings.Builder
	sb.WriteString(selectBooks)
	if len(b.clauses) > 0 {
		sb.WriteString("\n\t\tWHERE ")
		sb.WriteString(strings.Join(b.clauses, " AND "))
	}
	dir := "ASC"
	if order == OrderDesc {
		dir = "DESC"
	}
	fmt.Fprintf(&sb, "\n\t\tORDER BY %s %s, b.id ASC", sortCol, dir)
	if limit >= 0 {
		fmt.Fprintf(&sb, "\n\t\tLIMIT $%d OFFSET $%d", b.arg(limit), b.arg(offset))
	}
	return Plan{SQL: sb.String(), Args: b.args}
}

// containsPattern turns a term into an ILIKE substring pattern, escaping
// the LIKE wildcards so they match literally.
func containsPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}

func (q Query) normalized() Query {
	q.Search = strings.TrimSpace(q.Search)
	q.Author = strings.TrimSpace(q.Author)
	if q.Sort == "" {
		q.Sort = SortTitle
	}
	if q.Order == "" {
		q.Order = OrderAsc
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}
	return q
}

func (q Query) validate() error {
	var errs ValidationErrors
	if q.Genre != "" {
		if _, ok := ParseGenre(q.Genre); !ok {
			errs = append(errs, ValidationError{Field: "genre", Reason: "must be one of " + genreList()})
		}
	}
	if q.YearFrom != nil && *q.YearFrom < MinPublishedYear {
		errs = append(errs, ValidationError{Field: "year_from", Reason: fmt.Sprintf("must be at least %d", MinPublishedYear)})
	}
	if q.YearTo != nil && *q.YearTo < MinPublishedYear {
		errs = append(errs, ValidationError{Field: "year_to", Reason: fmt.Sprintf("must be at least %d", MinPublishedYear)})
	}
	if q.YearFrom != nil && q.YearTo != nil && *q.YearFrom > *q.YearTo {
		errs = append(errs, ValidationError{Field: "year_from", Reason: "must not be greater than year_to"})
	}
	if _, ok := sortColumns[q.Sort]; !ok {
		errs = append(errs, ValidationError{Field: "sort", Reason: "must be one of title, author, year"})
	}
	if q.Order != OrderAsc && q.Order != OrderDesc {
		errs = append(errs, ValidationError{Field: "order", Reason: "must be asc or desc"})
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		errs = append(errs, ValidationError{Field: "limit", Reason: fmt.Sprintf("must be between 1 and %d", MaxLimit)})
	}
	if q.Offset < 0 {
		errs = append(errs, ValidationError{Field: "offset", Reason: "must not be negative"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Plan compiles q into a parameterized statement. Active filters are
// combined with AND; the search term is matched against title or author.
func (q Query) Plan() (Plan, error) {
	q = q.normalized()
	if err := q.validate(); err != nil {
		return Plan{}, err
	}

	var b planBuilder
	if q.Search != "" {
		b.where("(b.title ILIKE ? OR a.name ILIKE ?)", containsPattern(q.Search))
	}
	if q.Author != "" {
		b.where("a.name ILIKE ?", containsPattern(q.Author))
	}
	if q.Genre != "" {
		b.where("b.genre = ?", q.Genre)
	}
	if q.YearFrom != nil {
		b.where("b.published_year >= ?", *q.YearFrom)
	}
	if q.YearTo != nil {
		b.where("b.published_year <= ?", *q.YearTo)
	}
	return b.build(sortColumns[q.Sort], q.Order, q.Limit, q.Offset), nil
}

// OwnedPlan lists every book of one owner by title. Public filters and the
// display window do not apply.
func OwnedPlan(ownerID int64) Plan {
	var b planBuilder
	b.where("b.owner_id = ?", ownerID)
	return b.build(sortColumns[SortTitle], OrderAsc, -1, 0)
}

// Plan compiles the export selection.
func (q ExportQuery) Plan() (Plan, error) {
	if q.Limit == 0 {
		q.Limit = DefaultExportLimit
	}
	var errs ValidationErrors
	if q.Genre != "" {
		if _, ok := ParseGenre(q.Genre); !ok {
			errs = append(errs, ValidationError{Field: "genre", Reason: "must be one of " + genreList()})
		}
	}
	if q.Limit < 1 || q.Limit > MaxExportLimit {
		errs = append(errs, ValidationError{Field: "limit", Reason: fmt.Sprintf("must be between 1 and %d", MaxExportLimit)})
	}
	if q.Offset < 0 {
		errs = append(errs, ValidationError{Field: "offset", Reason: "must not be negative"})
	}
	if len(errs) > 0 {
		return Plan{}, errs
	}

	var b planBuilder
	if q.Genre != "" {
		b.where("b.genre = ?", q.Genre)
	}
	return b.build(sortColumns[SortTitle], OrderAsc, q.Limit, q.Offset), nil
}

// ParseQuery reads list parameters from a URL query string. Parameters
// that are present must be well formed; an explicit limit of 0 is
// rejected rather than treated as unset.
func ParseQuery(values url.Values) (Query, error) {
	var errs ValidationErrors
	q := Query{
		Search: values.Get("search"),
		Author: values.Get("author"),
		Genre:  values.Get("genre"),
		Sort:   values.Get("sort"),
		Order:  values.Get("order"),
	}
	q.YearFrom = optionalInt(values, "year_from", &errs)
	q.YearTo = optionalInt(values, "year_to", &errs)
	if limit := optionalInt(values, "limit", &errs); limit != nil {
		if *limit < 1 {
			errs = append(errs, ValidationError{Field: "limit", Reason: fmt.Sprintf("must be between 1 and %d", MaxLimit)})
		} else {
			q.Limit = *limit
		}
	}
	if offset := optionalInt(values, "offset", &errs); offset != nil {
		q.Offset = *offset
	}
	if len(errs) > 0 {
		return Query{}, errs
	}
	return q, nil
}

// ParseExportQuery reads export parameters from a URL query string.
func ParseExportQuery(values url.Values) (ExportQuery, error) {
	var errs ValidationErrors
	q := ExportQuery{Genre: values.Get("genre")}
	if limit := optionalInt(values, "limit", &errs); limit != nil {
		if *limit < 1 {
			errs = append(errs, ValidationError{Field: "limit", Reason: fmt.Sprintf("must be between 1 and %d", MaxExportLimit)})
		} else {
			q.Limit = *limit
		}
	}
	if offset := optionalInt(values, "offset", &errs); offset != nil {
		q.Offset = *offset
	}
	if len(errs) > 0 {
		return ExportQuery{}, errs
	}
	return q, nil
}

func optionalInt(values url.Values, key string, errs *ValidationErrors) *int {
	raw := strings.TrimSpace(values.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, ValidationError{Field: key, Reason: "must be an integer"})
		return nil
	}
	return &v
}
