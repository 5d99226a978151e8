package book

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestQueryPlan_Defaults(t *testing.T) {
	plan, err := Query{}.Plan()
	require.NoError(t, err)

	assert.NotContains(t, plan.SQL, "WHERE")
	assert.Contains(t, plan.SQL, "ORDER BY b.title ASC, b.id ASC")
	assert.Contains(t, plan.SQL, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{DefaultLimit, 0}, plan.Args)
}

func TestQueryPlan_AllFilters(t *testing.T) {
	plan, err := Query{
		Search:   "dune",
		Author:   "herbert",
		Genre:    "Fiction",
		YearFrom: intPtr(1960),
		YearTo:   intPtr(1970),
		Sort:     SortYear,
		Order:    OrderDesc,
		Limit:    10,
		Offset:   20,
	}.Plan()
	require.NoError(t, err)

	assert.Contains(t, plan.SQL, "WHERE (b.title ILIKE $1 OR a.name ILIKE $1) AND a.name ILIKE $2 AND b.genre = $3 AND b.published_year >= $4 AND b.published_year <= $5")
	assert.Contains(t, plan.SQL, "ORDER BY b.published_year DESC, b.id ASC")
	assert.Contains(t, plan.SQL, "LIMIT $6 OFFSET $7")
	assert.Equal(t, []any{"%dune%", "%herbert%", "Fiction", 1960, 1970, 10, 20}, plan.Args)
}

func TestQueryPlan_SortByAuthor(t *testing.T) {
	plan, err := Query{Sort: SortAuthor}.Plan()
	require.NoError(t, err)
	assert.Contains(t, plan.SQL, "ORDER BY a.name ASC, b.id ASC")
}

func TestQueryPlan_ValuesNeverReachSQL(t *testing.T) {
	hostile := "x'; DROP TABLE books; --"
	plan, err := Query{Search: hostile, Author: hostile}.Plan()
	require.NoError(t, err)

	assert.NotContains(t, plan.SQL, "DROP")
	assert.Equal(t, "%"+hostile+"%", plan.Args[0])
}

func TestQueryPlan_EscapesLikeWildcards(t *testing.T) {
	plan, err := Query{Search: `50%_off\`}.Plan()
	require.NoError(t, err)
	assert.Equal(t, `%50\%\_off\\%`, plan.Args[0])
}

func TestQueryPlan_BlankSearchIgnored(t *testing.T) {
	plan, err := Query{Search: "   "}.Plan()
	require.NoError(t, err)
	assert.NotContains(t, plan.SQL, "ILIKE")
}

func TestQueryPlan_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		q     Query
		field string
	}{
		{"unknown sort", Query{Sort: "rating"}, "sort"},
		{"injected sort", Query{Sort: "title; DROP TABLE books"}, "sort"},
		{"bad order", Query{Order: "sideways"}, "order"},
		{"limit too large", Query{Limit: MaxLimit + 1}, "limit"},
		{"negative limit", Query{Limit: -1}, "limit"},
		{"negative offset", Query{Offset: -5}, "offset"},
		{"unknown genre", Query{Genre: "Poetry"}, "genre"},
		{"year below range", Query{YearFrom: intPtr(1700)}, "year_from"},
		{"inverted range", Query{YearFrom: intPtr(2000), YearTo: intPtr(1990)}, "year_from"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.q.Plan()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Equal(t, []string{tt.field}, fieldsOf(err))
		})
	}
}

func TestOwnedPlan(t *testing.T) {
	plan := OwnedPlan(42)

	assert.Contains(t, plan.SQL, "WHERE b.owner_id = $1")
	assert.Contains(t, plan.SQL, "ORDER BY b.title ASC, b.id ASC")
	assert.NotContains(t, plan.SQL, "LIMIT")
	assert.Equal(t, []any{int64(42)}, plan.Args)
}

func TestExportQueryPlan(t *testing.T) {
	plan, err := ExportQuery{}.Plan()
	require.NoError(t, err)
	assert.Equal(t, []any{DefaultExportLimit, 0}, plan.Args)
	assert.Contains(t, plan.SQL, "ORDER BY b.title ASC, b.id ASC")

	plan, err = ExportQuery{Genre: "Science", Limit: 1000, Offset: 5}.Plan()
	require.NoError(t, err)
	assert.Contains(t, plan.SQL, "WHERE b.genre = $1")
	assert.Equal(t, []any{"Science", 1000, 5}, plan.Args)

	_, err = ExportQuery{Limit: 1001}.Plan()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseQuery(t *testing.T) {
	values := url.Values{
		"search":    {"dune"},
		"genre":     {"Fiction"},
		"year_from": {"1960"},
		"sort":      {"author"},
		"order":     {"desc"},
		"limit":     {"5"},
		"offset":    {"10"},
	}
	q, err := ParseQuery(values)
	require.NoError(t, err)

	assert.Equal(t, "dune", q.Search)
	assert.Equal(t, "Fiction", q.Genre)
	require.NotNil(t, q.YearFrom)
	assert.Equal(t, 1960, *q.YearFrom)
	assert.Nil(t, q.YearTo)
	assert.Equal(t, SortAuthor, q.Sort)
	assert.Equal(t, OrderDesc, q.Order)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 10, q.Offset)
}

func TestParseQuery_Invalid(t *testing.T) {
	_, err := ParseQuery(url.Values{"limit": {"0"}, "year_to": {"soon"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ElementsMatch(t, []string{"limit", "year_to"}, fieldsOf(err))
	assert.True(t, strings.Contains(err.Error(), "must be an integer"))
}

func TestParseExportQuery(t *testing.T) {
	q, err := ParseExportQuery(url.Values{"genre": {"History"}, "limit": {"250"}})
	require.NoError(t, err)
	assert.Equal(t, ExportQuery{Genre: "History", Limit: 250}, q)

	_, err = ParseExportQuery(url.Values{"offset": {"x"}})
	assert.ErrorIs(t, err, ErrInvalid)
}
