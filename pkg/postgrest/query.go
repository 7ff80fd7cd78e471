package postgrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// filter is one predicate in the PostgREST grammar: the query parameter key
// is the column name, the value is "<operator>.<url-encoded operand>".
type filter struct {
	column string
	expr   string
}

// filterSet accumulates AND predicates plus an optional or=(...) disjunction.
type filterSet struct {
	and []filter
	or  string
}

func (f *filterSet) add(column, operator string, value any) {
	f.and = append(f.and, filter{
		column: column,
		expr:   operator + "." + url.QueryEscape(fmt.Sprint(value)),
	})
}

// addRaw appends a predicate whose operand is already in grammar form and
// must not be escaped, eg in.(a,b,c).
func (f *filterSet) addRaw(column, expr string) {
	f.and = append(f.and, filter{column: column, expr: expr})
}

func (f *filterSet) setOr(expr string) {
	f.or = url.QueryEscape(expr)
}

func (f *filterSet) empty() bool {
	return len(f.and) == 0 && f.or == ""
}

// encode appends the set's query parameters to params.
func (f *filterSet) encode(params []string) []string {
	for _, flt := range f.and {
		params = append(params, flt.column+"="+flt.expr)
	}
	if f.or != "" {
		params = append(params, "or=("+f.or+")")
	}
	return params
}

// SelectBuilder accumulates a read request. Methods return the builder so
// calls chain; a builder is consumed by a single Execute and must not be
// shared across goroutines.
type SelectBuilder struct {
	client  *Client
	table   string
	columns string
	filters filterSet
	order   []string
	limit   int
	offset  int
}

// Eq filters rows where column equals value. Filters accumulate: each call
// adds an AND predicate.
func (q *SelectBuilder) Eq(column string, value any) *SelectBuilder {
	q.filters.add(column, "eq", value)
	return q
}

// Neq filters rows where column does not equal value.
func (q *SelectBuilder) Neq(column string, value any) *SelectBuilder {
	q.filters.add(column, "neq", value)
	return q
}

// Gt filters rows where column is greater than value.
func (q *SelectBuilder) Gt(column string, value any) *SelectBuilder {
	q.filters.add(column, "gt", value)
	return q
}

// Gte filters rows where column is greater than or equal to value.
func (q *SelectBuilder) Gte(column string, value any) *SelectBuilder {
	q.filters.add(column, "gte", value)
	return q
}

// Lt filters rows where column is less than value.
func (q *SelectBuilder) Lt(column string, value any) *SelectBuilder {
	q.filters.add(column, "lt", value)
	return q
}

// Lte filters rows where column is less than or equal to value.
func (q *SelectBuilder) Lte(column string, value any) *SelectBuilder {
	q.filters.add(column, "lte", value)
	return q
}

// Like filters rows where column matches the SQL LIKE pattern.
func (q *SelectBuilder) Like(column, pattern string) *SelectBuilder {
	q.filters.add(column, "like", pattern)
	return q
}

// Ilike filters rows where column matches the pattern case-insensitively.
func (q *SelectBuilder) Ilike(column, pattern string) *SelectBuilder {
	q.filters.add(column, "ilike", pattern)
	return q
}

// In filters rows where column is one of values.
func (q *SelectBuilder) In(column string, values ...any) *SelectBuilder {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = url.QueryEscape(fmt.Sprint(v))
	}
	q.filters.addRaw(column, "in.("+strings.Join(parts, ",")+")")
	return q
}

// Is filters on null or boolean identity: value is null, true or false.
func (q *SelectBuilder) Is(column, value string) *SelectBuilder {
	q.filters.addRaw(column, "is."+value)
	return q
}

// Or sets a raw disjunction, eg "id.eq.1,name.eq.Widget". At most one
// disjunction is active; a later call replaces the previous one.
func (q *SelectBuilder) Or(expr string) *SelectBuilder {
	q.filters.setOr(expr)
	return q
}

// Order sorts results by column, ascending when ascending is true. Multiple
// calls accumulate in order.
func (q *SelectBuilder) Order(column string, ascending bool) *SelectBuilder {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = append(q.order, column+"."+dir)
	return q
}

// OrderAsc sorts results by column ascending.
func (q *SelectBuilder) OrderAsc(column string) *SelectBuilder {
	return q.Order(column, true)
}

// Limit caps the number of returned rows.
func (q *SelectBuilder) Limit(n int) *SelectBuilder {
	q.limit = n
	return q
}

// Offset skips the first n rows.
func (q *SelectBuilder) Offset(n int) *SelectBuilder {
	q.offset = n
	return q
}

// rawQuery assembles the query string. The select parameter is always
// emitted, defaulting to the all-columns marker.
func (q *SelectBuilder) rawQuery() string {
	params := []string{"select=" + q.columns}
	params = q.filters.encode(params)
	if len(q.order) > 0 {
		params = append(params, "order="+strings.Join(q.order, ","))
	}
	if q.limit > 0 {
		params = append(params, fmt.Sprintf("limit=%d", q.limit))
	}
	if q.offset > 0 {
		params = append(params, fmt.Sprintf("offset=%d", q.offset))
	}
	return strings.Join(params, "&")
}

// Execute issues the read and resolves to the parsed JSON rows.
func (q *SelectBuilder) Execute(ctx context.Context) Result {
	body, err := q.client.do(ctx, clientRequest{
		method:   http.MethodGet,
		resource: q.table,
		rawQuery: q.rawQuery(),
	})
	if err != nil {
		return errResult(err)
	}
	data, err := decodeJSON(body)
	if err != nil {
		return errResult(err)
	}
	return Result{Data: data}
}

// ExecuteInto issues the read and decodes the rows into dest, which should
// be a pointer to a slice.
func (q *SelectBuilder) ExecuteInto(ctx context.Context, dest any) error {
	res := q.Execute(ctx)
	if res.Err != nil {
		return res.Err
	}
	return res.DecodeInto(dest)
}
