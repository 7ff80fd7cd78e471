package postgrest

import (
	"context"
	"net/http"
	"strings"
)

// InsertBuilder accumulates a create request. The payload may be a single
// record or a slice of records.
type InsertBuilder struct {
	client    *Client
	table     string
	payload   any
	returning string
	single    bool
}

// Returning restricts the columns of the returned representation.
func (b *InsertBuilder) Returning(columns ...string) *InsertBuilder {
	b.returning = strings.Join(columns, ",")
	return b
}

// Single requires the representation to hold exactly one row and unwraps it.
// Zero rows resolve to ErrNoRows, more than one to ErrMultipleRows; the
// builder never silently discards returned rows.
func (b *InsertBuilder) Single() *InsertBuilder {
	b.single = true
	return b
}

// Execute issues the POST and resolves to the created representation.
func (b *InsertBuilder) Execute(ctx context.Context) Result {
	return b.client.executeWrite(ctx, clientRequest{
		method:   http.MethodPost,
		resource: b.table,
		rawQuery: returningQuery(b.returning),
		payload:  b.payload,
		prefer:   "return=representation",
	}, b.single)
}

// UpdateBuilder accumulates a partial update. At least one filter must be
// set before Execute; an unfiltered PATCH would rewrite the whole table.
type UpdateBuilder struct {
	client    *Client
	table     string
	payload   any
	filters   filterSet
	returning string
	single    bool
}

// Eq filters the rows to update; calls accumulate as AND predicates.
func (b *UpdateBuilder) Eq(column string, value any) *UpdateBuilder {
	b.filters.add(column, "eq", value)
	return b
}

// Returning restricts the columns of the returned representation.
func (b *UpdateBuilder) Returning(columns ...string) *UpdateBuilder {
	b.returning = strings.Join(columns, ",")
	return b
}

// Single requires the representation to hold exactly one row and unwraps it.
func (b *UpdateBuilder) Single() *UpdateBuilder {
	b.single = true
	return b
}

// Execute issues the PATCH and resolves to the updated representation.
func (b *UpdateBuilder) Execute(ctx context.Context) Result {
	if b.filters.empty() {
		return errResult(ErrMissingFilter)
	}
	params := b.filters.encode(nil)
	if q := returningQuery(b.returning); q != "" {
		params = append([]string{q}, params...)
	}
	return b.client.executeWrite(ctx, clientRequest{
		method:   http.MethodPatch,
		resource: b.table,
		rawQuery: strings.Join(params, "&"),
		payload:  b.payload,
		prefer:   "return=representation",
	}, b.single)
}

// DeleteBuilder accumulates a delete. At least one filter must be set
// before Execute.
type DeleteBuilder struct {
	client  *Client
	table   string
	filters filterSet
}

// Eq filters the rows to delete; calls accumulate as AND predicates.
func (b *DeleteBuilder) Eq(column string, value any) *DeleteBuilder {
	b.filters.add(column, "eq", value)
	return b
}

// Execute issues the DELETE. No representation is requested; success
// resolves with both Data and Err nil.
func (b *DeleteBuilder) Execute(ctx context.Context) Result {
	if b.filters.empty() {
		return errResult(ErrMissingFilter)
	}
	_, err := b.client.do(ctx, clientRequest{
		method:   http.MethodDelete,
		resource: b.table,
		rawQuery: strings.Join(b.filters.encode(nil), "&"),
		prefer:   "return=minimal",
	})
	if err != nil {
		return errResult(err)
	}
	return Result{}
}

func returningQuery(returning string) string {
	if returning == "" {
		return ""
	}
	return "select=" + returning
}

// executeWrite runs a representation-returning mutation and applies the
// single-row policy when requested.
func (c *Client) executeWrite(ctx context.Context, req clientRequest, single bool) Result {
	body, err := c.do(ctx, req)
	if err != nil {
		return errResult(err)
	}
	data, err := decodeJSON(body)
	if err != nil {
		return errResult(err)
	}
	if single {
		rows, ok := data.([]any)
		if !ok {
			// server already returned a single object
			return Result{Data: data}
		}
		switch len(rows) {
		case 0:
			return errResult(ErrNoRows)
		case 1:
			return Result{Data: rows[0]}
		default:
			return errResult(ErrMultipleRows)
		}
	}
	return Result{Data: data}
}
