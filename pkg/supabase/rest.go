package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Query builds PostgREST query parameters.
type Query struct {
	values url.Values
}

func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// Select limits the returned columns, "*" for all.
func (q *Query) Select(columns string) *Query {
	q.values.Set("select", columns)
	return q
}

// Eq adds a column=eq.value filter.
func (q *Query) Eq(column, value string) *Query {
	q.values.Add(column, "eq."+value)
	return q
}

// Order sorts by column, descending when desc is set.
func (q *Query) Order(column string, desc bool) *Query {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	q.values.Set("order", column+"."+dir)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.values.Set("limit", strconv.Itoa(n))
	return q
}

func (q *Query) Values() url.Values {
	if q == nil {
		return nil
	}
	return q.values
}

// Rest is a PostgREST client for one project.
type Rest struct {
	client *Client
}

func NewRest(client *Client) *Rest {
	return &Rest{client: client}
}

var representation = http.Header{"Prefer": []string{"return=representation"}}

// Get returns the JSON array of rows matching q.
func (r *Rest) Get(ctx context.Context, table string, q *Query) ([]byte, error) {
	return r.client.do(ctx, http.MethodGet, "/rest/v1/"+table, q.Values(), nil, nil)
}

// Insert writes row and returns the stored rows.
func (r *Rest) Insert(ctx context.Context, table string, row any) ([]byte, error) {
	return r.client.do(ctx, http.MethodPost, "/rest/v1/"+table, nil, row, representation)
}

// Update patches rows matching q and returns them after the change.
func (r *Rest) Update(ctx context.Context, table string, q *Query, patch any) ([]byte, error) {
	return r.client.do(ctx, http.MethodPatch, "/rest/v1/"+table, q.Values(), patch, representation)
}

// Delete removes rows matching q and returns what was removed.
func (r *Rest) Delete(ctx context.Context, table string, q *Query) ([]byte, error) {
	return r.client.do(ctx, http.MethodDelete, "/rest/v1/"+table, q.Values(), nil, representation)
}
