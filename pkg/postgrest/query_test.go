package postgrest

import (
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New("http://localhost:3000", "anon-key", WithLogger(zap.NewNop()))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return c
}

func TestSelectBuilderQueryString(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		name  string
		build func() *SelectBuilder
		want  string
	}{
		{
			name:  "default selects all columns",
			build: func() *SelectBuilder { return c.From("products").Select() },
			want:  "select=*",
		},
		{
			name:  "explicit columns",
			build: func() *SelectBuilder { return c.From("products").Select("id", "name") },
			want:  "select=id,name",
		},
		{
			name:  "equality filter",
			build: func() *SelectBuilder { return c.From("products").Select().Eq("id", 1) },
			want:  "select=*&id=eq.1",
		},
		{
			name:  "filter value is url-encoded",
			build: func() *SelectBuilder { return c.From("products").Select().Eq("name", "Widget & Co") },
			want:  "select=*&name=eq.Widget+%26+Co",
		},
		{
			name: "filters accumulate as AND predicates",
			build: func() *SelectBuilder {
				return c.From("products").Select().Eq("id", 1).Gt("price", 10)
			},
			want: "select=*&id=eq.1&price=gt.10",
		},
		{
			name:  "in filter",
			build: func() *SelectBuilder { return c.From("products").Select().In("id", 1, 2, 3) },
			want:  "select=*&id=in.(1,2,3)",
		},
		{
			name:  "is null filter",
			build: func() *SelectBuilder { return c.From("products").Select().Is("deleted_at", "null") },
			want:  "select=*&deleted_at=is.null",
		},
		{
			name:  "like filter escapes pattern",
			build: func() *SelectBuilder { return c.From("products").Select().Like("name", "Wid%") },
			want:  "select=*&name=like.Wid%25",
		},
		{
			name:  "or disjunction is wrapped and encoded",
			build: func() *SelectBuilder { return c.From("products").Select().Or("id.eq.1,name.eq.Widget") },
			want:  "select=*&or=(id.eq.1%2Cname.eq.Widget)",
		},
		{
			name: "later or replaces earlier or",
			build: func() *SelectBuilder {
				return c.From("products").Select().Or("id.eq.1").Or("id.eq.2")
			},
			want: "select=*&or=(id.eq.2)",
		},
		{
			name:  "order ascending",
			build: func() *SelectBuilder { return c.From("products").Select().Order("name", true) },
			want:  "select=*&order=name.asc",
		},
		{
			name:  "order descending",
			build: func() *SelectBuilder { return c.From("products").Select().Order("name", false) },
			want:  "select=*&order=name.desc",
		},
		{
			name: "multiple order directives accumulate",
			build: func() *SelectBuilder {
				return c.From("products").Select().OrderAsc("name").Order("id", false)
			},
			want: "select=*&order=name.asc,id.desc",
		},
		{
			name: "limit and offset",
			build: func() *SelectBuilder {
				return c.From("products").Select().Limit(10).Offset(20)
			},
			want: "select=*&limit=10&offset=20",
		},
		{
			name: "full chain",
			build: func() *SelectBuilder {
				return c.From("products").Select("id", "name").
					Eq("category", "tools").
					Neq("status", "archived").
					Order("name", true).
					Limit(5)
			},
			want: "select=id,name&category=eq.tools&status=neq.archived&order=name.asc&limit=5",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.build().rawQuery()
			if got != tc.want {
				t.Errorf("rawQuery() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestComparisonFilters(t *testing.T) {
	c := newTestClient(t)

	tests := []struct {
		name  string
		build func() *SelectBuilder
		want  string
	}{
		{"gte", func() *SelectBuilder { return c.From("t").Select().Gte("n", 1) }, "select=*&n=gte.1"},
		{"lt", func() *SelectBuilder { return c.From("t").Select().Lt("n", 1) }, "select=*&n=lt.1"},
		{"lte", func() *SelectBuilder { return c.From("t").Select().Lte("n", 1) }, "select=*&n=lte.1"},
		{"ilike", func() *SelectBuilder { return c.From("t").Select().Ilike("s", "a%") }, "select=*&s=ilike.a%25"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.build().rawQuery(); got != tc.want {
				t.Errorf("rawQuery() = %q, want %q", got, tc.want)
			}
		})
	}
}
