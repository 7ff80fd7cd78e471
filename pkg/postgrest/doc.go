// Package postgrest is a client for PostgREST-compatible REST APIs.
//
// A Client routes two credentials: an identity (apikey) header and a bearer
// Authorization header. Anonymous clients use one key for both; service
// clients carry a separate elevated key as the bearer token.
//
// Query builders translate chained calls into the PostgREST query grammar:
//
//	Builder call            | Query parameter emitted
//	------------------------|------------------------------------------------
//	Select("id", "name")    | select=id,name
//	Select()                | select=*
//	Eq("col", v)            | col=eq.<url-encoded v>
//	Neq/Gt/Gte/Lt/Lte       | col=neq.v, col=gt.v, ...
//	Like("col", "a%")       | col=like.a%25
//	In("col", a, b)         | col=in.(a,b)
//	Is("col", "null")       | col=is.null
//	Or("a.eq.x,b.lt.y")     | or=(a.eq.x%2Cb.lt.y)
//	Order("col", false)     | order=col.desc
//	Limit(10), Offset(20)   | limit=10, offset=20
//
// Filters accumulate and are combined server-side with AND; Or sets a single
// disjunction parameter and a later Or call replaces it.
//
// Every operation terminates in Execute(ctx) and resolves to a Result holding
// exactly one of Data or Err. Builders never panic and errors never escape the
// Result, so call sites need no recover or sentinel juggling:
//
//	res := client.From("products").Select().Eq("id", 1).Execute(ctx)
//	if res.Err != nil {
//		// inspect *postgrest.APIError for status and body
//	}
//
// Mutations send Prefer: return=representation and resolve with the affected
// rows; Delete sends Prefer: return=minimal and resolves with a nil Result.
// The grammar is the one PostgREST documents, see
// https://docs.postgrest.org/en/stable/references/api/tables_views.html
package postgrest
