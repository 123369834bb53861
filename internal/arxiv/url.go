// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"fmt"
	"strings"

	"github.com/pdiddy/sieve/pkg/types"
)

// MaxPageSize is the largest max_results arXiv accepts per request.
const MaxPageSize = 1000

// escapes is applied in order. Only these characters are rewritten; the
// rest of the query is passed through as arXiv's query grammar expects.
var escapes = [...][2]string{
	{`"`, "%22"},
	{" ", "+"},
	{"(", "%28"},
	{")", "%29"},
}

// Escape rewrites the characters of a raw arXiv query that are not safe in
// the search_query parameter.
func Escape(query string) string {
	for _, r := range escapes {
		query = strings.ReplaceAll(query, r[0], r[1])
	}
	return query
}

// SearchURL returns the request URL for one page of results against the
// public arXiv endpoint, newest submissions first.
func SearchURL(query string, page, maxResults int) string {
	return buildURL(types.DefaultBaseURL, query, page, maxResults)
}

func buildURL(base, query string, page, maxResults int) string {
	return fmt.Sprintf("%s?search_query=%s&sortBy=submittedDate&sortOrder=descending&start=%d&max_results=%d",
		base, Escape(query), page*maxResults, maxResults)
}
