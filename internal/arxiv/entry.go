// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pdiddy/sieve/pkg/types"
)

// ErrMalformedEntry is returned when a feed entry lacks a required field.
var ErrMalformedEntry = errors.New("malformed feed entry")

// NormalizeEntry converts one Atom entry into a Record. The title has all
// whitespace runs collapsed; the abstract only has its newlines replaced.
// Timestamps keep second precision in UTC.
func NormalizeEntry(item *gofeed.Item) (types.Record, error) {
	if item == nil {
		return types.Record{}, fmt.Errorf("%w: nil entry", ErrMalformedEntry)
	}

	var missing []string
	if item.GUID == "" {
		missing = append(missing, "id")
	}
	if item.Title == "" {
		missing = append(missing, "title")
	}
	if item.PublishedParsed == nil {
		missing = append(missing, "published")
	}
	if item.UpdatedParsed == nil {
		missing = append(missing, "updated")
	}
	if len(missing) > 0 {
		return types.Record{}, fmt.Errorf("%w %q: missing %s", ErrMalformedEntry, item.GUID, strings.Join(missing, ", "))
	}

	authors := make([]string, 0, len(item.Authors))
	for _, a := range item.Authors {
		if a != nil {
			authors = append(authors, a.Name)
		}
	}

	return types.Record{
		ID:        item.GUID,
		Title:     strings.Join(strings.Fields(strings.ReplaceAll(item.Title, "\n", " ")), " "),
		Authors:   authors,
		Abstract:  strings.ReplaceAll(item.Description, "\n", " "),
		Published: toSeconds(*item.PublishedParsed),
		Updated:   toSeconds(*item.UpdatedParsed),
	}, nil
}

// toSeconds keeps year through second of t in UTC.
func toSeconds(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
