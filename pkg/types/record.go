// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for sieve: the normalized
// arXiv record, the persisted collection, and configuration.
package types

import "time"

// Record is one normalized arXiv entry. Records are built once from a feed
// entry and never modified afterwards.
type Record struct {
	// ID is the entry identifier as returned by the feed
	// (e.g. "http://arxiv.org/abs/2301.07041v1").
	ID string `json:"id" yaml:"id"`

	// Title has newlines removed and whitespace runs collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists author names in feed order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the entry summary with newlines replaced by spaces.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Published is the first-version submission time, second precision, UTC.
	Published time.Time `json:"date_published" yaml:"date_published"`

	// Updated is the latest-version time, second precision, UTC.
	Updated time.Time `json:"date_updated" yaml:"date_updated"`

	// Embedding is computed outside sieve. Nil until then.
	Embedding []float64 `json:"embedding" yaml:"embedding"`
}

// Tag groups record identifiers under a set of atoms. sieve stores tags but
// never interprets them.
type Tag struct {
	Atoms []string `json:"atoms" yaml:"atoms"`
	Items []string `json:"items" yaml:"items"`
}
