// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Collection aggregates the records gathered for one arXiv query along with
// the time of the last successful update.
type Collection struct {
	QueryString string    `json:"query_string" yaml:"query_string"`
	DateUpdated time.Time `json:"date_updated" yaml:"date_updated"`
	Papers      []Record  `json:"papers" yaml:"papers"`
	Tags        []Tag     `json:"tags" yaml:"tags"`
}
