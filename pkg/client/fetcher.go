package client

import (
	"context"

	"github.com/crestline-bio/chemtab/pkg/encode"
)

// PageRequest describes one page of one identifier chunk. The filter value
// sent upstream is `{FilterParam}__in={comma-joined IDs}` plus
// `limit={Limit}&offset={Offset}`.
type PageRequest struct {
	Endpoint    string
	EnvelopeKey string
	FilterParam string
	IDs         []string
	Fields      []string
	Order       string
	Filters     map[string]string
	Limit       int
	Offset      int
}

// PageResult is one decoded page. TotalCount below zero means the upstream
// did not report a total; iteration then stops on the first short page.
type PageResult struct {
	Records    []encode.RawRecord
	TotalCount int
}

// PageFetcher is the underlying pagination mechanism. Implementations own
// transport concerns (TLS, pooling, low-level retry); failures propagate to
// the iterator unchanged.
type PageFetcher interface {
	FetchPage(ctx context.Context, req PageRequest) (PageResult, error)
}
