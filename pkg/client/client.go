package client

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/crestline-bio/chemtab/pkg/encode"
	"github.com/crestline-bio/chemtab/pkg/entity"
)

// Client retrieves raw records for one entity in bounded identifier chunks,
// respecting the descriptor's chunk size, optional URL length cap, and a
// requests-per-second limit. It issues one request at a time; there is no
// concurrency and no retry at this layer.
type Client struct {
	desc    *entity.Descriptor
	fetcher PageFetcher
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewClient creates a client for the given entity. requestsPerSecond at or
// below zero disables rate limiting.
func NewClient(desc *entity.Descriptor, fetcher PageFetcher, requestsPerSecond float64, logger *zap.Logger) *Client {
	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Client{
		desc:    desc,
		fetcher: fetcher,
		limiter: limiter,
		logger:  logger,
	}
}

// IterateByIDs returns a lazy iterator over the raw records for ids.
// Blank identifiers are dropped; an empty remainder yields an empty
// iteration with no request issued. Each call is restartable, but a failed
// iteration is not resumable; callers retry the whole call. Abandoning the
// iterator simply stops further requests.
func (c *Client) IterateByIDs(ctx context.Context, ids []string, pageSize int) *Iterator {
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}

	if pageSize <= 0 || pageSize > c.desc.ChunkSize {
		pageSize = c.desc.ChunkSize
	}

	return &Iterator{
		ctx:      ctx,
		client:   c,
		chunks:   chunkIDs(clean, c.desc.ChunkSize, c.desc.MaxURLLength),
		pageSize: pageSize,
	}
}

// chunkIDs splits ids into the smallest number of contiguous chunks that
// hold at most chunkSize identifiers each and whose encoded filter value
// stays under maxURLLength when it is set. A single identifier whose
// encoded form alone exceeds the limit still gets its own chunk; the bound
// is "do not exceed when avoidable".
func chunkIDs(ids []string, chunkSize, maxURLLength int) [][]string {
	var chunks [][]string
	var current []string

	for _, id := range ids {
		if len(current) > 0 {
			if len(current) >= chunkSize || (maxURLLength > 0 && encodedFilterLen(append(current, id)) > maxURLLength) {
				chunks = append(chunks, current)
				current = nil
			}
		}
		current = append(current, id)
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}

// encodedFilterLen is the length of the URL-encoded comma-joined filter
// value for a candidate chunk.
func encodedFilterLen(ids []string) int {
	return len(url.QueryEscape(strings.Join(ids, ",")))
}

// Iterator walks the records of one IterateByIDs call lazily, fetching
// pages as they are consumed.
type Iterator struct {
	ctx      context.Context
	client   *Client
	chunks   [][]string
	pageSize int

	chunkIdx   int
	offset     int
	firstOfChk bool
	buf        []encode.RawRecord
	bufIdx     int
	started    bool
	done       bool
	err        error
}

// Next advances to the next record, fetching upstream pages as needed.
// It returns false when iteration is exhausted or a fetch failed; check
// Err afterwards.
func (it *Iterator) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if !it.started {
		it.started = true
		it.firstOfChk = true
	}

	for it.bufIdx >= len(it.buf) {
		if !it.fetchNext() {
			return false
		}
	}
	it.bufIdx++
	return true
}

// Record returns the record positioned by the last successful Next.
func (it *Iterator) Record() encode.RawRecord {
	return it.buf[it.bufIdx-1]
}

// Err returns the first error encountered during iteration, if any.
func (it *Iterator) Err() error {
	return it.err
}

// fetchNext retrieves the next page, moving to the next chunk when the
// current one is exhausted. Returns false when there is nothing left or a
// fetch failed.
func (it *Iterator) fetchNext() bool {
	for {
		if it.chunkIdx >= len(it.chunks) {
			it.done = true
			return false
		}
		chunk := it.chunks[it.chunkIdx]

		// The rate limit is enforced before each chunk's first request.
		if it.firstOfChk && it.client.limiter != nil {
			if err := it.client.limiter.Wait(it.ctx); err != nil {
				it.err = err
				return false
			}
		}

		desc := it.client.desc
		result, err := it.client.fetcher.FetchPage(it.ctx, PageRequest{
			Endpoint:    desc.Endpoint,
			EnvelopeKey: desc.EnvelopeKey,
			FilterParam: desc.FilterParam,
			IDs:         chunk,
			Fields:      desc.DefaultFields,
			Order:       desc.DefaultOrder,
			Filters:     desc.DefaultFilters,
			Limit:       it.pageSize,
			Offset:      it.offset,
		})
		if err != nil {
			it.err = err
			return false
		}
		it.firstOfChk = false

		it.client.logger.Debug("fetched page",
			zap.String("entity", desc.Name),
			zap.Int("chunk", it.chunkIdx),
			zap.Int("offset", it.offset),
			zap.Int("records", len(result.Records)))

		exhausted := len(result.Records) < it.pageSize
		if result.TotalCount >= 0 && it.offset+len(result.Records) >= result.TotalCount {
			exhausted = true
		}

		it.offset += len(result.Records)
		if exhausted {
			it.chunkIdx++
			it.offset = 0
			it.firstOfChk = true
		}

		if len(result.Records) > 0 {
			it.buf = result.Records
			it.bufIdx = 0
			return true
		}
		if it.chunkIdx >= len(it.chunks) {
			it.done = true
			return false
		}
		// Empty page for this chunk; move on to the next one.
	}
}
