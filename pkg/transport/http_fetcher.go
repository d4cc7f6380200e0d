package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crestline-bio/chemtab/pkg/apperrors"
	"github.com/crestline-bio/chemtab/pkg/client"
	"github.com/crestline-bio/chemtab/pkg/encode"
	"github.com/crestline-bio/chemtab/pkg/logging"
	"github.com/crestline-bio/chemtab/pkg/retry"
)

// HTTPFetcher implements client.PageFetcher over a JSON REST upstream.
// It owns the transport concerns the pagination layer delegates downward:
// request construction, envelope unwrapping, and transient-failure retry.
type HTTPFetcher struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   *retry.Config
	logger     *zap.Logger
}

// NewHTTPFetcher creates a fetcher for the given upstream base URL. A nil
// httpClient gets a default with a 30s timeout; a nil retryCfg gets
// retry.DefaultConfig.
func NewHTTPFetcher(baseURL string, httpClient *http.Client, retryCfg *retry.Config, logger *zap.Logger) *HTTPFetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if retryCfg == nil {
		retryCfg = retry.DefaultConfig()
	}
	return &HTTPFetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		retryCfg:   retryCfg,
		logger:     logger,
	}
}

var _ client.PageFetcher = (*HTTPFetcher)(nil)

// httpStatusError marks non-2xx responses so the retry layer can
// distinguish transient upstream failures from permanent ones.
type httpStatusError struct {
	status int
	url    string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("upstream returned %d for %s", e.status, logging.SanitizeURL(e.url))
}

func (e *httpStatusError) IsRetryable() bool {
	return e.status == http.StatusTooManyRequests || e.status >= 500
}

// FetchPage issues one page request and decodes the configured response
// envelope.
func (f *HTTPFetcher) FetchPage(ctx context.Context, req client.PageRequest) (client.PageResult, error) {
	target := f.buildURL(req)

	f.logger.Debug("requesting page", zap.String("url", logging.SanitizeURL(target)))

	body, err := retry.DoWithResult(ctx, f.retryCfg, func() ([]byte, error) {
		return f.get(ctx, target)
	})
	if err != nil {
		f.logger.Warn("page request failed",
			zap.String("url", logging.SanitizeURL(target)),
			zap.String("error", logging.SanitizeError(err)))
		return client.PageResult{}, err
	}

	return decodeEnvelope(body, req.EnvelopeKey)
}

func (f *HTTPFetcher) buildURL(req client.PageRequest) string {
	params := url.Values{}
	params.Set(req.FilterParam+"__in", strings.Join(req.IDs, ","))
	params.Set("limit", strconv.Itoa(req.Limit))
	params.Set("offset", strconv.Itoa(req.Offset))
	if len(req.Fields) > 0 {
		params.Set("only", strings.Join(req.Fields, ","))
	}
	if req.Order != "" {
		params.Set("order_by", req.Order)
	}
	for k, v := range req.Filters {
		params.Set(k, v)
	}
	return f.baseURL + req.Endpoint + "?" + params.Encode()
}

func (f *HTTPFetcher) get(ctx context.Context, target string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, &httpStatusError{status: resp.StatusCode, url: target}
	}

	return io.ReadAll(resp.Body)
}

// pageMeta is the upstream pagination envelope.
type pageMeta struct {
	TotalCount *int `json:"total_count"`
}

// decodeEnvelope unwraps the records under envelopeKey and the page_meta
// total count when present.
func decodeEnvelope(body []byte, envelopeKey string) (client.PageResult, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return client.PageResult{}, fmt.Errorf("%w: response is not a JSON object: %v", apperrors.ErrMalformedPayload, err)
	}

	raw, ok := payload[envelopeKey]
	if !ok {
		return client.PageResult{}, fmt.Errorf("%w: response has no %q key", apperrors.ErrMalformedPayload, envelopeKey)
	}

	var records []encode.RawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return client.PageResult{}, fmt.Errorf("%w: %q is not an array of objects: %v", apperrors.ErrMalformedPayload, envelopeKey, err)
	}

	result := client.PageResult{Records: records, TotalCount: -1}
	if metaRaw, ok := payload["page_meta"]; ok {
		var meta pageMeta
		if err := json.Unmarshal(metaRaw, &meta); err == nil && meta.TotalCount != nil {
			result.TotalCount = *meta.TotalCount
		}
	}
	return result, nil
}
