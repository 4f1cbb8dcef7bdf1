package tencent

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
	"resty.dev/v3"

	"github.com/jirong-gao/stocks/internal/fetcher"
	"github.com/jirong-gao/stocks/internal/ratelimit"
)

const defaultRetryMaxWaitTime = 5 * time.Second

// Options configures a Client.
type Options struct {
	// RetryCount is the total number of attempts per batch (minimum 1).
	// Only retryable failures (server errors, rate limiting, timeouts)
	// consume retries; transport failures abort immediately.
	RetryCount int

	// Timeout bounds each individual request.
	Timeout time.Duration

	// CallInterval spaces retry attempts; the pre-attempt courtesy wait is
	// handled by the limiter passed to NewClient.
	CallInterval time.Duration

	// MaxCodesPerQuery truncates oversized batches defensively. The caller
	// is expected to batch correctly; this is the hard upstream cap.
	MaxCodesPerQuery int
}

// Client calls the Tencent text quote API and returns decoded record segments.
type Client struct {
	client   *resty.Client
	limiter  *ratelimit.Limiter
	maxCodes int
	attempts int
}

// NewClient creates a quote API client. Every attempt waits on the limiter
// first, so back-to-back batches keep the courtesy interval between calls.
func NewClient(baseURL string, limiter *ratelimit.Limiter, opts Options) *Client {
	retries := opts.RetryCount - 1
	if retries < 0 {
		retries = 0
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(opts.CallInterval).
		SetRetryMaxWaitTime(defaultRetryMaxWaitTime).
		AddRetryConditions(retryCondition).
		AddRetryHooks(retryHook)

	return &Client{
		client:   client,
		limiter:  limiter,
		maxCodes: opts.MaxCodesPerQuery,
		attempts: retries + 1,
	}
}

// Close releases the underlying HTTP client resources.
func (c *Client) Close() error {
	return c.client.Close()
}

// FetchBatch issues one API call for the given query codes and returns the
// GBK-decoded response body split on ';'. The body normally ends with a
// trailing semicolon, so the final segment is typically empty; it is returned
// as-is and callers must skip empty segments.
//
// Retryable failures are retried per Options.RetryCount; transport-level
// failures (connection refused, bad URL) are returned immediately. Either
// way the error is a *fetcher.FetchError and the segment slice is nil.
func (c *Client) FetchBatch(ctx context.Context, codes []string) ([]string, error) {
	if len(codes) == 0 {
		return nil, fetcher.NewValidationError("no query codes in batch")
	}
	if c.maxCodes > 0 && len(codes) > c.maxCodes {
		codes = codes[:c.maxCodes]
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fetcher.NewTransportError(err)
	}

	// The endpoint takes the comma-joined codes in the path: /q=sh600519,...
	resp, err := c.client.R().
		SetContext(ctx).
		Get("/q=" + strings.Join(codes, ","))
	if err != nil {
		if isTimeout(err) {
			return nil, fetcher.NewExhaustedError(c.attempts, fetcher.NewTimeoutError(err))
		}
		return nil, fetcher.NewTransportError(err)
	}

	if !resp.IsSuccess() {
		httpErr := fetcher.ClassifyHTTPError(resp.StatusCode())
		if httpErr.Retryable {
			// Resty already burned through the retry budget to get here.
			return nil, fetcher.NewExhaustedError(c.attempts, httpErr)
		}
		return nil, httpErr
	}

	// Tencent responds in GBK, not UTF-8.
	decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), resp.Bytes())
	if err != nil {
		return nil, fetcher.NewValidationError("response body is not valid GBK: " + err.Error())
	}

	body := strings.NewReplacer("\r", "", "\n", "").Replace(string(decoded))

	return strings.Split(body, ";"), nil
}

// retryCondition keeps the retryable/non-retryable split out of the request
// path: server errors, rate limiting and timeouts get another attempt,
// transport errors do not (if the host is unreachable or the URL is broken,
// trying again buys nothing).
func retryCondition(r *resty.Response, err error) bool {
	if err != nil {
		return isTimeout(err)
	}

	switch {
	case r.StatusCode() >= 500:
		return true
	case r.StatusCode() == 429:
		return true
	case r.StatusCode() == 408:
		return true
	}

	return false
}

// retryHook logs retry attempts for observability
func retryHook(r *resty.Response, err error) {
	if err != nil {
		slog.Debug("retrying quote API call due to error",
			"url", r.Request.URL,
			"attempt", r.Request.Attempt,
			"error", err.Error())
		return
	}

	slog.Debug("retrying quote API call due to status code",
		"url", r.Request.URL,
		"attempt", r.Request.Attempt,
		"status_code", r.StatusCode())
}

// isTimeout reports whether err is a deadline or transport timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
