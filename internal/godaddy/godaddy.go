// Package godaddy implements the batch domain-availability client.
//
// One POST per batch against /v1/domains/available with checkType=FULL
// (slower, but the most accurate answer the API gives). Failures are
// classified so the caller can decide what is worth retrying on a later
// run; the client itself retries rate limits and transient errors with
// bounded exponential backoff.
package godaddy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultBaseURL = "https://api.ote-godaddy.com"

// ErrKind tags a batch failure for reporting and retry decisions.
type ErrKind string

const (
	ErrKindRateLimit ErrKind = "rate_limit_exceeded"
	ErrKindTransient ErrKind = "transient_failure"
	ErrKindPermanent ErrKind = "permanent_failure"
	ErrKindParse     ErrKind = "parse_failure"
)

// BatchError is the classified failure for one whole batch. The batch's
// candidates stay unresolved; the run continues with the next batch.
type BatchError struct {
	Kind     ErrKind
	Status   int // last HTTP status, 0 for transport errors
	Attempts int
	Err      error
}

func (e *BatchError) Error() string {
	msg := string(e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (http %d)", e.Status)
	}
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *BatchError) Unwrap() error { return e.Err }

// RetryPolicy bounds how hard the client pushes against a struggling API.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 5
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = time.Second
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = 30 * time.Second
	}
	return p
}

// backoff returns the wait before the given retry (attempt is 1-based).
func (p RetryPolicy) backoff(attempt int) time.Duration {
	d := p.InitialBackoff
	for i := 1; i < attempt && d < p.MaxBackoff; i++ {
		d *= 2
	}
	if d > p.MaxBackoff {
		d = p.MaxBackoff
	}
	return d
}

type Options struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Timeout   time.Duration
	Retry     RetryPolicy
	UserAgent string
	Logger    *zap.Logger
}

type Client struct {
	opts Options
	http *http.Client
	log  *zap.Logger
}

func NewClient(opts Options) (*Client, error) {
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	opts.APISecret = strings.TrimSpace(opts.APISecret)
	if opts.APIKey == "" || opts.APISecret == "" {
		return nil, fmt.Errorf("godaddy: missing api credentials (set GODADDY_API_KEY and GODADDY_API_SECRET)")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	opts.Retry = opts.Retry.withDefaults()
	if opts.UserAgent == "" {
		opts.UserAgent = "combohunt"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Client{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
		log:  opts.Logger.Named("godaddy"),
	}, nil
}

// Result is one validated per-domain answer from the API.
type Result struct {
	Domain     string
	Available  bool
	Definitive bool
	Price      *float64 // USD, normalized; nil when the API gave none
}

// CheckBatch checks up to 50 domains in one round trip. The returned
// results are not guaranteed to match the request order; callers match by
// domain string. ctx only interrupts the waits between attempts — an
// in-flight request runs to completion under its own timeout.
func (c *Client) CheckBatch(ctx context.Context, domains []string) ([]Result, error) {
	body, err := json.Marshal(domains)
	if err != nil {
		return nil, &BatchError{Kind: ErrKindParse, Err: err}
	}
	u := strings.TrimRight(c.opts.BaseURL, "/") + "/v1/domains/available?checkType=FULL"

	var lastErr error
	var lastStatus int
	for attempt := 1; attempt <= c.opts.Retry.MaxAttempts; attempt++ {
		status, respBody, header, err := c.post(ctx, u, body)
		lastStatus = status
		switch {
		case err != nil:
			lastErr = err
		case status == http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited: %s", strings.TrimSpace(string(respBody)))
		case status >= 500:
			lastErr = fmt.Errorf("server error: %s", strings.TrimSpace(string(respBody)))
		case status >= 300:
			return nil, &BatchError{
				Kind:     ErrKindPermanent,
				Status:   status,
				Attempts: attempt,
				Err:      fmt.Errorf("%s", strings.TrimSpace(string(respBody))),
			}
		default:
			results, err := decodeResults(respBody)
			if err != nil {
				return nil, &BatchError{Kind: ErrKindParse, Status: status, Attempts: attempt, Err: err}
			}
			return results, nil
		}

		if attempt == c.opts.Retry.MaxAttempts {
			break
		}

		wait := c.opts.Retry.backoff(attempt)
		if status == http.StatusTooManyRequests {
			if hint, ok := retryAfter(header, time.Now()); ok {
				wait = hint
			}
		}
		if wait > c.opts.Retry.MaxBackoff {
			wait = c.opts.Retry.MaxBackoff
		}
		c.log.Debug("retrying batch",
			zap.Int("attempt", attempt),
			zap.Int("status", status),
			zap.Duration("wait", wait),
			zap.Error(lastErr))
		if err := sleep(ctx, wait); err != nil {
			return nil, &BatchError{Kind: ErrKindTransient, Status: status, Attempts: attempt, Err: err}
		}
	}

	kind := ErrKindTransient
	if lastStatus == http.StatusTooManyRequests {
		kind = ErrKindRateLimit
	}
	return nil, &BatchError{
		Kind:     kind,
		Status:   lastStatus,
		Attempts: c.opts.Retry.MaxAttempts,
		Err:      lastErr,
	}
}

// post performs one attempt. The request context is detached from ctx so
// an interrupt does not kill a request that is already on the wire.
func (c *Client) post(ctx context.Context, url string, body []byte) (int, []byte, http.Header, error) {
	reqCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, nil, err
	}
	req.Header.Set("authorization", "sso-key "+c.opts.APIKey+":"+c.opts.APISecret)
	req.Header.Set("content-type", "application/json")
	req.Header.Set("accept", "application/json")
	req.Header.Set("user-agent", c.opts.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, nil, resp.Header, err
	}
	return resp.StatusCode, b, resp.Header, nil
}

// retryAfter parses a Retry-After header, either delta-seconds or an HTTP
// date.
func retryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(v); err == nil {
		d := at.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
