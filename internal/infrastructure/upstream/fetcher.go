package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"coffer_scanner/pkg/logx"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "coffer-scanner/1.0"
	maxBodySize      = 64 << 20
)

var ErrUpstream = errors.New("upstream request failed")

// FetchError is returned once all attempts against one upstream are spent.
type FetchError struct {
	Upstream   string
	URL        string
	Attempts   int
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s after %d attempt(s): %v", e.Upstream, e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrUpstream, e.Err}
}

type statusError struct {
	code int
}

func (e statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.code, http.StatusText(e.code))
}

// FetcherConfig describes the request discipline of one upstream.
type FetcherConfig struct {
	Name        string
	MinInterval time.Duration
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	BaseDelay  time.Duration
	JitterMax  time.Duration
	Timeout    time.Duration
	UserAgent  string
}

type FetcherOption func(*Fetcher)

func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

func WithTransport(rt http.RoundTripper) FetcherOption {
	return func(f *Fetcher) {
		f.client = &http.Client{Transport: rt}
	}
}

// Fetcher issues GET requests to a single upstream. Consecutive requests are
// spaced by at least MinInterval; concurrent callers queue on the limiter.
type Fetcher struct {
	cfg     FetcherConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewFetcher(cfg FetcherConfig, opts ...FetcherOption) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}

	f := &Fetcher{
		cfg:     cfg,
		client:  &http.Client{},
		limiter: rate.NewLimiter(limit, 1),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *Fetcher) Name() string {
	return f.cfg.Name
}

// Get returns the body of the first 2xx response. Non-2xx statuses, transport
// errors and per-request timeouts are retried with exponential backoff.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	attempts := f.cfg.MaxRetries + 1

	var (
		lastErr    error
		lastStatus int
	)

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := f.backoff(attempt - 1)

			logger(ctx).Warn(
				"upstream request failed, retrying",
				slog.String(logx.FieldUpstream, f.cfg.Name),
				slog.Int(logx.FieldAttempt, attempt),
				slog.Duration("delay", delay),
				logx.Error(lastErr),
			)

			if err := sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("upstream.Fetcher.Get: %w", err)
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("limiter.Wait: %w", err)
		}

		body, status, err := f.do(ctx, url)
		if err == nil {
			requestsTotal.WithLabelValues(f.cfg.Name, outcomeOK).Inc()
			return body, nil
		}

		if ctx.Err() != nil {
			return nil, fmt.Errorf("upstream.Fetcher.Get: %w", ctx.Err())
		}

		requestsTotal.WithLabelValues(f.cfg.Name, outcomeRetry).Inc()
		lastErr, lastStatus = err, status
	}

	requestsTotal.WithLabelValues(f.cfg.Name, outcomeError).Inc()

	return nil, &FetchError{
		Upstream:   f.cfg.Name,
		URL:        url,
		Attempts:   attempts,
		StatusCode: lastStatus,
		Err:        lastErr,
	}
}

func (f *Fetcher) do(ctx context.Context, url string) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		requestDuration.WithLabelValues(f.cfg.Name).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, resp.StatusCode, statusError{code: resp.StatusCode}
	}

	return body, resp.StatusCode, nil
}

// backoff is BaseDelay * 2^attempt plus a random jitter in [0, JitterMax).
func (f *Fetcher) backoff(attempt int) time.Duration {
	delay := f.cfg.BaseDelay << attempt
	if f.cfg.JitterMax > 0 {
		delay += time.Duration(rand.Int64N(int64(f.cfg.JitterMax)))
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
