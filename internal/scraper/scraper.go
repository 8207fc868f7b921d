package scraper

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pfrederiksen/ffvb-results/internal/logger"
	"golang.org/x/net/html/charset"
)

const (
	UserAgent = "ffvb-results/1.0 (github.com/pfrederiksen/ffvb-results)"
	Timeout   = 30 * time.Second
)

var (
	// ErrFetchFailure covers connection, TLS, timeout and cancellation failures
	ErrFetchFailure = errors.New("fetch failure")
	// ErrUnexpectedStatus matches every *StatusError
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

// StatusError reports a page answered with a non-2xx HTTP status
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d fetching %s", ErrUnexpectedStatus, e.StatusCode, e.URL)
}

// Is makes errors.Is(err, ErrUnexpectedStatus) hold for any StatusError
func (e *StatusError) Is(target error) bool {
	return target == ErrUnexpectedStatus
}

// Fetcher returns the text of the page at uri
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (string, error)
}

// HTTPFetcher fetches pages with a plain HTTP client
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures an HTTPFetcher
type Option func(*HTTPFetcher)

// WithTimeout bounds a whole request, body included
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// New creates an HTTPFetcher that accepts self-signed and otherwise invalid
// certificates, which the federation's servers require.
func New(opts ...Option) *HTTPFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // #nosec G402

	f := &HTTPFetcher{
		client: &http.Client{
			Timeout:   Timeout,
			Transport: transport,
		},
		userAgent: UserAgent,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves uri and returns its body converted to UTF-8
func (f *HTTPFetcher) Fetch(ctx context.Context, uri string) (string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %w", ErrFetchFailure, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		logger.IncrCounter("fetch.errors")
		return "", fmt.Errorf("%w: fetching page: %w", ErrFetchFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.IncrCounter("fetch.errors")
		return "", &StatusError{URL: uri, StatusCode: resp.StatusCode}
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		logger.IncrCounter("fetch.errors")
		return "", fmt.Errorf("%w: decoding body: %w", ErrFetchFailure, err)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		logger.IncrCounter("fetch.errors")
		return "", fmt.Errorf("%w: reading body: %w", ErrFetchFailure, err)
	}

	logger.IncrCounter("fetch.pages")
	logger.RecordTiming("fetch.http", time.Since(start))
	logger.Debug("Fetched page", logger.Fields{
		"url":    uri,
		"status": resp.StatusCode,
		"bytes":  len(data),
	})

	return string(data), nil
}
