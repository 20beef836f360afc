package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher retrieves the raw HTML for a listing URL. Implementations issue
// exactly one outbound request per call; retry policy belongs to the caller.
type Fetcher interface {
	Download(ctx context.Context, url string) (string, error)
}

// FetchOptions configures an HTTPFetcher.
type FetchOptions struct {
	UserAgent    string
	Timeout      time.Duration
	ExtraHeaders map[string]string
}

// DefaultFetchOptions returns browser-like defaults. The listing site alters
// or blocks responses to requests that do not look like a desktop browser.
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		Timeout:   30 * time.Second,
	}
}

// HTTPFetcher downloads pages over plain HTTP with browser-impersonating
// headers. Redirects are followed transparently by the underlying client.
type HTTPFetcher struct {
	client *http.Client
	opts   FetchOptions
}

// NewHTTPFetcher creates a fetcher with the given options. Zero-value fields
// fall back to defaults.
func NewHTTPFetcher(opts FetchOptions) *HTTPFetcher {
	def := DefaultFetchOptions()
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	return &HTTPFetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
	}
}

// Download performs one GET and returns the response body as a string.
// Non-2xx responses yield a *NetworkError; an elapsed deadline yields a
// *TimeoutError.
func (f *HTTPFetcher) Download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-PT,pt;q=0.9,it;q=0.8,en;q=0.7")
	for k, v := range f.opts.ExtraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", &TimeoutError{URL: url}
		}
		return "", &NetworkError{URL: url, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &NetworkError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", &TimeoutError{URL: url}
		}
		return "", fmt.Errorf("reading response: %w", err)
	}

	return string(body), nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}
