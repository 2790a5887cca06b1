package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent is sent when HTTPFetcher.UserAgent is empty.
const DefaultUserAgent = "uistate"

// FetchResult describes one completed HTTP fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	Bytes      int64
	Duration   time.Duration
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPFetcher issues GET requests and drains the response body.
type HTTPFetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client

	// Timeout bounds each request; zero means no per-request timeout.
	Timeout time.Duration

	UserAgent string
}

// Fetch GETs url. Its signature matches batch.RequestFunc[string, FetchResult].
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (FetchResult, error) {
	start := time.Now()

	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("building request for %s: %w", url, err)
	}
	ua := f.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return FetchResult{}, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		return FetchResult{}, fmt.Errorf("reading body of %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return FetchResult{}, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return FetchResult{
		URL:        url,
		StatusCode: resp.StatusCode,
		Bytes:      n,
		Duration:   time.Since(start),
	}, nil
}
