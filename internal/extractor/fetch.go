package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FailKind classifies extraction failures recorded on an article.
type FailKind string

const (
	FailNetwork  FailKind = "network"
	FailHTTP     FailKind = "http"
	FailTooShort FailKind = "too_short"
)

// maxBodyBytes limits the size of fetched page bodies.
const maxBodyBytes = 5 * 1024 * 1024 // 5 MB

// FetchError is a classified extraction failure. Its Error string is the
// reason recorded on the article, so the format is stable.
type FetchError struct {
	Kind   FailKind
	Status int
	Cause  error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FailHTTP:
		return fmt.Sprintf("HTTP %d", e.Status)
	case FailTooShort:
		return "content too short"
	default:
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return string(e.Kind)
	}
}

func (e *FetchError) Unwrap() error { return e.Cause }

// Fetcher retrieves article pages over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher identifying itself with the given user agent.
// Redirects are followed by the client's default policy.
func NewFetcher(userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch issues a GET for the page and returns its body. Non-2xx responses
// and transport failures come back as a FetchError.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, &FetchError{Kind: FailNetwork, Cause: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: FailNetwork, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{Kind: FailHTTP, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &FetchError{Kind: FailNetwork, Cause: fmt.Errorf("read response body: %w", err)}
	}

	return body, nil
}
