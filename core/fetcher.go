package core

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultFetchTimeout = 15 * time.Second

// Fetcher retrieves the raw CSV text for a source URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

type httpFetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher backed by an http.Client with the given
// timeout. A single attempt is made per call; a cache miss on the next
// request is the only retry mechanism.
func NewFetcher(timeout time.Duration) Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	return &httpFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := ValidateSourceURL(rawURL); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(rawURL), nil)
	if err != nil {
		return "", ErrInvalidURL
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", NewFetchError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewFetchError(err)
	}

	if strings.TrimSpace(string(body)) == "" {
		return "", ErrEmptyBody
	}

	log.Ctx(ctx).Debug().Str("component", "fetcher").Int("bytes", len(body)).Msg("csv fetched")

	return string(body), nil
}
