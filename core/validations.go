package core

import (
	"net/url"
	"strings"
	"time"
)

// ValidateSourceURL checks that the csv url is a well-formed absolute
// http(s) URL. Runs before any network call.
func ValidateSourceURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrInvalidURL
	}

	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return ErrInvalidURL
	}

	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ErrInvalidURL
	}

	return nil
}

// NormalizeCount coerces the requested event count to at least 1,
// substituting the fallback for non-positive input.
func NormalizeCount(count, fallback int) int {
	if count <= 0 {
		count = fallback
	}

	if count < 1 {
		return 1
	}

	return count
}

// NormalizeCacheTTL converts the cache_hours parameter to a duration.
// Negative values fall back to the default; zero stays zero, which
// disables caching entirely.
func NormalizeCacheTTL(hours float64, fallback time.Duration) time.Duration {
	if hours < 0 {
		return fallback
	}

	return time.Duration(hours * float64(time.Hour))
}
