package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusError(t *testing.T) {
	t.Parallel()

	err := &StatusError{Code: 503}
	assert.Contains(t, err.Error(), "503")

	var target *StatusError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &target)
	assert.Equal(t, 503, target.Code)
}

func TestFetchError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := NewFetchError(cause)

	assert.Contains(t, err.Error(), "connection refused")
	require.ErrorIs(t, err, cause)

	var nilErr *FetchError
	require.NoError(t, nilErr.Unwrap())
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "invalid url",
			err:  ErrInvalidURL,
			want: "valid public Google Sheet CSV URL",
		},
		{
			name: "wrapped invalid url",
			err:  fmt.Errorf("checking: %w", ErrInvalidURL),
			want: "valid public Google Sheet CSV URL",
		},
		{
			name: "bad status carries the code",
			err:  &StatusError{Code: 404},
			want: "HTTP 404",
		},
		{
			name: "empty body",
			err:  ErrEmptyBody,
			want: "CSV file is empty",
		},
		{
			name: "no data rows",
			err:  ErrNoDataRows,
			want: "does not contain any data rows",
		},
		{
			name: "no valid rows",
			err:  ErrNoValidRows,
			want: "No valid event rows",
		},
		{
			name: "unknown error gets the generic message",
			err:  errors.New("something else"),
			want: "Error fetching or parsing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Contains(t, UserMessage(tt.err), tt.want)
		})
	}
}
