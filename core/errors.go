package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidURL  = errors.New("csv url is empty or not a valid absolute URL")
	ErrEmptyBody   = errors.New("fetched csv body is empty")
	ErrNoDataRows  = errors.New("csv does not contain any data rows below the header")
	ErrNoValidRows = errors.New("no valid data rows found after parsing the csv")
)

// StatusError reports a non-200 response from the spreadsheet host.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received HTTP status code %d when fetching the csv url", e.Code)
}

// FetchError wraps a transport-level failure so the original cause stays
// reachable through errors.Unwrap.
type FetchError struct {
	Err error
}

func NewFetchError(err error) *FetchError {
	return &FetchError{Err: err}
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("could not retrieve data from the csv url: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UserMessage maps a pipeline error to the human-readable text rendered
// in-band. Every fetch/parse-level failure aborts the whole render, so this
// is the only error surface the host ever sees.
func UserMessage(err error) string {
	var statusErr *StatusError

	switch {
	case errors.Is(err, ErrInvalidURL):
		return "Please provide a valid public Google Sheet CSV URL."
	case errors.As(err, &statusErr):
		return fmt.Sprintf("The spreadsheet could not be fetched (HTTP %d).", statusErr.Code)
	case errors.Is(err, ErrEmptyBody):
		return "The fetched CSV file is empty."
	case errors.Is(err, ErrNoDataRows):
		return "The CSV does not contain any data rows (only a header or nothing)."
	case errors.Is(err, ErrNoValidRows):
		return "No valid event rows were found in the CSV."
	default:
		return "Error fetching or parsing the event CSV."
	}
}
