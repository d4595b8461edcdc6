package core

import (
	"strings"
	"time"
)

// Column positions of the published spreadsheet. The header row carries
// human labels and is advisory only; positions are the contract.
const (
	colStartDate = iota
	colStartTime
	colEndDate
	colEndTime
	colTitlePrimary
	colTitleSecondary
	colLocation
	colManager

	// ColumnCount is the number of logical columns every row resolves to.
	ColumnCount
)

// RawEvent is one parsed data row. All fields are trimmed strings; columns
// missing from a short source row are empty, never absent.
type RawEvent struct {
	StartDate      string `json:"start_date"`
	StartTime      string `json:"start_time"`
	EndDate        string `json:"end_date"`
	EndTime        string `json:"end_time"`
	TitlePrimary   string `json:"title_primary"`
	TitleSecondary string `json:"title_secondary,omitempty"`
	Location       string `json:"location,omitempty"`
	Manager        string `json:"manager,omitempty"`
}

// eventFromRecord maps a decoded CSV record onto the column schema,
// right-padding short records so no position is ever out of range.
func eventFromRecord(record []string) RawEvent {
	if len(record) < ColumnCount {
		padded := make([]string, ColumnCount)
		copy(padded, record)
		record = padded
	}

	return RawEvent{
		StartDate:      strings.TrimSpace(record[colStartDate]),
		StartTime:      strings.TrimSpace(record[colStartTime]),
		EndDate:        strings.TrimSpace(record[colEndDate]),
		EndTime:        strings.TrimSpace(record[colEndTime]),
		TitlePrimary:   strings.TrimSpace(record[colTitlePrimary]),
		TitleSecondary: strings.TrimSpace(record[colTitleSecondary]),
		Location:       strings.TrimSpace(record[colLocation]),
		Manager:        strings.TrimSpace(record[colManager]),
	}
}

// ResolvedEvent is a RawEvent whose date/time fields have been resolved to
// absolute instants in the configured timezone. Start is always set; End is
// meaningful only when HasEnd is true.
type ResolvedEvent struct {
	RawEvent

	Start    time.Time
	End      time.Time
	HasEnd   bool
	MultiDay bool
}
