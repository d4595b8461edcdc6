package core

import (
	"encoding/csv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ParseCSV splits the raw CSV text into RawEvents. The first non-empty line
// is the header and is discarded without validation. Each remaining line is
// decoded as a single CSV record (quoted fields may contain commas); short
// records are right-padded to the full column schema rather than skipped.
func ParseCSV(raw string) ([]RawEvent, error) {
	lines := make([]string, 0, 16)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	if len(lines) < 2 {
		return nil, ErrNoDataRows
	}

	events := make([]RawEvent, 0, len(lines)-1)

	for i, line := range lines[1:] {
		record, err := decodeRecord(line)
		if err != nil {
			log.Warn().Str("component", "parser").Int("row", i+1).Err(err).
				Msg("dropping row that failed csv decoding")
			continue
		}

		if len(record) < ColumnCount {
			log.Warn().Str("component", "parser").Int("row", i+1).
				Int("columns", len(record)).
				Msg("row has fewer columns than expected, padding with empty fields")
		}

		events = append(events, eventFromRecord(record))
	}

	if len(events) == 0 {
		return nil, ErrNoValidRows
	}

	return events, nil
}

func decodeRecord(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1

	return r.Read()
}
