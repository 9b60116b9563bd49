package importer

import (
	"strconv"
	"strings"
	"time"

	"cajalibro/internal/core/apperror"
)

// rowDateLayout is the human date encoding spreadsheets use here.
const rowDateLayout = "02/01/2006"

// serialEpoch anchors spreadsheet serial-day integers: day 0 = 1900-01-01.
var serialEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// ParseRowDate parses a spreadsheet date cell. Two encodings are accepted:
// a dd/mm/yyyy string, or a serial-day number counted from the epoch.
// Fractional day parts on serials are truncated. Anything else is a
// PARSE_ERROR, which fails the whole batch.
func ParseRowDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperror.NewParse("date is empty")
	}

	if t, err := time.Parse(rowDateLayout, s); err == nil {
		return t, nil
	}

	if days, err := strconv.Atoi(s); err == nil {
		if days < 0 {
			return time.Time{}, apperror.NewParse("serial date cannot be negative").
				WithDetail("value", s)
		}
		return serialEpoch.AddDate(0, 0, days), nil
	}

	// Serial with a fractional day part (time of day), truncated
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return serialEpoch.AddDate(0, 0, int(f)), nil
	}

	return time.Time{}, apperror.NewParse("unparsable date").WithDetail("value", s)
}
