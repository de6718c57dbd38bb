package statement

import (
	"strconv"
	"strings"
	"time"
)

// Day-first layouts come before anything American: bank statements in the
// target markets are dd/mm/yyyy and misparsing them silently swaps months.
var dateLayouts = []string{
	"02/01/2006", "2/1/2006", "02/01/06", "2/1/06",
	"02-01-2006", "2-1-2006", "02-01-06", "2-1-06",
	"2006-01-02", "2006/01/02", "2006-1-2", "2006/1/2",
	"02-Jan-2006", "02-Jan-06", "2-Jan-2006",
	"02/Jan/2006", "02/Jan/06",
	"2006-01-02 15:04:05", "2006-01-02T15:04:05",
}

// parseDate attempts the layout set, then falls back to Excel serial date
// numbers (days since the 1899-12-30 epoch; the epoch choice absorbs the
// fictitious 1900-02-29 for every date past it).
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, ok := parseExcelSerial(s); ok {
		return t, true
	}
	return time.Time{}, false
}

func parseExcelSerial(s string) (time.Time, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 1 || f > 200000 {
		return time.Time{}, false
	}
	days := int(f)
	frac := f - float64(days)
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	t := base.AddDate(0, 0, days).Add(time.Duration(frac * float64(24*time.Hour)))
	return t, true
}
