// Package dates normalizes the two date encodings the API accepts:
// display-formatted DD-MM-YYYY text and ISO dates/timestamps. Internally
// everything is a time.Time; formatted text exists only at the boundary.
package dates

import (
	"strings"
	"time"

	"github.com/saitejads/loanbook/pkg/common"
)

const DisplayLayout = "02-01-2006"

var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Parse accepts DD-MM-YYYY text or any ISO-style date text. The dd-mm form
// is recognized by the presence of "-" without a "T", mirroring how the
// clients have always sent it.
func Parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "Invalid date" {
		return time.Time{}, common.ErrInvalidDate
	}

	if strings.Contains(value, "-") && !strings.Contains(value, "T") {
		if t, err := time.Parse(DisplayLayout, value); err == nil {
			return t, nil
		}
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			// Keep the calendar day as written, dropping only the time of
			// day; truncating absolute time would shift offset timestamps
			// across midnight.
			year, month, day := t.Date()
			return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
		}
	}

	return time.Time{}, common.ErrInvalidDate
}

// ParseOptional returns nil for empty or unparseable input instead of an
// error; loan disbursement/due dates tolerate junk from old clients.
func ParseOptional(value string) *time.Time {
	t, err := Parse(value)
	if err != nil {
		return nil
	}
	return &t
}

// Format renders a date in the DD-MM-YYYY display form.
func Format(t time.Time) string {
	return t.Format(DisplayLayout)
}

// FormatPtr is Format tolerating a missing date.
func FormatPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DisplayLayout)
}
