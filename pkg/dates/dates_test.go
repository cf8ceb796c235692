package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saitejads/loanbook/pkg/common"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{name: "display form", input: "01-03-2024", expected: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{name: "display form with spaces", input: "  15-08-2023 ", expected: time.Date(2023, time.August, 15, 0, 0, 0, 0, time.UTC)},
		{name: "iso date", input: "2024-03-01", expected: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{name: "iso timestamp drops time", input: "2024-03-01T09:30:00Z", expected: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		{name: "offset timestamp keeps its calendar day", input: "2024-03-10T01:00:00+05:30", expected: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(tt.expected), "got %s", parsed)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "Invalid date", "not-a-date", "32-13-2024"} {
		_, err := Parse(input)
		assert.ErrorIs(t, err, common.ErrInvalidDate, "input %q", input)
	}
}

func TestParseOptional(t *testing.T) {
	assert.Nil(t, ParseOptional(""))
	assert.Nil(t, ParseOptional("Invalid date"))

	parsed := ParseOptional("01-03-2024")
	require.NotNil(t, parsed)
	assert.Equal(t, "01-03-2024", Format(*parsed))
}

func TestFormatPtr(t *testing.T) {
	assert.Empty(t, FormatPtr(nil))

	given := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "01-03-2024", FormatPtr(&given))
}
