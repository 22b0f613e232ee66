package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitSeconds(t *testing.T) {
	tests := []struct {
		name  string
		given int64
		want  Breakdown
	}{
		{"zero", 0, Breakdown{}},
		{"seconds only", 59, Breakdown{Seconds: 59}},
		{"day hour minute second", 90061, Breakdown{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}},
		{"two weeks", 2 * week, Breakdown{Weeks: 2}},
		// the cascade takes weeks and days before months, so whole months and years spill down
		{"one month", month, Breakdown{Weeks: 4, Days: 2, Hours: 10, Minutes: 30}},
		{"one year", year, Breakdown{Months: 11, Weeks: 4, Days: 1, Hours: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSeconds(tt.given))
		})
	}
}

func TestFormatter_Seconds_NoData(t *testing.T) {
	assert.Equal(t, "", NewFormatter("en").Seconds(NoData))
}

func TestFormatter_Seconds_English(t *testing.T) {
	f := NewFormatter("en")

	assert.Equal(t, "0 seconds", f.Seconds(0))
	assert.Equal(t, "1 second", f.Seconds(1))
	assert.Equal(t, "1 day 1 hour 1 minute and 1 second", f.Seconds(90061))
	assert.Equal(t, "2 days 3 hours and 0 seconds", f.Seconds(2*day+3*hour))
}

func TestFormatter_Seconds_German(t *testing.T) {
	f := NewFormatter("de-DE")

	assert.Equal(t, "1 Minute und 1 Sekunde", f.Seconds(61))
	assert.Equal(t, "2 Wochen und 5 Sekunden", f.Seconds(2*week+5))
}

func TestFormatter_UnknownLocaleFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "1 hour and 0 seconds", NewFormatter("not a locale").Seconds(hour))
	assert.Equal(t, "1 hour and 0 seconds", NewFormatter("ja").Seconds(hour))
}

func TestSplitRange_ClampsShortMonth(t *testing.T) {
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	b := SplitRange(start, end, time.UTC)
	assert.Equal(t, Breakdown{Months: 1, Days: 1}, b)
}

func TestSplitRange_TimeParts(t *testing.T) {
	start := time.Date(2023, time.May, 10, 8, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.June, 27, 10, 30, 15, 0, time.UTC)

	b := SplitRange(start, end, time.UTC)
	assert.Equal(t, Breakdown{Years: 1, Months: 1, Weeks: 2, Days: 3, Hours: 2, Minutes: 30, Seconds: 15}, b)
}

func TestFormatter_RangeMillis(t *testing.T) {
	f := NewFormatter("en").WithLocation(time.UTC)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(36 * time.Hour)

	assert.Equal(t, "", f.RangeMillis(NoData, end.UnixMilli()))
	assert.Equal(t, "1 day 12 hours and 0 seconds", f.RangeMillis(start.UnixMilli(), end.UnixMilli()))
}
