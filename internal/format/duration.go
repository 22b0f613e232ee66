package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fixed divisors for raw second counts. A year is 365.25 days and a month
// is a twelfth of that.
const (
	minute = 60
	hour   = minute * 60
	day    = hour * 24
	week   = day * 7
	year   = int64(day * 365.25)
	month  = year / 12
)

// NoData is the duration sentinel that formats to an empty string.
const NoData = -1

// Breakdown is a duration split into calendar units, largest first.
type Breakdown struct {
	Years   int64
	Months  int64
	Weeks   int64
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

// Formatter renders durations as localized, pluralized text.
type Formatter struct {
	printer  *message.Printer
	location *time.Location
}

// NewFormatter returns a formatter for locale. Unknown locales fall back to English.
func NewFormatter(locale string) *Formatter {
	return &Formatter{
		printer:  message.NewPrinter(matchLocale(locale), message.Catalog(messages)),
		location: time.Local,
	}
}

// WithLocation sets the zone used for calendar arithmetic in Range.
func (f *Formatter) WithLocation(loc *time.Location) *Formatter {
	f.location = loc
	return f
}

// SplitSeconds breaks a raw second count down with fixed divisors. Smaller
// units are taken first, so exactly one month or one year of seconds does not
// come out as "1 month" or "1 year": a month is 4 weeks 2 days 10 hours 30
// minutes, a year is 11 months 4 weeks 1 day 6 hours.
func SplitSeconds(given int64) Breakdown {
	t := given
	var b Breakdown
	b.Seconds = t % minute
	t -= b.Seconds
	b.Minutes = (t % hour) / minute
	t -= b.Minutes * minute
	b.Hours = (t % day) / hour
	t -= b.Hours * hour
	b.Days = (t % week) / day
	t -= b.Days * day
	b.Weeks = (t % month) / week
	t -= b.Weeks * week
	b.Months = (t % year) / month
	t -= b.Months * month
	b.Years = t / year
	return b
}

// SplitRange breaks the time between start and end down along the calendar
// in loc: years, months and days come from the dates, hours, minutes and
// seconds from the elapsed duration.
func SplitRange(start, end time.Time, loc *time.Location) Breakdown {
	start = start.In(loc)
	end = end.In(loc)
	years, months, days := periodBetween(start, end)
	d := end.Sub(start)
	return Breakdown{
		Years:   int64(years),
		Months:  int64(months),
		Weeks:   int64(days / 7),
		Days:    int64(days % 7),
		Hours:   int64(d/time.Hour) % 24,
		Minutes: int64(d/time.Minute) % 60,
		Seconds: int64(d/time.Second) % 60,
	}
}

// Seconds formats a raw second count. NoData yields "".
func (f *Formatter) Seconds(given int64) string {
	if given == NoData {
		return ""
	}
	return f.Breakdown(SplitSeconds(given))
}

// Range formats the calendar distance between start and end.
func (f *Formatter) Range(start, end time.Time) string {
	return f.Breakdown(SplitRange(start, end, f.location))
}

// RangeMillis is Range for epoch milliseconds; a start of NoData yields "".
func (f *Formatter) RangeMillis(start, end int64) string {
	if start == NoData {
		return ""
	}
	return f.Range(time.UnixMilli(start), time.UnixMilli(end))
}

// Breakdown renders the non-zero units in descending order. Seconds are
// always present and preceded by the conjunction when a larger unit is.
func (f *Formatter) Breakdown(b Breakdown) string {
	parts := make([]string, 0, 8)
	units := []struct {
		key   string
		count int64
	}{
		{keyYears, b.Years},
		{keyMonths, b.Months},
		{keyWeeks, b.Weeks},
		{keyDays, b.Days},
		{keyHours, b.Hours},
		{keyMinutes, b.Minutes},
	}
	for _, u := range units {
		if u.count != 0 {
			parts = append(parts, f.printer.Sprintf(u.key, u.count))
		}
	}
	if len(parts) > 0 {
		parts = append(parts, f.printer.Sprintf(keyAnd))
	}
	parts = append(parts, f.printer.Sprintf(keySeconds, b.Seconds))
	return strings.Join(parts, " ")
}

func matchLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}

// periodBetween returns the years, months and days between the dates of
// start and end. A day-of-month past the end of a shorter month is clamped
// to that month's last day.
func periodBetween(start, end time.Time) (int, int, int) {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	totalMonths := (ey-sy)*12 + int(em-sm)
	days := ed - sd
	switch {
	case totalMonths > 0 && days < 0:
		totalMonths--
		anchor := addMonthsClamped(sy, sm, sd, totalMonths)
		days = daysBetween(anchor, time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC))
	case totalMonths < 0 && days > 0:
		totalMonths++
		days -= daysIn(ey, em)
	}
	return totalMonths / 12, totalMonths % 12, days
}

func addMonthsClamped(y int, m time.Month, d, months int) time.Time {
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
