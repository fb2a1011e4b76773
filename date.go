package perfdash

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the format used to represent dates as strings in ISO-8601 format.
const DateFormat = "2006-01-02"

// MonthFormat is the format used to represent calendar months as strings.
const MonthFormat = "2006-01"

// Date represents a date with day-level granularity.
type Date struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDate returns a normalized Date for the given year, month, and day.
// Out-of-range values are normalized the way [time.Date] normalizes them,
// so NewDate(2024, 3, 0) is the last day of February 2024.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Year returns the year of the date.
func (d Date) Year() int { return d.y }

// Month returns the calendar month the date falls in.
func (d Date) Month() Month { return Month{d.y, d.m} }

// Day returns the day of the month.
func (d Date) Day() int { return d.d }

// String formats the date in ISO-8601.
func (d Date) String() string { return d.time().Format(DateFormat) }

// IsZero returns true if the date is the zero value.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// time returns a time.Time that is a canonical representation of that day (at midnight UTC).
func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

// Before reports whether the day d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether the day d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Add returns a new Date with the given number of days added.
func (d Date) Add(i int) Date { return NewDate(d.y, d.m, d.d+i) }

// Today returns the current date.
func Today() Date { return NewDate(time.Now().Date()) }

// ParseDate parses an ISO-8601 date. It is lenient about single-digit
// month and day ("2024-7-1").
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-1-2", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Date()), nil
}

// MarshalJSON implements json.Marshaler, emitting the ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Month represents a calendar month, the granularity of the generated time series.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month.
func NewMonth(year int, month time.Month) Month {
	d := NewDate(year, month, 1)
	return Month{d.y, d.m}
}

// Year returns the year of the month.
func (mo Month) Year() int { return mo.y }

// Next returns the following calendar month.
func (mo Month) Next() Month { return NewMonth(mo.y, mo.m+1) }

// Add returns the month i months later (or earlier for negative i).
func (mo Month) Add(i int) Month { return NewMonth(mo.y, mo.m+time.Month(i)) }

// End returns the last day of the month.
func (mo Month) End() Date { return NewDate(mo.y, mo.m+1, 0) }

// Start returns the first day of the month.
func (mo Month) Start() Date { return NewDate(mo.y, mo.m, 1) }

// Before reports whether mo is strictly before x.
func (mo Month) Before(x Month) bool {
	return mo.y < x.y || (mo.y == x.y && mo.m < x.m)
}

// After reports whether mo is strictly after x.
func (mo Month) After(x Month) bool { return x.Before(mo) }

// IsZero returns true if the month is the zero value.
func (mo Month) IsZero() bool { return mo.y == 0 && mo.m == 0 }

// String formats the month as "YYYY-MM".
func (mo Month) String() string { return fmt.Sprintf("%04d-%02d", mo.y, int(mo.m)) }

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	y, err := strconv.Atoi(parts[0])
	if err != nil {
		return Month{}, fmt.Errorf("invalid year in month %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return Month{}, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	if m < 1 || m > 12 {
		return Month{}, fmt.Errorf("invalid month %q: month out of range", s)
	}
	return NewMonth(y, time.Month(m)), nil
}

// Months iterates months from first to last inclusive.
func Months(first, last Month) func(yield func(Month) bool) {
	return func(yield func(Month) bool) {
		for mo := first; !mo.After(last); mo = mo.Next() {
			if !yield(mo) {
				return
			}
		}
	}
}
