// Package calendar provides day-granularity dates and the interval
// comparisons the timeline is built from. A Date never carries a time of day.
package calendar

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// Layout is the wire format for dates.
const Layout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid_date")

// Date is a calendar day. The zero value means "absent".
type Date struct {
	d civil.Date
}

// New returns the date for year, month and day. Out of range values are
// normalised the way time.Date normalises them.
func New(year int, month time.Month, day int) Date {
	return Of(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Of floors t to the start of its day in t's own location.
func Of(t time.Time) Date {
	return Date{d: civil.DateOf(t)}
}

// Parse accepts YYYY-MM-DD, or an RFC 3339 timestamp which is floored to
// its day.
func Parse(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if d, err := civil.ParseDate(s); err == nil {
		return Date{d: d}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Of(t), nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// MustParse is Parse for literals in tests and fixtures.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (a Date) IsZero() bool { return a.d == civil.Date{} }

func (a Date) Before(b Date) bool { return a.d.Before(b.d) }

func (a Date) After(b Date) bool { return a.d.After(b.d) }

func (a Date) Equal(b Date) bool { return a.d == b.d }

func (a Date) IsSameOrBefore(b Date) bool { return !a.d.After(b.d) }

func (a Date) IsSameOrAfter(b Date) bool { return !a.d.Before(b.d) }

// AddDays returns the date n days later (n may be negative).
func (a Date) AddDays(n int) Date { return Date{d: a.d.AddDays(n)} }

// AddYears adds calendar years, clamping to the end of the month: Feb 29
// becomes Feb 28 in common years.
func (a Date) AddYears(n int) Date {
	if a.IsZero() {
		return a
	}
	year := a.d.Year + n
	day := min(a.d.Day, daysIn(year, a.d.Month))
	return Date{d: civil.Date{Year: year, Month: a.d.Month, Day: day}}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Time returns midnight UTC of the date.
func (a Date) Time() time.Time { return a.d.In(time.UTC) }

// Weekday of the date.
func (a Date) Weekday() time.Weekday { return a.Time().Weekday() }

func (a Date) String() string {
	if a.IsZero() {
		return ""
	}
	return a.d.String()
}

// DaysBetween returns b - a in whole days.
func DaysBetween(a, b Date) int {
	return b.d.DaysSince(a.d)
}

// Min returns the earliest of the given dates, ignoring zero values. It
// returns the zero Date when nothing is left.
func Min(dates ...Date) Date {
	var out Date
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		if out.IsZero() || d.Before(out) {
			out = d
		}
	}
	return out
}

// Compare orders dates ascending; suitable for slices.SortFunc.
func Compare(a, b Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func (a Date) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Date) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*a = Date{}
		return nil
	}
	d, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = d
	return nil
}

func (a Date) MarshalJSON() ([]byte, error) {
	if a.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(a.String())
}

func (a *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(data))
	}
	return a.UnmarshalText([]byte(s))
}
