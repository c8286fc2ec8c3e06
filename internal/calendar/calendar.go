// Package calendar provides the date arithmetic used by the performance
// calculations and the exchange business-day calendar used by quote imports.
package calendar

import "time"

// Calendar answers year-boundary questions for a date.
type Calendar interface {
	EndOfYear(t time.Time) time.Time
}

// Gregorian is the plain civil calendar; the year ends on December 31st.
type Gregorian struct{}

// EndOfYear returns December 31st of the year containing t, at midnight UTC.
func (Gregorian) EndOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

// EndOfPreviousYear returns the last day of the year before the one containing t.
func EndOfPreviousYear(c Calendar, t time.Time) time.Time {
	return c.EndOfYear(time.Date(t.Year()-1, time.January, 1, 0, 0, 0, 0, time.UTC))
}

// TruncateToDate drops the clock part of t, keeping its location.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
