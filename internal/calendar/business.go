package calendar

import "time"

// LastNBusinessDays returns the last n B3 business days up to and including
// from, most recent first.
func LastNBusinessDays(n int, from time.Time) []time.Time {
	out := make([]time.Time, 0, n)
	d := TruncateToDate(from)

	for len(out) < n {
		if IsBusinessDay(d) {
			out = append(out, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

// fixedHolidays are the national holidays with a fixed month-day.
var fixedHolidays = map[string]struct{}{
	"01-01": {}, // New Year
	"04-21": {}, // Tiradentes
	"05-01": {}, // Labor Day
	"09-07": {}, // Independence Day
	"10-12": {}, // Our Lady Aparecida
	"11-02": {}, // All Souls' Day
	"11-15": {}, // Republic Proclamation
	"12-25": {}, // Christmas
}

// IsBusinessDay reports whether the exchange trades on d.
func IsBusinessDay(d time.Time) bool {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if _, ok := fixedHolidays[d.Format("01-02")]; ok {
		return false
	}

	easter := EasterSunday(d.Year())
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	for _, offset := range []int{
		-48, // Carnival Monday
		-47, // Carnival Tuesday
		-2,  // Good Friday
		60,  // Corpus Christi
	} {
		if day.Equal(easter.AddDate(0, 0, offset)) {
			return false
		}
	}
	return true
}

// EasterSunday returns Easter Sunday of year (Meeus/Jones/Butcher), at midnight UTC.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
