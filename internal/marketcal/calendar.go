// Package marketcal answers one question: is a given date a NYSE trading day.
// It covers weekends and the fixed + floating US market holidays, with the
// Saturday→Friday / Sunday→Monday observance shifts.
package marketcal

import "time"

// IsTradingDay reports whether the NYSE is open on the given date.
func IsTradingDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !isHoliday(date)
}

func isHoliday(date time.Time) bool {
	y := date.Year()
	for _, h := range holidays(y) {
		if sameDay(date, h) {
			return true
		}
	}
	return false
}

// holidays returns the observed NYSE holidays for a year.
func holidays(year int) []time.Time {
	hs := []time.Time{
		observed(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),   // New Year's Day
		nthWeekday(year, time.January, time.Monday, 3),                     // MLK Day
		nthWeekday(year, time.February, time.Monday, 3),                    // Presidents' Day
		goodFriday(year),                                                   //
		lastWeekday(year, time.May, time.Monday),                           // Memorial Day
		observed(time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC)),      // Independence Day
		nthWeekday(year, time.September, time.Monday, 1),                   // Labor Day
		nthWeekday(year, time.November, time.Thursday, 4),                  // Thanksgiving
		observed(time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC)), // Christmas
	}
	if year >= 2022 {
		hs = append(hs, observed(time.Date(year, time.June, 19, 0, 0, 0, 0, time.UTC))) // Juneteenth
	}
	return hs
}

// observed shifts a fixed-date holiday falling on a weekend to the nearest
// weekday, the way the exchange does.
func observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

// nthWeekday returns the nth given weekday of a month.
func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset+(n-1)*7)
}

// lastWeekday returns the last given weekday of a month.
func lastWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	offset := (int(d.Weekday()) - int(weekday) + 7) % 7
	return d.AddDate(0, 0, -offset)
}

// goodFriday is two days before Easter Sunday (anonymous Gregorian algorithm).
func goodFriday(year int) time.Time {
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
	month := time.Month((h + l - 7*m + 114) / 31)
	day := (h+l-7*m+114)%31 + 1
	easter := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return easter.AddDate(0, 0, -2)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
