// Package busday implements business-day date arithmetic. A business day is
// any calendar day that is not a Saturday or Sunday; public holidays are not
// excluded.
package busday

import "time"

// IsBusinessDay reports whether t falls on a weekday.
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// Add advances t by n business days, walking forward one calendar day at a
// time and only counting weekdays. A non-positive n returns t unchanged.
func Add(t time.Time, n int) time.Time {
	for n > 0 {
		t = t.AddDate(0, 0, 1)
		if IsBusinessDay(t) {
			n--
		}
	}
	return t
}
