// Package hours implements the restaurant open/closed predicate of
// spec.md §4.10, grounded on original_source's time_utils.py wrap-around
// handling (closing hour may be numerically before opening hour, meaning
// "next day").
package hours

import "time"

// Gate holds the restaurant's daily operating window in its local timezone.
type Gate struct {
	OpeningHour int
	ClosingHour int
	Location    *time.Location
}

// IsOpen reports whether the restaurant is open at the given instant. A
// window that wraps past midnight (closing hour numerically at or before
// opening hour) is open iff hour >= opening OR hour < closing; a window
// that doesn't wrap is open iff opening <= hour < closing.
func (g Gate) IsOpen(now time.Time) bool {
	local := now.In(g.Location)
	hour := local.Hour()
	if g.ClosingHour <= g.OpeningHour {
		return hour >= g.OpeningHour || hour < g.ClosingHour
	}
	return hour >= g.OpeningHour && hour < g.ClosingHour
}

// NextOpeningDescriptionAr returns a short Arabic phrase naming the next
// opening time, e.g. "الساعة 9 صباحاً", for use in the closed-restaurant message.
func (g Gate) NextOpeningDescriptionAr() string {
	if g.OpeningHour == 9 {
		return "الساعة 9 صباحاً"
	}
	suffix := "صباحاً"
	hour := g.OpeningHour
	if hour >= 12 {
		suffix = "مساءً"
		if hour > 12 {
			hour -= 12
		}
	}
	return formatHourAr(hour) + " " + suffix
}

func formatHourAr(hour int) string {
	digits := "0123456789"
	if hour == 0 {
		return "الساعة 12"
	}
	s := "الساعة "
	if hour < 10 {
		s += string(digits[hour])
	} else {
		s += string(digits[hour/10]) + string(digits[hour%10])
	}
	return s
}
