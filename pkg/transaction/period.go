package transaction

import (
	"errors"
	"time"
)

const (
	PeriodToday     = "today"
	PeriodThisWeek  = "this-week"
	PeriodThisMonth = "this-month"
	PeriodLastMonth = "last-month"
	PeriodThisYear  = "this-year"
)

var errUnknownPeriod = errors.New("unknown period")

// PeriodRange returns the [from, to) window of a named period around now,
// in now's location. Weeks start on Monday.
func PeriodRange(period string, now time.Time) (from, to time.Time, err error) {
	y, m, d := now.Date()
	loc := now.Location()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)

	switch period {
	case PeriodToday:
		return today, today.AddDate(0, 0, 1), nil
	case PeriodThisWeek:
		offset := (int(today.Weekday()) + 6) % 7
		from = today.AddDate(0, 0, -offset)
		return from, from.AddDate(0, 0, 7), nil
	case PeriodThisMonth:
		from = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(0, 1, 0), nil
	case PeriodLastMonth:
		to = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return to.AddDate(0, -1, 0), to, nil
	case PeriodThisYear:
		from = time.Date(y, 1, 1, 0, 0, 0, 0, loc)
		return from, from.AddDate(1, 0, 0), nil
	}
	return time.Time{}, time.Time{}, errUnknownPeriod
}
