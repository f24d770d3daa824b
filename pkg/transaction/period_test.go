package transaction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPeriodRange(t *testing.T) {
	// Thursday.
	now := time.Date(2024, 1, 18, 15, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		period   string
		from, to time.Time
	}{
		{PeriodToday, day(2024, 1, 18), day(2024, 1, 19)},
		{PeriodThisWeek, day(2024, 1, 15), day(2024, 1, 22)},
		{PeriodThisMonth, day(2024, 1, 1), day(2024, 2, 1)},
		{PeriodLastMonth, day(2023, 12, 1), day(2024, 1, 1)},
		{PeriodThisYear, day(2024, 1, 1), day(2025, 1, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.period, func(t *testing.T) {
			from, to, err := PeriodRange(tc.period, now)
			require.NoError(t, err)
			require.Equal(t, tc.from, from)
			require.Equal(t, tc.to, to)
		})
	}
}

func TestPeriodRange_WeekStartsOnMonday(t *testing.T) {
	sunday := time.Date(2024, 1, 21, 9, 0, 0, 0, time.UTC)
	from, to, err := PeriodRange(PeriodThisWeek, sunday)
	require.NoError(t, err)
	require.Equal(t, time.Monday, from.Weekday())
	require.Equal(t, 15, from.Day())
	require.Equal(t, 22, to.Day())
}

func TestPeriodRange_Unknown(t *testing.T) {
	_, _, err := PeriodRange("last-decade", time.Now())
	require.ErrorIs(t, err, errUnknownPeriod)
}
