package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraliev/wakeup/internal/domain"
	"github.com/eraliev/wakeup/internal/holiday"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s, time.UTC)
	require.NoError(t, err)
	return d
}

func TestOccurrenceDatesOneOff(t *testing.T) {
	cal := holiday.NewCalendar()
	a := &domain.Alarm{Time: "08:00", Date: "2026-02-10", Repeat: domain.Once()}

	got := OccurrenceDates(a, cal, day(t, "2026-02-01"), day(t, "2026-02-28"))
	assert.Equal(t, []string{"2026-02-10"}, got)

	// Out of range: empty.
	assert.Empty(t, OccurrenceDates(a, cal, day(t, "2026-02-11"), day(t, "2026-02-28")))
	assert.Empty(t, OccurrenceDates(a, cal, day(t, "2026-01-01"), day(t, "2026-02-09")))

	// No date at all: empty.
	a.Date = ""
	assert.Empty(t, OccurrenceDates(a, cal, day(t, "2026-02-01"), day(t, "2026-02-28")))
}

func TestOccurrenceDatesWeekly(t *testing.T) {
	cal := holiday.NewCalendar()
	// 2026-02-01 is a Sunday.
	a := &domain.Alarm{Time: "08:00", Repeat: domain.Weekly(domain.WeekdayMonday, domain.WeekdayFriday)}

	got := OccurrenceDates(a, cal, day(t, "2026-02-01"), day(t, "2026-02-14"))
	assert.Equal(t, []string{
		"2026-02-02", "2026-02-06", "2026-02-09", "2026-02-13",
	}, got)
}

func TestOccurrenceDatesWeeklyEmptySet(t *testing.T) {
	cal := holiday.NewCalendar()
	a := &domain.Alarm{Time: "08:00", Repeat: domain.Weekly()}
	assert.Empty(t, OccurrenceDates(a, cal, day(t, "2026-02-01"), day(t, "2026-02-28")))
}

func TestOccurrenceDatesHoliday(t *testing.T) {
	cal := holiday.NewCalendar()
	a := &domain.Alarm{Time: "08:00", Repeat: domain.OnHolidays(domain.HolidayAll)}

	got := OccurrenceDates(a, cal, day(t, "2026-04-01"), day(t, "2026-05-03"))
	assert.Equal(t, []string{
		"2026-04-04", "2026-04-05", "2026-04-06",
		"2026-05-01", "2026-05-02", "2026-05-03",
	}, got)
}

func TestOccurrenceDatesHolidayEveVariantsUnresolved(t *testing.T) {
	cal := holiday.NewCalendar()
	from, to := day(t, "2026-01-01"), day(t, "2026-12-31")

	a := &domain.Alarm{Time: "08:00", Repeat: domain.OnHolidays(domain.HolidayWorkdayEve)}
	assert.Empty(t, OccurrenceDates(a, cal, from, to))

	a.Repeat = domain.OnHolidays(domain.HolidayWeekendEve)
	assert.Empty(t, OccurrenceDates(a, cal, from, to))
}

func TestOccurrenceDatesCustom(t *testing.T) {
	cal := holiday.NewCalendar()
	a := &domain.Alarm{
		Time:   "08:00",
		Date:   "2026-02-01",
		Repeat: domain.EveryDays(3, "2026-02-10"),
	}

	got := OccurrenceDates(a, cal, day(t, "2026-02-01"), day(t, "2026-02-28"))
	assert.Equal(t, []string{"2026-02-01", "2026-02-04", "2026-02-07", "2026-02-10"}, got)

	// Window starting mid-sequence keeps the anchor's phase.
	got = OccurrenceDates(a, cal, day(t, "2026-02-05"), day(t, "2026-02-28"))
	assert.Equal(t, []string{"2026-02-07", "2026-02-10"}, got)

	// Missing interval: no occurrences.
	a.Repeat = domain.RepeatRule{Kind: domain.RepeatCustom}
	assert.Empty(t, OccurrenceDates(a, cal, day(t, "2026-02-01"), day(t, "2026-02-28")))
}

func TestOccurrenceDatesInvertedRange(t *testing.T) {
	cal := holiday.NewCalendar()
	a := &domain.Alarm{Time: "08:00", Repeat: domain.Weekly(1)}
	assert.Empty(t, OccurrenceDates(a, cal, day(t, "2026-02-28"), day(t, "2026-02-01")))
}

func TestUpcomingFireTimes(t *testing.T) {
	cal := holiday.NewCalendar()
	now := time.Date(2026, 4, 4, 9, 0, 0, 0, time.UTC)

	a := &domain.Alarm{Time: "08:00", Repeat: domain.OnHolidays(domain.HolidayAll)}
	fires := UpcomingFireTimes(a, cal, now, 60*24*time.Hour)

	require.NotEmpty(t, fires)
	// 2026-04-04 08:00 has already passed; the first fire is the next holiday.
	assert.Equal(t, time.Date(2026, 4, 5, 8, 0, 0, 0, time.UTC), fires[0])
	for _, f := range fires {
		assert.True(t, f.After(now))
	}
}

func TestUpcomingFireTimesWrongKind(t *testing.T) {
	cal := holiday.NewCalendar()
	now := time.Date(2026, 4, 4, 9, 0, 0, 0, time.UTC)

	a := &domain.Alarm{Time: "08:00", Repeat: domain.Weekly(1)}
	assert.Empty(t, UpcomingFireTimes(a, cal, now, 24*time.Hour))
}
