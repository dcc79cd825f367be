package schedule

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/eraliev/wakeup/internal/domain"
	"github.com/eraliev/wakeup/internal/holiday"
)

// maxOneShotRegistrations caps how many one-shot registrations a single
// holiday or custom alarm may hold at once.
const maxOneShotRegistrations = 64

// rruleWeekdays maps the 0=Sunday..6=Saturday convention to rrule weekdays.
var rruleWeekdays = []rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// OccurrenceDates returns the calendar dates in [from, to] (inclusive, both
// at midnight) on which the alarm's repeat rule says it should fire, as
// ascending YYYY-MM-DD strings.
//
// Holiday eve variants (workday/weekend) have no defined date-selection rule
// and yield no occurrences.
func OccurrenceDates(a *domain.Alarm, cal *holiday.Calendar, from, to time.Time) []string {
	if to.Before(from) {
		return nil
	}

	switch a.Repeat.Kind {
	case domain.RepeatNone:
		if a.Date == "" {
			return nil
		}
		d, err := ParseDate(a.Date, from.Location())
		if err != nil {
			return nil
		}
		if d.Before(from) || d.After(to) {
			return nil
		}
		return []string{a.Date}

	case domain.RepeatWeekly:
		set := a.Repeat.DaySet()
		if len(set) == 0 {
			return nil
		}
		var byDay []rrule.Weekday
		for d := domain.WeekdaySunday; d <= domain.WeekdaySaturday; d++ {
			if set[d] {
				byDay = append(byDay, rruleWeekdays[d])
			}
		}
		r, err := rrule.NewRRule(rrule.ROption{
			Freq:      rrule.WEEKLY,
			Byweekday: byDay,
			Dtstart:   from,
		})
		if err != nil {
			return nil
		}
		return datesOf(r.Between(from, to, true))

	case domain.RepeatHoliday:
		if a.Repeat.Holiday != domain.HolidayAll && a.Repeat.Holiday != "" {
			return nil
		}
		var out []string
		fromStr := from.Format("2006-01-02")
		toStr := to.Format("2006-01-02")
		for _, d := range cal.DatesInRange(from.Year(), to.Year()) {
			if d >= fromStr && d <= toStr {
				out = append(out, d)
			}
		}
		return out

	case domain.RepeatCustom:
		if a.Repeat.Interval <= 0 {
			return nil
		}
		dtstart := from
		if a.Date != "" {
			if d, err := ParseDate(a.Date, from.Location()); err == nil {
				dtstart = d
			}
		}
		opt := rrule.ROption{
			Freq:     rrule.DAILY,
			Interval: a.Repeat.Interval,
			Dtstart:  dtstart,
		}
		if a.Repeat.EndDate != "" {
			end, err := ParseDate(a.Repeat.EndDate, from.Location())
			if err != nil {
				return nil
			}
			opt.Until = end
		}
		r, err := rrule.NewRRule(opt)
		if err != nil {
			return nil
		}
		return datesOf(r.Between(from, to, true))
	}

	return nil
}

// UpcomingFireTimes resolves a holiday or custom alarm into concrete one-shot
// fire instants within horizon of now, strictly in the future, capped.
func UpcomingFireTimes(a *domain.Alarm, cal *holiday.Calendar, now time.Time, horizon time.Duration) []time.Time {
	if a.Repeat.Kind != domain.RepeatHoliday && a.Repeat.Kind != domain.RepeatCustom {
		return nil
	}

	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to := now.Add(horizon)

	var out []time.Time
	for _, date := range OccurrenceDates(a, cal, from, to) {
		at, err := At(date, a.Time, now.Location())
		if err != nil {
			continue
		}
		if !at.After(now) {
			continue
		}
		out = append(out, at)
		if len(out) >= maxOneShotRegistrations {
			break
		}
	}
	return out
}

func datesOf(times []time.Time) []string {
	var out []string
	var last string
	for _, t := range times {
		d := t.Format("2006-01-02")
		if d != last {
			out = append(out, d)
			last = d
		}
	}
	return out
}
