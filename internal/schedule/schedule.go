// Package schedule turns an alarm's declarative repeat configuration into
// concrete fire times for the notification scheduler.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eraliev/wakeup/internal/domain"
)

// Trigger is one recurring registration request: fire at Time on Day, every
// week, indefinitely.
type Trigger struct {
	Day  domain.Weekday
	Time string // HH:MM
}

// ParseClock parses an HH:MM wall-clock string.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hour, minute, nil
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// At combines a date string and a clock string into an instant in loc.
func At(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// NextFireTime computes the single fire instant of a one-off alarm.
//
// With an explicit date the instant is date+time as-is, even if it is in the
// past; expiry of past instants is IsExpired's job, not a silent roll
// forward. Without a date the instant is today at the alarm time, rolled
// forward one day when that has already passed, so the result is always
// strictly after now.
//
// The second return is false when the alarm is not a one-off or its time
// fields do not parse.
func NextFireTime(a *domain.Alarm, now time.Time) (time.Time, bool) {
	if a.Repeat.Kind != domain.RepeatNone {
		return time.Time{}, false
	}

	if a.Date != "" {
		at, err := At(a.Date, a.Time, now.Location())
		if err != nil {
			return time.Time{}, false
		}
		return at, true
	}

	hour, minute, err := ParseClock(a.Time)
	if err != nil {
		return time.Time{}, false
	}
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at, true
}

// WeeklyTriggers returns one recurring trigger per repeat day of a weekly
// alarm. An empty day set yields no triggers, leaving the alarm inert.
func WeeklyTriggers(a *domain.Alarm) []Trigger {
	if a.Repeat.Kind != domain.RepeatWeekly {
		return nil
	}
	set := a.Repeat.DaySet()
	var out []Trigger
	for d := domain.WeekdaySunday; d <= domain.WeekdaySaturday; d++ {
		if set[d] {
			out = append(out, Trigger{Day: d, Time: a.Time})
		}
	}
	return out
}

// IsExpired reports whether a one-off alarm's scheduled instant has passed.
// Only dated one-off alarms expire; an undated one-off is always "for the
// next occurrence" and rolls forward instead.
func IsExpired(a *domain.Alarm, now time.Time) bool {
	if a.Repeat.Kind != domain.RepeatNone || a.Date == "" {
		return false
	}
	at, err := At(a.Date, a.Time, now.Location())
	if err != nil {
		return false
	}
	return at.Before(now)
}
