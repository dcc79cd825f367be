package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Weekday represents a day of the week (0 = Sunday, 1 = Monday, ...)
type Weekday int

const (
	WeekdaySunday    Weekday = 0
	WeekdayMonday    Weekday = 1
	WeekdayTuesday   Weekday = 2
	WeekdayWednesday Weekday = 3
	WeekdayThursday  Weekday = 4
	WeekdayFriday    Weekday = 5
	WeekdaySaturday  Weekday = 6
)

// RepeatKind is the category of repetition pattern.
type RepeatKind string

const (
	RepeatNone    RepeatKind = "none"
	RepeatWeekly  RepeatKind = "weekly"
	RepeatHoliday RepeatKind = "holiday"
	RepeatCustom  RepeatKind = "custom"
)

// HolidayVariant selects which holiday-derived dates a holiday alarm fires on.
type HolidayVariant string

const (
	HolidayAll        HolidayVariant = "all"
	HolidayWorkdayEve HolidayVariant = "workday"
	HolidayWeekendEve HolidayVariant = "weekend"
)

// RepeatRule is the repeat configuration of an alarm. Kind decides which of
// the payload fields are meaningful: Days for weekly, Holiday for holiday,
// Interval/EndDate for custom. Use the constructors below instead of filling
// the struct by hand.
type RepeatRule struct {
	Kind     RepeatKind
	Days     []Weekday      // weekly: 0-6, Sunday..Saturday
	Holiday  HolidayVariant // holiday
	Interval int            // custom: every N days
	EndDate  string         // custom: YYYY-MM-DD, inclusive
}

// Once is the repeat rule of a one-off alarm.
func Once() RepeatRule {
	return RepeatRule{Kind: RepeatNone}
}

// Weekly repeats on the given weekdays.
func Weekly(days ...Weekday) RepeatRule {
	return RepeatRule{Kind: RepeatWeekly, Days: days}
}

// OnHolidays repeats on dates selected by the holiday variant.
func OnHolidays(variant HolidayVariant) RepeatRule {
	return RepeatRule{Kind: RepeatHoliday, Holiday: variant}
}

// EveryDays repeats every interval days until endDate (inclusive).
func EveryDays(interval int, endDate string) RepeatRule {
	return RepeatRule{Kind: RepeatCustom, Interval: interval, EndDate: endDate}
}

// Alarm is a user-defined rule specifying a time and a repeat pattern that
// should produce a notification.
type Alarm struct {
	ID        string
	Time      string // HH:MM
	Date      string // YYYY-MM-DD, only meaningful for one-off alarms
	Label     string
	Enabled   bool
	Repeat    RepeatRule
	SoundID   string
	SoundName string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DaySet returns the weekly repeat days as a set.
func (r RepeatRule) DaySet() map[Weekday]bool {
	set := make(map[Weekday]bool, len(r.Days))
	for _, d := range r.Days {
		if d >= WeekdaySunday && d <= WeekdaySaturday {
			set[d] = true
		}
	}
	return set
}

// Describe returns the human-readable description of the alarm's repeat rule.
func (a *Alarm) Describe() string {
	switch a.Repeat.Kind {
	case RepeatNone:
		if a.Date != "" {
			return a.Date
		}
		return "once"

	case RepeatWeekly:
		set := a.Repeat.DaySet()
		if len(set) == 0 {
			return "unset"
		}
		if len(set) == 7 {
			return "daily"
		}
		if len(set) == 5 && !set[WeekdaySunday] && !set[WeekdaySaturday] {
			return "weekdays"
		}
		if len(set) == 2 && set[WeekdaySunday] && set[WeekdaySaturday] {
			return "weekend"
		}
		// Join selected day names in Sunday-first numeric order, not
		// selection order.
		days := make([]Weekday, 0, len(set))
		for d := range set {
			days = append(days, d)
		}
		sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
		names := make([]string, 0, len(days))
		for _, d := range days {
			names = append(names, WeekdayNameShort(d))
		}
		return strings.Join(names, ", ")

	case RepeatHoliday:
		switch a.Repeat.Holiday {
		case HolidayAll:
			return "all legal holidays"
		case HolidayWorkdayEve:
			return "eve of workdays"
		case HolidayWeekendEve:
			return "eve of weekends"
		default:
			return "legal holidays"
		}

	case RepeatCustom:
		if a.Repeat.Interval > 0 {
			return fmt.Sprintf("every %d days", a.Repeat.Interval)
		}
		return "unset"
	}

	return "unset"
}

// WeekdayName returns the English name for the weekday.
func WeekdayName(d Weekday) string {
	names := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if d >= 0 && int(d) < len(names) {
		return names[d]
	}
	return ""
}

// WeekdayNameShort returns the short English name for the weekday.
func WeekdayNameShort(d Weekday) string {
	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if d >= 0 && int(d) < len(names) {
		return names[d]
	}
	return ""
}

// JoinDays encodes weekdays as a comma-separated string for storage,
// e.g. "1,3,5".
func JoinDays(days []Weekday) string {
	var parts []string
	for _, d := range days {
		parts = append(parts, strconv.Itoa(int(d)))
	}
	return strings.Join(parts, ",")
}

// SplitDays decodes a comma-separated weekday string produced by JoinDays.
func SplitDays(s string) []Weekday {
	if s == "" {
		return nil
	}
	var days []Weekday
	for _, part := range strings.Split(s, ",") {
		if d, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
			days = append(days, Weekday(d))
		}
	}
	return days
}
