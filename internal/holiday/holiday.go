// Package holiday holds the public-holiday table used by holiday alarms.
//
// The table covers a single year; dates outside it are simply not holidays.
// Extending the table is a data-maintenance task.
package holiday

import (
	"sort"
	"time"
)

// DayType distinguishes holidays from compensatory workdays (weekend days
// that the official schedule turns into workdays).
type DayType string

const (
	TypeHoliday DayType = "holiday"
	TypeWorkday DayType = "workday"
)

// Day is one entry of the holiday table.
type Day struct {
	Date string // YYYY-MM-DD
	Name string
	Type DayType
}

// Holidays2026 is the official 2026 public-holiday schedule.
var Holidays2026 = []Day{
	{Date: "2026-01-01", Name: "New Year's Day", Type: TypeHoliday},
	{Date: "2026-01-28", Name: "Spring Festival", Type: TypeHoliday},
	{Date: "2026-01-29", Name: "Spring Festival", Type: TypeHoliday},
	{Date: "2026-01-30", Name: "Spring Festival", Type: TypeHoliday},
	{Date: "2026-01-31", Name: "Spring Festival", Type: TypeHoliday},
	{Date: "2026-02-01", Name: "Spring Festival", Type: TypeHoliday},
	{Date: "2026-02-02", Name: "Spring Festival", Type: TypeHoliday},
	{Date: "2026-02-03", Name: "Spring Festival", Type: TypeHoliday},
	{Date: "2026-02-04", Name: "Spring Festival", Type: TypeHoliday},
	{Date: "2026-04-04", Name: "Qingming Festival", Type: TypeHoliday},
	{Date: "2026-04-05", Name: "Qingming Festival", Type: TypeHoliday},
	{Date: "2026-04-06", Name: "Qingming Festival", Type: TypeHoliday},
	{Date: "2026-05-01", Name: "Labour Day", Type: TypeHoliday},
	{Date: "2026-05-02", Name: "Labour Day", Type: TypeHoliday},
	{Date: "2026-05-03", Name: "Labour Day", Type: TypeHoliday},
	{Date: "2026-05-04", Name: "Labour Day", Type: TypeHoliday},
	{Date: "2026-05-05", Name: "Labour Day", Type: TypeHoliday},
	{Date: "2026-05-31", Name: "Dragon Boat Festival", Type: TypeHoliday},
	{Date: "2026-06-01", Name: "Dragon Boat Festival", Type: TypeHoliday},
	{Date: "2026-06-02", Name: "Dragon Boat Festival", Type: TypeHoliday},
	{Date: "2026-10-01", Name: "Mid-Autumn/National Day", Type: TypeHoliday},
	{Date: "2026-10-02", Name: "National Day", Type: TypeHoliday},
	{Date: "2026-10-03", Name: "National Day", Type: TypeHoliday},
	{Date: "2026-10-04", Name: "National Day", Type: TypeHoliday},
	{Date: "2026-10-05", Name: "National Day", Type: TypeHoliday},
	{Date: "2026-10-06", Name: "National Day", Type: TypeHoliday},
	{Date: "2026-10-07", Name: "National Day", Type: TypeHoliday},
	{Date: "2026-10-08", Name: "National Day", Type: TypeHoliday},
}

// Calendar answers holiday queries against a fixed table.
type Calendar struct {
	days []Day
}

// NewCalendar returns a calendar backed by the built-in table.
func NewCalendar() *Calendar {
	return &Calendar{days: Holidays2026}
}

// NewCalendarWithDays returns a calendar backed by an explicit table, e.g.
// one loaded from an ICS feed.
func NewCalendarWithDays(days []Day) *Calendar {
	return &Calendar{days: days}
}

// IsHoliday reports whether date (YYYY-MM-DD) is a holiday-tagged entry.
// Compensatory workdays and unknown dates are not holidays.
func (c *Calendar) IsHoliday(date string) bool {
	for _, d := range c.days {
		if d.Date == date && d.Type == TypeHoliday {
			return true
		}
	}
	return false
}

// DatesInRange returns all holiday-tagged dates whose year lies in
// [startYear, endYear], ascending.
func (c *Calendar) DatesInRange(startYear, endYear int) []string {
	var out []string
	for _, d := range c.days {
		if d.Type != TypeHoliday {
			continue
		}
		t, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		if y := t.Year(); y >= startYear && y <= endYear {
			out = append(out, d.Date)
		}
	}
	// Table is kept in ascending order, but an ICS-loaded table may not be.
	sort.Strings(out)
	return out
}
