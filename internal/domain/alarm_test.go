package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeOneOff(t *testing.T) {
	a := Alarm{Time: "08:00", Repeat: Once()}
	assert.Equal(t, "once", a.Describe())

	a.Date = "2026-02-05"
	assert.Equal(t, "2026-02-05", a.Describe())
}

func TestDescribeWeekly(t *testing.T) {
	tests := []struct {
		name string
		days []Weekday
		want string
	}{
		{"full week", []Weekday{0, 1, 2, 3, 4, 5, 6}, "daily"},
		{"workdays", []Weekday{1, 2, 3, 4, 5}, "weekdays"},
		{"weekend", []Weekday{0, 6}, "weekend"},
		{"mon wed fri", []Weekday{1, 3, 5}, "Mon, Wed, Fri"},
		{"selection order ignored", []Weekday{6, 0, 3}, "Sun, Wed, Sat"},
		{"single day", []Weekday{2}, "Tue"},
		{"no days", nil, "unset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Alarm{Time: "08:00", Repeat: Weekly(tt.days...)}
			assert.Equal(t, tt.want, a.Describe())
		})
	}
}

func TestDescribeWeeklyDuplicateDays(t *testing.T) {
	// A repeated day must not break the canonical-set matching.
	a := Alarm{Time: "08:00", Repeat: Weekly(0, 6, 6)}
	assert.Equal(t, "weekend", a.Describe())
}

func TestDescribeHoliday(t *testing.T) {
	a := Alarm{Time: "08:00", Repeat: OnHolidays(HolidayAll)}
	assert.Equal(t, "all legal holidays", a.Describe())

	a.Repeat = OnHolidays(HolidayWorkdayEve)
	assert.Equal(t, "eve of workdays", a.Describe())

	a.Repeat = OnHolidays(HolidayWeekendEve)
	assert.Equal(t, "eve of weekends", a.Describe())

	a.Repeat = OnHolidays("")
	assert.Equal(t, "legal holidays", a.Describe())
}

func TestDescribeCustom(t *testing.T) {
	a := Alarm{Time: "08:00", Repeat: EveryDays(3, "2026-06-01")}
	assert.Equal(t, "every 3 days", a.Describe())

	a.Repeat = RepeatRule{Kind: RepeatCustom}
	assert.Equal(t, "unset", a.Describe())
}

func TestJoinSplitDays(t *testing.T) {
	days := []Weekday{1, 3, 5}
	assert.Equal(t, "1,3,5", JoinDays(days))
	assert.Equal(t, days, SplitDays("1,3,5"))
	assert.Nil(t, SplitDays(""))
}

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t, "Sunday", WeekdayName(WeekdaySunday))
	assert.Equal(t, "Sat", WeekdayNameShort(WeekdaySaturday))
	assert.Equal(t, "", WeekdayName(Weekday(7)))
}
