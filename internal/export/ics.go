// Package export renders the alarm collection as an iCalendar document so it
// can be opened in any calendar app.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/eraliev/wakeup/internal/domain"
	"github.com/eraliev/wakeup/internal/holiday"
	"github.com/eraliev/wakeup/internal/schedule"
)

// byDayCodes maps the 0=Sunday..6=Saturday convention to RRULE BYDAY codes.
var byDayCodes = []string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

// ICS writes the enabled alarms as a VCALENDAR. Weekly and custom alarms
// become recurring VEVENTs with an RRULE; one-off alarms become a single
// VEVENT; holiday alarms become one VEVENT per occurrence within a year.
func ICS(w io.Writer, alarms []domain.Alarm, cal *holiday.Calendar, now time.Time) error {
	out := ical.NewCalendar()
	out.Props.SetText(ical.PropVersion, "2.0")
	out.Props.SetText(ical.PropProductID, "-//wakeup//alarms//EN")

	for i := range alarms {
		a := &alarms[i]
		if !a.Enabled {
			continue
		}
		for _, ev := range alarmEvents(a, cal, now) {
			out.Children = append(out.Children, ev.Component)
		}
	}

	if len(out.Children) == 0 {
		return fmt.Errorf("no enabled alarms to export")
	}
	return ical.NewEncoder(w).Encode(out)
}

func alarmEvents(a *domain.Alarm, cal *holiday.Calendar, now time.Time) []*ical.Event {
	switch a.Repeat.Kind {
	case domain.RepeatNone:
		at, ok := schedule.NextFireTime(a, now)
		if !ok {
			return nil
		}
		return []*ical.Event{newEvent(a, a.ID, at, "")}

	case domain.RepeatWeekly:
		set := a.Repeat.DaySet()
		if len(set) == 0 {
			return nil
		}
		rule := "FREQ=WEEKLY;BYDAY="
		first := true
		for d := domain.WeekdaySunday; d <= domain.WeekdaySaturday; d++ {
			if !set[d] {
				continue
			}
			if !first {
				rule += ","
			}
			rule += byDayCodes[d]
			first = false
		}
		hour, minute, err := schedule.ParseClock(a.Time)
		if err != nil {
			return nil
		}
		start := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		return []*ical.Event{newEvent(a, a.ID, start, rule)}

	case domain.RepeatCustom:
		if a.Repeat.Interval <= 0 {
			return nil
		}
		start, ok := customStart(a, now)
		if !ok {
			return nil
		}
		rule := fmt.Sprintf("FREQ=DAILY;INTERVAL=%d", a.Repeat.Interval)
		if a.Repeat.EndDate != "" {
			end, err := schedule.At(a.Repeat.EndDate, a.Time, now.Location())
			if err != nil {
				return nil
			}
			rule += ";UNTIL=" + end.UTC().Format("20060102T150405Z")
		}
		return []*ical.Event{newEvent(a, a.ID, start, rule)}

	case domain.RepeatHoliday:
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		to := from.AddDate(1, 0, 0)
		var out []*ical.Event
		for _, date := range schedule.OccurrenceDates(a, cal, from, to) {
			at, err := schedule.At(date, a.Time, now.Location())
			if err != nil {
				continue
			}
			out = append(out, newEvent(a, a.ID+"-"+date, at, ""))
		}
		return out
	}

	return nil
}

func customStart(a *domain.Alarm, now time.Time) (time.Time, bool) {
	if a.Date != "" {
		at, err := schedule.At(a.Date, a.Time, now.Location())
		if err != nil {
			return time.Time{}, false
		}
		return at, true
	}
	hour, minute, err := schedule.ParseClock(a.Time)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), true
}

func newEvent(a *domain.Alarm, uid string, start time.Time, rule string) *ical.Event {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid+"@wakeup")

	summary := a.Label
	if summary == "" {
		summary = "Alarm"
	}
	ev.Props.SetText(ical.PropSummary, summary)
	ev.Props.SetText(ical.PropDescription, a.Describe())

	// Convert to UTC explicitly so the encoder emits Z-suffixed times.
	ev.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	ev.Props.SetDateTime(ical.PropDateTimeEnd, start.Add(time.Minute).UTC())
	ev.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())

	if rule != "" {
		// SetText would escape the ';' and ',' separators; RRULE values are
		// structured, not text, so set the raw value.
		prop := ical.NewProp(ical.PropRecurrenceRule)
		prop.Value = rule
		ev.Props.Set(prop)
	}
	return ev
}
