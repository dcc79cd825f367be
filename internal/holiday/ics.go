package holiday

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-ical"
)

// LoadICS reads a holiday calendar from an ICS feed. Every all-day VEVENT
// becomes one table entry per covered date; events whose summary mentions
// "workday" are treated as compensatory workdays.
func LoadICS(r io.Reader) ([]Day, error) {
	dec := ical.NewDecoder(r)

	var days []Day
	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode ics: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			days = append(days, eventDays(comp)...)
		}
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("no holiday events in feed")
	}
	return days, nil
}

// LoadICSFile reads a holiday calendar from an ICS file on disk.
func LoadICSFile(path string) ([]Day, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open holiday ics: %w", err)
	}
	defer f.Close()
	return LoadICS(f)
}

func eventDays(comp *ical.Component) []Day {
	name := ""
	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		name = prop.Value
	}

	dayType := TypeHoliday
	if strings.Contains(strings.ToLower(name), "workday") {
		dayType = TypeWorkday
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return nil
	}
	start, err := startProp.DateTime(time.UTC)
	if err != nil {
		return nil
	}

	// All-day events may span several days via DTEND (exclusive).
	end := start.AddDate(0, 0, 1)
	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if t, err := endProp.DateTime(time.UTC); err == nil && t.After(start) {
			end = t
		}
	}

	var out []Day
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		out = append(out, Day{
			Date: d.Format("2006-01-02"),
			Name: name,
			Type: dayType,
		})
	}
	return out
}
