// Package notify is the external notification scheduler surface: it accepts
// schedule/cancel requests tagged by alarm id and delivers fired alarms
// through a Sender.
package notify

import (
	"time"

	"github.com/eraliev/wakeup/internal/domain"
)

// Payload is the notification content carried by a registration.
type Payload struct {
	AlarmID string
	Label   string
	Time    string // HH:MM, shown in the notification body
	Sound   string
}

type RegistrationKind string

const (
	RegOnce      RegistrationKind = "once"
	RegRecurring RegistrationKind = "recurring"
)

// Registration is one pending entry in the scheduler, tagged by alarm id so
// CancelAll can retract everything an alarm registered.
type Registration struct {
	ID      string
	AlarmID string
	Kind    RegistrationKind
	FireAt  time.Time      // once
	Day     domain.Weekday // recurring
	Time    string         // recurring, HH:MM
}

// Scheduler is the external notification scheduler contract. CancelAll must
// be idempotent: cancelling an alarm with no registrations is a no-op.
type Scheduler interface {
	ScheduleOnce(alarmID string, at time.Time, p Payload) (string, error)
	ScheduleRecurring(alarmID string, day domain.Weekday, timeOfDay string, p Payload) (string, error)
	CancelAll(alarmID string) error
	ListPending() []Registration
}

// Sender delivers a fired alarm to the user.
type Sender interface {
	Send(p Payload) error
}
