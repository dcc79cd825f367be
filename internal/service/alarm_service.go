package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/eraliev/wakeup/internal/domain"
	"github.com/eraliev/wakeup/internal/holiday"
	"github.com/eraliev/wakeup/internal/notify"
	"github.com/eraliev/wakeup/internal/schedule"
	"github.com/eraliev/wakeup/internal/storage"
)

// ErrNotFound means the operation referenced an unknown alarm or sound id.
var ErrNotFound = errors.New("not found")

const (
	maxLabelLen = 30

	// defaultHorizon bounds how far ahead holiday and custom alarms are
	// registered as one-shots; a restart or sweep re-registers past it.
	defaultHorizon = 370 * 24 * time.Hour
)

// AlarmService owns the canonical alarm collection. Every operation is
// serialized by its mutex and runs to completion, persistence write first,
// scheduler call second: a failed save aborts the operation with memory
// untouched, a failed scheduler call is logged and left for the next sweep or
// restart to reconcile.
type AlarmService struct {
	mu       sync.Mutex
	storage  *storage.Storage
	sched    notify.Scheduler
	sounds   *SoundService
	holidays *holiday.Calendar
	tz       *time.Location
	now      func() time.Time
	horizon  time.Duration

	alarms []domain.Alarm

	sweeper    *cron.Cron
	sweepEvery time.Duration
}

func NewAlarmService(store *storage.Storage, sched notify.Scheduler, sounds *SoundService, holidays *holiday.Calendar, tz *time.Location) *AlarmService {
	if tz == nil {
		tz = time.Local
	}
	return &AlarmService{
		storage:    store,
		sched:      sched,
		sounds:     sounds,
		holidays:   holidays,
		tz:         tz,
		now:        func() time.Time { return time.Now().In(tz) },
		horizon:    defaultHorizon,
		sweepEvery: time.Minute,
	}
}

// SetSweepInterval overrides how often the periodic expiry sweep runs. Call
// before Load.
func (s *AlarmService) SetSweepInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d > 0 {
		s.sweepEvery = d
	}
}

// Load reads the persisted collection, expires stale one-offs, and rebuilds
// every external registration from scratch (at-least-once semantics).
func (s *AlarmService) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alarms, err := s.storage.ListAlarms()
	if err != nil {
		return fmt.Errorf("load alarms: %w", err)
	}
	s.alarms = alarms

	s.sweepLocked(s.now())
	for i := range s.alarms {
		s.resyncLocked(&s.alarms[i])
	}
	s.updateSweeperLocked()

	log.Printf("Loaded %d alarms", len(s.alarms))
	return nil
}

// Close stops the sweep loop. Pending external registrations are left to the
// scheduler's own lifecycle.
func (s *AlarmService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopSweeperLocked()
}

// List returns a copy of the alarm collection in stored order.
func (s *AlarmService) List() []domain.Alarm {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Alarm, len(s.alarms))
	for i := range s.alarms {
		out[i] = copyAlarm(s.alarms[i])
	}
	return out
}

// Get returns the alarm with the given id, or ErrNotFound.
func (s *AlarmService) Get(id string) (*domain.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alarms {
		if s.alarms[i].ID == id {
			a := copyAlarm(s.alarms[i])
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

// copyAlarm detaches the repeat-day slice so callers cannot mutate owned
// state through a returned alarm.
func copyAlarm(a domain.Alarm) domain.Alarm {
	a.Repeat.Days = append([]domain.Weekday(nil), a.Repeat.Days...)
	return a
}

// Create validates the draft, assigns id and timestamps, persists, and
// registers the alarm's triggers when enabled. New alarms go to the front of
// the list.
func (s *AlarmService) Create(draft domain.Alarm) (*domain.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validate(&draft); err != nil {
		return nil, err
	}

	now := s.now()
	draft = copyAlarm(draft)
	draft.ID = uuid.New().String()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	s.resolveSound(&draft)

	next := make([]domain.Alarm, 0, len(s.alarms)+1)
	next = append(next, draft)
	next = append(next, s.alarms...)

	if err := s.storage.SaveAlarms(next); err != nil {
		return nil, fmt.Errorf("save alarms: %w", err)
	}
	s.alarms = next

	s.resyncLocked(&s.alarms[0])
	s.sweepLocked(now)
	s.updateSweeperLocked()

	a := copyAlarm(s.alarms[0])
	return &a, nil
}

// AlarmPatch is a partial update. Nil fields are left unchanged; an empty
// Date clears the alarm's date.
type AlarmPatch struct {
	Time    *string
	Date    *string
	Label   *string
	Enabled *bool
	Repeat  *domain.RepeatRule
	SoundID *string
}

// Update merges the patch into the stored alarm, bumps UpdatedAt, and
// persists. Registrations are cancelled and rebuilt only when a
// schedule-relevant field changed.
func (s *AlarmService) Update(id string, patch AlarmPatch) (*domain.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, patch)
}

func (s *AlarmService) updateLocked(id string, patch AlarmPatch) (*domain.Alarm, error) {
	idx := -1
	for i := range s.alarms {
		if s.alarms[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}

	updated := s.alarms[idx]
	if patch.Time != nil {
		updated.Time = *patch.Time
	}
	if patch.Date != nil {
		updated.Date = *patch.Date
	}
	if patch.Label != nil {
		updated.Label = *patch.Label
	}
	if patch.Enabled != nil {
		updated.Enabled = *patch.Enabled
	}
	if patch.Repeat != nil {
		updated.Repeat = *patch.Repeat
		updated.Repeat.Days = append([]domain.Weekday(nil), patch.Repeat.Days...)
	}
	if patch.SoundID != nil {
		updated.SoundID = *patch.SoundID
		s.resolveSound(&updated)
	}

	if err := s.validate(&updated); err != nil {
		return nil, err
	}

	prev := s.alarms[idx]
	updated.UpdatedAt = s.now()

	next := make([]domain.Alarm, len(s.alarms))
	copy(next, s.alarms)
	next[idx] = updated

	if err := s.storage.SaveAlarms(next); err != nil {
		return nil, fmt.Errorf("save alarms: %w", err)
	}
	s.alarms = next

	if scheduleRelevantChange(&prev, &updated) {
		s.resyncLocked(&s.alarms[idx])
	}
	s.sweepLocked(s.now())
	s.updateSweeperLocked()

	a := copyAlarm(s.alarms[idx])
	return &a, nil
}

// Delete cancels the alarm's registrations and removes it. Returns
// ErrNotFound for unknown ids.
func (s *AlarmService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.alarms {
		if s.alarms[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	next := make([]domain.Alarm, 0, len(s.alarms)-1)
	next = append(next, s.alarms[:idx]...)
	next = append(next, s.alarms[idx+1:]...)

	if err := s.storage.SaveAlarms(next); err != nil {
		return fmt.Errorf("save alarms: %w", err)
	}
	s.alarms = next

	if err := s.sched.CancelAll(id); err != nil {
		log.Printf("Error cancelling registrations for alarm %s: %v", id, err)
	}
	s.updateSweeperLocked()
	return nil
}

// Toggle flips the alarm's enabled flag, going through the same
// cancel-and-reschedule path as Update.
func (s *AlarmService) Toggle(id string) (*domain.Alarm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.alarms {
		if s.alarms[i].ID == id {
			enabled := !s.alarms[i].Enabled
			return s.updateLocked(id, AlarmPatch{Enabled: &enabled})
		}
	}
	return nil, ErrNotFound
}

// SweepExpired disables every enabled one-off alarm whose scheduled instant
// has passed, persisting the change and cancelling its registrations. It then
// re-registers enabled alarms whose pending registrations fell short, the
// recovery path after a scheduler failure or a drained one-shot window.
func (s *AlarmService) SweepExpired(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.reconcileLocked(now)
	s.updateSweeperLocked()
}

func (s *AlarmService) sweepLocked(now time.Time) {
	var expired []string
	next := make([]domain.Alarm, len(s.alarms))
	copy(next, s.alarms)

	for i := range next {
		if next[i].Enabled && schedule.IsExpired(&next[i], now) {
			next[i].Enabled = false
			next[i].UpdatedAt = now
			expired = append(expired, next[i].ID)
		}
	}
	if len(expired) == 0 {
		return
	}

	if err := s.storage.SaveAlarms(next); err != nil {
		// Leave state untouched; the next sweep retries.
		log.Printf("Error persisting expiry sweep: %v", err)
		return
	}
	s.alarms = next

	for _, id := range expired {
		if err := s.sched.CancelAll(id); err != nil {
			log.Printf("Error cancelling registrations for alarm %s: %v", id, err)
		}
	}
	log.Printf("Sweep disabled %d expired alarms", len(expired))
}

// reconcileLocked re-registers enabled alarms with fewer pending
// registrations than their trigger set calls for.
func (s *AlarmService) reconcileLocked(now time.Time) {
	pending := make(map[string]int)
	for _, reg := range s.sched.ListPending() {
		pending[reg.AlarmID]++
	}
	for i := range s.alarms {
		a := &s.alarms[i]
		if !a.Enabled {
			continue
		}
		if pending[a.ID] < s.expectedRegistrations(a, now) {
			s.resyncLocked(a)
		}
	}
}

func (s *AlarmService) expectedRegistrations(a *domain.Alarm, now time.Time) int {
	switch a.Repeat.Kind {
	case domain.RepeatNone:
		if _, ok := schedule.NextFireTime(a, now); ok {
			return 1
		}
	case domain.RepeatWeekly:
		return len(schedule.WeeklyTriggers(a))
	case domain.RepeatHoliday, domain.RepeatCustom:
		return len(schedule.UpcomingFireTimes(a, s.holidays, now, s.horizon))
	}
	return 0
}

// resyncLocked makes the external scheduler match the alarm's current
// schedule: cancel everything tagged with its id, then re-register if
// enabled. Scheduler failures are logged, not propagated; the sweep or a
// restart retries.
func (s *AlarmService) resyncLocked(a *domain.Alarm) {
	if err := s.sched.CancelAll(a.ID); err != nil {
		log.Printf("Error cancelling registrations for alarm %s: %v", a.ID, err)
	}
	if !a.Enabled {
		return
	}

	p := notify.Payload{
		AlarmID: a.ID,
		Label:   a.Label,
		Time:    a.Time,
		Sound:   a.SoundID,
	}

	switch a.Repeat.Kind {
	case domain.RepeatNone:
		at, ok := schedule.NextFireTime(a, s.now())
		if !ok {
			return
		}
		if _, err := s.sched.ScheduleOnce(a.ID, at, p); err != nil {
			log.Printf("Error scheduling alarm %s: %v", a.ID, err)
		}

	case domain.RepeatWeekly:
		for _, tr := range schedule.WeeklyTriggers(a) {
			if _, err := s.sched.ScheduleRecurring(a.ID, tr.Day, tr.Time, p); err != nil {
				log.Printf("Error scheduling alarm %s on %s: %v", a.ID, domain.WeekdayName(tr.Day), err)
			}
		}

	case domain.RepeatHoliday, domain.RepeatCustom:
		for _, at := range schedule.UpcomingFireTimes(a, s.holidays, s.now(), s.horizon) {
			if _, err := s.sched.ScheduleOnce(a.ID, at, p); err != nil {
				log.Printf("Error scheduling alarm %s at %s: %v", a.ID, at.Format(time.RFC3339), err)
			}
		}
	}
}

func (s *AlarmService) validate(a *domain.Alarm) error {
	if _, _, err := schedule.ParseClock(a.Time); err != nil {
		return err
	}
	if a.Date != "" {
		if _, err := schedule.ParseDate(a.Date, s.tz); err != nil {
			return err
		}
	}
	if len([]rune(strings.TrimSpace(a.Label))) > maxLabelLen {
		return fmt.Errorf("label exceeds %d characters", maxLabelLen)
	}
	a.Label = strings.TrimSpace(a.Label)
	return nil
}

// resolveSound caches the sound name on the alarm, falling back to the
// default system sound for unknown ids.
func (s *AlarmService) resolveSound(a *domain.Alarm) {
	if a.SoundID == "" {
		a.SoundID = domain.DefaultSoundID
	}
	snd, err := s.sounds.Get(a.SoundID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("Error resolving sound %s: %v", a.SoundID, err)
		}
		a.SoundID = domain.DefaultSoundID
		snd, err = s.sounds.Get(a.SoundID)
		if err != nil {
			a.SoundName = ""
			return
		}
	}
	a.SoundName = snd.Name
}

func scheduleRelevantChange(prev, next *domain.Alarm) bool {
	if prev.Time != next.Time || prev.Date != next.Date || prev.Enabled != next.Enabled {
		return true
	}
	if prev.Repeat.Kind != next.Repeat.Kind ||
		prev.Repeat.Holiday != next.Repeat.Holiday ||
		prev.Repeat.Interval != next.Repeat.Interval ||
		prev.Repeat.EndDate != next.Repeat.EndDate {
		return true
	}
	return domain.JoinDays(prev.Repeat.Days) != domain.JoinDays(next.Repeat.Days)
}

// updateSweeperLocked keeps the periodic expiry sweep running exactly while
// the collection is non-empty.
func (s *AlarmService) updateSweeperLocked() {
	if len(s.alarms) == 0 {
		s.stopSweeperLocked()
		return
	}
	if s.sweeper != nil {
		return
	}

	c := cron.New(cron.WithLocation(s.tz))
	spec := fmt.Sprintf("@every %s", s.sweepEvery)
	if _, err := c.AddFunc(spec, func() { s.SweepExpired(s.now()) }); err != nil {
		log.Printf("Error starting expiry sweep: %v", err)
		return
	}
	c.Start()
	s.sweeper = c
}

func (s *AlarmService) stopSweeperLocked() {
	if s.sweeper == nil {
		return
	}
	// Stop without waiting: a sweep job already in flight may be blocked on
	// s.mu, which the caller holds.
	s.sweeper.Stop()
	s.sweeper = nil
}
