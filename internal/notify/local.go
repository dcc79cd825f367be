package notify

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/eraliev/wakeup/internal/domain"
	"github.com/eraliev/wakeup/internal/schedule"
)

// LocalScheduler is the in-process notification scheduler. Recurring weekly
// triggers become cron entries, one-shots become timers; both are tagged by
// alarm id in an internal ledger so CancelAll can clear by tag.
type LocalScheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	sender Sender
	regs   map[string][]*localReg // alarm id -> pending registrations
}

type localReg struct {
	Registration
	entry cron.EntryID // recurring
	timer *time.Timer  // once
}

func NewLocalScheduler(sender Sender, loc *time.Location) *LocalScheduler {
	c := cron.New(cron.WithLocation(loc))
	c.Start()
	return &LocalScheduler{
		cron:   c,
		sender: sender,
		regs:   make(map[string][]*localReg),
	}
}

// Stop cancels every pending registration and stops the cron runner.
func (s *LocalScheduler) Stop() {
	s.mu.Lock()
	for id := range s.regs {
		s.cancelLocked(id)
	}
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *LocalScheduler) ScheduleOnce(alarmID string, at time.Time, p Payload) (string, error) {
	delay := time.Until(at)
	if delay <= 0 {
		return "", fmt.Errorf("fire time %s is in the past", at.Format(time.RFC3339))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	reg := &localReg{Registration: Registration{
		ID:      uuid.New().String(),
		AlarmID: alarmID,
		Kind:    RegOnce,
		FireAt:  at,
	}}
	reg.timer = time.AfterFunc(delay, func() {
		s.fire(p)
		s.remove(alarmID, reg.ID)
	})
	s.regs[alarmID] = append(s.regs[alarmID], reg)
	return reg.ID, nil
}

func (s *LocalScheduler) ScheduleRecurring(alarmID string, day domain.Weekday, timeOfDay string, p Payload) (string, error) {
	hour, minute, err := schedule.ParseClock(timeOfDay)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	spec := fmt.Sprintf("%d %d * * %d", minute, hour, int(day))
	entry, err := s.cron.AddFunc(spec, func() { s.fire(p) })
	if err != nil {
		return "", fmt.Errorf("add cron entry: %w", err)
	}

	reg := &localReg{
		Registration: Registration{
			ID:      uuid.New().String(),
			AlarmID: alarmID,
			Kind:    RegRecurring,
			Day:     day,
			Time:    timeOfDay,
		},
		entry: entry,
	}
	s.regs[alarmID] = append(s.regs[alarmID], reg)
	return reg.ID, nil
}

func (s *LocalScheduler) CancelAll(alarmID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked(alarmID)
	return nil
}

func (s *LocalScheduler) cancelLocked(alarmID string) {
	for _, reg := range s.regs[alarmID] {
		if reg.timer != nil {
			reg.timer.Stop()
		}
		if reg.Kind == RegRecurring {
			s.cron.Remove(reg.entry)
		}
	}
	delete(s.regs, alarmID)
}

func (s *LocalScheduler) ListPending() []Registration {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Registration
	for _, regs := range s.regs {
		for _, reg := range regs {
			out = append(out, reg.Registration)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *LocalScheduler) fire(p Payload) {
	if s.sender == nil {
		return
	}
	if err := s.sender.Send(p); err != nil {
		log.Printf("Error delivering alarm %s: %v", p.AlarmID, err)
	}
}

func (s *LocalScheduler) remove(alarmID, regID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	regs := s.regs[alarmID]
	for i, reg := range regs {
		if reg.ID == regID {
			s.regs[alarmID] = append(regs[:i], regs[i+1:]...)
			break
		}
	}
	if len(s.regs[alarmID]) == 0 {
		delete(s.regs, alarmID)
	}
}
