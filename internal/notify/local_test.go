package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraliev/wakeup/internal/domain"
)

type captureSender struct {
	ch chan Payload
}

func newCaptureSender() *captureSender {
	return &captureSender{ch: make(chan Payload, 8)}
}

func (c *captureSender) Send(p Payload) error {
	c.ch <- p
	return nil
}

func newTestScheduler(t *testing.T) (*LocalScheduler, *captureSender) {
	t.Helper()
	sender := newCaptureSender()
	sched := NewLocalScheduler(sender, time.UTC)
	t.Cleanup(sched.Stop)
	return sched, sender
}

func TestScheduleOnceRejectsPastInstant(t *testing.T) {
	sched, _ := newTestScheduler(t)

	_, err := sched.ScheduleOnce("a1", time.Now().Add(-time.Minute), Payload{AlarmID: "a1"})
	assert.Error(t, err)
	assert.Empty(t, sched.ListPending())
}

func TestScheduleOnceTracksRegistration(t *testing.T) {
	sched, _ := newTestScheduler(t)

	at := time.Now().Add(time.Hour)
	id, err := sched.ScheduleOnce("a1", at, Payload{AlarmID: "a1"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	pending := sched.ListPending()
	require.Len(t, pending, 1)
	assert.Equal(t, id, pending[0].ID)
	assert.Equal(t, "a1", pending[0].AlarmID)
	assert.Equal(t, RegOnce, pending[0].Kind)
	assert.True(t, at.Equal(pending[0].FireAt))
}

func TestScheduleRecurringTracksRegistration(t *testing.T) {
	sched, _ := newTestScheduler(t)

	id, err := sched.ScheduleRecurring("a1", domain.WeekdayMonday, "07:30", Payload{AlarmID: "a1"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	pending := sched.ListPending()
	require.Len(t, pending, 1)
	assert.Equal(t, RegRecurring, pending[0].Kind)
	assert.Equal(t, domain.WeekdayMonday, pending[0].Day)
	assert.Equal(t, "07:30", pending[0].Time)
}

func TestScheduleRecurringRejectsBadClock(t *testing.T) {
	sched, _ := newTestScheduler(t)

	_, err := sched.ScheduleRecurring("a1", domain.WeekdayMonday, "7h30", Payload{AlarmID: "a1"})
	assert.Error(t, err)
	assert.Empty(t, sched.ListPending())
}

func TestCancelAllClearsByAlarmID(t *testing.T) {
	sched, _ := newTestScheduler(t)

	_, err := sched.ScheduleRecurring("a1", domain.WeekdayMonday, "07:30", Payload{AlarmID: "a1"})
	require.NoError(t, err)
	_, err = sched.ScheduleOnce("a1", time.Now().Add(time.Hour), Payload{AlarmID: "a1"})
	require.NoError(t, err)
	_, err = sched.ScheduleRecurring("a2", domain.WeekdayFriday, "09:00", Payload{AlarmID: "a2"})
	require.NoError(t, err)

	require.NoError(t, sched.CancelAll("a1"))

	pending := sched.ListPending()
	require.Len(t, pending, 1)
	assert.Equal(t, "a2", pending[0].AlarmID)
}

func TestCancelAllUnknownIDIsNoOp(t *testing.T) {
	sched, _ := newTestScheduler(t)

	assert.NoError(t, sched.CancelAll("missing"))
	assert.NoError(t, sched.CancelAll("missing"))
	assert.Empty(t, sched.ListPending())
}

func TestOneShotFiresAndLeavesLedger(t *testing.T) {
	sched, sender := newTestScheduler(t)

	_, err := sched.ScheduleOnce("a1", time.Now().Add(50*time.Millisecond), Payload{AlarmID: "a1", Label: "Wake"})
	require.NoError(t, err)

	select {
	case p := <-sender.ch:
		assert.Equal(t, "a1", p.AlarmID)
		assert.Equal(t, "Wake", p.Label)
	case <-time.After(2 * time.Second):
		t.Fatal("one-shot did not fire")
	}

	// The self-removal runs right after delivery.
	assert.Eventually(t, func() bool {
		return len(sched.ListPending()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStopClearsPending(t *testing.T) {
	sender := newCaptureSender()
	sched := NewLocalScheduler(sender, time.UTC)

	_, err := sched.ScheduleOnce("a1", time.Now().Add(time.Hour), Payload{AlarmID: "a1"})
	require.NoError(t, err)
	_, err = sched.ScheduleRecurring("a2", domain.WeekdaySunday, "06:00", Payload{AlarmID: "a2"})
	require.NoError(t, err)

	sched.Stop()
	assert.Empty(t, sched.ListPending())
}
