package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraliev/wakeup/internal/domain"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestListAlarmsEmpty(t *testing.T) {
	s := newTestStorage(t)
	alarms, err := s.ListAlarms()
	require.NoError(t, err)
	assert.Empty(t, alarms)
}

func TestSaveAndListAlarms(t *testing.T) {
	s := newTestStorage(t)
	now := time.Date(2026, 2, 5, 9, 0, 0, 0, time.UTC)

	alarms := []domain.Alarm{
		{
			ID:        "a1",
			Time:      "07:30",
			Label:     "Work",
			Enabled:   true,
			Repeat:    domain.Weekly(1, 2, 3, 4, 5),
			SoundID:   "classic",
			SoundName: "Classic",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "a2",
			Time:      "09:00",
			Date:      "2026-03-01",
			Enabled:   false,
			Repeat:    domain.Once(),
			SoundID:   "default",
			SoundName: "Default",
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "a3",
			Time:      "10:00",
			Enabled:   true,
			Repeat:    domain.EveryDays(3, "2026-06-01"),
			SoundID:   "default",
			SoundName: "Default",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	require.NoError(t, s.SaveAlarms(alarms))

	got, err := s.ListAlarms()
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Stored order is preserved.
	assert.Equal(t, "a1", got[0].ID)
	assert.Equal(t, domain.RepeatWeekly, got[0].Repeat.Kind)
	assert.Equal(t, []domain.Weekday{1, 2, 3, 4, 5}, got[0].Repeat.Days)
	assert.True(t, got[0].Enabled)

	assert.Equal(t, "2026-03-01", got[1].Date)
	assert.False(t, got[1].Enabled)

	assert.Equal(t, 3, got[2].Repeat.Interval)
	assert.Equal(t, "2026-06-01", got[2].Repeat.EndDate)
	assert.True(t, now.Equal(got[2].CreatedAt))
}

func TestSaveAlarmsReplacesCollection(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now().UTC().Truncate(time.Second)

	a := domain.Alarm{ID: "a1", Time: "07:00", Repeat: domain.Once(), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.SaveAlarms([]domain.Alarm{a}))

	b := domain.Alarm{ID: "b1", Time: "08:00", Repeat: domain.Once(), CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.SaveAlarms([]domain.Alarm{b}))

	got, err := s.ListAlarms()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b1", got[0].ID)
}

func TestCustomSounds(t *testing.T) {
	s := newTestStorage(t)

	sounds, err := s.ListCustomSounds()
	require.NoError(t, err)
	assert.Empty(t, sounds)

	require.NoError(t, s.SaveCustomSounds([]domain.Sound{
		{ID: "c1", Name: "Birdsong", URI: "file:///birds.mp3"},
		{ID: "c2", Name: "Rain", URI: "file:///rain.mp3"},
	}))

	sounds, err = s.ListCustomSounds()
	require.NoError(t, err)
	require.Len(t, sounds, 2)
	assert.Equal(t, "Birdsong", sounds[0].Name)
	assert.True(t, sounds[0].IsCustom)

	require.NoError(t, s.SaveCustomSounds(nil))
	sounds, err = s.ListCustomSounds()
	require.NoError(t, err)
	assert.Empty(t, sounds)
}
