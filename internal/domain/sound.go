package domain

import "time"

// Sound is an alarm sound. System sounds form a fixed catalog; custom sounds
// are user-added and persisted.
type Sound struct {
	ID       string
	Name     string
	URI      string
	IsCustom bool
}

const DefaultSoundID = "default"

// SystemSounds returns the fixed catalog of built-in sounds.
func SystemSounds() []Sound {
	return []Sound{
		{ID: "default", Name: "Default", URI: "system://default"},
		{ID: "classic", Name: "Classic", URI: "system://classic"},
		{ID: "gentle", Name: "Gentle", URI: "system://gentle"},
		{ID: "urgent", Name: "Urgent", URI: "system://urgent"},
		{ID: "melody", Name: "Melody", URI: "system://melody"},
		{ID: "chime", Name: "Chime", URI: "system://chime"},
	}
}

// DefaultDraft returns the default values for a new alarm: the next full
// hour, enabled, one-off, default sound.
func DefaultDraft(now time.Time) Alarm {
	n := now.Add(time.Hour)
	next := time.Date(n.Year(), n.Month(), n.Day(), n.Hour(), 0, 0, 0, n.Location())
	return Alarm{
		Time:      next.Format("15:04"),
		Enabled:   true,
		Repeat:    Once(),
		SoundID:   DefaultSoundID,
		SoundName: "Default",
	}
}
