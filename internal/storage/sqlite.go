// Package storage is the durable mirror of the alarm collection. It exposes
// whole-collection read/replace semantics: callers read the full list, modify
// it in memory, and write the full list back.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eraliev/wakeup/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// NewMemory opens an in-memory database, used by tests.
func NewMemory() (*Storage, error) {
	return New(":memory:")
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS alarms (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			time TEXT NOT NULL,
			date TEXT NOT NULL DEFAULT '',
			label TEXT NOT NULL DEFAULT '',
			enabled INTEGER NOT NULL DEFAULT 1,
			repeat_kind TEXT NOT NULL DEFAULT 'none',
			repeat_days TEXT NOT NULL DEFAULT '',
			holiday_variant TEXT NOT NULL DEFAULT '',
			custom_interval INTEGER NOT NULL DEFAULT 0,
			custom_end_date TEXT NOT NULL DEFAULT '',
			sound_id TEXT NOT NULL DEFAULT 'default',
			sound_name TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alarms_position ON alarms(position)`,
		`CREATE TABLE IF NOT EXISTS custom_sounds (
			id TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			uri TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// ListAlarms returns the whole alarm collection in stored order.
func (s *Storage) ListAlarms() ([]domain.Alarm, error) {
	rows, err := s.db.Query(`SELECT id, time, date, label, enabled,
		repeat_kind, repeat_days, holiday_variant, custom_interval, custom_end_date,
		sound_id, sound_name, created_at, updated_at
		FROM alarms ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list alarms: %w", err)
	}
	defer rows.Close()

	var alarms []domain.Alarm
	for rows.Next() {
		var a domain.Alarm
		var repeatKind, repeatDays, holidayVariant string
		var createdAt, updatedAt string
		if err := rows.Scan(&a.ID, &a.Time, &a.Date, &a.Label, &a.Enabled,
			&repeatKind, &repeatDays, &holidayVariant, &a.Repeat.Interval, &a.Repeat.EndDate,
			&a.SoundID, &a.SoundName, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan alarm: %w", err)
		}
		a.Repeat.Kind = domain.RepeatKind(repeatKind)
		a.Repeat.Days = domain.SplitDays(repeatDays)
		a.Repeat.Holiday = domain.HolidayVariant(holidayVariant)
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		alarms = append(alarms, a)
	}
	return alarms, rows.Err()
}

// SaveAlarms replaces the whole alarm collection.
func (s *Storage) SaveAlarms(alarms []domain.Alarm) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM alarms`); err != nil {
		return fmt.Errorf("clear alarms: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO alarms (id, position, time, date, label, enabled,
		repeat_kind, repeat_days, holiday_variant, custom_interval, custom_end_date,
		sound_id, sound_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, a := range alarms {
		_, err := stmt.Exec(a.ID, i, a.Time, a.Date, a.Label, a.Enabled,
			string(a.Repeat.Kind), domain.JoinDays(a.Repeat.Days), string(a.Repeat.Holiday),
			a.Repeat.Interval, a.Repeat.EndDate,
			a.SoundID, a.SoundName,
			a.CreatedAt.Format(time.RFC3339), a.UpdatedAt.Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("insert alarm %s: %w", a.ID, err)
		}
	}

	return tx.Commit()
}

// ListCustomSounds returns the persisted custom sounds in stored order.
func (s *Storage) ListCustomSounds() ([]domain.Sound, error) {
	rows, err := s.db.Query(`SELECT id, name, uri FROM custom_sounds ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("list custom sounds: %w", err)
	}
	defer rows.Close()

	var sounds []domain.Sound
	for rows.Next() {
		var snd domain.Sound
		if err := rows.Scan(&snd.ID, &snd.Name, &snd.URI); err != nil {
			return nil, fmt.Errorf("scan sound: %w", err)
		}
		snd.IsCustom = true
		sounds = append(sounds, snd)
	}
	return sounds, rows.Err()
}

// SaveCustomSounds replaces the whole custom-sound collection.
func (s *Storage) SaveCustomSounds(sounds []domain.Sound) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM custom_sounds`); err != nil {
		return fmt.Errorf("clear custom sounds: %w", err)
	}

	for i, snd := range sounds {
		if _, err := tx.Exec(`INSERT INTO custom_sounds (id, position, name, uri) VALUES (?, ?, ?, ?)`,
			snd.ID, i, snd.Name, snd.URI); err != nil {
			return fmt.Errorf("insert sound %s: %w", snd.ID, err)
		}
	}

	return tx.Commit()
}
