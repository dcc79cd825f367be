package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/eraliev/wakeup/internal/domain"
	"github.com/eraliev/wakeup/internal/storage"
)

// SoundService serves the sound catalog: the fixed system sounds plus the
// persisted custom ones.
type SoundService struct {
	storage *storage.Storage
}

func NewSoundService(s *storage.Storage) *SoundService {
	return &SoundService{storage: s}
}

// System returns the fixed system catalog.
func (s *SoundService) System() []domain.Sound {
	return domain.SystemSounds()
}

// All returns system sounds followed by custom sounds.
func (s *SoundService) All() ([]domain.Sound, error) {
	custom, err := s.storage.ListCustomSounds()
	if err != nil {
		return nil, fmt.Errorf("list custom sounds: %w", err)
	}
	return append(domain.SystemSounds(), custom...), nil
}

// Get returns the sound with the given id, or ErrNotFound.
func (s *SoundService) Get(id string) (*domain.Sound, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

// AddCustom persists a new custom sound.
func (s *SoundService) AddCustom(name, uri string) (*domain.Sound, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("sound name cannot be empty")
	}

	custom, err := s.storage.ListCustomSounds()
	if err != nil {
		return nil, fmt.Errorf("list custom sounds: %w", err)
	}

	snd := domain.Sound{
		ID:       uuid.New().String(),
		Name:     name,
		URI:      uri,
		IsCustom: true,
	}
	custom = append(custom, snd)

	if err := s.storage.SaveCustomSounds(custom); err != nil {
		return nil, fmt.Errorf("save custom sounds: %w", err)
	}
	return &snd, nil
}

// DeleteCustom removes a custom sound. System sounds cannot be deleted.
func (s *SoundService) DeleteCustom(id string) error {
	custom, err := s.storage.ListCustomSounds()
	if err != nil {
		return fmt.Errorf("list custom sounds: %w", err)
	}

	kept := custom[:0]
	for _, snd := range custom {
		if snd.ID != id {
			kept = append(kept, snd)
		}
	}
	if len(kept) == len(custom) {
		return ErrNotFound
	}

	if err := s.storage.SaveCustomSounds(kept); err != nil {
		return fmt.Errorf("save custom sounds: %w", err)
	}
	return nil
}
