package services

import (
	"context"
	"strconv"

	"github.com/dewdrop/dewdrop/internal/errors"
	"github.com/dewdrop/dewdrop/internal/logger"
	"github.com/dewdrop/dewdrop/internal/repository"
)

const settingNewCardsPerDay = "new_cards_per_day"

// SettingsService handles durable user settings
type SettingsService interface {
	// GetNewCardsPerDay returns the effective daily new-card cap: the stored
	// setting when present and valid, the configured default otherwise.
	GetNewCardsPerDay(ctx context.Context) (int, error)
	SetNewCardsPerDay(ctx context.Context, n int) error
}

type settingsService struct {
	settings      repository.SettingsRepository
	defaultPerDay int
}

// NewSettingsService creates a new SettingsService with the configured
// default new-card cap.
func NewSettingsService(settings repository.SettingsRepository, defaultPerDay int) SettingsService {
	return &settingsService{settings: settings, defaultPerDay: defaultPerDay}
}

func (s *settingsService) GetNewCardsPerDay(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	value, err := s.settings.Get(ctx, settingNewCardsPerDay)
	if err != nil {
		log.Error("failed to read setting: %v", err)
		return 0, errors.NewStoreError(err)
	}
	if value == "" {
		return s.defaultPerDay, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Warn("stored %s=%q is invalid, using default %d", settingNewCardsPerDay, value, s.defaultPerDay)
		return s.defaultPerDay, nil
	}
	return n, nil
}

func (s *settingsService) SetNewCardsPerDay(ctx context.Context, n int) error {
	log := logger.FromContext(ctx)
	log.Debug("updating %s to %d", settingNewCardsPerDay, n)

	if n < 0 {
		return errors.NewInvalidArgumentError("new_cards_per_day", "must not be negative")
	}
	if err := s.settings.Set(ctx, settingNewCardsPerDay, strconv.Itoa(n)); err != nil {
		log.Error("failed to store setting: %v", err)
		return errors.NewStoreError(err)
	}
	return nil
}
