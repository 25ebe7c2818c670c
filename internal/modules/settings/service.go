package settings

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/aristath/folioview/internal/domain"
	"github.com/aristath/folioview/internal/events"
	"github.com/aristath/folioview/internal/table"
	"github.com/rs/zerolog"
)

// Service validates settings and exposes typed accessors with defaults
type Service struct {
	repo         *Repository
	eventManager *events.Manager
	log          zerolog.Logger
}

// NewService creates a new settings service. eventManager may be nil.
func NewService(repo *Repository, eventManager *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		eventManager: eventManager,
		log:          log.With().Str("service", "settings").Logger(),
	}
}

// GetAll returns every known setting, stored values overriding defaults
func (s *Service) GetAll() (map[string]string, error) {
	stored, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}

	result := maps.Clone(SettingDefaults)
	for key, value := range stored {
		if _, known := SettingDefaults[key]; known {
			result[key] = value
		}
	}
	return result, nil
}

// Set validates and stores a setting, returning the normalised value
func (s *Service) Set(key string, value interface{}) (string, error) {
	if _, known := SettingDefaults[key]; !known {
		return "", fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	normalised, err := normalise(key, strings.TrimSpace(fmt.Sprint(value)))
	if err != nil {
		return "", err
	}

	description := SettingDescriptions[key]
	if err := s.repo.Set(key, normalised, &description); err != nil {
		return "", err
	}

	s.log.Info().Str("key", key).Str("value", normalised).Msg("Setting updated")
	if s.eventManager != nil {
		s.eventManager.EmitTyped("settings", &events.SettingsChangedData{Key: key, Value: normalised})
	}
	return normalised, nil
}

// Reset removes a stored value so the default applies again
func (s *Service) Reset(key string) error {
	if _, known := SettingDefaults[key]; !known {
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	return s.repo.Delete(key)
}

// DefaultPriceBasis returns the configured watchlist price basis
func (s *Service) DefaultPriceBasis() domain.PriceBasis {
	value := s.stringOrDefault(KeyDefaultPriceBasis)
	basis, err := domain.ParsePriceBasis(value)
	if err != nil {
		s.log.Warn().Err(err).Msg("Stored price basis is invalid, using default")
		return domain.PriceBasisPrevClose
	}
	return basis
}

// DefaultPageSize returns the configured page size
func (s *Service) DefaultPageSize() int {
	size, err := s.repo.GetInt(KeyDefaultPageSize, table.DefaultPageSize)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to read page size, using default")
		return table.DefaultPageSize
	}
	if size < MinPageSize || size > MaxPageSize {
		return table.DefaultPageSize
	}
	return size
}

// ReorderMode returns the configured reorder mode
func (s *Service) ReorderMode() table.ReorderMode {
	mode, err := table.ParseReorderMode(s.stringOrDefault(KeyReorderMode))
	if err != nil {
		s.log.Warn().Err(err).Msg("Stored reorder mode is invalid, using canonical")
		return table.ReorderCanonical
	}
	return mode
}

func (s *Service) stringOrDefault(key string) string {
	value, err := s.repo.Get(key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Failed to read setting, using default")
		return SettingDefaults[key]
	}
	if value == nil {
		return SettingDefaults[key]
	}
	return *value
}

func normalise(key, value string) (string, error) {
	switch key {
	case KeyDefaultPriceBasis:
		basis, err := domain.ParsePriceBasis(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return string(basis), nil

	case KeyDefaultPageSize:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f != float64(int(f)) {
			return "", fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidValue, key, value)
		}
		size := int(f)
		if size < MinPageSize || size > MaxPageSize {
			return "", fmt.Errorf("%w: %s must be between %d and %d", ErrInvalidValue, key, MinPageSize, MaxPageSize)
		}
		return strconv.Itoa(size), nil

	case KeyReorderMode:
		mode, err := table.ParseReorderMode(value)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidValue, err)
		}
		return string(mode), nil
	}
	return value, nil
}
