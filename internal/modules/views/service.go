package views

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aristath/folioview/internal/events"
	"github.com/aristath/folioview/internal/table"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned when a view does not exist or has expired
	ErrNotFound = errors.New("view not found")
	// ErrInvalidTable is returned for table names that cannot hold views
	ErrInvalidTable = errors.New("invalid table")
)

// StateValidator checks a state against the columns of one table
type StateValidator func(table.State) error

// Service saves and restores table views
type Service struct {
	repo         *Repository
	ttl          time.Duration
	eventManager *events.Manager
	log          zerolog.Logger

	mu         sync.RWMutex
	validators map[string]StateValidator
}

// NewService creates a new views service. eventManager may be nil.
func NewService(repo *Repository, ttl time.Duration, eventManager *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		repo:         repo,
		ttl:          ttl,
		eventManager: eventManager,
		log:          log.With().Str("service", "views").Logger(),
		validators:   make(map[string]StateValidator),
	}
}

// RegisterValidator installs the state check used when saving views of tableName
func (s *Service) RegisterValidator(tableName string, fn StateValidator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.validators[tableName] = fn
}

// Save stores state under a fresh id
func (s *Service) Save(tableName string, state table.State) (*SavedView, error) {
	if err := ValidateTable(tableName); err != nil {
		return nil, err
	}

	s.mu.RLock()
	validate := s.validators[tableName]
	s.mu.RUnlock()
	if validate != nil {
		if err := validate(state); err != nil {
			return nil, err
		}
	}

	view, err := s.repo.Store(uuid.NewString(), tableName, state.Clone(), s.ttl)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("id", view.ID).
		Str("table", tableName).
		Time("expires_at", view.ExpiresAt).
		Msg("View saved")

	if s.eventManager != nil {
		s.eventManager.EmitTyped("views", &events.ViewSavedData{ID: view.ID, Table: tableName})
	}
	return view, nil
}

// Load returns a fresh view by id
func (s *Service) Load(id string) (*SavedView, error) {
	view, err := s.repo.GetIfFresh(id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return view, nil
}

// Delete removes a view
func (s *Service) Delete(id string) error {
	return s.repo.Delete(id)
}
