// Package driverstore holds the configurable driver lists consumed by the
// playbook cascade. The engine reads lists fresh on every evaluation so
// configuration changes take effect between calls without a restart.
package driverstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/biraj16/TPBK-V8/internal/models"
)

// Store is the driver configuration collaborator. Implementations must be
// safe for concurrent use.
type Store interface {
	// GetList returns the drivers of one named list
	GetList(ctx context.Context, list string) ([]models.Driver, error)

	// PutList replaces the drivers of one named list
	PutList(ctx context.Context, list string, drivers []models.Driver) error

	// GetConfig returns all six lists
	GetConfig(ctx context.Context) (models.DriverConfig, error)
}

// MemoryStore is an in-memory Store seeded with a driver configuration
type MemoryStore struct {
	mu    sync.RWMutex
	lists models.DriverConfig
}

// NewMemoryStore creates a memory store seeded with cfg. A nil cfg seeds the
// built-in defaults.
func NewMemoryStore(cfg models.DriverConfig) *MemoryStore {
	if cfg == nil {
		cfg = models.DefaultDriverConfig()
	}
	store := &MemoryStore{lists: make(models.DriverConfig, len(cfg))}
	for list, drivers := range cfg {
		store.lists[list] = copyDrivers(drivers)
	}
	return store
}

// GetList returns a copy of one named list
func (s *MemoryStore) GetList(ctx context.Context, list string) ([]models.Driver, error) {
	if !models.IsDriverList(list) {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidDriverList, list)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyDrivers(s.lists[list]), nil
}

// PutList replaces one named list
func (s *MemoryStore) PutList(ctx context.Context, list string, drivers []models.Driver) error {
	if !models.IsDriverList(list) {
		return fmt.Errorf("%w: %s", models.ErrInvalidDriverList, list)
	}
	for i := range drivers {
		if err := drivers[i].Validate(); err != nil {
			return fmt.Errorf("invalid driver at index %d: %w", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[list] = copyDrivers(drivers)
	return nil
}

// GetConfig returns a copy of all lists
func (s *MemoryStore) GetConfig(ctx context.Context) (models.DriverConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := make(models.DriverConfig, len(s.lists))
	for list, drivers := range s.lists {
		cfg[list] = copyDrivers(drivers)
	}
	return cfg, nil
}

// copyDrivers returns a copy so callers cannot mutate stored lists
func copyDrivers(drivers []models.Driver) []models.Driver {
	out := make([]models.Driver, len(drivers))
	copy(out, drivers)
	return out
}
