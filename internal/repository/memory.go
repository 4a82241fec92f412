package repository

import (
	"context"
	"fmt"
	"sync"

	"geodistance-api/internal/models"
)

// MemoryRepository keeps everything in process memory. Data is lost on
// restart; it is the default store for local runs and tests.
type MemoryRepository struct {
	mu          sync.RWMutex
	seq         int64
	locations   map[int64]models.Location
	byFormatted map[string]int64
	aliases     map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		locations:   make(map[int64]models.Location),
		byFormatted: make(map[string]int64),
		aliases:     make(map[string]int64),
	}
}

func (r *MemoryRepository) FindAliasByAddress(_ context.Context, address string) (*models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.aliases[address]
	if !ok {
		return nil, ErrNotFound
	}
	return r.location(id), nil
}

func (r *MemoryRepository) FindLocationByFormattedAddress(_ context.Context, formatted string) (*models.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byFormatted[formatted]
	if !ok {
		return nil, ErrNotFound
	}
	return r.location(id), nil
}

func (r *MemoryRepository) InsertLocationAndAlias(_ context.Context, loc models.Location, address string) (*models.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byFormatted[loc.FormattedAddress]; ok {
		return nil, fmt.Errorf("repository: insert location: %w", ErrDuplicate)
	}
	if _, ok := r.aliases[address]; ok {
		return nil, fmt.Errorf("repository: insert address: %w", ErrDuplicate)
	}

	r.seq++
	loc.ID = r.seq
	loc.Latitude = copyFloat(loc.Latitude)
	loc.Longitude = copyFloat(loc.Longitude)

	r.locations[loc.ID] = loc
	r.byFormatted[loc.FormattedAddress] = loc.ID
	r.aliases[address] = loc.ID

	return r.location(loc.ID), nil
}

func (r *MemoryRepository) InsertAlias(_ context.Context, address string, loc *models.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.locations[loc.ID]; !ok {
		return fmt.Errorf("repository: insert alias for location %d: %w", loc.ID, ErrNotFound)
	}
	if _, ok := r.aliases[address]; ok {
		return fmt.Errorf("repository: insert address: %w", ErrDuplicate)
	}

	r.aliases[address] = loc.ID
	return nil
}

func (r *MemoryRepository) Count(_ context.Context) (Counts, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Counts{Locations: len(r.locations), Aliases: len(r.aliases)}, nil
}

// location returns a copy so callers cannot mutate stored state.
func (r *MemoryRepository) location(id int64) *models.Location {
	loc := r.locations[id]
	loc.Latitude = copyFloat(loc.Latitude)
	loc.Longitude = copyFloat(loc.Longitude)
	return &loc
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
