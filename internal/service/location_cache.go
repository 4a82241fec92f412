package service

import (
	"context"
	"errors"
	"fmt"

	"geodistance-api/internal/models"
	"geodistance-api/internal/repository"
)

// LocationRepository is the persistence the cache is built on.
type LocationRepository interface {
	FindAliasByAddress(ctx context.Context, address string) (*models.Location, error)
	FindLocationByFormattedAddress(ctx context.Context, formatted string) (*models.Location, error)
	InsertLocationAndAlias(ctx context.Context, loc models.Location, address string) (*models.Location, error)
	InsertAlias(ctx context.Context, address string, loc *models.Location) error
}

// LocationCache maps normalized addresses to locations. Entries are written
// once and never expire.
type LocationCache struct {
	repo LocationRepository
}

// NewLocationCache creates a cache on top of repo
func NewLocationCache(repo LocationRepository) *LocationCache {
	return &LocationCache{repo: repo}
}

// Lookup returns the location an alias points to. found is false on a miss.
func (c *LocationCache) Lookup(ctx context.Context, address string) (loc *models.Location, found bool, err error) {
	loc, err = c.repo.FindAliasByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("service: lookup %q: %w", address, err)
	}
	return loc, true, nil
}

// Record stores address as an alias of the location named formatted, creating
// that location first when it does not exist yet. created is true when this
// call inserted the alias.
//
// A unique-constraint conflict means a concurrent request got there first; the
// record is then read back instead of failing. One extra attempt covers the
// case where the location appeared between the read and the insert.
func (c *LocationCache) Record(ctx context.Context, address, formatted string, lat, lng *float64) (loc *models.Location, created bool, err error) {
	for attempt := 0; attempt < 2; attempt++ {
		loc, err = c.record(ctx, address, formatted, lat, lng)
		if err == nil {
			return loc, true, nil
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, false, err
		}

		winner, found, lookupErr := c.Lookup(ctx, address)
		if lookupErr != nil {
			return nil, false, lookupErr
		}
		if found {
			return winner, false, nil
		}
	}

	return nil, false, fmt.Errorf("service: record %q: %w", address, err)
}

func (c *LocationCache) record(ctx context.Context, address, formatted string, lat, lng *float64) (*models.Location, error) {
	existing, err := c.repo.FindLocationByFormattedAddress(ctx, formatted)
	switch {
	case err == nil:
		if err := c.repo.InsertAlias(ctx, address, existing); err != nil {
			return nil, fmt.Errorf("service: add alias %q: %w", address, err)
		}
		return existing, nil

	case errors.Is(err, repository.ErrNotFound):
		loc, err := c.repo.InsertLocationAndAlias(ctx, models.Location{
			FormattedAddress: formatted,
			Latitude:         lat,
			Longitude:        lng,
		}, address)
		if err != nil {
			return nil, fmt.Errorf("service: add location %q: %w", formatted, err)
		}
		return loc, nil

	default:
		return nil, fmt.Errorf("service: find location %q: %w", formatted, err)
	}
}
