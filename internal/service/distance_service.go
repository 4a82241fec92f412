package service

import (
	"context"

	"geodistance-api/internal/geo"
	"geodistance-api/internal/models"
)

// Resolver resolves a raw address to a location
type Resolver interface {
	Resolve(ctx context.Context, rawAddress string) (*Resolution, error)
}

// DistanceService contains the business logic of the distance endpoint
type DistanceService struct {
	resolver Resolver
}

// NewDistanceService creates a new distance service
func NewDistanceService(resolver Resolver) *DistanceService {
	return &DistanceService{resolver: resolver}
}

// Distance resolves both addresses and returns the great-circle distance in
// kilometres between them. Resolution failures are wrapped in *SideError.
func (s *DistanceService) Distance(ctx context.Context, startAddress, endAddress string) (*models.Distance, error) {
	if geo.IsBlank(startAddress) || geo.IsBlank(endAddress) {
		return nil, &ValidationError{Message: "start_address and end_address required"}
	}

	start, err := s.resolver.Resolve(ctx, startAddress)
	if err != nil {
		return nil, &SideError{Side: SideStart, Address: geo.Normalize(startAddress), Err: err}
	}

	end, err := s.resolver.Resolve(ctx, endAddress)
	if err != nil {
		return nil, &SideError{Side: SideEnd, Address: geo.Normalize(endAddress), Err: err}
	}

	if start.Location.FormattedAddress == end.Location.FormattedAddress {
		return nil, &IdenticalLocationError{FormattedAddress: start.Location.FormattedAddress}
	}

	if !start.Location.HasCoordinates() {
		return nil, &SideError{Side: SideStart, Address: start.Address, Err: ErrNoCoordinates}
	}
	if !end.Location.HasCoordinates() {
		return nil, &SideError{Side: SideEnd, Address: end.Address, Err: ErrNoCoordinates}
	}

	return &models.Distance{
		StartLocation: start.Address,
		EndLocation:   end.Address,
		Distance: geo.Distance(
			*start.Location.Latitude, *start.Location.Longitude,
			*end.Location.Latitude, *end.Location.Longitude,
		),
	}, nil
}
