package service

import (
	"context"
	"errors"
	"fmt"

	"geodistance-api/internal/config"
	"geodistance-api/internal/geo"
	"geodistance-api/internal/geocoder"
	"geodistance-api/internal/models"

	"github.com/rs/zerolog"
)

// Geocoder resolves an address with the upstream API
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*geocoder.Result, error)
}

// Resolution is the outcome of resolving one address.
type Resolution struct {
	Location *models.Location
	// Address is the normalized form of the requested address.
	Address string
	// Created is true when this call added the address to the cache.
	Created bool
}

// GeocodeResolver resolves addresses through the location cache, calling the
// upstream geocoder only on a miss.
type GeocodeResolver struct {
	cache    *LocationCache
	geocoder Geocoder
	cfg      config.GeocoderConfig
}

// NewGeocodeResolver creates a new resolver
func NewGeocodeResolver(cache *LocationCache, upstream Geocoder, cfg config.GeocoderConfig) *GeocodeResolver {
	return &GeocodeResolver{cache: cache, geocoder: upstream, cfg: cfg}
}

// Resolve returns the location for rawAddress. It fails with
// *ValidationError, *ConfigurationError, *UpstreamTransportError or
// *UpstreamResolutionError; any other error comes from the store.
func (r *GeocodeResolver) Resolve(ctx context.Context, rawAddress string) (*Resolution, error) {
	if geo.IsBlank(rawAddress) {
		return nil, &ValidationError{Message: "address required"}
	}

	address := geo.Normalize(rawAddress)
	logger := zerolog.Ctx(ctx).With().Str("address", address).Logger()

	loc, found, err := r.cache.Lookup(ctx, address)
	if err != nil {
		return nil, err
	}
	if found {
		logger.Debug().Str("formatted_address", loc.FormattedAddress).Msg("geocode cache hit")
		return &Resolution{Location: loc, Address: address}, nil
	}

	if err := r.cfg.Validate(); err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	logger.Debug().Msg("geocode cache miss")
	res, err := r.geocoder.Geocode(ctx, address)
	if err != nil {
		err = upstreamError(err)
		logger.Warn().Err(err).Msg("geocode lookup failed")
		return nil, err
	}

	loc, created, err := r.cache.Record(ctx, address, res.FormattedAddress, res.Lat, res.Lng)
	if err != nil {
		return nil, fmt.Errorf("service: cache %q: %w", address, err)
	}

	logger.Info().
		Str("formatted_address", loc.FormattedAddress).
		Bool("created", created).
		Msg("geocode resolved")

	return &Resolution{Location: loc, Address: address, Created: created}, nil
}

func upstreamError(err error) error {
	if errors.Is(err, config.ErrGeocoderNotConfigured) {
		return &ConfigurationError{Err: err}
	}

	var statusErr *geocoder.StatusError
	if errors.As(err, &statusErr) {
		return &UpstreamResolutionError{Status: statusErr.Status}
	}

	var transportErr *geocoder.TransportError
	if errors.As(err, &transportErr) {
		return &UpstreamTransportError{Err: transportErr.Err}
	}

	return &UpstreamTransportError{Err: err}
}
