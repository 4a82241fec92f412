package service

import (
	"errors"
	"fmt"
)

// ErrNoCoordinates is reported when a cached location has no latitude or
// longitude and a distance is requested for it.
var ErrNoCoordinates = errors.New("service: location has no coordinates")

// Sides of a distance request.
const (
	SideStart = "start"
	SideEnd   = "end"
)

// ValidationError reports missing or empty input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "service: validation: " + e.Message
}

// ConfigurationError reports that the upstream API key or endpoint is unset.
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("service: configuration: %v", e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// UpstreamTransportError reports that the geocoding API could not be reached
// or returned an unusable reply.
type UpstreamTransportError struct {
	Err error
}

func (e *UpstreamTransportError) Error() string {
	return fmt.Sprintf("service: upstream transport: %v", e.Err)
}

func (e *UpstreamTransportError) Unwrap() error { return e.Err }

// UpstreamResolutionError reports a non-OK status from the geocoding API.
type UpstreamResolutionError struct {
	Status string
}

func (e *UpstreamResolutionError) Error() string {
	return "service: upstream status " + e.Status
}

// IdenticalLocationError reports that both distance endpoints resolved to the
// same formatted address.
type IdenticalLocationError struct {
	FormattedAddress string
}

func (e *IdenticalLocationError) Error() string {
	return fmt.Sprintf("service: both addresses resolve to %q", e.FormattedAddress)
}

// SideError tells which address of a distance request failed to resolve.
type SideError struct {
	Side    string
	Address string
	Err     error
}

func (e *SideError) Error() string {
	return fmt.Sprintf("service: %s address %q: %v", e.Side, e.Address, e.Err)
}

func (e *SideError) Unwrap() error { return e.Err }
