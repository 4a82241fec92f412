package config

import (
	"errors"
	"strings"
	"time"
)

// ErrGeocoderNotConfigured is returned when the API key or endpoint is empty.
var ErrGeocoderNotConfigured = errors.New("config: geocoder api key or url not set")

// GeocoderConfig describes how to reach the upstream geocoding API.
type GeocoderConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Validate fails when the configuration cannot be used for an upstream call.
// It is checked per lookup so that cached addresses still resolve without it.
func (g GeocoderConfig) Validate() error {
	if strings.TrimSpace(g.URL) == "" || strings.TrimSpace(g.APIKey) == "" {
		return ErrGeocoderNotConfigured
	}
	return nil
}
