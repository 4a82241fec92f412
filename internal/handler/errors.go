package handler

import (
	"errors"
	"fmt"
	"net/http"

	"geodistance-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	msgAddressRequired       = "Address is required"
	msgBothAddressesRequired = "Both start_address and end_address are required"
	msgConfigMissing         = "Environment variables are not set"
	msgSameAddress           = "Both of these places have same address"
	msgInternal              = "internal server error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"Address is required"`
}

func geocodeErrorResponse(err error) (int, string) {
	var (
		validation *service.ValidationError
		configErr  *service.ConfigurationError
		resolution *service.UpstreamResolutionError
		transport  *service.UpstreamTransportError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, msgAddressRequired
	case errors.As(err, &configErr):
		return http.StatusInternalServerError, msgConfigMissing
	case errors.As(err, &resolution):
		return http.StatusBadRequest, "Geocode API error: " + resolution.Status
	case errors.As(err, &transport):
		return http.StatusInternalServerError, "Error fetching geocode: " + transport.Err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func distanceErrorResponse(err error) (int, string) {
	var (
		validation *service.ValidationError
		configErr  *service.ConfigurationError
		identical  *service.IdenticalLocationError
		side       *service.SideError
		resolution *service.UpstreamResolutionError
		transport  *service.UpstreamTransportError
	)

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, msgBothAddressesRequired
	case errors.As(err, &configErr):
		return http.StatusInternalServerError, msgConfigMissing
	case errors.As(err, &identical):
		return http.StatusBadRequest, msgSameAddress
	case !errors.As(err, &side):
		return http.StatusInternalServerError, msgInternal
	}

	msg := fmt.Sprintf("Could not fetch geocode for %s address: %s", side.Side, side.Address)
	switch {
	case errors.As(err, &resolution), errors.Is(err, service.ErrNoCoordinates):
		return http.StatusBadRequest, msg
	case errors.As(err, &transport):
		return http.StatusInternalServerError, msg
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func logFailure(c *gin.Context, status int, err error) {
	logger := zerolog.Ctx(c.Request.Context())
	ev := logger.Info()
	if status >= http.StatusInternalServerError {
		ev = logger.Error()
	}
	ev.Err(err).Int("status", status).Msg("request failed")
}
