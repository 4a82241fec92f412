package handler

import (
	"context"
	"net/http"

	"geodistance-api/internal/service"

	"github.com/gin-gonic/gin"
)

// GeoCodeHandler handles geocoding requests
type GeoCodeHandler struct {
	service GeoCodeService
}

// GeoCodeService resolves a single address
type GeoCodeService interface {
	Resolve(ctx context.Context, rawAddress string) (*service.Resolution, error)
}

// NewGeoCodeHandler creates a new geocode handler
func NewGeoCodeHandler(svc GeoCodeService) *GeoCodeHandler {
	return &GeoCodeHandler{service: svc}
}

// GeoCode handles GET /geocode/ requests
//
//	@Summary		Resolve an address
//	@Description	Returns the formatted address and coordinates for a free-text address. The first resolution of an address answers 201, later ones are served from the cache with 200.
//	@Tags			geocode
//	@Produce		json
//	@Param			address	query		string	true	"Free-text address"
//	@Success		200		{object}	models.Location
//	@Success		201		{object}	models.Location
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/geocode/ [get]
func (h *GeoCodeHandler) GeoCode(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgAddressRequired})
		return
	}

	res, err := h.service.Resolve(c.Request.Context(), address)
	if err != nil {
		status, msg := geocodeErrorResponse(err)
		logFailure(c, status, err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}

	c.JSON(status, res.Location)
}
