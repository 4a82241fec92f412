package handler

import (
	"context"
	"net/http"

	"geodistance-api/internal/models"

	"github.com/gin-gonic/gin"
)

// DistanceHandler handles distance requests
type DistanceHandler struct {
	service DistanceService
}

// DistanceService computes the distance between two addresses
type DistanceService interface {
	Distance(ctx context.Context, startAddress, endAddress string) (*models.Distance, error)
}

// NewDistanceHandler creates a new distance handler
func NewDistanceHandler(svc DistanceService) *DistanceHandler {
	return &DistanceHandler{service: svc}
}

// Distance handles GET /distance/ requests
//
//	@Summary		Distance between two addresses
//	@Description	Resolves both addresses through the geocode cache and returns the great-circle distance in kilometres. start_location and end_location echo the lower-cased inputs.
//	@Tags			distance
//	@Produce		json
//	@Param			start_address	query		string	true	"Start address"
//	@Param			end_address		query		string	true	"End address"
//	@Success		200				{object}	models.Distance
//	@Failure		400				{object}	ErrorResponse
//	@Failure		500				{object}	ErrorResponse
//	@Router			/distance/ [get]
func (h *DistanceHandler) Distance(c *gin.Context) {
	start := c.Query("start_address")
	end := c.Query("end_address")

	if start == "" || end == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgBothAddressesRequired})
		return
	}

	result, err := h.service.Distance(c.Request.Context(), start, end)
	if err != nil {
		status, msg := distanceErrorResponse(err)
		logFailure(c, status, err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, result)
}
