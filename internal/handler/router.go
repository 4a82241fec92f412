package handler

import (
	"net/http"

	_ "geodistance-api/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter wires the handlers into a gin engine. Both endpoints answer with
// and without the trailing slash.
func NewRouter(geocode *GeoCodeHandler, distance *DistanceHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger())

	r.GET("/health", Health)

	r.GET("/geocode", geocode.GeoCode)
	r.GET("/geocode/", geocode.GeoCode)
	r.GET("/distance", distance.Distance)
	r.GET("/distance/", distance.Distance)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// Health handles GET /health requests
//
//	@Summary	Liveness probe
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]string
//	@Router		/health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
