package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"geodistance-api/internal/config"
	"geodistance-api/internal/geocoder"
	"geodistance-api/internal/handler"
	"geodistance-api/internal/logger"
	"geodistance-api/internal/repository"
	"geodistance-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

//	@title			Geodistance API
//	@version		1.0
//	@description	Geocodes addresses through a cache backed by the Google Geocoding API and computes distances between them.
//	@BasePath		/

func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger.Setup(config.LogLevel, config.LogFormat)
	gin.SetMode(config.GinMode)

	geocoderConfig := config.Geocoder()
	if err := geocoderConfig.Validate(); err != nil {
		log.Warn().Msg("MAP_API_KEY or GOOGLE_MAP_URL not set, only cached addresses will resolve")
	}

	// Storage backend
	store, closeStore, err := repository.Open(context.Background(), config)
	if err != nil {
		log.Fatal().Err(err).Str("driver", config.StoreDriver).Msg("cannot open store")
	}
	defer closeStore()

	// Initialize layers
	cache := service.NewLocationCache(store)
	resolver := service.NewGeocodeResolver(cache, geocoder.NewClient(geocoderConfig), geocoderConfig)
	distanceService := service.NewDistanceService(resolver)

	geoCodeHandler := handler.NewGeoCodeHandler(resolver)
	distanceHandler := handler.NewDistanceHandler(distanceService)

	r := handler.NewRouter(geoCodeHandler, distanceHandler)

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", config.ServerAddress).Str("store", config.StoreDriver).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {
	interruptChan := make(chan os.Signal, 1)
	signal.Notify(interruptChan, os.Interrupt, syscall.SIGTERM)

	sig := <-interruptChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
