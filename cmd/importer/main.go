package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"geodistance-api/internal/config"
	"geodistance-api/internal/geo"
	"geodistance-api/internal/logger"
	"geodistance-api/internal/repository"
	"geodistance-api/internal/service"

	"github.com/rs/zerolog/log"
)

// AliasRecord is one CSV row: address,formatted_address,latitude,longitude.
// Coordinates may be blank.
type AliasRecord struct {
	Address          string
	FormattedAddress string
	Lat              *float64
	Lng              *float64
}

type importStats struct {
	created  int
	existing int
}

func main() {
	file := flag.String("file", "", "Path to the CSV file to import")
	configDir := flag.String("config", "configs", "Directory holding app.env")
	flag.Parse()

	logger.Setup("info", "console")

	if *file == "" {
		log.Fatal().Msg("--file flag is required")
	}

	log.Info().Str("file", *file).Msg("starting import")

	records, err := parseCSV(*file)
	if err != nil {
		log.Fatal().Err(err).Msg("error parsing CSV")
	}

	log.Info().Int("records", len(records)).Msg("parsed CSV")

	// Load config
	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	// Connect to the store; the schema is created on open
	ctx := context.Background()
	store, closeStore, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("error opening store")
	}
	defer closeStore()

	before, err := store.Count(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("error counting rows")
	}

	// Insert records
	stats, err := insertRecords(ctx, service.NewLocationCache(store), records)
	if err != nil {
		log.Fatal().Err(err).Msg("error inserting records")
	}

	// Verify data
	if err := verifyImport(ctx, store, before, stats); err != nil {
		log.Fatal().Err(err).Msg("error verifying import")
	}

	log.Info().
		Int("created", stats.created).
		Int("already_cached", stats.existing).
		Msg("import finished")
}

func parseCSV(filePath string) ([]AliasRecord, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return readRecords(file)
}

func readRecords(r io.Reader) ([]AliasRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var records []AliasRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(row) < 2 {
			return nil, fmt.Errorf("line %d: invalid record length: %d, expected at least 2 columns", line, len(row))
		}

		rec := AliasRecord{
			Address:          row[0],
			FormattedAddress: strings.TrimSpace(row[1]),
		}
		if geo.IsBlank(rec.Address) || rec.FormattedAddress == "" {
			return nil, fmt.Errorf("line %d: address and formatted_address are required", line)
		}

		if len(row) > 2 {
			if rec.Lat, err = parseCoordinate(row[2], -90, 90); err != nil {
				return nil, fmt.Errorf("line %d: invalid latitude: %w", line, err)
			}
		}
		if len(row) > 3 {
			if rec.Lng, err = parseCoordinate(row[3], -180, 180); err != nil {
				return nil, fmt.Errorf("line %d: invalid longitude: %w", line, err)
			}
		}

		records = append(records, rec)
	}

	return records, nil
}

func parseCoordinate(raw string, min, max float64) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	if v < min || v > max {
		return nil, fmt.Errorf("%v out of range [%v, %v]", v, min, max)
	}
	return &v, nil
}

func insertRecords(ctx context.Context, cache *service.LocationCache, records []AliasRecord) (importStats, error) {
	var stats importStats

	for _, rec := range records {
		address := geo.Normalize(rec.Address)

		if _, found, err := cache.Lookup(ctx, address); err != nil {
			return stats, err
		} else if found {
			stats.existing++
			continue
		}

		_, created, err := cache.Record(ctx, address, rec.FormattedAddress, rec.Lat, rec.Lng)
		if err != nil {
			return stats, fmt.Errorf("record %q: %w", address, err)
		}
		if created {
			stats.created++
		} else {
			stats.existing++
		}
	}

	return stats, nil
}

func verifyImport(ctx context.Context, store repository.Store, before repository.Counts, stats importStats) error {
	after, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}

	if added := after.Aliases - before.Aliases; added < stats.created {
		return fmt.Errorf("alias count mismatch: expected at least %d new, got %d", stats.created, added)
	}

	log.Info().
		Int("locations", after.Locations).
		Int("aliases", after.Aliases).
		Msg("store totals")
	return nil
}
