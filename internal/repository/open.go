package repository

import (
	"context"
	"fmt"

	"geodistance-api/internal/config"
	"geodistance-api/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Store is what every backend offers.
type Store interface {
	FindAliasByAddress(ctx context.Context, address string) (*models.Location, error)
	FindLocationByFormattedAddress(ctx context.Context, formatted string) (*models.Location, error)
	InsertLocationAndAlias(ctx context.Context, loc models.Location, address string) (*models.Location, error)
	InsertAlias(ctx context.Context, address string, loc *models.Location) error
	Count(ctx context.Context) (Counts, error)
}

// Open connects the backend selected by cfg.StoreDriver, creating the schema
// where one is needed. The returned func releases the connection.
func Open(ctx context.Context, cfg config.Config) (Store, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			return nil, nil, fmt.Errorf("repository: cannot connect to db: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("repository: cannot reach db: %w", err)
		}

		repo := NewPostgresRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	case config.DriverSQLite:
		db, err := OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		repo := NewSQLiteRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil

	case config.DriverRedis:
		cli := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := cli.Ping(ctx).Err(); err != nil {
			_ = cli.Close()
			return nil, nil, fmt.Errorf("repository: cannot reach redis at %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisRepository(cli), func() { _ = cli.Close() }, nil

	case config.DriverMemory, "":
		log.Warn().Msg("using in-memory store, cached locations are lost on restart")
		return NewMemoryRepository(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("repository: unknown store driver %q", cfg.StoreDriver)
	}
}
