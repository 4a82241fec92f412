package repository

import (
	"context"
	"errors"
	"fmt"

	"geodistance-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

// PostgresRepository implements the location store on PostgreSQL
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the locations and addresses tables when missing
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("repository: failed to create schema: %w", err)
	}
	return nil
}

// FindAliasByAddress returns the location the normalized address points to
func (r *PostgresRepository) FindAliasByAddress(ctx context.Context, address string) (*models.Location, error) {
	sql := `
		SELECT
			l.id,
			l.formatted_address,
			l.latitude,
			l.longitude
		FROM addresses a
		JOIN locations l ON l.id = a.location_id
		WHERE a.address = $1
	`

	return r.scanLocation(r.db.QueryRow(ctx, sql, address))
}

// FindLocationByFormattedAddress returns the location with the given formatted address
func (r *PostgresRepository) FindLocationByFormattedAddress(ctx context.Context, formatted string) (*models.Location, error) {
	sql := `
		SELECT
			id,
			formatted_address,
			latitude,
			longitude
		FROM locations
		WHERE formatted_address = $1
	`

	return r.scanLocation(r.db.QueryRow(ctx, sql, formatted))
}

// InsertLocationAndAlias stores a new location and its first alias in one transaction
func (r *PostgresRepository) InsertLocationAndAlias(ctx context.Context, loc models.Location, address string) (*models.Location, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO locations (formatted_address, latitude, longitude)
		VALUES ($1, $2, $3)
		RETURNING id
	`, loc.FormattedAddress, loc.Latitude, loc.Longitude).Scan(&loc.ID)
	if err != nil {
		return nil, pgError("insert location", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO addresses (address, location_id) VALUES ($1, $2)`, address, loc.ID); err != nil {
		return nil, pgError("insert address", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, pgError("commit", err)
	}

	return &loc, nil
}

// InsertAlias links a new normalized address to an existing location
func (r *PostgresRepository) InsertAlias(ctx context.Context, address string, loc *models.Location) error {
	_, err := r.db.Exec(ctx, `INSERT INTO addresses (address, location_id) VALUES ($1, $2)`, address, loc.ID)
	if err != nil {
		return pgError("insert address", err)
	}
	return nil
}

// Count returns the number of stored locations and aliases
func (r *PostgresRepository) Count(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.db.QueryRow(ctx, `SELECT (SELECT COUNT(*) FROM locations), (SELECT COUNT(*) FROM addresses)`).
		Scan(&c.Locations, &c.Aliases)
	if err != nil {
		return Counts{}, fmt.Errorf("repository: failed to count rows: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) scanLocation(row pgx.Row) (*models.Location, error) {
	var loc models.Location
	err := row.Scan(
		&loc.ID,
		&loc.FormattedAddress,
		&loc.Latitude,
		&loc.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to scan location: %w", err)
	}

	return &loc, nil
}

func pgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("repository: %s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("repository: failed to %s: %w", op, err)
}
