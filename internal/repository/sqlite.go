package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"geodistance-api/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository implements the location store on a local SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path with foreign
// keys enforced.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("repository: create sqlite dir %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("repository: open sqlite database %q: %w", path, err)
	}
	// One writer at a time; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("repository: verify sqlite connection to %q: %w", path, err)
	}

	return db, nil
}

// NewSQLiteRepository wraps an open database.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// EnsureSchema creates the tables when missing.
func (r *SQLiteRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("repository: failed to create sqlite schema: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FindAliasByAddress(ctx context.Context, address string) (*models.Location, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT l.id, l.formatted_address, l.latitude, l.longitude
		FROM addresses a
		JOIN locations l ON l.id = a.location_id
		WHERE a.address = ?
	`, address)

	return scanSQLLocation(row)
}

func (r *SQLiteRepository) FindLocationByFormattedAddress(ctx context.Context, formatted string) (*models.Location, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, formatted_address, latitude, longitude
		FROM locations
		WHERE formatted_address = ?
	`, formatted)

	return scanSQLLocation(row)
}

func (r *SQLiteRepository) InsertLocationAndAlias(ctx context.Context, loc models.Location, address string) (*models.Location, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("repository: sqlite begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO locations (formatted_address, latitude, longitude) VALUES (?, ?, ?)`,
		loc.FormattedAddress, loc.Latitude, loc.Longitude,
	)
	if err != nil {
		return nil, sqliteError("insert location", err)
	}

	if loc.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("repository: sqlite last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO addresses (address, location_id) VALUES (?, ?)`, address, loc.ID); err != nil {
		return nil, sqliteError("insert address", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("repository: sqlite commit: %w", err)
	}

	return &loc, nil
}

func (r *SQLiteRepository) InsertAlias(ctx context.Context, address string, loc *models.Location) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO addresses (address, location_id) VALUES (?, ?)`, address, loc.ID)
	if err != nil {
		return sqliteError("insert address", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (Counts, error) {
	var c Counts
	err := r.db.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM locations), (SELECT COUNT(*) FROM addresses)`).
		Scan(&c.Locations, &c.Aliases)
	if err != nil {
		return Counts{}, fmt.Errorf("repository: sqlite count: %w", err)
	}
	return c, nil
}

func scanSQLLocation(row *sql.Row) (*models.Location, error) {
	var (
		loc      models.Location
		lat, lng sql.NullFloat64
	)
	if err := row.Scan(&loc.ID, &loc.FormattedAddress, &lat, &lng); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to scan location: %w", err)
	}

	if lat.Valid {
		loc.Latitude = &lat.Float64
	}
	if lng.Valid {
		loc.Longitude = &lng.Float64
	}

	return &loc, nil
}

func sqliteError(op string, err error) error {
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("repository: %s: %w", op, ErrDuplicate)
		}
	}
	return fmt.Errorf("repository: failed to %s: %w", op, err)
}
