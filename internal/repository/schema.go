package repository

const postgresSchema = `
CREATE TABLE IF NOT EXISTS locations (
	id BIGSERIAL PRIMARY KEY,
	formatted_address VARCHAR(255) NOT NULL UNIQUE,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS addresses (
	id BIGSERIAL PRIMARY KEY,
	address VARCHAR(255) NOT NULL UNIQUE,
	location_id BIGINT NOT NULL REFERENCES locations(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS addresses_location_id_idx ON addresses (location_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS locations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	formatted_address TEXT NOT NULL UNIQUE,
	latitude REAL,
	longitude REAL
);

CREATE TABLE IF NOT EXISTS addresses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	address TEXT NOT NULL UNIQUE,
	location_id INTEGER NOT NULL REFERENCES locations(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS addresses_location_id_idx ON addresses (location_id);
`
