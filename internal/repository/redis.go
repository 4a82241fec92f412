package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"geodistance-api/internal/models"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "geo:"

// insertLocationScript creates the location hash and its first alias in one
// step. It returns 0 when either key already exists.
var insertLocationScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 or redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
local id = redis.call('INCR', KEYS[3])
redis.call('HSET', KEYS[1], 'id', tostring(id))
if ARGV[2] ~= '' then
	redis.call('HSET', KEYS[1], 'latitude', ARGV[2])
end
if ARGV[3] ~= '' then
	redis.call('HSET', KEYS[1], 'longitude', ARGV[3])
end
redis.call('SET', KEYS[2], ARGV[1])
return id
`)

// insertAliasScript returns -1 when the location is missing, 0 when the alias
// exists and 1 on success.
var insertAliasScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
if redis.call('SETNX', KEYS[2], ARGV[1]) == 0 then
	return 0
end
return 1
`)

// RedisRepository implements the location store on Redis. A location is a
// hash keyed by its formatted address; an alias is a string holding the
// formatted address it points to.
type RedisRepository struct {
	cli *redis.Client
}

// NewRedisRepository wraps a connected client.
func NewRedisRepository(cli *redis.Client) *RedisRepository {
	return &RedisRepository{cli: cli}
}

func locationKey(formatted string) string { return redisPrefix + "location:" + formatted }
func aliasKey(address string) string      { return redisPrefix + "alias:" + address }
func sequenceKey() string                 { return redisPrefix + "location:seq" }

func (r *RedisRepository) FindAliasByAddress(ctx context.Context, address string) (*models.Location, error) {
	formatted, err := r.cli.Get(ctx, aliasKey(address)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: redis get alias: %w", err)
	}

	return r.FindLocationByFormattedAddress(ctx, formatted)
}

func (r *RedisRepository) FindLocationByFormattedAddress(ctx context.Context, formatted string) (*models.Location, error) {
	fields, err := r.cli.HGetAll(ctx, locationKey(formatted)).Result()
	if err != nil {
		return nil, fmt.Errorf("repository: redis get location: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	loc := &models.Location{FormattedAddress: formatted}
	if loc.ID, err = strconv.ParseInt(fields["id"], 10, 64); err != nil {
		return nil, fmt.Errorf("repository: redis location %q has bad id: %w", formatted, err)
	}
	if loc.Latitude, err = parseOptionalFloat(fields, "latitude"); err != nil {
		return nil, fmt.Errorf("repository: redis location %q: %w", formatted, err)
	}
	if loc.Longitude, err = parseOptionalFloat(fields, "longitude"); err != nil {
		return nil, fmt.Errorf("repository: redis location %q: %w", formatted, err)
	}

	return loc, nil
}

func (r *RedisRepository) InsertLocationAndAlias(ctx context.Context, loc models.Location, address string) (*models.Location, error) {
	id, err := insertLocationScript.Run(ctx, r.cli,
		[]string{locationKey(loc.FormattedAddress), aliasKey(address), sequenceKey()},
		loc.FormattedAddress, formatOptionalFloat(loc.Latitude), formatOptionalFloat(loc.Longitude),
	).Int64()
	if err != nil {
		return nil, fmt.Errorf("repository: redis insert location: %w", err)
	}
	if id == 0 {
		return nil, fmt.Errorf("repository: insert location: %w", ErrDuplicate)
	}

	loc.ID = id
	return &loc, nil
}

func (r *RedisRepository) InsertAlias(ctx context.Context, address string, loc *models.Location) error {
	res, err := insertAliasScript.Run(ctx, r.cli,
		[]string{locationKey(loc.FormattedAddress), aliasKey(address)},
		loc.FormattedAddress,
	).Int64()
	if err != nil {
		return fmt.Errorf("repository: redis insert alias: %w", err)
	}

	switch res {
	case -1:
		return fmt.Errorf("repository: insert alias for %q: %w", loc.FormattedAddress, ErrNotFound)
	case 0:
		return fmt.Errorf("repository: insert alias: %w", ErrDuplicate)
	}
	return nil
}

// Count scans the key space, so it is meant for tooling rather than requests.
func (r *RedisRepository) Count(ctx context.Context) (Counts, error) {
	var c Counts

	locations, err := r.countKeys(ctx, redisPrefix+"location:*")
	if err != nil {
		return Counts{}, err
	}
	aliases, err := r.countKeys(ctx, redisPrefix+"alias:*")
	if err != nil {
		return Counts{}, err
	}

	c.Locations = locations
	c.Aliases = aliases
	return c, nil
}

func (r *RedisRepository) countKeys(ctx context.Context, pattern string) (int, error) {
	n := 0
	iter := r.cli.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if iter.Val() == sequenceKey() {
			continue
		}
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("repository: redis scan %q: %w", pattern, err)
	}
	return n, nil
}

func parseOptionalFloat(fields map[string]string, name string) (*float64, error) {
	raw, ok := fields[name]
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("bad %s %q: %w", name, raw, err)
	}
	return &v, nil
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
