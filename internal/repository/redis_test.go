package repository

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisRepository(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cli.Close() })

	return NewRedisRepository(cli), mr
}

func TestRedisRepository(t *testing.T) {
	runStoreContract(t, func(t *testing.T) Store {
		repo, _ := newRedisRepository(t)
		return repo
	})
}

func TestRedisRepository_KeyLayout(t *testing.T) {
	repo, mr := newRedisRepository(t)
	ctx := context.Background()

	loc, err := repo.InsertLocationAndAlias(ctx, beverlyCenter, "beverly center")
	require.NoError(t, err)
	assert.Equal(t, int64(1), loc.ID)

	alias, err := mr.Get("geo:alias:beverly center")
	require.NoError(t, err)
	assert.Equal(t, beverlyCenter.FormattedAddress, alias)

	key := "geo:location:" + beverlyCenter.FormattedAddress
	assert.Equal(t, "34.07362", mr.HGet(key, "latitude"))
	assert.Equal(t, "-118.376068", mr.HGet(key, "longitude"))
}

func TestRedisRepository_CorruptHash(t *testing.T) {
	repo, mr := newRedisRepository(t)

	mr.HSet("geo:location:Broken", "id", "1", "latitude", "north")
	require.NoError(t, mr.Set("geo:alias:broken", "Broken"))

	_, err := repo.FindAliasByAddress(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisRepository_ServerDown(t *testing.T) {
	repo, mr := newRedisRepository(t)
	mr.Close()

	_, err := repo.FindAliasByAddress(context.Background(), "beverly center")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
