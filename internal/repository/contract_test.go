package repository

import (
	"context"
	"testing"

	"geodistance-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var beverlyCenter = models.Location{
	FormattedAddress: "8500 Beverly Blvd, Los Angeles, CA 90048, USA",
	Latitude:         models.Float(34.07362),
	Longitude:        models.Float(-118.376068),
}

// runStoreContract checks the behaviour every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("lookups on empty store", func(t *testing.T) {
		store := newStore(t)

		_, err := store.FindAliasByAddress(ctx, "beverly center")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.FindLocationByFormattedAddress(ctx, beverlyCenter.FormattedAddress)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("insert location and alias", func(t *testing.T) {
		store := newStore(t)

		loc, err := store.InsertLocationAndAlias(ctx, beverlyCenter, "beverly center")
		require.NoError(t, err)
		assert.NotZero(t, loc.ID)
		assert.Equal(t, beverlyCenter.FormattedAddress, loc.FormattedAddress)

		byAlias, err := store.FindAliasByAddress(ctx, "beverly center")
		require.NoError(t, err)
		assert.Equal(t, loc, byAlias)

		byFormatted, err := store.FindLocationByFormattedAddress(ctx, beverlyCenter.FormattedAddress)
		require.NoError(t, err)
		assert.Equal(t, loc, byFormatted)

		_, err = store.FindAliasByAddress(ctx, "Beverly Center")
		assert.ErrorIs(t, err, ErrNotFound, "alias lookups are exact")
	})

	t.Run("several aliases share one location", func(t *testing.T) {
		store := newStore(t)

		loc, err := store.InsertLocationAndAlias(ctx, beverlyCenter, "beverly center")
		require.NoError(t, err)
		require.NoError(t, store.InsertAlias(ctx, "8500 beverly blvd", loc))

		got, err := store.FindAliasByAddress(ctx, "8500 beverly blvd")
		require.NoError(t, err)
		assert.Equal(t, loc.ID, got.ID)

		counts, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, Counts{Locations: 1, Aliases: 2}, counts)
	})

	t.Run("duplicates are rejected", func(t *testing.T) {
		store := newStore(t)

		loc, err := store.InsertLocationAndAlias(ctx, beverlyCenter, "beverly center")
		require.NoError(t, err)

		_, err = store.InsertLocationAndAlias(ctx, beverlyCenter, "another alias")
		assert.ErrorIs(t, err, ErrDuplicate)

		other := models.Location{FormattedAddress: "New York, NY, USA"}
		_, err = store.InsertLocationAndAlias(ctx, other, "beverly center")
		assert.ErrorIs(t, err, ErrDuplicate)

		err = store.InsertAlias(ctx, "beverly center", loc)
		assert.ErrorIs(t, err, ErrDuplicate)

		counts, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, Counts{Locations: 1, Aliases: 1}, counts, "failed inserts leave nothing behind")
	})

	t.Run("coordinates are optional", func(t *testing.T) {
		store := newStore(t)

		_, err := store.InsertLocationAndAlias(ctx, models.Location{FormattedAddress: "Atlantis"}, "atlantis")
		require.NoError(t, err)

		got, err := store.FindAliasByAddress(ctx, "atlantis")
		require.NoError(t, err)
		assert.Nil(t, got.Latitude)
		assert.Nil(t, got.Longitude)
		assert.False(t, got.HasCoordinates())
	})
}
