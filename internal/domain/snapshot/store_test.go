package snapshot_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/packing"
	"github.com/rpggio/packlist/internal/domain/snapshot"
	"github.com/rpggio/packlist/internal/domain/trip"
	"github.com/rpggio/packlist/internal/repository"
	"github.com/rpggio/packlist/internal/repository/mocks"
	"github.com/rpggio/packlist/internal/sqlite"
)

func newKV(t *testing.T, quota int64) *sqlite.KVStore {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return sqlite.NewKVStore(db, quota)
}

func sampleSnapshot() snapshot.Snapshot {
	return snapshot.Snapshot{
		FormData: trip.Parameters{Nights: 4, Weather: trip.WeatherWarm, Accommodation: trip.AccommodationHotel, Beach: true},
		Items: []packing.Item{
			{Key: "shirt", Quantity: 4, Category: packing.CategoryClothing},
			{Key: "custom_x", Quantity: 1, Category: "misc", IsCustom: true, Label: "Kite"},
		},
		CheckedItems: map[string]bool{"shirt": true, "custom_x": false},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewStore(newKV(t, sqlite.DefaultQuotaBytes), nil, nil)

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)

	snap := sampleSnapshot()
	require.NoError(t, store.Save(ctx, snap))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, snapshot.SchemaVersion, loaded.SchemaVersion)
	require.False(t, loaded.Timestamp.IsZero())
	require.Equal(t, snap.FormData, loaded.FormData)
	require.Equal(t, snap.Items, loaded.Items)
	require.Equal(t, snap.CheckedItems, loaded.CheckedItems)

	require.NoError(t, store.Clear(ctx))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestStore_RoundTripEmptyList(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewStore(newKV(t, sqlite.DefaultQuotaBytes), nil, nil)

	snap := sampleSnapshot()
	snap.Items = nil
	snap.CheckedItems = nil
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, snap.FormData, loaded.FormData)
	require.Empty(t, loaded.Items)
	require.Empty(t, loaded.CheckedItems)
}

func TestStore_DiscardsUnusablePayloads(t *testing.T) {
	payloads := map[string]string{
		"not json":              `{{{`,
		"not an object":         `[1,2,3]`,
		"old positional layout": `{"version":1,"formData":{},"items":[],"checkedItems":[true,false]}`,
		"version mismatch":      `{"schemaVersion":1,"formData":{"nights":3,"weather":"warm","accommodation":"hotel"},"items":[],"checkedItems":{}}`,
		"future version":        `{"schemaVersion":3,"formData":{"nights":3,"weather":"warm","accommodation":"hotel"},"items":[],"checkedItems":{}}`,
		"form data not object":  `{"schemaVersion":2,"formData":"x","items":[],"checkedItems":{}}`,
		"items not array":       `{"schemaVersion":2,"formData":{"nights":3,"weather":"warm","accommodation":"hotel"},"items":{},"checkedItems":{}}`,
		"checked not object":    `{"schemaVersion":2,"formData":{"nights":3,"weather":"warm","accommodation":"hotel"},"items":[],"checkedItems":[true]}`,
		"invalid form data":     `{"schemaVersion":2,"formData":{"nights":0,"weather":"hot","accommodation":"hotel"},"items":[],"checkedItems":{}}`,
		"zero quantity item":    `{"schemaVersion":2,"formData":{"nights":3,"weather":"warm","accommodation":"hotel"},"items":[{"key":"shirt","quantity":0,"category":"clothing"}],"checkedItems":{}}`,
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			kv := newKV(t, 0)
			require.NoError(t, kv.Set(ctx, repository.KeySnapshot, payload))

			activities := &mocks.ActivityRepository{}
			activities.On("Log", ctx, mock.MatchedBy(func(e *activity.ActivityEntry) bool {
				return e.ActivityType == activity.TypeSnapshotDiscarded && e.Details != ""
			})).Return(nil).Once()

			store := snapshot.NewStore(kv, activities, nil)
			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			require.Nil(t, loaded)

			_, err = kv.Get(ctx, repository.KeySnapshot)
			require.ErrorIs(t, err, repository.ErrNotFound)
			activities.AssertExpectations(t)
		})
	}
}

func TestStore_SaveSurfacesQuotaErrors(t *testing.T) {
	store := snapshot.NewStore(newKV(t, 32), nil, nil)

	err := store.Save(context.Background(), sampleSnapshot())
	require.ErrorIs(t, err, repository.ErrQuotaExceeded)
}

func TestStore_LoadSurfacesReadErrors(t *testing.T) {
	ctx := context.Background()
	kv := &mocks.KVStore{}
	kv.On("Get", ctx, repository.KeySnapshot).Return("", repository.ErrStorageWrite)

	store := snapshot.NewStore(kv, nil, nil)
	_, err := store.Load(ctx)
	require.Error(t, err)
	kv.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
