package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/template"
	"github.com/rpggio/packlist/internal/domain/trip"
	"github.com/rpggio/packlist/internal/repository"
)

func TestCustomItemRepository_SaveLoad(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewCustomItemRepository(NewKVStore(db, DefaultQuotaBytes), nil, nil)

	items, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	now := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	want := []customitem.Item{
		{ID: "a", Name: "Kite", Quantity: 1, Category: "misc", CreatedAt: now, UpdatedAt: now},
		{ID: "b", Name: "Tent pegs", Quantity: 12, Category: "outdoor", CreatedAt: now, UpdatedAt: now},
	}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	require.NoError(t, repo.Save(ctx, nil))
	got, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestCustomItemRepository_MalformedPayloadIsReset(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	kv := NewKVStore(db, DefaultQuotaBytes)
	activities := NewActivityRepository(db)
	repo := NewCustomItemRepository(kv, activities, nil)

	require.NoError(t, kv.Set(ctx, repository.KeyCustomItems, `{"not":"an array"}`))

	items, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, items)

	_, err = kv.Get(ctx, repository.KeyCustomItems)
	require.ErrorIs(t, err, repository.ErrNotFound)

	entries, err := activities.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, activity.TypeCollectionReset, entries[0].ActivityType)
}

func TestCustomItemRepository_DropsEntriesWithoutIdentity(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	kv := NewKVStore(db, DefaultQuotaBytes)
	repo := NewCustomItemRepository(kv, nil, nil)

	require.NoError(t, kv.Set(ctx, repository.KeyCustomItems,
		`[{"id":"a","name":"Kite","quantity":1,"category":"misc"},{"name":"no id"},{"id":"c","name":""}]`))

	items, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "a", items[0].ID)
}

func TestTemplateRepository_SaveLoad(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTemplateRepository(NewKVStore(db, DefaultQuotaBytes), nil, nil)

	created := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	want := []template.Template{{
		ID:   "t1",
		Name: "Alps",
		FormData: trip.Parameters{
			Nights:        5,
			Weather:       trip.WeatherCold,
			Accommodation: trip.AccommodationMountainCabin,
			Hiking:        true,
		},
		CustomItems:    []customitem.Item{{ID: "a", Name: "Kite", Quantity: 1, Category: "misc", CreatedAt: created, UpdatedAt: created}},
		ChecklistState: map[string]bool{"custom_a": true, "hikingBoots": true},
		CreatedAt:      created,
	}}
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestTemplateRepository_QuotaExceeded(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewTemplateRepository(NewKVStore(db, 32), nil, nil)

	err := repo.Save(ctx, []template.Template{{ID: "t1", Name: "A name long enough to overflow"}})
	require.ErrorIs(t, err, repository.ErrQuotaExceeded)
}
