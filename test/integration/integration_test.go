package integration_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/trip"
	"github.com/rpggio/packlist/internal/repository"
	"github.com/rpggio/packlist/internal/testserver"
)

func fileDSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "packlist.db")
}

func recentOfType(t *testing.T, app *testserver.App, kind activity.ActivityType) []activity.ActivityEntry {
	t.Helper()
	entries, err := app.Activity.GetRecentActivity(context.Background(), activity.ListActivityOptions{ActivityType: &kind})
	require.NoError(t, err)
	return entries
}

func TestIntegration_ChecklistSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dsn := fileDSN(t)

	first := testserver.NewApp(t, testserver.Options{DSN: dsn})
	params := trip.Default()
	params.Nights = 5
	params.Weather = trip.WeatherCold
	params.Sauna = true
	_, err := first.Checklist.Regenerate(ctx, params)
	require.NoError(t, err)
	require.NoError(t, first.Checklist.Toggle(ctx, "hat", true))
	require.NoError(t, first.Checklist.Toggle(ctx, "shirt", true))
	require.NoError(t, first.Checklist.Toggle(ctx, "shirt", false))
	require.NoError(t, first.Checklist.Flush(ctx))

	second := testserver.NewApp(t, testserver.Options{DSN: dsn})
	require.Equal(t, params, second.Checklist.Parameters())
	require.Equal(t, map[string]bool{"hat": true}, second.Checklist.Completion())

	view, err := second.Checklist.View()
	require.NoError(t, err)
	require.NotEmpty(t, view.Items)
	require.Equal(t, 1, second.Checklist.Progress().Packed)
}

func TestIntegration_IncompatibleSnapshotIsDiscarded(t *testing.T) {
	ctx := context.Background()
	dsn := fileDSN(t)

	seed := testserver.NewApp(t, testserver.Options{DSN: dsn})
	require.NoError(t, seed.KV.Set(ctx, repository.KeySnapshot,
		`{"schemaVersion":1,"formData":{},"items":[],"checkedItems":[true,false]}`))

	app := testserver.NewApp(t, testserver.Options{DSN: dsn})
	_, err := app.Checklist.View()
	require.Error(t, err)

	_, err = app.KV.Get(ctx, repository.KeySnapshot)
	require.ErrorIs(t, err, repository.ErrNotFound)

	discarded := recentOfType(t, app, activity.TypeSnapshotDiscarded)
	require.Len(t, discarded, 1)
	require.Contains(t, discarded[0].Details, "schema version 1")
}

func TestIntegration_CustomItemsAndTemplatesSurviveRestart(t *testing.T) {
	ctx := context.Background()
	dsn := fileDSN(t)

	first := testserver.NewApp(t, testserver.Options{DSN: dsn})
	_, err := first.Checklist.Regenerate(ctx, trip.Default())
	require.NoError(t, err)

	kite, err := first.CustomItems.Add(ctx, customitem.AddRequest{Name: "Kite", Quantity: 2})
	require.NoError(t, err)
	require.NoError(t, first.Checklist.Toggle(ctx, "custom_"+kite.ID, true))

	saved, err := first.Templates.Save(ctx, "Weekend")
	require.NoError(t, err)
	require.NoError(t, first.CustomItems.Delete(ctx, kite.ID))
	require.NoError(t, first.Checklist.Flush(ctx))

	second := testserver.NewApp(t, testserver.Options{DSN: dsn})
	require.Empty(t, second.CustomItems.List())

	templates := second.Templates.List()
	require.Len(t, templates, 1)
	require.Equal(t, saved.ID, templates[0].ID)
	require.Equal(t, "Weekend", templates[0].Name)

	_, err = second.Templates.Load(ctx, saved.ID)
	require.NoError(t, err)

	items := second.CustomItems.List()
	require.Len(t, items, 1)
	require.Equal(t, "Kite", items[0].Name)
	require.NotEqual(t, kite.ID, items[0].ID)
	require.True(t, second.Checklist.Completion()["custom_"+items[0].ID])

	require.Len(t, recentOfType(t, second, activity.TypeTemplateLoaded), 1)
}

func TestIntegration_MalformedCollectionIsReset(t *testing.T) {
	ctx := context.Background()
	dsn := fileDSN(t)

	seed := testserver.NewApp(t, testserver.Options{DSN: dsn})
	require.NoError(t, seed.KV.Set(ctx, repository.KeyCustomItems, `{"not":"a list"}`))

	app := testserver.NewApp(t, testserver.Options{DSN: dsn})
	require.Empty(t, app.CustomItems.List())

	_, err := app.KV.Get(ctx, repository.KeyCustomItems)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Len(t, recentOfType(t, app, activity.TypeCollectionReset), 1)
}

func TestIntegration_QuotaFailureRollsBackCustomItem(t *testing.T) {
	ctx := context.Background()
	app := testserver.NewApp(t, testserver.Options{QuotaBytes: 64})

	_, err := app.CustomItems.Add(ctx, customitem.AddRequest{Name: "A very long custom item name that does not fit into the quota"})
	require.ErrorIs(t, err, repository.ErrQuotaExceeded)
	require.Empty(t, app.CustomItems.List())
}
