package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/packlist/internal/domain/activity"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewActivityRepository(db)
	entry1 := &activity.ActivityEntry{
		ActivityType: activity.TypeCustomItemAdded,
		SubjectID:    activity.Subject("c1"),
		Summary:      "Added Kite",
		Details:      `{"id":"c1"}`,
	}
	entry2 := &activity.ActivityEntry{
		ActivityType: activity.TypeListGenerated,
		Summary:      "Generated 40 items",
	}

	require.NoError(t, repo.Log(ctx, entry1))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.Log(ctx, entry2))
	require.NotZero(t, entry1.ID)

	entries, err := repo.List(ctx, activity.ListActivityOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, entry2.ActivityType, entries[0].ActivityType)
	require.Nil(t, entries[0].SubjectID)
	require.Equal(t, entry1.ActivityType, entries[1].ActivityType)
	require.Equal(t, "c1", *entries[1].SubjectID)
	require.Equal(t, `{"id":"c1"}`, entries[1].Details)
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	for _, entry := range []*activity.ActivityEntry{
		{ActivityType: activity.TypeTemplateSaved, SubjectID: activity.Subject("t1"), Summary: "saved"},
		{ActivityType: activity.TypeTemplateLoaded, SubjectID: activity.Subject("t1"), Summary: "loaded"},
		{ActivityType: activity.TypeTemplateSaved, SubjectID: activity.Subject("t2"), Summary: "saved"},
	} {
		require.NoError(t, repo.Log(ctx, entry))
	}

	subject := "t1"
	entries, err := repo.List(ctx, activity.ListActivityOptions{SubjectID: &subject})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	saved := activity.TypeTemplateSaved
	entries, err = repo.List(ctx, activity.ListActivityOptions{ActivityType: &saved})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entries, err = repo.List(ctx, activity.ListActivityOptions{Offset: 2})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
