package customitem

import (
	"context"

	"github.com/rpggio/packlist/internal/domain/activity"
)

// Repository persists the whole custom item collection at once.
type Repository interface {
	Load(ctx context.Context) ([]Item, error)
	Save(ctx context.Context, items []Item) error
}

// ActivityRepository logs custom item activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// ChangeFunc is called after every successful mutation of the registry.
type ChangeFunc func(ctx context.Context)
