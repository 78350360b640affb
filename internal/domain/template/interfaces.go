package template

import (
	"context"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/trip"
)

// Repository persists the whole template collection at once.
type Repository interface {
	Load(ctx context.Context) ([]Template, error)
	Save(ctx context.Context, templates []Template) error
}

// Workspace is the live checklist a template is captured from and applied to.
type Workspace interface {
	Parameters() trip.Parameters
	Completion() map[string]bool
	Apply(ctx context.Context, params trip.Parameters, completion map[string]bool) error
}

// CustomItems is the live custom item registry.
type CustomItems interface {
	List() []customitem.Item
	Replace(ctx context.Context, items []customitem.Item) error
}

// ActivityRepository logs template activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
