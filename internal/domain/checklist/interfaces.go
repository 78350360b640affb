package checklist

import (
	"context"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/snapshot"
)

// ToggleFunc is called by a renderer when the user packs or unpacks an item.
type ToggleFunc func(ctx context.Context, key string, packed bool) error

// Renderer displays the checklist.
type Renderer interface {
	// Render replaces the displayed list with view. The returned channel is
	// closed once the item controls exist and can be marked.
	Render(view View, toggle ToggleFunc) <-chan struct{}
	// Mark sets the displayed completion of one item.
	Mark(key string, packed bool)
}

// CustomItems is the source of custom items appended to every list.
type CustomItems interface {
	List() []customitem.Item
}

// SnapshotStore persists the checklist.
type SnapshotStore interface {
	Load(ctx context.Context) (*snapshot.Snapshot, error)
	Save(ctx context.Context, snap snapshot.Snapshot) error
}

// ActivityRepository logs checklist activities.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
