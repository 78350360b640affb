package snapshot

import (
	"context"

	"github.com/rpggio/packlist/internal/domain/activity"
)

// ActivityRepository records discarded snapshots.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}
