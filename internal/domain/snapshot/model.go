package snapshot

import (
	"time"

	"github.com/rpggio/packlist/internal/domain/packing"
	"github.com/rpggio/packlist/internal/domain/trip"
)

// SchemaVersion is the version of the persisted snapshot layout. Snapshots
// with any other version are discarded on load, never migrated.
//
// Version 1 stored completion as a positional vector; version 2 keys it by
// item key.
const SchemaVersion = 2

// DefaultSaveDelay is the quiet window that coalesces snapshot writes.
const DefaultSaveDelay = time.Second

// Snapshot is the persisted state of the checklist.
type Snapshot struct {
	SchemaVersion int             `json:"schemaVersion"`
	FormData      trip.Parameters `json:"formData"`
	Items         []packing.Item  `json:"items"`
	CheckedItems  map[string]bool `json:"checkedItems"`
	Timestamp     time.Time       `json:"timestamp"`
}
