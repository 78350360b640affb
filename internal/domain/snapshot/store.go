package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/packing"
	"github.com/rpggio/packlist/internal/domain/trip"
	"github.com/rpggio/packlist/internal/repository"
)

// Store reads and writes the snapshot under repository.KeySnapshot.
type Store struct {
	kv         repository.KVStore
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time
}

// NewStore creates a snapshot store. activities may be nil.
func NewStore(kv repository.KVStore, activities ActivityRepository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{kv: kv, activities: activities, logger: logger, now: time.Now}
}

// Load returns the persisted snapshot, or nil if there is none. A snapshot
// that cannot be used is deleted and reported as absent; the only errors
// returned come from reading the backing store itself.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	raw, err := s.kv.Get(ctx, repository.KeySnapshot)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	snap, reason := decode(raw)
	if reason != "" {
		s.discard(ctx, reason)
		return nil, nil
	}
	return snap, nil
}

// Save stamps snap with the schema version and the current time and writes
// it. Quota failures wrap repository.ErrQuotaExceeded.
func (s *Store) Save(ctx context.Context, snap Snapshot) error {
	snap.SchemaVersion = SchemaVersion
	snap.Timestamp = s.now().UTC()
	if snap.Items == nil {
		snap.Items = []packing.Item{}
	}
	if snap.CheckedItems == nil {
		snap.CheckedItems = map[string]bool{}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.kv.Set(ctx, repository.KeySnapshot, string(data)); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Clear removes the persisted snapshot.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, repository.KeySnapshot); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	return nil
}

func (s *Store) discard(ctx context.Context, reason string) {
	s.logger.Warn("discarding saved checklist", "reason", reason)

	if err := s.kv.Delete(ctx, repository.KeySnapshot); err != nil {
		s.logger.Error("failed to clear saved checklist", "error", err)
	}

	if s.activities != nil {
		details, _ := json.Marshal(map[string]string{"reason": reason})
		_ = s.activities.Log(ctx, &activity.ActivityEntry{
			ActivityType: activity.TypeSnapshotDiscarded,
			Summary:      "Discarded saved checklist",
			Details:      string(details),
			CreatedAt:    s.now(),
		})
	}
}

// decode parses and validates a stored snapshot. A non-empty reason means the
// payload must be discarded.
func decode(raw string) (*Snapshot, string) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return nil, "malformed payload"
	}

	var version int
	if err := json.Unmarshal(fields["schemaVersion"], &version); err != nil {
		return nil, "missing schema version"
	}
	if version != SchemaVersion {
		return nil, fmt.Sprintf("schema version %d, want %d", version, SchemaVersion)
	}

	shapes := []struct {
		field string
		open  byte
	}{
		{"formData", '{'},
		{"items", '['},
		{"checkedItems", '{'},
	}
	for _, shape := range shapes {
		value := bytes.TrimSpace(fields[shape.field])
		if len(value) == 0 || value[0] != shape.open {
			return nil, fmt.Sprintf("%s has the wrong shape", shape.field)
		}
	}

	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, "malformed payload"
	}
	if _, err := trip.Parse(trip.FormFromParameters(snap.FormData)); err != nil {
		return nil, "invalid form data"
	}
	for _, item := range snap.Items {
		if item.Key == "" || item.Quantity < 1 {
			return nil, "invalid item"
		}
	}
	return &snap, ""
}
