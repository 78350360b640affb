package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/template"
	"github.com/rpggio/packlist/internal/repository"
)

// ActivityLogger records collection resets.
type ActivityLogger interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// collection stores a JSON array under a single key. A payload that does not
// decode is logged, deleted and treated as an empty collection.
type collection[T any] struct {
	kv         repository.KVStore
	key        string
	activities ActivityLogger
	logger     *slog.Logger
}

func (c collection[T]) load(ctx context.Context, keep func(T) bool) ([]T, error) {
	raw, err := c.kv.Get(ctx, c.key)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", c.key, err)
	}

	var values []T
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		c.reset(ctx, err.Error())
		return nil, nil
	}

	out := values[:0]
	for _, v := range values {
		if keep(v) {
			out = append(out, v)
		}
	}
	if dropped := len(values) - len(out); dropped > 0 {
		c.logger.WarnContext(ctx, "dropped malformed entries", "key", c.key, "count", dropped)
	}
	return out, nil
}

func (c collection[T]) save(ctx context.Context, values []T) error {
	if values == nil {
		values = []T{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", repository.ErrStorageWrite, c.key, err)
	}
	return c.kv.Set(ctx, c.key, string(data))
}

func (c collection[T]) reset(ctx context.Context, reason string) {
	c.logger.WarnContext(ctx, "discarding unreadable collection", "key", c.key, "reason", reason)
	if err := c.kv.Delete(ctx, c.key); err != nil {
		c.logger.ErrorContext(ctx, "failed to delete unreadable collection", "key", c.key, "error", err)
	}
	if c.activities == nil {
		return
	}
	_ = c.activities.Log(ctx, &activity.ActivityEntry{
		ActivityType: activity.TypeCollectionReset,
		Summary:      fmt.Sprintf("Discarded unreadable %s", c.key),
		Details:      reason,
		CreatedAt:    time.Now(),
	})
}

func newCollection[T any](kv repository.KVStore, key string, activities ActivityLogger, logger *slog.Logger) collection[T] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return collection[T]{kv: kv, key: key, activities: activities, logger: logger}
}

// CustomItemRepository implements customitem.Repository on a KVStore
type CustomItemRepository struct {
	items collection[customitem.Item]
}

// NewCustomItemRepository creates a CustomItemRepository. activities may be nil.
func NewCustomItemRepository(kv repository.KVStore, activities ActivityLogger, logger *slog.Logger) *CustomItemRepository {
	return &CustomItemRepository{items: newCollection[customitem.Item](kv, repository.KeyCustomItems, activities, logger)}
}

// Load returns the stored custom items.
func (r *CustomItemRepository) Load(ctx context.Context) ([]customitem.Item, error) {
	return r.items.load(ctx, func(item customitem.Item) bool {
		return item.ID != "" && item.Name != ""
	})
}

// Save replaces the stored custom items.
func (r *CustomItemRepository) Save(ctx context.Context, items []customitem.Item) error {
	return r.items.save(ctx, items)
}

// TemplateRepository implements template.Repository on a KVStore
type TemplateRepository struct {
	templates collection[template.Template]
}

// NewTemplateRepository creates a TemplateRepository. activities may be nil.
func NewTemplateRepository(kv repository.KVStore, activities ActivityLogger, logger *slog.Logger) *TemplateRepository {
	return &TemplateRepository{templates: newCollection[template.Template](kv, repository.KeyTemplates, activities, logger)}
}

// Load returns the stored templates.
func (r *TemplateRepository) Load(ctx context.Context) ([]template.Template, error) {
	return r.templates.load(ctx, func(t template.Template) bool {
		return t.ID != "" && t.Name != ""
	})
}

// Save replaces the stored templates.
func (r *TemplateRepository) Save(ctx context.Context, templates []template.Template) error {
	return r.templates.save(ctx, templates)
}
