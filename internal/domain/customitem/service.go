package customitem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/packlist/internal/domain/activity"
)

// Service is the registry of custom items. Every mutation is persisted before
// it becomes visible; a failed write leaves the registry unchanged.
type Service struct {
	repo       Repository
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.RWMutex
	items     []Item
	listeners []ChangeFunc
}

// NewService creates a new custom item registry. Call Reload to read the
// persisted collection.
func NewService(repo Repository, activities ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// AddRequest describes a new custom item.
type AddRequest struct {
	Name     string
	Quantity int
	Category string
}

// Reload replaces the in-memory collection with the persisted one.
func (s *Service) Reload(ctx context.Context) error {
	items, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading custom items: %w", err)
	}
	s.mu.Lock()
	s.items = Clone(items)
	s.mu.Unlock()
	return nil
}

// OnChange registers fn to be called after each mutation.
func (s *Service) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// List returns a copy of the current items in insertion order.
func (s *Service) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Clone(s.items)
}

// Get returns the item with id.
func (s *Service) Get(id string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, ErrItemNotFound
}

// Add creates an item. A quantity below one becomes one and an empty category
// becomes DefaultCategory; an empty name is rejected.
func (s *Service) Add(ctx context.Context, req AddRequest) (*Item, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	now := s.now()
	item := Item{
		ID:        uuid.NewString(),
		Name:      name,
		Quantity:  normalizeQuantity(req.Quantity),
		Category:  normalizeCategory(req.Category),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.mutate(ctx, func(items []Item) ([]Item, error) {
		return append(items, item), nil
	})
	if err != nil {
		return nil, fmt.Errorf("adding custom item: %w", err)
	}

	s.logActivity(ctx, activity.TypeCustomItemAdded, item.ID, fmt.Sprintf("Added %q", item.Name))
	s.notify(ctx)
	return &item, nil
}

// Edit applies a partial update to the item with id.
func (s *Service) Edit(ctx context.Context, id string, update Update) (*Item, error) {
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, ErrInvalidInput
	}

	var edited Item
	err := s.mutate(ctx, func(items []Item) ([]Item, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, ErrItemNotFound
		}
		item := items[idx]
		if update.Name != nil {
			item.Name = strings.TrimSpace(*update.Name)
		}
		if update.Quantity != nil {
			item.Quantity = normalizeQuantity(*update.Quantity)
		}
		if update.Category != nil {
			item.Category = normalizeCategory(*update.Category)
		}
		item.UpdatedAt = s.now()
		items[idx] = item
		edited = item
		return items, nil
	})
	if err != nil {
		return nil, fmt.Errorf("editing custom item: %w", err)
	}

	s.logActivity(ctx, activity.TypeCustomItemEdited, id, fmt.Sprintf("Edited %q", edited.Name))
	s.notify(ctx)
	return &edited, nil
}

// Delete removes the item with id. Deleting an unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	var removed *Item
	err := s.mutate(ctx, func(items []Item) ([]Item, error) {
		idx := indexOf(items, id)
		if idx < 0 {
			return nil, nil
		}
		item := items[idx]
		removed = &item
		return append(items[:idx], items[idx+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("deleting custom item: %w", err)
	}
	if removed == nil {
		return nil
	}

	s.logActivity(ctx, activity.TypeCustomItemDeleted, id, fmt.Sprintf("Deleted %q", removed.Name))
	s.notify(ctx)
	return nil
}

// Replace swaps the whole collection, as done when a template is loaded.
func (s *Service) Replace(ctx context.Context, items []Item) error {
	next := Clone(items)
	err := s.mutate(ctx, func([]Item) ([]Item, error) {
		if next == nil {
			return []Item{}, nil
		}
		return next, nil
	})
	if err != nil {
		return fmt.Errorf("replacing custom items: %w", err)
	}
	s.notify(ctx)
	return nil
}

// mutate applies fn to a copy of the items and persists the result. A nil
// slice with a nil error from fn means nothing changed.
func (s *Service) mutate(ctx context.Context, fn func([]Item) ([]Item, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(Clone(s.items))
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	if err := s.repo.Save(ctx, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

func (s *Service) notify(ctx context.Context) {
	s.mu.RLock()
	listeners := append([]ChangeFunc(nil), s.listeners...)
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx)
	}
}

func (s *Service) logActivity(ctx context.Context, kind activity.ActivityType, id, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.ActivityEntry{
		ActivityType: kind,
		SubjectID:    activity.Subject(id),
		Summary:      summary,
		CreatedAt:    s.now(),
	})
	if err != nil {
		s.logger.Warn("custom item activity not recorded", "type", kind, "error", err)
	}
}

func indexOf(items []Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func normalizeQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

func normalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return DefaultCategory
	}
	return c
}
