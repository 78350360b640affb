package template

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/customitem"
	"github.com/rpggio/packlist/internal/domain/packing"
	"github.com/rpggio/packlist/internal/domain/trip"
)

// Service is the template registry. Mutations persist the whole collection
// immediately.
type Service struct {
	repo       Repository
	workspace  Workspace
	items      CustomItems
	activities ActivityRepository
	logger     *slog.Logger
	now        func() time.Time

	mu        sync.RWMutex
	templates []Template
}

// NewService creates a new template registry. Call Reload to read the
// persisted collection.
func NewService(repo Repository, workspace Workspace, items CustomItems, activities ActivityRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		repo:       repo,
		workspace:  workspace,
		items:      items,
		activities: activities,
		logger:     logger,
		now:        time.Now,
	}
}

// Reload replaces the in-memory collection with the persisted one.
func (s *Service) Reload(ctx context.Context) error {
	templates, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	s.mu.Lock()
	s.templates = templates
	s.mu.Unlock()
	return nil
}

// Save captures the live parameters, custom items and completion state
// under name.
func (s *Service) Save(ctx context.Context, name string) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	tmpl := Template{
		ID:             uuid.NewString(),
		Name:           name,
		FormData:       s.workspace.Parameters(),
		CustomItems:    s.items.List(),
		ChecklistState: s.workspace.Completion(),
		CreatedAt:      s.now(),
	}
	if tmpl.CustomItems == nil {
		tmpl.CustomItems = []customitem.Item{}
	}
	if tmpl.ChecklistState == nil {
		tmpl.ChecklistState = map[string]bool{}
	}

	s.mu.Lock()
	next := append(slices.Clone(s.templates), tmpl)
	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("saving template: %w", err)
	}
	s.templates = next
	s.mu.Unlock()

	s.logActivity(ctx, activity.TypeTemplateSaved, tmpl.ID, fmt.Sprintf("Saved template %q", tmpl.Name))
	out := tmpl.Clone()
	return &out, nil
}

// Load applies the template with id to the live state. Its custom items
// replace the registry contents under fresh ids, and completion entries of
// those items follow them to their new keys. The template's parameters are
// validated before anything changes; if applying them fails, the previous
// custom items and checklist are put back.
func (s *Service) Load(ctx context.Context, id string) (*Template, error) {
	tmpl, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := trip.Validate(trip.FormFromParameters(tmpl.FormData.Clamped())); err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	completion := make(map[string]bool, len(tmpl.ChecklistState))
	for key, packed := range tmpl.ChecklistState {
		completion[key] = packed
	}

	fresh := make([]customitem.Item, len(tmpl.CustomItems))
	for i, item := range tmpl.CustomItems {
		item.ID = uuid.NewString()
		fresh[i] = item

		oldKey := packing.CustomKey(tmpl.CustomItems[i].ID)
		if packed, ok := completion[oldKey]; ok {
			delete(completion, oldKey)
			completion[packing.CustomKey(item.ID)] = packed
		}
	}

	previousItems := s.items.List()
	previousParams := s.workspace.Parameters()
	previousCompletion := s.workspace.Completion()

	if err := s.items.Replace(ctx, fresh); err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	if err := s.workspace.Apply(ctx, tmpl.FormData, completion); err != nil {
		s.rollback(context.WithoutCancel(ctx), previousItems, previousParams, previousCompletion)
		return nil, fmt.Errorf("loading template: %w", err)
	}

	s.logActivity(ctx, activity.TypeTemplateLoaded, tmpl.ID, fmt.Sprintf("Loaded template %q", tmpl.Name))
	return tmpl, nil
}

// rollback restores the live state captured before a failed Load. Packed
// entries only exist once a list was generated, so the checklist is only
// re-applied when there were some.
func (s *Service) rollback(ctx context.Context, items []customitem.Item, params trip.Parameters, completion map[string]bool) {
	if err := s.items.Replace(ctx, items); err != nil {
		s.logger.Error("failed to restore custom items after template load", "error", err)
		return
	}
	if len(completion) == 0 {
		return
	}
	if err := s.workspace.Apply(ctx, params, completion); err != nil {
		s.logger.Error("failed to restore checklist after template load", "error", err)
	}
}

// Delete removes the template with id. Deleting an unknown id is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := slices.IndexFunc(s.templates, func(t Template) bool { return t.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	removed := s.templates[idx]
	next := slices.Delete(slices.Clone(s.templates), idx, idx+1)
	if err := s.repo.Save(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("deleting template: %w", err)
	}
	s.templates = next
	s.mu.Unlock()

	s.logActivity(ctx, activity.TypeTemplateDeleted, id, fmt.Sprintf("Deleted template %q", removed.Name))
	return nil
}

// Get returns a copy of the template with id.
func (s *Service) Get(id string) (*Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if t.ID == id {
			out := t.Clone()
			return &out, nil
		}
	}
	return nil, ErrTemplateNotFound
}

// List returns copies of all templates, most recently created first.
func (s *Service) List() []Template {
	s.mu.RLock()
	// Collected in reverse so templates created at the same instant list
	// the later one first.
	out := make([]Template, 0, len(s.templates))
	for _, t := range slices.Backward(s.templates) {
		out = append(out, t.Clone())
	}
	s.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b Template) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
	return out
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
		s.logger.Warn("template activity not recorded", "type", kind, "error", err)
	}
}
