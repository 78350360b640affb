package checklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rpggio/packlist/internal/domain/activity"
	"github.com/rpggio/packlist/internal/domain/packing"
	"github.com/rpggio/packlist/internal/domain/snapshot"
	"github.com/rpggio/packlist/internal/domain/trip"
)

// Deps are the collaborators of a Coordinator.
type Deps struct {
	Lookup      packing.Lookup
	CustomItems CustomItems
	Store       SnapshotStore
	Renderer    Renderer
	Activities  ActivityRepository
	Logger      *slog.Logger
	Locale      string
	SaveDelay   time.Duration
}

// Coordinator owns the live checklist: the trip parameters, the generated
// list and which items are packed. Completion is keyed by item key, so it
// survives regeneration for every item that is still on the list.
type Coordinator struct {
	lookup     packing.Lookup
	items      CustomItems
	store      SnapshotStore
	renderer   Renderer
	activities ActivityRepository
	logger     *slog.Logger
	saver      *snapshot.Debouncer

	mu         sync.RWMutex
	locale     string
	params     trip.Parameters
	list       []packing.Item
	completion map[string]bool
	generated  bool
	saveErr    error
}

// NewCoordinator creates a Coordinator with default parameters and no list.
func NewCoordinator(deps Deps) *Coordinator {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	locale := deps.Locale
	if locale == "" {
		locale = "en"
	}
	c := &Coordinator{
		lookup:     deps.Lookup,
		items:      deps.CustomItems,
		store:      deps.Store,
		renderer:   deps.Renderer,
		activities: deps.Activities,
		logger:     logger,
		locale:     locale,
		params:     trip.Default(),
		completion: map[string]bool{},
	}
	c.saver = snapshot.NewDebouncer(deps.SaveDelay, c.save, c.recordSaveError)
	return c
}

// Regenerate derives a new list from params. Nights are clamped to the
// supported range first; any other invalid field is a *trip.ValidationError.
func (c *Coordinator) Regenerate(ctx context.Context, params trip.Parameters) (View, error) {
	params = params.Clamped()
	if err := trip.Validate(trip.FormFromParameters(params)); err != nil {
		return View{}, err
	}

	view := c.regenerate(ctx, params)

	if c.activities != nil {
		_ = c.activities.Log(ctx, &activity.ActivityEntry{
			ActivityType: activity.TypeListGenerated,
			Summary:      fmt.Sprintf("Generated %d items for %d nights", len(view.Items), params.Nights),
			CreatedAt:    time.Now(),
		})
	}
	return view, nil
}

// Refresh regenerates the list from the current parameters.
func (c *Coordinator) Refresh(ctx context.Context) (View, error) {
	c.mu.RLock()
	generated, params := c.generated, c.params
	c.mu.RUnlock()
	if !generated {
		return View{}, ErrNoList
	}
	return c.regenerate(ctx, params), nil
}

// HandleCustomItemsChanged refreshes the list after the custom items changed.
// It is meant to be registered with the custom item registry.
func (c *Coordinator) HandleCustomItemsChanged(ctx context.Context) {
	if _, err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrNoList) {
		c.logger.Error("failed to refresh checklist", "error", err)
	}
}

func (c *Coordinator) regenerate(ctx context.Context, params trip.Parameters) View {
	custom := c.items.List()

	c.mu.Lock()
	c.params = params
	c.list = packing.Engine{Lookup: c.lookup, Locale: c.locale}.Generate(params, custom)
	c.completion = retain(c.completion, c.list)
	c.generated = true
	view := c.viewLocked()
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.renderer.Render(view, c.Toggle)
	c.saver.Schedule(snap)

	c.logger.DebugContext(ctx, "checklist regenerated", "items", len(view.Items), "nights", params.Nights)
	return view
}

// Toggle marks the item with key as packed or unpacked.
func (c *Coordinator) Toggle(ctx context.Context, key string, packed bool) error {
	c.mu.Lock()
	if !c.generated || !slices.ContainsFunc(c.list, func(item packing.Item) bool { return item.Key == key }) {
		c.mu.Unlock()
		return fmt.Errorf("toggling %q: %w", key, ErrItemNotFound)
	}
	if packed {
		c.completion[key] = true
	} else {
		delete(c.completion, key)
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.renderer.Mark(key, packed)
	c.saver.Schedule(snap)
	return nil
}

// Restore loads the persisted checklist, if any. It reports whether a saved
// checklist was found.
func (c *Coordinator) Restore(ctx context.Context) (bool, error) {
	snap, err := c.store.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("restoring checklist: %w", err)
	}
	if snap == nil {
		return false, nil
	}
	if err := c.Apply(ctx, snap.FormData, snap.CheckedItems); err != nil {
		return false, fmt.Errorf("restoring checklist: %w", err)
	}
	c.logger.InfoContext(ctx, "checklist restored", "saved_at", snap.Timestamp)
	return true, nil
}

// Apply replaces the live state with params and completion: the list is
// regenerated, and once the renderer reports its controls are ready the
// completion entries for keys still on the list are applied.
func (c *Coordinator) Apply(ctx context.Context, params trip.Parameters, completion map[string]bool) error {
	params = params.Clamped()
	if err := trip.Validate(trip.FormFromParameters(params)); err != nil {
		return err
	}
	custom := c.items.List()

	c.mu.Lock()
	prev := liveState{params: c.params, list: c.list, completion: c.completion, generated: c.generated}
	c.params = params
	c.list = packing.Engine{Lookup: c.lookup, Locale: c.locale}.Generate(params, custom)
	c.completion = map[string]bool{}
	c.generated = true
	view := c.viewLocked()
	c.mu.Unlock()

	ready := c.renderer.Render(view, c.Toggle)
	select {
	case <-ready:
	case <-ctx.Done():
		c.revert(prev)
		return ctx.Err()
	}

	c.mu.Lock()
	for _, item := range c.list {
		if completion[item.Key] {
			c.completion[item.Key] = true
		}
	}
	marked := maps.Clone(c.completion)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	for key := range marked {
		c.renderer.Mark(key, true)
	}
	c.saver.Schedule(snap)
	return nil
}

// liveState is the part of a Coordinator replaced by Apply.
type liveState struct {
	params     trip.Parameters
	list       []packing.Item
	completion map[string]bool
	generated  bool
}

// revert puts back the state Apply replaced, so the live list keeps matching
// the last scheduled snapshot.
func (c *Coordinator) revert(prev liveState) {
	c.mu.Lock()
	c.params = prev.params
	c.list = prev.list
	c.completion = prev.completion
	c.generated = prev.generated
	view := c.viewLocked()
	c.mu.Unlock()

	if prev.generated {
		c.renderer.Render(view, c.Toggle)
	}
}

// SetLocale switches the display language. Deduplication compares display
// text, so an existing list is regenerated.
func (c *Coordinator) SetLocale(ctx context.Context, locale string) error {
	c.mu.Lock()
	c.locale = locale
	c.mu.Unlock()
	if _, err := c.Refresh(ctx); err != nil && !errors.Is(err, ErrNoList) {
		return err
	}
	return nil
}

// Locale returns the active display language.
func (c *Coordinator) Locale() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locale
}

// View returns the current list.
func (c *Coordinator) View() (View, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.generated {
		return View{}, ErrNoList
	}
	return c.viewLocked(), nil
}

// Progress counts packed items overall and per category, in the order the
// categories first appear on the list.
func (c *Coordinator) Progress() Progress {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return countProgress(c.list, c.completion)
}

// Parameters returns the current trip parameters.
func (c *Coordinator) Parameters() trip.Parameters {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.params
}

// Completion returns a copy of the packed items, keyed by item key.
func (c *Coordinator) Completion() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.completion)
}

// Flush writes any pending snapshot immediately.
func (c *Coordinator) Flush(ctx context.Context) error {
	if err := c.saver.Flush(ctx); err != nil {
		c.recordSaveError(err)
		return fmt.Errorf("flushing checklist: %w", err)
	}
	return nil
}

// Close flushes the pending snapshot and stops further writes.
func (c *Coordinator) Close(ctx context.Context) error {
	err := c.Flush(ctx)
	c.saver.Stop()
	return err
}

// LastSaveError returns the error of the most recent snapshot write, or nil
// once a write succeeds again.
func (c *Coordinator) LastSaveError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.saveErr
}

func (c *Coordinator) save(ctx context.Context, snap snapshot.Snapshot) error {
	if err := c.store.Save(ctx, snap); err != nil {
		return err
	}
	c.mu.Lock()
	c.saveErr = nil
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) recordSaveError(err error) {
	c.logger.Error("failed to save checklist", "error", err)
	c.mu.Lock()
	c.saveErr = err
	c.mu.Unlock()
}

func (c *Coordinator) viewLocked() View {
	items := slices.Clone(c.list)
	return View{
		Locale:     c.locale,
		Parameters: c.params,
		Items:      items,
		Groups:     packing.GroupByCategory(items),
		Completion: maps.Clone(c.completion),
	}
}

func (c *Coordinator) snapshotLocked() snapshot.Snapshot {
	return snapshot.Snapshot{
		FormData:     c.params,
		Items:        slices.Clone(c.list),
		CheckedItems: maps.Clone(c.completion),
	}
}

// retain keeps the completion entries whose keys are on list.
func retain(completion map[string]bool, list []packing.Item) map[string]bool {
	out := make(map[string]bool, len(completion))
	for _, item := range list {
		if completion[item.Key] {
			out[item.Key] = true
		}
	}
	return out
}
