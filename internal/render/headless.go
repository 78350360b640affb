// Package render holds the renderers for a checklist: a headless one that
// keeps the displayed state in memory, and a Markdown export for printing.
package render

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/rpggio/packlist/internal/domain/checklist"
)

// Headless is a checklist.Renderer without a display. It keeps the last
// rendered view and the marked items so callers can inspect or click them.
type Headless struct {
	attachDelay time.Duration

	mu      sync.Mutex
	view    checklist.View
	marked  map[string]bool
	toggle  checklist.ToggleFunc
	renders int
}

// NewHeadless creates a Headless renderer. With a positive attachDelay the
// item controls become ready that long after each Render call.
func NewHeadless(attachDelay time.Duration) *Headless {
	return &Headless{attachDelay: attachDelay, marked: map[string]bool{}}
}

// Render replaces the displayed view. Marks from a previous render are
// dropped, as the controls they belonged to are gone.
func (h *Headless) Render(view checklist.View, toggle checklist.ToggleFunc) <-chan struct{} {
	h.mu.Lock()
	h.view = view
	h.toggle = toggle
	h.marked = make(map[string]bool, len(view.Completion))
	for key, packed := range view.Completion {
		if packed {
			h.marked[key] = true
		}
	}
	h.renders++
	h.mu.Unlock()

	ready := make(chan struct{})
	if h.attachDelay <= 0 {
		close(ready)
		return ready
	}
	time.AfterFunc(h.attachDelay, func() { close(ready) })
	return ready
}

// Mark sets the displayed completion of one item.
func (h *Headless) Mark(key string, packed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if packed {
		h.marked[key] = true
	} else {
		delete(h.marked, key)
	}
}

// Click toggles an item the way a user would, through the callback given to
// the last Render.
func (h *Headless) Click(ctx context.Context, key string) error {
	h.mu.Lock()
	toggle := h.toggle
	packed := !h.marked[key]
	h.mu.Unlock()
	if toggle == nil {
		return checklist.ErrNoList
	}
	return toggle(ctx, key, packed)
}

// Displayed returns the last rendered view and the currently marked items.
func (h *Headless) Displayed() (checklist.View, map[string]bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view, maps.Clone(h.marked)
}

// Renders returns how many times Render was called.
func (h *Headless) Renders() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.renders
}
