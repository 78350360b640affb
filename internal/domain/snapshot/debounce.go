package snapshot

import (
	"context"
	"sync"
	"time"
)

// SaveFunc writes a snapshot.
type SaveFunc func(ctx context.Context, snap Snapshot) error

// Debouncer coalesces snapshot writes. Each Schedule call replaces the
// pending snapshot and restarts the quiet window, so only the last snapshot
// of a burst is written.
type Debouncer struct {
	delay   time.Duration
	save    SaveFunc
	onError func(error)

	mu      sync.Mutex
	timer   *time.Timer
	pending *Snapshot
	gen     uint64
	stopped bool

	// writeMu is taken while mu is still held, so writes happen in the order
	// their snapshots were taken.
	writeMu sync.Mutex
}

// NewDebouncer creates a Debouncer. onError receives failures of deferred
// writes and may be nil.
func NewDebouncer(delay time.Duration, save SaveFunc, onError func(error)) *Debouncer {
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Debouncer{delay: delay, save: save, onError: onError}
}

// Schedule makes snap the pending snapshot and restarts the quiet window.
func (d *Debouncer) Schedule(snap Snapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	d.pending = &snap
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Pending reports whether a write is waiting for its window to close.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Flush writes the pending snapshot now, if there is one.
func (d *Debouncer) Flush(ctx context.Context) error {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	snap := d.pending
	d.pending = nil
	d.gen++
	if snap == nil {
		d.mu.Unlock()
		return nil
	}
	d.writeMu.Lock()
	d.mu.Unlock()

	defer d.writeMu.Unlock()
	return d.save(ctx, *snap)
}

// Stop cancels the pending write. Later Schedule calls are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	snap := *d.pending
	d.pending = nil
	d.timer = nil
	d.writeMu.Lock()
	d.mu.Unlock()

	err := d.save(context.Background(), snap)
	d.writeMu.Unlock()
	if err != nil && d.onError != nil {
		d.onError(err)
	}
}
