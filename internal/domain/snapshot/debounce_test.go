package snapshot_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/packlist/internal/domain/snapshot"
)

type recordingSaver struct {
	mu     sync.Mutex
	writes []int
	err    error
}

func (r *recordingSaver) save(_ context.Context, snap snapshot.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, snap.FormData.Nights)
	return r.err
}

func (r *recordingSaver) written() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.writes...)
}

func withNights(n int) snapshot.Snapshot {
	snap := sampleSnapshot()
	snap.FormData.Nights = n
	return snap
}

func TestDebouncer_CoalescesBurstIntoLastWrite(t *testing.T) {
	saver := &recordingSaver{}
	d := snapshot.NewDebouncer(100*time.Millisecond, saver.save, nil)
	defer d.Stop()

	for n := 1; n <= 5; n++ {
		d.Schedule(withNights(n))
		time.Sleep(5 * time.Millisecond)
	}
	require.True(t, d.Pending())

	require.Eventually(t, func() bool { return len(saver.written()) == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []int{5}, saver.written())
	require.False(t, d.Pending())

	// Nothing else fires once the window has closed.
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, []int{5}, saver.written())
}

func TestDebouncer_ScheduleRestartsWindow(t *testing.T) {
	saver := &recordingSaver{}
	d := snapshot.NewDebouncer(150*time.Millisecond, saver.save, nil)
	defer d.Stop()

	d.Schedule(withNights(1))
	time.Sleep(100 * time.Millisecond)
	d.Schedule(withNights(2))
	time.Sleep(100 * time.Millisecond)
	require.Empty(t, saver.written())

	require.Eventually(t, func() bool { return len(saver.written()) == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []int{2}, saver.written())
}

func TestDebouncer_FlushWritesPendingImmediately(t *testing.T) {
	saver := &recordingSaver{}
	d := snapshot.NewDebouncer(time.Hour, saver.save, nil)
	defer d.Stop()

	require.NoError(t, d.Flush(context.Background()))
	require.Empty(t, saver.written())

	d.Schedule(withNights(7))
	require.NoError(t, d.Flush(context.Background()))
	require.Equal(t, []int{7}, saver.written())
	require.False(t, d.Pending())

	require.NoError(t, d.Flush(context.Background()))
	require.Equal(t, []int{7}, saver.written())
}

func TestDebouncer_FlushReturnsWriteError(t *testing.T) {
	boom := errors.New("quota")
	saver := &recordingSaver{err: boom}
	d := snapshot.NewDebouncer(time.Hour, saver.save, nil)
	defer d.Stop()

	d.Schedule(withNights(1))
	require.ErrorIs(t, d.Flush(context.Background()), boom)
}

func TestDebouncer_ReportsDeferredWriteErrors(t *testing.T) {
	boom := errors.New("quota")
	saver := &recordingSaver{err: boom}

	errs := make(chan error, 1)
	d := snapshot.NewDebouncer(10*time.Millisecond, saver.save, func(err error) { errs <- err })
	defer d.Stop()

	d.Schedule(withNights(1))
	select {
	case err := <-errs:
		require.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("deferred write error was not reported")
	}
}

func TestDebouncer_StopCancelsPendingWrite(t *testing.T) {
	saver := &recordingSaver{}
	d := snapshot.NewDebouncer(10*time.Millisecond, saver.save, nil)

	d.Schedule(withNights(1))
	d.Stop()
	d.Schedule(withNights(2))

	time.Sleep(50 * time.Millisecond)
	require.Empty(t, saver.written())
	require.NoError(t, d.Flush(context.Background()))
	require.Empty(t, saver.written())
}

func TestDebouncer_WithStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewStore(newKV(t, 0), nil, nil)
	d := snapshot.NewDebouncer(10*time.Millisecond, store.Save, nil)
	defer d.Stop()

	d.Schedule(withNights(2))
	d.Schedule(withNights(9))

	require.Eventually(t, func() bool {
		loaded, err := store.Load(ctx)
		return err == nil && loaded != nil && loaded.FormData.Nights == 9
	}, time.Second, 5*time.Millisecond)
}
