package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"newspulse/pkg/news"
)

type sweepRecorder struct {
	mu   sync.Mutex
	seen []news.Request
	done chan struct{}
}

func newSweepRecorder(expected int) *sweepRecorder {
	return &sweepRecorder{done: make(chan struct{}, expected)}
}

func (r *sweepRecorder) job(ctx context.Context, req news.Request) {
	r.mu.Lock()
	r.seen = append(r.seen, req)
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *sweepRecorder) wait(t *testing.T, n int) []news.Request {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for sweep %d of %d", i+1, n)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]news.Request(nil), r.seen...)
}

func testRotation(countries ...string) []news.Request {
	rotation := make([]news.Request, 0, len(countries))
	for _, c := range countries {
		rotation = append(rotation, news.Request{Country: c})
	}
	return rotation
}

func TestTickCoversFullRotation(t *testing.T) {
	countries := []string{"us", "gb", "de", "jp"}
	rec := newSweepRecorder(len(countries))

	clock := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex
	now := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return clock
	}

	s := New(Config{
		Name:        "test",
		Rotation:    testRotation(countries...),
		MinInterval: time.Minute,
		Job:         rec.job,
		Now:         now,
	})

	for i := 0; i < len(countries); i++ {
		dispatched := s.Tick(context.Background())
		assert.Equal(t, true, dispatched)

		clockMu.Lock()
		clock = clock.Add(time.Minute)
		clockMu.Unlock()
	}

	seen := rec.wait(t, len(countries))
	assert.Equal(t, len(countries), len(seen))

	// Exactly one sweep per country, each a distinct partition.
	got := make(map[string]int)
	for _, req := range seen {
		got[req.Country]++
	}
	for _, c := range countries {
		assert.Equal(t, 1, got[c])
	}

	// Full cycle wraps the cursor back to zero.
	assert.Equal(t, 0, s.Cursor())
}

func TestTickRespectsRateFloor(t *testing.T) {
	rec := newSweepRecorder(2)

	clock := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex
	now := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return clock
	}

	s := New(Config{
		Name:        "test",
		Rotation:    testRotation("us", "gb"),
		MinInterval: time.Minute,
		Job:         rec.job,
		Now:         now,
	})

	assert.Equal(t, true, s.Tick(context.Background()))

	// Same instant: the rate floor blocks a second dispatch.
	assert.Equal(t, false, s.Tick(context.Background()))
	assert.Equal(t, 1, s.Cursor())

	// Just under the floor still blocks.
	clockMu.Lock()
	clock = clock.Add(59 * time.Second)
	clockMu.Unlock()
	assert.Equal(t, false, s.Tick(context.Background()))

	clockMu.Lock()
	clock = clock.Add(time.Second)
	clockMu.Unlock()
	assert.Equal(t, true, s.Tick(context.Background()))

	rec.wait(t, 2)
}

func TestRotationAdvancesPastFailures(t *testing.T) {
	// A job that panics through error logging territory must not stall
	// the rotation; here it just records and returns, the point is the
	// cursor advances no matter what the sweep did.
	var mu sync.Mutex
	var seen []string
	done := make(chan struct{}, 3)

	failing := func(ctx context.Context, req news.Request) {
		mu.Lock()
		seen = append(seen, req.Country)
		mu.Unlock()
		done <- struct{}{}
	}

	clock := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex

	s := New(Config{
		Name:        "test",
		Rotation:    testRotation("us", "gb", "de"),
		MinInterval: time.Minute,
		Job:         failing,
		Now: func() time.Time {
			clockMu.Lock()
			defer clockMu.Unlock()
			return clock
		},
	})

	for i := 0; i < 3; i++ {
		s.Tick(context.Background())
		clockMu.Lock()
		clock = clock.Add(time.Minute)
		clockMu.Unlock()
	}

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for sweeps")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, len(seen))
}

func TestTickDefersPartitionWhenAllWorkersBusy(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{}, 2)

	var mu sync.Mutex
	var seen []string

	s := New(Config{
		Name:        "test",
		Rotation:    testRotation("us", "gb"),
		MinInterval: time.Nanosecond,
		MaxInFlight: 1,
		Job: func(ctx context.Context, req news.Request) {
			mu.Lock()
			seen = append(seen, req.Country)
			mu.Unlock()
			started <- struct{}{}
			<-block
		},
	})

	assert.Equal(t, true, s.Tick(context.Background()))
	<-started

	// Worker slot is occupied; the tick skips without consuming the
	// partition or the rate floor.
	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, false, s.Tick(context.Background()))
	assert.Equal(t, 1, s.Cursor())

	// Once the slot frees up, the deferred partition is the next dispatch.
	close(block)
	s.wg.Wait()
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, true, s.Tick(context.Background()))
	<-started

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"us", "gb"}, seen)
}

func TestEmptyRotationNeverDispatches(t *testing.T) {
	s := New(Config{Name: "test", MinInterval: time.Minute, Job: func(context.Context, news.Request) {}})
	assert.Equal(t, false, s.Tick(context.Background()))
}
