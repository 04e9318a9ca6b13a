package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"newspulse/pkg/news"
)

// Job runs one fetch-and-ingest sweep for a partition. It must contain its
// own errors; the scheduler only provides pacing.
type Job func(ctx context.Context, req news.Request)

type Config struct {
	// Name identifies the upstream source in logs.
	Name string

	// Rotation is the fixed partition list; each tick dispatches exactly
	// one entry and advances the cursor, so full coverage takes
	// len(Rotation) ticks.
	Rotation []news.Request

	// MinInterval is the rate floor per source: at most one dispatch per
	// interval regardless of how often Tick fires.
	MinInterval time.Duration

	// MaxInFlight bounds concurrent sweeps. 0 means 4.
	MaxInFlight int

	Job Job

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Scheduler drives periodic rate-limited ingestion sweeps over a rotating
// partition list. One Scheduler per upstream source; each owns its cursor
// and last-dispatch timestamp. The cursor advances on every dispatch whether
// or not the fetch succeeds — failures never stall the rotation.
type Scheduler struct {
	name        string
	rotation    []news.Request
	minInterval time.Duration
	job         Job
	now         func() time.Time

	mu          sync.Mutex
	lastFetchAt time.Time
	cursor      int

	slots chan struct{}
	wg    sync.WaitGroup
}

func New(cfg Config) *Scheduler {
	maxInFlight := cfg.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = 4
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Scheduler{
		name:        cfg.Name,
		rotation:    cfg.Rotation,
		minInterval: cfg.MinInterval,
		job:         cfg.Job,
		now:         now,
		slots:       make(chan struct{}, maxInFlight),
	}
}

// Start runs the tick loop until ctx is cancelled, then waits for in-flight
// sweeps to drain.
func (s *Scheduler) Start(ctx context.Context) {
	s.Tick(ctx)

	ticker := time.NewTicker(s.minInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick dispatches the partition at the cursor if the rate floor allows.
// It reports whether a dispatch happened. Sweeps run asynchronously and are
// not awaited; a sweep still in flight at the next tick overlaps with the
// new one, bounded by the slot count. When every slot is busy nothing is
// consumed: the cursor and rate floor stay put, so the partition retries on
// the next tick instead of waiting out a full rotation.
func (s *Scheduler) Tick(ctx context.Context) bool {
	if len(s.rotation) == 0 {
		return false
	}

	s.mu.Lock()
	now := s.now()
	if !s.lastFetchAt.IsZero() && now.Sub(s.lastFetchAt) < s.minInterval {
		s.mu.Unlock()
		return false
	}

	select {
	case s.slots <- struct{}{}:
	default:
		country := s.rotation[s.cursor].Country
		s.mu.Unlock()
		slog.Warn("all sweep workers busy, deferring partition", "source", s.name, "country", country)
		return false
	}

	req := s.rotation[s.cursor]
	s.cursor = (s.cursor + 1) % len(s.rotation)
	s.lastFetchAt = now
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() { <-s.slots }()
		s.job(ctx, req)
	}()

	return true
}

// Cursor returns the current rotation position. Test hook.
func (s *Scheduler) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}
