package query

import (
	"context"
	"html"
	"log/slog"
	"time"

	"newspulse/internal/model"
)

const (
	DefaultPageSize = 30
	MaxPageSize     = 100

	// defaultTimeout is the per-sub-query latency ceiling. A slow store
	// degrades the response instead of hanging the caller.
	defaultTimeout = 3 * time.Second
)

type Store interface {
	List(ctx context.Context, filter model.FilterQuery) ([]model.Article, error)
	Count(ctx context.Context, filter model.FilterQuery) (int, error)
}

// Service is the serving-side read path: paginated, country-filtered
// listings with bounded latency. Backend failures and timeouts degrade to
// empty results; callers always get a well-formed page.
type Service struct {
	store   Store
	timeout time.Duration
}

func NewService(store Store) *Service {
	return &Service{store: store, timeout: defaultTimeout}
}

// Page is one listing response. Degraded marks pages where a sub-query
// timed out or failed and the result is incomplete by policy.
type Page struct {
	Items      []model.Article
	TotalCount int
	TotalPages int
	Page       int
	PageSize   int
	Degraded   bool
}

// List returns one page of articles, newest first. Each sub-query runs
// under its own deadline and its context is cancelled on expiry, so no
// abandoned query keeps running without a handle.
func (s *Service) List(ctx context.Context, filter model.FilterQuery) Page {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = DefaultPageSize
	}
	if filter.PageSize > MaxPageSize {
		filter.PageSize = MaxPageSize
	}

	page := Page{Page: filter.Page, PageSize: filter.PageSize}

	items, err := s.list(ctx, filter)
	if err != nil {
		slog.Warn("article query degraded to empty result", "error", err, "country", filter.Country)
		page.Degraded = true
		items = nil
	}

	for i := range items {
		items[i].Title = html.UnescapeString(items[i].Title)
		items[i].Summary = html.UnescapeString(items[i].Summary)
	}
	page.Items = items

	total, err := s.count(ctx, filter)
	if err != nil {
		slog.Warn("article count degraded", "error", err, "country", filter.Country)
		page.Degraded = true
		total = len(items)
	}

	page.TotalCount = total
	page.TotalPages = (total + filter.PageSize - 1) / filter.PageSize

	return page
}

func (s *Service) list(ctx context.Context, filter model.FilterQuery) ([]model.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		items []model.Article
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		items, err := s.store.List(ctx, filter)
		ch <- result{items, err}
	}()

	select {
	case r := <-ch:
		return r.items, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) count(ctx context.Context, filter model.FilterQuery) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type result struct {
		total int
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		total, err := s.store.Count(ctx, filter)
		ch <- result{total, err}
	}()

	select {
	case r := <-ch:
		return r.total, r.err
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
