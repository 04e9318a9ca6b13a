package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"newspulse/internal/model"
)

// MemoryStore is an in-memory ArticleRepository equivalent, safe for
// concurrent use. It backs tests and API-less local runs; it enforces the
// same source-URL uniqueness the SQL store gets from its partial index.
type MemoryStore struct {
	mu        sync.RWMutex
	nextID    int64
	articles  map[int64]model.Article
	variants  map[int64]model.ArticleVariants
	sentiment map[int64]model.SentimentAnalysis
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		articles:  make(map[int64]model.Article),
		variants:  make(map[int64]model.ArticleVariants),
		sentiment: make(map[int64]model.SentimentAnalysis),
	}
}

func (s *MemoryStore) Create(ctx context.Context, a *model.Article) error {
	if err := validateArticle(a); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if a.SourceURL != "" {
		for _, existing := range s.articles {
			if existing.SourceURL == a.SourceURL {
				return ErrConflict
			}
		}
	}

	s.nextID++
	a.ID = s.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	s.articles[a.ID] = *a
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &a, nil
}

func (s *MemoryStore) GetBySourceURL(ctx context.Context, url string) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.SourceURL == url {
			a := a
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetByTitle(ctx context.Context, title string) (*model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.articles {
		if a.Title == title {
			a := a
			return &a, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) matching(filter model.FilterQuery) []model.Article {
	result := make([]model.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if model.CountryMatches(a.Country, filter.Country) {
			result = append(result, a)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})

	return result
}

func (s *MemoryStore) List(ctx context.Context, filter model.FilterQuery) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := s.matching(filter)

	offset := filter.Offset()
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if filter.PageSize > 0 && len(result) > filter.PageSize {
		result = result[:filter.PageSize]
	}
	return result, nil
}

func (s *MemoryStore) Count(ctx context.Context, filter model.FilterQuery) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.matching(filter)), nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, upd model.ArticleUpdate) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, fmt.Errorf("update article %d: %w", id, ErrNotFound)
	}

	if upd.AIEnhancedContent != nil {
		a.AIEnhancedContent = *upd.AIEnhancedContent
	}
	if upd.Summary != nil {
		a.Summary = *upd.Summary
	}

	s.articles[id] = a
	return &a, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.articles, id)
	delete(s.variants, id)
	delete(s.sentiment, id)
	return nil
}

func (s *MemoryStore) SaveVariants(ctx context.Context, v *model.ArticleVariants) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	s.variants[v.ArticleID] = *v
	return nil
}

func (s *MemoryStore) GetVariants(ctx context.Context, articleID int64) (*model.ArticleVariants, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.variants[articleID]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}

func (s *MemoryStore) SaveSentiment(ctx context.Context, sa *model.SentimentAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sa.CreatedAt.IsZero() {
		sa.CreatedAt = time.Now().UTC()
	}
	s.sentiment[sa.ArticleID] = *sa
	return nil
}

func (s *MemoryStore) GetSentiment(ctx context.Context, articleID int64) (*model.SentimentAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sa, ok := s.sentiment[articleID]
	if !ok {
		return nil, ErrNotFound
	}
	return &sa, nil
}
