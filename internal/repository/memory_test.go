package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"newspulse/internal/model"
)

func newArticle(title, url, country string) *model.Article {
	return &model.Article{
		Title:           title,
		OriginalContent: "content of " + title,
		Summary:         "summary of " + title,
		Country:         country,
		Category:        "General",
		SourceURL:       url,
		SourceAPI:       "NewsAPI",
	}
}

func TestMemoryStoreCreate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newArticle("First", "http://example.com/1", "US")
	err := store.Create(ctx, a)

	assert.Equal(t, nil, err)
	assert.NotEqual(t, int64(0), a.ID)
	assert.Equal(t, false, a.CreatedAt.IsZero())

	got, err := store.GetByID(ctx, a.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, "First", got.Title)
}

func TestMemoryStoreCreateValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newArticle("First", "http://example.com/1", "US")
	a.Summary = ""

	err := store.Create(ctx, a)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("got %v, want ErrValidation", err)
	}
}

func TestMemoryStoreCreateConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Create(ctx, newArticle("First", "http://example.com/1", "US"))
	assert.Equal(t, nil, err)

	err = store.Create(ctx, newArticle("Other title", "http://example.com/1", "US"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}

	// No source URL means no uniqueness constraint, even with equal titles.
	err = store.Create(ctx, newArticle("First", "", "US"))
	assert.Equal(t, nil, err)
}

func TestMemoryStoreGetBySourceURL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newArticle("First", "http://example.com/1", "US")
	store.Create(ctx, a)

	got, err := store.GetBySourceURL(ctx, "http://example.com/1")
	assert.Equal(t, nil, err)
	assert.Equal(t, a.ID, got.ID)

	_, err = store.GetBySourceURL(ctx, "http://example.com/other")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreGetByTitleIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	store.Create(ctx, newArticle("Exact Title", "", "US"))

	_, err := store.GetByTitle(ctx, "Exact Title")
	assert.Equal(t, nil, err)

	_, err = store.GetByTitle(ctx, "exact title")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreListGlobalUnion(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	global := newArticle("Global", "http://example.com/g", model.CountryGlobal)
	global.CreatedAt = base
	trending := newArticle("Trending", "http://example.com/t", model.GlobalTrending)
	trending.CreatedAt = base.Add(time.Minute)
	us := newArticle("US", "http://example.com/us", "US")
	us.CreatedAt = base.Add(2 * time.Minute)

	store.Create(ctx, global)
	store.Create(ctx, trending)
	store.Create(ctx, us)

	items, err := store.List(ctx, model.FilterQuery{Country: model.CountryGlobal, Page: 1, PageSize: 10})
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(items))

	// Newest first.
	assert.Equal(t, "Trending", items[0].Title)
	assert.Equal(t, "Global", items[1].Title)

	total, err := store.Count(ctx, model.FilterQuery{Country: model.CountryGlobal})
	assert.Equal(t, nil, err)
	assert.Equal(t, 2, total)
}

func TestMemoryStoreListPagination(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 65; i++ {
		a := newArticle(fmt.Sprintf("Article %d", i), fmt.Sprintf("http://example.com/%d", i), "US")
		a.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if err := store.Create(ctx, a); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page1, err := store.List(ctx, model.FilterQuery{Page: 1, PageSize: 30})
	assert.Equal(t, nil, err)
	assert.Equal(t, 30, len(page1))
	assert.Equal(t, "Article 64", page1[0].Title)

	page3, err := store.List(ctx, model.FilterQuery{Page: 3, PageSize: 30})
	assert.Equal(t, nil, err)
	assert.Equal(t, 5, len(page3))
	assert.Equal(t, "Article 0", page3[4].Title)

	empty, err := store.List(ctx, model.FilterQuery{Page: 4, PageSize: 30})
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(empty))
}

func TestMemoryStoreUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newArticle("First", "http://example.com/1", "US")
	store.Create(ctx, a)

	enhanced := "enhanced body"
	got, err := store.Update(ctx, a.ID, model.ArticleUpdate{AIEnhancedContent: &enhanced})
	assert.Equal(t, nil, err)
	assert.Equal(t, "enhanced body", got.AIEnhancedContent)
	assert.Equal(t, "First", got.Title)

	_, err = store.Update(ctx, 9999, model.ArticleUpdate{AIEnhancedContent: &enhanced})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newArticle("First", "http://example.com/1", "US")
	store.Create(ctx, a)

	assert.Equal(t, nil, store.Delete(ctx, a.ID))
	assert.Equal(t, nil, store.Delete(ctx, a.ID))

	_, err := store.GetByID(ctx, a.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreVariantsAndSentiment(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	a := newArticle("First", "http://example.com/1", "US")
	store.Create(ctx, a)

	_, err := store.GetVariants(ctx, a.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}

	v := &model.ArticleVariants{ArticleID: a.ID, SocialPost: "post", ShortForm: "short", NewsChannel: "script"}
	assert.Equal(t, nil, store.SaveVariants(ctx, v))

	got, err := store.GetVariants(ctx, a.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, "post", got.SocialPost)

	s := &model.SentimentAnalysis{ArticleID: a.ID, Sentiment: "neutral", Objectivity: 8, KeyThemes: []string{"economy"}}
	assert.Equal(t, nil, store.SaveSentiment(ctx, s))

	gotS, err := store.GetSentiment(ctx, a.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, "neutral", gotS.Sentiment)
	assert.Equal(t, 8, gotS.Objectivity)
}
