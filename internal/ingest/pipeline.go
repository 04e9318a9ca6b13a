package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"newspulse/internal/model"
	"newspulse/internal/repository"
	"newspulse/pkg/llm"
	"newspulse/pkg/news"
)

// Store is the slice of the article repository the pipeline needs.
type Store interface {
	Create(ctx context.Context, a *model.Article) error
	Update(ctx context.Context, id int64, upd model.ArticleUpdate) (*model.Article, error)
	GetBySourceURL(ctx context.Context, url string) (*model.Article, error)
	GetByTitle(ctx context.Context, title string) (*model.Article, error)
}

// Queue receives ids of freshly stored articles for best-effort enrichment
// (variants, sentiment). Push failures never affect ingestion.
type Queue interface {
	Push(id int64) error
}

// Gate decides whether a raw article is already stored. Source URL is the
// identity when present; exact title match is the fallback for feeds that
// omit URLs. Two distinct articles sharing a title are conflated — a known
// limitation, kept deliberately conservative.
type Gate struct {
	store Store
}

func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

func (g *Gate) Exists(ctx context.Context, raw news.RawArticle) (bool, error) {
	if raw.URL != "" {
		_, err := g.store.GetBySourceURL(ctx, raw.URL)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return false, err
		}
	}

	_, err := g.store.GetByTitle(ctx, raw.Title)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	return false, err
}

type PipelineDeps struct {
	Store    Store
	Enhancer llm.Enhancer
	Queue    Queue
	AuthorID *int64
}

// Pipeline ingests raw articles one at a time: dedup, enhance, store.
// Item failures are contained; a batch never aborts part-way.
type Pipeline struct {
	store          Store
	gate           *Gate
	enhancer       llm.Enhancer
	queue          Queue
	authorID       *int64
	enhanceTimeout time.Duration
	storeTimeout   time.Duration
}

func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		store:          deps.Store,
		gate:           NewGate(deps.Store),
		enhancer:       deps.Enhancer,
		queue:          deps.Queue,
		authorID:       deps.AuthorID,
		enhanceTimeout: 45 * time.Second,
		storeTimeout:   10 * time.Second,
	}
}

// Result summarizes one ingestion run.
type Result struct {
	Created    []model.Article
	Saved      int
	Duplicated int
	Errors     int
}

// Ingest processes a batch fetched for one partition. Articles carrying
// their own country/category keep them; the partition values fill the gaps.
func (p *Pipeline) Ingest(ctx context.Context, raws []news.RawArticle, category, country, sourceAPI string) Result {
	var res Result

	for _, raw := range raws {
		if raw.Title == "" || raw.Body() == "" {
			continue
		}

		exists, err := p.gate.Exists(ctx, raw)
		if err != nil {
			slog.Error("dedup check failed", "error", err, "url", raw.URL, "title", raw.Title)
			res.Errors++
			continue
		}
		if exists {
			slog.Info("duplicate article skipped", "source", sourceAPI, "url", raw.URL)
			res.Duplicated++
			continue
		}

		article, err := p.storeOne(ctx, raw, category, country, sourceAPI)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				// A concurrent run won the insert race; same as a gate hit.
				slog.Info("duplicate article skipped", "source", sourceAPI, "url", raw.URL)
				res.Duplicated++
				continue
			}
			slog.Error("error saving article", "source", sourceAPI, "error", err, "title", raw.Title)
			res.Errors++
			continue
		}

		res.Saved++
		res.Created = append(res.Created, *article)

		if p.queue != nil {
			if err := p.queue.Push(article.ID); err != nil {
				slog.Error("error queueing article for enrichment", "error", err, "article_id", article.ID)
			}
		}
	}

	return res
}

func (p *Pipeline) storeOne(ctx context.Context, raw news.RawArticle, category, country, sourceAPI string) (*model.Article, error) {
	itemCountry := strings.ToUpper(raw.Country)
	if itemCountry == "" {
		itemCountry = strings.ToUpper(country)
	}
	if itemCountry == "" {
		itemCountry = model.CountryGlobal
	}
	itemCategory := raw.Category
	if itemCategory == "" {
		itemCategory = category
	}
	if itemCategory == "" {
		itemCategory = model.DefaultCategory
	}

	originalJSON := raw.OriginalJSON
	if originalJSON == "" {
		if data, err := json.Marshal(raw); err == nil {
			originalJSON = string(data)
		}
	}

	article := model.Article{
		OriginalContent: raw.Body(),
		Country:         itemCountry,
		Category:        itemCategory,
		SourceURL:       raw.URL,
		SourceAPI:       sourceAPI,
		OriginalJSON:    originalJSON,
		AuthorID:        p.authorID,
	}

	enhanced, err := p.enhance(ctx, raw, itemCategory, itemCountry)
	if err != nil {
		// Degrade to unenhanced storage. This path never fails the item
		// for enhancement reasons; only a store error drops it.
		slog.Warn("enhancement failed, storing raw article", "error", err, "title", raw.Title)

		article.Title = raw.Title
		article.Summary = raw.Description
		if article.Summary == "" {
			article.Summary = "No summary available"
		}
		article.AIEnhancedContent = CleanContent(raw.Body())

		if err := p.createWithTimeout(ctx, &article); err != nil {
			return nil, err
		}
		return &article, nil
	}

	article.Title = enhanced.EnhancedTitle
	article.Summary = enhanced.Summary

	if err := p.createWithTimeout(ctx, &article); err != nil {
		return nil, err
	}

	updated, err := p.update(ctx, article.ID, enhanced.ArticleContent)
	if err != nil {
		// Article is stored and servable; the enhanced body just didn't
		// land. Report the article as created.
		slog.Error("error attaching enhanced content", "error", err, "article_id", article.ID)
		return &article, nil
	}

	return updated, nil
}

func (p *Pipeline) enhance(ctx context.Context, raw news.RawArticle, category, country string) (*llm.EnhanceResult, error) {
	if p.enhancer == nil {
		return nil, errors.New("no enhancer configured")
	}

	ctx, cancel := context.WithTimeout(ctx, p.enhanceTimeout)
	defer cancel()

	return p.enhancer.GenerateArticleContent(ctx, llm.EnhanceInput{
		Title:    raw.Title,
		Content:  raw.Body(),
		Source:   raw.Source.Name,
		Category: category,
		Country:  country,
	})
}

func (p *Pipeline) createWithTimeout(ctx context.Context, a *model.Article) error {
	ctx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()
	return p.store.Create(ctx, a)
}

func (p *Pipeline) update(ctx context.Context, id int64, enhancedContent string) (*model.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, p.storeTimeout)
	defer cancel()
	return p.store.Update(ctx, id, model.ArticleUpdate{AIEnhancedContent: &enhancedContent})
}

// NewsAPI truncates content and appends a marker like "[+1234 chars]".
var truncationMarker = regexp.MustCompile(`\s*\[\+\d+ chars\]\s*$`)

// CleanContent strips provider truncation markers from raw article text.
func CleanContent(content string) string {
	return strings.TrimSpace(truncationMarker.ReplaceAllString(content, ""))
}
