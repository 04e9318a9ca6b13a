package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"newspulse/internal/ingest"
	"newspulse/internal/model"
	"newspulse/internal/query"
	"newspulse/internal/repository"
	"newspulse/pkg/llm"
	"newspulse/pkg/news"
)

type ArticleStore interface {
	GetByID(ctx context.Context, id int64) (*model.Article, error)
	Count(ctx context.Context, filter model.FilterQuery) (int, error)
	SaveVariants(ctx context.Context, v *model.ArticleVariants) error
	GetVariants(ctx context.Context, articleID int64) (*model.ArticleVariants, error)
	SaveSentiment(ctx context.Context, s *model.SentimentAnalysis) error
	GetSentiment(ctx context.Context, articleID int64) (*model.SentimentAnalysis, error)
}

type Lister interface {
	List(ctx context.Context, filter model.FilterQuery) query.Page
}

type Ingester interface {
	Ingest(ctx context.Context, raws []news.RawArticle, category, country, sourceAPI string) ingest.Result
}

type ArticleHandler struct {
	store    ArticleStore
	queries  Lister
	pipeline Ingester
	enhancer llm.Enhancer
}

func NewArticleHandler(store ArticleStore, queries Lister, pipeline Ingester, enhancer llm.Enhancer) *ArticleHandler {
	return &ArticleHandler{store: store, queries: queries, pipeline: pipeline, enhancer: enhancer}
}

// GetArticles serves the paginated listing. Backend trouble degrades to an
// empty page with a degraded flag; this endpoint does not return 5xx for
// ordinary storage failures.
func (h *ArticleHandler) GetArticles(c *gin.Context) {
	filter := model.FilterQuery{
		Country:  c.Query("country"),
		Page:     getQueryInt("page", 1, c),
		PageSize: getQueryInt("pageSize", query.DefaultPageSize, c),
	}

	page := h.queries.List(c.Request.Context(), filter)

	c.JSON(http.StatusOK, ArticlesResponse{
		Articles: toArticleResponses(page.Items),
		Pagination: PaginationResponse{
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalCount: page.TotalCount,
			TotalPages: page.TotalPages,
		},
		Degraded: page.Degraded,
	})
}

func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := h.articleID(c)
	if !ok {
		return
	}

	article, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if err != nil {
		slog.Error("error fetching article", "error", err, "article_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toArticleResponse(*article))
}

// PostBatch ingests a batch pushed by an external fetch service. An empty
// articles array is a valid request and yields an empty created list.
func (h *ArticleHandler) PostBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sourceAPI := req.SourceAPI
	if sourceAPI == "" {
		sourceAPI = "unknown"
	}

	res := h.pipeline.Ingest(c.Request.Context(), req.Articles, "", "", sourceAPI)

	c.JSON(http.StatusCreated, BatchResponse{
		Articles:   toArticleResponses(res.Created),
		Saved:      res.Saved,
		Duplicated: res.Duplicated,
		Errors:     res.Errors,
	})
}

// PostVariants returns stored platform variants for an article, generating
// them on first request. Generation is best effort: failure yields a null
// variants payload, never an error status.
func (h *ArticleHandler) PostVariants(c *gin.Context) {
	id, ok := h.articleID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if v, err := h.store.GetVariants(ctx, id); err == nil {
		c.JSON(http.StatusOK, gin.H{"variants": VariantsResponse{
			SocialPost:  v.SocialPost,
			ShortForm:   v.ShortForm,
			NewsChannel: v.NewsChannel,
		}})
		return
	}

	article, err := h.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if err != nil {
		slog.Error("error fetching article", "error", err, "article_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if h.enhancer == nil {
		c.JSON(http.StatusOK, gin.H{"variants": nil})
		return
	}

	variants, err := h.enhancer.GenerateVariants(ctx, article.Title, article.Content())
	if err != nil {
		slog.Warn("variant generation failed", "error", err, "article_id", id)
		c.JSON(http.StatusOK, gin.H{"variants": nil})
		return
	}

	saved := model.ArticleVariants{
		ArticleID:   id,
		SocialPost:  variants.SocialPost,
		ShortForm:   variants.ShortForm,
		NewsChannel: variants.NewsChannel,
		ModelUsed:   variants.ModelUsed,
	}
	if err := h.store.SaveVariants(ctx, &saved); err != nil {
		slog.Error("error saving variants", "error", err, "article_id", id)
	}

	c.JSON(http.StatusOK, gin.H{"variants": VariantsResponse{
		SocialPost:  variants.SocialPost,
		ShortForm:   variants.ShortForm,
		NewsChannel: variants.NewsChannel,
	}})
}

// PostSentiment mirrors PostVariants for sentiment analysis.
func (h *ArticleHandler) PostSentiment(c *gin.Context) {
	id, ok := h.articleID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if s, err := h.store.GetSentiment(ctx, id); err == nil {
		c.JSON(http.StatusOK, gin.H{"sentiment": SentimentResponse{
			Sentiment:     s.Sentiment,
			Objectivity:   s.Objectivity,
			KeyThemes:     s.KeyThemes,
			PotentialBias: s.PotentialBias,
		}})
		return
	}

	article, err := h.store.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}
	if err != nil {
		slog.Error("error fetching article", "error", err, "article_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if h.enhancer == nil {
		c.JSON(http.StatusOK, gin.H{"sentiment": nil})
		return
	}

	analysis, err := h.enhancer.AnalyzeSentiment(ctx, article.Content())
	if err != nil {
		slog.Warn("sentiment analysis failed", "error", err, "article_id", id)
		c.JSON(http.StatusOK, gin.H{"sentiment": nil})
		return
	}

	saved := model.SentimentAnalysis{
		ArticleID:     id,
		Sentiment:     analysis.Sentiment,
		Objectivity:   analysis.Objectivity,
		KeyThemes:     analysis.KeyThemes,
		PotentialBias: analysis.PotentialBias,
		ModelUsed:     analysis.ModelUsed,
	}
	if err := h.store.SaveSentiment(ctx, &saved); err != nil {
		slog.Error("error saving sentiment", "error", err, "article_id", id)
	}

	c.JSON(http.StatusOK, gin.H{"sentiment": SentimentResponse{
		Sentiment:     analysis.Sentiment,
		Objectivity:   analysis.Objectivity,
		KeyThemes:     analysis.KeyThemes,
		PotentialBias: analysis.PotentialBias,
	}})
}

func (h *ArticleHandler) GetHealth(c *gin.Context) {
	_, err := h.store.Count(c.Request.Context(), model.FilterQuery{})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func (h *ArticleHandler) articleID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		slog.Error("invalid article id", "id", c.Param("id"), "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article id"})
		return 0, false
	}
	return id, true
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		slog.Warn("invalid query parameter, using default", "param", name, "value", raw)
		return defaultValue
	}

	return parsed
}
