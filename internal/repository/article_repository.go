package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"newspulse/internal/model"
)

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func validateArticle(a *model.Article) error {
	switch {
	case a.Title == "":
		return fmt.Errorf("%w: title", ErrValidation)
	case a.OriginalContent == "":
		return fmt.Errorf("%w: original content", ErrValidation)
	case a.Summary == "":
		return fmt.Errorf("%w: summary", ErrValidation)
	case a.Country == "":
		return fmt.Errorf("%w: country", ErrValidation)
	case a.Category == "":
		return fmt.Errorf("%w: category", ErrValidation)
	case a.SourceAPI == "":
		return fmt.Errorf("%w: source api", ErrValidation)
	}
	return nil
}

// Create inserts a new article and fills in its id. A duplicate source URL
// yields ErrConflict via the partial unique index, which closes the dedup
// gate's check-then-act window.
func (r *ArticleRepository) Create(ctx context.Context, a *model.Article) error {
	if err := validateArticle(a); err != nil {
		return err
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO article(title, original_content, ai_enhanced_content, summary, country, category, source_url, source_api, original_json, created_at, author_id)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (source_url) WHERE source_url IS NOT NULL DO NOTHING
		RETURNING id
	`, a.Title, a.OriginalContent, nullString(a.AIEnhancedContent), a.Summary, a.Country, a.Category,
		nullString(a.SourceURL), a.SourceAPI, nullString(a.OriginalJSON), a.CreatedAt, nullInt64(a.AuthorID)).Scan(&a.ID)

	if err == sql.ErrNoRows {
		return ErrConflict
	}

	return err
}

const articleColumns = `id, title, original_content, ai_enhanced_content, summary, country, category, source_url, source_api, original_json, created_at, author_id`

func scanArticle(row *sql.Row) (*model.Article, error) {
	var a model.Article
	var enhanced, sourceURL, originalJSON sql.NullString
	var authorID sql.NullInt64

	err := row.Scan(&a.ID, &a.Title, &a.OriginalContent, &enhanced, &a.Summary, &a.Country,
		&a.Category, &sourceURL, &a.SourceAPI, &originalJSON, &a.CreatedAt, &authorID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	a.AIEnhancedContent = enhanced.String
	a.SourceURL = sourceURL.String
	a.OriginalJSON = originalJSON.String
	if authorID.Valid {
		a.AuthorID = &authorID.Int64
	}

	return &a, nil
}

func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	return scanArticle(r.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+` FROM article WHERE id = $1
	`, id))
}

// GetBySourceURL is the dedup lookup. Exact match only.
func (r *ArticleRepository) GetBySourceURL(ctx context.Context, url string) (*model.Article, error) {
	return scanArticle(r.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+` FROM article WHERE source_url = $1
	`, url))
}

// GetByTitle is the dedup fallback for feeds that omit URLs. Exact,
// case-sensitive match.
func (r *ArticleRepository) GetByTitle(ctx context.Context, title string) (*model.Article, error) {
	return scanArticle(r.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+` FROM article WHERE title = $1 LIMIT 1
	`, title))
}

const countryFilter = `($1 = '' OR
		($1 = 'GLOBAL' AND country IN ('GLOBAL', 'GLOBAL-TRENDING')) OR
		($1 <> 'GLOBAL' AND UPPER(country) = UPPER($1)))`

func (r *ArticleRepository) List(ctx context.Context, filter model.FilterQuery) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+articleColumns+`
		FROM article
		WHERE `+countryFilter+`
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, filter.Country, filter.PageSize, filter.Offset())

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		var a model.Article
		var enhanced, sourceURL, originalJSON sql.NullString
		var authorID sql.NullInt64

		err := rows.Scan(&a.ID, &a.Title, &a.OriginalContent, &enhanced, &a.Summary, &a.Country,
			&a.Category, &sourceURL, &a.SourceAPI, &originalJSON, &a.CreatedAt, &authorID)
		if err != nil {
			return nil, err
		}

		a.AIEnhancedContent = enhanced.String
		a.SourceURL = sourceURL.String
		a.OriginalJSON = originalJSON.String
		if authorID.Valid {
			a.AuthorID = &authorID.Int64
		}

		articles = append(articles, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return articles, nil
}

func (r *ArticleRepository) Count(ctx context.Context, filter model.FilterQuery) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM article WHERE `+countryFilter+`
	`, filter.Country).Scan(&total)
	return total, err
}

// Update applies the non-nil fields and returns the updated article.
func (r *ArticleRepository) Update(ctx context.Context, id int64, upd model.ArticleUpdate) (*model.Article, error) {
	return scanArticle(r.db.QueryRowContext(ctx, `
		UPDATE article
		SET ai_enhanced_content = COALESCE($2, ai_enhanced_content),
			summary = COALESCE($3, summary)
		WHERE id = $1
		RETURNING `+articleColumns+`
	`, id, upd.AIEnhancedContent, upd.Summary))
}

// Delete is idempotent: removing an absent id is not an error.
func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM article WHERE id = $1`, id)
	return err
}

func (r *ArticleRepository) SaveVariants(ctx context.Context, v *model.ArticleVariants) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO article_variant(article_id, social_post, short_form, news_channel, model_used)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (article_id) DO UPDATE
		SET social_post = EXCLUDED.social_post,
			short_form = EXCLUDED.short_form,
			news_channel = EXCLUDED.news_channel,
			model_used = EXCLUDED.model_used
		RETURNING created_at
	`, v.ArticleID, v.SocialPost, v.ShortForm, v.NewsChannel, v.ModelUsed).Scan(&v.CreatedAt)
}

func (r *ArticleRepository) GetVariants(ctx context.Context, articleID int64) (*model.ArticleVariants, error) {
	var v model.ArticleVariants
	err := r.db.QueryRowContext(ctx, `
		SELECT article_id, social_post, short_form, news_channel, model_used, created_at
		FROM article_variant WHERE article_id = $1
	`, articleID).Scan(&v.ArticleID, &v.SocialPost, &v.ShortForm, &v.NewsChannel, &v.ModelUsed, &v.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &v, nil
}

func (r *ArticleRepository) SaveSentiment(ctx context.Context, s *model.SentimentAnalysis) error {
	themes, err := json.Marshal(s.KeyThemes)
	if err != nil {
		return err
	}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO article_sentiment(article_id, sentiment, objectivity, key_themes, potential_bias, model_used)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (article_id) DO UPDATE
		SET sentiment = EXCLUDED.sentiment,
			objectivity = EXCLUDED.objectivity,
			key_themes = EXCLUDED.key_themes,
			potential_bias = EXCLUDED.potential_bias,
			model_used = EXCLUDED.model_used
		RETURNING created_at
	`, s.ArticleID, s.Sentiment, s.Objectivity, themes, s.PotentialBias, s.ModelUsed).Scan(&s.CreatedAt)
}

func (r *ArticleRepository) GetSentiment(ctx context.Context, articleID int64) (*model.SentimentAnalysis, error) {
	var s model.SentimentAnalysis
	var themesJSON []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT article_id, sentiment, objectivity, key_themes, potential_bias, model_used, created_at
		FROM article_sentiment WHERE article_id = $1
	`, articleID).Scan(&s.ArticleID, &s.Sentiment, &s.Objectivity, &themesJSON, &s.PotentialBias, &s.ModelUsed, &s.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(themesJSON, &s.KeyThemes); err != nil {
		return nil, err
	}

	return &s, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
