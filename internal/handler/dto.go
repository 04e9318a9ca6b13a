package handler

import (
	"time"

	"newspulse/internal/model"
	"newspulse/pkg/news"
)

type ArticleResponse struct {
	ID                int64  `json:"id"`
	Title             string `json:"title"`
	Summary           string `json:"summary"`
	OriginalContent   string `json:"originalContent"`
	AIEnhancedContent string `json:"aiEnhancedContent,omitempty"`
	Country           string `json:"country"`
	Category          string `json:"category"`
	SourceURL         string `json:"sourceUrl,omitempty"`
	SourceAPI         string `json:"sourceApi"`
	CreatedAt         string `json:"createdAt"`
}

type PaginationResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
}

type ArticlesResponse struct {
	Articles   []ArticleResponse  `json:"articles"`
	Pagination PaginationResponse `json:"pagination"`
	Degraded   bool               `json:"degraded,omitempty"`
}

type BatchRequest struct {
	SourceAPI string            `json:"sourceApi"`
	Articles  []news.RawArticle `json:"articles"`
}

type BatchResponse struct {
	Articles   []ArticleResponse `json:"articles"`
	Saved      int               `json:"saved"`
	Duplicated int               `json:"duplicated"`
	Errors     int               `json:"errors"`
}

type VariantsResponse struct {
	SocialPost  string `json:"socialPost"`
	ShortForm   string `json:"shortForm"`
	NewsChannel string `json:"newsChannel"`
}

type SentimentResponse struct {
	Sentiment     string   `json:"sentiment"`
	Objectivity   int      `json:"objectivity"`
	KeyThemes     []string `json:"keyThemes"`
	PotentialBias string   `json:"potentialBias"`
}

func toArticleResponse(a model.Article) ArticleResponse {
	return ArticleResponse{
		ID:                a.ID,
		Title:             a.Title,
		Summary:           a.Summary,
		OriginalContent:   a.OriginalContent,
		AIEnhancedContent: a.AIEnhancedContent,
		Country:           a.Country,
		Category:          a.Category,
		SourceURL:         a.SourceURL,
		SourceAPI:         a.SourceAPI,
		CreatedAt:         a.CreatedAt.Format(time.RFC3339),
	}
}

func toArticleResponses(articles []model.Article) []ArticleResponse {
	res := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		res = append(res, toArticleResponse(a))
	}
	return res
}
