package news

import (
	"context"
	"strings"
)

// RawArticle is an article exactly as an upstream provider returned it.
// It is never persisted verbatim; the ingestion pipeline turns it into a
// stored article or discards it.
type RawArticle struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Content      string    `json:"content"`
	URL          string    `json:"url"`
	ImageURL     string    `json:"urlToImage"`
	PublishedAt  string    `json:"publishedAt"`
	Source       RawSource `json:"source"`
	Author       string    `json:"author"`
	Country      string    `json:"country,omitempty"`
	Category     string    `json:"category,omitempty"`
	OriginalJSON string    `json:"originalJson,omitempty"`
}

type RawSource struct {
	Name string `json:"name"`
}

// Body returns the article text, preferring full content over the
// description.
func (a RawArticle) Body() string {
	if a.Content != "" {
		return a.Content
	}
	return a.Description
}

// Request describes one fetch partition.
type Request struct {
	Country  string
	Category string
	Query    string
	Trending bool
	PageSize int
}

// CountryTag resolves the country label stored with articles fetched for
// this request. Trending requests get a -TRENDING suffix; query searches are
// not country-scoped and tag as GLOBAL.
func (r Request) CountryTag() string {
	if r.Trending {
		if r.Country != "" && r.Country != "GLOBAL" && r.Country != "GLOBAL-TRENDING" {
			return strings.ToUpper(r.Country) + "-TRENDING"
		}
		return "GLOBAL-TRENDING"
	}
	if r.Query != "" {
		return "GLOBAL"
	}
	if r.Country == "" {
		return "GLOBAL"
	}
	return strings.ToUpper(r.Country)
}

type Source interface {
	Fetch(ctx context.Context, req Request) ([]RawArticle, error)
	Name() string
}
