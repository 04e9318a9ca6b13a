package model

import (
	"strings"
	"time"
)

const (
	// CountryGlobal tags articles that are not tied to a single country.
	CountryGlobal = "GLOBAL"

	// TrendingSuffix marks trending partitions, e.g. "US-TRENDING".
	TrendingSuffix = "-TRENDING"

	GlobalTrending = CountryGlobal + TrendingSuffix

	DefaultCategory = "General"
)

// Article is a persisted news item. AIEnhancedContent stays empty until the
// enhancement step succeeds; Summary is always non-empty.
type Article struct {
	ID                int64
	Title             string
	OriginalContent   string
	AIEnhancedContent string
	Summary           string
	Country           string
	Category          string
	SourceURL         string
	SourceAPI         string
	OriginalJSON      string
	CreatedAt         time.Time
	AuthorID          *int64
}

// Content returns the best available article body: the enhanced version
// when enhancement has landed, the original text otherwise.
func (a Article) Content() string {
	if a.AIEnhancedContent != "" {
		return a.AIEnhancedContent
	}
	return a.OriginalContent
}

// ArticleUpdate carries the mutable fields of an Article. Nil means leave
// unchanged.
type ArticleUpdate struct {
	AIEnhancedContent *string
	Summary           *string
}

// FilterQuery selects a page of articles, optionally narrowed to a country
// tag. Page is 1-based.
type FilterQuery struct {
	Country  string
	Page     int
	PageSize int
}

func (f FilterQuery) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// CountryMatches reports whether an article's country tag satisfies a filter
// value. "GLOBAL" is a union over GLOBAL and GLOBAL-TRENDING, not a prefix
// match; any other filter compares case-insensitively.
func CountryMatches(tag, filter string) bool {
	if filter == "" {
		return true
	}
	if filter == CountryGlobal {
		return tag == CountryGlobal || tag == GlobalTrending
	}
	return strings.EqualFold(tag, filter)
}

// ArticleVariants are platform-specific rewrites of a stored article.
// Absence is a valid state; generation is best effort.
type ArticleVariants struct {
	ArticleID   int64
	SocialPost  string
	ShortForm   string
	NewsChannel string
	ModelUsed   string
	CreatedAt   time.Time
}

// SentimentAnalysis is a best-effort media analysis of a stored article.
type SentimentAnalysis struct {
	ArticleID     int64
	Sentiment     string
	Objectivity   int
	KeyThemes     []string
	PotentialBias string
	ModelUsed     string
	CreatedAt     time.Time
}
