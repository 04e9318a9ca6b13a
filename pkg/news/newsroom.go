package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const newsroomBaseURL = "https://newsroom.hum.tv/api/v1/"

// NewsroomClient talks to the Newsroom wire service. The API is POST-only,
// authenticates with an api-key header, and returns whatever was published
// in the last few hours; there are no request parameters. The provider rate
// limits to one request per minute per IP, which the fetch scheduler's rate
// floor respects.
type NewsroomClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewNewsroomClient(apiKey string) *NewsroomClient {
	return &NewsroomClient{
		apiKey:     apiKey,
		baseURL:    newsroomBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *NewsroomClient) Name() string {
	return "NewsroomAPI"
}

func (c *NewsroomClient) Fetch(ctx context.Context, req Request) ([]RawArticle, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("newsroom request: %w", err)
	}
	httpReq.Header.Set("api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("newsroom fetch: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden:
		return nil, fmt.Errorf("newsroom: invalid api key")
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("newsroom: rate limit exceeded")
	default:
		return nil, fmt.Errorf("newsroom status %d", resp.StatusCode)
	}

	// Responses arrive as a bare list or wrapped under "articles"/"data"
	// depending on provider mood; accept all three.
	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("newsroom decode: %w", err)
	}

	items, err := unwrapNewsroomItems(payload)
	if err != nil {
		return nil, err
	}

	articles := make([]RawArticle, 0, len(items))
	for _, item := range items {
		raw, _ := json.Marshal(item)

		a := RawArticle{
			Title:        item.Title,
			Description:  item.Description,
			Content:      item.Content,
			URL:          item.URL,
			ImageURL:     item.ImageURL,
			PublishedAt:  item.PublishedAt,
			Source:       RawSource{Name: item.Source},
			Author:       item.Author,
			Category:     item.Category,
			Country:      item.Country,
			OriginalJSON: string(raw),
		}

		if a.Title == "" {
			a.Title = "Untitled Article"
		}
		if a.Content == "" {
			a.Content = a.Description
		}
		if a.Source.Name == "" {
			a.Source.Name = "Newsroom"
		}
		if a.Author == "" {
			a.Author = "Newsroom Staff"
		}
		if a.Category == "" {
			a.Category = "general"
		}
		if a.Country == "" {
			a.Country = "GLOBAL"
		}

		articles = append(articles, a)
	}

	return articles, nil
}

func unwrapNewsroomItems(payload json.RawMessage) ([]newsroomItem, error) {
	var items []newsroomItem
	if err := json.Unmarshal(payload, &items); err == nil {
		return items, nil
	}

	var wrapped struct {
		Error    string         `json:"error"`
		Articles []newsroomItem `json:"articles"`
		Data     []newsroomItem `json:"data"`
	}
	if err := json.Unmarshal(payload, &wrapped); err != nil {
		return nil, fmt.Errorf("newsroom: unexpected response format: %w", err)
	}

	if wrapped.Error != "" {
		return nil, fmt.Errorf("newsroom: %s", wrapped.Error)
	}
	if wrapped.Articles != nil {
		return wrapped.Articles, nil
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}

	return nil, fmt.Errorf("newsroom: unexpected response format")
}

type newsroomItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
	PublishedAt string `json:"published_at"`
	Source      string `json:"source"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	Country     string `json:"country"`
}
