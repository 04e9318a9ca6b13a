package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

type NewsAPIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewNewsAPIClient(apiKey string) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:     apiKey,
		baseURL:    newsAPIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *NewsAPIClient) Name() string {
	return "NewsAPI"
}

// Fetch pulls one partition of headlines. Trending uses top-headlines with
// the general category; a query search uses /everything sorted by
// popularity; otherwise top-headlines scoped to the requested country, with
// a country-name search fallback when that yields nothing.
func (c *NewsAPIClient) Fetch(ctx context.Context, req Request) ([]RawArticle, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	endpoint := "/top-headlines"
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))

	switch {
	case req.Trending:
		params.Set("language", "en")
		params.Set("category", "general")
		if req.Country != "" && req.Country != "GLOBAL" && req.Country != "GLOBAL-TRENDING" {
			params.Set("country", req.Country)
		}
	case req.Query != "":
		endpoint = "/everything"
		params.Set("q", req.Query)
		params.Set("sortBy", "popularity")
		params.Set("language", "en")
	default:
		params.Set("country", req.Country)
		if req.Category != "" {
			params.Set("category", req.Category)
		}
	}

	articles, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	// Top-headlines covers a limited country set; fall back to searching
	// by country name so sparse partitions still produce articles.
	if len(articles) == 0 && endpoint == "/top-headlines" && !req.Trending && req.Country != "" && req.Country != "us" {
		fallback := url.Values{}
		fallback.Set("q", countryName(req.Country))
		fallback.Set("pageSize", strconv.Itoa(pageSize))
		fallback.Set("sortBy", "popularity")
		fallback.Set("language", "en")

		articles, err = c.get(ctx, "/everything", fallback)
		if err != nil {
			return nil, err
		}
	}

	for i := range articles {
		raw, _ := json.Marshal(articles[i])
		articles[i].OriginalJSON = string(raw)
	}

	return articles, nil
}

func (c *NewsAPIClient) get(ctx context.Context, endpoint string, params url.Values) ([]RawArticle, error) {
	params.Set("apiKey", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("newsapi fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if raw.Message != "" {
			return nil, fmt.Errorf("newsapi status %d: %s", resp.StatusCode, raw.Message)
		}
		return nil, fmt.Errorf("newsapi status %d", resp.StatusCode)
	}

	return raw.Articles, nil
}

type newsAPIResponse struct {
	Status   string       `json:"status"`
	Message  string       `json:"message"`
	Articles []RawArticle `json:"articles"`
}

var countryNames = map[string]string{
	"ar": "Argentina", "au": "Australia", "at": "Austria", "be": "Belgium",
	"br": "Brazil", "bg": "Bulgaria", "ca": "Canada", "cn": "China",
	"co": "Colombia", "cu": "Cuba", "cz": "Czech Republic", "eg": "Egypt",
	"fr": "France", "de": "Germany", "gr": "Greece", "hk": "Hong Kong",
	"hu": "Hungary", "in": "India", "id": "Indonesia", "ie": "Ireland",
	"il": "Israel", "it": "Italy", "jp": "Japan", "lv": "Latvia",
	"lt": "Lithuania", "my": "Malaysia", "mx": "Mexico", "ma": "Morocco",
	"nl": "Netherlands", "nz": "New Zealand", "ng": "Nigeria", "no": "Norway",
	"ph": "Philippines", "pl": "Poland", "pt": "Portugal", "ro": "Romania",
	"ru": "Russia", "sa": "Saudi Arabia", "rs": "Serbia", "sg": "Singapore",
	"sk": "Slovakia", "si": "Slovenia", "za": "South Africa", "kr": "South Korea",
	"se": "Sweden", "ch": "Switzerland", "tw": "Taiwan", "th": "Thailand",
	"tr": "Turkey", "ae": "UAE", "ua": "Ukraine", "gb": "United Kingdom",
	"us": "United States", "ve": "Venezuela",
}

func countryName(code string) string {
	if name, ok := countryNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}
