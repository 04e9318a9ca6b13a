package news

import "testing"

func TestCountryTag(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"country partition", Request{Country: "us"}, "US"},
		{"empty request", Request{}, "GLOBAL"},
		{"query search is not country-scoped", Request{Country: "us", Query: "technology"}, "GLOBAL"},
		{"global trending", Request{Trending: true}, "GLOBAL-TRENDING"},
		{"country trending", Request{Country: "gb", Trending: true}, "GB-TRENDING"},
		{"global country with trending", Request{Country: "GLOBAL", Trending: true}, "GLOBAL-TRENDING"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.CountryTag(); got != tt.want {
				t.Errorf("CountryTag() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRawArticleBody(t *testing.T) {
	a := RawArticle{Description: "desc", Content: "full content"}
	if got := a.Body(); got != "full content" {
		t.Errorf("got %q, want content", got)
	}

	a.Content = ""
	if got := a.Body(); got != "desc" {
		t.Errorf("got %q, want description", got)
	}
}
