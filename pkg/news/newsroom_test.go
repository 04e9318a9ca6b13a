package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

func testNewsroomClient(server *httptest.Server) *NewsroomClient {
	return &NewsroomClient{
		apiKey:     "test-key",
		baseURL:    server.URL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestNewsroomFetchBareList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.Header.Get("api-key"))

		w.Write([]byte(`[
			{"title":"Wire Story","description":"desc","content":"body","url":"http://example.com/1","source":"Example Wire","country":"US","category":"politics"}
		]`))
	}))
	defer server.Close()

	articles, err := testNewsroomClient(server).Fetch(context.Background(), Request{})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
	assert.Equal(t, "Wire Story", articles[0].Title)
	assert.Equal(t, "Example Wire", articles[0].Source.Name)
	assert.Equal(t, "US", articles[0].Country)
	assert.Equal(t, "politics", articles[0].Category)
}

func TestNewsroomFetchWrappedList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"articles":[{"title":"Wrapped","content":"body","url":"http://example.com/w"}]}`))
	}))
	defer server.Close()

	articles, err := testNewsroomClient(server).Fetch(context.Background(), Request{})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))
	assert.Equal(t, "Wrapped", articles[0].Title)
}

func TestNewsroomFetchFillsDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"description":"only a description","url":"http://example.com/min"}]`))
	}))
	defer server.Close()

	articles, err := testNewsroomClient(server).Fetch(context.Background(), Request{})
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))

	a := articles[0]
	assert.Equal(t, "Untitled Article", a.Title)
	assert.Equal(t, "only a description", a.Content)
	assert.Equal(t, "Newsroom", a.Source.Name)
	assert.Equal(t, "Newsroom Staff", a.Author)
	assert.Equal(t, "general", a.Category)
	assert.Equal(t, "GLOBAL", a.Country)
}

func TestNewsroomFetchProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"maintenance window"}`))
	}))
	defer server.Close()

	_, err := testNewsroomClient(server).Fetch(context.Background(), Request{})
	if err == nil || !strings.Contains(err.Error(), "maintenance window") {
		t.Fatalf("got %v, want provider error", err)
	}
}

func TestNewsroomFetchStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusForbidden, "invalid api key"},
		{http.StatusTooManyRequests, "rate limit"},
		{http.StatusBadGateway, "status 502"},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		_, err := testNewsroomClient(server).Fetch(context.Background(), Request{})
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("status %d: got %v, want %q", tt.status, err, tt.want)
		}
		server.Close()
	}
}
