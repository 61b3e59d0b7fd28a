package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
)

const searchPage = `<!DOCTYPE html>
<html><body>
<div class="list_news">
  <a class="news_tit" href="https://example.com/news/1" title="Hanbit Software hits daily limit on contract win">Hanbit Software hits daily limit...</a>
  <a class="news_tit" href="https://example.com/news/2" title="Hanbit Software Q2 earnings beat estimates">Hanbit Software Q2 earnings...</a>
  <a class="news_tit" href="https://example.com/news/3" title="Analysts split on Hanbit Software rally">Analysts split...</a>
  <a class="news_tit" href="https://example.com/news/4" title="Fourth headline beyond the cap">Fourth headline</a>
</div>
</body></html>`

func TestFetchNewsParsesHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "news", r.URL.Query().Get("where"))
		assert.Equal(t, "Hanbit Software", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	client := NewNaverClient(srv.URL, 3, 5*time.Second)
	items, err := client.FetchNews(context.Background(), "Hanbit Software")

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(items))
	assert.Equal(t, "Hanbit Software hits daily limit on contract win", items[0].Headline)
	assert.Equal(t, "https://example.com/news/1", items[0].URL)
	assert.Equal(t, "Hanbit Software", items[0].StockName)
}

func TestFetchNewsNoResultsIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>no results</p></body></html>`))
	}))
	defer srv.Close()

	client := NewNaverClient(srv.URL, 3, 5*time.Second)
	items, err := client.FetchNews(context.Background(), "Unknown Corp")

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(items))
}

func TestFetchNewsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewNaverClient(srv.URL, 3, 5*time.Second)
	_, err := client.FetchNews(context.Background(), "Hanbit Software")

	assert.NotEqual(t, nil, err)
}
