package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/pji114/jusik/internal/model"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// NaverClient scrapes the Naver news search results for a stock name.
type NaverClient struct {
	searchURL    string
	maxHeadlines int
	httpClient   *http.Client
}

func NewNaverClient(searchURL string, maxHeadlines int, timeout time.Duration) *NaverClient {
	return &NaverClient{
		searchURL:    searchURL,
		maxHeadlines: maxHeadlines,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

func (c *NaverClient) Name() string {
	return "NaverSearch"
}

func (c *NaverClient) FetchNews(ctx context.Context, stockName string) ([]model.NewsItem, error) {
	u := fmt.Sprintf("%s?where=news&query=%s", c.searchURL, url.QueryEscape(stockName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("naver news request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naver news fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver news fetch: status %d", resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("naver news charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("naver news parse: %w", err)
	}

	items := []model.NewsItem{}
	doc.Find("a.news_tit").Each(func(_ int, sel *goquery.Selection) {
		if len(items) >= c.maxHeadlines {
			return
		}

		headline := strings.TrimSpace(sel.AttrOr("title", ""))
		if headline == "" {
			headline = strings.TrimSpace(sel.Text())
		}
		if headline == "" {
			return
		}

		items = append(items, model.NewsItem{
			Headline:  headline,
			URL:       sel.AttrOr("href", ""),
			StockName: stockName,
		})
	})

	return items, nil
}
