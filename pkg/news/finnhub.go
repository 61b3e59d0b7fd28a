package news

import (
	"context"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/pji114/jusik/internal/model"
)

// FinnhubClient fetches company news by ticker. It serves names that look
// like exchange symbols; scraped Korean names go through NaverClient instead.
type FinnhubClient struct {
	client       *finnhub.DefaultApiService
	maxHeadlines int
}

func NewFinnhubClient(apiKey string, maxHeadlines int) *FinnhubClient {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &FinnhubClient{
		client:       finnhub.NewAPIClient(cfg).DefaultApi,
		maxHeadlines: maxHeadlines,
	}
}

func (c *FinnhubClient) Name() string {
	return "Finnhub"
}

func (c *FinnhubClient) FetchNews(ctx context.Context, stockName string) ([]model.NewsItem, error) {
	if !tickerLike(stockName) {
		return nil, nil
	}

	to := time.Now()
	from := to.AddDate(0, 0, -7)

	res, _, err := c.client.CompanyNews(ctx).
		Symbol(stockName).
		From(from.Format("2006-01-02")).
		To(to.Format("2006-01-02")).
		Execute()
	if err != nil {
		return nil, err
	}

	items := []model.NewsItem{}
	for _, n := range res {
		if len(items) >= c.maxHeadlines {
			break
		}
		if n.Headline == nil || *n.Headline == "" {
			continue
		}

		item := model.NewsItem{
			Headline:  *n.Headline,
			StockName: stockName,
		}
		if n.Url != nil {
			item.URL = *n.Url
		}
		items = append(items, item)
	}

	return items, nil
}

// tickerLike reports whether name resembles an exchange symbol such as
// AAPL or BRK.B. Scraped Korean company names fail this and skip the API
// call entirely.
func tickerLike(name string) bool {
	if len(name) < 1 || len(name) > 6 {
		return false
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if (ch < 'A' || ch > 'Z') && ch != '.' && ch != '-' {
			return false
		}
	}
	return true
}
