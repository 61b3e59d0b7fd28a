package news

import (
	"context"

	"github.com/pji114/jusik/internal/model"
)

// Fetcher returns recent headlines for a stock. An empty slice is a valid
// answer; errors are reserved for transport and upstream failures.
type Fetcher interface {
	FetchNews(ctx context.Context, stockName string) ([]model.NewsItem, error)
	Name() string
}
