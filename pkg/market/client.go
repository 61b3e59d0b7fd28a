package market

import (
	"context"
	"errors"

	"github.com/pji114/jusik/internal/model"
)

var (
	// ErrUpstream means the finance site was unreachable or its page no
	// longer matches the expected structure.
	ErrUpstream = errors.New("market data source unavailable")

	// ErrEmpty means the page parsed fine but contained zero rows. Callers
	// decide whether that is an error or a quiet market.
	ErrEmpty = errors.New("no movers found")
)

type Fetcher interface {
	FetchMovers(ctx context.Context, direction model.Direction, count int) ([]model.StockRecord, error)
}
