package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction selects which movers list to scrape.
type Direction string

const (
	DirectionRising  Direction = "rising"
	DirectionFalling Direction = "falling"
)

func (d Direction) Valid() bool {
	return d == DirectionRising || d == DirectionFalling
}

// StockRecord is one row of the movers table, in scrape order.
// Records live for a single request and are never persisted.
type StockRecord struct {
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Volume        int64           `json:"volume"`
	Rank          int             `json:"rank"`
	Link          string          `json:"link"`
	FetchedAt     time.Time       `json:"fetched_at"`
}

type NewsItem struct {
	Headline  string `json:"headline"`
	URL       string `json:"url"`
	StockName string `json:"stock_name"`
}

// AnalysisResult is the summary produced for a single record. AIGenerated
// is false when the text came from the deterministic fallback path.
type AnalysisResult struct {
	StockName   string    `json:"stock_name"`
	Summary     string    `json:"summary"`
	RiskLevel   string    `json:"risk_level"`
	AIGenerated bool      `json:"ai_generated"`
	GeneratedAt time.Time `json:"generated_at"`
}
