package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/pji114/jusik/internal/model"
	"github.com/pji114/jusik/pkg/llm"
	"github.com/pji114/jusik/pkg/market"
)

type fakeMovers struct {
	records map[model.Direction][]model.StockRecord
	err     error
}

func (f *fakeMovers) FetchMovers(ctx context.Context, direction model.Direction, count int) ([]model.StockRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	records := f.records[direction]
	if count < len(records) {
		records = records[:count]
	}
	return records, nil
}

type fakeNews struct {
	items []model.NewsItem
}

func (f *fakeNews) FetchNews(ctx context.Context, stockName string) []model.NewsItem {
	return f.items
}

func sampleRecord(name string, rank int, change string) model.StockRecord {
	return model.StockRecord{
		Name:          name,
		Price:         decimal.NewFromInt(12500),
		ChangePercent: decimal.RequireFromString(change),
		Volume:        1_500_000,
		Rank:          rank,
	}
}

func newStockRouter(movers MoverStore, news NewsStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	summarizer := llm.NewSummarizer(nil, time.Second, 3)
	h := NewStockHandler(movers, news, summarizer, 20, false)
	r.GET("/stocks/rising", h.GetRising)
	r.GET("/stocks/falling", h.GetFalling)
	r.GET("/stocks/:name/analysis", h.GetAnalysis)
	r.GET("/stocks/:name/news", h.GetNews)
	return r
}

func TestGetRising_ReturnsStocks(t *testing.T) {
	movers := &fakeMovers{records: map[model.Direction][]model.StockRecord{
		model.DirectionRising: {
			sampleRecord("Alpha", 1, "12.5"),
			sampleRecord("Beta", 2, "8.1"),
		},
	}}

	r := newStockRouter(movers, &fakeNews{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/rising?count=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res MoversResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "rising", res.Direction)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "Alpha", res.Stocks[0].Name)
}

func TestGetRising_CountCapped(t *testing.T) {
	movers := &fakeMovers{records: map[model.Direction][]model.StockRecord{
		model.DirectionRising: {
			sampleRecord("Alpha", 1, "12.5"),
			sampleRecord("Beta", 2, "8.1"),
			sampleRecord("Gamma", 3, "6.0"),
		},
	}}

	r := newStockRouter(movers, &fakeNews{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/rising?count=2", nil)
	r.ServeHTTP(w, req)

	var res MoversResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, res.Count)
}

func TestGetFalling_UpstreamDown(t *testing.T) {
	r := newStockRouter(&fakeMovers{err: market.ErrUpstream}, &fakeNews{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/falling", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetRising_QuietMarketIsEmptyList(t *testing.T) {
	r := newStockRouter(&fakeMovers{err: market.ErrEmpty}, &fakeNews{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/rising", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res MoversResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 0, res.Count)
	assert.NotEqual(t, nil, res.Stocks)
}

func TestGetRising_DefaultCountIsFive(t *testing.T) {
	var records []model.StockRecord
	for i := 1; i <= 8; i++ {
		records = append(records, sampleRecord(fmt.Sprintf("Stock%d", i), i, "6.0"))
	}
	movers := &fakeMovers{records: map[model.Direction][]model.StockRecord{
		model.DirectionRising: records,
	}}

	r := newStockRouter(movers, &fakeNews{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/rising", nil)
	r.ServeHTTP(w, req)

	var res MoversResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 5, res.Count)
}

func TestGetAnalysis_FoundOnFallingList(t *testing.T) {
	movers := &fakeMovers{records: map[model.Direction][]model.StockRecord{
		model.DirectionRising:  {sampleRecord("Alpha", 1, "12.5")},
		model.DirectionFalling: {sampleRecord("Omega", 1, "-15.0")},
	}}
	news := &fakeNews{items: []model.NewsItem{{Headline: "Omega drops on earnings miss", URL: "https://example.com/1"}}}

	r := newStockRouter(movers, news)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/Omega/analysis", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res AnalysisResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Omega", res.Record.Name)
	assert.Equal(t, false, res.Analysis.AIGenerated)
	assert.Equal(t, 1, len(res.News))
	assert.NotEqual(t, "", res.Analysis.Summary)
}

func TestGetAnalysis_UnknownStock(t *testing.T) {
	movers := &fakeMovers{records: map[model.Direction][]model.StockRecord{
		model.DirectionRising: {sampleRecord("Alpha", 1, "12.5")},
	}}

	r := newStockRouter(movers, &fakeNews{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/Nobody/analysis", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNews_ReturnsItems(t *testing.T) {
	news := &fakeNews{items: []model.NewsItem{
		{Headline: "First", URL: "https://example.com/a"},
		{Headline: "Second", URL: "https://example.com/b"},
	}}

	r := newStockRouter(&fakeMovers{}, news)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/stocks/Alpha/news", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res NewsResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Alpha", res.Stock)
	assert.Equal(t, 2, res.Count)
}
