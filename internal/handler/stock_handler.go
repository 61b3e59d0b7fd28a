package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pji114/jusik/internal/model"
	"github.com/pji114/jusik/pkg/llm"
	"github.com/pji114/jusik/pkg/market"
)

type MoverStore interface {
	FetchMovers(ctx context.Context, direction model.Direction, count int) ([]model.StockRecord, error)
}

type NewsStore interface {
	FetchNews(ctx context.Context, stockName string) []model.NewsItem
}

type StockHandler struct {
	movers     MoverStore
	news       NewsStore
	summarizer *llm.Summarizer
	maxCount   int
	defaultAI  bool
}

func NewStockHandler(movers MoverStore, news NewsStore, summarizer *llm.Summarizer, maxCount int, defaultAI bool) *StockHandler {
	return &StockHandler{movers: movers, news: news, summarizer: summarizer, maxCount: maxCount, defaultAI: defaultAI}
}

func (h *StockHandler) GetRising(c *gin.Context) {
	h.getMovers(c, model.DirectionRising)
}

func (h *StockHandler) GetFalling(c *gin.Context) {
	h.getMovers(c, model.DirectionFalling)
}

func (h *StockHandler) getMovers(c *gin.Context, direction model.Direction) {
	count := getQueryCount(c, h.maxCount)

	records, err := h.movers.FetchMovers(c.Request.Context(), direction, count)
	if err != nil && !errors.Is(err, market.ErrEmpty) {
		slog.Error("error fetching movers", "direction", direction, "error", err)
		respondMarketError(c, err)
		return
	}

	// A quiet market is an empty list, not an error, on the list routes.
	if records == nil {
		records = []model.StockRecord{}
	}

	c.JSON(http.StatusOK, MoversResponse{
		Direction: string(direction),
		Stocks:    records,
		Count:     len(records),
	})
}

// GetAnalysis analyzes one stock by name. The name must appear on today's
// movers lists; anything else is a 404 rather than an open proxy into the
// finance site.
func (h *StockHandler) GetAnalysis(c *gin.Context) {
	name := c.Param("name")
	useAI := getQueryBool(c, "use_ai", h.defaultAI)

	record, err := h.findMover(c.Request.Context(), name)
	if err != nil {
		slog.Error("error fetching movers for analysis", "stock", name, "error", err)
		respondMarketError(c, err)
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Stock not found on today's movers lists"})
		return
	}

	items := h.news.FetchNews(c.Request.Context(), record.Name)
	analysis := h.summarizer.Summarize(c.Request.Context(), *record, items, useAI)

	c.JSON(http.StatusOK, AnalysisResponse{
		Record:   *record,
		News:     items,
		Analysis: analysis,
	})
}

func (h *StockHandler) GetNews(c *gin.Context) {
	name := c.Param("name")

	items := h.news.FetchNews(c.Request.Context(), name)

	c.JSON(http.StatusOK, NewsResponse{
		Stock: name,
		Items: items,
		Count: len(items),
	})
}

func (h *StockHandler) findMover(ctx context.Context, name string) (*model.StockRecord, error) {
	for _, direction := range []model.Direction{model.DirectionRising, model.DirectionFalling} {
		records, err := h.movers.FetchMovers(ctx, direction, h.maxCount)
		if err != nil {
			if errors.Is(err, market.ErrEmpty) {
				continue
			}
			return nil, err
		}
		for i := range records {
			if records[i].Name == name {
				return &records[i], nil
			}
		}
	}
	return nil, nil
}

func respondMarketError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, market.ErrEmpty):
		c.JSON(http.StatusNotFound, gin.H{"error": "No movers available right now"})
	case errors.Is(err, market.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Market data source unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}

func getQueryCount(c *gin.Context, maxCount int) int {
	const defaultCount = 5

	raw := c.Query("count")
	if raw == "" {
		return defaultCount
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", "count", "value", raw, "error", err)
		return defaultCount
	}

	if count < 1 {
		slog.Warn("invalid query parameter, using default", "param", "count", "value", count, "default", defaultCount)
		return defaultCount
	}

	if count > maxCount {
		slog.Warn("query parameter exceeds max, clamping", "param", "count", "value", count, "max", maxCount)
		return maxCount
	}

	return count
}

func getQueryBool(c *gin.Context, name string, defaultValue bool) bool {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", raw, "error", err)
		return defaultValue
	}

	return value
}
