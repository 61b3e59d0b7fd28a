package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/pji114/jusik/internal/model"
	"github.com/pji114/jusik/pkg/market"
	"github.com/pji114/jusik/pkg/report"
)

type ReportSource interface {
	Generate(ctx context.Context, direction model.Direction, count int, useAI bool) (*model.Report, error)
}

type HistoryStore interface {
	Save(file *model.ReportFile) error
	GetRecent(limit int) ([]model.ReportFile, error)
}

type ReportHandler struct {
	source    ReportSource
	renderer  *report.Renderer
	saver     *report.Saver
	history   HistoryStore
	maxCount  int
	defaultAI bool
}

func NewReportHandler(source ReportSource, renderer *report.Renderer, saver *report.Saver, history HistoryStore, maxCount int, defaultAI bool) *ReportHandler {
	return &ReportHandler{
		source:    source,
		renderer:  renderer,
		saver:     saver,
		history:   history,
		maxCount:  maxCount,
		defaultAI: defaultAI,
	}
}

func (h *ReportHandler) GetHTML(c *gin.Context) {
	h.renderReport(c, model.StyleStandard)
}

func (h *ReportHandler) GetBlog(c *gin.Context) {
	h.renderReport(c, model.StyleBlog)
}

func (h *ReportHandler) renderReport(c *gin.Context, style string) {
	direction, ok := getQueryDirection(c)
	if !ok {
		return
	}

	count := getQueryCount(c, h.maxCount)
	useAI := getQueryBool(c, "use_ai", h.defaultAI)
	saveFile := getQueryBool(c, "save_file", false)

	rep, err := h.source.Generate(c.Request.Context(), direction, count, useAI)
	if err != nil {
		slog.Error("error generating report", "direction", direction, "error", err)
		respondMarketError(c, err)
		return
	}

	html, err := h.renderer.Render(*rep, style)
	if err != nil {
		slog.Error("error rendering report", "style", style, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report rendering failed"})
		return
	}

	if saveFile {
		if _, err := h.saveRendered(html, rep, style); err != nil {
			slog.Error("error saving report", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Report could not be written"})
			return
		}
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (h *ReportHandler) SaveReport(c *gin.Context) {
	var req SaveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	direction := model.Direction(req.Direction)
	if !direction.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Direction must be rising or falling"})
		return
	}

	style := req.Style
	if style == "" {
		style = model.StyleStandard
	}
	if !report.ValidStyle(style) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown report style"})
		return
	}

	count := req.Count
	if count < 1 {
		count = 5
	}
	if count > h.maxCount {
		count = h.maxCount
	}

	rep, err := h.source.Generate(c.Request.Context(), direction, count, req.UseAI)
	if err != nil {
		slog.Error("error generating report", "direction", direction, "error", err)
		respondMarketError(c, err)
		return
	}

	html, err := h.renderer.Render(*rep, style)
	if err != nil {
		slog.Error("error rendering report", "style", style, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report rendering failed"})
		return
	}

	path, err := h.saveRendered(html, rep, style)
	if err != nil {
		slog.Error("error saving report", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Report could not be written"})
		return
	}

	c.JSON(http.StatusOK, SaveReportResponse{
		Path:    path,
		Entries: len(rep.Entries),
		AIUsed:  reportAIUsed(rep),
	})
}

func (h *ReportHandler) GetSummary(c *gin.Context) {
	count := getQueryCount(c, h.maxCount)
	ctx := c.Request.Context()

	rising, err := h.fetchSide(ctx, model.DirectionRising, count)
	if err != nil {
		slog.Error("error fetching rising summary", "error", err)
		respondMarketError(c, err)
		return
	}

	falling, err := h.fetchSide(ctx, model.DirectionFalling, count)
	if err != nil {
		slog.Error("error fetching falling summary", "error", err)
		respondMarketError(c, err)
		return
	}

	c.JSON(http.StatusOK, MarketSummaryResponse{
		Rising:      summarizeSide(rising),
		Falling:     summarizeSide(falling),
		GeneratedAt: time.Now().Format(time.RFC3339),
	})
}

var (
	highRiskThreshold   = decimal.NewFromInt(20)
	mediumRiskThreshold = decimal.NewFromInt(10)
)

// summarizeSide computes the aggregate statistics over one movers list.
// Risk buckets use the absolute change so the falling side classifies the
// same way as the rising side.
func summarizeSide(records []model.StockRecord) SideSummary {
	side := SideSummary{
		Stocks:        records,
		TotalStocks:   len(records),
		AverageChange: "0.00",
		MaxChange:     "0.00",
		MinChange:     "0.00",
	}
	if len(records) == 0 {
		side.Stocks = []model.StockRecord{}
		return side
	}

	sum := decimal.Zero
	max := records[0].ChangePercent
	min := records[0].ChangePercent
	for _, record := range records {
		change := record.ChangePercent
		sum = sum.Add(change)
		if change.GreaterThan(max) {
			max = change
		}
		if change.LessThan(min) {
			min = change
		}

		switch abs := change.Abs(); {
		case abs.GreaterThanOrEqual(highRiskThreshold):
			side.RiskDistribution.HighRisk++
		case abs.GreaterThanOrEqual(mediumRiskThreshold):
			side.RiskDistribution.MediumRisk++
		default:
			side.RiskDistribution.LowRisk++
		}
	}

	side.AverageChange = sum.Div(decimal.NewFromInt(int64(len(records)))).StringFixed(2)
	side.MaxChange = max.StringFixed(2)
	side.MinChange = min.StringFixed(2)
	return side
}

func (h *ReportHandler) GetHistory(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report history storage not configured"})
		return
	}

	limit := getQueryCount(c, 100)

	files, err := h.history.GetRecent(limit)
	if err != nil {
		slog.Error("error fetching report history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, HistoryResponse{Reports: files, Count: len(files)})
}

// fetchSide runs report generation without AI to collect the bare records
// for the summary view. A quiet side of the market is an empty list, not
// an error.
func (h *ReportHandler) fetchSide(ctx context.Context, direction model.Direction, count int) ([]model.StockRecord, error) {
	rep, err := h.source.Generate(ctx, direction, count, false)
	if err != nil {
		if errors.Is(err, market.ErrEmpty) {
			return []model.StockRecord{}, nil
		}
		return nil, err
	}

	records := make([]model.StockRecord, 0, len(rep.Entries))
	for _, entry := range rep.Entries {
		records = append(records, entry.Record)
	}
	return records, nil
}

func (h *ReportHandler) saveRendered(html string, rep *model.Report, style string) (string, error) {
	aiUsed := reportAIUsed(rep)

	path, err := h.saver.Save(html, rep.Direction, style, aiUsed)
	if err != nil {
		return "", err
	}

	if h.history != nil {
		file := &model.ReportFile{
			Direction:  string(rep.Direction),
			Style:      style,
			AIUsed:     aiUsed,
			StockCount: len(rep.Entries),
			Path:       path,
		}
		if err := h.history.Save(file); err != nil {
			slog.Warn("report saved but history record failed", "path", path, "error", err)
		}
	}

	return path, nil
}

func reportAIUsed(rep *model.Report) bool {
	for _, entry := range rep.Entries {
		if entry.Analysis.AIGenerated {
			return true
		}
	}
	return false
}

func getQueryDirection(c *gin.Context) (model.Direction, bool) {
	raw := c.DefaultQuery("direction", string(model.DirectionRising))

	direction := model.Direction(raw)
	if !direction.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Direction must be rising or falling"})
		return "", false
	}

	return direction, true
}
