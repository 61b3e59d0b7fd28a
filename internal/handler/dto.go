package handler

import "github.com/pji114/jusik/internal/model"

type MoversResponse struct {
	Direction string              `json:"direction"`
	Stocks    []model.StockRecord `json:"stocks"`
	Count     int                 `json:"count"`
}

type NewsResponse struct {
	Stock string           `json:"stock"`
	Items []model.NewsItem `json:"items"`
	Count int              `json:"count"`
}

type AnalysisResponse struct {
	Record   model.StockRecord    `json:"record"`
	News     []model.NewsItem     `json:"news"`
	Analysis model.AnalysisResult `json:"analysis"`
}

type SaveReportRequest struct {
	Direction string `json:"direction" binding:"required"`
	Count     int    `json:"count"`
	UseAI     bool   `json:"use_ai"`
	Style     string `json:"style"`
}

type SaveReportResponse struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
	AIUsed  bool   `json:"ai_used"`
}

type MarketSummaryResponse struct {
	Rising      SideSummary `json:"rising"`
	Falling     SideSummary `json:"falling"`
	GeneratedAt string      `json:"generated_at"`
}

type SideSummary struct {
	Stocks           []model.StockRecord `json:"stocks"`
	TotalStocks      int                 `json:"total_stocks"`
	AverageChange    string              `json:"average_change"`
	MaxChange        string              `json:"max_change"`
	MinChange        string              `json:"min_change"`
	RiskDistribution RiskDistribution    `json:"risk_distribution"`
}

type RiskDistribution struct {
	HighRisk   int `json:"high_risk"`
	MediumRisk int `json:"medium_risk"`
	LowRisk    int `json:"low_risk"`
}

type HistoryResponse struct {
	Reports []model.ReportFile `json:"reports"`
	Count   int                `json:"count"`
}

type AddDocumentRequest struct {
	Text     string            `json:"text" binding:"required"`
	Metadata map[string]string `json:"metadata"`
}

type AddDocumentResponse struct {
	IDs    []string `json:"ids"`
	Chunks int      `json:"chunks"`
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}
