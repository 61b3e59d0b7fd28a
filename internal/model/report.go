package model

import "time"

// Report styles understood by the renderer.
const (
	StyleStandard = "standard"
	StyleBlog     = "blog"
)

type ReportEntry struct {
	Record   StockRecord    `json:"record"`
	News     []NewsItem     `json:"news"`
	Analysis AnalysisResult `json:"analysis"`
}

// Report preserves fetch order: Entries[i].Record.Rank is ascending and a
// failed AI summary keeps its slot with the fallback text.
type Report struct {
	Direction   Direction     `json:"direction"`
	Entries     []ReportEntry `json:"entries"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// ReportFile is the saved-report metadata kept in Postgres.
type ReportFile struct {
	ID         int64     `json:"id"`
	Direction  string    `json:"direction"`
	Style      string    `json:"style"`
	AIUsed     bool      `json:"ai_used"`
	StockCount int       `json:"stock_count"`
	Path       string    `json:"path"`
	CreatedAt  time.Time `json:"created_at"`
}
