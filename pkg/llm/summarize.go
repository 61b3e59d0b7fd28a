package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pji114/jusik/internal/model"
	"github.com/pji114/jusik/pkg/analyze"
)

const systemPrompt = `You are a financial analyst covering the Korean stock market. You write concise, objective stock commentary in Markdown for a general audience.

Rules:
1. Structure the answer with these sections: cause of the move, volume characteristics, risk assessment, outlook, investor notes
2. Stay factual; no urgency words, no buy/sell commands
3. Mention concrete numbers from the input where relevant
4. Output plain Markdown only, no HTML tags and no code fences`

// Summarizer produces an AnalysisResult for a record. When the AI path is
// requested and fails for any reason it degrades to the deterministic
// fallback rather than returning an error; batch report generation relies
// on that to survive partial AI outages.
type Summarizer struct {
	provider     Provider
	timeout      time.Duration
	maxHeadlines int
}

func NewSummarizer(provider Provider, timeout time.Duration, maxHeadlines int) *Summarizer {
	return &Summarizer{provider: provider, timeout: timeout, maxHeadlines: maxHeadlines}
}

func (s *Summarizer) Summarize(ctx context.Context, record model.StockRecord, news []model.NewsItem, useAI bool) model.AnalysisResult {
	assessment := analyze.Assess(record)

	result := model.AnalysisResult{
		StockName:   record.Name,
		RiskLevel:   assessment.RiskLevel,
		GeneratedAt: time.Now(),
	}

	if !useAI || s.provider == nil {
		result.Summary = analyze.FallbackSummary(record, news)
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	summary, err := s.provider.Complete(ctx, systemPrompt, s.buildPrompt(record, news))
	if err != nil || strings.TrimSpace(summary) == "" {
		slog.Warn("AI analysis failed, using fallback", "stock", record.Name, "error", err)
		result.Summary = analyze.FallbackSummary(record, news)
		return result
	}

	result.Summary = summary
	result.AIGenerated = true
	return result
}

func (s *Summarizer) buildPrompt(record model.StockRecord, news []model.NewsItem) string {
	direction := "rose"
	if record.ChangePercent.IsNegative() {
		direction = "fell"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "A stock on today's Korean market movers list %s sharply:\n\n", direction)
	fmt.Fprintf(&b, "Name: %s\n", record.Name)
	fmt.Fprintf(&b, "Price: %s KRW\n", record.Price.StringFixed(0))
	fmt.Fprintf(&b, "Change: %s%%\n", record.ChangePercent.StringFixed(2))
	fmt.Fprintf(&b, "Volume: %d shares\n", record.Volume)

	if len(news) > 0 {
		fmt.Fprintf(&b, "\nRecent headlines:\n")
		for i, item := range news {
			if i >= s.maxHeadlines {
				break
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, item.Headline)
		}
	}

	fmt.Fprintf(&b, "\nWrite the analysis.")
	return b.String()
}
