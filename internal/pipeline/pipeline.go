package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/pji114/jusik/internal/model"
	"github.com/pji114/jusik/pkg/llm"
	"github.com/pji114/jusik/pkg/market"
	"github.com/pji114/jusik/pkg/news"
)

// Pipeline assembles a full movers report: fetch the list, then per stock
// collect headlines and an analysis. News sources are tried in order and a
// stock with no reachable news source still gets its report entry.
type Pipeline struct {
	movers     market.Fetcher
	sources    []news.Fetcher
	summarizer *llm.Summarizer
}

func New(movers market.Fetcher, sources []news.Fetcher, summarizer *llm.Summarizer) *Pipeline {
	return &Pipeline{movers: movers, sources: sources, summarizer: summarizer}
}

func (p *Pipeline) Generate(ctx context.Context, direction model.Direction, count int, useAI bool) (*model.Report, error) {
	records, err := p.movers.FetchMovers(ctx, direction, count)
	if err != nil {
		return nil, err
	}

	report := &model.Report{
		Direction:   direction,
		Entries:     make([]model.ReportEntry, 0, len(records)),
		GeneratedAt: time.Now(),
	}

	for _, record := range records {
		items := p.fetchNews(ctx, record.Name)

		report.Entries = append(report.Entries, model.ReportEntry{
			Record:   record,
			News:     items,
			Analysis: p.summarizer.Summarize(ctx, record, items, useAI),
		})
	}

	return report, nil
}

// FetchNews collects headlines for a single stock outside of report
// generation, for the per-stock news endpoint.
func (p *Pipeline) FetchNews(ctx context.Context, stockName string) []model.NewsItem {
	return p.fetchNews(ctx, stockName)
}

func (p *Pipeline) fetchNews(ctx context.Context, stockName string) []model.NewsItem {
	for _, source := range p.sources {
		items, err := source.FetchNews(ctx, stockName)
		if err != nil {
			slog.Warn("news source failed", "source", source.Name(), "stock", stockName, "error", err)
			continue
		}
		if len(items) > 0 {
			return items
		}
	}
	return nil
}
