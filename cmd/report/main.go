package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/pji114/jusik/internal/config"
	"github.com/pji114/jusik/internal/model"
	"github.com/pji114/jusik/internal/pipeline"
	"github.com/pji114/jusik/pkg/llm"
	"github.com/pji114/jusik/pkg/market"
	"github.com/pji114/jusik/pkg/news"
	"github.com/pji114/jusik/pkg/report"
)

// One-shot report generator for cron use: scrape, analyze, render, save.
func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	directionFlag := flag.String("direction", "rising", "movers list to report on: rising or falling")
	countFlag := flag.Int("count", 5, "number of stocks to include")
	useAIFlag := flag.Bool("use-ai", false, "use the configured LLM for per-stock analysis")
	styleFlag := flag.String("style", model.StyleStandard, "report style: standard or blog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	direction := model.Direction(*directionFlag)
	if !direction.Valid() {
		log.Fatalf("invalid direction %q, want rising or falling", *directionFlag)
	}
	if !report.ValidStyle(*styleFlag) {
		log.Fatalf("invalid style %q, want standard or blog", *styleFlag)
	}

	count := *countFlag
	if count < 1 || count > cfg.MaxCount {
		log.Fatalf("count out of range [1,%d]: %d", cfg.MaxCount, count)
	}

	movers := market.NewNaverClient(cfg.FinanceBaseURL, cfg.RequestTimeout)
	sources := []news.Fetcher{news.NewNaverClient(cfg.NewsSearchURL, cfg.MaxNewsHeadlines, cfg.RequestTimeout)}
	if cfg.FinnhubAPIKey != "" {
		sources = append(sources, news.NewFinnhubClient(cfg.FinnhubAPIKey, cfg.MaxNewsHeadlines))
	}

	var provider llm.Provider
	if *useAIFlag {
		switch cfg.LLMProvider {
		case "anthropic":
			provider = llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		default:
			provider = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		}
	}

	summarizer := llm.NewSummarizer(provider, cfg.LLMTimeout, cfg.MaxNewsHeadlines)
	pipe := pipeline.New(movers, sources, summarizer)

	rep, err := pipe.Generate(context.Background(), direction, count, *useAIFlag)
	if err != nil {
		log.Fatalf("error generating report: %v", err)
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		log.Fatalf("error loading report templates: %v", err)
	}

	html, err := renderer.Render(*rep, *styleFlag)
	if err != nil {
		log.Fatalf("error rendering report: %v", err)
	}

	aiUsed := false
	for _, entry := range rep.Entries {
		if entry.Analysis.AIGenerated {
			aiUsed = true
			break
		}
	}

	path, err := report.NewSaver(cfg.ReportDir).Save(html, direction, *styleFlag, aiUsed)
	if err != nil {
		log.Fatalf("error saving report: %v", err)
	}

	slog.Info("report saved", "path", path, "entries", len(rep.Entries), "ai_used", aiUsed)
}
