package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/pji114/jusik/db"
	"github.com/pji114/jusik/internal/config"
	"github.com/pji114/jusik/internal/handler"
	"github.com/pji114/jusik/internal/pipeline"
	"github.com/pji114/jusik/internal/repository"
	"github.com/pji114/jusik/pkg/knowledge"
	"github.com/pji114/jusik/pkg/llm"
	"github.com/pji114/jusik/pkg/market"
	"github.com/pji114/jusik/pkg/news"
	"github.com/pji114/jusik/pkg/report"
)

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	if cfg.RedisURL != "" {
		if err := db.ConnectRedis(cfg.RedisURL); err != nil {
			log.Fatalf("error connecting to Redis: %v", err)
		}
		defer db.CloseRedis()
	}

	var history handler.HistoryStore
	if cfg.DatabaseURL != "" {
		if err := db.Connect(cfg.DatabaseURL); err != nil {
			log.Fatalf("error connecting to DB: %v", err)
		}
		defer db.Close()

		reportRepo := repository.NewReportRepository(db.DB)
		if err := reportRepo.EnsureSchema(); err != nil {
			log.Fatalf("error preparing report_file table: %v", err)
		}
		history = reportRepo
	}

	var movers market.Fetcher = market.NewNaverClient(cfg.FinanceBaseURL, cfg.RequestTimeout)
	if db.Redis != nil {
		movers = market.NewCachedFetcher(movers, db.Redis, cfg.CacheTTL)
	}

	sources := []news.Fetcher{news.NewNaverClient(cfg.NewsSearchURL, cfg.MaxNewsHeadlines, cfg.RequestTimeout)}
	if cfg.FinnhubAPIKey != "" {
		sources = append(sources, news.NewFinnhubClient(cfg.FinnhubAPIKey, cfg.MaxNewsHeadlines))
	}

	provider := buildProvider(cfg)
	summarizer := llm.NewSummarizer(provider, cfg.LLMTimeout, cfg.MaxNewsHeadlines)

	pipe := pipeline.New(movers, sources, summarizer)

	renderer, err := report.NewRenderer()
	if err != nil {
		log.Fatalf("error loading report templates: %v", err)
	}
	saver := report.NewSaver(cfg.ReportDir)

	var kbStore handler.KnowledgeStore
	var kbAsker handler.KnowledgeAsker
	if db.Redis != nil && cfg.OpenAIAPIKey != "" {
		embedder := llm.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
		store := knowledge.NewStore(db.Redis, embedder, cfg.ChunkSize)
		kbStore = store
		if provider != nil {
			kbAsker = knowledge.NewAsker(store, provider, 5)
		}
	}

	stockHandler := handler.NewStockHandler(movers, pipe, summarizer, cfg.MaxCount, cfg.AIEnabled)
	reportHandler := handler.NewReportHandler(pipe, renderer, saver, history, cfg.MaxCount, cfg.AIEnabled)
	knowledgeHandler := handler.NewKnowledgeHandler(kbStore, kbAsker)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.GET("/stocks/rising", stockHandler.GetRising)
	r.GET("/stocks/falling", stockHandler.GetFalling)
	r.GET("/stocks/:name/analysis", stockHandler.GetAnalysis)
	r.GET("/stocks/:name/news", stockHandler.GetNews)

	r.GET("/reports/html", reportHandler.GetHTML)
	r.GET("/reports/blog", reportHandler.GetBlog)
	r.POST("/reports/save", reportHandler.SaveReport)
	r.GET("/reports/summary", reportHandler.GetSummary)
	r.GET("/reports/history", reportHandler.GetHistory)

	r.POST("/knowledge/documents", knowledgeHandler.AddDocument)
	r.GET("/knowledge/search", knowledgeHandler.Search)
	r.POST("/knowledge/analysis", knowledgeHandler.Ask)
	r.GET("/knowledge/stats", knowledgeHandler.Stats)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"ai":        provider != nil && cfg.AIEnabled,
			"cache":     db.Redis != nil,
			"history":   history != nil,
			"knowledge": kbStore != nil,
		})
	})

	err = r.Run(":" + cfg.Port)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

// buildProvider returns nil when the selected provider has no key; the
// summarizer then always takes the fallback path.
func buildProvider(cfg *config.Config) llm.Provider {
	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			slog.Warn("ANTHROPIC_API_KEY not set, AI analysis disabled")
			return nil
		}
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		if cfg.OpenAIAPIKey == "" {
			slog.Warn("OPENAI_API_KEY not set, AI analysis disabled")
			return nil
		}
		return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	}
}
