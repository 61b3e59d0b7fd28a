package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is built once at startup from the environment. Query-level values
// (count, use_ai, ...) are validated separately at the HTTP boundary.
type Config struct {
	Port string

	// Upstream scraping.
	FinanceBaseURL string
	NewsSearchURL  string
	RequestTimeout time.Duration
	MaxCount       int

	// LLM layer.
	AIEnabled        bool
	LLMProvider      string
	OpenAIAPIKey     string
	OpenAIModel      string
	AnthropicAPIKey  string
	AnthropicModel   string
	LLMTimeout       time.Duration
	MaxNewsHeadlines int

	// Knowledge base.
	EmbeddingModel string
	ChunkSize      int

	// Optional collaborators.
	RedisURL      string
	DatabaseURL   string
	CacheTTL      time.Duration
	FinnhubAPIKey string

	ReportDir string
}

// Load reads the environment and applies defaults. It fails only on values
// that parse but fall outside their allowed bounds.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		FinanceBaseURL:   getEnv("FINANCE_BASE_URL", "https://finance.naver.com"),
		NewsSearchURL:    getEnv("NEWS_SEARCH_URL", "https://search.naver.com/search.naver"),
		RequestTimeout:   getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		MaxCount:         getEnvInt("MAX_STOCK_COUNT", 20),
		AIEnabled:        getEnvBool("AI_ENABLED", true),
		LLMProvider:      getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5"),
		LLMTimeout:       getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		MaxNewsHeadlines: getEnvInt("MAX_NEWS_HEADLINES", 3),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChunkSize:        getEnvInt("KNOWLEDGE_CHUNK_SIZE", 1000),
		RedisURL:         os.Getenv("REDIS_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		CacheTTL:         getEnvDuration("CACHE_TTL", time.Minute),
		FinnhubAPIKey:    os.Getenv("FINNHUB_API_KEY"),
		ReportDir:        getEnv("REPORT_DIR", "report"),
	}

	if cfg.MaxCount < 1 || cfg.MaxCount > 100 {
		return nil, fmt.Errorf("MAX_STOCK_COUNT out of range [1,100]: %d", cfg.MaxCount)
	}
	if cfg.MaxNewsHeadlines < 0 || cfg.MaxNewsHeadlines > 10 {
		return nil, fmt.Errorf("MAX_NEWS_HEADLINES out of range [0,10]: %d", cfg.MaxNewsHeadlines)
	}
	if cfg.ChunkSize < 100 || cfg.ChunkSize > 10000 {
		return nil, fmt.Errorf("KNOWLEDGE_CHUNK_SIZE out of range [100,10000]: %d", cfg.ChunkSize)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive: %s", cfg.RequestTimeout)
	}
	if cfg.LLMTimeout <= 0 {
		return nil, fmt.Errorf("LLM_TIMEOUT must be positive: %s", cfg.LLMTimeout)
	}
	if cfg.LLMProvider != "openai" && cfg.LLMProvider != "anthropic" {
		return nil, fmt.Errorf("LLM_PROVIDER must be openai or anthropic, got %q", cfg.LLMProvider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}
