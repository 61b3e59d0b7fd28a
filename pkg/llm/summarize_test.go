package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/pji114/jusik/internal/model"
	"github.com/pji114/jusik/pkg/analyze"
)

type fakeProvider struct {
	response string
	err      error
	delay    time.Duration
	prompts  []string
}

func (f *fakeProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.prompts = append(f.prompts, userPrompt)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.response, f.err
}

func (f *fakeProvider) ModelName() string { return "fake" }

func testRecord() model.StockRecord {
	return model.StockRecord{
		Name:          "Hanbit Software",
		Price:         decimal.RequireFromString("12350"),
		ChangePercent: decimal.RequireFromString("29.97"),
		Volume:        1_234_567,
		Rank:          1,
	}
}

func TestSummarizeWithoutAIIsDeterministic(t *testing.T) {
	s := NewSummarizer(&fakeProvider{response: "should not be used"}, time.Second, 3)

	first := s.Summarize(context.Background(), testRecord(), nil, false)
	second := s.Summarize(context.Background(), testRecord(), nil, false)

	assert.Equal(t, false, first.AIGenerated)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, analyze.FallbackSummary(testRecord(), nil), first.Summary)
	assert.Equal(t, analyze.RiskVeryHigh, first.RiskLevel)
}

func TestSummarizeUsesAIResponse(t *testing.T) {
	provider := &fakeProvider{response: "### Cause of the move\n\nContract win."}
	s := NewSummarizer(provider, time.Second, 3)

	news := []model.NewsItem{{Headline: "Hanbit wins major contract"}}
	result := s.Summarize(context.Background(), testRecord(), news, true)

	assert.Equal(t, true, result.AIGenerated)
	assert.Equal(t, "### Cause of the move\n\nContract win.", result.Summary)
	assert.Equal(t, 1, len(provider.prompts))
}

func TestSummarizeFallsBackOnProviderError(t *testing.T) {
	s := NewSummarizer(&fakeProvider{err: errors.New("rate limited")}, time.Second, 3)

	result := s.Summarize(context.Background(), testRecord(), nil, true)

	assert.Equal(t, false, result.AIGenerated)
	assert.Equal(t, analyze.FallbackSummary(testRecord(), nil), result.Summary)
}

func TestSummarizeFallsBackOnTimeout(t *testing.T) {
	provider := &fakeProvider{response: "late answer", delay: 200 * time.Millisecond}
	s := NewSummarizer(provider, 10*time.Millisecond, 3)

	result := s.Summarize(context.Background(), testRecord(), nil, true)

	assert.Equal(t, false, result.AIGenerated)
	assert.NotEqual(t, "late answer", result.Summary)
}

func TestSummarizeFallsBackOnEmptyResponse(t *testing.T) {
	s := NewSummarizer(&fakeProvider{response: "   "}, time.Second, 3)

	result := s.Summarize(context.Background(), testRecord(), nil, true)

	assert.Equal(t, false, result.AIGenerated)
}

func TestSummarizeCapsHeadlinesInPrompt(t *testing.T) {
	provider := &fakeProvider{response: "ok"}
	s := NewSummarizer(provider, time.Second, 2)

	news := []model.NewsItem{
		{Headline: "first"}, {Headline: "second"}, {Headline: "third"},
	}
	s.Summarize(context.Background(), testRecord(), news, true)

	prompt := provider.prompts[0]
	assert.Equal(t, true, strings.Contains(prompt, "first"))
	assert.Equal(t, true, strings.Contains(prompt, "second"))
	assert.Equal(t, false, strings.Contains(prompt, "third"))
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text unchanged", "## Analysis", "## Analysis"},
		{"strips markdown fence", "```markdown\n## Analysis\n```", "## Analysis"},
		{"strips bare fence", "```\n## Analysis\n```", "## Analysis"},
		{"trims whitespace", "  ## Analysis  ", "## Analysis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cleanResponse(tt.input)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
