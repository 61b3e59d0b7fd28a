package llm

import (
	"context"
	"strings"
)

// Provider is a text-in/text-out completion backend.
type Provider interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	ModelName() string
}

// Embedder turns texts into embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// cleanResponse strips the markdown code fences some models wrap their
// answers in.
func cleanResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```markdown")
	content = strings.TrimPrefix(content, "```md")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
