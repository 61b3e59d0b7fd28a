package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/pji114/jusik/pkg/llm"
)

const askSystemPrompt = `You are a financial research assistant. Answer the question using only the provided context passages. If the context does not contain the answer, say so plainly. Keep the answer concise and in Markdown.`

// Asker answers questions over the store with retrieval-augmented
// completion: retrieve, stuff, complete. No agent loop.
type Asker struct {
	store    *Store
	provider llm.Provider
	k        int
}

func NewAsker(store *Store, provider llm.Provider, k int) *Asker {
	return &Asker{store: store, provider: provider, k: k}
}

type Answer struct {
	Query   string     `json:"query"`
	Text    string     `json:"answer"`
	Sources []Document `json:"sources"`
}

func (a *Asker) Ask(ctx context.Context, query string) (*Answer, error) {
	docs, err := a.store.Search(ctx, query, a.k)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	if len(docs) == 0 {
		b.WriteString("(no stored context matched the question)\n")
	}
	for i, doc := range docs {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, doc.Text)
	}
	fmt.Fprintf(&b, "Question: %s", query)

	text, err := a.provider.Complete(ctx, askSystemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("contextual analysis: %w", err)
	}

	return &Answer{Query: query, Text: text, Sources: docs}, nil
}
