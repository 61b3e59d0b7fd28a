// Package knowledge is a small retrieval layer over Redis and an external
// embedding API. Passages are chunked, embedded and stored as hashes;
// queries are answered by cosine ranking over the stored vectors. The
// heavy lifting (embeddings, completions) stays in the external services.
package knowledge

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/pji114/jusik/pkg/llm"
)

const keyPrefix = "jusik:kb:"

type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score,omitempty"`
}

type Store struct {
	rdb       *redis.Client
	embedder  llm.Embedder
	chunkSize int
}

func NewStore(rdb *redis.Client, embedder llm.Embedder, chunkSize int) *Store {
	return &Store{rdb: rdb, embedder: embedder, chunkSize: chunkSize}
}

// Add chunks text, embeds each chunk and stores them. It returns the IDs
// of the stored chunks.
func (s *Store) Add(ctx context.Context, text string, metadata map[string]string) ([]string, error) {
	chunks := chunkText(text, s.chunkSize)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("nothing to store")
	}

	vectors, err := s.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding documents: %w", err)
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}

	ids := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		vecJSON, err := json.Marshal(vectors[i])
		if err != nil {
			return nil, fmt.Errorf("encoding embedding: %w", err)
		}

		id := newID()
		err = s.rdb.HSet(ctx, keyPrefix+id, map[string]any{
			"text":      chunk,
			"metadata":  string(metaJSON),
			"embedding": string(vecJSON),
		}).Err()
		if err != nil {
			return nil, fmt.Errorf("storing document: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Search embeds the query and returns the k nearest stored chunks by
// cosine similarity.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Document, error) {
	vectors, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	queryVec := vectors[0]

	var docs []Document
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		fields, err := s.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("reading document %s: %w", key, err)
		}

		var vec []float64
		if err := json.Unmarshal([]byte(fields["embedding"]), &vec); err != nil {
			continue
		}

		doc := Document{
			ID:    strings.TrimPrefix(key, keyPrefix),
			Text:  fields["text"],
			Score: cosineSimilarity(queryVec, vec),
		}
		if raw := fields["metadata"]; raw != "" && raw != "null" {
			_ = json.Unmarshal([]byte(raw), &doc.Metadata)
		}
		docs = append(docs, doc)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning documents: %w", err)
	}

	return topK(docs, k), nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	count := 0
	iter := s.rdb.Scan(ctx, 0, keyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	return count, nil
}

func newID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", b)
	}
	return hex.EncodeToString(b)
}

// chunkText splits text on whitespace into pieces of at most size runes,
// never breaking a word.
func chunkText(text string, size int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len([]rune(text)) <= size {
		return []string{text}
	}

	words := strings.Fields(text)
	var chunks []string
	var current strings.Builder
	currentLen := 0

	for _, word := range words {
		wordLen := len([]rune(word))
		if currentLen > 0 && currentLen+1+wordLen > size {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}

	return chunks
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func topK(docs []Document, k int) []Document {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Score > docs[j].Score })
	if k < len(docs) {
		docs = docs[:k]
	}
	return docs
}
