package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pji114/jusik/pkg/knowledge"
)

type KnowledgeStore interface {
	Add(ctx context.Context, text string, metadata map[string]string) ([]string, error)
	Search(ctx context.Context, query string, k int) ([]knowledge.Document, error)
	Count(ctx context.Context) (int, error)
}

type KnowledgeAsker interface {
	Ask(ctx context.Context, query string) (*knowledge.Answer, error)
}

type KnowledgeHandler struct {
	store KnowledgeStore
	asker KnowledgeAsker
}

func NewKnowledgeHandler(store KnowledgeStore, asker KnowledgeAsker) *KnowledgeHandler {
	return &KnowledgeHandler{store: store, asker: asker}
}

func (h *KnowledgeHandler) AddDocument(c *gin.Context) {
	if h.store == nil {
		respondKnowledgeUnavailable(c)
		return
	}

	var req AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text must not be empty"})
		return
	}

	ids, err := h.store.Add(c.Request.Context(), req.Text, req.Metadata)
	if err != nil {
		slog.Error("error adding document", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Document could not be stored"})
		return
	}

	c.JSON(http.StatusOK, AddDocumentResponse{IDs: ids, Chunks: len(ids)})
}

func (h *KnowledgeHandler) Search(c *gin.Context) {
	if h.store == nil {
		respondKnowledgeUnavailable(c)
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter q is required"})
		return
	}

	k := getQueryInt(c, "k", 5)
	if k < 1 {
		k = 5
	}
	if k > 20 {
		k = 20
	}

	docs, err := h.store.Search(c.Request.Context(), query, k)
	if err != nil {
		slog.Error("error searching knowledge base", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"query": query, "results": docs, "count": len(docs)})
}

func (h *KnowledgeHandler) Ask(c *gin.Context) {
	if h.asker == nil {
		respondKnowledgeUnavailable(c)
		return
	}

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question must not be empty"})
		return
	}

	answer, err := h.asker.Ask(c.Request.Context(), req.Question)
	if err != nil {
		slog.Error("error answering question", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Answer generation failed"})
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (h *KnowledgeHandler) Stats(c *gin.Context) {
	if h.store == nil {
		respondKnowledgeUnavailable(c)
		return
	}

	count, err := h.store.Count(c.Request.Context())
	if err != nil {
		slog.Error("error counting documents", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stats unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": count, "status": "ok"})
}

func respondKnowledgeUnavailable(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Knowledge base not configured"})
}

func getQueryInt(c *gin.Context, name string, defaultValue int) int {
	raw := c.Query(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", raw, "error", err)
		return defaultValue
	}

	return value
}
