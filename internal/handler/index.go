package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"core/internal/repository"
)

// IndexHandler rebuilds the description embedding index the hybrid
// retriever searches.
type IndexHandler struct {
	repo     *repository.PostgresRepository
	embedder repository.Embedder
	logger   *zap.Logger
}

// NewIndexHandler creates an index handler.
func NewIndexHandler(repo *repository.PostgresRepository, embedder repository.Embedder, logger *zap.Logger) *IndexHandler {
	return &IndexHandler{repo: repo, embedder: embedder, logger: logger}
}

// Rebuild handles POST /api/v1/index/rebuild.
func (h *IndexHandler) Rebuild(c *gin.Context) {
	updated, err := h.repo.ReindexDescriptions(c.Request.Context(), h.embedder)
	if err != nil {
		h.logger.Error("reindex failed", zap.Error(err), zap.Int("updated", updated))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "updated": updated})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
