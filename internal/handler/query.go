package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"core/internal/dataset"
	"core/internal/model"
	"core/internal/service"
)

// rephraseMessage is what the presenter shows when extraction fails.
const rephraseMessage = "Sorry, I could not understand that. Please rephrase your query."

// emptyResultMessage nudges the user when nothing matched.
const emptyResultMessage = "Alright! Tell me your requirements."

// QueryRequest is the natural-language query payload.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// QueryHandler serves natural-language property queries.
type QueryHandler struct {
	workflow *service.Workflow
	table    *dataset.Table
	logger   *zap.Logger
}

// NewQueryHandler creates a query handler over the read-only table.
func NewQueryHandler(workflow *service.Workflow, table *dataset.Table, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{workflow: workflow, table: table, logger: logger}
}

// Query handles POST /api/v1/query.
func (h *QueryHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query must not be empty"})
		return
	}

	result, err := h.workflow.Process(c.Request.Context(), req.Query, h.table)
	if err != nil {
		var extractionErr *service.ExtractionError
		if errors.As(err, &extractionErr) {
			h.logger.Warn("extraction failed",
				zap.String("kind", string(extractionErr.Kind)),
				zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "message": rephraseMessage})
			return
		}
		h.logger.Error("query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "message": rephraseMessage})
		return
	}

	response := gin.H{"result_type": result.Kind}
	switch result.Kind {
	case model.ResultKindProperty:
		response["property"] = result.Property
		if result.Property.Final.Len() == 0 {
			response["message"] = emptyResultMessage
		}
	case model.ResultKindChat:
		response["chat"] = result.Chat
	}

	c.JSON(http.StatusOK, response)
}
