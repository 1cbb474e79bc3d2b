package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/autovalue/internal/domain/models"
	"github.com/mamadbah2/autovalue/internal/service/summary"
	"github.com/mamadbah2/autovalue/pkg/clients/openai"
)

// SummaryHandler handles AI summary generation for stored valuations.
type SummaryHandler struct {
	svc    *summary.Service
	logger *zap.Logger
}

// NewSummaryHandler constructs the HTTP handler adapter.
func NewSummaryHandler(svc *summary.Service, logger *zap.Logger) *SummaryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryHandler{svc: svc, logger: logger}
}

// Generate produces a short buyer-focused summary for one car. Upstream
// failures are classified into distinct human-readable messages; anything
// unclassified passes through verbatim.
func (h *SummaryHandler) Generate(c *gin.Context) {
	var req models.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid summary request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required car details"})
		return
	}

	text, model, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed generating summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": summaryErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": text,
		"model":   model,
	})
}

func summaryErrorMessage(err error) string {
	switch {
	case errors.Is(err, openai.ErrNotConfigured):
		return "AI service not configured. Please check your Azure OpenAI settings."
	case errors.Is(err, openai.ErrUnreachable):
		return "Unable to connect to Azure OpenAI service"
	case errors.Is(err, openai.ErrInvalidAPIKey):
		return "Invalid Azure OpenAI API key"
	case errors.Is(err, openai.ErrDeploymentNotFound):
		return "Azure OpenAI deployment not found"
	case errors.Is(err, openai.ErrNoContent):
		return "No summary generated from AI model"
	default:
		return err.Error()
	}
}
