package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/autovalue/internal/domain/models"
	"github.com/mamadbah2/autovalue/internal/service/valuation"
)

// ValuationHandler handles the estimate submission and listing endpoints.
type ValuationHandler struct {
	svc    *valuation.Service
	logger *zap.Logger
}

// NewValuationHandler constructs the HTTP handler adapter.
func NewValuationHandler(svc *valuation.Service, logger *zap.Logger) *ValuationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ValuationHandler{svc: svc, logger: logger}
}

// Estimate ingests one multipart submission and answers with the persisted
// valuation record. The image is the only hard-required part; its absence
// short-circuits before any field parsing or external call.
func (h *ValuationHandler) Estimate(c *gin.Context) {
	fileHeader, err := c.FormFile("file-upload")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required."})
		return
	}

	var form models.EstimateForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.Warn("invalid estimate form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required car details", "details": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed opening uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process estimation.", "details": err.Error()})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed reading uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process estimation.", "details": err.Error()})
		return
	}

	car, err := h.svc.Estimate(c.Request.Context(), form, fileHeader.Filename, image)
	if err != nil {
		var invalid *valuation.InvalidInputError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}

		h.logger.Error("estimation pipeline failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process estimation.", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Estimation successful!",
		"data":    car,
	})
}

// ListCars returns every stored valuation, newest first.
func (h *ValuationHandler) ListCars(c *gin.Context) {
	cars, err := h.svc.ListCars(c.Request.Context())
	if err != nil {
		h.logger.Error("failed fetching car valuations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch car data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": cars})
}
