package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PagesHandler serves the server-rendered UI pages.
type PagesHandler struct{}

// NewPagesHandler constructs the page handler.
func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

// Index serves the estimator form page.
func (h *PagesHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// Cars serves the stored valuations listing page.
func (h *PagesHandler) Cars(c *gin.Context) {
	c.HTML(http.StatusOK, "cars.html", nil)
}
