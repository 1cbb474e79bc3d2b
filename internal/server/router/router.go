package router

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/autovalue/internal/server/handlers"
	"github.com/mamadbah2/autovalue/web"
)

// New wires the Gin engine with required routes and middlewares.
func New(pages *handlers.PagesHandler, valuations *handlers.ValuationHandler, summaries *handlers.SummaryHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	r.GET("/", pages.Index)
	r.GET("/cars", pages.Cars)

	api := r.Group("/api")
	api.POST("/estimate", valuations.Estimate)
	api.GET("/cars", valuations.ListCars)
	api.POST("/ai-summary", summaries.Generate)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
