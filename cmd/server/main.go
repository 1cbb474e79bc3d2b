package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/autovalue/internal/config"
	"github.com/mamadbah2/autovalue/internal/repository/mongodb"
	"github.com/mamadbah2/autovalue/internal/server/handlers"
	"github.com/mamadbah2/autovalue/internal/server/router"
	summarysvc "github.com/mamadbah2/autovalue/internal/service/summary"
	valuationsvc "github.com/mamadbah2/autovalue/internal/service/valuation"
	"github.com/mamadbah2/autovalue/pkg/clients/azureml"
	"github.com/mamadbah2/autovalue/pkg/clients/blobstore"
	"github.com/mamadbah2/autovalue/pkg/clients/openai"
	"github.com/mamadbah2/autovalue/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	carRepo, err := mongodb.NewCarRepository(context.Background(), cfg.Cosmos)
	if err != nil {
		baseLogger.Fatal("failed to init document store repository", zap.Error(err))
	}
	defer func() {
		if err := carRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close document store connection", zap.Error(err))
		}
	}()

	blobs, err := blobstore.New(cfg.Storage)
	if err != nil {
		baseLogger.Fatal("failed to init blob storage client", zap.Error(err))
	}

	// Clients for the ML and OpenAI endpoints are built regardless of whether
	// their credentials are present; the call paths answer with a
	// "not configured" error instead.
	mlClient := azureml.NewClient(cfg.ML)
	if !cfg.ML.Configured() {
		baseLogger.Warn("azure ml credentials missing, price estimation will fail until configured")
	}

	chatClient := openai.NewClient(cfg.OpenAI)
	if !cfg.OpenAI.Configured() {
		baseLogger.Warn("azure openai credentials missing, ai summaries disabled")
	}

	valuationSvc := valuationsvc.NewService(blobs, mlClient, carRepo, baseLogger.Named("svc.valuation"))
	summarySvc := summarysvc.NewService(chatClient, baseLogger.Named("svc.summary"))

	pagesHandler := handlers.NewPagesHandler()
	valuationHandler := handlers.NewValuationHandler(valuationSvc, baseLogger.Named("handlers.valuation"))
	summaryHandler := handlers.NewSummaryHandler(summarySvc, baseLogger.Named("handlers.summary"))
	engine := router.New(pagesHandler, valuationHandler, summaryHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
