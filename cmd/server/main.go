package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"taxextract/internal/bootstrap"
	"taxextract/internal/config"
	"taxextract/internal/handler"
	"taxextract/internal/metrics"
	"taxextract/internal/repository/postgres"
	"taxextract/internal/router"
	"taxextract/internal/service"
	"taxextract/internal/storage"
)

// @title Tax Extract API
// @version 1.0
// @description Extracts fields from US tax forms with document analysis models and stores them per client.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	extractionRepo := postgres.NewExtractionRepo(db)
	jobRepo := postgres.NewJobRepo(db)

	// Initialize storage
	objectStorage, err := storage.New(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", cfg.Storage.Provider, err)
	}

	// Initialize analysis
	models, err := bootstrap.Models(&cfg.Analyzer)
	if err != nil {
		return fmt.Errorf("failed to load model map: %w", err)
	}
	analyzers, err := bootstrap.Analyzers(&cfg.Analyzer, &cfg.Resilience)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzers: %w", err)
	}
	notifier, err := bootstrap.Notifier(&cfg.Notify)
	if err != nil {
		return fmt.Errorf("failed to initialize notifier: %w", err)
	}
	m := metrics.New()

	// Initialize services
	authSvc := service.NewAuthService(&cfg.JWT)
	extractionSvc := service.NewExtractionService(extractionRepo, objectStorage, models, analyzers, &cfg.Storage, m)
	jobSvc := service.NewJobService(jobRepo, extractionSvc, notifier, m)
	documentSvc := service.NewDocumentService(objectStorage, jobSvc, &cfg.Storage)

	// Start the extraction queue worker
	worker := service.NewExtractionQueueWorker(jobRepo, jobSvc, service.ExtractionQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxAttempts:  cfg.Queue.MaxAttempts,
		Concurrency:  cfg.Queue.Concurrency,
		JobTimeout:   bootstrap.JobTimeout(&cfg.Analyzer, &cfg.Resilience),
	})
	var workerWG sync.WaitGroup
	workerWG.Add(1)
	go func() {
		defer workerWG.Done()
		worker.Start(ctx)
	}()

	// Setup router
	r := router.Setup(authSvc, m, cfg.Server.CORSOrigins, router.Handlers{
		Extraction: handler.NewExtractionHandler(extractionSvc),
		Document:   handler.NewDocumentHandler(documentSvc),
		Job:        handler.NewJobHandler(jobSvc),
		Health:     handler.NewHealthHandler(db),
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			stop()
			workerWG.Wait()
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	workerWG.Wait()
	log.Println("Server stopped")
	return nil
}
