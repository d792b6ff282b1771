// Command extract runs a single extraction for a stored document and prints
// the flattened fields as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"taxextract/internal/bootstrap"
	"taxextract/internal/config"
	"taxextract/internal/domain"
	"taxextract/internal/metrics"
	"taxextract/internal/port"
	"taxextract/internal/repository/postgres"
	"taxextract/internal/service"
	"taxextract/internal/storage"
)

func main() {
	clientID := flag.String("client", "", "client id (storage prefix)")
	blobName := flag.String("blob", "", "document name under the client prefix")
	formType := flag.String("form", "", "tax form type, e.g. W-2")
	accessID := flag.String("access", "cli", "access id recorded on written rows")
	dryRun := flag.Bool("dry-run", false, "analyze without writing rows")
	flag.Parse()

	if *clientID == "" || *blobName == "" || *formType == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(service.ExtractInput{
		ClientID: *clientID,
		BlobName: *blobName,
		FormType: domain.FormType(*formType),
		AccessID: *accessID,
		DryRun:   *dryRun,
	}); err != nil {
		log.Fatal(err)
	}
}

func run(input service.ExtractInput) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo port.ExtractionRepository
	if !input.DryRun {
		db, err := postgres.NewDB(&cfg.DB)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		repo = postgres.NewExtractionRepo(db)
	}

	objectStorage, err := storage.New(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize %s storage: %w", cfg.Storage.Provider, err)
	}
	models, err := bootstrap.Models(&cfg.Analyzer)
	if err != nil {
		return fmt.Errorf("failed to load model map: %w", err)
	}
	analyzers, err := bootstrap.Analyzers(&cfg.Analyzer, &cfg.Resilience)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzers: %w", err)
	}

	svc := service.NewExtractionService(repo, objectStorage, models, analyzers, &cfg.Storage, metrics.New())
	result, err := svc.Extract(ctx, input)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
