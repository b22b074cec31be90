package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongoRepo "github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/searchengine/meili"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/search"
	"go.uber.org/zap"
)

// reindex recreates the search index with its fixed settings, loads every
// approved listing into it and prints the resulting index statistics.
func main() {
	skipProvision := flag.Bool("skip-provision", false, "keep the existing index and settings, only re-add documents")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline")
	flag.Parse()

	appLogger := logger.NewLogger().Named("reindex")
	defer func() { _ = appLogger.Sync() }()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	mongoClient, db, err := mongoRepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoRepo.Disconnect(mongoClient, appLogger)
	listingRepo := mongoRepo.NewListingRepository(db, appLogger)

	engine := meili.NewEngine(cfg.MeiliHost, cfg.MeiliAPIKey, cfg.MeiliTimeout, appLogger)
	indexClient := search.NewIndexClient(engine, cfg.MeiliIndex, search.DefaultBreakerConfig(), appLogger)
	if !indexClient.Health(ctx) {
		appLogger.Fatal("Meilisearch is not reachable", zap.String("host", cfg.MeiliHost))
	}

	if !*skipProvision {
		if err := indexClient.ProvisionIndex(ctx); err != nil {
			appLogger.Fatal("Failed to provision index", zap.Error(err))
		}
		appLogger.Info("Index provisioned", zap.String("index", indexClient.Index()))
	}

	syncEngine := search.NewSyncEngine(indexClient, listingRepo, appLogger, nil)
	result := syncEngine.ReindexAll(ctx)
	if !result.Success {
		appLogger.Fatal("Indexing failed", zap.String("error", result.Error))
	}
	appLogger.Info("Indexing finished", zap.Int("count", result.Count), zap.Int64("task_uid", result.TaskUID))

	stats, err := indexClient.Stats(ctx)
	if err != nil {
		appLogger.Warn("Failed to read index statistics", zap.Error(err))
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		appLogger.Warn("Failed to print index statistics", zap.Error(err))
	}
}
