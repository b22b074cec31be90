package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	mongoRepo "github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/searchengine/meili"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/maplink"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/search"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/usecase"
	"go.uber.org/zap"
)

// fixlocations back-fills coordinates for listings that have a map link
// but no stored location, and pushes the fixed approved ones to the index.
func main() {
	timeout := flag.Duration("timeout", 30*time.Minute, "overall deadline")
	flag.Parse()

	appLogger := logger.NewLogger().Named("fixlocations")
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
	syncEngine := search.NewSyncEngine(indexClient, listingRepo, appLogger, nil)

	resolver := maplink.NewResolver(maplink.ResolverConfig{
		Timeout: cfg.ShortlinkTimeout,
		MaxHops: cfg.ShortlinkMaxHops,
	}, &http.Client{}, appLogger)

	listingUsecase := usecase.NewListingUsecase(usecase.ListingDeps{
		Listings: listingRepo,
		Index:    syncEngine,
		Resolver: resolver,
	}, appLogger)

	fixed, err := listingUsecase.FixMissingLocations(ctx)
	if err != nil {
		appLogger.Fatal("Location back-fill aborted", zap.Int("fixed", fixed), zap.Error(err))
	}
	appLogger.Info("Location back-fill done", zap.Int("fixed", fixed))
}
