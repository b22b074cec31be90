package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	grpcAdapter "github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/grpc"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/httpapi"
	natsAdapter "github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/searchengine/meili"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/storage/s3"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/mailer"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/maplink"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/tracer"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/search"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/usecase"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

func main() {
	// 1. Logger and configuration
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Application starting...", zap.String("service_name", cfg.ServiceName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Tracing and metrics
	tp, err := tracer.InitTracer(ctx, cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	metricsManager := metrics.NewMetricsManager(cfg.ServiceName)
	go func() {
		if err := metrics.StartMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	// 3. Primary store
	mongoClient, db, err := mongoRepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoRepo.Disconnect(mongoClient, appLogger)

	listingRepo := mongoRepo.NewListingRepository(db, appLogger)
	favoriteRepo := mongoRepo.NewFavoriteRepository(db, appLogger)
	activityRepo := mongoRepo.NewActivityLogRepository(db, appLogger)
	userRepo := mongoRepo.NewUserRepository(db, appLogger)

	indexCtx, cancelIndex := context.WithTimeout(ctx, 30*time.Second)
	if err := listingRepo.EnsureIndexes(indexCtx); err != nil {
		appLogger.Warn("Failed to ensure listing indexes", zap.Error(err))
	}
	if err := favoriteRepo.EnsureIndexes(indexCtx); err != nil {
		appLogger.Warn("Failed to ensure favorite indexes", zap.Error(err))
	}
	cancelIndex()

	// 4. Search: engine-first with the primary store as fallback
	engine := meili.NewEngine(cfg.MeiliHost, cfg.MeiliAPIKey, cfg.MeiliTimeout, appLogger)
	indexClient := search.NewIndexClient(engine, cfg.MeiliIndex, search.DefaultBreakerConfig(), appLogger)
	syncEngine := search.NewSyncEngine(indexClient, listingRepo, appLogger, metricsManager)
	queryRouter := search.NewQueryRouter(indexClient, search.NewStoreBackend(listingRepo), appLogger, metricsManager)

	resolver := maplink.NewResolver(maplink.ResolverConfig{
		Timeout: cfg.ShortlinkTimeout,
		MaxHops: cfg.ShortlinkMaxHops,
		OnExpansion: func(s maplink.State) {
			metricsManager.IncShortlinkExpansion(string(s))
		},
	}, &http.Client{}, appLogger)

	// 5. Optional collaborators. Each one is skipped when unreachable.
	deps := usecase.ListingDeps{
		Listings:  listingRepo,
		Favorites: favoriteRepo,
		Activity:  activityRepo,
		Users:     userRepo,
		Index:     syncEngine,
		Searcher:  queryRouter,
		Resolver:  resolver,
		Recorder:  metricsManager,
	}

	if cfg.RedisAddress != "" {
		statsCache, err := cache.NewStatsCache(ctx, cfg.RedisAddress, cfg.StatsTTL, cfg.TopTTL, appLogger)
		if err != nil {
			appLogger.Warn("Redis unavailable, statistics are computed on every request", zap.Error(err))
		} else {
			defer func() { _ = statsCache.Close() }()
			deps.Cache = statsCache
		}
	}

	if cfg.NATSURL != "" {
		publisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Warn("NATS unavailable, listing events are not published", zap.Error(err))
		} else {
			defer publisher.Close()
			deps.Publisher = publisher
		}
	}

	if cfg.SMTPUser != "" {
		deps.Mailer = mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom)
	} else {
		appLogger.Info("SMTP_EMAIL not set, moderation emails are disabled")
	}

	var photoService httpapi.PhotoService
	storage, err := s3.NewS3Storage(ctx, cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		appLogger.Warn("Object storage unavailable, photo upload is disabled", zap.Error(err))
		photoService = unavailablePhotos{}
	} else {
		photoService = usecase.NewPhotoUsecase(storage, listingRepo, syncEngine, appLogger)
	}

	// 6. Usecases and HTTP API
	listingUsecase := usecase.NewListingUsecase(deps, appLogger)
	favoriteUsecase := usecase.NewFavoriteUsecase(favoriteRepo, listingRepo, appLogger)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Search:    httpapi.NewSearchHandler(queryRouter, syncEngine, appLogger),
		Maps:      httpapi.NewMapsHandler(resolver, appLogger),
		UMKM:      httpapi.NewUMKMHandler(listingUsecase, photoService, appLogger),
		Favorites: httpapi.NewFavoriteHandler(favoriteUsecase, appLogger),
		Health:    queryRouter,
		Metrics:   metricsManager.Handler(),
		Observer:  metricsManager,
		JWTSecret: cfg.JWTSecret,
	}, appLogger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 7. gRPC health service following search availability
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		appLogger.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	grpcSrv, healthServer, grpcCleanup := grpcAdapter.NewGRPCServer(appLogger)
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.GRPCPort))
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			appLogger.Fatal("gRPC server Serve error", zap.Error(err))
		}
	}()

	reporter := grpcAdapter.NewSearchHealthReporter(queryRouter, healthServer, cfg.HealthRefreshInterval, appLogger)
	go reporter.Run(ctx)

	// 8. Graceful shutdown
	<-ctx.Done()
	appLogger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	grpcCleanup()

	appLogger.Info("Application shutting down...")
}

var errPhotosDisabled = errors.New("photo storage is not configured")

type unavailablePhotos struct{}

func (unavailablePhotos) Upload(context.Context, domain.Actor, string, string, string, []byte) (string, error) {
	return "", errPhotosDisabled
}
