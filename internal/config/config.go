package config

import (
	"errors"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultJWTSecret = "change-me-umkm-secret"

// Config holds all configuration for the service.
type Config struct {
	ServiceName           string `mapstructure:"SERVICE_NAME"`
	HTTPPort              string `mapstructure:"HTTP_PORT"`
	GRPCPort              string `mapstructure:"GRPC_PORT"`
	PrometheusMetricsPort string `mapstructure:"PROMETHEUS_METRICS_PORT"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	MeiliHost    string        `mapstructure:"MEILISEARCH_HOST"`
	MeiliAPIKey  string        `mapstructure:"MEILISEARCH_API_KEY"`
	MeiliIndex   string        `mapstructure:"MEILISEARCH_INDEX"`
	MeiliTimeout time.Duration `mapstructure:"MEILISEARCH_TIMEOUT"`

	HealthRefreshInterval time.Duration `mapstructure:"SEARCH_HEALTH_REFRESH_INTERVAL"`

	RedisAddress string        `mapstructure:"REDIS_ADDRESS"`
	StatsTTL     time.Duration `mapstructure:"CACHE_STATS_TTL"`
	TopTTL       time.Duration `mapstructure:"CACHE_TOP_TTL"`

	NATSURL string `mapstructure:"NATS_URL"`

	MinIOEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket    string `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     int    `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_EMAIL"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`

	ShortlinkTimeout time.Duration `mapstructure:"SHORTLINK_TIMEOUT"`
	ShortlinkMaxHops int           `mapstructure:"SHORTLINK_MAX_HOPS"`

	JWTSecret              string `mapstructure:"JWT_SECRET"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// LoadConfig reads configuration from an optional .env file and the environment.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		appLogger.Debug("No .env file loaded, relying on environment variables", zap.Error(err))
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if err := cfg.Validate(appLogger); err != nil {
		return nil, err
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_port", cfg.GRPCPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("meilisearch_host", cfg.MeiliHost),
		zap.String("meilisearch_index", cfg.MeiliIndex),
		zap.String("redis_address", cfg.RedisAddress),
		zap.String("nats_url", cfg.NATSURL),
		zap.Bool("jwt_secret_present", cfg.JWTSecret != ""),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
	)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "umkm-service")
	v.SetDefault("HTTP_PORT", "5000")
	v.SetDefault("GRPC_PORT", "50055")
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9095")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "umkm_directory")
	v.SetDefault("MEILISEARCH_HOST", "http://127.0.0.1:7700")
	v.SetDefault("MEILISEARCH_API_KEY", "")
	v.SetDefault("MEILISEARCH_INDEX", "umkm")
	v.SetDefault("MEILISEARCH_TIMEOUT", 10*time.Second)
	v.SetDefault("SEARCH_HEALTH_REFRESH_INTERVAL", 15*time.Second)
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("CACHE_STATS_TTL", 5*time.Minute)
	v.SetDefault("CACHE_TOP_TTL", 2*time.Minute)
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "umkm-photos")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_EMAIL", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "")
	v.SetDefault("SHORTLINK_TIMEOUT", 5*time.Second)
	v.SetDefault("SHORTLINK_MAX_HOPS", 10)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate(appLogger *logger.Logger) error {
	if c.MongoURI == "" {
		return errors.New("MONGO_URI is not set")
	}
	if c.MongoDatabase == "" {
		return errors.New("MONGO_DATABASE is not set")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.JWTSecret == defaultJWTSecret {
		appLogger.Warn("JWT_SECRET is set to its default insecure value. Please set a strong secret in your environment.")
	}
	if c.ShortlinkMaxHops <= 0 {
		c.ShortlinkMaxHops = 10
	}
	if c.ShortlinkTimeout <= 0 {
		c.ShortlinkTimeout = 5 * time.Second
	}
	return nil
}
