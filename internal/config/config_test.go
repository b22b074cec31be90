package config

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MONGO_DATABASE", "umkm_test")

	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "umkm-service", cfg.ServiceName)
	assert.Equal(t, "umkm_test", cfg.MongoDatabase)
	assert.Equal(t, "umkm", cfg.MeiliIndex)
	assert.Equal(t, 5*time.Second, cfg.ShortlinkTimeout)
	assert.Equal(t, 10, cfg.ShortlinkMaxHops)
	assert.False(t, cfg.MinIOUseSSL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MEILISEARCH_HOST", "http://search:7700")
	t.Setenv("SHORTLINK_TIMEOUT", "2s")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "http://search:7700", cfg.MeiliHost)
	assert.Equal(t, 2*time.Second, cfg.ShortlinkTimeout)
	assert.True(t, cfg.MinIOUseSSL)
}

func TestValidate(t *testing.T) {
	log := logger.NewNop()

	cfg := &Config{MongoURI: "", MongoDatabase: "db", JWTSecret: "s"}
	assert.Error(t, cfg.Validate(log))

	cfg = &Config{MongoURI: "mongodb://x", MongoDatabase: "db", JWTSecret: ""}
	assert.Error(t, cfg.Validate(log))

	cfg = &Config{MongoURI: "mongodb://x", MongoDatabase: "db", JWTSecret: "s"}
	require.NoError(t, cfg.Validate(log))
	assert.Equal(t, 10, cfg.ShortlinkMaxHops)
	assert.Equal(t, 5*time.Second, cfg.ShortlinkTimeout)
}
