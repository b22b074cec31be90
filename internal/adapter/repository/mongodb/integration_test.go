package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var testDB *mongo.Database

// TestMain starts a throwaway MongoDB when INTEGRATION=1.
func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") != "1" {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))

	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return client.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database("umkm_test")

	code := m.Run()

	_ = client.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Printf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func requireDB(t *testing.T) *mongo.Database {
	t.Helper()
	if testDB == nil {
		t.Skip("set INTEGRATION=1 to run MongoDB tests")
	}
	require.NoError(t, testDB.Drop(context.Background()))
	return testDB
}

func TestListingRepository_Integration(t *testing.T) {
	db := requireDB(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo := NewListingRepository(db, logger.NewNop())
	require.NoError(t, repo.EnsureIndexes(ctx))

	mk := func(name, category string, status domain.ListingStatus) *domain.Listing {
		l := &domain.Listing{Name: name, Category: category, District: "Laweyan", Status: status, OwnerID: "owner-1"}
		require.NoError(t, repo.Create(ctx, l))
		require.NotEmpty(t, l.ID)
		return l
	}
	bakso := mk("Bakso Pak Kumis", "Kuliner", domain.StatusApproved)
	mk("Batik Laweyan", "Fashion", domain.StatusApproved)
	pending := mk("Bakso Baru", "Kuliner", domain.StatusPending)
	pending.MapsURL = "https://maps.app.goo.gl/abc"
	require.NoError(t, repo.Update(ctx, pending))

	got, err := repo.FindByID(ctx, bakso.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bakso Pak Kumis", got.Name)

	_, err = repo.FindByID(ctx, "665f1c2b9a1e4a0012345678")
	assert.ErrorIs(t, err, domain.ErrListingNotFound)

	approved, err := repo.FindApproved(ctx)
	require.NoError(t, err)
	assert.Len(t, approved, 2)

	n, err := repo.Count(ctx, domain.Filter{NameContains: "BAKSO", Status: domain.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	views, err := repo.IncrementViews(ctx, bakso.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), views)

	top, err := repo.Top(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, bakso.ID, top[0].ID)

	counts, err := repo.CountByCategory(ctx, domain.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"Kuliner": 1, "Fashion": 1}, counts)

	missing, err := repo.FindMissingLocation(ctx)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, pending.ID, missing[0].ID)

	require.NoError(t, repo.Delete(ctx, bakso.ID))
	assert.ErrorIs(t, repo.Delete(ctx, bakso.ID), domain.ErrListingNotFound)
}

func TestFavoriteRepository_Integration(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	repo := NewFavoriteRepository(db, logger.NewNop())
	require.NoError(t, repo.EnsureIndexes(ctx))

	require.NoError(t, repo.Add(ctx, &domain.Favorite{UserID: "u1", ListingID: "l1"}))
	assert.ErrorIs(t, repo.Add(ctx, &domain.Favorite{UserID: "u1", ListingID: "l1"}), domain.ErrDuplicateFavorite)

	ok, err := repo.Exists(ctx, "u1", "l1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, repo.RemoveByListingID(ctx, "l1"))
	favs, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, favs)
	assert.ErrorIs(t, repo.Remove(ctx, "u1", "l1"), domain.ErrFavoriteNotFound)
}

func TestActivityLogRepository_Integration(t *testing.T) {
	db := requireDB(t)
	ctx := context.Background()

	repo := NewActivityLogRepository(db, logger.NewNop())
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &domain.ActivityLog{
			AdminID:   "admin",
			ListingID: fmt.Sprintf("l%d", i),
			Action:    domain.ActionApproved,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, total, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, entries, 2)
	assert.Equal(t, "l2", entries[0].ListingID)
}
