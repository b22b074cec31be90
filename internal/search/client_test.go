package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(engine Engine) *IndexClient {
	return NewIndexClient(engine, "umkm", DefaultBreakerConfig(), logger.NewNop())
}

func TestProvisionIndex_DropsThenCreates(t *testing.T) {
	engine := newFakeEngine()
	engine.docs["stale"] = Document{ID: "stale"}
	client := newTestClient(engine)

	require.NoError(t, client.ProvisionIndex(context.Background()))

	assert.Equal(t, []string{"delete:umkm", "create:umkm:id", "settings:umkm"}, engine.calls)
	require.NotNil(t, engine.settings)
	assert.Equal(t, IndexSettings(), *engine.settings)
	assert.Equal(t, 0, engine.count())
}

func TestProvisionIndex_MissingIndexIsFine(t *testing.T) {
	engine := newFakeEngine()
	engine.indexExists = false
	client := newTestClient(engine)

	require.NoError(t, client.ProvisionIndex(context.Background()))
	assert.Equal(t, []string{"delete:umkm", "create:umkm:id", "settings:umkm"}, engine.calls)
}

func TestProvisionIndex_Unhealthy(t *testing.T) {
	engine := newFakeEngine()
	engine.healthy = false
	client := newTestClient(engine)

	err := client.ProvisionIndex(context.Background())
	assert.ErrorIs(t, err, ErrIndexUnavailable)
	assert.Empty(t, engine.calls)
}

func TestIndexSettings(t *testing.T) {
	s := IndexSettings()
	assert.Equal(t, []string{"name"}, s.SearchableAttributes)
	assert.ElementsMatch(t, []string{"category", "status", "owner_id", "district"}, s.FilterableAttributes)
	assert.ElementsMatch(t, []string{"created_at", "name", "views"}, s.SortableAttributes)
	assert.Equal(t, []string{"words", "typo", "proximity", "attribute", "sort", "exactness"}, s.RankingRules)
	assert.Equal(t, int64(3), s.TypoTolerance.OneTypoMinSize)
	assert.Equal(t, int64(6), s.TypoTolerance.TwoTyposMinSize)
	assert.Equal(t, int64(1000), s.MaxTotalHits)
	assert.Contains(t, s.Synonyms["solo"], "surakarta")
	assert.Contains(t, s.StopWords, "dan")
}

func TestHealth_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	engine := newFakeEngine()
	engine.healthy = false
	client := NewIndexClient(engine, "umkm", BreakerConfig{
		MaxRequests:  1,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.5,
	}, logger.NewNop())

	for i := 0; i < 3; i++ {
		assert.False(t, client.Health(context.Background()))
	}
	assert.Equal(t, 3, engine.healthCalls)

	// open breaker answers without probing the engine
	engine.healthy = true
	assert.False(t, client.Health(context.Background()))
	assert.Equal(t, 3, engine.healthCalls)
}

func TestUpsert_UnhealthyWritesNothing(t *testing.T) {
	engine := newFakeEngine()
	engine.healthy = false
	client := newTestClient(engine)

	err := client.Upsert(context.Background(), listing("a", "Bakso Pak Min", domain.StatusApproved))
	assert.ErrorIs(t, err, ErrIndexUnavailable)
	assert.Equal(t, 0, engine.count())
}

func TestAddDocuments_EngineError(t *testing.T) {
	engine := newFakeEngine()
	engine.addErr = errors.New("boom")
	client := newTestClient(engine)

	_, err := client.AddDocuments(context.Background(), []Document{{ID: "a"}})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIndexUnavailable)
}

func TestNewDocument(t *testing.T) {
	l := listing("abc", "Kopi Solo", domain.StatusApproved)
	l.Location = &domain.Location{Latitude: -7.56, Longitude: 110.82}
	doc := NewDocument(l)

	assert.Equal(t, "abc", doc.ID)
	assert.Equal(t, "approved", doc.Status)
	assert.Equal(t, l.CreatedAt.UnixMilli(), doc.CreatedAt)
	assert.NotNil(t, doc.Photos)
	assert.NotNil(t, doc.Payments)
	assert.Equal(t, l.Location, doc.Location)
}
