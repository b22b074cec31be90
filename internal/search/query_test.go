package search

import (
	"math"
	"testing"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/stretchr/testify/assert"
)

func TestQueryNormalize(t *testing.T) {
	q := Query{Text: "  bakso ", Category: "Semua", Page: -3, PageSize: 0, Sort: "description:asc"}.Normalize()

	assert.Equal(t, "bakso", q.Text)
	assert.Empty(t, q.Category)
	assert.Equal(t, domain.StatusApproved, q.Status)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Empty(t, q.Sort)

	q = Query{Page: 2, PageSize: 500, Sort: "views:desc", Category: "all"}.Normalize()
	assert.Equal(t, MaxPageSize, q.PageSize)
	assert.Equal(t, "views:desc", q.Sort)
	assert.Empty(t, q.Category)
	assert.Equal(t, int64(MaxPageSize), q.Offset())
}

func TestQueryNormalizeClampsPage(t *testing.T) {
	q := Query{Page: math.MaxInt, PageSize: 10}.Normalize()
	assert.Equal(t, MaxTotalHits/10+1, q.Page)
	assert.Equal(t, int64(MaxTotalHits), q.Offset())

	q = Query{Page: 5, PageSize: 10}.Normalize()
	assert.Equal(t, 5, q.Page)
}

func TestEngineFilter(t *testing.T) {
	q := Query{Category: "Agribisnis & Pertanian", District: "Banjarsari"}.Normalize()
	assert.Equal(t, `status = "approved" AND category = "Agribisnis & Pertanian" AND district = "Banjarsari"`, q.EngineFilter())

	q = Query{Status: domain.StatusPending, OwnerID: `x"y\z`}.Normalize()
	assert.Equal(t, `status = "pending" AND owner_id = "x\"y\\z"`, q.EngineFilter())
}

func TestNewPage(t *testing.T) {
	q := Query{Page: 3, PageSize: 10}.Normalize()
	p := NewPage(q, nil, 25)
	assert.Equal(t, int64(3), p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.True(t, p.HasPrevPage)
	assert.NotNil(t, p.Items)

	p = NewPage(Query{}.Normalize(), nil, 0)
	assert.Equal(t, int64(0), p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPrevPage)
}

func TestParseSort(t *testing.T) {
	field, desc, ok := parseSort("created_at:desc")
	assert.True(t, ok)
	assert.True(t, desc)
	assert.Equal(t, "created_at", field)

	_, _, ok = parseSort("name")
	assert.False(t, ok)
	_, _, ok = parseSort("name:sideways")
	assert.False(t, ok)
}
