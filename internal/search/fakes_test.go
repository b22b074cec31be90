package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
)

// fakeEngine is an in-memory Engine. Search does case-insensitive substring
// matching on the name and understands the filter syntax produced by
// Query.EngineFilter.
type fakeEngine struct {
	mu          sync.Mutex
	healthy     bool
	indexExists bool
	docs        map[string]Document
	calls       []string
	settings    *Settings
	healthCalls int
	nextTask    int64
	searchErr   error
	addErr      error
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{healthy: true, indexExists: true, docs: map[string]Document{}}
}

func (f *fakeEngine) Healthy(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.healthCalls++
	return f.healthy
}

func (f *fakeEngine) DeleteIndex(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+uid)
	if !f.indexExists {
		return ErrIndexNotFound
	}
	f.indexExists = false
	f.docs = map[string]Document{}
	return nil
}

func (f *fakeEngine) CreateIndex(_ context.Context, uid, primaryKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create:"+uid+":"+primaryKey)
	f.indexExists = true
	return nil
}

func (f *fakeEngine) UpdateSettings(_ context.Context, uid string, s Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "settings:"+uid)
	f.settings = &s
	return nil
}

func (f *fakeEngine) AddDocuments(_ context.Context, _ string, docs []Document) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return 0, f.addErr
	}
	for _, d := range docs {
		f.docs[d.ID] = d
	}
	f.nextTask++
	return f.nextTask, nil
}

func (f *fakeEngine) DeleteDocument(_ context.Context, _ string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *fakeEngine) Search(_ context.Context, _ string, req EngineRequest) (*EngineResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	clauses, err := parseFilter(req.Filter)
	if err != nil {
		return nil, err
	}

	var matched []Document
	for _, d := range f.docs {
		if req.Query != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(req.Query)) {
			continue
		}
		if !matchesClauses(d, clauses) {
			continue
		}
		matched = append(matched, d)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	start := req.Offset
	if start > total {
		start = total
	}
	end := start + req.Limit
	if end > total {
		end = total
	}
	hits := make([]Hit, 0, end-start)
	for _, d := range matched[start:end] {
		hits = append(hits, Hit{Document: d, Formatted: map[string]interface{}{"name": d.Name}})
	}
	return &EngineResult{Hits: hits, EstimatedTotalHits: total, ProcessingTimeMs: 1, Query: req.Query}, nil
}

func (f *fakeEngine) Stats(context.Context, string) (*IndexStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &IndexStats{NumberOfDocuments: int64(len(f.docs))}, nil
}

func (f *fakeEngine) doc(id string) (Document, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	return d, ok
}

func (f *fakeEngine) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

func parseFilter(filter string) (map[string]string, error) {
	out := map[string]string{}
	if filter == "" {
		return out, nil
	}
	for _, clause := range strings.Split(filter, " AND ") {
		field, value, ok := strings.Cut(clause, " = ")
		if !ok || len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
			return nil, fmt.Errorf("bad clause %q", clause)
		}
		value = value[1 : len(value)-1]
		value = strings.ReplaceAll(value, `\"`, `"`)
		value = strings.ReplaceAll(value, `\\`, `\`)
		out[field] = value
	}
	return out, nil
}

func matchesClauses(d Document, clauses map[string]string) bool {
	for field, want := range clauses {
		var got string
		switch field {
		case FieldStatus:
			got = d.Status
		case FieldCategory:
			got = d.Category
		case FieldDistrict:
			got = d.District
		case FieldOwnerID:
			got = d.OwnerID
		default:
			return false
		}
		if got != want {
			return false
		}
	}
	return true
}

// fakeStore is an in-memory primary store.
type fakeStore struct {
	mu       sync.Mutex
	listings map[string]*domain.Listing
	err      error
}

func newFakeStore(listings ...*domain.Listing) *fakeStore {
	s := &fakeStore{listings: map[string]*domain.Listing{}}
	for _, l := range listings {
		s.listings[l.ID] = l
	}
	return s
}

func (s *fakeStore) put(l *domain.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listings[l.ID] = l
}

func (s *fakeStore) FindApproved(ctx context.Context) ([]*domain.Listing, error) {
	return s.Find(ctx, domain.Filter{Status: domain.StatusApproved}, domain.SortField{}, 0, 0)
}

func (s *fakeStore) Create(context.Context, *domain.Listing) error { return errors.New("not implemented") }
func (s *fakeStore) Update(context.Context, *domain.Listing) error { return errors.New("not implemented") }
func (s *fakeStore) Delete(context.Context, string) error          { return errors.New("not implemented") }

func (s *fakeStore) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return l, nil
}

func (s *fakeStore) match(f domain.Filter) []*domain.Listing {
	var out []*domain.Listing
	for _, l := range s.listings {
		if f.NameContains != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(f.NameContains)) {
			continue
		}
		if f.Category != "" && l.Category != f.Category {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.District != "" && l.District != f.District {
			continue
		}
		if f.OwnerID != "" && l.OwnerID != f.OwnerID {
			continue
		}
		out = append(out, l)
	}
	return out
}

func (s *fakeStore) Count(_ context.Context, f domain.Filter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.match(f))), nil
}

func (s *fakeStore) Find(_ context.Context, f domain.Filter, sf domain.SortField, skip, limit int64) ([]*domain.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := s.match(f)
	sort.Slice(out, func(i, j int) bool {
		if sf.Field == FieldViews && out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].ID < out[j].ID
	})
	if skip > int64(len(out)) {
		skip = int64(len(out))
	}
	out = out[skip:]
	if limit > 0 && limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) IncrementViews(context.Context, string) (int64, error) { return 0, nil }
func (s *fakeStore) Top(context.Context, int64) ([]*domain.Listing, error) { return nil, nil }
func (s *fakeStore) CountByCategory(context.Context, domain.ListingStatus) (map[string]int64, error) {
	return nil, nil
}
func (s *fakeStore) FindMissingLocation(context.Context) ([]*domain.Listing, error) { return nil, nil }

func listing(id, name string, status domain.ListingStatus) *domain.Listing {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Listing{
		ID:        id,
		Name:      name,
		Category:  "Kuliner",
		District:  "Laweyan",
		Status:    status,
		OwnerID:   "owner-1",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
