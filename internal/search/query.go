package search

import (
	"fmt"
	"strings"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	HighlightPreTag  = "<mark>"
	HighlightPostTag = "</mark>"
)

var highlightAttributes = []string{FieldName, FieldDescription, FieldAddress}

// Query is a search request as seen by every backend.
type Query struct {
	Text     string
	Category string
	Status   domain.ListingStatus
	District string
	OwnerID  string
	Page     int
	PageSize int
	// Sort is "field:asc" or "field:desc" over a sortable attribute.
	Sort string
}

// Normalize applies defaults: approved status, page 1, ten per page. Pages
// past MaxTotalHits are clamped to the first empty one.
func (q Query) Normalize() Query {
	q.Text = strings.TrimSpace(q.Text)
	if domain.IsAllCategories(q.Category) {
		q.Category = ""
	}
	if q.Status == "" {
		q.Status = domain.StatusApproved
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if maxPage := MaxTotalHits/q.PageSize + 1; q.Page > maxPage {
		q.Page = maxPage
	}
	if _, _, ok := parseSort(q.Sort); !ok {
		q.Sort = ""
	}
	return q
}

func (q Query) Offset() int64 {
	return int64(q.Page-1) * int64(q.PageSize)
}

// StoreFilter is the primary-store equivalent of EngineFilter.
func (q Query) StoreFilter() domain.Filter {
	return domain.Filter{
		NameContains: q.Text,
		Category:     q.Category,
		Status:       q.Status,
		District:     q.District,
		OwnerID:      q.OwnerID,
	}
}

// EngineFilter renders the equality filters as field = "value" clauses
// joined with AND.
func (q Query) EngineFilter() string {
	var clauses []string
	add := func(field, value string) {
		if value == "" {
			return
		}
		clauses = append(clauses, fmt.Sprintf(`%s = "%s"`, field, escapeFilterValue(value)))
	}
	add(FieldStatus, string(q.Status))
	add(FieldCategory, q.Category)
	add(FieldDistrict, q.District)
	add(FieldOwnerID, q.OwnerID)
	return strings.Join(clauses, " AND ")
}

func escapeFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

func parseSort(s string) (field string, desc bool, ok bool) {
	if s == "" {
		return "", false, false
	}
	field, dir, found := strings.Cut(s, ":")
	if !found || !IsSortable(field) {
		return "", false, false
	}
	switch dir {
	case "asc":
		return field, false, true
	case "desc":
		return field, true, true
	}
	return "", false, false
}

// Page is the uniform result shape of every search path.
type Page struct {
	Items            []Hit  `json:"data"`
	Query            string `json:"query"`
	Engine           string `json:"searchEngine"`
	CurrentPage      int    `json:"currentPage"`
	ItemsPerPage     int    `json:"itemsPerPage"`
	TotalItems       int64  `json:"totalItems"`
	TotalPages       int64  `json:"totalPages"`
	HasNextPage      bool   `json:"hasNextPage"`
	HasPrevPage      bool   `json:"hasPrevPage"`
	ProcessingTimeMs int64  `json:"processingTimeMs"`
}

// NewPage fills the pagination fields from a normalized query and total.
func NewPage(q Query, items []Hit, total int64) *Page {
	if items == nil {
		items = []Hit{}
	}
	per := int64(q.PageSize)
	totalPages := (total + per - 1) / per
	return &Page{
		Items:        items,
		Query:        q.Text,
		CurrentPage:  q.Page,
		ItemsPerPage: q.PageSize,
		TotalItems:   total,
		TotalPages:   totalPages,
		HasNextPage:  int64(q.Page) < totalPages,
		HasPrevPage:  q.Page > 1,
	}
}
