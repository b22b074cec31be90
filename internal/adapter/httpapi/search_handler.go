package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/httpapi/middleware"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/search"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.uber.org/zap"
)

type SearchService interface {
	Search(ctx context.Context, q search.Query) (*search.Page, error)
	Stats(ctx context.Context) (*search.IndexStats, string, error)
}

type Reindexer interface {
	ReindexAll(ctx context.Context) search.ReindexResult
}

type SearchHandler struct {
	router    SearchService
	reindexer Reindexer
	logger    *logger.Logger
}

func NewSearchHandler(router SearchService, reindexer Reindexer, log *logger.Logger) *SearchHandler {
	return &SearchHandler{router: router, reindexer: reindexer, logger: log.Named("search_handler")}
}

type paginationResponse struct {
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int64 `json:"totalPages"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

type searchResponse struct {
	Success          bool               `json:"success"`
	Query            string             `json:"query"`
	Count            int                `json:"count"`
	Data             []search.Hit       `json:"data"`
	SearchEngine     string             `json:"searchEngine"`
	ProcessingTimeMs int64              `json:"processingTimeMs,omitempty"`
	Pagination       paginationResponse `json:"pagination"`
}

func newSearchResponse(p *search.Page) searchResponse {
	return searchResponse{
		Success:          true,
		Query:            p.Query,
		Count:            len(p.Items),
		Data:             p.Items,
		SearchEngine:     p.Engine,
		ProcessingTimeMs: p.ProcessingTimeMs,
		Pagination: paginationResponse{
			CurrentPage:  p.CurrentPage,
			ItemsPerPage: p.ItemsPerPage,
			TotalItems:   p.TotalItems,
			TotalPages:   p.TotalPages,
			HasNextPage:  p.HasNextPage,
			HasPrevPage:  p.HasPrevPage,
		},
	}
}

// queryFromRequest reads q, kategori, status, kecamatan, limit, page and
// sort. Only admins may look past approved listings.
func queryFromRequest(r *http.Request) search.Query {
	v := r.URL.Query()
	q := search.Query{
		Text:     v.Get("q"),
		Category: v.Get("kategori"),
		District: v.Get("kecamatan"),
		Sort:     v.Get("sort"),
	}
	q.PageSize, _ = strconv.Atoi(v.Get("limit"))
	q.Page, _ = strconv.Atoi(v.Get("page"))

	if actor, ok := middleware.ActorFromContext(r.Context()); ok {
		status := domain.ListingStatus(v.Get("status"))
		if actor.IsAdmin && status.Valid() {
			q.Status = status
		}
	}
	return q.Normalize()
}

// Search serves GET /api/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	page, err := h.router.Search(r.Context(), q)
	if err != nil {
		h.logger.Error("Search failed", zap.String("query", q.Text), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Pencarian gagal")
		return
	}
	writeJSON(w, http.StatusOK, newSearchResponse(page))
}

// Reindex serves POST /api/search/reindex.
func (h *SearchHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	result := h.reindexer.ReindexAll(r.Context())
	if !result.Success {
		writeJSON(w, http.StatusInternalServerError, envelope{
			Success: false,
			Message: "Gagal melakukan reindexing",
			Error:   result.Error,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("Berhasil mengindex %d UMKM", result.Count),
		"taskUid": result.TaskUID,
	})
}

// Stats serves GET /api/search/stats.
func (h *SearchHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, backend, err := h.router.Stats(r.Context())
	if err != nil {
		h.logger.Error("Search stats failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Gagal mengambil statistik")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"searchEngine": backend,
		"data":         stats,
	})
}
