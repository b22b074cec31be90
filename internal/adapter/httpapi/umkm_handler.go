package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/httpapi/middleware"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/search"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/usecase"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ListingService interface {
	Create(ctx context.Context, actor domain.Actor, in usecase.ListingInput) (*domain.Listing, error)
	Update(ctx context.Context, actor domain.Actor, id string, in usecase.ListingInput) (*domain.Listing, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Verify(ctx context.Context, admin domain.Actor, id string, action domain.ModerationAction, reason string) (*domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	List(ctx context.Context, q search.Query) (*search.Page, error)
	IncrementView(ctx context.Context, id string) (int64, error)
	Top(ctx context.Context, limit int64) ([]*domain.Listing, error)
	Statistics(ctx context.Context) (*domain.Statistics, error)
	ListActivityLogs(ctx context.Context, page, pageSize int) ([]*domain.ActivityLog, int64, error)
}

type PhotoService interface {
	Upload(ctx context.Context, actor domain.Actor, listingID, fileName, contentType string, data []byte) (string, error)
}

type UMKMHandler struct {
	listings ListingService
	photos   PhotoService
	logger   *logger.Logger
}

func NewUMKMHandler(listings ListingService, photos PhotoService, log *logger.Logger) *UMKMHandler {
	return &UMKMHandler{listings: listings, photos: photos, logger: log.Named("umkm_handler")}
}

type listingRequest struct {
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	Category       string                 `json:"category"`
	Address        string                 `json:"address"`
	District       string                 `json:"district"`
	MapsURL        string                 `json:"maps_url"`
	Location       *domain.Location       `json:"location"`
	OperatingHours *domain.OperatingHours `json:"operating_hours"`
	Contact        *domain.Contact        `json:"contact"`
	Payments       []domain.PaymentMethod `json:"payments"`
	Status         domain.ListingStatus   `json:"status"`
}

func (req listingRequest) input() usecase.ListingInput {
	return usecase.ListingInput{
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		Address:        req.Address,
		District:       req.District,
		MapsURL:        req.MapsURL,
		Location:       req.Location,
		OperatingHours: req.OperatingHours,
		Contact:        req.Contact,
		Payments:       req.Payments,
		Status:         req.Status,
	}
}

type verifyRequest struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

func moderationAction(s string) (domain.ModerationAction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve", "approved":
		return domain.ActionApproved, true
	case "reject", "rejected":
		return domain.ActionRejected, true
	}
	return "", false
}

// List serves GET /api/umkm. Owners may pass mine=true to see their own
// entries in any status.
func (h *UMKMHandler) List(w http.ResponseWriter, r *http.Request) {
	q := queryFromRequest(r)
	if actor, ok := middleware.ActorFromContext(r.Context()); ok && r.URL.Query().Get("mine") == "true" {
		q.OwnerID = actor.UserID
		if status := domain.ListingStatus(r.URL.Query().Get("status")); status.Valid() {
			q.Status = status
		}
	}
	page, err := h.listings.List(r.Context(), q)
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal mengambil data UMKM")
		return
	}
	writeJSON(w, http.StatusOK, newSearchResponse(page))
}

// Top serves GET /api/umkm/top.
func (h *UMKMHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	top, err := h.listings.Top(r.Context(), limit)
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal mengambil UMKM terpopuler")
		return
	}
	respondData(w, http.StatusOK, "", top)
}

// Statistics serves GET /api/umkm/stats/overview.
func (h *UMKMHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	st, err := h.listings.Statistics(r.Context())
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal mengambil statistik")
		return
	}
	respondData(w, http.StatusOK, "", st)
}

// Get serves GET /api/umkm/{id}. Unapproved entries are only visible to
// their owner and to admins.
func (h *UMKMHandler) Get(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal mengambil data UMKM")
		return
	}
	if !listing.IsApproved() {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok || (!actor.IsAdmin && actor.UserID != listing.OwnerID) {
			respondError(w, http.StatusNotFound, "UMKM tidak ditemukan")
			return
		}
	}
	respondData(w, http.StatusOK, "", listing)
}

// Create serves POST /api/umkm.
func (h *UMKMHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	var req listingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDecodeError(w, err, "Format data tidak valid")
		return
	}
	listing, err := h.listings.Create(r.Context(), actor, req.input())
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal membuat UMKM")
		return
	}
	respondData(w, http.StatusCreated, "UMKM berhasil dibuat dan menunggu verifikasi", listing)
}

// Update serves PUT /api/umkm/{id}.
func (h *UMKMHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	var req listingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDecodeError(w, err, "Format data tidak valid")
		return
	}
	listing, err := h.listings.Update(r.Context(), actor, chi.URLParam(r, "id"), req.input())
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal memperbarui UMKM")
		return
	}
	respondData(w, http.StatusOK, "UMKM berhasil diperbarui", listing)
}

// Delete serves DELETE /api/umkm/{id}.
func (h *UMKMHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	if err := h.listings.Delete(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		respondDomainError(w, h.logger, err, "Gagal menghapus UMKM")
		return
	}
	respondData(w, http.StatusOK, "UMKM berhasil dihapus", nil)
}

// Verify serves POST /api/umkm/{id}/verify.
func (h *UMKMHandler) Verify(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondDecodeError(w, err, "Format data tidak valid")
		return
	}
	action, ok := moderationAction(req.Action)
	if !ok {
		respondError(w, http.StatusBadRequest, "Action harus approve atau reject")
		return
	}
	if action == domain.ActionRejected && strings.TrimSpace(req.Reason) == "" {
		respondError(w, http.StatusBadRequest, "Alasan penolakan harus diisi")
		return
	}

	listing, err := h.listings.Verify(r.Context(), actor, chi.URLParam(r, "id"), action, req.Reason)
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal memverifikasi UMKM")
		return
	}
	message := "UMKM berhasil disetujui"
	if action == domain.ActionRejected {
		message = "UMKM berhasil ditolak"
	}
	respondData(w, http.StatusOK, message, listing)
}

// View serves POST /api/umkm/{id}/view.
func (h *UMKMHandler) View(w http.ResponseWriter, r *http.Request) {
	views, err := h.listings.IncrementView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal menambah jumlah kunjungan")
		return
	}
	respondData(w, http.StatusOK, "", map[string]int64{"views": views})
}

// UploadPhoto serves POST /api/umkm/{id}/photos with a multipart "photo"
// field.
func (h *UMKMHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxPhotoBytes+1<<20)

	file, header, err := r.FormFile("photo")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "Ukuran foto terlalu besar")
			return
		}
		respondError(w, http.StatusBadRequest, "File foto tidak ditemukan")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, usecase.MaxPhotoBytes+1))
	if err != nil {
		h.logger.Error("Failed to read uploaded photo", zap.Error(err))
		respondError(w, http.StatusBadRequest, "Gagal membaca file foto")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	url, err := h.photos.Upload(r.Context(), actor, chi.URLParam(r, "id"), header.Filename, contentType, data)
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal mengunggah foto")
		return
	}
	respondData(w, http.StatusCreated, "Foto berhasil diunggah", map[string]string{"url": url})
}

type activityLogPage struct {
	Logs        []*domain.ActivityLog `json:"logs"`
	CurrentPage int                   `json:"currentPage"`
	TotalItems  int64                 `json:"totalItems"`
	TotalPages  int64                 `json:"totalPages"`
}

// ActivityLogs serves GET /api/activity-logs.
func (h *UMKMHandler) ActivityLogs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = search.DefaultPageSize
	}
	if limit > search.MaxPageSize {
		limit = search.MaxPageSize
	}

	logs, total, err := h.listings.ListActivityLogs(r.Context(), page, limit)
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal mengambil log aktivitas")
		return
	}
	if logs == nil {
		logs = []*domain.ActivityLog{}
	}
	respondData(w, http.StatusOK, "", activityLogPage{
		Logs:        logs,
		CurrentPage: page,
		TotalItems:  total,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
	})
}
