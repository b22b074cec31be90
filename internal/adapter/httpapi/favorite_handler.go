package httpapi

import (
	"context"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/httpapi/middleware"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/usecase"
	"github.com/go-chi/chi/v5"
)

type FavoriteService interface {
	Add(ctx context.Context, userID, listingID string) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, listingID string) error
	List(ctx context.Context, userID string) ([]usecase.FavoriteView, error)
	Check(ctx context.Context, userID, listingID string) (bool, error)
}

type FavoriteHandler struct {
	favorites FavoriteService
	logger    *logger.Logger
}

func NewFavoriteHandler(favorites FavoriteService, log *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: log.Named("favorite_handler")}
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	favs, err := h.favorites.List(r.Context(), actor.UserID)
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal mengambil favorit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(favs),
		"data":    favs,
	})
}

func (h *FavoriteHandler) Check(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	ok, err := h.favorites.Check(r.Context(), actor.UserID, chi.URLParam(r, "umkmId"))
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal memeriksa favorit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"isFavorite": ok,
	})
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	fav, err := h.favorites.Add(r.Context(), actor.UserID, chi.URLParam(r, "umkmId"))
	if err != nil {
		respondDomainError(w, h.logger, err, "Gagal menambahkan favorit")
		return
	}
	respondData(w, http.StatusCreated, "UMKM ditambahkan ke favorit", fav)
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFromContext(r.Context())
	if err := h.favorites.Remove(r.Context(), actor.UserID, chi.URLParam(r, "umkmId")); err != nil {
		respondDomainError(w, h.logger, err, "Gagal menghapus favorit")
		return
	}
	respondData(w, http.StatusOK, "UMKM dihapus dari favorit", nil)
}
