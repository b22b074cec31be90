package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"go.uber.org/zap"
)

type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Message: message})
}

// respondDomainError maps domain sentinels to status codes. Anything
// unrecognized is logged and reported as a 500 without internals.
func respondDomainError(w http.ResponseWriter, log *logger.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		respondError(w, http.StatusNotFound, "UMKM tidak ditemukan")
	case errors.Is(err, domain.ErrFavoriteNotFound):
		respondError(w, http.StatusNotFound, "Favorit tidak ditemukan")
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, "Tidak memiliki akses untuk melakukan aksi ini")
	case errors.Is(err, domain.ErrDuplicateFavorite):
		respondError(w, http.StatusConflict, "UMKM sudah ada di favorit")
	case errors.Is(err, domain.ErrInvalidListingData), errors.Is(err, domain.ErrInvalidFilter):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error(fallback, zap.Error(err))
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// maxJSONBody caps every JSON request body.
const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(dst)
}

// respondDecodeError answers a failed decodeJSON: 413 for an oversized
// body, 400 with message otherwise.
func respondDecodeError(w http.ResponseWriter, err error, message string) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		respondError(w, http.StatusRequestEntityTooLarge, "Ukuran data terlalu besar")
		return
	}
	respondError(w, http.StatusBadRequest, message)
}
