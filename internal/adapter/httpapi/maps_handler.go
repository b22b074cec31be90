package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/maplink"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"go.uber.org/zap"
)

type MapInspector interface {
	Inspect(ctx context.Context, raw string) maplink.Inspection
}

type MapsHandler struct {
	inspector MapInspector
	logger    *logger.Logger
}

func NewMapsHandler(inspector MapInspector, log *logger.Logger) *MapsHandler {
	return &MapsHandler{inspector: inspector, logger: log.Named("maps_handler")}
}

type mapsRequest struct {
	URL string `json:"url"`
}

func (h *MapsHandler) readURL(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req mapsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondDecodeError(w, err, "")
			return "", false
		}
		h.logger.Debug("Failed to decode maps request", zap.Error(err))
	}
	raw := strings.TrimSpace(req.URL)
	if raw == "" {
		respondError(w, http.StatusBadRequest, "URL tidak boleh kosong")
		return "", false
	}
	return raw, true
}

// Resolve serves POST /api/maps/resolve.
func (h *MapsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readURL(w, r)
	if !ok {
		return
	}
	in := h.inspector.Inspect(r.Context(), raw)
	respondData(w, http.StatusOK, "", map[string]interface{}{
		"originalUrl": in.OriginalURL,
		"resolvedUrl": in.ResolvedURL,
		"isShortlink": in.IsShortlink,
		"coordinates": in.Coordinates,
	})
}

// Coordinates serves POST /api/maps/coordinates.
func (h *MapsHandler) Coordinates(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readURL(w, r)
	if !ok {
		return
	}
	in := h.inspector.Inspect(r.Context(), raw)
	if in.Coordinates == nil {
		writeJSON(w, http.StatusBadRequest, envelope{
			Success: false,
			Message: "Tidak dapat mengekstrak koordinat dari URL",
			Data: map[string]string{
				"originalUrl": in.OriginalURL,
				"resolvedUrl": in.ResolvedURL,
			},
		})
		return
	}
	respondData(w, http.StatusOK, "", map[string]interface{}{
		"originalUrl": in.OriginalURL,
		"resolvedUrl": in.ResolvedURL,
		"coordinates": in.Coordinates,
	})
}

// Validate serves POST /api/maps/validate. Non-Google URLs are rejected
// without any network call.
func (h *MapsHandler) Validate(w http.ResponseWriter, r *http.Request) {
	raw, ok := h.readURL(w, r)
	if !ok {
		return
	}
	if !maplink.IsGoogleMaps(raw) {
		respondData(w, http.StatusOK, "", map[string]interface{}{
			"isValid":      false,
			"isGoogleMaps": false,
			"message":      "Bukan URL Google Maps yang valid",
		})
		return
	}

	in := h.inspector.Inspect(r.Context(), raw)
	message := "URL valid tapi koordinat tidak ditemukan"
	if in.Coordinates != nil {
		message = "URL valid dan koordinat ditemukan"
	}
	respondData(w, http.StatusOK, "", map[string]interface{}{
		"isValid":      in.Coordinates != nil,
		"isGoogleMaps": true,
		"isShortlink":  in.OriginalURL != in.ResolvedURL,
		"resolvedUrl":  in.ResolvedURL,
		"coordinates":  in.Coordinates,
		"message":      message,
	})
}
