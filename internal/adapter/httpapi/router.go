package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/adapter/httpapi/middleware"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// HealthChecker reports whether the search engine is reachable.
type HealthChecker interface {
	Health(ctx context.Context) bool
}

type RouterDeps struct {
	Search    *SearchHandler
	Maps      *MapsHandler
	UMKM      *UMKMHandler
	Favorites *FavoriteHandler
	Health    HealthChecker
	Metrics   http.Handler
	Observer  middleware.HTTPObserver
	JWTSecret string
	Timeout   time.Duration
}

func NewRouter(deps RouterDeps, log *logger.Logger) http.Handler {
	httpLog := log.Named("http")
	auth := middleware.JWTAuth(deps.JWTSecret, httpLog, respondError)
	adminOnly := middleware.AdminOnly(respondError)
	if deps.Timeout <= 0 {
		deps.Timeout = 30 * time.Second
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.RealIP)
	mux.Use(middleware.RequestLogger(httpLog, deps.Observer))
	mux.Use(chimw.Recoverer)
	mux.Use(chimw.Timeout(deps.Timeout))

	mux.Get("/health", healthHandler(deps.Health))
	if deps.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	mux.Route("/api/search", func(r chi.Router) {
		r.With(middleware.OptionalAuth(deps.JWTSecret)).Get("/", deps.Search.Search)
		r.Group(func(r chi.Router) {
			r.Use(auth, adminOnly)
			r.Post("/reindex", deps.Search.Reindex)
			r.Get("/stats", deps.Search.Stats)
		})
	})

	mux.Route("/api/maps", func(r chi.Router) {
		r.Post("/resolve", deps.Maps.Resolve)
		r.Post("/coordinates", deps.Maps.Coordinates)
		r.Post("/validate", deps.Maps.Validate)
	})

	mux.Route("/api/umkm", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(deps.JWTSecret))
			r.Get("/", deps.UMKM.List)
			r.Get("/top", deps.UMKM.Top)
			r.Get("/{id}", deps.UMKM.Get)
			r.Post("/{id}/view", deps.UMKM.View)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/", deps.UMKM.Create)
			r.Put("/{id}", deps.UMKM.Update)
			r.Delete("/{id}", deps.UMKM.Delete)
			r.Post("/{id}/photos", deps.UMKM.UploadPhoto)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth, adminOnly)
			r.Post("/{id}/verify", deps.UMKM.Verify)
			r.Get("/stats/overview", deps.UMKM.Statistics)
		})
	})

	mux.Route("/api/favorites", func(r chi.Router) {
		r.Use(auth)
		r.Get("/", deps.Favorites.List)
		r.Get("/check/{umkmId}", deps.Favorites.Check)
		r.Post("/{umkmId}", deps.Favorites.Add)
		r.Delete("/{umkmId}", deps.Favorites.Remove)
	})

	mux.With(auth, adminOnly).Get("/api/activity-logs", deps.UMKM.ActivityLogs)

	mux.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Endpoint tidak ditemukan")
	})
	return mux
}

func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		searchEngine := "unavailable"
		if checker != nil && checker.Health(r.Context()) {
			searchEngine = "available"
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"status":       "ok",
			"searchEngine": searchEngine,
			"timestamp":    time.Now().UTC(),
		})
	}
}
