package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"openbadges/internal/platform/middleware"
)

// Handlers bundles the per-registry handlers the router mounts.
type Handlers struct {
	Auth       *AuthHandler
	Profile    *ProfileHandler
	Company    *CompanyHandler
	Category   *CategoryHandler
	Experience *ExperienceHandler
	Badge      *BadgeHandler
}

// NewRouter wires the public surface. Token minting, the category read, the
// health probe, and metrics are public; everything else requires a bearer
// token.
func NewRouter(h Handlers, validator middleware.TokenValidator, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	h.Auth.Register(r)
	h.Category.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		h.Profile.Register(r)
		h.Company.Register(r)
		h.Experience.Register(r)
		h.Badge.Register(r)
	})
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
