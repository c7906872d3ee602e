// Package httpapi exposes the trip service over JSON HTTP.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/wanderlist/wanderlist/internal/service"
)

// Handler serves the trip API backed by the use-case service.
type Handler struct {
	svc *service.Service
}

// Config carries transport-level settings for the API handler.
type Config struct {
	// AllowedOrigins configures CORS. Empty disables cross-origin access.
	AllowedOrigins []string
}

// NewHandler builds the routed HTTP handler, wrapped for tracing.
func NewHandler(svc *service.Service, config Config) http.Handler {
	h := &Handler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(config.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   config.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", principalHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/up", h.handleHealth)

	r.Post("/users", h.handlePutUser)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", h.handleCreateTrip)
		r.Get("/", h.handleListTrips)
		r.Get("/public", h.handleListPublicTrips)

		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", h.handleGetTrip)
			r.Patch("/", h.handleUpdateTrip)
			r.Delete("/", h.handleDeleteTrip)
			r.Post("/restore", h.handleRestoreTrip)
			r.Post("/status", h.handleChangeTripStatus)
			r.Get("/events", h.handleListTripEvents)

			r.Route("/members", func(r chi.Router) {
				r.Get("/", h.handleListMembers)
				r.Post("/", h.handleInviteMember)
				r.Post("/accept", h.handleAcceptInvitation)
				r.Post("/reject", h.handleRejectInvitation)
				r.Post("/leave", h.handleLeaveTrip)
				r.Delete("/{memberID}", h.handleRemoveMember)
				r.Patch("/{memberID}/role", h.handleChangeMemberRole)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", h.handleListExpenses)
				r.Post("/", h.handleRecordExpense)
			})
		})
	})

	return otelhttp.NewHandler(r, "wanderlist.api")
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
