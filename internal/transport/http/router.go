package http

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterConfig carries the handlers and cross-cutting settings for the API
// router.
type RouterConfig struct {
	Events         *EventHandler
	Registrations  *RegistrationHandler
	Activities     *ActivityHandler
	AllowedOrigins []string
	Logger         *log.Logger
}

// NewRouter assembles the full API surface.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return RequestLogger(next, cfg.Logger)
	})
	r.Use(func(next http.Handler) http.Handler {
		return CORS(cfg.AllowedOrigins, next)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", HealthHandler)

	r.Route("/api", func(api chi.Router) {
		api.Use(WithActor)

		api.Route("/tour-events", func(events chi.Router) {
			events.Get("/", cfg.Events.List)
			events.Post("/", cfg.Events.Create)
			events.Get("/{id}", cfg.Events.Get)
			events.Put("/{id}", cfg.Events.Update)
			events.Post("/{id}/activate", cfg.Events.Activate)
			events.Post("/{id}/cancel", cfg.Events.Cancel)
			events.Get("/{id}/capacity", cfg.Events.Capacity)
			events.Post("/{id}/register", cfg.Registrations.Register)
			events.Get("/{id}/registrations", cfg.Registrations.ListByTourEvent)
			events.Post("/{id}/activities", cfg.Activities.Add)
			events.Put("/{id}/activities/{activityId}", cfg.Activities.Update)
			events.Delete("/{id}/activities/{activityId}", cfg.Activities.Remove)
			events.Get("/{id}/schedule", cfg.Activities.Schedule)
		})

		api.Route("/registrations", func(regs chi.Router) {
			regs.Get("/", cfg.Registrations.ListOwn)
			regs.Post("/{id}/approve", cfg.Registrations.Approve)
			regs.Post("/{id}/reject", cfg.Registrations.Reject)
			regs.Post("/{id}/cancel", cfg.Registrations.Cancel)
		})
	})

	return r
}
