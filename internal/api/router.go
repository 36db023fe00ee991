package api

import (
	"geo-form-service/internal/api/handlers"
	"geo-form-service/internal/domain"
	"geo-form-service/internal/ports"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/justinas/alice"
)

// Deps are the adapters and settings the HTTP layer needs.
type Deps struct {
	Sessions   ports.SessionStore
	Repo       ports.SubmissionRepository
	Default    domain.Coordinates
	Zoom       int
	TileURL    string
	SessionTTL time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	form := &handlers.FormHandler{
		Store:   d.Sessions,
		Repo:    d.Repo,
		Default: d.Default,
		Zoom:    d.Zoom,
		TileURL: d.TileURL,
	}
	loc := &handlers.LocationHandler{
		Store:   d.Sessions,
		Default: d.Default,
		Zoom:    d.Zoom,
	}
	subs := &handlers.SubmissionHandler{
		Store:   d.Sessions,
		Repo:    d.Repo,
		Default: d.Default,
	}

	r := chi.NewRouter()
	r.Get("/health", handlers.Health)

	r.Group(func(r chi.Router) {
		r.Use(handlers.Sessions(d.SessionTTL))

		r.Get("/", form.Page)
		r.Post("/location", form.SetLocation)
		r.Post("/submit", form.Submit)

		r.Route("/api", func(r chi.Router) {
			r.Get("/location", loc.Get)
			r.Put("/location", loc.Manual)
			r.Post("/location/click", loc.Click)

			r.Get("/submissions", subs.List)
			r.Post("/submissions", subs.Create)
			r.Get("/submissions.geojson", subs.GeoJSON)
		})
	})

	return alice.New(
		recoverPanic,
		requestIDMiddleware,
		loggingMiddleware,
		corsMiddleware(),
		gzipMiddleware,
	).Then(r)
}
