package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/unrolled/render"

	"github.com/aweist/schedule-importer/converter"
)

func getRouter(ctrl converter.C, render *render.Render, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
	}).Handler)

	r.Get("/healthz", healthHandler(render))

	r.Route("/api", func(r chi.Router) {
		r.Post("/parse", parseHandler(ctrl, render, opts.MaxBytes))
		r.Post("/validate", validateHandler(ctrl, render, opts.MaxBytes))
		r.Post("/calendar", calendarHandler(ctrl, render, opts.MaxBytes))
	})

	return r
}
