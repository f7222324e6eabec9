// Package api serves the read-mostly REST view of levels and tiles next to
// the websocket game protocol.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"ewaste-realm/server/config"
	"ewaste-realm/server/services"
)

// NewAPIRouter builds the /api router with middlewares and routes.
func NewAPIRouter(cfg config.Config, world *services.WorldService) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	lh := NewLevelHandler(world)
	th := NewTileHandler(world.Levels().Shapes())
	r.Route("/v1", func(sub chi.Router) {
		sub.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{
				"status":    "ok",
				"overworld": world.OverworldID(),
			})
		})
		lh.Routes(sub)
		th.Routes(sub)
	})

	return r
}
