package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ewaste-realm/server/models"
	"ewaste-realm/server/persistence"
	"ewaste-realm/server/services"
)

// LevelHandler exposes generation and collision queries over HTTP.
type LevelHandler struct {
	world *services.WorldService
}

func NewLevelHandler(world *services.WorldService) *LevelHandler {
	return &LevelHandler{world: world}
}

// Routes registers level routes.
func (h *LevelHandler) Routes(r chi.Router) {
	r.Post("/levels", h.Generate)
	r.Route("/levels/{id}", func(lr chi.Router) {
		lr.Get("/", h.Get)
		lr.Get("/walkable", h.Walkable)
		lr.Get("/solid", h.Solid)
	})
}

type generateRequest struct {
	Seed int64 `json:"seed"`
	// Activate replaces the live overworld with the new level.
	Activate bool `json:"activate"`
}

type levelSummary struct {
	ID        string           `json:"id"`
	Kind      models.LevelKind `json:"kind"`
	Seed      int64            `json:"seed"`
	Rows      int              `json:"rows"`
	Cols      int              `json:"cols"`
	Walkable  int              `json:"walkable"`
	Obstacles int              `json:"obstacles"`
	Active    bool             `json:"active"`
}

// Generate creates and stores a new overworld level.
func (h *LevelHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		errorJSON(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var level *services.Level
	var err error
	if req.Activate {
		var id string
		if id, err = h.world.RegenerateOverworld(req.Seed); err == nil {
			level, err = h.world.Levels().Get(id)
		}
	} else {
		level, err = h.world.Levels().Generate(req.Seed)
	}
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, levelSummary{
		ID:        level.State.ID,
		Kind:      level.State.Kind,
		Seed:      level.State.Seed,
		Rows:      level.State.Tiles.Rows(),
		Cols:      level.State.Tiles.Cols(),
		Walkable:  len(level.Walkable),
		Obstacles: len(level.State.Obstacles),
		Active:    level.State.ID == h.world.OverworldID(),
	})
}

// Get returns the full tile, object and obstacle layers of a level.
func (h *LevelHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.world.LevelSnapshot(chi.URLParam(r, "id"))
	if err != nil {
		levelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

// Walkable lists the cells a player may stand on.
func (h *LevelHandler) Walkable(w http.ResponseWriter, r *http.Request) {
	level, err := h.world.Levels().Get(chi.URLParam(r, "id"))
	if err != nil {
		levelError(w, err)
		return
	}
	cells := level.Walkable
	if cells == nil {
		cells = []models.Cell{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(cells),
		"cells": cells,
	})
}

// Solid answers a single pixel collision query: ?x=&y=
func (h *LevelHandler) Solid(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		errorJSON(w, http.StatusBadRequest, "x and y must be numbers")
		return
	}

	level, err := h.world.Levels().Get(chi.URLParam(r, "id"))
	if err != nil {
		levelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"x":     x,
		"y":     y,
		"cell":  models.CellAt(x, y, level.Resolver.TileSize()),
		"solid": level.Resolver.IsSolid(x, y),
	})
}

func levelError(w http.ResponseWriter, err error) {
	if errors.Is(err, persistence.ErrNotFound) {
		errorJSON(w, http.StatusNotFound, "level not found")
		return
	}
	errorJSON(w, http.StatusInternalServerError, err.Error())
}
