package api

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"ewaste-realm/server/models"
)

// TileInfo describes one tile code for clients building their sprite map.
type TileInfo struct {
	Code  models.TileCode `json:"code"`
	Shape string          `json:"shape"`
	Asset string          `json:"asset,omitempty"`
}

// TileHandler lists the tile vocabulary.
type TileHandler struct {
	tiles []TileInfo
}

// NewTileHandler precomputes the tile list from shapes and the asset table.
// Codes known to only one of them are listed too, so gaps stay visible.
func NewTileHandler(shapes models.ShapeTable) *TileHandler {
	codes := make(map[models.TileCode]bool)
	for code := range shapes {
		codes[code] = true
	}
	for _, code := range models.TileCodes() {
		codes[code] = true
	}

	tiles := make([]TileInfo, 0, len(codes))
	for code := range codes {
		info := TileInfo{Code: code, Shape: "unmapped", Asset: models.AssetFor(code).Key}
		if shape, ok := shapes.Lookup(code); ok {
			info.Shape = shape.String()
		}
		tiles = append(tiles, info)
	}
	sort.Slice(tiles, func(i, j int) bool { return tiles[i].Code < tiles[j].Code })

	return &TileHandler{tiles: tiles}
}

// Routes registers tile routes.
func (h *TileHandler) Routes(r chi.Router) {
	r.Get("/tiles", h.List)
}

func (h *TileHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.tiles)
}
