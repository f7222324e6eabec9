// Package collision answers pixel-level solidity queries against a tile map
// whose tiles carry one of six collision shapes.
package collision

import (
	"errors"
	"fmt"
	"log"
	"math"

	"ewaste-realm/server/models"
)

// ErrEmptyGrid is returned when a resolver is built over a grid with no cells.
var ErrEmptyGrid = errors.New("collision: grid must have at least one row and one column")

// Resolver maps pixel coordinates onto a TileGrid and its ShapeTable. The
// grid is read, never written, so a Resolver may be shared by readers that
// do not mutate the level.
type Resolver struct {
	tiles    models.TileGrid
	shapes   models.ShapeTable
	tileSize int
	width    float64
	height   float64
	logger   *log.Logger
}

func NewResolver(tiles models.TileGrid, shapes models.ShapeTable, tileSize int) (*Resolver, error) {
	if tiles.Rows() == 0 || tiles.Cols() == 0 {
		return nil, ErrEmptyGrid
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("collision: tile size must be positive, got %d", tileSize)
	}
	return &Resolver{
		tiles:    tiles,
		shapes:   shapes,
		tileSize: tileSize,
		width:    float64(tiles.Cols() * tileSize),
		height:   float64(tiles.Rows() * tileSize),
		logger:   log.Default(),
	}, nil
}

// SetLogger redirects configuration-gap reports.
func (r *Resolver) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

func (r *Resolver) TileSize() int { return r.tileSize }

// Bounds returns the pixel size of the map.
func (r *Resolver) Bounds() (width, height float64) { return r.width, r.height }

// IsSolid reports whether the pixel point (x, y) is blocked. Anything outside
// the map is solid. A tile without a shape entry is treated as open; call
// FindWalkableCells or models.AuditTiles to surface such gaps.
func (r *Resolver) IsSolid(x, y float64) bool {
	if x < 0 || y < 0 || x >= r.width || y >= r.height || math.IsNaN(x) || math.IsNaN(y) {
		return true
	}

	t := float64(r.tileSize)
	col := int(x / t)
	row := int(y / t)
	lx := x - float64(col)*t
	ly := y - float64(row)*t

	shape, ok := r.shapes.Lookup(r.tiles[row][col])
	if !ok {
		return false
	}

	switch shape {
	case models.ShapeEmpty:
		return false
	case models.ShapeFull:
		return true
	case models.ShapeSlopeBottomLeft:
		return ly > lx
	case models.ShapeSlopeTopRight:
		return ly < lx
	case models.ShapeSlopeTopLeft:
		return ly < t-lx
	case models.ShapeSlopeBottomRight:
		return ly > t-lx
	default:
		return false
	}
}

// FindWalkableCells lists every cell whose tile shape is empty, in row-major
// order. Tiles missing from the shape table are logged once per code and
// left out.
func (r *Resolver) FindWalkableCells() []models.Cell {
	var cells []models.Cell
	var unmapped map[models.TileCode]bool

	for row := range r.tiles {
		for col, code := range r.tiles[row] {
			shape, ok := r.shapes.Lookup(code)
			if !ok {
				if unmapped == nil {
					unmapped = make(map[models.TileCode]bool)
				}
				if !unmapped[code] {
					unmapped[code] = true
					r.logger.Printf("CollisionResolver: tile type %d has no shape mapping", code)
				}
				continue
			}
			if shape == models.ShapeEmpty {
				cells = append(cells, models.Cell{Row: row, Col: col})
			}
		}
	}
	return cells
}
