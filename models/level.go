package models

import (
	"math"
	"time"
)

// TileGrid is a rows x cols matrix of tile codes, indexed [row][col].
type TileGrid [][]TileCode

// ObjectGrid is the object layer parallel to a TileGrid.
type ObjectGrid [][]ObjectCode

// Cell addresses one grid cell.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewGrid returns a rows x cols matrix filled with fill.
func NewGrid[T any](rows, cols int, fill T) [][]T {
	grid := make([][]T, rows)
	for r := range grid {
		grid[r] = make([]T, cols)
		for c := range grid[r] {
			grid[r][c] = fill
		}
	}
	return grid
}

// Rows returns the number of rows.
func (g TileGrid) Rows() int { return len(g) }

// Cols returns the number of columns, or 0 for an empty grid.
func (g TileGrid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// InBounds reports whether (row, col) lies inside the grid.
func (g TileGrid) InBounds(row, col int) bool {
	return row >= 0 && row < g.Rows() && col >= 0 && col < g.Cols()
}

// Clone returns a deep copy of the grid.
func (g TileGrid) Clone() TileGrid {
	out := make(TileGrid, len(g))
	for r := range g {
		out[r] = append([]TileCode(nil), g[r]...)
	}
	return out
}

// Count returns how many cells satisfy match.
func (g TileGrid) Count(match func(TileCode) bool) int {
	n := 0
	for _, row := range g {
		for _, code := range row {
			if match(code) {
				n++
			}
		}
	}
	return n
}

// InBounds reports whether (row, col) lies inside the object layer.
func (g ObjectGrid) InBounds(row, col int) bool {
	return row >= 0 && row < len(g) && col >= 0 && col < len(g[row])
}

// Clone returns a deep copy of the object layer.
func (g ObjectGrid) Clone() ObjectGrid {
	out := make(ObjectGrid, len(g))
	for r := range g {
		out[r] = append([]ObjectCode(nil), g[r]...)
	}
	return out
}

// LevelState is everything one level owns at runtime. Generation produces a
// fresh value; mode transitions swap which LevelState a player points at.
type LevelState struct {
	ID        string     `json:"id"`
	Kind      LevelKind  `json:"kind"`
	Seed      int64      `json:"seed"`
	Tiles     TileGrid   `json:"tiles"`
	Objects   ObjectGrid `json:"objects"`
	Obstacles []Obstacle `json:"obstacles"`
	CreatedAt time.Time  `json:"created_at"`
}

// Width returns the pixel width of the level for the given tile size.
func (l *LevelState) Width(tileSize int) float64 {
	return float64(l.Tiles.Cols() * tileSize)
}

// Height returns the pixel height of the level for the given tile size.
func (l *LevelState) Height(tileSize int) float64 {
	return float64(l.Tiles.Rows() * tileSize)
}

// Clone returns a copy that shares nothing with l.
func (l *LevelState) Clone() *LevelState {
	c := *l
	c.Tiles = l.Tiles.Clone()
	c.Objects = l.Objects.Clone()
	c.Obstacles = append([]Obstacle(nil), l.Obstacles...)
	return &c
}

// PickUp removes the collectible at (row, col), if any, and returns it.
func (l *LevelState) PickUp(row, col int) (ObjectCode, bool) {
	if !l.Objects.InBounds(row, col) {
		return ObjectNone, false
	}
	obj := l.Objects[row][col]
	if obj.Name() == "" {
		return ObjectNone, false
	}
	l.Objects[row][col] = ObjectNone
	return obj, true
}

// CellAt returns the cell containing the pixel point (x, y).
func CellAt(x, y float64, tileSize int) Cell {
	t := float64(tileSize)
	return Cell{
		Row: int(math.Floor(y / t)),
		Col: int(math.Floor(x / t)),
	}
}
