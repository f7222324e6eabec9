package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultShapeTableCoversArt(t *testing.T) {
	shapes := DefaultShapeTable()
	for _, code := range TileCodes() {
		_, ok := shapes.Lookup(code)
		assert.True(t, ok, "tile %d has art but no shape", code)
	}
}

func TestShapeTableLookupMiss(t *testing.T) {
	_, ok := DefaultShapeTable().Lookup(TileCode(94))
	assert.False(t, ok)
}

func TestAssetForMissing(t *testing.T) {
	assert.Equal(t, Asset{Key: "MudTile1"}, AssetFor(TileMud))
	assert.True(t, AssetFor(TileCode(94)).Missing())
	assert.False(t, AssetFor(TileGrass).Missing())
}

func TestAuditTiles(t *testing.T) {
	grid := TileGrid{
		{TileMud, TileGrass, TileCode(94)},
		{TileCode(94), TileWall, TileMud},
	}
	// 94 has neither; TileWall has a shape but no art.
	assert.Equal(t, 2, AuditTiles(grid, DefaultShapeTable()))
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "slope_bottom_left", ShapeSlopeBottomLeft.String())
	assert.Equal(t, "unknown", Shape(42).String())

	text, err := ShapeFull.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "full", string(text))
}

func TestTileClassification(t *testing.T) {
	assert.True(t, TileRiver5.IsRiver())
	assert.False(t, TileMountain5.IsRiver())
	assert.True(t, TileMountain15.IsMountain())
	assert.False(t, TileMud.IsMountain())
}

func TestPickUp(t *testing.T) {
	level := &LevelState{
		Tiles:   NewGrid(2, 2, TileMud),
		Objects: NewGrid(2, 2, ObjectNone),
	}
	level.Objects[1][0] = ObjectChip

	obj, ok := level.PickUp(1, 0)
	require.True(t, ok)
	assert.Equal(t, ObjectChip, obj)
	assert.Equal(t, ObjectNone, level.Objects[1][0])

	_, ok = level.PickUp(1, 0)
	assert.False(t, ok, "cell is empty after pickup")

	_, ok = level.PickUp(5, 5)
	assert.False(t, ok)
}

func TestCellAt(t *testing.T) {
	assert.Equal(t, Cell{Row: 0, Col: 0}, CellAt(0, 79.9, 80))
	assert.Equal(t, Cell{Row: 2, Col: 1}, CellAt(80, 160, 80))
	assert.Equal(t, Cell{Row: -1, Col: -1}, CellAt(-0.5, -80, 80))
}

func TestTileGridHelpers(t *testing.T) {
	g := TileGrid(NewGrid(3, 4, TileMud))
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 4, g.Cols())
	assert.True(t, g.InBounds(2, 3))
	assert.False(t, g.InBounds(3, 0))

	clone := g.Clone()
	clone[0][0] = TileGrass
	assert.Equal(t, TileMud, g[0][0])
	assert.Equal(t, 1, clone.Count(func(c TileCode) bool { return c == TileGrass }))

	assert.Equal(t, 0, TileGrid(nil).Cols())
}
