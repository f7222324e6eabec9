package services

import (
	"errors"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ewaste-realm/server/models"
	"ewaste-realm/server/persistence"
	"ewaste-realm/server/terrain"
)

const testTileSize = 80

func newTestStore(t *testing.T) *persistence.JSONStore {
	t.Helper()
	db, err := persistence.NewJSONStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)
	return db
}

func newTestLevelManager(t *testing.T, db persistence.Storage) *LevelManager {
	t.Helper()
	lm := NewLevelManager(db, terrain.DefaultConfig(24, 24), testTileSize)
	lm.SetObstacles([]ObstacleSpec{
		{Kind: models.ObstacleSolid, Count: 2, Width: 40, Height: 40},
		{Kind: models.ObstacleSlow, Count: 1, Width: 60, Height: 60},
	})
	return lm
}

func TestLevelManagerGenerate(t *testing.T) {
	db := newTestStore(t)
	lm := newTestLevelManager(t, db)

	level, err := lm.Generate(5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), level.State.Seed)
	assert.Equal(t, models.LevelOverworld, level.State.Kind)
	assert.Equal(t, 24, level.State.Tiles.Rows())
	assert.NotEmpty(t, level.Walkable)
	assert.NotEmpty(t, level.State.ID)

	walkable := make(map[models.Cell]bool)
	for _, c := range level.Walkable {
		walkable[c] = true
	}
	for _, o := range level.State.Obstacles {
		cell := models.CellAt(o.X+o.Width/2, o.Y+o.Height/2, testTileSize)
		assert.True(t, walkable[cell], "obstacle at %+v is not on a walkable cell", cell)
	}

	cached, err := lm.Get(level.State.ID)
	require.NoError(t, err)
	assert.Same(t, level, cached)

	// A fresh manager over the same store loads the level back.
	other := newTestLevelManager(t, db)
	loaded, err := other.Get(level.State.ID)
	require.NoError(t, err)
	assert.Equal(t, level.State.Tiles, loaded.State.Tiles)
	assert.Equal(t, level.State.Obstacles, loaded.State.Obstacles)
	assert.Equal(t, level.Walkable, loaded.Walkable)
}

func TestLevelManagerGenerateIsSeeded(t *testing.T) {
	lm := newTestLevelManager(t, newTestStore(t))

	a, err := lm.Generate(77)
	require.NoError(t, err)
	b, err := lm.Generate(77)
	require.NoError(t, err)

	assert.NotEqual(t, a.State.ID, b.State.ID)
	assert.Equal(t, a.State.Tiles, b.State.Tiles)
	assert.Equal(t, a.State.Objects, b.State.Objects)
}

func TestLevelManagerCacheIsBounded(t *testing.T) {
	lm := newTestLevelManager(t, newTestStore(t))
	lm.SetCacheLimit(2)
	_, err := lm.Register(&models.LevelState{ID: "hub", Tiles: models.TileGrid{{models.TileMud}}})
	require.NoError(t, err)

	var ids []string
	for seed := int64(1); seed <= 25; seed++ {
		level, err := lm.Generate(seed)
		require.NoError(t, err)
		ids = append(ids, level.State.ID)
		assert.LessOrEqual(t, lm.Cached(), 3, "hub plus two generated levels")
	}

	_, err = lm.Get("hub")
	require.NoError(t, err, "registered levels are never evicted")

	// Evicted levels come back from storage.
	first, err := lm.Get(ids[0])
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.State.Seed)
	assert.LessOrEqual(t, lm.Cached(), 3)
}

func TestLevelManagerForgetUnpins(t *testing.T) {
	lm := newTestLevelManager(t, newTestStore(t))
	lm.SetCacheLimit(0)

	level, err := lm.Generate(9)
	require.NoError(t, err)
	lm.Pin(level.State.ID)
	_, err = lm.Generate(10)
	require.NoError(t, err)
	assert.Equal(t, 2, lm.Cached(), "the newest level is kept even over the limit")

	lm.Forget(level.State.ID)
	assert.Equal(t, 1, lm.Cached())
	_, err = lm.Generate(11)
	require.NoError(t, err)
	assert.Equal(t, 1, lm.Cached())
}

func TestLevelManagerGetMissing(t *testing.T) {
	lm := newTestLevelManager(t, newTestStore(t))
	_, err := lm.Get("missing")
	assert.True(t, errors.Is(err, persistence.ErrNotFound))
}

func TestLevelManagerRegister(t *testing.T) {
	lm := newTestLevelManager(t, newTestStore(t))

	_, err := lm.Register(&models.LevelState{Tiles: models.TileGrid{{models.TileMud}}})
	assert.Error(t, err)

	_, err = lm.Register(&models.LevelState{ID: "empty"})
	assert.Error(t, err)

	level, err := lm.Register(&models.LevelState{
		ID:    "hub",
		Kind:  models.LevelWorkshop,
		Tiles: models.TileGrid{{models.TileMud, models.TileWall}},
	})
	require.NoError(t, err)
	assert.Equal(t, models.ObjectGrid{{models.ObjectNone, models.ObjectNone}}, level.State.Objects)
	assert.Equal(t, []models.Cell{{Row: 0, Col: 0}}, level.Walkable)
	assert.False(t, level.State.CreatedAt.IsZero())

	replaced, err := lm.Register(&models.LevelState{ID: "hub", Tiles: models.TileGrid{{models.TileMud, models.TileMud}}})
	require.NoError(t, err)
	got, err := lm.Get("hub")
	require.NoError(t, err)
	assert.Same(t, replaced, got)
}

func TestPlaceObstacles(t *testing.T) {
	walkable := []models.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}}
	objects := models.ObjectGrid{
		{models.ObjectNone, models.ObjectChip},
		{models.ObjectNone, models.ObjectNone},
	}
	specs := []ObstacleSpec{
		{Kind: models.ObstacleSolid, Count: 2, Width: 40, Height: 20},
		{Kind: models.ObstacleDamage, Count: 3, Width: 80, Height: 80},
	}

	obstacles := placeObstacles(rand.New(rand.NewSource(1)), walkable, objects, specs, testTileSize)
	require.Len(t, obstacles, 3, "one cell holds an object")

	seen := make(map[models.Cell]bool)
	for i, o := range obstacles {
		cell := models.CellAt(o.X, o.Y, testTileSize)
		assert.False(t, seen[cell], "two obstacles share %+v", cell)
		seen[cell] = true
		assert.NotEqual(t, models.Cell{Row: 0, Col: 1}, cell)

		if i < 2 {
			assert.Equal(t, models.ObstacleSolid, o.Kind)
			assert.Equal(t, float64(cell.Col*testTileSize+20), o.X)
			assert.Equal(t, float64(cell.Row*testTileSize+30), o.Y)
		} else {
			assert.Equal(t, models.ObstacleDamage, o.Kind)
		}
	}
}
