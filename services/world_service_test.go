package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ewaste-realm/server/collision"
	"ewaste-realm/server/models"
	"ewaste-realm/server/terrain"
)

func newTestWorld(t *testing.T) *WorldService {
	t.Helper()
	ws, err := NewWorldService(newTestLevelManager(t, newTestStore(t)), 4, 11)
	require.NoError(t, err)
	return ws
}

// useLevel swaps the overworld for a hand-made level.
func useLevel(t *testing.T, ws *WorldService, tiles models.TileGrid, objects models.ObjectGrid, obstacles []models.Obstacle) *Level {
	t.Helper()
	level, err := ws.levels.Register(&models.LevelState{
		ID:        "test-" + t.Name(),
		Kind:      models.LevelOverworld,
		Tiles:     tiles,
		Objects:   objects,
		Obstacles: obstacles,
	})
	require.NoError(t, err)
	ws.overworldID = level.State.ID
	return level
}

func mudGrid() models.TileGrid {
	return models.TileGrid(models.NewGrid(3, 3, models.TileMud))
}

func addTestPlayer(t *testing.T, ws *WorldService, id string, x, y float64) *models.Player {
	t.Helper()
	p := &models.Player{
		ID:       id,
		Username: "user-" + id,
		LevelID:  ws.overworldID,
		X:        x,
		Y:        y,
		Width:    60,
		Height:   60,
		Speed:    4,
		HP:       100,
		MaxHP:    100,
	}
	require.NoError(t, ws.AddPlayer(p))
	return p
}

func TestNewWorldService(t *testing.T) {
	ws := newTestWorld(t)
	assert.NotEmpty(t, ws.OverworldID())

	workshop, err := ws.levels.Get(WorkshopLevelID)
	require.NoError(t, err)
	assert.Equal(t, models.LevelWorkshop, workshop.State.Kind)
}

func TestAddPlayerSpawnsOnWalkableCell(t *testing.T) {
	ws := newTestWorld(t)
	p := &models.Player{ID: "p1", Username: "ana", LevelID: "some-old-level"}
	require.NoError(t, ws.AddPlayer(p))

	assert.Equal(t, ws.OverworldID(), p.LevelID)
	assert.Equal(t, float64(DefaultPlayerSize), p.Width)
	assert.Equal(t, DefaultMaxHP, p.HP)
	assert.Equal(t, float64(DefaultPlayerSpeed), p.Speed)

	level, err := ws.levels.Get(p.LevelID)
	require.NoError(t, err)
	for _, corner := range [][2]float64{{p.X, p.Y}, {p.X + p.Width - 1, p.Y}, {p.X, p.Y + p.Height - 1}, {p.X + p.Width - 1, p.Y + p.Height - 1}} {
		assert.False(t, level.Resolver.IsSolid(corner[0], corner[1]))
	}
	assert.False(t, touchesSolid(collision.Box{X: p.X, Y: p.Y, W: p.Width, H: p.Height}, level.State.Obstacles))
}

func TestSpawnPlayerUnknown(t *testing.T) {
	ws := newTestWorld(t)
	_, err := ws.SpawnPlayer("ghost")
	assert.True(t, errors.Is(err, ErrPlayerNotFound))
}

func TestMovePlayerErrors(t *testing.T) {
	ws := newTestWorld(t)
	useLevel(t, ws, mudGrid(), nil, nil)
	addTestPlayer(t, ws, "p1", 10, 10)

	_, err := ws.MovePlayer("ghost", "north")
	assert.True(t, errors.Is(err, ErrPlayerNotFound))

	_, err = ws.MovePlayer("p1", "up")
	assert.True(t, errors.Is(err, ErrInvalidDirection))
}

func TestMovePlayerAgainstWall(t *testing.T) {
	ws := newTestWorld(t)
	tiles := mudGrid()
	tiles[0][1] = models.TileWall
	useLevel(t, ws, tiles, nil, nil)
	p := addTestPlayer(t, ws, "p1", 20, 10)

	res, err := ws.MovePlayer("p1", "east")
	require.NoError(t, err)
	assert.True(t, res.BlockedX)
	assert.Equal(t, 20.0, p.X)

	res, err = ws.MovePlayer("p1", "southeast")
	require.NoError(t, err)
	assert.True(t, res.BlockedX)
	assert.False(t, res.BlockedY)
	assert.Equal(t, models.Position{X: 20, Y: 14}, res.Position)

	res, err = ws.MovePlayer("p1", "north")
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.Position.Y)
}

func TestMovePlayerPicksUpItem(t *testing.T) {
	ws := newTestWorld(t)
	objects := models.ObjectGrid(models.NewGrid(3, 3, models.ObjectNone))
	objects[1][1] = models.ObjectChip
	level := useLevel(t, ws, mudGrid(), objects, nil)
	p := addTestPlayer(t, ws, "p1", 50, 50)

	res, err := ws.MovePlayer("p1", "east")
	require.NoError(t, err)
	assert.Equal(t, "chip", res.PickedUp)
	assert.Equal(t, []string{"chip"}, p.Inventory)
	assert.Equal(t, models.ObjectNone, level.State.Objects[1][1])

	res, err = ws.MovePlayer("p1", "east")
	require.NoError(t, err)
	assert.Empty(t, res.PickedUp)
}

func TestMovePlayerObstacles(t *testing.T) {
	t.Run("solid blocks", func(t *testing.T) {
		ws := newTestWorld(t)
		useLevel(t, ws, mudGrid(), nil, []models.Obstacle{{X: 83, Y: 0, Width: 40, Height: 80, Kind: models.ObstacleSolid}})
		addTestPlayer(t, ws, "p1", 20, 10)

		res, err := ws.MovePlayer("p1", "east")
		require.NoError(t, err)
		assert.True(t, res.BlockedX)
		assert.Equal(t, 20.0, res.Position.X)
	})

	t.Run("slow halves speed", func(t *testing.T) {
		ws := newTestWorld(t)
		useLevel(t, ws, mudGrid(), nil, []models.Obstacle{{X: 0, Y: 0, Width: 80, Height: 80, Kind: models.ObstacleSlow}})
		addTestPlayer(t, ws, "p1", 10, 10)

		res, err := ws.MovePlayer("p1", "east")
		require.NoError(t, err)
		assert.Equal(t, 12.0, res.Position.X)
	})

	t.Run("damage has a cooldown", func(t *testing.T) {
		ws := newTestWorld(t)
		clock := time.Unix(1000, 0)
		ws.now = func() time.Time { return clock }
		useLevel(t, ws, mudGrid(), nil, []models.Obstacle{{X: 0, Y: 0, Width: 80, Height: 80, Kind: models.ObstacleDamage}})
		p := addTestPlayer(t, ws, "p1", 10, 10)

		res, err := ws.MovePlayer("p1", "east")
		require.NoError(t, err)
		assert.True(t, res.Damaged)
		assert.Equal(t, 97, p.HP)

		res, err = ws.MovePlayer("p1", "east")
		require.NoError(t, err)
		assert.False(t, res.Damaged)
		assert.Equal(t, 97, p.HP)

		clock = clock.Add(2 * time.Second)
		_, err = ws.MovePlayer("p1", "east")
		require.NoError(t, err)
		assert.Equal(t, 94, p.HP)
	})

	t.Run("running out of HP respawns", func(t *testing.T) {
		ws := newTestWorld(t)
		useLevel(t, ws, mudGrid(), nil, []models.Obstacle{{X: 0, Y: 0, Width: 80, Height: 80, Kind: models.ObstacleDamage}})
		p := addTestPlayer(t, ws, "p1", 10, 10)
		p.HP = 3

		res, err := ws.MovePlayer("p1", "east")
		require.NoError(t, err)
		assert.True(t, res.Respawned)
		assert.Equal(t, p.MaxHP, p.HP)
	})
}

func TestWorkshopRoundTrip(t *testing.T) {
	ws := newTestWorld(t)
	p := &models.Player{ID: "p1", Username: "ana"}
	require.NoError(t, ws.AddPlayer(p))
	overworld := p.LevelID
	before := models.Position{X: p.X, Y: p.Y}

	_, err := ws.ExitWorkshop("p1")
	assert.True(t, errors.Is(err, ErrNotInWorkshop))

	pos, err := ws.EnterWorkshop("p1")
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 400, Y: 400}, pos)
	assert.Equal(t, WorkshopLevelID, p.LevelID)

	// Step onto the destroy station at row 4, col 6.
	p.X, p.Y = 490, 330
	res, err := ws.MovePlayer("p1", "north")
	require.NoError(t, err)
	assert.Contains(t, res.Prompt, "anvil")

	pos, err = ws.ExitWorkshop("p1")
	require.NoError(t, err)
	assert.Equal(t, before, pos)
	assert.Equal(t, overworld, p.LevelID)
}

func TestRegenerateOverworld(t *testing.T) {
	ws := newTestWorld(t)
	outside := &models.Player{ID: "a", Username: "a"}
	inside := &models.Player{ID: "b", Username: "b"}
	require.NoError(t, ws.AddPlayer(outside))
	require.NoError(t, ws.AddPlayer(inside))
	_, err := ws.EnterWorkshop("b")
	require.NoError(t, err)

	old := ws.OverworldID()
	newID, err := ws.RegenerateOverworld(1234)
	require.NoError(t, err)
	assert.NotEqual(t, old, newID)
	assert.Equal(t, newID, ws.OverworldID())

	assert.Equal(t, newID, outside.LevelID)
	assert.Equal(t, WorkshopLevelID, inside.LevelID)

	_, err = ws.ExitWorkshop("b")
	require.NoError(t, err)
	assert.Equal(t, newID, inside.LevelID)
}

func TestRegenerateOverworldWithoutRoomChangesNothing(t *testing.T) {
	ws := newTestWorld(t)
	p := &models.Player{ID: "a", Username: "a"}
	require.NoError(t, ws.AddPlayer(p))
	before := *p
	old := ws.OverworldID()
	oldLevel, err := ws.levels.Get(old)
	require.NoError(t, err)

	// One blob covering the grid leaves no walkable cell.
	cfg := terrain.DefaultConfig(4, 4)
	cfg.Rivers.Count = 0
	cfg.Mountains = terrain.BlobSpec{Count: 1, MinRadius: 10, MaxRadius: 10}
	cfg.GrassWalks.Count = 0
	cfg.GrassBlobs.Count = 0
	cfg.ObjectCount = 0
	ws.levels.genCfg = cfg

	_, err = ws.RegenerateOverworld(3)
	require.Error(t, err)

	assert.Equal(t, old, ws.OverworldID())
	assert.Equal(t, before, *p)
	cached, err := ws.levels.Get(old)
	require.NoError(t, err)
	assert.Same(t, oldLevel, cached)
}

func TestOverworldSurvivesCacheEviction(t *testing.T) {
	ws := newTestWorld(t)
	ws.levels.SetCacheLimit(1)
	overworld, err := ws.levels.Get(ws.OverworldID())
	require.NoError(t, err)

	for seed := int64(1); seed <= 5; seed++ {
		_, err := ws.levels.Generate(seed)
		require.NoError(t, err)
	}

	// workshop + overworld + one unpinned level
	assert.Equal(t, 3, ws.levels.Cached())
	cached, err := ws.levels.Get(ws.OverworldID())
	require.NoError(t, err)
	assert.Same(t, overworld, cached)
}

func TestGetWorldUpdateForPlayer(t *testing.T) {
	ws := newTestWorld(t)
	a := &models.Player{ID: "a", Username: "a"}
	require.NoError(t, ws.AddPlayer(a))
	b := &models.Player{ID: "b", Username: "b", LevelID: a.LevelID, X: a.X, Y: a.Y}
	require.NoError(t, ws.AddPlayer(b))

	update := ws.GetWorldUpdateForPlayer("a")
	assert.Equal(t, "a", update.Self.ID)
	require.Len(t, update.Players, 1)
	assert.Equal(t, "b", update.Players[0].ID)

	view := update.Map
	assert.Equal(t, a.LevelID, view.LevelID)
	assert.Equal(t, 24, view.Rows)
	assert.LessOrEqual(t, len(view.Tiles), 9)
	require.NotEmpty(t, view.Tiles)

	level, err := ws.levels.Get(a.LevelID)
	require.NoError(t, err)
	for r, row := range view.Tiles {
		assert.LessOrEqual(t, len(row), 9)
		for c, code := range row {
			assert.Equal(t, level.State.Tiles[view.OriginRow+r][view.OriginCol+c], code)
		}
	}

	assert.Empty(t, ws.GetWorldUpdateForPlayer("ghost").Self.ID)
}

func TestLevelSnapshotIsDetached(t *testing.T) {
	ws := newTestWorld(t)
	objects := models.ObjectGrid(models.NewGrid(3, 3, models.ObjectNone))
	objects[0][0] = models.ObjectPhone
	level := useLevel(t, ws, mudGrid(), objects, nil)

	snap, err := ws.LevelSnapshot(level.State.ID)
	require.NoError(t, err)
	snap.Objects[0][0] = models.ObjectNone
	assert.Equal(t, models.ObjectPhone, level.State.Objects[0][0])
}
