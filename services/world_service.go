package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"ewaste-realm/server/collision"
	"ewaste-realm/server/maps"
	"ewaste-realm/server/messages"
	"ewaste-realm/server/models"
)

// WorkshopLevelID is the fixed id of the hand-authored workshop level.
const WorkshopLevelID = "workshop"

const (
	damageAmount   = 3
	damageCooldown = 1500 * time.Millisecond
	slowFactor     = 0.5
)

var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrNotInWorkshop    = errors.New("player is not in the workshop")
)

var directions = map[string][2]float64{
	"north":     {0, -1},
	"south":     {0, 1},
	"east":      {1, 0},
	"west":      {-1, 0},
	"northeast": {1, -1},
	"northwest": {-1, -1},
	"southeast": {1, 1},
	"southwest": {-1, 1},
}

// MoveResult reports what happened during one movement step.
type MoveResult struct {
	Position  models.Position
	BlockedX  bool
	BlockedY  bool
	PickedUp  string // inventory name of a collected item, if any
	Prompt    string // workshop interaction text, if any
	Damaged   bool
	Respawned bool
}

type returnPoint struct {
	levelID string
	pos     models.Position
}

// WorldService manages the game world. Every read or write of player state
// and of level object layers goes through worldMutex.
type WorldService struct {
	levels      *LevelManager
	overworldID string
	players     map[string]*models.Player
	returns     map[string]returnPoint
	viewRadius  int
	rng         *rand.Rand
	now         func() time.Time
	worldMutex  sync.RWMutex
}

// NewWorldService registers the workshop and generates the first overworld.
// A zero seed generates a random overworld.
func NewWorldService(levels *LevelManager, viewRadius int, seed int64) (*WorldService, error) {
	rngSeed := seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ws := &WorldService{
		levels:     levels,
		players:    make(map[string]*models.Player),
		returns:    make(map[string]returnPoint),
		viewRadius: viewRadius,
		rng:        rand.New(rand.NewSource(rngSeed)),
		now:        time.Now,
	}

	if _, err := levels.Register(&models.LevelState{
		ID:    WorkshopLevelID,
		Kind:  models.LevelWorkshop,
		Tiles: maps.Workshop(),
	}); err != nil {
		return nil, fmt.Errorf("failed to register workshop: %v", err)
	}

	overworld, err := levels.Generate(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to generate overworld: %v", err)
	}
	levels.Pin(overworld.State.ID)
	ws.overworldID = overworld.State.ID

	return ws, nil
}

// OverworldID returns the id of the current overworld.
func (ws *WorldService) OverworldID() string {
	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()
	return ws.overworldID
}

func (ws *WorldService) Levels() *LevelManager { return ws.levels }

// AddPlayer puts a player into the world. Players whose saved level no
// longer exists are spawned on the current overworld.
func (ws *WorldService) AddPlayer(player *models.Player) error {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	if player.Width <= 0 || player.Height <= 0 {
		player.Width, player.Height = DefaultPlayerSize, DefaultPlayerSize
	}
	if player.MaxHP <= 0 {
		player.MaxHP, player.HP = DefaultMaxHP, DefaultMaxHP
	}
	if player.Speed <= 0 {
		player.Speed = DefaultPlayerSpeed
	}

	if player.LevelID != ws.overworldID && player.LevelID != WorkshopLevelID {
		if err := ws.spawnLocked(player); err != nil {
			return err
		}
	}

	ws.players[player.ID] = player
	return nil
}

// RemovePlayer removes a player from the world
func (ws *WorldService) RemovePlayer(playerID string) {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	delete(ws.players, playerID)
	delete(ws.returns, playerID)
}

// Player returns a copy of a player's current state.
func (ws *WorldService) Player(playerID string) (models.Player, error) {
	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()

	player, exists := ws.players[playerID]
	if !exists {
		return models.Player{}, ErrPlayerNotFound
	}
	p := *player
	p.Inventory = append([]string(nil), player.Inventory...)
	return p, nil
}

// SpawnPlayer moves a player onto a random walkable cell of the overworld.
func (ws *WorldService) SpawnPlayer(playerID string) (models.Position, error) {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	player, exists := ws.players[playerID]
	if !exists {
		return models.Position{}, ErrPlayerNotFound
	}
	if err := ws.spawnLocked(player); err != nil {
		return models.Position{}, err
	}
	return models.Position{X: player.X, Y: player.Y}, nil
}

func (ws *WorldService) spawnLocked(player *models.Player) error {
	level, err := ws.levels.Get(ws.overworldID)
	if err != nil {
		return fmt.Errorf("failed to load overworld: %v", err)
	}

	pos, err := ws.findSpawn(level, player)
	if err != nil {
		return err
	}
	player.LevelID = level.State.ID
	player.X, player.Y = pos.X, pos.Y
	return nil
}

// findSpawn picks a random walkable cell of level whose centred box is clear
// of solid obstacles. It does not move the player.
func (ws *WorldService) findSpawn(level *Level, player *models.Player) (models.Position, error) {
	t := float64(ws.levels.TileSize())
	for _, i := range ws.rng.Perm(len(level.Walkable)) {
		cell := level.Walkable[i]
		box := collision.Box{
			X: float64(cell.Col)*t + (t-player.Width)/2,
			Y: float64(cell.Row)*t + (t-player.Height)/2,
			W: player.Width,
			H: player.Height,
		}
		if touchesSolid(box, level.State.Obstacles) {
			continue
		}
		return models.Position{X: box.X, Y: box.Y}, nil
	}
	return models.Position{}, fmt.Errorf("no free walkable cell in level %s", level.State.ID)
}

// MovePlayer processes a player movement request
func (ws *WorldService) MovePlayer(playerID string, direction string) (*MoveResult, error) {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	player, exists := ws.players[playerID]
	if !exists {
		return nil, ErrPlayerNotFound
	}
	dir, ok := directions[direction]
	if !ok {
		return nil, ErrInvalidDirection
	}
	level, err := ws.levels.Get(player.LevelID)
	if err != nil {
		return nil, fmt.Errorf("failed to load level %s: %v", player.LevelID, err)
	}

	result := &MoveResult{}
	box := collision.Box{X: player.X, Y: player.Y, W: player.Width, H: player.Height}

	// Obstacles the player already stands in change this step
	speed := player.Speed
	var blockers []collision.Box
	for _, o := range level.State.Obstacles {
		ob := collision.Box{X: o.X, Y: o.Y, W: o.Width, H: o.Height}
		switch o.Kind {
		case models.ObstacleSolid:
			blockers = append(blockers, ob)
		case models.ObstacleSlow:
			if box.Overlaps(ob) {
				speed = player.Speed * slowFactor
			}
		case models.ObstacleDamage:
			if box.Overlaps(ob) && ws.now().Sub(player.LastDamageAt) > damageCooldown {
				player.HP -= damageAmount
				player.LastDamageAt = ws.now()
				result.Damaged = true
			}
		}
	}

	if player.HP <= 0 {
		log.Printf("Player %s ran out of HP, respawning", player.Username)
		player.HP = player.MaxHP
		delete(ws.returns, player.ID)
		if err := ws.spawnLocked(player); err != nil {
			return nil, err
		}
		result.Respawned = true
		result.Position = models.Position{X: player.X, Y: player.Y}
		return result, nil
	}

	box, result.BlockedX, result.BlockedY = collision.Move(level.Resolver, box, dir[0]*speed, dir[1]*speed, blockers)
	player.X, player.Y = box.X, box.Y
	result.Position = models.Position{X: player.X, Y: player.Y}

	center := player.Center()
	cell := models.CellAt(center.X, center.Y, ws.levels.TileSize())

	if obj, ok := level.State.PickUp(cell.Row, cell.Col); ok {
		player.Inventory = append(player.Inventory, obj.Name())
		result.PickedUp = obj.Name()
	}

	if level.State.Kind == models.LevelWorkshop && level.State.Tiles.InBounds(cell.Row, cell.Col) {
		result.Prompt, _ = maps.Prompt(level.State.Tiles[cell.Row][cell.Col])
	}

	return result, nil
}

// EnterWorkshop swaps the player onto the workshop level. Entering twice is
// a no-op.
func (ws *WorldService) EnterWorkshop(playerID string) (models.Position, error) {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	player, exists := ws.players[playerID]
	if !exists {
		return models.Position{}, ErrPlayerNotFound
	}
	if player.LevelID == WorkshopLevelID {
		return models.Position{X: player.X, Y: player.Y}, nil
	}

	ws.returns[playerID] = returnPoint{
		levelID: player.LevelID,
		pos:     models.Position{X: player.X, Y: player.Y},
	}
	spawn := maps.WorkshopSpawn(ws.levels.TileSize())
	player.LevelID = WorkshopLevelID
	player.X, player.Y = spawn.X, spawn.Y
	return spawn, nil
}

// ExitWorkshop puts the player back where they entered the workshop, or on
// a fresh spawn cell when that overworld has since been replaced.
func (ws *WorldService) ExitWorkshop(playerID string) (models.Position, error) {
	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	player, exists := ws.players[playerID]
	if !exists {
		return models.Position{}, ErrPlayerNotFound
	}
	if player.LevelID != WorkshopLevelID {
		return models.Position{}, ErrNotInWorkshop
	}

	back, ok := ws.returns[playerID]
	delete(ws.returns, playerID)
	if ok && back.levelID == ws.overworldID {
		player.LevelID = back.levelID
		player.X, player.Y = back.pos.X, back.pos.Y
	} else if err := ws.spawnLocked(player); err != nil {
		return models.Position{}, err
	}
	return models.Position{X: player.X, Y: player.Y}, nil
}

// RegenerateOverworld replaces the overworld wholesale. Players on the old
// overworld are respawned on the new one. When any of them cannot be placed
// nothing changes.
func (ws *WorldService) RegenerateOverworld(seed int64) (string, error) {
	level, err := ws.levels.Generate(seed)
	if err != nil {
		return "", err
	}

	ws.worldMutex.Lock()
	defer ws.worldMutex.Unlock()

	old := ws.overworldID
	spawns := make(map[*models.Player]models.Position)
	for _, player := range ws.players {
		if player.LevelID != old {
			continue
		}
		pos, err := ws.findSpawn(level, player)
		if err != nil {
			return "", fmt.Errorf("failed to respawn %s: %v", player.Username, err)
		}
		spawns[player] = pos
	}

	ws.levels.Pin(level.State.ID)
	ws.overworldID = level.State.ID
	for player, pos := range spawns {
		player.LevelID = level.State.ID
		player.X, player.Y = pos.X, pos.Y
	}
	ws.levels.Forget(old)

	return ws.overworldID, nil
}

// SaveLevel writes a level's current state, including pickups, to storage.
func (ws *WorldService) SaveLevel(levelID string) error {
	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()
	return ws.levels.Save(levelID)
}

// LevelSnapshot returns a copy of a level that is safe to read without
// holding any lock.
func (ws *WorldService) LevelSnapshot(levelID string) (*models.LevelState, error) {
	level, err := ws.levels.Get(levelID)
	if err != nil {
		return nil, err
	}

	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()
	return level.State.Clone(), nil
}

// GetWorldUpdateForPlayer gets the world state for a specific player
func (ws *WorldService) GetWorldUpdateForPlayer(playerID string) *messages.UpdateMessage {
	ws.worldMutex.RLock()
	defer ws.worldMutex.RUnlock()

	player, exists := ws.players[playerID]
	if !exists {
		return &messages.UpdateMessage{}
	}
	level, err := ws.levels.Get(player.LevelID)
	if err != nil {
		log.Printf("Error loading level %s for update: %v", player.LevelID, err)
		return &messages.UpdateMessage{Self: playerView(player)}
	}

	tileSize := ws.levels.TileSize()
	center := player.Center()
	centerCell := models.CellAt(center.X, center.Y, tileSize)

	tiles := level.State.Tiles
	r0 := clamp(centerCell.Row-ws.viewRadius, 0, tiles.Rows())
	r1 := clamp(centerCell.Row+ws.viewRadius+1, 0, tiles.Rows())
	c0 := clamp(centerCell.Col-ws.viewRadius, 0, tiles.Cols())
	c1 := clamp(centerCell.Col+ws.viewRadius+1, 0, tiles.Cols())

	view := messages.MapView{
		LevelID:   level.State.ID,
		Kind:      level.State.Kind,
		Rows:      tiles.Rows(),
		Cols:      tiles.Cols(),
		TileSize:  tileSize,
		OriginRow: r0,
		OriginCol: c0,
		Tiles:     make([][]models.TileCode, 0, r1-r0),
		Objects:   make([][]models.ObjectCode, 0, r1-r0),
	}
	for r := r0; r < r1; r++ {
		view.Tiles = append(view.Tiles, append([]models.TileCode(nil), tiles[r][c0:c1]...))
		view.Objects = append(view.Objects, append([]models.ObjectCode(nil), level.State.Objects[r][c0:c1]...))
	}

	t := float64(tileSize)
	window := collision.Box{X: float64(c0) * t, Y: float64(r0) * t, W: float64(c1-c0) * t, H: float64(r1-r0) * t}

	obstacles := make([]models.Obstacle, 0)
	for _, o := range level.State.Obstacles {
		if window.Overlaps(collision.Box{X: o.X, Y: o.Y, W: o.Width, H: o.Height}) {
			obstacles = append(obstacles, o)
		}
	}

	nearbyPlayers := make([]messages.PlayerView, 0)
	for id, p := range ws.players {
		if id == playerID || p.LevelID != player.LevelID {
			continue
		}
		if window.Overlaps(collision.Box{X: p.X, Y: p.Y, W: p.Width, H: p.Height}) {
			nearbyPlayers = append(nearbyPlayers, playerView(p))
		}
	}

	return &messages.UpdateMessage{
		Self:      playerView(player),
		Players:   nearbyPlayers,
		Obstacles: obstacles,
		Map:       view,
	}
}

func playerView(p *models.Player) messages.PlayerView {
	return messages.PlayerView{
		ID:        p.ID,
		Username:  p.Username,
		X:         p.X,
		Y:         p.Y,
		Width:     p.Width,
		Height:    p.Height,
		HP:        p.HP,
		MaxHP:     p.MaxHP,
		Inventory: append([]string(nil), p.Inventory...),
	}
}

func touchesSolid(box collision.Box, obstacles []models.Obstacle) bool {
	for _, o := range obstacles {
		if o.Kind == models.ObstacleSolid && box.Overlaps(collision.Box{X: o.X, Y: o.Y, W: o.Width, H: o.Height}) {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
