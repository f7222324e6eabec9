package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"ewaste-realm/server/collision"
	"ewaste-realm/server/models"
	"ewaste-realm/server/persistence"
	"ewaste-realm/server/terrain"
)

// Level is a loaded level together with the collision data derived from it.
type Level struct {
	State    *models.LevelState
	Resolver *collision.Resolver
	// Walkable is computed once; tiles never change after generation.
	Walkable []models.Cell
}

// ObstacleSpec describes one batch of obstacles dropped on a new overworld.
type ObstacleSpec struct {
	Kind    models.ObstacleKind
	Message string
	Count   int
	Width   float64
	Height  float64
}

// DefaultObstacles is the overworld obstacle recipe.
var DefaultObstacles = []ObstacleSpec{
	{Kind: models.ObstacleSolid, Message: "A VERY big rock.", Count: 5, Width: 80, Height: 80},
	{Kind: models.ObstacleSolid, Message: "A big rock.", Count: 10, Width: 40, Height: 40},
	{Kind: models.ObstacleSlow, Message: "Tangled cables slow you down.", Count: 6, Width: 60, Height: 60},
	{Kind: models.ObstacleDamage, Message: "Leaking batteries!", Count: 4, Width: 40, Height: 40},
}

// DefaultCacheLimit is how many unpinned levels stay cached.
const DefaultCacheLimit = 4

// LevelManager caches levels by id and loads misses from storage. Pinned
// levels stay cached; at most cacheLimit others are kept besides them.
type LevelManager struct {
	db         persistence.Storage
	genCfg     terrain.Config
	vocab      terrain.Vocabulary
	shapes     models.ShapeTable
	obstacles  []ObstacleSpec
	tileSize   int
	cacheLimit int

	levels     map[string]*Level
	pinned     map[string]bool
	levelMutex sync.RWMutex
}

// NewLevelManager creates a level manager that generates levels from genCfg.
func NewLevelManager(db persistence.Storage, genCfg terrain.Config, tileSize int) *LevelManager {
	return &LevelManager{
		db:         db,
		genCfg:     genCfg,
		vocab:      terrain.DefaultVocabulary(),
		shapes:     models.DefaultShapeTable(),
		obstacles:  DefaultObstacles,
		tileSize:   tileSize,
		cacheLimit: DefaultCacheLimit,
		levels:     make(map[string]*Level),
		pinned:     make(map[string]bool),
	}
}

// SetCacheLimit changes how many unpinned levels stay cached.
func (lm *LevelManager) SetCacheLimit(limit int) {
	lm.levelMutex.Lock()
	defer lm.levelMutex.Unlock()
	lm.cacheLimit = max(limit, 0)
	lm.evictLocked("")
}

// Pin keeps a cached level from being evicted. Levels with live players
// must be pinned, or their unsaved pickups are lost on eviction.
func (lm *LevelManager) Pin(levelID string) {
	lm.levelMutex.Lock()
	defer lm.levelMutex.Unlock()
	lm.pinned[levelID] = true
}

// Cached returns how many levels are currently cached.
func (lm *LevelManager) Cached() int {
	lm.levelMutex.RLock()
	defer lm.levelMutex.RUnlock()
	return len(lm.levels)
}

// SetObstacles replaces the obstacle recipe used by Generate.
func (lm *LevelManager) SetObstacles(specs []ObstacleSpec) {
	lm.obstacles = specs
}

func (lm *LevelManager) TileSize() int { return lm.tileSize }

func (lm *LevelManager) Shapes() models.ShapeTable { return lm.shapes }

// Get returns a cached level, loading it from storage on a miss.
func (lm *LevelManager) Get(levelID string) (*Level, error) {
	lm.levelMutex.RLock()
	level, exists := lm.levels[levelID]
	lm.levelMutex.RUnlock()
	if exists {
		return level, nil
	}

	state, err := lm.db.LoadLevel(levelID)
	if err != nil {
		return nil, err
	}
	return lm.add(state, false)
}

// Generate synthesizes a new overworld, places its obstacles and stores it.
// A zero seed picks one from the clock; the seed used is kept on the level.
func (lm *LevelManager) Generate(seed int64) (*Level, error) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	synth, err := terrain.NewSynthesizer(lm.genCfg, lm.vocab, rng)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesizer: %v", err)
	}
	tiles, objects := synth.GenerateLevel()
	if stats := synth.Stats(); stats.WalksSkipped > 0 {
		log.Printf("Level generation skipped %d grass walks", stats.WalksSkipped)
	}
	models.AuditTiles(tiles, lm.shapes)

	state := &models.LevelState{
		ID:        uuid.New().String(),
		Kind:      models.LevelOverworld,
		Seed:      seed,
		Tiles:     tiles,
		Objects:   objects,
		CreatedAt: time.Now(),
	}

	level, err := buildLevel(state, lm.shapes, lm.tileSize)
	if err != nil {
		return nil, err
	}
	state.Obstacles = placeObstacles(rng, level.Walkable, objects, lm.obstacles, lm.tileSize)

	if err := lm.db.SaveLevel(state); err != nil {
		return nil, fmt.Errorf("failed to save generated level: %v", err)
	}

	lm.levelMutex.Lock()
	lm.levels[state.ID] = level
	lm.evictLocked(state.ID)
	lm.levelMutex.Unlock()

	log.Printf("Generated overworld %s (seed %d, %dx%d, %d objects, %d obstacles)",
		state.ID, seed, tiles.Rows(), tiles.Cols(), synth.Stats().ObjectsPlaced, len(state.Obstacles))
	return level, nil
}

// Register adds a hand-authored level, replacing any level with the same id.
// Registered levels are pinned; storage does not hold them.
func (lm *LevelManager) Register(state *models.LevelState) (*Level, error) {
	if state.ID == "" {
		return nil, errors.New("level id is required")
	}
	if state.Objects == nil {
		state.Objects = models.NewGrid(state.Tiles.Rows(), state.Tiles.Cols(), models.ObjectNone)
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now()
	}
	models.AuditTiles(state.Tiles, lm.shapes)
	lm.Pin(state.ID)
	return lm.add(state, true)
}

// Save writes the current state of a cached level back to storage.
func (lm *LevelManager) Save(levelID string) error {
	level, err := lm.Get(levelID)
	if err != nil {
		return err
	}
	if err := lm.db.SaveLevel(level.State); err != nil {
		return fmt.Errorf("failed to save level %s: %v", levelID, err)
	}
	return nil
}

// Forget unpins a level and drops it from the cache. Storage keeps it.
func (lm *LevelManager) Forget(levelID string) {
	lm.levelMutex.Lock()
	defer lm.levelMutex.Unlock()
	delete(lm.levels, levelID)
	delete(lm.pinned, levelID)
}

func (lm *LevelManager) add(state *models.LevelState, replace bool) (*Level, error) {
	level, err := buildLevel(state, lm.shapes, lm.tileSize)
	if err != nil {
		return nil, err
	}

	lm.levelMutex.Lock()
	defer lm.levelMutex.Unlock()
	// Check again if the level was loaded by another goroutine
	if existing, exists := lm.levels[state.ID]; exists && !replace {
		return existing, nil
	}
	lm.levels[state.ID] = level
	lm.evictLocked(state.ID)
	return level, nil
}

// evictLocked drops unpinned levels other than keep until at most
// cacheLimit of them remain. Callers hold levelMutex.
func (lm *LevelManager) evictLocked(keep string) {
	unpinned := 0
	for id := range lm.levels {
		if !lm.pinned[id] {
			unpinned++
		}
	}
	for id := range lm.levels {
		if unpinned <= lm.cacheLimit {
			return
		}
		if lm.pinned[id] || id == keep {
			continue
		}
		delete(lm.levels, id)
		unpinned--
	}
}

func buildLevel(state *models.LevelState, shapes models.ShapeTable, tileSize int) (*Level, error) {
	resolver, err := collision.NewResolver(state.Tiles, shapes, tileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to build resolver for level %s: %w", state.ID, err)
	}
	return &Level{
		State:    state,
		Resolver: resolver,
		Walkable: resolver.FindWalkableCells(),
	}, nil
}

// placeObstacles centres obstacles on shuffled walkable cells that hold no
// object, one obstacle per cell, until the cells or the specs run out.
func placeObstacles(rng *rand.Rand, walkable []models.Cell, objects models.ObjectGrid, specs []ObstacleSpec, tileSize int) []models.Obstacle {
	available := make([]models.Cell, 0, len(walkable))
	for _, c := range walkable {
		if objects.InBounds(c.Row, c.Col) && objects[c.Row][c.Col] != models.ObjectNone {
			continue
		}
		available = append(available, c)
	}
	rng.Shuffle(len(available), func(i, j int) {
		available[i], available[j] = available[j], available[i]
	})

	t := float64(tileSize)
	var obstacles []models.Obstacle
	for _, spec := range specs {
		for i := 0; i < spec.Count; i++ {
			if len(available) == 0 {
				log.Printf("Ran out of walkable tiles while placing %s obstacles", spec.Kind)
				return obstacles
			}
			cell := available[len(available)-1]
			available = available[:len(available)-1]

			obstacles = append(obstacles, models.Obstacle{
				X:       float64(cell.Col)*t + (t-spec.Width)/2,
				Y:       float64(cell.Row)*t + (t-spec.Height)/2,
				Width:   spec.Width,
				Height:  spec.Height,
				Kind:    spec.Kind,
				Message: spec.Message,
			})
		}
	}
	return obstacles
}
