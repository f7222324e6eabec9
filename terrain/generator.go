// Package terrain builds overworld tile maps: features are planned on a
// marker layer as blobs and random walks, then autotiled into sprite codes.
package terrain

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"ewaste-realm/server/models"
)

// ErrEmptyGrid is returned for a configuration with no cells.
var ErrEmptyGrid = errors.New("terrain: grid must have at least one row and one column")

type Config struct {
	Rows, Cols int
	Seed       int64 // 0 = random

	Rivers     BlobSpec
	Mountains  BlobSpec
	GrassWalks WalkSpec
	GrassBlobs BlobSpec

	ObjectCount          int
	MaxScatterAttempts   int
	MaxWalkStartAttempts int
	// TurnChance is the per-step probability that a walk picks a new direction.
	TurnChance float64
}

// DefaultConfig returns the overworld recipe for a rows x cols level.
func DefaultConfig(rows, cols int) Config {
	return Config{
		Rows:                 rows,
		Cols:                 cols,
		Rivers:               BlobSpec{Count: 3, MinRadius: 4, MaxRadius: 3},
		Mountains:            BlobSpec{Count: 4, MinRadius: 3, MaxRadius: 6},
		GrassWalks:           WalkSpec{Count: 5, MinLength: 20, MaxLength: 40, Over: MarkerNone},
		GrassBlobs:           BlobSpec{Count: 10, MinRadius: 3, MaxRadius: 8},
		ObjectCount:          50,
		MaxScatterAttempts:   1000,
		MaxWalkStartAttempts: 100,
		TurnChance:           0.1,
	}
}

// Stats describes the soft failures of the last generation.
type Stats struct {
	WalksSkipped     int
	ObjectsPlaced    int
	ObjectsRequested int
	ScatterAttempts  int
}

// Synthesizer generates levels from a Config and a Vocabulary. It is not
// safe for concurrent use; the random source is owned by the synthesizer.
type Synthesizer struct {
	cfg    Config
	vocab  Vocabulary
	rng    *rand.Rand
	logger *log.Logger
	stats  Stats
}

// NewSynthesizer validates cfg. A nil rng is seeded from cfg.Seed, or from
// the clock when the seed is 0.
func NewSynthesizer(cfg Config, vocab Vocabulary, rng *rand.Rand) (*Synthesizer, error) {
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return nil, fmt.Errorf("%w (got %dx%d)", ErrEmptyGrid, cfg.Rows, cfg.Cols)
	}
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	if cfg.MaxWalkStartAttempts <= 0 {
		cfg.MaxWalkStartAttempts = 100
	}
	if cfg.MaxScatterAttempts <= 0 {
		cfg.MaxScatterAttempts = 1000
	}

	return &Synthesizer{
		cfg:    cfg,
		vocab:  vocab,
		rng:    rng,
		logger: log.Default(),
	}, nil
}

// SetLogger redirects soft-failure reports.
func (s *Synthesizer) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Stats returns the soft-failure counters of the last GenerateLevel call.
func (s *Synthesizer) Stats() Stats {
	return s.stats
}

// GenerateLevel synthesises a fresh tile map and object map. Later stages
// overwrite earlier ones, so the order below is part of the contract.
func (s *Synthesizer) GenerateLevel() (models.TileGrid, models.ObjectGrid) {
	s.stats = Stats{ObjectsRequested: s.cfg.ObjectCount}
	rows, cols := s.cfg.Rows, s.cfg.Cols

	// 1. Everything starts as base ground
	tiles := models.TileGrid(models.NewGrid(rows, cols, s.vocab.Base))

	// 2. Plan features on the marker layer
	markers := newMarkerGrid(rows, cols)
	s.addBlobs(markers, MarkerRiver, s.cfg.Rivers)
	s.addBlobs(markers, MarkerMountain, s.cfg.Mountains)
	s.addRandomWalks(markers, MarkerGrass, s.cfg.GrassWalks)
	s.addBlobs(markers, MarkerGrass, s.cfg.GrassBlobs)

	// 3. Stamp grass
	for r := range markers {
		for c := range markers[r] {
			if markers[r][c] == MarkerGrass {
				tiles[r][c] = s.vocab.Grass
			}
		}
	}

	// 4. Feature edges
	autotileFeature(tiles, markers, MarkerRiver, s.vocab.RiverSet)
	autotileFeature(tiles, markers, MarkerMountain, s.vocab.MountainSet)

	// 5. Ground borders around grass
	autotileGround(tiles, s.vocab.Base, s.vocab.Grass, s.vocab.GroundTransitions)

	// 6. Collectibles
	objects := models.ObjectGrid(models.NewGrid(rows, cols, s.vocab.NoObject))
	s.stats.ObjectsPlaced = s.scatterObjects(tiles, objects, s.cfg.ObjectCount)

	return tiles, objects
}
