package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"ewaste-realm/server/models"
	"ewaste-realm/server/persistence"
)

// Defaults for new players.
const (
	DefaultPlayerSize  = 60
	DefaultPlayerSpeed = 4
	DefaultMaxHP       = 100
)

// PlayerService manages player-related operations
type PlayerService struct {
	players map[string]*models.Player
	world   *WorldService
	db      persistence.Storage
	speed   float64
	mutex   sync.RWMutex
}

// NewPlayerService creates a new player service. New players move speed
// pixels per step; a non-positive speed uses DefaultPlayerSpeed.
func NewPlayerService(world *WorldService, db persistence.Storage, speed float64) *PlayerService {
	if speed <= 0 {
		speed = DefaultPlayerSpeed
	}
	return &PlayerService{
		players: make(map[string]*models.Player),
		world:   world,
		db:      db,
		speed:   speed,
	}
}

// GetOrCreatePlayer gets an existing player or creates a new one, and puts
// the player into the world.
func (ps *PlayerService) GetOrCreatePlayer(username string) (*models.Player, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}

	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	for _, player := range ps.players {
		if player.Username == username {
			return player, nil
		}
	}

	player, err := ps.db.LoadPlayerByUsername(username)
	if err != nil {
		if !errors.Is(err, persistence.ErrNotFound) {
			return nil, fmt.Errorf("failed to load player: %v", err)
		}
		now := time.Now()
		player = &models.Player{
			ID:        uuid.New().String(),
			Username:  username,
			Width:     DefaultPlayerSize,
			Height:    DefaultPlayerSize,
			Speed:     ps.speed,
			HP:        DefaultMaxHP,
			MaxHP:     DefaultMaxHP,
			Inventory: []string{},
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if err := ps.world.AddPlayer(player); err != nil {
		return nil, fmt.Errorf("failed to add player to world: %v", err)
	}
	if err := ps.db.SavePlayer(player); err != nil {
		return nil, fmt.Errorf("failed to save player to database: %v", err)
	}
	ps.players[player.ID] = player

	return player, nil
}

// GetPlayer returns a copy of a player's current state.
func (ps *PlayerService) GetPlayer(playerID string) (models.Player, error) {
	ps.mutex.RLock()
	_, exists := ps.players[playerID]
	ps.mutex.RUnlock()
	if !exists {
		return models.Player{}, ErrPlayerNotFound
	}
	return ps.world.Player(playerID)
}

// SavePlayer writes the player's current world state to the database.
func (ps *PlayerService) SavePlayer(playerID string) error {
	player, err := ps.GetPlayer(playerID)
	if err != nil {
		return err
	}

	player.UpdatedAt = time.Now()
	if err := ps.db.SavePlayer(&player); err != nil {
		return fmt.Errorf("failed to save updated player to database: %v", err)
	}
	return nil
}

// Logout saves the player and removes them from the world.
func (ps *PlayerService) Logout(playerID string) error {
	err := ps.SavePlayer(playerID)

	ps.mutex.Lock()
	delete(ps.players, playerID)
	ps.mutex.Unlock()
	ps.world.RemovePlayer(playerID)

	return err
}
