package persistence

import (
	"errors"

	"ewaste-realm/server/models"
)

// ErrNotFound is wrapped by every lookup that finds nothing.
var ErrNotFound = errors.New("not found")

// Storage defines the interface for data persistence
type Storage interface {
	SavePlayer(player *models.Player) error
	LoadPlayer(playerID string) (*models.Player, error)
	LoadPlayerByUsername(username string) (*models.Player, error)
	SaveLevel(level *models.LevelState) error
	LoadLevel(levelID string) (*models.LevelState, error)
	Close() error
}
