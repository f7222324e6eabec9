package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"ewaste-realm/server/models"
)

// JSONStore handles data persistence using a local JSON file
type JSONStore struct {
	filePath string
	mutex    sync.RWMutex
	data     *JSONData
}

// JSONData represents the structure of the JSON database
type JSONData struct {
	Players map[string]*models.Player     `json:"players"`
	Levels  map[string]*models.LevelState `json:"levels"`
}

// NewJSONStore opens filePath, creating it when it does not exist yet.
func NewJSONStore(filePath string) (*JSONStore, error) {
	store := &JSONStore{
		filePath: filePath,
		data: &JSONData{
			Players: make(map[string]*models.Player),
			Levels:  make(map[string]*models.LevelState),
		},
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := store.loadFromFile(); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %v", err)
		}
	} else {
		store.mutex.Lock()
		err := store.saveLocked()
		store.mutex.Unlock()
		if err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %v", err)
		}
	}

	return store, nil
}

func (js *JSONStore) loadFromFile() error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	file, err := os.ReadFile(js.filePath)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(file, js.data); err != nil {
		return err
	}
	// Files written before levels were stored have no "levels" key.
	if js.data.Players == nil {
		js.data.Players = make(map[string]*models.Player)
	}
	if js.data.Levels == nil {
		js.data.Levels = make(map[string]*models.LevelState)
	}
	return nil
}

// saveLocked writes the whole store to disk. The caller holds the write
// lock from the map update through the write, so files land in update order.
func (js *JSONStore) saveLocked() error {
	data, err := json.MarshalIndent(js.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(js.filePath, data, 0644)
}

// SavePlayer stores a snapshot of player and flushes the file.
func (js *JSONStore) SavePlayer(player *models.Player) error {
	p := *player
	p.Inventory = append([]string(nil), player.Inventory...)

	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.data.Players[player.ID] = &p
	return js.saveLocked()
}

// LoadPlayer loads a player by ID
func (js *JSONStore) LoadPlayer(playerID string) (*models.Player, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	player, exists := js.data.Players[playerID]
	if !exists {
		return nil, fmt.Errorf("player with ID %s: %w", playerID, ErrNotFound)
	}

	p := *player
	p.Inventory = append([]string(nil), player.Inventory...)
	return &p, nil
}

// LoadPlayerByUsername loads a player by username
func (js *JSONStore) LoadPlayerByUsername(username string) (*models.Player, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	for _, player := range js.data.Players {
		if player.Username == username {
			p := *player
			p.Inventory = append([]string(nil), player.Inventory...)
			return &p, nil
		}
	}

	return nil, fmt.Errorf("player with username %s: %w", username, ErrNotFound)
}

// SaveLevel stores a snapshot of level and flushes the file.
func (js *JSONStore) SaveLevel(level *models.LevelState) error {
	snapshot := level.Clone()

	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.data.Levels[level.ID] = snapshot
	return js.saveLocked()
}

// LoadLevel loads a level by ID
func (js *JSONStore) LoadLevel(levelID string) (*models.LevelState, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	level, exists := js.data.Levels[levelID]
	if !exists {
		return nil, fmt.Errorf("level with ID %s: %w", levelID, ErrNotFound)
	}

	return level.Clone(), nil
}

// Close closes the store (no-op for JSON store)
func (js *JSONStore) Close() error {
	return nil
}
