package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"ewaste-realm/server/models"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore handles database operations using PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage manager
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	store := &PostgresStore{db: db}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %v", err)
	}

	return store, nil
}

func (dm *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		level_id TEXT NOT NULL,
		x DOUBLE PRECISION NOT NULL,
		y DOUBLE PRECISION NOT NULL,
		width DOUBLE PRECISION NOT NULL,
		height DOUBLE PRECISION NOT NULL,
		speed DOUBLE PRECISION NOT NULL,
		hp INTEGER NOT NULL,
		max_hp INTEGER NOT NULL,
		money INTEGER NOT NULL,
		inventory JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS levels (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		seed BIGINT NOT NULL,
		tiles JSONB NOT NULL,
		objects JSONB NOT NULL,
		obstacles JSONB NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := dm.db.Exec(schema)
	return err
}

const playerColumns = `id, username, level_id, x, y, width, height, speed, hp, max_hp, money, inventory, created_at, updated_at`

// SavePlayer saves a player to the database
func (dm *PostgresStore) SavePlayer(player *models.Player) error {
	inventory := player.Inventory
	if inventory == nil {
		inventory = []string{}
	}
	inventoryJSON, err := json.Marshal(inventory)
	if err != nil {
		return fmt.Errorf("failed to marshal player inventory: %v", err)
	}

	query := `
	INSERT INTO players (id, username, level_id, x, y, width, height, speed, hp, max_hp, money, inventory)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (id)
	DO UPDATE SET
		level_id = $3, x = $4, y = $5, speed = $8,
		hp = $9, max_hp = $10, money = $11, inventory = $12,
		updated_at = NOW()
	`

	_, err = dm.db.Exec(query,
		player.ID, player.Username, player.LevelID, player.X, player.Y,
		player.Width, player.Height, player.Speed, player.HP, player.MaxHP,
		player.Money, string(inventoryJSON))

	if err != nil {
		return fmt.Errorf("failed to save player: %v", err)
	}

	return nil
}

// LoadPlayer loads a player from the database by ID
func (dm *PostgresStore) LoadPlayer(playerID string) (*models.Player, error) {
	row := dm.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE id = $1`, playerID)
	player, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player with ID %s: %w", playerID, ErrNotFound)
	}
	return player, err
}

// LoadPlayerByUsername loads a player from the database by username
func (dm *PostgresStore) LoadPlayerByUsername(username string) (*models.Player, error) {
	row := dm.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE username = $1`, username)
	player, err := scanPlayer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player with username %s: %w", username, ErrNotFound)
	}
	return player, err
}

func scanPlayer(row *sql.Row) (*models.Player, error) {
	var player models.Player
	var inventoryJSON string

	err := row.Scan(
		&player.ID, &player.Username, &player.LevelID, &player.X, &player.Y,
		&player.Width, &player.Height, &player.Speed, &player.HP, &player.MaxHP,
		&player.Money, &inventoryJSON, &player.CreatedAt, &player.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load player: %v", err)
	}

	if err := json.Unmarshal([]byte(inventoryJSON), &player.Inventory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player inventory: %v", err)
	}

	return &player, nil
}

// SaveLevel upserts a level; the grids are stored as JSONB.
func (dm *PostgresStore) SaveLevel(level *models.LevelState) error {
	tilesJSON, err := json.Marshal(level.Tiles)
	if err != nil {
		return fmt.Errorf("failed to marshal level tiles: %v", err)
	}
	objectsJSON, err := json.Marshal(level.Objects)
	if err != nil {
		return fmt.Errorf("failed to marshal level objects: %v", err)
	}
	obstacles := level.Obstacles
	if obstacles == nil {
		obstacles = []models.Obstacle{}
	}
	obstaclesJSON, err := json.Marshal(obstacles)
	if err != nil {
		return fmt.Errorf("failed to marshal level obstacles: %v", err)
	}

	query := `
	INSERT INTO levels (id, kind, seed, tiles, objects, obstacles)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id)
	DO UPDATE SET
		tiles = $4, objects = $5, obstacles = $6,
		updated_at = NOW()
	`

	_, err = dm.db.Exec(query,
		level.ID, string(level.Kind), level.Seed,
		string(tilesJSON), string(objectsJSON), string(obstaclesJSON))

	if err != nil {
		return fmt.Errorf("failed to save level: %v", err)
	}

	return nil
}

// LoadLevel loads a level from the database by ID
func (dm *PostgresStore) LoadLevel(levelID string) (*models.LevelState, error) {
	query := `SELECT id, kind, seed, tiles, objects, obstacles, created_at FROM levels WHERE id = $1`

	var level models.LevelState
	var kind, tilesJSON, objectsJSON, obstaclesJSON string

	err := dm.db.QueryRow(query, levelID).Scan(
		&level.ID, &kind, &level.Seed, &tilesJSON, &objectsJSON, &obstaclesJSON, &level.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("level with ID %s: %w", levelID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load level: %v", err)
	}
	level.Kind = models.LevelKind(kind)

	if err := json.Unmarshal([]byte(tilesJSON), &level.Tiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal level tiles: %v", err)
	}
	if err := json.Unmarshal([]byte(objectsJSON), &level.Objects); err != nil {
		return nil, fmt.Errorf("failed to unmarshal level objects: %v", err)
	}
	if err := json.Unmarshal([]byte(obstaclesJSON), &level.Obstacles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal level obstacles: %v", err)
	}

	return &level, nil
}

// Close closes the database connection
func (dm *PostgresStore) Close() error {
	log.Println("Closing database connection...")
	return dm.db.Close()
}
