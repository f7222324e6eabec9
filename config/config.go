// Package config gathers the server settings from the environment, with an
// optional .env file for local runs.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBType      string // "postgres" or "json"
	DatabaseURL string
	DBFile      string

	MapRows     int
	MapCols     int
	MapSeed     int64 // 0 = random
	TileSize    int
	ObjectCount int

	ViewRadius  int // tiles sent around a player in each update
	PlayerSpeed float64

	CORSOrigins  []string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads the .env files (when present) and then the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) Config {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to load env file: %v", err)
	}

	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		DBType:       getEnv("DB_TYPE", "json"),
		DatabaseURL:  getEnv("DATABASE_URL", "host=localhost user=ewaste password=ewaste dbname=ewaste_realm sslmode=disable"),
		DBFile:       getEnv("DB_FILE", "db.json"),
		MapRows:      getInt("MAP_ROWS", 64),
		MapCols:      getInt("MAP_COLS", 64),
		MapSeed:      int64(getInt("MAP_SEED", 0)),
		TileSize:     getInt("TILE_SIZE", 80),
		ObjectCount:  getInt("OBJECT_COUNT", 50),
		ViewRadius:   getInt("VIEW_RADIUS", 8),
		PlayerSpeed:  getFloat("PLAYER_SPEED", 4),
		CORSOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
		ReadTimeout:  parseDuration(getEnv("API_READ_TIMEOUT", "15s"), 15*time.Second),
		WriteTimeout: parseDuration(getEnv("API_WRITE_TIMEOUT", "15s"), 15*time.Second),
	}

	if cfg.MapRows <= 0 || cfg.MapCols <= 0 {
		log.Printf("[WARN] Invalid map size %dx%d, using 64x64", cfg.MapRows, cfg.MapCols)
		cfg.MapRows, cfg.MapCols = 64, 64
	}
	if cfg.TileSize <= 0 {
		log.Printf("[WARN] Invalid tile size %d, using 80", cfg.TileSize)
		cfg.TileSize = 80
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not an integer, using %d", key, v, def)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a number, using %g", key, v, def)
		return def
	}
	return f
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
