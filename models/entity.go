package models

import "time"

type Player struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	LevelID      string    `json:"level_id"`
	X            float64   `json:"x"` // top-left corner, pixels
	Y            float64   `json:"y"`
	Width        float64   `json:"width"`
	Height       float64   `json:"height"`
	Speed        float64   `json:"speed"` // pixels per move
	HP           int       `json:"hp"`
	MaxHP        int       `json:"max_hp"`
	Money        int       `json:"money"`
	Inventory    []string  `json:"inventory"`
	LastDamageAt time.Time `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Center returns the pixel centre of the player's box.
func (p *Player) Center() Position {
	return Position{X: p.X + p.Width/2, Y: p.Y + p.Height/2}
}

type ObstacleKind string

const (
	ObstacleSolid  ObstacleKind = "solid"
	ObstacleSlow   ObstacleKind = "slow"
	ObstacleDamage ObstacleKind = "damage"
)

// Obstacle is a pixel-space rectangle placed on top of the tile layer.
type Obstacle struct {
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Width   float64      `json:"width"`
	Height  float64      `json:"height"`
	Kind    ObstacleKind `json:"kind"`
	Message string       `json:"message,omitempty"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}
