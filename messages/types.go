package messages

import "ewaste-realm/server/models"

// MessageType defines the type of message being sent
type MessageType string

const (
	MessageTypeLogin         MessageType = "login"
	MessageTypeLoginSuccess  MessageType = "login_success"
	MessageTypeMove          MessageType = "move"
	MessageTypeChat          MessageType = "chat"
	MessageTypeUpdate        MessageType = "update"
	MessageTypeEnterWorkshop MessageType = "enter_workshop"
	MessageTypeExitWorkshop  MessageType = "exit_workshop"
	MessageTypeRegenerate    MessageType = "regenerate"
	MessageTypePickup        MessageType = "pickup"
	MessageTypePrompt        MessageType = "prompt"
	MessageTypeError         MessageType = "error"
)

// BaseMessage is the base structure for all messages
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// LoginMessage represents a login request
type LoginMessage struct {
	Username string `json:"username"`
}

// LoginSuccessMessage represents a successful login response
type LoginSuccessMessage struct {
	PlayerID string `json:"player_id"`
	LevelID  string `json:"level_id"`
	TileSize int    `json:"tile_size"`
	Message  string `json:"message"`
}

// MoveMessage represents a player movement request
type MoveMessage struct {
	Direction string `json:"direction"` // north, south, east, west, northeast, northwest, southeast, southwest
}

// ChatMessage represents a chat message
type ChatMessage struct {
	Sender    string `json:"sender"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// RegenerateMessage asks for a fresh overworld. Seed 0 picks a random one.
type RegenerateMessage struct {
	Seed int64 `json:"seed"`
}

// PlayerView is what other clients see of a player.
type PlayerView struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	HP        int      `json:"hp"`
	MaxHP     int      `json:"max_hp"`
	Inventory []string `json:"inventory,omitempty"`
}

// MapView is a window of a level's tile and object layers. OriginRow and
// OriginCol locate Tiles[0][0] in the level.
type MapView struct {
	LevelID   string                `json:"level_id"`
	Kind      models.LevelKind      `json:"kind"`
	Rows      int                   `json:"rows"`
	Cols      int                   `json:"cols"`
	TileSize  int                   `json:"tile_size"`
	OriginRow int                   `json:"origin_row"`
	OriginCol int                   `json:"origin_col"`
	Tiles     [][]models.TileCode   `json:"tiles"`
	Objects   [][]models.ObjectCode `json:"objects"`
}

// UpdateMessage represents a world update
type UpdateMessage struct {
	Self      PlayerView        `json:"self"`
	Players   []PlayerView      `json:"players"`
	Obstacles []models.Obstacle `json:"obstacles"`
	Map       MapView           `json:"map"`
}

// PickupMessage tells a player what they just collected.
type PickupMessage struct {
	Item      string   `json:"item"`
	Inventory []string `json:"inventory"`
}

// PromptMessage carries interaction text for the tile a player stands on.
type PromptMessage struct {
	Text string `json:"text"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
