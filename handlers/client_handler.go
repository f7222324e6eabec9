package handlers

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"ewaste-realm/server/messages"
	"ewaste-realm/server/network"
	"ewaste-realm/server/services"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	conn          *network.Connection
	playerService *services.PlayerService
	worldService  *services.WorldService
	clientManager *ClientManager
	playerID      string
	username      string
}

// HandleClientConnection runs the pumps for one websocket client and
// removes the player from the world when the client goes away.
func HandleClientConnection(wsConn *websocket.Conn, playerService *services.PlayerService, worldService *services.WorldService, clientManager *ClientManager) {
	conn := network.NewConnection(wsConn)
	log.Printf("New connection from %s", conn.RemoteAddr())

	handler := &ClientHandler{
		conn:          conn,
		playerService: playerService,
		worldService:  worldService,
		clientManager: clientManager,
	}

	go conn.WritePump()
	conn.ReadPump(handler)

	if handler.playerID != "" && clientManager.RemoveClient(handler.playerID, handler) {
		if err := playerService.Logout(handler.playerID); err != nil {
			log.Printf("Error saving player %s on disconnect: %v", handler.username, err)
		}
		log.Printf("Player %s disconnected and removed from world", handler.username)

		handler.broadcastWorldUpdate()
	}
}

// HandleMessage handles incoming messages from the client
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	var baseMsg messages.BaseMessage
	if err := json.Unmarshal(message, &baseMsg); err != nil {
		log.Printf("Error unmarshaling message: %v", err)
		h.sendError("BAD_MESSAGE", "Message is not valid JSON")
		return
	}

	if baseMsg.Type != messages.MessageTypeLogin && h.playerID == "" {
		h.sendError("NOT_AUTHENTICATED", "Log in first")
		return
	}

	switch baseMsg.Type {
	case messages.MessageTypeLogin:
		h.handleLogin(baseMsg.Payload)
	case messages.MessageTypeMove:
		h.handleMove(baseMsg.Payload)
	case messages.MessageTypeChat:
		h.handleChat(baseMsg.Payload)
	case messages.MessageTypeEnterWorkshop:
		h.handleEnterWorkshop()
	case messages.MessageTypeExitWorkshop:
		h.handleExitWorkshop()
	case messages.MessageTypeRegenerate:
		h.handleRegenerate(baseMsg.Payload)
	default:
		log.Printf("Unknown message type: %s", baseMsg.Type)
		h.sendError("UNKNOWN_MESSAGE_TYPE", "Unknown message type received")
	}
}

// decodePayload re-marshals a generic payload into a typed message.
func decodePayload(payload interface{}, v interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (h *ClientHandler) handleLogin(payload interface{}) {
	if h.playerID != "" {
		h.sendError("ALREADY_LOGGED_IN", "Already logged in")
		return
	}

	var loginMsg messages.LoginMessage
	if err := decodePayload(payload, &loginMsg); err != nil {
		log.Printf("Error unmarshaling login message: %v", err)
		h.sendError("LOGIN_FAILED", "Malformed login payload")
		return
	}

	player, err := h.playerService.GetOrCreatePlayer(loginMsg.Username)
	if err != nil {
		log.Printf("Error getting/creating player: %v", err)
		h.sendError("LOGIN_FAILED", "Failed to log in")
		return
	}

	h.playerID = player.ID
	h.username = player.Username
	h.clientManager.AddClient(player.ID, h)

	snapshot, err := h.worldService.Player(player.ID)
	if err != nil {
		h.sendError("LOGIN_FAILED", err.Error())
		return
	}

	loginSuccessMsg := messages.BaseMessage{
		Type: messages.MessageTypeLoginSuccess,
		Payload: messages.LoginSuccessMessage{
			PlayerID: player.ID,
			LevelID:  snapshot.LevelID,
			TileSize: h.worldService.Levels().TileSize(),
			Message:  "Login successful",
		},
	}
	if err := h.conn.SendMessage(loginSuccessMsg); err != nil {
		log.Printf("Error sending login success: %v", err)
		return
	}

	h.clientManager.BroadcastToOthers(player.ID, messages.BaseMessage{
		Type: messages.MessageTypeChat,
		Payload: messages.ChatMessage{
			Sender:    "server",
			Message:   player.Username + " joined",
			Timestamp: time.Now().Unix(),
		},
	})
	h.broadcastWorldUpdate()
}

func (h *ClientHandler) handleMove(payload interface{}) {
	var moveMsg messages.MoveMessage
	if err := decodePayload(payload, &moveMsg); err != nil {
		log.Printf("Error unmarshaling move message: %v", err)
		h.sendError("MOVE_FAILED", "Malformed move payload")
		return
	}

	result, err := h.worldService.MovePlayer(h.playerID, moveMsg.Direction)
	if err != nil {
		log.Printf("Error moving player: %v", err)
		h.sendError("MOVE_FAILED", err.Error())
		return
	}

	if result.PickedUp != "" {
		player, err := h.worldService.Player(h.playerID)
		if err == nil {
			h.conn.SendMessage(messages.BaseMessage{
				Type:    messages.MessageTypePickup,
				Payload: messages.PickupMessage{Item: result.PickedUp, Inventory: player.Inventory},
			})
			if err := h.worldService.SaveLevel(player.LevelID); err != nil {
				log.Printf("Error saving level after pickup: %v", err)
			}
		}
		h.savePlayer()
	}
	if result.Prompt != "" {
		h.conn.SendMessage(messages.BaseMessage{
			Type:    messages.MessageTypePrompt,
			Payload: messages.PromptMessage{Text: result.Prompt},
		})
	}
	if result.Respawned {
		h.savePlayer()
	}

	h.broadcastWorldUpdate()
}

func (h *ClientHandler) handleChat(payload interface{}) {
	var chatMsg messages.ChatMessage
	if err := decodePayload(payload, &chatMsg); err != nil {
		log.Printf("Error unmarshaling chat message: %v", err)
		return
	}

	chatMsg.Sender = h.username
	chatMsg.Timestamp = time.Now().Unix()

	h.clientManager.BroadcastToAll(messages.BaseMessage{
		Type:    messages.MessageTypeChat,
		Payload: chatMsg,
	})
}

func (h *ClientHandler) handleEnterWorkshop() {
	if _, err := h.worldService.EnterWorkshop(h.playerID); err != nil {
		h.sendError("ENTER_WORKSHOP_FAILED", err.Error())
		return
	}
	h.savePlayer()
	h.broadcastWorldUpdate()
}

func (h *ClientHandler) handleExitWorkshop() {
	if _, err := h.worldService.ExitWorkshop(h.playerID); err != nil {
		h.sendError("EXIT_WORKSHOP_FAILED", err.Error())
		return
	}
	h.savePlayer()
	h.broadcastWorldUpdate()
}

func (h *ClientHandler) handleRegenerate(payload interface{}) {
	var regenMsg messages.RegenerateMessage
	if err := decodePayload(payload, &regenMsg); err != nil {
		h.sendError("REGENERATE_FAILED", "Malformed regenerate payload")
		return
	}

	levelID, err := h.worldService.RegenerateOverworld(regenMsg.Seed)
	if err != nil {
		log.Printf("Error regenerating overworld: %v", err)
		h.sendError("REGENERATE_FAILED", err.Error())
		return
	}
	log.Printf("Player %s regenerated the overworld: %s", h.username, levelID)

	h.clientManager.BroadcastToAll(messages.BaseMessage{
		Type:    messages.MessageTypePrompt,
		Payload: messages.PromptMessage{Text: "The world has changed."},
	})
	h.broadcastWorldUpdate()
}

func (h *ClientHandler) savePlayer() {
	if err := h.playerService.SavePlayer(h.playerID); err != nil {
		log.Printf("Error saving player %s: %v", h.username, err)
	}
}

func (h *ClientHandler) sendError(code, message string) {
	h.conn.SendMessage(messages.BaseMessage{
		Type:    messages.MessageTypeError,
		Payload: messages.ErrorMessage{Code: code, Message: message},
	})
}

// sendWorldUpdate sends the current world state to the player
func (h *ClientHandler) sendWorldUpdate() {
	if h.playerID == "" {
		return
	}

	msg := messages.BaseMessage{
		Type:    messages.MessageTypeUpdate,
		Payload: h.worldService.GetWorldUpdateForPlayer(h.playerID),
	}
	if err := h.conn.SendMessage(msg); err != nil {
		log.Printf("Error sending world update: %v", err)
	}
}

// broadcastWorldUpdate refreshes every client so they see the change
func (h *ClientHandler) broadcastWorldUpdate() {
	h.clientManager.ExecuteOnAllClients(func(client *ClientHandler) {
		client.sendWorldUpdate()
	})
}
