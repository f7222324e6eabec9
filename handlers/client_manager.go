package handlers

import (
	"log"
	"sync"
)

// ClientManager tracks logged-in clients by player id
type ClientManager struct {
	clients map[string]*ClientHandler
	mutex   sync.RWMutex
}

// NewClientManager creates a new client manager
func NewClientManager() *ClientManager {
	return &ClientManager{
		clients: make(map[string]*ClientHandler),
	}
}

// AddClient registers a handler. A second login for the same player
// replaces the first connection, which is closed.
func (cm *ClientManager) AddClient(playerID string, handler *ClientHandler) {
	cm.mutex.Lock()
	old, exists := cm.clients[playerID]
	cm.clients[playerID] = handler
	cm.mutex.Unlock()

	if exists && old != handler {
		log.Printf("Player %s logged in again, closing the previous connection", playerID)
		old.conn.Close()
	}
}

// RemoveClient unregisters handler and reports whether it was still the
// player's active connection.
func (cm *ClientManager) RemoveClient(playerID string, handler *ClientHandler) bool {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if cm.clients[playerID] != handler {
		return false
	}
	delete(cm.clients, playerID)
	return true
}

// Count returns the number of connected players.
func (cm *ClientManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.clients)
}

// BroadcastToAll sends a message to all connected clients
func (cm *ClientManager) BroadcastToAll(msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, client := range cm.clients {
		if err := client.conn.SendMessage(msg); err != nil {
			log.Printf("Error broadcasting to client %s: %v", id, err)
		}
	}
}

// BroadcastToOthers sends a message to all connected clients except the specified one
func (cm *ClientManager) BroadcastToOthers(excludePlayerID string, msg interface{}) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for id, client := range cm.clients {
		if id == excludePlayerID {
			continue
		}
		if err := client.conn.SendMessage(msg); err != nil {
			log.Printf("Error broadcasting to client %s: %v", id, err)
		}
	}
}

// ExecuteOnAllClients executes a function for each connected client
func (cm *ClientManager) ExecuteOnAllClients(action func(*ClientHandler)) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	for _, client := range cm.clients {
		action(client)
	}
}
