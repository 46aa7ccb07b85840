package connection

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a connected player
type Client struct {
	ID         string
	Conn       *websocket.Conn
	Send       chan []byte
	PlayerID   string   // Links to domain.Player.ID once identified
	SessionIDs []string // Game sessions the client watches
}

// Manager handles all client connections
type Manager struct {
	clients    map[string]*Client // Map connection IDs to clients
	playerMap  map[string]string  // Map player IDs to connection IDs
	Register   chan *Client
	Unregister chan *Client
	mutex      sync.RWMutex
}

// NewManager creates a new connection manager
func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]*Client),
		playerMap:  make(map[string]string),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
	}
}

// Start begins processing connection events
func (m *Manager) Start() {
	for {
		select {
		case client := <-m.Register:
			m.mutex.Lock()
			m.clients[client.ID] = client
			if client.PlayerID != "" {
				m.playerMap[client.PlayerID] = client.ID
			}
			m.mutex.Unlock()
		case client := <-m.Unregister:
			m.mutex.Lock()
			if _, ok := m.clients[client.ID]; ok {
				if client.PlayerID != "" {
					delete(m.playerMap, client.PlayerID)
				}
				delete(m.clients, client.ID)
				close(client.Send)
			}
			m.mutex.Unlock()
		}
	}
}

// SetPlayer links a client connection to a player id.
func (m *Manager) SetPlayer(clientID, playerID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	client.PlayerID = playerID
	m.playerMap[playerID] = clientID
	return true
}

// SendToPlayer sends a message to a specific player
func (m *Manager) SendToPlayer(playerID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if connID, exists := m.playerMap[playerID]; exists {
		if client, ok := m.clients[connID]; ok {
			client.Send <- message
			return true
		}
	}
	return false
}

// BroadcastSession delivers a payload to every client watching the
// session. build produces the payload for one viewer and may decline.
// Build and send both happen under the manager's read lock, which
// excludes the close in Start, so a concurrent unregister can never
// turn this into a send on a closed channel. Slow consumers drop the
// frame rather than block the engine.
func (m *Manager) BroadcastSession(sessionID string, build func(playerID string) ([]byte, bool)) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, client := range m.clients {
		if !watches(client, sessionID) {
			continue
		}
		payload, ok := build(client.PlayerID)
		if !ok {
			continue
		}
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// SendToClient delivers a payload to one client if it is still
// registered, without blocking.
func (m *Manager) SendToClient(clientID string, payload []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	select {
	case client.Send <- payload:
	default:
	}
	return true
}

// watches reports whether the client subscribed to the session. Caller
// holds the manager lock.
func watches(client *Client, sessionID string) bool {
	for _, id := range client.SessionIDs {
		if id == sessionID {
			return true
		}
	}
	return false
}

// Subscribe adds a game session to a client's watch list
func (m *Manager) Subscribe(clientID string, sessionID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[clientID]; ok {
		for _, id := range client.SessionIDs {
			if id == sessionID {
				return true // Already subscribed
			}
		}
		client.SessionIDs = append(client.SessionIDs, sessionID)
		return true
	}
	return false
}

// Unsubscribe removes a game session from a client's watch list
func (m *Manager) Unsubscribe(clientID string, sessionID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if client, ok := m.clients[clientID]; ok {
		for i, id := range client.SessionIDs {
			if id == sessionID {
				client.SessionIDs = append(client.SessionIDs[:i], client.SessionIDs[i+1:]...)
				return true
			}
		}
	}
	return false
}
