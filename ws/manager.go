package ws

import (
	"sync"

	"visaflow_backend/internal/logger"
)

// Envelope frames every message pushed to a web client.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Manager tracks connected web clients by user id. A user may hold
// several connections (multiple tabs or devices); Publish reaches all of
// them.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.UserID] == nil {
				m.clients[client.UserID] = make(map[*Client]struct{})
			}
			m.clients[client.UserID][client] = struct{}{}
			m.mu.Unlock()
			logger.Debug("ws client registered", "user_id", client.UserID)

		case client := <-m.unregister:
			m.mu.Lock()
			if conns, ok := m.clients[client.UserID]; ok {
				if _, ok := conns[client]; ok {
					close(client.Send)
					delete(conns, client)
					if len(conns) == 0 {
						delete(m.clients, client.UserID)
					}
				}
			}
			m.mu.Unlock()
			logger.Debug("ws client unregistered", "user_id", client.UserID)
		}
	}
}

// Publish delivers the event to every connection the user holds. It
// satisfies services.RealtimePublisher. Delivery is best-effort: a
// connection with a saturated send buffer is dropped.
func (m *Manager) Publish(userID string, event any) {
	message := Envelope{Type: "notification", Data: event}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for client := range m.clients[userID] {
		select {
		case client.Send <- message:
		default:
			go func(c *Client) { m.unregister <- c }(client)
			logger.Warn("ws client dropped, send buffer full", "user_id", userID)
		}
	}
}

// ConnectedUsers reports how many distinct users hold a connection.
func (m *Manager) ConnectedUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
