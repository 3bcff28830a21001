package ws

import (
	"net/http"
	"strings"

	"visaflow_backend/internal/config"
	"visaflow_backend/internal/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// checkOrigin allows non-browser clients (no Origin header) and browsers
// coming from a configured origin. Everything else is refused.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	cfg := config.AppConfig
	if cfg == nil {
		return false
	}
	for _, allowed := range cfg.Server.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// ServeWS upgrades an already-authenticated request and attaches the
// connection to the hub.
func ServeWS(manager *Manager, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := &Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan any, sendBuffer),
		manager: manager,
	}

	manager.register <- client

	go client.readPump()
	go client.writePump()
}
