package http

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"fleettrack_server/pkg/colors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket upgrader configuration
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		return true
	},
}

// WebSocketHub manages WebSocket connections
type WebSocketHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// WebSocketMessage represents a message sent through WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// SweepUpdate reports the outcome of one retention sweep to subscribers
type SweepUpdate struct {
	RunID        string `json:"run_id"`
	Mode         string `json:"mode"` // "count" or "delete"
	AccountID    string `json:"account_id"`
	GroupID      string `json:"group_id"`
	CutoffTime   int64  `json:"cutoff_time"`
	Total        int64  `json:"total"`
	CountUnknown bool   `json:"count_unknown"`
	DurationMS   int64  `json:"duration_ms"`
	Error        string `json:"error,omitempty"`
}

// Global WebSocket hub instance
var WSHub *WebSocketHub

// NewWebSocketHub creates a new WebSocket hub
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run starts the WebSocket hub
func (h *WebSocketHub) Run() {
	colors.PrintServer("WebSocket hub started - ready for sweep subscribers")

	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			colors.PrintDebug("WebSocket client connected. Total clients: %d", len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()
			colors.PrintDebug("WebSocket client disconnected. Total clients: %d", len(h.clients))

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					colors.PrintError("Error sending message to WebSocket client: %v", err)
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// BroadcastSweepUpdate sends a sweep outcome to all connected clients
func (h *WebSocketHub) BroadcastSweepUpdate(update *SweepUpdate) {
	message := WebSocketMessage{
		Type:      "sweep_update",
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      update,
	}
	payload, err := json.Marshal(message)
	if err != nil {
		colors.PrintError("Error marshaling sweep update: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		// no subscribers draining the channel; drop rather than block a sweep
	}
}

// HandleWebSocket upgrades the connection and registers the client
func HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		colors.PrintError("WebSocket upgrade failed: %v", err)
		return
	}

	WSHub.register <- conn

	// Reader loop: discard inbound frames, detect disconnect
	go func() {
		defer func() { WSHub.unregister <- conn }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// InitializeWebSocket initializes the global WebSocket hub
func InitializeWebSocket() {
	if WSHub == nil {
		WSHub = NewWebSocketHub()
		go WSHub.Run()
	}
}
