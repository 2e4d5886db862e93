package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/summitretail/preseason-backend/pkg/logger"
)

// ClientMessage is a subscription command from a connected client
type ClientMessage struct {
	Type    string `json:"type"` // subscribe, unsubscribe
	BrandID uint   `json:"brand_id"`
}

// ProgressEvent is pushed to subscribers while a catalog import runs
type ProgressEvent struct {
	Type      string `json:"type"` // always "import_progress"
	BrandID   uint   `json:"brand_id"`
	Stage     string `json:"stage"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Timestamp int64  `json:"timestamp"`
}

// Client is one websocket session
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte

	// Brands the client wants events for; empty means all brands
	Brands map[uint]bool
	mu     sync.RWMutex
}

func (c *Client) wantsBrand(brandID uint) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.Brands) == 0 {
		return true
	}
	return c.Brands[brandID]
}

// Hub fans import progress events out to connected clients
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *ProgressEvent

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan *ProgressEvent, 1024),
	}
}

// Run processes register, unregister, and broadcast events. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				logger.Error("Failed to marshal progress event", err, nil)
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				if !client.wantsBrand(event.BrandID) {
					continue
				}
				select {
				case client.Send <- data:
				default:
					// Send buffer full, drop the connection asynchronously
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NotifyProgress implements the import service's progress callback. Events
// are dropped rather than blocking an import run.
func (h *Hub) NotifyProgress(brandID uint, stage string, processed, total int) {
	event := &ProgressEvent{
		Type:      "import_progress",
		BrandID:   brandID,
		Stage:     stage,
		Processed: processed,
		Total:     total,
		Timestamp: time.Now().Unix(),
	}

	select {
	case h.broadcast <- event:
	default:
		logger.Warn("Broadcast channel full, progress event dropped", map[string]interface{}{
			"brand_id": brandID,
			"stage":    stage,
		})
	}
}

// HandleClientMessage applies a subscribe or unsubscribe command
func (h *Hub) HandleClientMessage(client *Client, raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Debug("Ignoring malformed client message", map[string]interface{}{
			"user_id": client.UserID,
		})
		return
	}

	client.mu.Lock()
	defer client.mu.Unlock()

	switch msg.Type {
	case "subscribe":
		client.Brands[msg.BrandID] = true
	case "unsubscribe":
		delete(client.Brands, msg.BrandID)
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ClientCount reports connected sessions, used by the health endpoint
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
