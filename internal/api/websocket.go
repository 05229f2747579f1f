package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/calvinwijaya/blackjack/internal/game"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Origins are filtered by the CORS layer in front of the router
	},
}

// Message represents a WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Client represents a connected spectator
type Client struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// Hub fans table events out to every spectator and remembers the latest
// table snapshot. It only ever sees copies of engine state.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}

	mu       sync.RWMutex
	snapshot *game.Snapshot
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow spectator, drop it
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// OnEvent implements game.Listener
func (h *Hub) OnEvent(e game.Event) {
	snapshot := e.Snapshot
	h.mu.Lock()
	h.snapshot = &snapshot
	h.mu.Unlock()

	data, err := json.Marshal(Message{Type: string(e.Kind), Data: e})
	if err != nil {
		log.Printf("api: error marshaling event: %v", err)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		log.Printf("api: broadcast queue full, dropping %s event", e.Kind)
	}
}

// Snapshot returns the table as of the latest event
func (h *Hub) Snapshot() (game.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.snapshot == nil {
		return game.Snapshot{}, false
	}
	return *h.snapshot, true
}

// WebSocketHandler handles WebSocket connections
func (h *Hub) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("api: websocket upgrade: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
		hub:  h,
	}

	// Queue a welcome message with the current table
	welcome := Message{Type: "welcome"}
	if snapshot, ok := h.Snapshot(); ok {
		welcome.Data = snapshot
	}
	welcomeData, _ := json.Marshal(welcome)
	client.send <- welcomeData

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.readPump()
	go client.writePump()
}

// readPump only watches for the connection going away; spectators cannot
// send anything to the table.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("api: websocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
