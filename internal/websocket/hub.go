package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Event names pushed to live dashboards and collector apps.
const (
	EventBinUpdated    = "bin.updated"
	EventAlertCreated  = "alert.created"
	EventRouteAssigned = "route.assigned"
	EventRouteUpdated  = "route.updated"
)

// Hub maintains active WebSocket connections and broadcasts events
// after successful mutations. Delivery is fire-and-forget: a slow or
// missing client never fails the request that produced the event.
type Hub struct {
	// Registered clients (userID -> Client)
	clients map[string]*Client

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex
}

// Message targets one user, or everyone when UserID is empty.
type Message struct {
	UserID string
	Data   interface{}
}

// Envelope is the wire format for pushed events.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
			log.Printf("✅ [WEBSOCKET] Client connected: %s (%s), total %d", client.UserID, client.UserRole, h.ClientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
				close(client.send)
				log.Printf("🔴 [WEBSOCKET] Client disconnected: %s, remaining %d", client.UserID, len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message.Data)
			if err != nil {
				log.Printf("❌ Failed to marshal message: %v", err)
				continue
			}

			h.mu.RLock()
			client, ok := h.clients[message.UserID]
			h.mu.RUnlock()
			if !ok {
				continue
			}

			select {
			case client.send <- data:
			default:
				// Client buffer full, disconnect. The map write needs the
				// write lock; Emit may be iterating under a read lock.
				h.mu.Lock()
				if _, still := h.clients[message.UserID]; still {
					delete(h.clients, message.UserID)
					close(client.send)
				}
				h.mu.Unlock()
				log.Printf("⚠️ Client buffer full, disconnecting: %s", message.UserID)
			}
		}
	}
}

// Emit broadcasts an event envelope to every connected client.
func (h *Hub) Emit(event string, data interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("❌ Failed to marshal %s event: %v", event, err)
		return
	}

	for _, client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Skip clients that cannot keep up.
		}
	}
}

// EmitToUser sends an event envelope to one user if connected.
func (h *Hub) EmitToUser(userID, event string, data interface{}) {
	h.broadcast <- &Message{
		UserID: userID,
		Data:   Envelope{Event: event, Data: data},
	}
}

// EmitToRole sends an event envelope to all users with a given role.
func (h *Hub) EmitToRole(role, event string, data interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("❌ Failed to marshal %s event: %v", event, err)
		return
	}

	for _, client := range h.clients {
		if client.UserRole == role {
			select {
			case client.send <- payload:
			default:
			}
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
