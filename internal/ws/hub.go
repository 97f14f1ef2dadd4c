package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is the envelope pushed to dashboard clients after a write commits.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Event types
const (
	EventProductChanged     = "PRODUCT_CHANGED"
	EventTransactionCreated = "TRANSACTION_CREATED"
	EventTransactionUpdated = "TRANSACTION_UPDATED"
	EventTransactionDeleted = "TRANSACTION_DELETED"
	EventStatusChanged      = "TRANSACTION_STATUS_CHANGED"
)

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Info("ws client connected", zap.Int("clients", h.ClientCount()))

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish queues an event for broadcast. It never blocks the caller: when
// the buffer is full the event is dropped. A nil hub is a no-op.
func (h *Hub) Publish(eventType string, data interface{}) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		h.log.Warn("ws event not encodable", zap.String("type", eventType), zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- payload:
	default:
		h.log.Warn("ws broadcast buffer full, dropping event", zap.String("type", eventType))
	}
}

// Handler serves one websocket connection until the client goes away.
func (h *Hub) Handler(c *websocket.Conn) {
	h.Register <- c
	defer func() { h.Unregister <- c }()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}
