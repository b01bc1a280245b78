package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is a catalog change pushed to every connected client
type Event struct {
	Type    string     `json:"type"`
	Entity  string     `json:"entity"`
	Action  string     `json:"action"`
	ID      uint       `json:"id"`
	Name    string     `json:"name,omitempty"`
	User    *EventUser `json:"user,omitempty"`
	Message string     `json:"message"`
}

type EventUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
	log        *zap.Logger
	done       chan struct{}
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
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			h.log.Debug("ws client connected", zap.Int("clients", h.ClientCount()))

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

		case <-h.done:
			return
		}
	}
}

// Stop ends Run. Pending emits are dropped.
func (h *Hub) Stop() {
	close(h.done)
}

// Add hands conn to Run. It reports false once the hub has stopped.
func (h *Hub) Add(conn *websocket.Conn) bool {
	select {
	case h.Register <- conn:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Remove(conn *websocket.Conn) {
	select {
	case h.Unregister <- conn:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Emit publishes e without blocking the caller. A nil hub is a no-op.
func (h *Hub) Emit(e Event) {
	if h == nil {
		return
	}
	if e.Type == "" {
		e.Type = "catalog_change"
	}
	msg, err := json.Marshal(e)
	if err != nil {
		h.log.Warn("ws event marshal failed", zap.Error(err))
		return
	}
	go func() {
		select {
		case h.Broadcast <- msg:
		case <-h.done:
		}
	}()
}
