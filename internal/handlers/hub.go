// internal/handlers/hub.go
package handlers

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/president-online/president/internal/game"
	"github.com/sirupsen/logrus"
)

// outboundBuffer is how many encoded events may queue for one client before it is dropped.
const outboundBuffer = 64

// Connection wraps a single player's websocket for the hub.
type Connection struct {
	ID       string
	PlayerID uuid.UUID
	RoomID   uuid.UUID
	Cancel   context.CancelFunc
	OutChan  chan []byte

	replaced atomic.Bool
}

// NewConnection builds a Connection with a fresh id and an outbound queue.
func NewConnection(roomID, playerID uuid.UUID, cancel context.CancelFunc) *Connection {
	return &Connection{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		RoomID:   roomID,
		Cancel:   cancel,
		OutChan:  make(chan []byte, outboundBuffer),
	}
}

// Write queues data without blocking. It reports false when the queue is full.
func (c *Connection) Write(data []byte) bool {
	select {
	case c.OutChan <- data:
		return true
	default:
		return false
	}
}

// Replaced reports whether a newer connection for the same player took this one over.
func (c *Connection) Replaced() bool {
	return c.replaced.Load()
}

// Hub fans room events out to connections. It never touches a room lock, so rooms may
// call into it while holding theirs; the actual socket writes happen in each
// connection's write pump.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[uuid.UUID]*Connection
	logger *logrus.Logger

	// OnCountChange is told the number of registered connections after it changes.
	OnCountChange func(n int)
}

func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[uuid.UUID]*Connection),
		logger: logger,
	}
}

// Register adds conn, replacing and cancelling any earlier connection of the same player.
func (h *Hub) Register(conn *Connection) {
	h.mu.Lock()
	members, ok := h.rooms[conn.RoomID]
	if !ok {
		members = make(map[uuid.UUID]*Connection)
		h.rooms[conn.RoomID] = members
	}
	old := members[conn.PlayerID]
	members[conn.PlayerID] = conn
	n := h.countLocked()
	h.mu.Unlock()

	if old != nil {
		old.replaced.Store(true)
		if old.Cancel != nil {
			old.Cancel()
		}
	}
	h.countChanged(n)
}

// Unregister removes conn if it is still the player's current connection and reports
// whether it did.
func (h *Hub) Unregister(conn *Connection) bool {
	h.mu.Lock()
	members := h.rooms[conn.RoomID]
	if members == nil || members[conn.PlayerID] != conn {
		h.mu.Unlock()
		return false
	}
	delete(members, conn.PlayerID)
	if len(members) == 0 {
		delete(h.rooms, conn.RoomID)
	}
	n := h.countLocked()
	h.mu.Unlock()
	h.countChanged(n)
	return true
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.countLocked()
}

func (h *Hub) countLocked() int {
	n := 0
	for _, members := range h.rooms {
		n += len(members)
	}
	return n
}

func (h *Hub) countChanged(n int) {
	if h.OnCountChange != nil {
		h.OnCountChange(n)
	}
}

// BroadcastFunc returns a Room.BroadcastFn delivering to every connection in roomID.
func (h *Hub) BroadcastFunc(roomID uuid.UUID) func(ev game.RoomEvent) {
	return func(ev game.RoomEvent) {
		data := game.EncodeEvent(ev)
		h.mu.RLock()
		targets := make([]*Connection, 0, len(h.rooms[roomID]))
		for _, c := range h.rooms[roomID] {
			targets = append(targets, c)
		}
		h.mu.RUnlock()

		for _, c := range targets {
			h.deliver(c, data, ev.Type)
		}
	}
}

// SendFunc returns a Room.BroadcastToPlayerFn delivering to one connection in roomID.
func (h *Hub) SendFunc(roomID uuid.UUID) func(playerID uuid.UUID, ev game.RoomEvent) {
	return func(playerID uuid.UUID, ev game.RoomEvent) {
		h.mu.RLock()
		c := h.rooms[roomID][playerID]
		h.mu.RUnlock()
		if c == nil {
			return
		}
		h.deliver(c, game.EncodeEvent(ev), ev.Type)
	}
}

func (h *Hub) deliver(c *Connection, data []byte, evType game.RoomEventType) {
	if c.Write(data) {
		return
	}
	h.logger.WithFields(logrus.Fields{
		"room":   c.RoomID,
		"player": c.PlayerID,
		"event":  evType,
	}).Warn("outbound queue full, dropping connection")
	if c.Cancel != nil {
		c.Cancel()
	}
}
