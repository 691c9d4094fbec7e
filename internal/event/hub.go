package event

import (
	"log"
	"sync"

	"deal-pulse/internal/domain"
)

// Publisher fans an event out to everyone subscribed to a room. Rooms are
// per-user, so services publish without knowing who is connected.
type Publisher interface {
	Publish(room string, event domain.Event)
}

// Conn is the slice of a websocket connection the hub needs. Satisfied by
// *websocket.Conn.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[Conn]struct{}
	writeMu map[Conn]*sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[Conn]struct{}),
		writeMu: make(map[Conn]*sync.Mutex),
	}
}

func (h *Hub) Join(room string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[Conn]struct{})
	}
	h.rooms[room][c] = struct{}{}
	if h.writeMu[c] == nil {
		h.writeMu[c] = &sync.Mutex{}
	}
}

func (h *Hub) Leave(room string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	for _, members := range h.rooms {
		if _, ok := members[c]; ok {
			return
		}
	}
	delete(h.writeMu, c)
}

// Publish writes the event to every member of the room. A websocket connection
// tolerates only one writer at a time, so each member's writes are serialized
// behind its own lock. Members whose write fails are dropped; a dead
// connection must not wedge the room.
func (h *Hub) Publish(room string, event domain.Event) {
	h.mu.RLock()
	members := make([]Conn, 0, len(h.rooms[room]))
	locks := make([]*sync.Mutex, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		members = append(members, c)
		locks = append(locks, h.writeMu[c])
	}
	h.mu.RUnlock()

	for i, c := range members {
		if err := writeLocked(locks[i], c, event); err != nil {
			log.Printf("event hub: dropping subscriber in %s: %v", room, err)
			h.Leave(room, c)
			c.Close()
		}
	}
}

func writeLocked(mu *sync.Mutex, c Conn, event domain.Event) error {
	if mu != nil {
		mu.Lock()
		defer mu.Unlock()
	}
	return c.WriteJSON(event)
}

// RoomSize reports the current membership of a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
