package socket

import "sync"

// Registry is the process-wide view of which live connections watch
// which rooms. Socket.IO keeps its own room bookkeeping for the actual
// fan-out; the registry backs occupancy queries and makes the
// join/disconnect lifecycle observable. No request owns it.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
	conns map[string]map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[string]map[string]struct{}),
		conns: make(map[string]map[string]struct{}),
	}
}

// Join subscribes a connection to a room. Idempotent.
func (r *Registry) Join(connID, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms[roomID] == nil {
		r.rooms[roomID] = make(map[string]struct{})
	}
	r.rooms[roomID][connID] = struct{}{}

	if r.conns[connID] == nil {
		r.conns[connID] = make(map[string]struct{})
	}
	r.conns[connID][roomID] = struct{}{}
}

// Disconnect drops every subscription held by the connection. No
// explicit leave is required.
func (r *Registry) Disconnect(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for roomID := range r.conns[connID] {
		delete(r.rooms[roomID], connID)
		if len(r.rooms[roomID]) == 0 {
			delete(r.rooms, roomID)
		}
	}
	delete(r.conns, connID)
}

// Occupancy reports how many connections currently watch the room.
func (r *Registry) Occupancy(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// Members returns the connection ids currently subscribed to the room.
func (r *Registry) Members(roomID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := make([]string, 0, len(r.rooms[roomID]))
	for connID := range r.rooms[roomID] {
		members = append(members, connID)
	}
	return members
}
