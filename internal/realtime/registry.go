package realtime

import "sync"

// Registry tracks which connections belong to which logical user. It is a
// pure liveness cache: state lives only in memory and is rebuilt from
// scratch as clients reconnect after a restart.
type Registry struct {
	mu    sync.RWMutex
	users map[string]map[string]struct{}
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]map[string]struct{}),
	}
}

// Track records connID as one of userID's live connections. Tracking the
// same pair twice is a no-op.
func (r *Registry) Track(userID, connID string) {
	if userID == "" || connID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	conns := r.users[userID]
	if conns == nil {
		conns = make(map[string]struct{})
		r.users[userID] = conns
	}
	conns[connID] = struct{}{}
}

// Untrack removes connID from every user it is recorded under. A user whose
// last connection goes away is deleted outright so no empty set lingers.
// The scan is linear in tracked users, which is fine for a per-process
// presence cache.
func (r *Registry) Untrack(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, conns := range r.users {
		if _, ok := conns[connID]; !ok {
			continue
		}
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.users, userID)
		}
	}
}

// UntrackUser removes connID from a single user's set. Unknown users or
// connections are ignored.
func (r *Registry) UntrackUser(userID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.users[userID]
	if !ok {
		return
	}
	delete(conns, connID)
	if len(conns) == 0 {
		delete(r.users, userID)
	}
}

// IsOnline reports whether the user has at least one tracked connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users[userID]) > 0
}

// Connections returns how many connections the user currently has.
func (r *Registry) Connections(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users[userID])
}

// TrackedUsers returns the number of users with at least one connection.
func (r *Registry) TrackedUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.users)
}
