package realtime

import (
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/KaripeHS/marketor-sub002/internal/metrics"
	"github.com/KaripeHS/marketor-sub002/internal/notify"
)

// Room name prefixes. A connection can sit in a tenant-wide broadcast room
// and a per-user direct room at the same time.
const (
	tenantRoomPrefix = "tenant:"
	userRoomPrefix   = "user:"
)

func tenantRoom(tenantID string) string { return tenantRoomPrefix + tenantID }
func userRoom(userID string) string     { return userRoomPrefix + userID }

func roomKind(room string) string {
	if strings.HasPrefix(room, tenantRoomPrefix) {
		return "tenant"
	}
	return "user"
}

// Membership names the rooms a join or leave applies to. Both fields are
// optional and the two branches are independent.
type Membership struct {
	TenantID string
	UserID   string
}

// Gateway owns every live session in this process: the room table, the
// user presence registry and the fan-out primitives the dispatcher emits
// through. All state is in-memory and scoped to a single process; scaling
// out horizontally would need an external relay to mirror emits across
// instances, which is deliberately not provided here.
type Gateway struct {
	mu       sync.RWMutex
	sessions map[*Session]struct{}
	rooms    map[string]map[*Session]struct{}

	registry *Registry
	metrics  *metrics.Metrics
	log      zerolog.Logger

	sessionBuffer int
}

// NewGateway constructs a gateway around the given presence registry.
// sessionBuffer caps how many undelivered envelopes a slow connection may
// hold before further ones are dropped.
func NewGateway(registry *Registry, m *metrics.Metrics, logger zerolog.Logger, sessionBuffer int) *Gateway {
	return &Gateway{
		sessions:      make(map[*Session]struct{}),
		rooms:         make(map[string]map[*Session]struct{}),
		registry:      registry,
		metrics:       m,
		log:           logger.With().Str("component", "gateway").Logger(),
		sessionBuffer: sessionBuffer,
	}
}

// Connect registers a new session. The caller owns the session lifecycle
// and must call Disconnect exactly once when the transport closes.
func (g *Gateway) Connect() *Session {
	sess := newSession(g.sessionBuffer)

	g.mu.Lock()
	g.sessions[sess] = struct{}{}
	g.mu.Unlock()

	g.metrics.ConnectionOpened()
	g.log.Debug().Str("conn_id", sess.ID).Msg("session connected")
	return sess
}

// Disconnect removes the session from every room it holds and from the
// presence registry. Safe to call for a session that never joined anything.
func (g *Gateway) Disconnect(sess *Session) {
	g.mu.Lock()
	for room := range sess.rooms {
		g.removeFromRoom(room, sess)
	}
	delete(g.sessions, sess)
	g.mu.Unlock()

	g.registry.Untrack(sess.ID)
	g.metrics.ConnectionClosed()
	g.metrics.SetUsersOnline(g.registry.TrackedUsers())
	g.log.Debug().Str("conn_id", sess.ID).Msg("session disconnected")
}

// Join adds the session to the tenant and/or user room named by m. The
// user branch also marks the user online in the registry. It returns the
// session's full room list after the join, sorted for stable replies.
func (g *Gateway) Join(sess *Session, m Membership) []string {
	g.mu.Lock()
	if m.TenantID != "" {
		g.addToRoom(tenantRoom(m.TenantID), sess)
		g.metrics.RoomJoined("tenant")
	}
	if m.UserID != "" {
		g.addToRoom(userRoom(m.UserID), sess)
		g.metrics.RoomJoined("user")
	}
	rooms := make([]string, 0, len(sess.rooms))
	for room := range sess.rooms {
		rooms = append(rooms, room)
	}
	g.mu.Unlock()

	if m.UserID != "" {
		g.registry.Track(m.UserID, sess.ID)
		g.metrics.SetUsersOnline(g.registry.TrackedUsers())
	}

	sort.Strings(rooms)
	g.log.Debug().
		Str("conn_id", sess.ID).
		Str("tenant_id", m.TenantID).
		Str("user_id", m.UserID).
		Strs("rooms", rooms).
		Msg("session joined")
	return rooms
}

// Leave is the idempotent inverse of Join: leaving a room the session never
// joined is a no-op. The user branch also untracks the connection for that
// user.
func (g *Gateway) Leave(sess *Session, m Membership) {
	g.mu.Lock()
	if m.TenantID != "" {
		g.removeFromRoom(tenantRoom(m.TenantID), sess)
	}
	if m.UserID != "" {
		g.removeFromRoom(userRoom(m.UserID), sess)
	}
	g.mu.Unlock()

	if m.UserID != "" {
		g.registry.UntrackUser(m.UserID, sess.ID)
		g.metrics.SetUsersOnline(g.registry.TrackedUsers())
	}

	g.log.Debug().
		Str("conn_id", sess.ID).
		Str("tenant_id", m.TenantID).
		Str("user_id", m.UserID).
		Msg("session left")
}

// EmitToUser fans an envelope out to every connection in the user's room.
func (g *Gateway) EmitToUser(userID string, env notify.Envelope) int {
	return g.emitToRoom(userRoom(userID), env)
}

// EmitToTenant fans an envelope out to every connection in the tenant's room.
func (g *Gateway) EmitToTenant(tenantID string, env notify.Envelope) int {
	return g.emitToRoom(tenantRoom(tenantID), env)
}

// Broadcast fans an envelope out to every connected session, joined or not.
func (g *Gateway) Broadcast(env notify.Envelope) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	delivered := 0
	for sess := range g.sessions {
		if g.push(sess, env) {
			delivered++
		}
	}
	return delivered
}

// IsUserOnline reports whether the user has at least one live connection.
func (g *Gateway) IsUserOnline(userID string) bool {
	return g.registry.IsOnline(userID)
}

// OnlineCountInTenant returns how many connections are joined to the
// tenant's room. This reads the room table, not the registry: anonymous
// connections that joined only the tenant room count too.
func (g *Gateway) OnlineCountInTenant(tenantID string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.rooms[tenantRoom(tenantID)])
}

// SessionCount returns the number of open sessions.
func (g *Gateway) SessionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.sessions)
}

// Registry exposes the presence registry for read-side collaborators.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

func (g *Gateway) emitToRoom(room string, env notify.Envelope) int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	members, ok := g.rooms[room]
	if !ok {
		return 0
	}
	delivered := 0
	for sess := range members {
		if g.push(sess, env) {
			delivered++
		}
	}
	return delivered
}

// push hands the envelope to the session's write loop without blocking.
// A full buffer means the client is not keeping up; the envelope is dropped
// rather than stalling the emitter.
func (g *Gateway) push(sess *Session, env notify.Envelope) bool {
	select {
	case sess.Events <- env:
		return true
	default:
		g.log.Warn().
			Str("conn_id", sess.ID).
			Str("envelope_id", env.ID).
			Msg("slow consumer, envelope dropped")
		return false
	}
}

// addToRoom and removeFromRoom require g.mu to be held for writing.
func (g *Gateway) addToRoom(room string, sess *Session) {
	members, ok := g.rooms[room]
	if !ok {
		members = make(map[*Session]struct{})
		g.rooms[room] = members
	}
	members[sess] = struct{}{}
	sess.rooms[room] = struct{}{}
}

func (g *Gateway) removeFromRoom(room string, sess *Session) {
	if _, joined := sess.rooms[room]; !joined {
		return
	}
	if members, ok := g.rooms[room]; ok {
		delete(members, sess)
		if len(members) == 0 {
			delete(g.rooms, room)
		}
	}
	delete(sess.rooms, room)
	g.metrics.RoomLeft(roomKind(room))
}
