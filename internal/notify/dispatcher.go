package notify

import (
	"github.com/rs/zerolog"

	"github.com/KaripeHS/marketor-sub002/internal/metrics"
)

// Emitter is the transport-side fan-out primitive the dispatcher writes to.
// Implementations return how many connections the envelope reached; zero
// means the target had no live connections, which is not an error.
type Emitter interface {
	EmitToUser(userID string, env Envelope) int
	EmitToTenant(tenantID string, env Envelope) int
	Broadcast(env Envelope) int
}

// Dispatcher turns domain events into envelopes and routes them to a user,
// a tenant, or everyone. Delivery is best effort: there is no queueing, no
// retry and no confirmation, so every method is infallible by design.
type Dispatcher struct {
	emitter Emitter
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewDispatcher wires a dispatcher to its emitter.
func NewDispatcher(emitter Emitter, m *metrics.Metrics, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		emitter: emitter,
		metrics: m,
		log:     logger.With().Str("component", "dispatcher").Logger(),
	}
}

// NotifyUser delivers a notification to every connection of one user.
func (d *Dispatcher) NotifyUser(userID string, n Notification) {
	env := seal(n)
	reached := d.emitter.EmitToUser(userID, env)
	d.record("user", env, reached)
}

// NotifyTenant delivers a notification to every connection joined to the
// tenant's room.
func (d *Dispatcher) NotifyTenant(tenantID string, n Notification) {
	env := seal(n)
	reached := d.emitter.EmitToTenant(tenantID, env)
	d.record("tenant", env, reached)
}

// Broadcast delivers a notification to every connected client, whether or
// not it has joined any room.
func (d *Dispatcher) Broadcast(n Notification) {
	env := seal(n)
	reached := d.emitter.Broadcast(env)
	d.record("broadcast", env, reached)
}

func (d *Dispatcher) record(target string, env Envelope, reached int) {
	d.metrics.NotificationEmitted(string(env.Type), target, reached)
	d.log.Debug().
		Str("target", target).
		Str("type", string(env.Type)).
		Str("id", env.ID).
		Int("reached", reached).
		Msg("notification emitted")
}
