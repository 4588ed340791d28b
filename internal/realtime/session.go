package realtime

import (
	"github.com/google/uuid"

	"github.com/KaripeHS/marketor-sub002/internal/notify"
)

// Session is one live client connection as seen by the gateway. The
// transport layer drains Events and writes each envelope to the socket.
type Session struct {
	ID     string
	Events chan notify.Envelope

	// rooms the session currently belongs to, guarded by the gateway mutex.
	rooms map[string]struct{}
}

// newSession constructs a session with a fresh connection id and a
// buffered event channel. Sends never block: when the buffer is full
// the envelope is dropped instead.
func newSession(buffer int) *Session {
	if buffer <= 0 {
		buffer = defaultSessionBuffer
	}
	return &Session{
		ID:     uuid.NewString(),
		Events: make(chan notify.Envelope, buffer),
		rooms:  make(map[string]struct{}),
	}
}

const defaultSessionBuffer = 16
