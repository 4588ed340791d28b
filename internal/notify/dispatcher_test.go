package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaripeHS/marketor-sub002/internal/metrics"
)

type emitCall struct {
	target string
	env    Envelope
}

// spyEmitter records every emit and reports a configurable receiver count.
type spyEmitter struct {
	calls    []emitCall
	online   map[string]int
	sessions int
}

func (s *spyEmitter) EmitToUser(userID string, env Envelope) int {
	s.calls = append(s.calls, emitCall{target: "user:" + userID, env: env})
	return s.online["user:"+userID]
}

func (s *spyEmitter) EmitToTenant(tenantID string, env Envelope) int {
	s.calls = append(s.calls, emitCall{target: "tenant:" + tenantID, env: env})
	return s.online["tenant:"+tenantID]
}

func (s *spyEmitter) Broadcast(env Envelope) int {
	s.calls = append(s.calls, emitCall{target: "broadcast", env: env})
	return s.sessions
}

func newTestDispatcher(spy *spyEmitter) *Dispatcher {
	return NewDispatcher(spy, metrics.New(), zerolog.Nop())
}

func TestNotifyUserStampsEnvelope(t *testing.T) {
	spy := &spyEmitter{online: map[string]int{"user:u1": 1}}
	d := newTestDispatcher(spy)

	before := time.Now().UTC()
	d.NotifyUser("u1", Notification{
		Type:    TypeAnnouncement,
		Title:   "Maintenance",
		Body:    "back soon",
		Payload: map[string]any{"window": "5m"},
	})

	require.Len(t, spy.calls, 1)
	call := spy.calls[0]
	assert.Equal(t, "user:u1", call.target)
	assert.Equal(t, TypeAnnouncement, call.env.Type)
	assert.Equal(t, "Maintenance", call.env.Title)
	assert.Equal(t, "back soon", call.env.Body)
	assert.Equal(t, map[string]any{"window": "5m"}, call.env.Payload)
	assert.NotEmpty(t, call.env.ID)
	assert.False(t, call.env.Timestamp.Before(before))
}

func TestEnvelopeIDsAreUnique(t *testing.T) {
	spy := &spyEmitter{}
	d := newTestDispatcher(spy)

	d.NotifyUser("u1", Notification{Type: TypeAnnouncement, Title: "a"})
	d.NotifyUser("u1", Notification{Type: TypeAnnouncement, Title: "b"})

	require.Len(t, spy.calls, 2)
	assert.NotEqual(t, spy.calls[0].env.ID, spy.calls[1].env.ID)
}

func TestNotifyOfflineUserEmitsWithoutError(t *testing.T) {
	spy := &spyEmitter{} // every target reports zero receivers
	d := newTestDispatcher(spy)

	d.NotifyUser("ghost", Notification{Type: TypeAnnouncement, Title: "hi"})

	// The emit is attempted exactly once and the zero-receiver outcome is
	// not surfaced as an error.
	require.Len(t, spy.calls, 1)
}

func TestNotifyTenantTargetsTenantRoom(t *testing.T) {
	spy := &spyEmitter{online: map[string]int{"tenant:t1": 3}}
	d := newTestDispatcher(spy)

	d.NotifyTenant("t1", Notification{Type: TypeAnnouncement, Title: "hi"})

	require.Len(t, spy.calls, 1)
	assert.Equal(t, "tenant:t1", spy.calls[0].target)
}

func TestApprovalDecisionApproved(t *testing.T) {
	spy := &spyEmitter{}
	d := newTestDispatcher(spy)

	d.ApprovalDecision("u2", "content-42", "APPROVED", "My Post")

	require.Len(t, spy.calls, 1)
	call := spy.calls[0]
	assert.Equal(t, "user:u2", call.target)
	assert.Equal(t, TypeApprovalDecision, call.env.Type)
	assert.Equal(t, "Content Approved", call.env.Title)
	assert.Contains(t, call.env.Body, "My Post")
	assert.Contains(t, call.env.Body, "approved")
	assert.Equal(t, map[string]any{"contentId": "content-42", "decision": "APPROVED"}, call.env.Payload)
}

func TestApprovalDecisionRejected(t *testing.T) {
	spy := &spyEmitter{}
	d := newTestDispatcher(spy)

	d.ApprovalDecision("u2", "content-42", "REJECTED", "My Post")

	require.Len(t, spy.calls, 1)
	call := spy.calls[0]
	assert.Equal(t, "Content Rejected", call.env.Title)
	assert.Contains(t, call.env.Body, "rejected")
}

func TestNewCommentTruncation(t *testing.T) {
	long := strings.Repeat("a", 101)
	exact := strings.Repeat("b", 100)

	spy := &spyEmitter{}
	d := newTestDispatcher(spy)

	d.NewComment("u1", "content-1", "comment-1", "alice", long)
	d.NewComment("u1", "content-1", "comment-2", "alice", exact)

	require.Len(t, spy.calls, 2)
	assert.Equal(t, strings.Repeat("a", 100)+"...", spy.calls[0].env.Body)
	assert.Equal(t, exact, spy.calls[1].env.Body)
}

func TestNewCommentTruncationCountsRunes(t *testing.T) {
	long := strings.Repeat("é", 150)

	spy := &spyEmitter{}
	d := newTestDispatcher(spy)
	d.NewComment("u1", "content-1", "comment-1", "alice", long)

	require.Len(t, spy.calls, 1)
	assert.Equal(t, strings.Repeat("é", 100)+"...", spy.calls[0].env.Body)
}

func TestContentStatusChanged(t *testing.T) {
	spy := &spyEmitter{}
	d := newTestDispatcher(spy)

	d.ContentStatusChanged("u1", "content-7", "Summer Sale", "scheduled")

	require.Len(t, spy.calls, 1)
	call := spy.calls[0]
	assert.Equal(t, TypeContentStatus, call.env.Type)
	assert.Equal(t, "Content Status Updated", call.env.Title)
	assert.Contains(t, call.env.Body, "Summer Sale")
	assert.Contains(t, call.env.Body, "scheduled")
	assert.Equal(t, map[string]any{"contentId": "content-7", "status": "scheduled"}, call.env.Payload)
}

func TestApprovalRequested(t *testing.T) {
	spy := &spyEmitter{}
	d := newTestDispatcher(spy)

	d.ApprovalRequested("approver-1", "content-7", "Summer Sale", "u1")

	require.Len(t, spy.calls, 1)
	call := spy.calls[0]
	assert.Equal(t, "user:approver-1", call.target)
	assert.Equal(t, TypeApprovalRequested, call.env.Type)
	assert.Equal(t, "Approval Requested", call.env.Title)
	assert.Contains(t, call.env.Body, "awaiting your review")
	assert.Equal(t, "u1", call.env.Payload["requestedBy"])
}

func TestPublishResultSuccess(t *testing.T) {
	spy := &spyEmitter{}
	d := newTestDispatcher(spy)

	d.PublishResult("u1", "content-7", "Summer Sale", "instagram", true, "")

	require.Len(t, spy.calls, 1)
	call := spy.calls[0]
	assert.Equal(t, "Post Published", call.env.Title)
	assert.Contains(t, call.env.Body, "instagram")
	assert.Equal(t, true, call.env.Payload["success"])
	assert.NotContains(t, call.env.Payload, "error")
}

func TestPublishResultFailureCarriesError(t *testing.T) {
	spy := &spyEmitter{}
	d := newTestDispatcher(spy)

	d.PublishResult("u1", "content-7", "Summer Sale", "instagram", false, "token expired")

	require.Len(t, spy.calls, 1)
	call := spy.calls[0]
	assert.Equal(t, "Publish Failed", call.env.Title)
	assert.Contains(t, call.env.Body, "token expired")
	assert.Equal(t, false, call.env.Payload["success"])
	assert.Equal(t, "token expired", call.env.Payload["error"])
}

func TestBroadcastTargetsEveryone(t *testing.T) {
	spy := &spyEmitter{sessions: 5}
	d := newTestDispatcher(spy)

	d.Broadcast(Notification{Type: TypeAnnouncement, Title: "hi"})

	require.Len(t, spy.calls, 1)
	assert.Equal(t, "broadcast", spy.calls[0].target)
}
