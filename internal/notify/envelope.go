package notify

import (
	"time"

	"github.com/google/uuid"
)

// Type classifies a notification for client-side rendering.
type Type string

const (
	// TypeContentStatus announces that a piece of content moved to a new
	// workflow status.
	TypeContentStatus Type = "content_status"
	// TypeApprovalRequested asks an approver to review content.
	TypeApprovalRequested Type = "approval_requested"
	// TypeApprovalDecision reports an approve/reject decision to the author.
	TypeApprovalDecision Type = "approval_decision"
	// TypeNewComment announces a comment on content the user owns or follows.
	TypeNewComment Type = "new_comment"
	// TypePublishResult reports the outcome of publishing to a platform.
	TypePublishResult Type = "publish_result"
	// TypeAnnouncement is a free-form system-wide message.
	TypeAnnouncement Type = "announcement"
)

// Notification is the caller-supplied content of a notification, before the
// dispatcher stamps identity and time onto it.
type Notification struct {
	Type    Type
	Title   string
	Body    string
	Payload map[string]any
}

// Envelope is the normalized shape pushed to clients. It is never persisted
// here; durable notification rows are owned by the application database.
type Envelope struct {
	ID        string         `json:"id"`
	Type      Type           `json:"type"`
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// seal wraps a notification into a deliverable envelope. Ids are random
// rather than timestamp-derived so concurrent sends cannot collide.
func seal(n Notification) Envelope {
	return Envelope{
		ID:        uuid.NewString(),
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		Payload:   n.Payload,
		Timestamp: time.Now().UTC(),
	}
}
