// Package proto defines the JSON frames exchanged over the websocket.
package proto

import "encoding/json"

// Inbound is the envelope for frames coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin  = "join"
	InboundTypeLeave = "leave"

	OutboundTypeJoin         = "join"
	OutboundTypeLeave        = "leave"
	OutboundTypeNotification = "notification"
	OutboundTypeError        = "error"
)

// MembershipData is the payload of join and leave frames. Both fields are
// optional; a frame naming neither room is tolerated and does nothing.
type MembershipData struct {
	TenantID string `json:"tenantId,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

// Outbound is the envelope for frames sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// JoinReply acknowledges a join with the connection's room list.
type JoinReply struct {
	Success bool     `json:"success"`
	Rooms   []string `json:"rooms"`
}

// LeaveReply acknowledges a leave.
type LeaveReply struct {
	Success bool `json:"success"`
}

// Error describes a protocol-level error frame.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}

// Error codes used in error frames.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeRateLimited    = "rate_limited"
)
