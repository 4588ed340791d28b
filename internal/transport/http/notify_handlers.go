package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/KaripeHS/marketor-sub002/internal/notify"
)

// NotifyHandlers exposes the dispatcher to the application service layer.
// Every endpoint is fire-and-forget: a 202 only means the notification was
// handed to the fan-out layer, not that anyone received it.
type NotifyHandlers struct {
	dispatcher *notify.Dispatcher
	log        zerolog.Logger
}

// NewNotifyHandlers creates a new notify handlers instance.
func NewNotifyHandlers(dispatcher *notify.Dispatcher, logger zerolog.Logger) *NotifyHandlers {
	return &NotifyHandlers{
		dispatcher: dispatcher,
		log:        logger,
	}
}

// NotificationRequest represents a free-form notification body.
type NotificationRequest struct {
	Type    string         `json:"type" binding:"required"`
	Title   string         `json:"title" binding:"required"`
	Body    string         `json:"body"`
	Payload map[string]any `json:"payload"`
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AcceptedResponse acknowledges a fire-and-forget request.
type AcceptedResponse struct {
	Status string `json:"status"`
}

func accepted(c *gin.Context) {
	c.JSON(http.StatusAccepted, AcceptedResponse{Status: "accepted"})
}

func (h *NotifyHandlers) notification(req NotificationRequest) notify.Notification {
	return notify.Notification{
		Type:    notify.Type(req.Type),
		Title:   req.Title,
		Body:    req.Body,
		Payload: req.Payload,
	}
}

// NotifyUser pushes a notification to one user's connections.
// POST /internal/notify/users/:id
func (h *NotifyHandlers) NotifyUser(c *gin.Context) {
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid notify request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.dispatcher.NotifyUser(c.Param("id"), h.notification(req))
	accepted(c)
}

// NotifyTenant pushes a notification to every connection in a tenant room.
// POST /internal/notify/tenants/:id
func (h *NotifyHandlers) NotifyTenant(c *gin.Context) {
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid notify request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.dispatcher.NotifyTenant(c.Param("id"), h.notification(req))
	accepted(c)
}

// Broadcast pushes a notification to every connected client.
// POST /internal/broadcast
func (h *NotifyHandlers) Broadcast(c *gin.Context) {
	var req NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid broadcast request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.dispatcher.Broadcast(h.notification(req))
	accepted(c)
}

// ContentStatusRequest reports a content workflow transition.
type ContentStatusRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ContentID string `json:"contentId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

// ContentStatus maps a content workflow transition onto its template.
// POST /internal/events/content-status
func (h *NotifyHandlers) ContentStatus(c *gin.Context) {
	var req ContentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.dispatcher.ContentStatusChanged(req.UserID, req.ContentID, req.Title, req.Status)
	accepted(c)
}

// ApprovalRequestRequest asks an approver to review content.
type ApprovalRequestRequest struct {
	ApproverID  string `json:"approverId" binding:"required"`
	ContentID   string `json:"contentId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	RequestedBy string `json:"requestedBy"`
}

// ApprovalRequest maps an approval request onto its template.
// POST /internal/events/approval-request
func (h *NotifyHandlers) ApprovalRequest(c *gin.Context) {
	var req ApprovalRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.dispatcher.ApprovalRequested(req.ApproverID, req.ContentID, req.Title, req.RequestedBy)
	accepted(c)
}

// ApprovalDecisionRequest reports an approve/reject decision.
type ApprovalDecisionRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ContentID string `json:"contentId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Decision  string `json:"decision" binding:"required"`
}

// ApprovalDecision maps an approval decision onto its template.
// POST /internal/events/approval-decision
func (h *NotifyHandlers) ApprovalDecision(c *gin.Context) {
	var req ApprovalDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.dispatcher.ApprovalDecision(req.UserID, req.ContentID, req.Decision, req.Title)
	accepted(c)
}

// CommentRequest reports a new comment on content.
type CommentRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ContentID string `json:"contentId" binding:"required"`
	CommentID string `json:"commentId" binding:"required"`
	Author    string `json:"author"`
	Text      string `json:"text" binding:"required"`
}

// Comment maps a new comment onto its template.
// POST /internal/events/comment
func (h *NotifyHandlers) Comment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.dispatcher.NewComment(req.UserID, req.ContentID, req.CommentID, req.Author, req.Text)
	accepted(c)
}

// PublishResultRequest reports the outcome of publishing to a platform.
type PublishResultRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ContentID string `json:"contentId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Platform  string `json:"platform" binding:"required"`
	Success   *bool  `json:"success" binding:"required"`
	Error     string `json:"error"`
}

// PublishResult maps a publish outcome onto its template.
// POST /internal/events/publish-result
func (h *NotifyHandlers) PublishResult(c *gin.Context) {
	var req PublishResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.dispatcher.PublishResult(req.UserID, req.ContentID, req.Title, req.Platform, *req.Success, req.Error)
	accepted(c)
}
