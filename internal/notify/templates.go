package notify

import (
	"fmt"
	"strings"
)

// maxCommentBody is how much of a comment is shown inline before it is cut.
const maxCommentBody = 100

// ContentStatusChanged tells the content owner that their post moved to a
// new workflow status (draft, pending approval, scheduled, published, ...).
func (d *Dispatcher) ContentStatusChanged(userID, contentID, contentTitle, status string) {
	d.NotifyUser(userID, Notification{
		Type:  TypeContentStatus,
		Title: "Content Status Updated",
		Body:  fmt.Sprintf("%q moved to %s", contentTitle, status),
		Payload: map[string]any{
			"contentId": contentID,
			"status":    status,
		},
	})
}

// ApprovalRequested asks an approver to review a piece of content.
func (d *Dispatcher) ApprovalRequested(approverID, contentID, contentTitle, requestedBy string) {
	d.NotifyUser(approverID, Notification{
		Type:  TypeApprovalRequested,
		Title: "Approval Requested",
		Body:  fmt.Sprintf("%q is awaiting your review", contentTitle),
		Payload: map[string]any{
			"contentId":   contentID,
			"requestedBy": requestedBy,
		},
	})
}

// ApprovalDecision reports an approve/reject outcome to the content author.
// The decision is rendered lowercased in the body ("approved", "rejected").
func (d *Dispatcher) ApprovalDecision(userID, contentID, decision, contentTitle string) {
	title := "Content Rejected"
	if strings.EqualFold(decision, "approved") {
		title = "Content Approved"
	}
	d.NotifyUser(userID, Notification{
		Type:  TypeApprovalDecision,
		Title: title,
		Body:  fmt.Sprintf("%q was %s", contentTitle, strings.ToLower(decision)),
		Payload: map[string]any{
			"contentId": contentID,
			"decision":  decision,
		},
	})
}

// NewComment tells the content owner about a fresh comment. Long comment
// bodies are truncated so the envelope stays a preview, not a transcript.
func (d *Dispatcher) NewComment(userID, contentID, commentID, author, text string) {
	d.NotifyUser(userID, Notification{
		Type:  TypeNewComment,
		Title: "New Comment",
		Body:  truncate(text, maxCommentBody),
		Payload: map[string]any{
			"contentId": contentID,
			"commentId": commentID,
			"author":    author,
		},
	})
}

// PublishResult reports whether a scheduled post made it to the target
// platform. On failure the platform error string travels in the payload.
func (d *Dispatcher) PublishResult(userID, contentID, contentTitle, platform string, success bool, errMsg string) {
	payload := map[string]any{
		"contentId": contentID,
		"platform":  platform,
		"success":   success,
	}

	title := "Post Published"
	body := fmt.Sprintf("%q was published to %s", contentTitle, platform)
	if !success {
		title = "Publish Failed"
		body = fmt.Sprintf("publishing %q to %s failed", contentTitle, platform)
		if errMsg != "" {
			body += ": " + errMsg
			payload["error"] = errMsg
		}
	}

	d.NotifyUser(userID, Notification{
		Type:    TypePublishResult,
		Title:   title,
		Body:    body,
		Payload: payload,
	})
}

// truncate cuts s to max runes, appending "..." only when something was cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
