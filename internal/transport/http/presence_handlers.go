package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KaripeHS/marketor-sub002/internal/realtime"
)

// PresenceHandlers answers liveness questions from the gateway's in-memory
// state. Reads only; safe alongside any amount of connect/disconnect churn.
type PresenceHandlers struct {
	gateway *realtime.Gateway
}

// NewPresenceHandlers creates a new presence handlers instance.
func NewPresenceHandlers(gateway *realtime.Gateway) *PresenceHandlers {
	return &PresenceHandlers{gateway: gateway}
}

// UserPresenceResponse reports whether a user has any live connection.
type UserPresenceResponse struct {
	UserID string `json:"userId"`
	Online bool   `json:"online"`
}

// TenantPresenceResponse reports how many connections sit in a tenant room.
type TenantPresenceResponse struct {
	TenantID    string `json:"tenantId"`
	Connections int    `json:"connections"`
}

// UserPresence handles GET /internal/presence/users/:id.
func (h *PresenceHandlers) UserPresence(c *gin.Context) {
	userID := c.Param("id")
	c.JSON(http.StatusOK, UserPresenceResponse{
		UserID: userID,
		Online: h.gateway.IsUserOnline(userID),
	})
}

// TenantPresence handles GET /internal/presence/tenants/:id.
func (h *PresenceHandlers) TenantPresence(c *gin.Context) {
	tenantID := c.Param("id")
	c.JSON(http.StatusOK, TenantPresenceResponse{
		TenantID:    tenantID,
		Connections: h.gateway.OnlineCountInTenant(tenantID),
	})
}
