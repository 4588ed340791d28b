package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/KaripeHS/marketor-sub002/internal/config"
	"github.com/KaripeHS/marketor-sub002/internal/metrics"
	"github.com/KaripeHS/marketor-sub002/internal/notify"
	"github.com/KaripeHS/marketor-sub002/internal/realtime"
)

// NewRouter assembles the gateway's routes: the websocket endpoint, the
// internal notify/presence API for the application service layer, health
// and metrics.
func NewRouter(gateway *realtime.Gateway, dispatcher *notify.Dispatcher, m *metrics.Metrics, cfg config.Config, logger zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger), Observe(m))

	router.GET("/healthz", healthHandler)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.GET("/ws", gin.WrapH(NewWSHandler(gateway, cfg.AllowedOrigins, cfg.WSMessageLimit, logger)))

	nh := NewNotifyHandlers(dispatcher, logger)
	ph := NewPresenceHandlers(gateway)

	internal := router.Group("/internal")
	{
		internal.POST("/notify/users/:id", nh.NotifyUser)
		internal.POST("/notify/tenants/:id", nh.NotifyTenant)
		internal.POST("/broadcast", nh.Broadcast)

		internal.POST("/events/content-status", nh.ContentStatus)
		internal.POST("/events/approval-request", nh.ApprovalRequest)
		internal.POST("/events/approval-decision", nh.ApprovalDecision)
		internal.POST("/events/comment", nh.Comment)
		internal.POST("/events/publish-result", nh.PublishResult)

		internal.GET("/presence/users/:id", ph.UserPresence)
		internal.GET("/presence/tenants/:id", ph.TenantPresence)
	}

	return router
}

// NewServer wraps the router in an HTTP server bound to the configured
// address.
func NewServer(gateway *realtime.Gateway, dispatcher *notify.Dispatcher, m *metrics.Metrics, cfg config.Config, logger zerolog.Logger) *stdhttp.Server {
	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           NewRouter(gateway, dispatcher, m, cfg, logger),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
