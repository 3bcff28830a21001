package routes

import (
	"net/http"

	"visaflow_backend/internal/config"
	"visaflow_backend/internal/handlers"
	"visaflow_backend/internal/middleware"
	"visaflow_backend/ws"

	"github.com/gin-gonic/gin"
)

// Register wires every route group under /api/v1 plus the websocket
// endpoint and the health probe.
func Register(r *gin.Engine, h *handlers.AppHandlers, hub *ws.Manager, cfg *config.Config) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authLimit := middleware.RateLimitMiddleware(cfg.RateLimit.AuthPerMinute)
	apiLimit := middleware.RateLimitMiddleware(cfg.RateLimit.APIPerMinute)

	api := r.Group("/api/v1")
	api.Use(apiLimit)

	h.Auth.RegisterRoutes(api, authLimit)
	h.User.RegisterRoutes(api)
	h.Case.RegisterRoutes(api)
	h.Notification.RegisterRoutes(api)
	h.Call.RegisterRoutes(api)
	h.Document.RegisterRoutes(api)

	api.GET("/ws", middleware.AuthMiddleware(), func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		ws.ServeWS(hub, c.Writer, c.Request, userID)
	})
}
