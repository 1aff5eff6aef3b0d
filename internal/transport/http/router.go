package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/transport/http/middleware"
	"github.com/alfredoleano/Connect4AI/pkg/auth"
)

// RouterConfig wires the handlers. Auth and History are nil when the server
// runs without postgres; their routes then answer 503.
type RouterConfig struct {
	Auth           *AuthHandler
	History        *HistoryHandler
	Issuer         *auth.Issuer
	AllowedOrigins []string
	WebSocket      gin.HandlerFunc
	Health         func() gin.H
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), middleware.CORSMiddleware(cfg.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if cfg.Health != nil {
			for k, v := range cfg.Health() {
				body[k] = v
			}
		}
		c.JSON(http.StatusOK, body)
	})

	if cfg.WebSocket != nil {
		router.GET("/ws", cfg.WebSocket)
	}

	api := router.Group("/api")
	if cfg.Auth == nil || cfg.History == nil {
		api.Any("/*path", func(c *gin.Context) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Database not configured"})
		})
		return router
	}

	api.POST("/auth/register", cfg.Auth.Register)
	api.POST("/auth/login", cfg.Auth.Login)
	api.POST("/auth/logout", cfg.Auth.Logout)
	api.GET("/leaderboard", cfg.Auth.Leaderboard)

	protected := api.Group("", middleware.AuthMiddleware(cfg.Issuer))
	protected.GET("/auth/me", cfg.Auth.Me)
	protected.GET("/history", cfg.History.GetHistory)
	protected.GET("/history/:id", cfg.History.GetGame)

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}
