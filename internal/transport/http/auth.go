package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/repository/postgres"
	"github.com/alfredoleano/Connect4AI/internal/transport/http/middleware"
	"github.com/alfredoleano/Connect4AI/pkg/auth"
	"github.com/alfredoleano/Connect4AI/pkg/httputil"
)

type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (*postgres.User, error)
	GetUserByID(ctx context.Context, userID int64) (*postgres.User, error)
	GetLeaderboard(ctx context.Context, limit int) ([]postgres.PlayerStats, error)
}

type AuthHandler struct {
	Users        UserStore
	Issuer       *auth.Issuer
	TokenTTL     time.Duration
	SecureCookie bool
}

func NewAuthHandler(users UserStore, issuer *auth.Issuer, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{Users: users, Issuer: issuer, TokenTTL: tokenTTL}
}

type credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := auth.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if domain.IsBotName(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is reserved"})
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hashedPwd, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	userID, err := h.Users.CreateUser(c.Request.Context(), req.Username, hashedPwd)
	if errors.Is(err, postgres.ErrUsernameTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("username", req.Username).Msg("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	log.Info().Int64("user", userID).Str("username", req.Username).Msg("user registered")
	h.issue(c, http.StatusCreated, &postgres.User{ID: userID, Username: req.Username, Rating: 1000})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.Users.GetUserByUsername(c.Request.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		log.Error().Err(err).Msg("login lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if user == nil || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	h.issue(c, http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	httputil.ClearAuthCookie(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	user, err := h.Users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user.UserResponse())
}

func (h *AuthHandler) Leaderboard(c *gin.Context) {
	stats, err := h.Users.GetLeaderboard(c.Request.Context(), 50)
	if err != nil {
		log.Error().Err(err).Msg("failed to load leaderboard")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load leaderboard"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AuthHandler) issue(c *gin.Context, status int, user *postgres.User) {
	token, err := h.Issuer.GenerateToken(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	httputil.SetAuthCookie(c.Writer, token, h.TokenTTL, h.SecureCookie)
	c.JSON(status, gin.H{
		"token": token,
		"user":  user.UserResponse(),
	})
}
