package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/service/game"
	"github.com/alfredoleano/Connect4AI/pkg/auth"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	initWait   = 10 * time.Second
)

type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

type GameService interface {
	StartGame(ctx context.Context, userID int64, username, agent string, depth int, humanFirst bool) (*game.GameSession, error)
	HandleMove(ctx context.Context, userID int64, column int) error
	Resign(ctx context.Context, userID int64) error
	Resume(userID int64) bool
}

type Handler struct {
	ConnManager *ConnectionManager
	Games       GameService
	Tokens      TokenValidator
	Upgrader    websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, games GameService, tokens TokenValidator, allowedOrigins []string) *Handler {
	return &Handler{
		ConnManager: cm,
		Games:       games,
		Tokens:      tokens,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) Serve(c *gin.Context) {
	h.HandleWebSocket(c.Writer, c.Request)
}

func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection authenticates the first frame, then serves game frames
// until the socket closes. A live game survives the disconnect and is
// resumed by the next init.
func (h *Handler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(initWait))
	_, data, err := conn.ReadMessage()
	if err != nil {
		log.Debug().Err(err).Msg("read error during init")
		conn.Close()
		return
	}

	var init domain.ClientMessage
	if err := json.Unmarshal(data, &init); err != nil || init.Type != domain.MsgInit || init.JWT == "" {
		h.reject(conn, "First message must be init with a token")
		return
	}
	claims, err := h.Tokens.ValidateToken(init.JWT)
	if err != nil {
		log.Debug().Err(err).Msg("invalid token during init")
		h.reject(conn, "Invalid token or session expired")
		return
	}
	userID, username := claims.UserID, claims.Username

	h.ConnManager.AddConnection(userID, conn, username)
	log.Info().Int64("user", userID).Str("username", username).Msg("connection initialized")

	defer func() {
		h.ConnManager.RemoveConnectionIfMatching(userID, conn)
		log.Info().Int64("user", userID).Msg("connection closed")
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stopPing := make(chan struct{})
	defer close(stopPing)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-stopPing:
				return
			case <-ticker.C:
				if err := h.ConnManager.ping(userID, conn); err != nil {
					return
				}
			}
		}
	}()

	h.Games.Resume(userID)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Int64("user", userID).Msg("user disconnected unexpectedly")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(userID, "Invalid message format")
			continue
		}
		h.processMessage(context.WithoutCancel(ctx), userID, username, msg)
	}
}

func (h *Handler) processMessage(ctx context.Context, userID int64, username string, msg domain.ClientMessage) {
	var err error
	switch msg.Type {
	case domain.MsgStartGame:
		_, err = h.Games.StartGame(ctx, userID, username, msg.Agent, msg.Depth, msg.First)
	case domain.MsgMakeMove:
		err = h.Games.HandleMove(ctx, userID, msg.Column)
	case domain.MsgResign:
		err = h.Games.Resign(ctx, userID)
	default:
		err = errors.New("unknown message type: " + msg.Type)
	}
	if err != nil {
		log.Debug().Err(err).Int64("user", userID).Str("type", msg.Type).Msg("message rejected")
		h.sendError(userID, err.Error())
	}
}

func (h *Handler) sendError(userID int64, message string) {
	h.ConnManager.SendMessage(userID, domain.ServerMessage{Type: domain.MsgError, Message: message})
}

func (h *Handler) reject(conn *websocket.Conn, message string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteJSON(domain.ErrorMessage{Type: domain.MsgError, Message: message})
	conn.Close()
}
