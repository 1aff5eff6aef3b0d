package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/repository/postgres"
	"github.com/alfredoleano/Connect4AI/internal/transport/http/middleware"
)

const historyLimit = 100

type GameStore interface {
	GetGameByID(ctx context.Context, gameID string) (*postgres.GameRecord, error)
	GetUserGameHistory(ctx context.Context, userID int64, limit int) ([]postgres.GameRecord, error)
}

type HistoryHandler struct {
	Games GameStore
}

func NewHistoryHandler(games GameStore) *HistoryHandler {
	return &HistoryHandler{Games: games}
}

type GameHistoryItem struct {
	ID         string    `json:"id"`
	Opponent   string    `json:"opponent"`
	Agent      string    `json:"agent"`
	Result     string    `json:"result"` // win, loss or draw
	EndReason  string    `json:"endReason"`
	MovesCount int       `json:"movesCount"`
	Duration   int       `json:"durationSeconds"`
	FinishedAt time.Time `json:"finishedAt"`
}

// seat returns which player the user was in g.
func seat(g *postgres.GameRecord, userID int64) domain.PlayerID {
	switch {
	case g.Player1ID != nil && *g.Player1ID == userID:
		return domain.Player1
	case g.Player2ID != nil && *g.Player2ID == userID:
		return domain.Player2
	}
	return domain.Empty
}

func historyItem(g *postgres.GameRecord, userID int64) GameHistoryItem {
	me := seat(g, userID)
	item := GameHistoryItem{
		ID:         g.GameID,
		Agent:      g.Agent,
		EndReason:  g.Reason,
		MovesCount: g.TotalMoves,
		Duration:   g.DurationSeconds,
		FinishedAt: g.FinishedAt,
		Opponent:   g.Player2Name,
	}
	if me == domain.Player2 {
		item.Opponent = g.Player1Name
	}
	switch g.Winner {
	case domain.Empty:
		item.Result = "draw"
	case me:
		item.Result = "win"
	default:
		item.Result = "loss"
	}
	return item
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	games, err := h.Games.GetUserGameHistory(c.Request.Context(), userID, historyLimit)
	if err != nil {
		log.Error().Err(err).Int64("user", userID).Msg("failed to fetch history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch history"})
		return
	}

	history := make([]GameHistoryItem, 0, len(games))
	for i := range games {
		history = append(history, historyItem(&games[i], userID))
	}
	c.JSON(http.StatusOK, history)
}

// GetGame returns one of the caller's games with its moves and final board.
func (h *HistoryHandler) GetGame(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	g, err := h.Games.GetGameByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Error().Err(err).Str("game", c.Param("id")).Msg("failed to fetch game")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	if g == nil || seat(g, userID) == domain.Empty {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": historyItem(g, userID),
		"game":    g,
	})
}
