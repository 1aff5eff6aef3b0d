package game

import (
	"sync"
	"time"

	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/repository/postgres"
	"github.com/alfredoleano/Connect4AI/internal/service/bot"
)

// GameSession is one live game between a registered player and an agent.
type GameSession struct {
	GameID       string
	UserID       int64
	Username     string
	HumanPlayer  domain.PlayerID
	Bot          bot.Agent
	BotName      string
	Game         *domain.Game
	Reason       string
	CreatedAt    time.Time
	LastActivity time.Time
	FinishedAt   time.Time
	closed       bool
	mu           sync.Mutex
}

// Snapshot is the redis mirror of a session.
type Snapshot struct {
	GameID      string            `json:"game_id"`
	UserID      int64             `json:"user_id"`
	Username    string            `json:"username"`
	HumanPlayer domain.PlayerID   `json:"human_player"`
	Agent       string            `json:"agent"`
	Status      domain.GameStatus `json:"status"`
	CurrentTurn domain.PlayerID   `json:"current_turn"`
	Board       [][]int           `json:"board"`
	Moves       []domain.Move     `json:"moves"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func (gs *GameSession) BotPlayer() domain.PlayerID {
	return domain.Opponent(gs.HumanPlayer)
}

func (gs *GameSession) IsFinished() bool {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.Game.IsFinished()
}

// IdleSince reports how long the session has gone without a move.
func (gs *GameSession) IdleSince(now time.Time) time.Duration {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return now.Sub(gs.LastActivity)
}

// caller holds gs.mu
func (gs *GameSession) snapshot() Snapshot {
	return Snapshot{
		GameID:      gs.GameID,
		UserID:      gs.UserID,
		Username:    gs.Username,
		HumanPlayer: gs.HumanPlayer,
		Agent:       gs.Bot.Name(),
		Status:      gs.Game.Status,
		CurrentTurn: gs.Game.CurrentPlayer,
		Board:       gs.Game.Board.Ints(),
		Moves:       append([]domain.Move(nil), gs.Game.Moves...),
		UpdatedAt:   gs.LastActivity,
	}
}

// caller holds gs.mu
func (gs *GameSession) startMessage() domain.ServerMessage {
	return domain.ServerMessage{
		Type:        domain.MsgGameStart,
		GameID:      gs.GameID,
		Opponent:    gs.BotName,
		YourPlayer:  int(gs.HumanPlayer),
		CurrentTurn: int(gs.Game.CurrentPlayer),
		Board:       gs.Game.Board.Ints(),
	}
}

// caller holds gs.mu
func (gs *GameSession) moveMessage(m domain.Move) domain.ServerMessage {
	return domain.ServerMessage{
		Type:        domain.MsgMove,
		GameID:      gs.GameID,
		Column:      m.Column,
		Row:         m.Row,
		Player:      int(m.Player),
		CurrentTurn: int(gs.Game.CurrentPlayer),
		Board:       gs.Game.Board.Ints(),
	}
}

// caller holds gs.mu
func (gs *GameSession) gameOverMessage() domain.ServerMessage {
	msg := domain.ServerMessage{
		Type:   domain.MsgGameOver,
		GameID: gs.GameID,
		Winner: int(gs.Game.Winner),
		Reason: gs.Reason,
		Board:  gs.Game.Board.Ints(),
	}
	switch gs.Game.Winner {
	case gs.HumanPlayer:
		msg.Message = gs.Username + " wins"
	case domain.Empty:
		msg.Message = "draw"
	default:
		msg.Message = gs.BotName + " wins"
	}
	return msg
}

// caller holds gs.mu
func (gs *GameSession) record() *postgres.GameRecord {
	userID := gs.UserID
	rec := &postgres.GameRecord{
		GameID:          gs.GameID,
		Agent:           gs.Bot.Name(),
		Winner:          gs.Game.Winner,
		Reason:          gs.Reason,
		TotalMoves:      gs.Game.MoveCount,
		DurationSeconds: int(gs.FinishedAt.Sub(gs.CreatedAt).Seconds()),
		CreatedAt:       gs.CreatedAt,
		FinishedAt:      gs.FinishedAt,
		Moves:           gs.Game.Moves,
		Board:           gs.Game.Board.Ints(),
	}
	if gs.HumanPlayer == domain.Player1 {
		rec.Player1ID, rec.Player1Name = &userID, gs.Username
		rec.Player2Name = gs.BotName
	} else {
		rec.Player1Name = gs.BotName
		rec.Player2ID, rec.Player2Name = &userID, gs.Username
	}
	return rec
}
