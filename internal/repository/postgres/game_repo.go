package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alfredoleano/Connect4AI/internal/domain"
)

// BotRating is the fixed rating human players are scored against when
// their opponent is an agent.
const BotRating = 1200

type GameRepo struct {
	DB *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo {
	return &GameRepo{DB: db}
}

// GameRecord is a finished game as stored. A nil player id marks an agent
// seat; Agent names the agent that filled it.
type GameRecord struct {
	GameID          string          `json:"game_id"`
	Player1ID       *int64          `json:"player1_id,omitempty"`
	Player1Name     string          `json:"player1_name"`
	Player2ID       *int64          `json:"player2_id,omitempty"`
	Player2Name     string          `json:"player2_name"`
	Agent           string          `json:"agent"`
	Winner          domain.PlayerID `json:"winner"`
	Reason          string          `json:"reason"`
	TotalMoves      int             `json:"total_moves"`
	DurationSeconds int             `json:"duration_seconds"`
	CreatedAt       time.Time       `json:"created_at"`
	FinishedAt      time.Time       `json:"finished_at"`
	Moves           []domain.Move   `json:"moves,omitempty"`
	Board           [][]int         `json:"board,omitempty"`
}

// score returns the Elo score of seat p in this game.
func (g *GameRecord) score(p domain.PlayerID) float64 {
	return domain.OutcomeScore(g.Winner, p)
}

// SaveGame stores a finished game and updates the stats and ratings of every
// human seat in one transaction. Saving the same game twice overwrites the
// record but counts the stats again, so callers save once.
func (r *GameRepo) SaveGame(ctx context.Context, g *GameRecord) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ratings := [2]int{BotRating, BotRating}
	ids := [2]*int64{g.Player1ID, g.Player2ID}
	for i, id := range ids {
		if id == nil {
			continue
		}
		if err := tx.QueryRowContext(ctx, `SELECT rating FROM players WHERE id = $1 FOR UPDATE;`, *id).Scan(&ratings[i]); err != nil {
			return fmt.Errorf("failed to read rating for player %d: %w", *id, err)
		}
	}

	for i, id := range ids {
		if id == nil {
			continue
		}
		seat := domain.PlayerID(i + 1)
		s := g.score(seat)
		newRating := domain.CalculateElo(ratings[i], ratings[1-i], s)
		if err := r.updatePlayerStatsTx(ctx, tx, *id, s, newRating); err != nil {
			return err
		}
	}

	movesJSON, err := json.Marshal(g.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}
	boardJSON, err := json.Marshal(g.Board)
	if err != nil {
		return fmt.Errorf("failed to marshal board state: %w", err)
	}

	query := `
	INSERT INTO games (game_id, player1_id, player1_name, player2_id, player2_name, agent, winner, reason, total_moves, duration_seconds, created_at, finished_at, moves, board_state)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (game_id) DO UPDATE SET
		winner = EXCLUDED.winner,
		reason = EXCLUDED.reason,
		total_moves = EXCLUDED.total_moves,
		duration_seconds = EXCLUDED.duration_seconds,
		finished_at = EXCLUDED.finished_at,
		moves = EXCLUDED.moves,
		board_state = EXCLUDED.board_state;
	`
	_, err = tx.ExecContext(ctx, query,
		g.GameID, g.Player1ID, g.Player1Name, g.Player2ID, g.Player2Name, g.Agent,
		int(g.Winner), g.Reason, g.TotalMoves, g.DurationSeconds, g.CreatedAt, g.FinishedAt,
		movesJSON, boardJSON)
	if err != nil {
		return fmt.Errorf("failed to upsert game record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *GameRepo) updatePlayerStatsTx(ctx context.Context, tx *sql.Tx, userID int64, score float64, rating int) error {
	query := `
	UPDATE players
	SET games_played = games_played + 1,
	    games_won = games_won + CASE WHEN $2 = 1.0 THEN 1 ELSE 0 END,
	    games_drawn = games_drawn + CASE WHEN $2 = 0.5 THEN 1 ELSE 0 END,
	    rating = $3
	WHERE id = $1;
	`
	if _, err := tx.ExecContext(ctx, query, userID, score, rating); err != nil {
		return fmt.Errorf("failed to update player stats in transaction: %w", err)
	}
	return nil
}

const gameSelectFields = `game_id, player1_id, player1_name, player2_id, player2_name, agent,
	       winner, reason, total_moves, duration_seconds, created_at, finished_at`

func scanGame(row interface{ Scan(dest ...any) error }, extra ...any) (*GameRecord, error) {
	var g GameRecord
	var player1ID, player2ID sql.NullInt64
	var winner int
	dest := []any{
		&g.GameID, &player1ID, &g.Player1Name, &player2ID, &g.Player2Name, &g.Agent,
		&winner, &g.Reason, &g.TotalMoves, &g.DurationSeconds, &g.CreatedAt, &g.FinishedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if player1ID.Valid {
		id := player1ID.Int64
		g.Player1ID = &id
	}
	if player2ID.Valid {
		id := player2ID.Int64
		g.Player2ID = &id
	}
	g.Winner = domain.PlayerID(winner)
	return &g, nil
}

// GetGameByID returns the full record, moves and final board included, or
// nil, nil when the game is unknown.
func (r *GameRepo) GetGameByID(ctx context.Context, gameID string) (*GameRecord, error) {
	query := `SELECT ` + gameSelectFields + `, moves, board_state FROM games WHERE game_id = $1;`

	var movesJSON, boardJSON []byte
	g, err := scanGame(r.DB.QueryRowContext(ctx, query, gameID), &movesJSON, &boardJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game by ID: %w", err)
	}

	if len(movesJSON) > 0 {
		if err := json.Unmarshal(movesJSON, &g.Moves); err != nil {
			return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
		}
	}
	if len(boardJSON) > 0 {
		if err := json.Unmarshal(boardJSON, &g.Board); err != nil {
			return nil, fmt.Errorf("failed to unmarshal board state: %w", err)
		}
	}
	return g, nil
}

// GetUserGameHistory lists a player's games, newest first, without moves.
func (r *GameRepo) GetUserGameHistory(ctx context.Context, userID int64, limit int) ([]GameRecord, error) {
	query := `SELECT ` + gameSelectFields + `
	FROM games
	WHERE player1_id = $1 OR player2_id = $1
	ORDER BY finished_at DESC
	LIMIT $2;
	`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game history: %w", err)
	}
	defer rows.Close()

	games := make([]GameRecord, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, *g)
	}
	return games, rows.Err()
}
