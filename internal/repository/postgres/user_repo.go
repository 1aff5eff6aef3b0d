package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

var ErrUsernameTaken = errors.New("username already exists")

type UserRepo struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	GamesPlayed  int
	GamesWon     int
	GamesDrawn   int
	Rating       int
	CreatedAt    time.Time
}

type PlayerStats struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Draws    int    `json:"draws"`
}

func (u *User) Losses() int {
	return u.GamesPlayed - u.GamesWon - u.GamesDrawn
}

// UserResponse is the public JSON view of a user.
func (u *User) UserResponse() map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"username": u.Username,
		"rating":   u.Rating,
		"wins":     u.GamesWon,
		"losses":   u.Losses(),
		"draws":    u.GamesDrawn,
	}
}

// CreateUser inserts a player with a pre-hashed password.
func (r *UserRepo) CreateUser(ctx context.Context, username, passwordHash string) (int64, error) {
	query := `
	INSERT INTO players (username, password_hash, games_played, games_won, games_drawn, rating)
	VALUES ($1, $2, 0, 0, 0, 1000)
	RETURNING id;
	`
	var userID int64
	err := r.DB.QueryRowContext(ctx, query, username, passwordHash).Scan(&userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return userID, nil
}

func scanUser(row interface{ Scan(dest ...any) error }) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.GamesPlayed,
		&user.GamesWon,
		&user.GamesDrawn,
		&user.Rating,
		&user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

const userSelectFields = `id, username, password_hash, games_played, games_won, games_drawn, rating, created_at`

// GetUserByUsername returns nil, nil when no such player exists.
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userSelectFields + ` FROM players WHERE username = $1;`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) GetUserByID(ctx context.Context, userID int64) (*User, error) {
	query := `SELECT ` + userSelectFields + ` FROM players WHERE id = $1;`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *UserRepo) GetLeaderboard(ctx context.Context, limit int) ([]PlayerStats, error) {
	query := `
	SELECT
		ROW_NUMBER() OVER (ORDER BY rating DESC, games_won DESC, username ASC) AS rank,
		username,
		rating,
		games_won,
		games_played - games_won - games_drawn AS losses,
		games_drawn
	FROM players
	ORDER BY rating DESC, games_won DESC, username ASC
	LIMIT $1;
	`

	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	leaderboard := make([]PlayerStats, 0)
	for rows.Next() {
		var stats PlayerStats
		if err := rows.Scan(&stats.Rank, &stats.Username, &stats.Rating, &stats.Wins, &stats.Losses, &stats.Draws); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		leaderboard = append(leaderboard, stats)
	}
	return leaderboard, rows.Err()
}
