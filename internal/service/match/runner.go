package match

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/service/bot"
	"github.com/alfredoleano/Connect4AI/pkg/uid"
)

const (
	ReasonFourInARow = "four_in_a_row"
	ReasonBoardFull  = "board_full"
	ReasonForfeit    = "forfeit"
	ReasonCancelled  = "cancelled"
)

// Observer is told about every applied move. It must not keep the board.
type Observer func(move domain.Move, board domain.Board)

type Options struct {
	Rows     int
	Cols     int
	GameID   string
	Observer Observer
}

// Result is a finished (or aborted) match.
type Result struct {
	GameID     string
	Agents     [2]string // names of the Player1 and Player2 agents
	Status     domain.GameStatus
	Winner     domain.PlayerID
	Reason     string
	Moves      []domain.Move
	Board      domain.Board
	StartedAt  time.Time
	FinishedAt time.Time
}

func (r *Result) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// AgentName returns the name of the agent that played p.
func (r *Result) AgentName(p domain.PlayerID) string {
	if !p.Valid() {
		return ""
	}
	return r.Agents[p-1]
}

// Run drives a game between first (Player1) and second (Player2) until it
// is won, drawn, forfeited or ctx is cancelled. An agent that errors or
// names an illegal column forfeits.
func Run(ctx context.Context, first, second bot.Agent, opts Options) (*Result, error) {
	if first.Player() != domain.Player1 || second.Player() != domain.Player2 {
		return nil, fmt.Errorf("agents must play as 1 and 2, got %d and %d", first.Player(), second.Player())
	}

	rows, cols := opts.Rows, opts.Cols
	switch {
	case rows == 0 && cols == 0:
		rows, cols = domain.Rows, domain.Columns
	case rows < 1 || cols < 1:
		return nil, fmt.Errorf("%w: %dx%d", domain.ErrInvalidBoard, rows, cols)
	}
	gameID := opts.GameID
	if gameID == "" {
		gameID = uid.GenerateGameID()
	}

	game := domain.NewGame(rows, cols)
	agents := map[domain.PlayerID]bot.Agent{
		domain.Player1: first,
		domain.Player2: second,
	}
	result := &Result{
		GameID:    gameID,
		Agents:    [2]string{first.Name(), second.Name()},
		StartedAt: time.Now(),
	}

	log.Info().Str("game", gameID).Msgf("match started: %s vs %s", first.Name(), second.Name())

	for !game.IsFinished() {
		if err := ctx.Err(); err != nil {
			result.Reason = ReasonCancelled
			finish(result, game)
			return result, err
		}

		current := game.CurrentPlayer
		agent := agents[current]

		column, err := agent.GetMove(game.Board.Clone())
		if err == nil {
			_, err = game.MakeMove(current, column)
		}
		if err != nil {
			log.Warn().Err(err).Str("game", gameID).Msgf("%s forfeits", agent.Name())
			game.Status = domain.StatusWon
			game.Winner = domain.Opponent(current)
			result.Reason = ReasonForfeit
			finish(result, game)
			return result, nil
		}

		if opts.Observer != nil {
			opts.Observer(game.Moves[len(game.Moves)-1], game.Board)
		}
	}

	switch game.Status {
	case domain.StatusWon:
		result.Reason = ReasonFourInARow
		if w := domain.Winner(game.Board); w != game.Winner {
			return nil, fmt.Errorf("game %s: recorded winner %d but board shows %d", gameID, game.Winner, w)
		}
	case domain.StatusDraw:
		result.Reason = ReasonBoardFull
	}
	finish(result, game)

	log.Info().
		Str("game", gameID).
		Int("winner", int(result.Winner)).
		Str("reason", result.Reason).
		Int("moves", len(result.Moves)).
		Dur("duration", result.Duration()).
		Msg("match finished")
	return result, nil
}

func finish(result *Result, game *domain.Game) {
	result.Status = game.Status
	result.Winner = game.Winner
	result.Moves = game.Moves
	result.Board = game.Board
	result.FinishedAt = time.Now()
}
