package bot

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/domain"
)

// AlphaBetaAgent picks moves with depth-bounded minimax and alpha-beta
// pruning. Leaves are always scored from the agent's own point of view.
//
// The agent keeps no search state between calls, alpha and beta live on the
// stack of each search.
type AlphaBetaAgent struct {
	player domain.PlayerID
	depth  int
}

func NewAlphaBetaAgent(player domain.PlayerID, depth int) (*AlphaBetaAgent, error) {
	if !player.Valid() {
		return nil, ErrInvalidPlayer
	}
	if depth < MinDepth {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	return &AlphaBetaAgent{player: player, depth: depth}, nil
}

func (a *AlphaBetaAgent) Player() domain.PlayerID { return a.player }
func (a *AlphaBetaAgent) Depth() int              { return a.depth }
func (a *AlphaBetaAgent) Name() string            { return fmt.Sprintf("alphabeta-%d", a.depth) }

// GetMove returns the lowest-indexed column with the best minimax value.
func (a *AlphaBetaAgent) GetMove(board domain.Board) (int, error) {
	if err := checkRoot(board); err != nil {
		return -1, err
	}

	start := time.Now()
	column, value := a.searchRoot(board)
	log.Debug().
		Str("agent", a.Name()).
		Int("player", int(a.player)).
		Int("column", column).
		Int("value", value).
		Dur("elapsed", time.Since(start)).
		Msg("alpha-beta search finished")

	if column < 0 {
		return -1, domain.ErrNoLegalMove
	}
	return column, nil
}

// searchRoot is the maximizing frame at depth 1 that reports a column
// instead of a value.
func (a *AlphaBetaAgent) searchRoot(board domain.Board) (int, int) {
	alpha, beta := math.MinInt, math.MaxInt
	highestValue := math.MinInt
	highestColumn := -1

	for _, s := range successors(board, a.player) {
		value := a.minimize(s.Board, alpha, beta, 1)

		// strict comparison keeps the earlier column on ties
		if value > highestValue {
			highestValue = value
			highestColumn = s.Column
		}
		if highestValue >= beta {
			break
		}
		alpha = max(alpha, highestValue)
	}

	return highestColumn, highestValue
}

func (a *AlphaBetaAgent) maximize(state domain.Board, alpha, beta, depth int) int {
	depth++
	if depth == a.depth {
		return evaluate(state, a.player)
	}
	children := successors(state, a.player)
	if len(children) == 0 {
		return evaluate(state, a.player)
	}

	highestValue := math.MinInt
	for _, s := range children {
		highestValue = max(highestValue, a.minimize(s.Board, alpha, beta, depth))
		if highestValue >= beta {
			return highestValue
		}
		alpha = max(alpha, highestValue)
	}
	return highestValue
}

func (a *AlphaBetaAgent) minimize(state domain.Board, alpha, beta, depth int) int {
	depth++
	if depth == a.depth {
		return evaluate(state, a.player)
	}
	children := successors(state, domain.Opponent(a.player))
	if len(children) == 0 {
		return evaluate(state, a.player)
	}

	lowestValue := math.MaxInt
	for _, s := range children {
		lowestValue = min(lowestValue, a.maximize(s.Board, alpha, beta, depth))
		if lowestValue <= alpha {
			return lowestValue
		}
		beta = min(beta, lowestValue)
	}
	return lowestValue
}

// checkRoot rejects boards a search agent cannot move on.
func checkRoot(board domain.Board) error {
	if err := board.Validate(); err != nil {
		return err
	}
	if board.IsFull() {
		return domain.ErrNoLegalMove
	}
	if isWon(board) {
		return domain.ErrGameOver
	}
	return nil
}
