package bot

import (
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/domain"
)

// ChanceWeight is the probability given to each opponent reply. It is fixed
// at 1/7 whatever the number of legal replies, so values of positions with
// full columns are scaled down rather than renormalised.
const ChanceWeight = 1.0 / 7

// ExpectimaxAgent plays against an opponent assumed to pick uniformly among
// its moves: our layers maximise, the opponent's layers average.
type ExpectimaxAgent struct {
	player domain.PlayerID
	depth  int
}

func NewExpectimaxAgent(player domain.PlayerID, depth int) (*ExpectimaxAgent, error) {
	if !player.Valid() {
		return nil, ErrInvalidPlayer
	}
	if depth < MinDepth {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	return &ExpectimaxAgent{player: player, depth: depth}, nil
}

func (e *ExpectimaxAgent) Player() domain.PlayerID { return e.player }
func (e *ExpectimaxAgent) Depth() int              { return e.depth }
func (e *ExpectimaxAgent) Name() string            { return fmt.Sprintf("expectimax-%d", e.depth) }

func (e *ExpectimaxAgent) GetMove(board domain.Board) (int, error) {
	if err := checkRoot(board); err != nil {
		return -1, err
	}

	start := time.Now()
	column, value := e.searchRoot(board)
	log.Debug().
		Str("agent", e.Name()).
		Int("player", int(e.player)).
		Int("column", column).
		Float64("value", value).
		Dur("elapsed", time.Since(start)).
		Msg("expectimax search finished")

	if column < 0 {
		return -1, domain.ErrNoLegalMove
	}
	return column, nil
}

func (e *ExpectimaxAgent) searchRoot(board domain.Board) (int, float64) {
	highestValue := math.Inf(-1)
	highestColumn := -1

	for _, s := range successors(board, e.player) {
		value := e.expectedValue(s.Board, 1)
		if value > highestValue {
			highestValue = value
			highestColumn = s.Column
		}
	}

	return highestColumn, highestValue
}

func (e *ExpectimaxAgent) maximize(state domain.Board, depth int) float64 {
	depth++
	if depth == e.depth {
		return float64(evaluate(state, e.player))
	}
	children := successors(state, e.player)
	if len(children) == 0 {
		return float64(evaluate(state, e.player))
	}

	v := math.Inf(-1)
	for _, s := range children {
		v = math.Max(v, e.expectedValue(s.Board, depth))
	}
	return v
}

func (e *ExpectimaxAgent) expectedValue(state domain.Board, depth int) float64 {
	depth++
	if depth == e.depth {
		return float64(evaluate(state, e.player))
	}
	children := successors(state, domain.Opponent(e.player))
	if len(children) == 0 {
		return float64(evaluate(state, e.player))
	}

	v := 0.0
	for _, s := range children {
		v += ChanceWeight * e.maximize(s.Board, depth)
	}
	return v
}
