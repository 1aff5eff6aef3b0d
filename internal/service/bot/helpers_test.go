package bot

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/alfredoleano/Connect4AI/internal/domain"
)

// playout builds a reachable position by playing up to n random moves from
// an empty rows x cols board. It stops early on a win or a full board.
func playout(rng *rand.Rand, rows, cols, n int) domain.Board {
	b := domain.NewBoard(rows, cols)
	p := domain.Player1
	for i := 0; i < n; i++ {
		if isWon(b) {
			break
		}
		moves := b.LegalMoves()
		if len(moves) == 0 {
			break
		}
		b.DropDisk(moves[rng.Intn(len(moves))], p)
		p = domain.Opponent(p)
	}
	return b
}

// boardFromRows parses rows written top first: '.' empty, 'X' Player1,
// 'O' Player2.
func boardFromRows(rows ...string) domain.Board {
	b := domain.NewBoard(len(rows), len(rows[0]))
	for r, line := range rows {
		for c, ch := range line {
			switch ch {
			case 'X':
				b[r][c] = domain.Player1
			case 'O':
				b[r][c] = domain.Player2
			}
		}
	}
	return b
}

func swapPlayers(b domain.Board) domain.Board {
	out := b.Clone()
	for r := range out {
		for c := range out[r] {
			out[r][c] = domain.Opponent(out[r][c])
		}
	}
	return out
}

func mirror(b domain.Board) domain.Board {
	out := b.Clone()
	for r := range out {
		for c := range out[r] {
			out[r][c] = b[r][len(b[r])-1-c]
		}
	}
	return out
}

// bruteForce is plain minimax over the same successors and depth counting
// as AlphaBetaAgent, without pruning.
func bruteForce(board domain.Board, player domain.PlayerID, depth int) int {
	var value func(state domain.Board, d int, maximizing bool) int
	value = func(state domain.Board, d int, maximizing bool) int {
		d++
		if d == depth {
			return evaluate(state, player)
		}
		mover := player
		if !maximizing {
			mover = domain.Opponent(player)
		}
		children := successors(state, mover)
		if len(children) == 0 {
			return evaluate(state, player)
		}
		best := math.MaxInt
		if maximizing {
			best = math.MinInt
		}
		for _, s := range children {
			v := value(s.Board, d, !maximizing)
			if maximizing {
				best = max(best, v)
			} else {
				best = min(best, v)
			}
		}
		return best
	}

	bestColumn, bestValue := -1, math.MinInt
	for _, s := range successors(board, player) {
		if v := value(s.Board, 1, false); v > bestValue {
			bestColumn, bestValue = s.Column, v
		}
	}
	return bestColumn
}

// bruteForceExpectimax values every line of play by ply count alone: after
// an odd number of moves the opponent replies at random with weight
// ChanceWeight, after an even number player takes the best child. Nodes
// D-1 moves below the root are leaves.
func bruteForceExpectimax(board domain.Board, player domain.PlayerID, depth int) (int, float64) {
	var value func(state domain.Board, ply int) float64
	value = func(state domain.Board, ply int) float64 {
		chance := ply%2 == 1
		mover := player
		if chance {
			mover = domain.Opponent(player)
		}
		children := successors(state, mover)
		if ply == depth-1 || len(children) == 0 {
			return float64(evaluate(state, player))
		}
		if chance {
			total := 0.0
			for _, s := range children {
				total += ChanceWeight * value(s.Board, ply+1)
			}
			return total
		}
		best := math.Inf(-1)
		for _, s := range children {
			best = math.Max(best, value(s.Board, ply+1))
		}
		return best
	}

	bestColumn, bestValue := -1, math.Inf(-1)
	for _, s := range successors(board, player) {
		if v := value(s.Board, 1); v > bestValue {
			bestColumn, bestValue = s.Column, v
		}
	}
	return bestColumn, bestValue
}
