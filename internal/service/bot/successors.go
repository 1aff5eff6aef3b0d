package bot

import (
	"github.com/alfredoleano/Connect4AI/internal/domain"
)

// Successor is the board reached by dropping a piece into Column.
type Successor struct {
	Column int
	Board  domain.Board
}

// Successors expands board by one move of mover, one entry per non-full
// column in increasing column order. A board that already holds a
// four-in-a-row has no successors.
func Successors(board domain.Board, mover domain.PlayerID) ([]Successor, error) {
	if err := board.Validate(); err != nil {
		return nil, err
	}
	if !mover.Valid() {
		return nil, ErrInvalidPlayer
	}
	return successors(board, mover), nil
}

func successors(board domain.Board, mover domain.PlayerID) []Successor {
	if isWon(board) {
		return nil
	}

	out := make([]Successor, 0, board.Cols())
	for col := 0; col < board.Cols(); col++ {
		if !board.IsValidMove(col) {
			continue
		}
		next, _, err := board.SimulateMove(col, mover)
		if err != nil {
			continue
		}
		out = append(out, Successor{Column: col, Board: next})
	}
	return out
}
