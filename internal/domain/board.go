package domain

import (
	"fmt"
	"strings"
)

// Board is a grid of cells where board[0] is the top row and pieces
// fall towards board[Rows()-1].
type Board [][]PlayerID

func NewBoard(rows, cols int) Board {
	board := make(Board, rows)
	for i := range board {
		board[i] = make([]PlayerID, cols)
	}
	return board
}

// NewStandardBoard returns an empty 6x7 board.
func NewStandardBoard() Board {
	return NewBoard(Rows, Columns)
}

// BoardFromInts converts the wire/storage encoding into a Board.
func BoardFromInts(cells [][]int) Board {
	board := make(Board, len(cells))
	for r, row := range cells {
		board[r] = make([]PlayerID, len(row))
		for c, v := range row {
			board[r][c] = PlayerID(v)
		}
	}
	return board
}

func (b Board) Ints() [][]int {
	out := make([][]int, len(b))
	for r, row := range b {
		out[r] = make([]int, len(row))
		for c, v := range row {
			out[r][c] = int(v)
		}
	}
	return out
}

func (b Board) Rows() int {
	return len(b)
}

func (b Board) Cols() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Validate fails with ErrInvalidBoard on an empty or ragged grid or on a
// cell that holds something other than Empty, Player1 or Player2.
func (b Board) Validate() error {
	if len(b) == 0 || len(b[0]) == 0 {
		return fmt.Errorf("%w: empty grid", ErrInvalidBoard)
	}
	cols := len(b[0])
	for r, row := range b {
		if len(row) != cols {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidBoard, r, len(row), cols)
		}
		for c, cell := range row {
			if cell != Empty && !cell.Valid() {
				return fmt.Errorf("%w: cell (%d,%d) holds %d", ErrInvalidBoard, r, c, cell)
			}
		}
	}
	return nil
}

// this creates a deep copy of the board
func (b Board) Clone() Board {
	newBoard := make(Board, len(b))
	for i := range b {
		newBoard[i] = make([]PlayerID, len(b[i]))
		copy(newBoard[i], b[i])
	}
	return newBoard
}

func (b Board) IsValidMove(column int) bool {
	if column < 0 || column >= b.Cols() {
		return false
	}

	// board[0] is the top row, a column is full once it is occupied
	return b[0][column] == Empty
}

// DropDisk places the piece on the lowest empty cell of the column and
// returns the row it landed on.
func (b Board) DropDisk(column int, player PlayerID) (int, error) {
	if column < 0 || column >= b.Cols() {
		return -1, ErrInvalidMove
	}
	for row := b.Rows() - 1; row >= 0; row-- {
		if b[row][column] == Empty {
			b[row][column] = player
			return row, nil
		}
	}

	return -1, ErrColumnFull
}

func (b Board) IsFull() bool {
	for c := 0; c < b.Cols(); c++ {
		if b[0][c] == Empty {
			return false
		}
	}
	return true
}

// LegalMoves lists the non-full columns in increasing order.
func (b Board) LegalMoves() []int {
	validMoves := []int{}
	for col := 0; col < b.Cols(); col++ {
		if b.IsValidMove(col) {
			validMoves = append(validMoves, col)
		}
	}
	return validMoves
}

// SimulateMove plays the move on a copy and leaves b untouched.
func (b Board) SimulateMove(column int, player PlayerID) (Board, int, error) {
	newBoard := b.Clone()
	row, err := newBoard.DropDisk(column, player)
	if err != nil {
		return nil, -1, err
	}
	return newBoard, row, nil
}

// CountPieces returns how many cells the player occupies.
func (b Board) CountPieces(player PlayerID) int {
	n := 0
	for _, row := range b {
		for _, cell := range row {
			if cell == player {
				n++
			}
		}
	}
	return n
}

func (b Board) String() string {
	var sb strings.Builder
	for _, row := range b {
		sb.WriteByte('|')
		for _, cell := range row {
			switch cell {
			case Player1:
				sb.WriteString(" X")
			case Player2:
				sb.WriteString(" O")
			default:
				sb.WriteString(" .")
			}
		}
		sb.WriteString(" |\n")
	}
	sb.WriteByte('+')
	for c := 0; c < b.Cols(); c++ {
		sb.WriteString("--")
	}
	sb.WriteString("-+\n ")
	for c := 0; c < b.Cols(); c++ {
		sb.WriteString(fmt.Sprintf("%2d", c%10))
	}
	sb.WriteByte('\n')
	return sb.String()
}

// this counts the number of disks in a specific direction
func (b Board) CountDiskInDirection(row, column, deltaRow, deltaCol int, player PlayerID) int {
	count := 0
	r, c := row+deltaRow, column+deltaCol
	for r >= 0 && r < b.Rows() && c >= 0 && c < b.Cols() && b[r][c] == player {
		count++
		r += deltaRow
		c += deltaCol
	}
	return count
}
