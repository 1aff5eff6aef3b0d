package bot

import (
	"github.com/alfredoleano/Connect4AI/internal/domain"
)

const (
	WindowSize = 4

	WinScore        = 8100000 // four in a row for the evaluated player
	ThreeScore      = 20      // three of four with the fourth cell open
	TwoScore        = 5       // two adjacent plus two open
	SplitTwoScore   = 3       // two with a gap
	BlockThreeScore = 200     // opponent three capped by one of ours
	BlockTwoScore   = 7       // opponent pair capped by one of ours, far end open
)

// relation of a cell to the evaluated player
type mark uint8

const (
	open mark = iota
	mine
	theirs
)

type window [WindowSize]mark

// patternScores holds every scored window shape. Shapes are distinct, so a
// window matches at most one entry.
var patternScores = map[window]int{
	{mine, mine, mine, mine}: WinScore,

	{mine, mine, mine, open}: ThreeScore,
	{open, mine, mine, mine}: ThreeScore,
	{mine, mine, open, mine}: ThreeScore,
	{mine, open, mine, mine}: ThreeScore,

	{mine, mine, open, open}: TwoScore,
	{open, open, mine, mine}: TwoScore,
	{mine, open, mine, open}: SplitTwoScore,
	{open, mine, open, mine}: SplitTwoScore,

	{theirs, theirs, theirs, mine}: BlockThreeScore,
	{mine, theirs, theirs, theirs}: BlockThreeScore,
	{theirs, mine, theirs, theirs}: BlockThreeScore,
	{theirs, theirs, mine, theirs}: BlockThreeScore,

	{theirs, theirs, mine, open}: BlockTwoScore,
	{open, mine, theirs, theirs}: BlockTwoScore,
}

// scan directions: row, column, diagonal \ and diagonal /
var scanDirections = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Evaluate scores the board for player, higher is better. Every 4-cell window
// on every row, column and diagonal adds the score of the pattern it matches,
// so overlapping windows are all counted.
func Evaluate(board domain.Board, player domain.PlayerID) (int, error) {
	if err := board.Validate(); err != nil {
		return 0, err
	}
	if !player.Valid() {
		return 0, ErrInvalidPlayer
	}
	return evaluate(board, player), nil
}

// evaluate is Evaluate without the shape checks, used inside the search.
func evaluate(board domain.Board, player domain.PlayerID) int {
	opponent := domain.Opponent(player)
	rows, cols := board.Rows(), board.Cols()
	span := WindowSize - 1
	score := 0

	for _, dir := range scanDirections {
		dRow, dCol := dir[0], dir[1]
		for r := 0; r < rows; r++ {
			endRow := r + dRow*span
			if endRow < 0 || endRow >= rows {
				continue
			}
			for c := 0; c < cols; c++ {
				endCol := c + dCol*span
				if endCol < 0 || endCol >= cols {
					continue
				}

				var w window
				for i := 0; i < WindowSize; i++ {
					switch board[r+dRow*i][c+dCol*i] {
					case player:
						w[i] = mine
					case opponent:
						w[i] = theirs
					}
				}
				score += patternScores[w]
			}
		}
	}

	return score
}

// HasFour reports whether player already owns a four-in-a-row.
func HasFour(board domain.Board, player domain.PlayerID) bool {
	return evaluate(board, player) >= WinScore
}

// isWon is the terminal gate used by successor generation.
func isWon(board domain.Board) bool {
	return HasFour(board, domain.Player1) || HasFour(board, domain.Player2)
}
