package domain

var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{1, -1}, // diagonal /
}

// CheckWin reports whether the piece at (row, column) completes ToWin in a
// line. Only lines through that cell are scanned.
func CheckWin(board Board, row, column int, player PlayerID) bool {
	if player == Empty || board[row][column] != player {
		return false
	}
	for _, dir := range directions {
		total := 1 +
			board.CountDiskInDirection(row, column, dir[0], dir[1], player) +
			board.CountDiskInDirection(row, column, -dir[0], -dir[1], player)
		if total >= ToWin {
			return true
		}
	}
	return false
}

// Winner scans the whole board and returns the first player found with a
// line of ToWin, or Empty.
func Winner(board Board) PlayerID {
	for r := 0; r < board.Rows(); r++ {
		for c := 0; c < board.Cols(); c++ {
			if p := board[r][c]; p != Empty && CheckWin(board, r, c, p) {
				return p
			}
		}
	}
	return Empty
}
