package domain

// Move is one applied drop.
type Move struct {
	Player PlayerID `json:"player"`
	Column int      `json:"column"`
	Row    int      `json:"row"`
}

type Game struct {
	Board         Board
	CurrentPlayer PlayerID
	Status        GameStatus
	Winner        PlayerID
	MoveCount     int
	Moves         []Move
}

func NewGame(rows, cols int) *Game {
	return &Game{
		Board:         NewBoard(rows, cols),
		CurrentPlayer: Player1,
		Status:        StatusActive,
		Winner:        Empty,
	}
}

func (g *Game) MakeMove(player PlayerID, column int) (int, error) {
	if g.Status != StatusActive {
		return -1, ErrGameOver
	}

	if player != g.CurrentPlayer {
		return -1, ErrNotYourTurn
	}

	if !g.Board.IsValidMove(column) {
		return -1, ErrInvalidMove
	}

	row, err := g.Board.DropDisk(column, player)
	if err != nil {
		return -1, err
	}

	g.MoveCount++
	g.Moves = append(g.Moves, Move{Player: player, Column: column, Row: row})

	if CheckWin(g.Board, row, column, player) {
		g.Status = StatusWon
		g.Winner = player
		return row, nil
	}

	if g.Board.IsFull() {
		g.Status = StatusDraw
		return row, nil
	}

	g.CurrentPlayer = Opponent(g.CurrentPlayer)
	return row, nil
}

func (g *Game) IsFinished() bool {
	return g.Status == StatusWon || g.Status == StatusDraw
}
