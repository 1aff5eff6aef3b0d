package domain

// display names for the agents the server can field
var BotNames = map[string]string{
	"random":     "Alice",
	"expectimax": "Bob",
	"alphabeta":  "Charles",
}

func GetBotName(kind string) string {
	if name, ok := BotNames[kind]; ok {
		return name
	}
	return BotUsername
}

func IsBotName(username string) bool {
	if username == BotUsername {
		return true
	}
	for _, name := range BotNames {
		if username == name {
			return true
		}
	}
	return false
}

type PlayerID int

const (
	Empty   PlayerID = 0
	Player1 PlayerID = 1
	Player2 PlayerID = 2
)

// Opponent returns the other player tag. Empty maps to Empty.
func Opponent(p PlayerID) PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return Empty
}

func (p PlayerID) Valid() bool {
	return p == Player1 || p == Player2
}

// standard board shape, every algorithm also accepts other shapes
const (
	Rows    = 6
	Columns = 7
	ToWin   = 4
)

// to represent the game status
type GameStatus string

const (
	StatusActive GameStatus = "active"
	StatusWon    GameStatus = "won"
	StatusDraw   GameStatus = "draw"
)

// basic error that can occur
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	ErrInvalidMove  Error = "invalid move"
	ErrColumnFull   Error = "column is full"
	ErrInvalidBoard Error = "invalid board"
	ErrNoLegalMove  Error = "no legal move"
	ErrGameOver     Error = "game is already over"
	ErrNotYourTurn  Error = "not your turn"
)
