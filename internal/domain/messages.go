package domain

// ClientMessage is every frame a websocket client can send.
type ClientMessage struct {
	Type   string `json:"type"`
	JWT    string `json:"jwt,omitempty"`
	Agent  string `json:"agent,omitempty"`
	Depth  int    `json:"depth,omitempty"`
	First  bool   `json:"first,omitempty"`
	Column int    `json:"column"`
}

type ServerMessage struct {
	Type        string  `json:"type"`
	Message     string  `json:"message,omitempty"`
	GameID      string  `json:"gameId,omitempty"`
	Opponent    string  `json:"opponent,omitempty"`
	YourPlayer  int     `json:"yourPlayer,omitempty"`
	CurrentTurn int     `json:"currentTurn,omitempty"`
	Column      int     `json:"column"`
	Row         int     `json:"row"`
	Player      int     `json:"player,omitempty"`
	Board       [][]int `json:"board,omitempty"`
	Winner      int     `json:"winner,omitempty"`
	Reason      string  `json:"reason,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

const BotUsername = "BOT"

// client frame types
const (
	MsgInit      = "init"
	MsgStartGame = "start_game"
	MsgMakeMove  = "make_move"
	MsgResign    = "resign"
)

// server frame types
const (
	MsgGameStart = "game_start"
	MsgMove      = "move"
	MsgGameOver  = "game_over"
	MsgError     = "error"
)
