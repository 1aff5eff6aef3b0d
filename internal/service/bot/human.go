package bot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alfredoleano/Connect4AI/internal/domain"
)

// HumanAgent asks a person for a column and keeps asking until the answer
// is a legal move. Agents built on the same *bufio.Reader share its buffer,
// so two humans can take turns on one terminal.
type HumanAgent struct {
	player domain.PlayerID
	in     *bufio.Reader
	out    io.Writer
}

func NewHumanAgent(player domain.PlayerID, in io.Reader, out io.Writer) (*HumanAgent, error) {
	if !player.Valid() {
		return nil, ErrInvalidPlayer
	}
	return &HumanAgent{
		player: player,
		in:     bufio.NewReader(in),
		out:    out,
	}, nil
}

func (h *HumanAgent) Player() domain.PlayerID { return h.player }
func (h *HumanAgent) Name() string            { return string(KindHuman) }

// GetMove only fails when the input is exhausted.
func (h *HumanAgent) GetMove(board domain.Board) (int, error) {
	if err := board.Validate(); err != nil {
		return -1, err
	}
	validColumns := board.LegalMoves()
	if len(validColumns) == 0 {
		return -1, domain.ErrNoLegalMove
	}

	for {
		fmt.Fprint(h.out, "Enter your move: ")
		line, err := h.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				return -1, io.ErrUnexpectedEOF
			}
			return -1, fmt.Errorf("reading move: %w", err)
		}

		move, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintf(h.out, "Not a column number, choose from:%v\n", validColumns)
			continue
		}
		if move < 0 || move >= board.Cols() {
			fmt.Fprintf(h.out, "Column out of range, choose from:%v\n", validColumns)
			continue
		}
		if !board.IsValidMove(move) {
			fmt.Fprintf(h.out, "Column full, choose from:%v\n", validColumns)
			continue
		}
		return move, nil
	}
}
