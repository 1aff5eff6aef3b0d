package bot

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alfredoleano/Connect4AI/internal/domain"
)

// Agent is anything that can choose a column for its player.
type Agent interface {
	GetMove(board domain.Board) (int, error)
	Player() domain.PlayerID
	Name() string
}

// Searcher is an agent that looks a fixed number of plies ahead.
type Searcher interface {
	Agent
	Depth() int
}

// SearchDepth returns a's search depth, or 0 for agents that do not search.
func SearchDepth(a Agent) int {
	if s, ok := a.(Searcher); ok {
		return s.Depth()
	}
	return 0
}

type Kind string

const (
	KindAlphaBeta  Kind = "alphabeta"
	KindExpectimax Kind = "expectimax"
	KindRandom     Kind = "random"
	KindHuman      Kind = "human"
)

const (
	DefaultDepth = 6
	// MinDepth keeps the root frame from being a leaf.
	MinDepth = 2
)

const (
	ErrUnknownAgent  domain.Error = "unknown agent kind"
	ErrInvalidDepth  domain.Error = "search depth must be at least 2"
	ErrInvalidPlayer domain.Error = "player must be 1 or 2"
)

// Options carries the per-kind settings. Zero values fall back to
// DefaultDepth, seed 1, stdin and stdout.
type Options struct {
	Depth int
	Seed  uint64
	In    io.Reader
	Out   io.Writer
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case KindAlphaBeta, KindExpectimax, KindRandom, KindHuman:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAgent, s)
}

// IsSearch reports whether the kind runs a game-tree search.
func (k Kind) IsSearch() bool {
	return k == KindAlphaBeta || k == KindExpectimax
}

func NewAgent(kind Kind, player domain.PlayerID, opts Options) (Agent, error) {
	depth := opts.Depth
	if depth == 0 {
		depth = DefaultDepth
	}

	var (
		agent Agent
		err   error
	)
	switch kind {
	case KindAlphaBeta:
		agent, err = NewAlphaBetaAgent(player, depth)
	case KindExpectimax:
		agent, err = NewExpectimaxAgent(player, depth)
	case KindRandom:
		seed := opts.Seed
		if seed == 0 {
			seed = 1
		}
		agent, err = NewRandomAgent(player, seed)
	case KindHuman:
		in, out := opts.In, opts.Out
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		agent, err = NewHumanAgent(player, in, out)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownAgent, kind)
	}
	// a failed constructor leaves a typed nil in agent
	if err != nil {
		return nil, err
	}
	return agent, nil
}
