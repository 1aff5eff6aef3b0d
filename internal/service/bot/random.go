package bot

import (
	"sync"

	"golang.org/x/exp/rand"

	"github.com/alfredoleano/Connect4AI/internal/domain"
)

// RandomAgent picks uniformly among the non-full columns.
type RandomAgent struct {
	player domain.PlayerID

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomAgent(player domain.PlayerID, seed uint64) (*RandomAgent, error) {
	if !player.Valid() {
		return nil, ErrInvalidPlayer
	}
	return &RandomAgent{
		player: player,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

func (r *RandomAgent) Player() domain.PlayerID { return r.player }
func (r *RandomAgent) Name() string            { return string(KindRandom) }

func (r *RandomAgent) GetMove(board domain.Board) (int, error) {
	if err := board.Validate(); err != nil {
		return -1, err
	}
	validColumns := board.LegalMoves()
	if len(validColumns) == 0 {
		return -1, domain.ErrNoLegalMove
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return validColumns[r.rng.Intn(len(validColumns))], nil
}
