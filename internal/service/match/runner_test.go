package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/service/bot"
)

// scripted plays a fixed list of columns.
type scripted struct {
	player  domain.PlayerID
	columns []int
}

func (s *scripted) Player() domain.PlayerID { return s.player }
func (s *scripted) Name() string            { return "scripted" }
func (s *scripted) GetMove(domain.Board) (int, error) {
	if len(s.columns) == 0 {
		return -1, domain.ErrNoLegalMove
	}
	c := s.columns[0]
	s.columns = s.columns[1:]
	return c, nil
}

func TestRunRandomAgents(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		first, err := bot.NewRandomAgent(domain.Player1, seed)
		require.NoError(t, err)
		second, err := bot.NewRandomAgent(domain.Player2, seed+100)
		require.NoError(t, err)

		var observed []domain.Move
		res, err := Run(context.Background(), first, second, Options{
			Observer: func(m domain.Move, _ domain.Board) { observed = append(observed, m) },
		})
		require.NoError(t, err)

		require.Equal(t, res.Moves, observed)
		require.NotEmpty(t, res.GameID)
		require.False(t, res.FinishedAt.Before(res.StartedAt))

		switch res.Status {
		case domain.StatusWon:
			require.Equal(t, ReasonFourInARow, res.Reason)
			last := res.Moves[len(res.Moves)-1]
			require.Equal(t, res.Winner, last.Player)
			require.True(t, domain.CheckWin(res.Board, last.Row, last.Column, res.Winner))
		case domain.StatusDraw:
			require.Equal(t, ReasonBoardFull, res.Reason)
			require.True(t, res.Board.IsFull())
			require.Equal(t, domain.Empty, res.Winner)
		default:
			t.Fatalf("unexpected status %q", res.Status)
		}

		for i, m := range res.Moves {
			want := domain.Player1
			if i%2 == 1 {
				want = domain.Player2
			}
			require.Equal(t, want, m.Player, "players must alternate")
		}
	}
}

func TestRunScriptedWin(t *testing.T) {
	first := &scripted{player: domain.Player1, columns: []int{0, 0, 0, 0}}
	second := &scripted{player: domain.Player2, columns: []int{1, 2, 3}}

	res, err := Run(context.Background(), first, second, Options{GameID: "g1"})
	require.NoError(t, err)
	require.Equal(t, "g1", res.GameID)
	require.Equal(t, domain.StatusWon, res.Status)
	require.Equal(t, domain.Player1, res.Winner)
	require.Len(t, res.Moves, 7)
	require.Equal(t, "scripted", res.AgentName(domain.Player2))
}

func TestRunIllegalMoveForfeits(t *testing.T) {
	first := &scripted{player: domain.Player1, columns: []int{0, 9}}
	second := &scripted{player: domain.Player2, columns: []int{0}}

	res, err := Run(context.Background(), first, second, Options{})
	require.NoError(t, err)
	require.Equal(t, ReasonForfeit, res.Reason)
	require.Equal(t, domain.Player2, res.Winner)
	require.Len(t, res.Moves, 2)
}

func TestRunSearchAgentsSmallBoard(t *testing.T) {
	first, err := bot.NewAlphaBetaAgent(domain.Player1, 3)
	require.NoError(t, err)
	second, err := bot.NewExpectimaxAgent(domain.Player2, 3)
	require.NoError(t, err)

	res, err := Run(context.Background(), first, second, Options{Rows: 4, Cols: 5})
	require.NoError(t, err)
	require.NotEqual(t, ReasonForfeit, res.Reason, "search agents never pick illegal columns")
	require.Equal(t, 4, res.Board.Rows())
	require.Equal(t, 5, res.Board.Cols())
}

func TestRunRejectsSwappedAgents(t *testing.T) {
	a := &scripted{player: domain.Player2}
	b := &scripted{player: domain.Player1}
	_, err := Run(context.Background(), a, b, Options{})
	require.Error(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := &scripted{player: domain.Player1, columns: []int{0}}
	second := &scripted{player: domain.Player2, columns: []int{1}}
	res, err := Run(ctx, first, second, Options{})
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, ReasonCancelled, res.Reason)
	require.Empty(t, res.Moves)
}

func TestRunBoardShape(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
		wantErr    bool
	}{
		{"default", 0, 0, false},
		{"custom", 4, 5, false},
		{"negative rows", -1, 7, true},
		{"negative cols", 6, -3, true},
		{"rows only", 5, 0, true},
		{"cols only", 0, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := bot.NewRandomAgent(domain.Player1, 1)
			require.NoError(t, err)
			second, err := bot.NewRandomAgent(domain.Player2, 2)
			require.NoError(t, err)

			res, err := Run(context.Background(), first, second, Options{Rows: tt.rows, Cols: tt.cols})
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidBoard)
				require.Nil(t, res)
				return
			}
			require.NoError(t, err)
			if tt.rows == 0 {
				require.Equal(t, domain.Rows, res.Board.Rows())
				require.Equal(t, domain.Columns, res.Board.Cols())
			} else {
				require.Equal(t, tt.rows, res.Board.Rows())
				require.Equal(t, tt.cols, res.Board.Cols())
			}
		})
	}
}
