package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoardValidate(t *testing.T) {
	t.Run("standard board", func(t *testing.T) {
		require.NoError(t, NewStandardBoard().Validate())
	})

	t.Run("non-standard shape", func(t *testing.T) {
		require.NoError(t, NewBoard(4, 5).Validate())
	})

	t.Run("empty grid", func(t *testing.T) {
		require.ErrorIs(t, Board{}.Validate(), ErrInvalidBoard)
		require.ErrorIs(t, Board{{}}.Validate(), ErrInvalidBoard)
	})

	t.Run("ragged rows", func(t *testing.T) {
		b := Board{{0, 0, 0}, {0, 0}}
		require.ErrorIs(t, b.Validate(), ErrInvalidBoard)
	})

	t.Run("unknown cell tag", func(t *testing.T) {
		b := NewBoard(2, 2)
		b[1][1] = 3
		require.ErrorIs(t, b.Validate(), ErrInvalidBoard)
	})
}

func TestDropDisk(t *testing.T) {
	b := NewBoard(3, 2)

	row, err := b.DropDisk(0, Player1)
	require.NoError(t, err)
	require.Equal(t, 2, row, "first disk should land on the bottom row")

	row, err = b.DropDisk(0, Player2)
	require.NoError(t, err)
	require.Equal(t, 1, row)

	row, err = b.DropDisk(0, Player1)
	require.NoError(t, err)
	require.Equal(t, 0, row)
	require.False(t, b.IsValidMove(0))

	_, err = b.DropDisk(0, Player2)
	require.ErrorIs(t, err, ErrColumnFull)

	_, err = b.DropDisk(5, Player2)
	require.ErrorIs(t, err, ErrInvalidMove)

	require.Equal(t, []int{1}, b.LegalMoves())
	require.False(t, b.IsFull())

	for i := 0; i < 3; i++ {
		_, err = b.DropDisk(1, Player2)
		require.NoError(t, err)
	}
	require.True(t, b.IsFull())
	require.Empty(t, b.LegalMoves())
}

func TestSimulateMoveLeavesOriginal(t *testing.T) {
	b := NewStandardBoard()
	next, row, err := b.SimulateMove(3, Player1)
	require.NoError(t, err)
	require.Equal(t, Rows-1, row)
	require.Equal(t, Player1, next[Rows-1][3])
	require.Equal(t, Empty, b[Rows-1][3], "source board must not change")
}

func TestCloneIsDeep(t *testing.T) {
	b := NewStandardBoard()
	c := b.Clone()
	c[0][0] = Player2
	require.Equal(t, Empty, b[0][0])
}

func TestBoardIntsRoundTrip(t *testing.T) {
	b := NewStandardBoard()
	b.DropDisk(2, Player1)
	b.DropDisk(2, Player2)
	require.Equal(t, b, BoardFromInts(b.Ints()))
}

func TestBoardString(t *testing.T) {
	b := NewBoard(2, 3)
	b.DropDisk(1, Player1)
	b.DropDisk(1, Player2)
	want := "| . O . |\n| . X . |\n+-------+\n  0 1 2\n"
	require.Equal(t, want, b.String())
}
