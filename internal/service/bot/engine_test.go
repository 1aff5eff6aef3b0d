package bot

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alfredoleano/Connect4AI/internal/domain"
)

func TestNewAgent(t *testing.T) {
	tests := []struct {
		kind      Kind
		wantName  string
		wantDepth int
	}{
		{KindAlphaBeta, "alphabeta-6", DefaultDepth},
		{KindExpectimax, "expectimax-6", DefaultDepth},
		{KindRandom, "random", 0},
		{KindHuman, "human", 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			agent, err := NewAgent(tt.kind, domain.Player2, Options{})
			require.NoError(t, err)
			require.Equal(t, tt.wantName, agent.Name())
			require.Equal(t, domain.Player2, agent.Player())
			require.Equal(t, tt.wantDepth, SearchDepth(agent))
		})
	}

	t.Run("unknown kind", func(t *testing.T) {
		agent, err := NewAgent("mcts", domain.Player1, Options{})
		require.ErrorIs(t, err, ErrUnknownAgent)
		require.Nil(t, agent)
	})

	t.Run("bad depth", func(t *testing.T) {
		agent, err := NewAgent(KindAlphaBeta, domain.Player1, Options{Depth: 1})
		require.ErrorIs(t, err, ErrInvalidDepth)
		require.Nil(t, agent, "no typed nil should escape")
	})

	t.Run("explicit depth", func(t *testing.T) {
		agent, err := NewAgent(KindExpectimax, domain.Player1, Options{Depth: 3})
		require.NoError(t, err)
		require.Equal(t, "expectimax-3", agent.Name())
		require.Equal(t, 3, SearchDepth(agent))
	})
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" AlphaBeta ")
	require.NoError(t, err)
	require.Equal(t, KindAlphaBeta, k)
	require.True(t, k.IsSearch())
	require.False(t, KindRandom.IsSearch())

	_, err = ParseKind("minimax")
	require.ErrorIs(t, err, ErrUnknownAgent)
}

func TestRandomAgent(t *testing.T) {
	b := boardFromRows(
		"X.O.X..",
		"O.X.O..",
		"X.O.X..",
		"O.X.O..",
		"X.O.X..",
		"O.X.O..",
	)
	legal := map[int]bool{1: true, 3: true, 5: true, 6: true}

	agent, err := NewRandomAgent(domain.Player1, 99)
	require.NoError(t, err)

	seen := map[int]int{}
	for i := 0; i < 400; i++ {
		col, err := agent.GetMove(b)
		require.NoError(t, err)
		require.True(t, legal[col], "column %d is full", col)
		seen[col]++
	}
	require.Len(t, seen, len(legal), "every legal column should come up")

	t.Run("same seed same sequence", func(t *testing.T) {
		a1, _ := NewRandomAgent(domain.Player1, 11)
		a2, _ := NewRandomAgent(domain.Player1, 11)
		for i := 0; i < 20; i++ {
			m1, _ := a1.GetMove(domain.NewStandardBoard())
			m2, _ := a2.GetMove(domain.NewStandardBoard())
			require.Equal(t, m1, m2)
		}
	})

	t.Run("full board", func(t *testing.T) {
		_, err := agent.GetMove(boardFromRows("XO", "OX"))
		require.ErrorIs(t, err, domain.ErrNoLegalMove)
	})
}

func TestHumanAgent(t *testing.T) {
	b := boardFromRows(
		"X..",
		"O..",
		"X..",
		"O..",
	)

	t.Run("re-prompts until legal", func(t *testing.T) {
		var out bytes.Buffer
		agent, err := NewHumanAgent(domain.Player1, strings.NewReader("abc\n0\n7\n-1\n3\n 2 \n"), &out)
		require.NoError(t, err)

		col, err := agent.GetMove(b)
		require.NoError(t, err)
		require.Equal(t, 2, col)
		require.Equal(t, 6, strings.Count(out.String(), "Enter your move: "))
		require.Contains(t, out.String(), "Not a column number, choose from:[1 2]")
		require.Equal(t, 1, strings.Count(out.String(), "Column full, choose from:[1 2]"))
		require.Equal(t, 3, strings.Count(out.String(), "Column out of range, choose from:[1 2]"))
	})

	t.Run("input ends", func(t *testing.T) {
		agent, err := NewHumanAgent(domain.Player2, strings.NewReader("0\n"), io.Discard)
		require.NoError(t, err)

		_, err = agent.GetMove(b)
		require.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("two humans share one reader", func(t *testing.T) {
		in := bufio.NewReader(strings.NewReader("1\n2\n1\n"))
		first, err := NewHumanAgent(domain.Player1, in, io.Discard)
		require.NoError(t, err)
		second, err := NewHumanAgent(domain.Player2, in, io.Discard)
		require.NoError(t, err)

		var got []int
		for _, agent := range []*HumanAgent{first, second, first} {
			col, err := agent.GetMove(b)
			require.NoError(t, err)
			got = append(got, col)
		}
		require.Equal(t, []int{1, 2, 1}, got)
	})

	t.Run("reads successive moves", func(t *testing.T) {
		agent, err := NewHumanAgent(domain.Player2, strings.NewReader("1\n2\n"), io.Discard)
		require.NoError(t, err)

		first, err := agent.GetMove(b)
		require.NoError(t, err)
		second, err := agent.GetMove(b)
		require.NoError(t, err)
		require.Equal(t, []int{1, 2}, []int{first, second})
	})
}
