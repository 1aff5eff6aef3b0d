package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/config"
	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/service/bot"
	"github.com/alfredoleano/Connect4AI/internal/service/match"
)

var symbols = map[domain.PlayerID]string{domain.Player1: "X", domain.Player2: "O"}

func main() {
	p1 := flag.String("p1", "human", "Player 1 agent: human, alphabeta, expectimax or random")
	p2 := flag.String("p2", "alphabeta", "Player 2 agent: human, alphabeta, expectimax or random")
	depth1 := flag.Int("depth1", bot.DefaultDepth, "Search depth for player 1")
	depth2 := flag.Int("depth2", bot.DefaultDepth, "Search depth for player 2")
	rows := flag.Int("rows", domain.Rows, "Board rows")
	cols := flag.Int("cols", domain.Columns, "Board columns")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed for random agents")
	verbose := flag.Bool("v", false, "Log search details")
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	config.SetupLogging(level, true)

	if *rows < 1 || *cols < 1 {
		log.Fatal().Int("rows", *rows).Int("cols", *cols).Msg("board needs at least one row and column")
	}

	stdin := bufio.NewReader(os.Stdin)
	first, err := newAgent(*p1, domain.Player1, *depth1, *seed, stdin)
	if err != nil {
		log.Fatal().Err(err).Msg("player 1")
	}
	second, err := newAgent(*p2, domain.Player2, *depth2, *seed+1, stdin)
	if err != nil {
		log.Fatal().Err(err).Msg("player 2")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("%s (X) vs %s (O)\n\n%s\n", first.Name(), second.Name(), domain.NewBoard(*rows, *cols))

	res, err := match.Run(ctx, first, second, match.Options{
		Rows: *rows,
		Cols: *cols,
		Observer: func(m domain.Move, board domain.Board) {
			fmt.Printf("%s plays column %d\n\n%s\n", symbols[m.Player], m.Column, board)
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("game aborted")
	}

	switch {
	case res.Winner == domain.Empty:
		fmt.Println("Draw!")
	case res.Reason == match.ReasonForfeit:
		fmt.Printf("%s (%s) wins by forfeit\n", res.AgentName(res.Winner), symbols[res.Winner])
	default:
		fmt.Printf("%s (%s) wins in %d moves\n", res.AgentName(res.Winner), symbols[res.Winner], len(res.Moves))
	}
}

// newAgent builds one side. Humans share stdin so neither buffers the
// other's lines.
func newAgent(kind string, player domain.PlayerID, depth int, seed uint64, stdin *bufio.Reader) (bot.Agent, error) {
	k, err := bot.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	return bot.NewAgent(k, player, bot.Options{Depth: depth, Seed: seed, In: stdin, Out: os.Stdout})
}
