package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/service/bot"
	"github.com/alfredoleano/Connect4AI/internal/service/match"
)

// Side is one contestant of a matchup.
type Side struct {
	Kind  bot.Kind
	Depth int
}

type Matchup struct {
	A, B    Side
	Games   int
	Workers int
	Rows    int
	Cols    int
	Seed    uint64
}

// Tally counts outcomes from A's point of view.
type Tally struct {
	AWins, BWins, Draws, Forfeits int
}

func (t Tally) String() string {
	return fmt.Sprintf("A %d, B %d, draws %d (forfeits %d)", t.AWins, t.BWins, t.Draws, t.Forfeits)
}

// aStarts reports whether side A plays first in game i. Starts alternate.
func aStarts(i int) bool {
	return i%2 == 0
}

func (m Matchup) agents(i int) (first, second bot.Agent, err error) {
	x, y := m.A, m.B
	if !aStarts(i) {
		x, y = y, x
	}
	seed := m.Seed + uint64(2*i)
	first, err = bot.NewAgent(x.Kind, domain.Player1, bot.Options{Depth: x.Depth, Seed: seed})
	if err != nil {
		return nil, nil, err
	}
	second, err = bot.NewAgent(y.Kind, domain.Player2, bot.Options{Depth: y.Depth, Seed: seed + 1})
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// Play runs every game of the matchup on a pool of workers. Results keep
// game order; onResult is called from the worker goroutines as games end.
func (m Matchup) Play(ctx context.Context, onResult func(i int, res *match.Result)) ([]*match.Result, Tally, error) {
	if m.A.Kind == bot.KindHuman || m.B.Kind == bot.KindHuman {
		return nil, Tally{}, fmt.Errorf("the arena only seats computer agents")
	}
	if m.Games < 0 {
		return nil, Tally{}, fmt.Errorf("game count must not be negative, got %d", m.Games)
	}
	if _, _, err := m.agents(0); err != nil {
		return nil, Tally{}, err
	}

	workers := m.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]*match.Result, m.Games)
	errs := make([]error, m.Games)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				first, second, err := m.agents(i)
				if err != nil {
					errs[i] = err
					continue
				}
				res, err := match.Run(ctx, first, second, match.Options{
					Rows:   m.Rows,
					Cols:   m.Cols,
					GameID: fmt.Sprintf("arena-%d-%04d", m.Seed, i),
				})
				results[i], errs[i] = res, err
				if err == nil && onResult != nil {
					onResult(i, res)
				}
			}
		}()
	}

feed:
	for i := 0; i < m.Games; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	var tally Tally
	played := results[:0:0]
	for i, res := range results {
		if errs[i] != nil || res == nil {
			continue
		}
		played = append(played, res)
		if res.Reason == match.ReasonForfeit {
			tally.Forfeits++
		}
		switch {
		case res.Winner == domain.Empty:
			tally.Draws++
		case (res.Winner == domain.Player1) == aStarts(i):
			tally.AWins++
		default:
			tally.BWins++
		}
	}
	if err := ctx.Err(); err != nil {
		return played, tally, err
	}
	for i, err := range errs {
		if err != nil {
			log.Error().Err(err).Int("game", i).Msg("game failed")
			return played, tally, err
		}
	}
	return played, tally, nil
}
