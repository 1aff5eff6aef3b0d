package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/alfredoleano/Connect4AI/internal/config"
	"github.com/alfredoleano/Connect4AI/internal/domain"
	"github.com/alfredoleano/Connect4AI/internal/repository/archive"
	"github.com/alfredoleano/Connect4AI/internal/repository/postgres"
	"github.com/alfredoleano/Connect4AI/internal/service/bot"
	"github.com/alfredoleano/Connect4AI/internal/service/match"
)

func main() {
	agentA := flag.String("a", "alphabeta", "Agent A: alphabeta, expectimax or random")
	agentB := flag.String("b", "expectimax", "Agent B: alphabeta, expectimax or random")
	depthA := flag.Int("depth-a", 4, "Search depth for agent A")
	depthB := flag.Int("depth-b", 4, "Search depth for agent B")
	games := flag.Int("games", 10, "Number of games; starts alternate")
	workers := flag.Int("workers", 1, "Games played concurrently")
	rows := flag.Int("rows", domain.Rows, "Board rows")
	cols := flag.Int("cols", domain.Columns, "Board columns")
	seed := flag.Uint64("seed", uint64(time.Now().Unix()), "Seed for random agents")
	outDir := flag.String("out-dir", "", "Directory for the parquet move archive (empty disables)")
	saveDB := flag.Bool("save", true, "Save results to postgres when DATABASE_URL is set")
	readPath := flag.String("read", "", "Summarize an existing parquet archive and exit")
	flag.Parse()

	config.LoadEnvFiles()
	cfg := config.LoadConfig()
	config.SetupLogging(cfg.LogLevel, true)

	if *readPath != "" {
		if err := printSummary(*readPath); err != nil {
			log.Fatal().Err(err).Msg("failed to read archive")
		}
		return
	}
	if *rows < 1 || *cols < 1 || *games < 0 {
		log.Fatal().Int("rows", *rows).Int("cols", *cols).Int("games", *games).Msg("rows and cols must be positive and games not negative")
	}

	kindA, err := bot.ParseKind(*agentA)
	if err != nil {
		log.Fatal().Err(err).Msg("agent A")
	}
	kindB, err := bot.ParseKind(*agentB)
	if err != nil {
		log.Fatal().Err(err).Msg("agent B")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var repo *postgres.GameRepo
	if *saveDB && cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL, postgres.PoolOptions{MaxOpenConns: *workers + 1})
		if err != nil {
			log.Fatal().Err(err).Msg("database unavailable")
		}
		defer db.Close()
		repo = postgres.NewGameRepo(db)
	}

	m := Matchup{
		A:       Side{Kind: kindA, Depth: *depthA},
		B:       Side{Kind: kindB, Depth: *depthB},
		Games:   *games,
		Workers: *workers,
		Rows:    *rows,
		Cols:    *cols,
		Seed:    *seed,
	}

	start := time.Now()
	results, tally, err := m.Play(ctx, func(i int, res *match.Result) {
		log.Info().
			Int("game", i).
			Str("p1", res.AgentName(domain.Player1)).
			Str("p2", res.AgentName(domain.Player2)).
			Int("winner", int(res.Winner)).
			Str("reason", res.Reason).
			Int("moves", len(res.Moves)).
			Dur("took", res.Duration()).
			Msg("game over")
	})
	if err != nil {
		log.Error().Err(err).Msg("arena stopped early")
	}

	fmt.Printf("%s-%d (A) vs %s-%d (B) over %d games in %s: %s\n",
		kindA, *depthA, kindB, *depthB, len(results), time.Since(start).Round(time.Millisecond), tally)

	if *outDir != "" && len(results) > 0 {
		path, err := writeArchive(*outDir, results, *rows, *cols)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to write archive")
		}
		log.Info().Str("path", path).Msg("move archive written")
	}

	if repo != nil {
		saved := 0
		for _, res := range results {
			if err := repo.SaveGame(context.WithoutCancel(ctx), gameRecord(res)); err != nil {
				log.Error().Err(err).Str("game", res.GameID).Msg("failed to save game")
				continue
			}
			saved++
		}
		log.Info().Int("saved", saved).Msg("results saved to postgres")
	}
}

func evaluate(board domain.Board, player domain.PlayerID) int {
	v, err := bot.Evaluate(board, player)
	if err != nil {
		return 0
	}
	return v
}

func writeArchive(outDir string, results []*match.Result, rows, cols int) (string, error) {
	var records []archive.MoveRecord
	for _, res := range results {
		recs, err := archive.FromMoves(res.GameID, res.Moves, res.Agents, rows, cols, evaluate)
		if err != nil {
			return "", fmt.Errorf("game %s: %w", res.GameID, err)
		}
		records = append(records, recs...)
	}
	return archive.WriteMoves(outDir, "arena", records)
}

func gameRecord(res *match.Result) *postgres.GameRecord {
	return &postgres.GameRecord{
		GameID:          res.GameID,
		Player1Name:     res.AgentName(domain.Player1),
		Player2Name:     res.AgentName(domain.Player2),
		Agent:           "arena",
		Winner:          res.Winner,
		Reason:          res.Reason,
		TotalMoves:      len(res.Moves),
		DurationSeconds: int(res.Duration().Seconds()),
		CreatedAt:       res.StartedAt,
		FinishedAt:      res.FinishedAt,
		Moves:           res.Moves,
		Board:           res.Board.Ints(),
	}
}

func printSummary(path string) error {
	records, err := archive.ReadMoves(path)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d moves\n", path, len(records))
	for _, a := range archive.Summarize(records) {
		fmt.Printf("  %-16s games %4d  moves %6d  mean score %.1f\n", a.Agent, a.Games, a.Moves, a.MeanScore)
	}
	return nil
}
